package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"pathfinder"
	"pathfinder/internal/boardfile"
)

type createSessionRequest struct {
	// Board is a board document; the server's default board when absent.
	Board       json.RawMessage           `json:"board,omitempty"`
	Prepare     *boardfile.PrepareOptions `json:"prepare,omitempty"`
	Strategy    string                    `json:"strategy,omitempty"`
	Heuristic   string                    `json:"heuristic,omitempty"`
	GridSpacing *float64                  `json:"gridSpacing,omitempty"`
}

type sessionResponse struct {
	ID            string             `json:"id"`
	Strategy      string             `json:"strategy"`
	Heuristic     string             `json:"heuristic"`
	GridSpacing   float64            `json:"gridSpacing,omitempty"`
	Status        string             `json:"status"`
	Done          bool               `json:"done"`
	Cursor        int                `json:"cursor"`
	HistoryLength int                `json:"historyLength"`
	BestPath      pathfinder.Path    `json:"bestPath,omitempty"`
	Cost          float64            `json:"cost,omitempty"`
	Board         boardfile.Document `json:"board"`
	Solution      *solutionView      `json:"solution,omitempty"`
}

// solutionView is the outcome of the full run, for showing the answer while
// the cursor is still somewhere in the middle
type solutionView struct {
	Result     pathfinder.StepResult `json:"result"`
	TotalSteps int                   `json:"totalSteps"`
}

type stepResponse struct {
	Result pathfinder.StepResult   `json:"result"`
	Cursor int                     `json:"cursor"`
	State  *pathfinder.SearchState `json:"state,omitempty"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to encode response: %v\n", err)
	}
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, errorResponse{Success: false, Error: err.Error()})
}

// sessionFor looks up the {id} route variable, answering 404 itself when the
// session does not exist
func (s *Server) sessionFor(w http.ResponseWriter, r *http.Request) (*pathfinder.Engine, bool) {
	id := mux.Vars(r)["id"]
	e, ok := s.session(id)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("session %s not found", id))
	}
	return e, ok
}

func indexVar(r *http.Request) int {
	// the route pattern guarantees digits; overflow maps to an invalid index
	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		return -1
	}
	return index
}

func viewOf(e *pathfinder.Engine) sessionResponse {
	res := e.Result()
	view := sessionResponse{
		ID:            e.ID(),
		Strategy:      e.Kind().String(),
		Heuristic:     e.HeuristicKind().String(),
		GridSpacing:   e.Options().GridSpacing,
		Status:        res.Status.String(),
		Done:          e.Done(),
		Cursor:        e.Cursor(),
		HistoryLength: e.HistoryLen(),
		Board:         boardfile.FromBoard(e.Board()),
	}
	if path, ok := e.CurrentBestPath(); ok {
		view.BestPath = path
		view.Cost = path.Cost()
	}
	return view
}

func currentState(e *pathfinder.Engine) *pathfinder.SearchState {
	if state, ok := e.Current(); ok {
		return &state
	}
	return nil
}

// GET /health - Health check endpoint
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":      "ready",
		"numSessions": s.SessionCount(),
		"maxSessions": s.cfg.MaxSessions,
	})
}

// POST /sessions - Configure a new search
func (s *Server) createSessionHandler(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("invalid request body: %v\n", err)
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	doc := s.defaultBoard
	if len(req.Board) > 0 {
		parsed, err := boardfile.ParseJSON(req.Board)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		doc = parsed
	}
	if req.Prepare != nil {
		doc = boardfile.Prepare(doc, *req.Prepare)
	}

	kind := s.cfg.StrategyKind()
	if req.Strategy != "" {
		k, err := pathfinder.ParseStrategyKind(req.Strategy)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		kind = k
	}
	heuristic := s.cfg.HeuristicKind()
	if req.Heuristic != "" {
		h, err := pathfinder.ParseHeuristicKind(req.Heuristic)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		heuristic = h
	}
	spacing := s.cfg.GridSpacing
	if req.GridSpacing != nil {
		spacing = *req.GridSpacing
	}

	board, err := doc.Board()
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	e, err := pathfinder.Configure(board, kind, heuristic, pathfinder.WithGridSpacing(spacing))
	if err != nil {
		code := http.StatusBadRequest
		if errors.Is(err, pathfinder.ErrInvalidBoard) {
			code = http.StatusUnprocessableEntity
		}
		writeError(w, code, err)
		return
	}
	if err := s.addSession(e); err != nil {
		writeError(w, http.StatusTooManyRequests, err)
		return
	}

	log.Printf("session %s created: %s search, %s heuristic, %d obstacles\n",
		e.ID(), kind, heuristic, len(board.Polygons()))
	writeJSON(w, http.StatusCreated, viewOf(e))
}

// GET /sessions - List live session IDs
func (s *Server) listSessionsHandler(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	s.mu.RUnlock()
	writeJSON(w, http.StatusOK, map[string]interface{}{"sessions": ids})
}

// GET /sessions/{id} - Session view plus the outcome of the full run
func (s *Server) getSessionHandler(w http.ResponseWriter, r *http.Request) {
	e, ok := s.sessionFor(w, r)
	if !ok {
		return
	}
	view := viewOf(e)
	res, steps := e.Solution()
	view.Solution = &solutionView{Result: res, TotalSteps: steps}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) deleteSessionHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if !s.removeSession(id) {
		writeError(w, http.StatusNotFound, fmt.Errorf("session %s not found", id))
		return
	}
	log.Printf("session %s deleted\n", id)
	w.WriteHeader(http.StatusNoContent)
}

// POST /sessions/{id}/step - Advance one snapshot
func (s *Server) stepHandler(w http.ResponseWriter, r *http.Request) {
	e, ok := s.sessionFor(w, r)
	if !ok {
		return
	}
	res := e.Step()
	writeJSON(w, http.StatusOK, stepResponse{Result: res, Cursor: e.Cursor(), State: currentState(e)})
}

// POST /sessions/{id}/back - Move the cursor one snapshot back
func (s *Server) stepBackHandler(w http.ResponseWriter, r *http.Request) {
	e, ok := s.sessionFor(w, r)
	if !ok {
		return
	}
	state, err := e.StepBack()
	s.writeState(w, e, state, err)
}

// POST /sessions/{id}/seek/{index} - Move the cursor to a snapshot
func (s *Server) seekHandler(w http.ResponseWriter, r *http.Request) {
	e, ok := s.sessionFor(w, r)
	if !ok {
		return
	}
	state, err := e.Seek(indexVar(r))
	s.writeState(w, e, state, err)
}

func (s *Server) writeState(w http.ResponseWriter, e *pathfinder.Engine, state pathfinder.SearchState, err error) {
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, pathfinder.ErrOutOfHistoryRange) {
			code = http.StatusNotFound
		}
		writeError(w, code, err)
		return
	}
	writeJSON(w, http.StatusOK, stepResponse{Result: state.Result(), Cursor: e.Cursor(), State: &state})
}

// POST /sessions/{id}/run - Step until the search finishes
func (s *Server) runHandler(w http.ResponseWriter, r *http.Request) {
	e, ok := s.sessionFor(w, r)
	if !ok {
		return
	}
	res, err := e.RunToCompletion(r.Context())
	if err != nil {
		log.Printf("session %s: run interrupted: %v\n", e.ID(), err)
		writeError(w, http.StatusServiceUnavailable, err)
		return
	}
	writeJSON(w, http.StatusOK, stepResponse{Result: res, Cursor: e.Cursor(), State: currentState(e)})
}

func (s *Server) resetHandler(w http.ResponseWriter, r *http.Request) {
	e, ok := s.sessionFor(w, r)
	if !ok {
		return
	}
	e.Reset()
	writeJSON(w, http.StatusOK, viewOf(e))
}

// PUT /sessions/{id}/heuristic - Switch heuristic and restart the run
func (s *Server) heuristicHandler(w http.ResponseWriter, r *http.Request) {
	e, ok := s.sessionFor(w, r)
	if !ok {
		return
	}
	var req struct {
		Heuristic string `json:"heuristic"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	kind, err := pathfinder.ParseHeuristicKind(req.Heuristic)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := e.SetHeuristic(kind); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(e))
}

func (s *Server) historyHandler(w http.ResponseWriter, r *http.Request) {
	e, ok := s.sessionFor(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"cursor":  e.Cursor(),
		"history": e.History(),
	})
}

// GET /sessions/{id}/history/{index} - One snapshot, cursor unchanged
func (s *Server) snapshotHandler(w http.ResponseWriter, r *http.Request) {
	e, ok := s.sessionFor(w, r)
	if !ok {
		return
	}
	state, err := e.Snapshot(indexVar(r))
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// GET /sessions/{id}/graph - Visibility edges as GeoJSON line strings
func (s *Server) graphHandler(w http.ResponseWriter, r *http.Request) {
	e, ok := s.sessionFor(w, r)
	if !ok {
		return
	}
	graph := e.Graph()
	if graph == nil {
		// dynamic sessions have no stored graph; build one for display
		graph = pathfinder.BuildVisibilityGraph(e.Board())
	}
	data, err := boardfile.LinesToGeoJSON(graph.Segments()).MarshalJSON()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	log.Printf("session %s: returning %d graph edges\n", e.ID(), graph.EdgeCount())
	w.Header().Set("Content-Type", "application/geo+json")
	w.Write(data)
}
