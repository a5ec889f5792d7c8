package server

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const writeWait = 5 * time.Second

// GET /sessions/{id}/watch - Timed playback over a WebSocket. The server
// steps the session once per playback interval and sends each step as a
// stepResponse frame, closing the connection once the search is done.
func (s *Server) watchHandler(w http.ResponseWriter, r *http.Request) {
	e, ok := s.sessionFor(w, r)
	if !ok {
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Failed to upgrade connection: %v\n", err)
		return
	}
	defer conn.Close()

	// The client never sends anything we use, but reading is what notices
	// that it went away.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	interval := s.cfg.PlaybackInterval
	if d, err := time.ParseDuration(r.URL.Query().Get("interval")); err == nil && d > 0 {
		interval = d
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Printf("session %s: watch started, one step every %s\n", e.ID(), interval)
	for {
		select {
		case <-gone:
			log.Printf("session %s: watcher disconnected\n", e.ID())
			return
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}

		res := e.Step()
		frame := stepResponse{Result: res, Cursor: e.Cursor(), State: currentState(e)}
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(frame); err != nil {
			log.Printf("session %s: failed to send step: %v\n", e.ID(), err)
			return
		}

		if e.Done() {
			msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, res.Status.String())
			conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
			log.Printf("session %s: watch finished with %s\n", e.ID(), res.Status)
			return
		}
	}
}
