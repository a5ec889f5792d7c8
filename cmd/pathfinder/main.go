// Command pathfinder runs one search on a board file and prints the trace.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"pathfinder"
	"pathfinder/internal/boardfile"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("pathfinder", flag.ContinueOnError)
	boardPath := fs.String("board", "", "board file (.json, .yaml, .geojson); the built-in problem board when empty")
	strategy := fs.String("strategy", "graph", "search strategy (dynamic, graph)")
	heuristic := fs.String("heuristic", "euclidean", "heuristic (euclidean, manhattan)")
	grid := fs.Float64("grid", 0, "lattice spacing for the dynamic strategy")
	dropContained := fs.Bool("drop-contained", false, "drop obstacles inside other obstacles")
	simplify := fs.Float64("simplify", 0, "Douglas-Peucker tolerance for obstacle rings")
	trace := fs.Bool("trace", true, "print every step")
	export := fs.String("export", "", "write the board and the path as GeoJSON to this file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	kind, err := pathfinder.ParseStrategyKind(*strategy)
	if err != nil {
		return err
	}
	hkind, err := pathfinder.ParseHeuristicKind(*heuristic)
	if err != nil {
		return err
	}

	doc := boardfile.ProblemBoard()
	if *boardPath != "" {
		if doc, err = boardfile.Load(*boardPath); err != nil {
			return err
		}
	}
	doc = boardfile.Prepare(doc, boardfile.PrepareOptions{DropContained: *dropContained, SimplifyEpsilon: *simplify})

	board, err := doc.Board()
	if err != nil {
		return err
	}
	engine, err := pathfinder.Configure(board, kind, hkind, pathfinder.WithGridSpacing(*grid))
	if err != nil {
		return err
	}

	res, err := engine.RunToCompletion(context.Background())
	if err != nil {
		return err
	}
	if *trace {
		for _, st := range engine.History() {
			printStep(out, st)
		}
	}

	switch res.Status {
	case pathfinder.Found:
		fmt.Fprintf(out, "path found in %d steps, cost %.3f\n", engine.HistoryLen(), res.Cost)
		for i, p := range res.Path {
			fmt.Fprintf(out, "  %d: (%g, %g)\n", i, p.X, p.Y)
		}
	case pathfinder.NoPath:
		fmt.Fprintf(out, "no path after %d steps\n", engine.HistoryLen())
	}

	if *export != "" {
		return writeGeoJSON(*export, doc, res.Path)
	}
	return nil
}

func printStep(out io.Writer, st pathfinder.SearchState) {
	fmt.Fprintf(out, "step %3d: pop (%g, %g) g=%.3f open=%d closed=%d considered=%d",
		st.Step, st.Current.X, st.Current.Y, st.Cost, len(st.Open), len(st.Closed), len(st.Considered))
	if len(st.Reopened) > 0 {
		fmt.Fprintf(out, " reopened=%v", st.Reopened)
	}
	fmt.Fprintln(out)
}

func writeGeoJSON(path string, doc boardfile.Document, route pathfinder.Path) error {
	fc := boardfile.ToGeoJSON(doc)
	if len(route) > 1 {
		line := make(orb.LineString, 0, len(route))
		for _, p := range route {
			line = append(line, p.Orb())
		}
		f := geojson.NewFeature(line)
		f.Properties["role"] = "path"
		f.Properties["cost"] = route.Cost()
		fc.Append(f)
	}
	data, err := fc.MarshalJSON()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
