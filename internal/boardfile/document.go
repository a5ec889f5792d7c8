// Package boardfile reads and writes board documents: the obstacles, size
// and endpoints of a search problem in JSON, YAML or GeoJSON form.
package boardfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"pathfinder"
)

// ErrUnsupportedFormat is returned by Load for unknown file extensions
var ErrUnsupportedFormat = errors.New("unsupported board file format")

// Document is the serialisable form of a board. Obstacles are vertex rings
// in either winding; a closing vertex equal to the first is allowed.
type Document struct {
	Width     float64              `json:"width" yaml:"width"`
	Height    float64              `json:"height" yaml:"height"`
	Start     pathfinder.Point     `json:"start" yaml:"start"`
	Goal      pathfinder.Point     `json:"goal" yaml:"goal"`
	Obstacles [][]pathfinder.Point `json:"obstacles" yaml:"obstacles"`
}

// Board validates the document and builds the board it describes
func (d Document) Board() (*pathfinder.Board, error) {
	polygons, err := d.Polygons()
	if err != nil {
		return nil, err
	}
	return pathfinder.NewBoard(d.Width, d.Height, polygons, d.Start, d.Goal)
}

// Polygons validates every obstacle ring
func (d Document) Polygons() ([]pathfinder.Polygon, error) {
	polygons := make([]pathfinder.Polygon, 0, len(d.Obstacles))
	for i, ring := range d.Obstacles {
		poly, err := pathfinder.NewPolygon(ring)
		if err != nil {
			return nil, fmt.Errorf("obstacle %d: %w", i, err)
		}
		polygons = append(polygons, poly)
	}
	return polygons, nil
}

// VertexCount is the number of obstacle vertices in the document
func (d Document) VertexCount() int {
	n := 0
	for _, ring := range d.Obstacles {
		n += len(ring)
	}
	return n
}

// FromBoard converts a board back into a document
func FromBoard(board *pathfinder.Board) Document {
	doc := Document{
		Width:  board.Width(),
		Height: board.Height(),
		Start:  board.Start(),
		Goal:   board.Goal(),
	}
	for _, p := range board.Polygons() {
		doc.Obstacles = append(doc.Obstacles, p.Vertices())
	}
	return doc
}

// Parse decodes data according to format, one of "json", "yaml" or "geojson"
func Parse(format string, data []byte) (Document, error) {
	decode, err := decoder(format)
	if err != nil {
		return Document{}, err
	}
	return decode(data)
}

func decoder(format string) (func([]byte) (Document, error), error) {
	switch strings.ToLower(format) {
	case "json":
		return ParseJSON, nil
	case "yaml", "yml":
		return ParseYAML, nil
	case "geojson":
		return ParseGeoJSON, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// Load reads a board document, choosing the decoder from the file extension
func Load(path string) (Document, error) {
	decode, err := decoder(strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return Document{}, fmt.Errorf("load %s: %w", filepath.Base(path), err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, err
	}
	doc, err := decode(data)
	if err != nil {
		return Document{}, fmt.Errorf("load %s: %w", filepath.Base(path), err)
	}
	return doc, nil
}
