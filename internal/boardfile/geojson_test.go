package boardfile

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pathfinder"
)

const zonesGeoJSON = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {"name": "hangar"},
     "geometry": {"type": "Polygon", "coordinates": [
       [[2, 2], [4, 2], [4, 4], [2, 4], [2, 2]],
       [[2.5, 2.5], [3, 2.5], [3, 3], [2.5, 2.5]]
     ]}},
    {"type": "Feature", "properties": {},
     "geometry": {"type": "MultiPolygon", "coordinates": [
       [[[6, 1], [8, 1], [7, 3], [6, 1]]],
       [[[6, 5], [8, 5], [7, 7], [6, 5]]]
     ]}},
    {"type": "Feature", "properties": {"role": "start"},
     "geometry": {"type": "Point", "coordinates": [0, 0]}},
    {"type": "Feature", "properties": {"role": "goal"},
     "geometry": {"type": "Point", "coordinates": [9, 8]}},
    {"type": "Feature", "properties": {"role": "waypoint"},
     "geometry": {"type": "Point", "coordinates": [1, 1]}},
    {"type": "Feature", "properties": {},
     "geometry": {"type": "LineString", "coordinates": [[0, 9], [12, 9]]}}
  ]
}`

func TestParseGeoJSON(t *testing.T) {
	doc, err := ParseGeoJSON([]byte(zonesGeoJSON))
	require.NoError(t, err)

	require.Len(t, doc.Obstacles, 3)
	assert.Equal(t, ring(2, 2, 4, 2, 4, 4, 2, 4), doc.Obstacles[0], "outer ring only, closing vertex dropped")
	assert.Equal(t, ring(6, 1, 8, 1, 7, 3), doc.Obstacles[1])
	assert.Equal(t, ring(6, 5, 8, 5, 7, 7), doc.Obstacles[2])
	assert.Equal(t, pathfinder.Point{X: 0, Y: 0}, doc.Start)
	assert.Equal(t, pathfinder.Point{X: 9, Y: 8}, doc.Goal)

	// no size members: the extent of every feature, the line included
	assert.Equal(t, 12.0, doc.Width)
	assert.Equal(t, 9.0, doc.Height)

	_, err = doc.Board()
	require.NoError(t, err)
}

func TestParseGeoJSONSizeMembers(t *testing.T) {
	data := `{"type": "FeatureCollection", "width": 50, "height": 40, "features": [
	  {"type": "Feature", "properties": {"role": "start"}, "geometry": {"type": "Point", "coordinates": [1, 1]}},
	  {"type": "Feature", "properties": {"role": "goal"}, "geometry": {"type": "Point", "coordinates": [2, 2]}}
	]}`
	doc, err := ParseGeoJSON([]byte(data))
	require.NoError(t, err)
	assert.Equal(t, 50.0, doc.Width)
	assert.Equal(t, 40.0, doc.Height)
	assert.Empty(t, doc.Obstacles)
}

func TestParseGeoJSONNeedsEndpoints(t *testing.T) {
	data := `{"type": "FeatureCollection", "features": [
	  {"type": "Feature", "properties": {"role": "start"}, "geometry": {"type": "Point", "coordinates": [1, 1]}}
	]}`
	_, err := ParseGeoJSON([]byte(data))
	assert.ErrorIs(t, err, pathfinder.ErrInvalidBoard)

	_, err = ParseGeoJSON([]byte(`{"type": "Feature"`))
	assert.Error(t, err)
}

func TestToGeoJSON(t *testing.T) {
	doc := ProblemBoard()
	fc := ToGeoJSON(doc)
	require.Len(t, fc.Features, len(doc.Obstacles)+2)

	poly, ok := fc.Features[0].Geometry.(orb.Polygon)
	require.True(t, ok)
	outer := poly[0]
	assert.Equal(t, outer[0], outer[len(outer)-1], "GeoJSON rings are closed")

	data, err := fc.MarshalJSON()
	require.NoError(t, err)
	again, err := ParseGeoJSON(data)
	require.NoError(t, err)
	assert.Equal(t, doc, again)
}

func TestLinesToGeoJSON(t *testing.T) {
	segments := []pathfinder.Segment{
		{A: pathfinder.Point{X: 0, Y: 0}, B: pathfinder.Point{X: 1, Y: 1}},
		{A: pathfinder.Point{X: 1, Y: 1}, B: pathfinder.Point{X: 2, Y: 0}},
	}
	fc := LinesToGeoJSON(segments)
	require.Len(t, fc.Features, 2)
	assert.Equal(t, orb.LineString{{1, 1}, {2, 0}}, fc.Features[1].Geometry)
}
