package boardfile

import (
	"fmt"
	"log"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"pathfinder"
)

// Feature roles understood in GeoJSON board files. Polygon and MultiPolygon
// features need no role; every one of them is an obstacle.
const (
	RoleStart = "start"
	RoleGoal  = "goal"
)

// ParseGeoJSON reads a FeatureCollection. Obstacles come from Polygon and
// MultiPolygon features (outer rings only), endpoints from Point features
// whose "role" property is "start" or "goal". The board size is taken from
// the collection's "width" and "height" members, or else from the extent of
// all features.
func ParseGeoJSON(data []byte) (Document, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return Document{}, fmt.Errorf("invalid GeoJSON: %w", err)
	}

	var doc Document
	var haveStart, haveGoal bool
	extent := orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{0, 0}}

	for i, feature := range fc.Features {
		if feature.Geometry == nil {
			continue
		}
		extent = extent.Union(feature.Geometry.Bound())

		switch g := feature.Geometry.(type) {
		case orb.Polygon:
			doc.Obstacles = appendOuterRing(doc.Obstacles, g, i)
		case orb.MultiPolygon:
			for _, poly := range g {
				doc.Obstacles = appendOuterRing(doc.Obstacles, poly, i)
			}
		case orb.Point:
			switch role := feature.Properties.MustString("role", ""); role {
			case RoleStart:
				doc.Start, haveStart = fromOrb(g), true
			case RoleGoal:
				doc.Goal, haveGoal = fromOrb(g), true
			default:
				log.Printf("geojson: ignoring point feature %d with role %q\n", i, role)
			}
		default:
			log.Printf("geojson: ignoring %s feature %d\n", feature.Geometry.GeoJSONType(), i)
		}
	}

	if !haveStart || !haveGoal {
		return Document{}, fmt.Errorf("%w: GeoJSON board needs point features with role %q and %q",
			pathfinder.ErrInvalidBoard, RoleStart, RoleGoal)
	}

	doc.Width = fc.ExtraMembers.MustFloat64("width", extent.Max[0])
	doc.Height = fc.ExtraMembers.MustFloat64("height", extent.Max[1])
	return doc, nil
}

func appendOuterRing(obstacles [][]pathfinder.Point, poly orb.Polygon, feature int) [][]pathfinder.Point {
	if len(poly) == 0 {
		return obstacles
	}
	if len(poly) > 1 {
		log.Printf("geojson: feature %d: ignoring %d interior rings\n", feature, len(poly)-1)
	}
	outer := poly[0]
	if len(outer) > 3 && outer[0] == outer[len(outer)-1] {
		outer = outer[:len(outer)-1]
	}
	ring := make([]pathfinder.Point, 0, len(outer))
	for _, p := range outer {
		ring = append(ring, fromOrb(p))
	}
	return append(obstacles, ring)
}

func fromOrb(p orb.Point) pathfinder.Point {
	return pathfinder.Point{X: p[0], Y: p[1]}
}

// ToGeoJSON converts a document into a FeatureCollection that ParseGeoJSON
// reads back unchanged
func ToGeoJSON(doc Document) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	fc.ExtraMembers = geojson.Properties{"width": doc.Width, "height": doc.Height}

	for _, ring := range doc.Obstacles {
		fc.Append(geojson.NewFeature(orb.Polygon{closedRing(ring)}))
	}
	for _, ep := range []struct {
		role string
		p    pathfinder.Point
	}{{RoleStart, doc.Start}, {RoleGoal, doc.Goal}} {
		f := geojson.NewFeature(ep.p.Orb())
		f.Properties["role"] = ep.role
		fc.Append(f)
	}
	return fc
}

// LinesToGeoJSON wraps segments as LineString features, e.g. for drawing a
// visibility graph or the moves considered in a step
func LinesToGeoJSON(segments []pathfinder.Segment) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, s := range segments {
		fc.Append(geojson.NewFeature(orb.LineString{s.A.Orb(), s.B.Orb()}))
	}
	return fc
}

// closedRing repeats the first vertex at the end as GeoJSON requires
func closedRing(vertices []pathfinder.Point) orb.Ring {
	ring := make(orb.Ring, 0, len(vertices)+1)
	for _, v := range vertices {
		ring = append(ring, v.Orb())
	}
	if len(vertices) > 0 && vertices[0] != vertices[len(vertices)-1] {
		ring = append(ring, vertices[0].Orb())
	}
	return ring
}
