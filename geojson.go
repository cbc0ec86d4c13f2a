package shapefile

import (
	"encoding/json"
)

type geoJSONGeometry struct {
	Type        string `json:"type"`
	Coordinates any    `json:"coordinates"`
}

type geoJSONFeature struct {
	Type       string          `json:"type"`
	BBox       []float64       `json:"bbox,omitempty"`
	Geometry   json.RawMessage `json:"geometry"`
	Properties json.RawMessage `json:"properties"`
}

// MarshalGeoJSONGeometry formats g as a GeoJSON geometry object. Geometries
// with an M channel get an M suffix on the type name, a non-standard but
// interoperable convention; an undefined measure emits 0. Polygon rings are
// reversed on the way out: GeoJSON winds outer rings counter-clockwise,
// the inverse of the Shapefile convention.
func MarshalGeoJSONGeometry(g Geometry) (string, error) {
	object, err := geoJSONGeometryObject(g)
	if err != nil {
		return "", err
	}
	return string(object), nil
}

func geoJSONGeometryObject(g Geometry) (json.RawMessage, error) {
	if _, isNull := g.(Null); isNull {
		return json.RawMessage("null"), nil
	}

	hasZ := g.HasZ()
	hasM := g.HasM()
	suffix := ""
	if hasM {
		suffix = "M"
	}

	var object geoJSONGeometry
	switch g := g.(type) {
	case *PointShape:
		object = geoJSONGeometry{
			Type:        "Point" + suffix,
			Coordinates: coordinate(g.Point, hasZ, hasM),
		}
	case *MultiPoint:
		object = geoJSONGeometry{
			Type:        "MultiPoint" + suffix,
			Coordinates: coordinates(g.Points, hasZ, hasM),
		}
	case *PolyLine:
		if len(g.Parts) == 1 {
			object = geoJSONGeometry{
				Type:        "LineString" + suffix,
				Coordinates: coordinates(g.Parts[0], hasZ, hasM),
			}
		} else {
			lines := make([][][]float64, 0, len(g.Parts))
			for _, part := range g.Parts {
				lines = append(lines, coordinates(part, hasZ, hasM))
			}
			object = geoJSONGeometry{
				Type:        "MultiLineString" + suffix,
				Coordinates: lines,
			}
		}
	case *Polygon:
		polygons := make([][][][]float64, 0, len(g.Parts))
		for _, part := range g.Parts {
			rings := make([][][]float64, 0, len(part.Rings))
			for _, ring := range part.Rings {
				rings = append(rings, coordinates(reversed(ring), hasZ, hasM))
			}
			polygons = append(polygons, rings)
		}
		if len(polygons) == 1 {
			object = geoJSONGeometry{
				Type:        "Polygon" + suffix,
				Coordinates: polygons[0],
			}
		} else {
			object = geoJSONGeometry{
				Type:        "MultiPolygon" + suffix,
				Coordinates: polygons,
			}
		}
	}
	return json.Marshal(object)
}

// MarshalGeoJSONFeature formats g and its attribute row as a GeoJSON
// feature. The bbox member is emitted for non-point geometries only, laid
// out mins first in full, then maxes in full.
func MarshalGeoJSONFeature(g Geometry, attributes *AttributeRow) (string, error) {
	geometry, err := geoJSONGeometryObject(g)
	if err != nil {
		return "", err
	}

	properties := json.RawMessage("null")
	if attributes != nil {
		properties, err = json.Marshal(attributes)
		if err != nil {
			return "", err
		}
	}

	feature := geoJSONFeature{
		Type:       "Feature",
		Geometry:   geometry,
		Properties: properties,
	}
	if bounds := g.BBox(); bounds != nil {
		feature.BBox = geoJSONBBox(bounds)
	}

	data, err := json.Marshal(feature)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func geoJSONBBox(bounds *BBox) []float64 {
	bbox := make([]float64, 0, 8)
	bbox = append(bbox, bounds.MinX, bounds.MinY)
	if bounds.HasZ {
		bbox = append(bbox, bounds.MinZ)
	}
	if bounds.HasM {
		bbox = append(bbox, measureOrZero(bounds.MinM))
	}
	bbox = append(bbox, bounds.MaxX, bounds.MaxY)
	if bounds.HasZ {
		bbox = append(bbox, bounds.MaxZ)
	}
	if bounds.HasM {
		bbox = append(bbox, measureOrZero(bounds.MaxM))
	}
	return bbox
}

func coordinate(p Point, hasZ, hasM bool) []float64 {
	coords := make([]float64, 0, 4)
	coords = append(coords, p.X, p.Y)
	if hasZ {
		coords = append(coords, p.Z)
	}
	if hasM {
		coords = append(coords, measureOrZero(p.M))
	}
	return coords
}

func coordinates(points []Point, hasZ, hasM bool) [][]float64 {
	coords := make([][]float64, 0, len(points))
	for _, p := range points {
		coords = append(coords, coordinate(p, hasZ, hasM))
	}
	return coords
}

func reversed(points []Point) []Point {
	out := make([]Point, len(points))
	for i, p := range points {
		out[len(points)-1-i] = p
	}
	return out
}

func measureOrZero(m Measure) float64 {
	if m.Defined {
		return m.Value
	}
	return 0
}
