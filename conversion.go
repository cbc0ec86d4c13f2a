package shapefile

import (
	"github.com/twpayne/go-geom"
)

// Geom converts g to a go-geom geometry, for interoperability with the
// go-geom encoders and the wider ecosystem. Undefined measures become 0, as
// go-geom has no absent-measure representation. Null converts to nil.
func Geom(g Geometry) geom.T {
	layout := geomLayout(g)
	switch g := g.(type) {
	case *PointShape:
		return geom.NewPointFlat(layout, flatCoords(nil, []Point{g.Point}, g.Z3D, g.M4D))
	case *MultiPoint:
		return geom.NewMultiPointFlat(layout, flatCoords(nil, g.Points, g.Z3D, g.M4D))
	case *PolyLine:
		if len(g.Parts) == 1 {
			return geom.NewLineStringFlat(layout, flatCoords(nil, g.Parts[0], g.Z3D, g.M4D))
		}
		var flat []float64
		ends := make([]int, 0, len(g.Parts))
		for _, part := range g.Parts {
			flat = flatCoords(flat, part, g.Z3D, g.M4D)
			ends = append(ends, len(flat))
		}
		return geom.NewMultiLineStringFlat(layout, flat, ends)
	case *Polygon:
		if len(g.Parts) == 1 {
			var flat []float64
			ends := make([]int, 0, len(g.Parts[0].Rings))
			for _, ring := range g.Parts[0].Rings {
				flat = flatCoords(flat, ring, g.Z3D, g.M4D)
				ends = append(ends, len(flat))
			}
			return geom.NewPolygonFlat(layout, flat, ends)
		}
		var flat []float64
		endss := make([][]int, 0, len(g.Parts))
		for _, part := range g.Parts {
			ends := make([]int, 0, len(part.Rings))
			for _, ring := range part.Rings {
				flat = flatCoords(flat, ring, g.Z3D, g.M4D)
				ends = append(ends, len(flat))
			}
			endss = append(endss, ends)
		}
		return geom.NewMultiPolygonFlat(layout, flat, endss)
	default:
		return nil
	}
}

func geomLayout(g Geometry) geom.Layout {
	switch {
	case g.HasZ() && g.HasM():
		return geom.XYZM
	case g.HasZ():
		return geom.XYZ
	case g.HasM():
		return geom.XYM
	default:
		return geom.XY
	}
}

func flatCoords(flat []float64, points []Point, hasZ, hasM bool) []float64 {
	for _, p := range points {
		flat = append(flat, p.X, p.Y)
		if hasZ {
			flat = append(flat, p.Z)
		}
		if hasM {
			flat = append(flat, measureOrZero(p.M))
		}
	}
	return flat
}
