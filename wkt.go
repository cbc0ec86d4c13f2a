package shapefile

import (
	"strconv"
	"strings"
)

// MarshalWKT formats g as Well-Known Text. The Z suffix follows the
// geometry's Z channel; the M suffix appears only when at least one vertex
// carries a defined measure. A vertex without a measure in an M-suffixed
// geometry emits 0.
func MarshalWKT(g Geometry) string {
	var b wktBuilder
	hasZ := g.HasZ()
	hasM := g.HasM() && anyDefinedM(g)
	switch g := g.(type) {
	case Null:
		return "NULL"
	case *PointShape:
		b.tag("POINT", hasZ, hasM)
		b.group(func() {
			b.point(g.Point, hasZ, hasM)
		})
	case *MultiPoint:
		b.tag("MULTIPOINT", hasZ, hasM)
		b.group(func() {
			b.points(g.Points, hasZ, hasM)
		})
	case *PolyLine:
		if len(g.Parts) == 1 {
			b.tag("LINESTRING", hasZ, hasM)
			b.group(func() {
				b.points(g.Parts[0], hasZ, hasM)
			})
		} else {
			b.tag("MULTILINESTRING", hasZ, hasM)
			b.group(func() {
				b.list(len(g.Parts), func(i int) {
					b.group(func() {
						b.points(g.Parts[i], hasZ, hasM)
					})
				})
			})
		}
	case *Polygon:
		if len(g.Parts) == 1 {
			b.tag("POLYGON", hasZ, hasM)
			b.group(func() {
				b.rings(g.Parts[0].Rings, hasZ, hasM)
			})
		} else {
			b.tag("MULTIPOLYGON", hasZ, hasM)
			b.group(func() {
				b.list(len(g.Parts), func(i int) {
					b.group(func() {
						b.rings(g.Parts[i].Rings, hasZ, hasM)
					})
				})
			})
		}
	}
	return b.String()
}

type wktBuilder struct {
	strings.Builder
}

func (b *wktBuilder) tag(name string, hasZ, hasM bool) {
	b.WriteString(name)
	if hasZ {
		b.WriteString("Z")
	}
	if hasM {
		b.WriteString("M")
	}
}

func (b *wktBuilder) group(fn func()) {
	b.WriteByte('(')
	fn()
	b.WriteByte(')')
}

func (b *wktBuilder) list(n int, fn func(i int)) {
	for i := range n {
		if i > 0 {
			b.WriteString(", ")
		}
		fn(i)
	}
}

func (b *wktBuilder) point(p Point, hasZ, hasM bool) {
	b.WriteString(formatOrdinate(p.X))
	b.WriteByte(' ')
	b.WriteString(formatOrdinate(p.Y))
	if hasZ {
		b.WriteByte(' ')
		b.WriteString(formatOrdinate(p.Z))
	}
	if hasM {
		b.WriteByte(' ')
		if p.M.Defined {
			b.WriteString(formatOrdinate(p.M.Value))
		} else {
			b.WriteString("0")
		}
	}
}

func (b *wktBuilder) points(points []Point, hasZ, hasM bool) {
	b.list(len(points), func(i int) {
		b.point(points[i], hasZ, hasM)
	})
}

func (b *wktBuilder) rings(rings [][]Point, hasZ, hasM bool) {
	b.list(len(rings), func(i int) {
		b.group(func() {
			b.points(rings[i], hasZ, hasM)
		})
	})
}

func formatOrdinate(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
