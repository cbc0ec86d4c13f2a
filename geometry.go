package shapefile

// A Measure is a per-vertex M value. The Shapefile format encodes "no
// measure" as any value less than -1e38; a Measure keeps that state explicit
// instead of conflating it with a number.
type Measure struct {
	Defined bool
	Value   float64
}

// DefinedMeasure returns a defined Measure with the given value.
func DefinedMeasure(value float64) Measure {
	return Measure{Defined: true, Value: value}
}

// measureFrom applies the no-data sentinel rule to a raw M value.
func measureFrom(value float64) Measure {
	if noData(value) {
		return Measure{}
	}
	return DefinedMeasure(value)
}

// noData returns whether x is the Shapefile no-data sentinel.
func noData(x float64) bool {
	return x < -1e38
}

// A BBox is a geometry bounding box. MinZ/MaxZ are meaningful only when HasZ
// is set, MinM/MaxM only when HasM is set.
type BBox struct {
	MinX, MinY float64
	MaxX, MaxY float64
	MinZ, MaxZ float64
	MinM, MaxM Measure
	HasZ, HasM bool
}

// A Point is a single vertex. Z is meaningful only for geometries whose HasZ
// flag is set; M only where HasM is set.
type Point struct {
	X, Y float64
	Z    float64
	M    Measure
}

// A Geometry is one decoded shape record body.
type Geometry interface {
	// HasZ returns whether the geometry carries a Z channel.
	HasZ() bool
	// HasM returns whether the geometry carries an M channel.
	HasM() bool
	// BBox returns the record bounding box, or nil for geometries that have
	// none (Null and Point).
	BBox() *BBox

	isGeometry()
}

// A Null is a null shape record.
type Null struct{}

func (Null) HasZ() bool  { return false }
func (Null) HasM() bool  { return false }
func (Null) BBox() *BBox { return nil }
func (Null) isGeometry() {}

// A PointShape is a point record.
type PointShape struct {
	Point
	Z3D bool // Z channel present
	M4D bool // M channel present
}

func (p *PointShape) HasZ() bool  { return p.Z3D }
func (p *PointShape) HasM() bool  { return p.M4D }
func (p *PointShape) BBox() *BBox { return nil }
func (*PointShape) isGeometry()   {}

// A MultiPoint is a multipoint record.
type MultiPoint struct {
	Bounds BBox
	Points []Point
	Z3D    bool
	M4D    bool
}

func (m *MultiPoint) HasZ() bool  { return m.Z3D }
func (m *MultiPoint) HasM() bool  { return m.M4D }
func (m *MultiPoint) BBox() *BBox { return &m.Bounds }
func (*MultiPoint) isGeometry()   {}

// A PolyLine is a polyline record. Each part is an independent point
// sequence.
type PolyLine struct {
	Bounds BBox
	Parts  [][]Point
	Z3D    bool
	M4D    bool
}

func (p *PolyLine) HasZ() bool  { return p.Z3D }
func (p *PolyLine) HasM() bool  { return p.M4D }
func (p *PolyLine) BBox() *BBox { return &p.Bounds }
func (*PolyLine) isGeometry()   {}

// A Polygon is a polygon record after ring assembly. Within each part, ring
// 0 is the outer ring (clockwise in Shapefile convention) and the rest are
// holes.
type Polygon struct {
	Bounds BBox
	Parts  []PolygonPart
	Z3D    bool
	M4D    bool
}

// A PolygonPart is one outer ring and its holes.
type PolygonPart struct {
	Rings [][]Point
}

func (p *Polygon) HasZ() bool  { return p.Z3D }
func (p *Polygon) HasM() bool  { return p.M4D }
func (p *Polygon) BBox() *BBox { return &p.Bounds }
func (*Polygon) isGeometry()   {}

// anyDefinedM returns whether any vertex of g carries a defined M value.
func anyDefinedM(g Geometry) bool {
	switch g := g.(type) {
	case *PointShape:
		return g.M.Defined
	case *MultiPoint:
		for _, p := range g.Points {
			if p.M.Defined {
				return true
			}
		}
	case *PolyLine:
		for _, part := range g.Parts {
			for _, p := range part {
				if p.M.Defined {
					return true
				}
			}
		}
	case *Polygon:
		for _, part := range g.Parts {
			for _, ring := range part.Rings {
				for _, p := range ring {
					if p.M.Defined {
						return true
					}
				}
			}
		}
	}
	return false
}
