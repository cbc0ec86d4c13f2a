package shapefile

import (
	"encoding/binary"
)

// A SHPRecord is one decoded shape record.
type SHPRecord struct {
	Number        int
	ContentLength int
	ShapeType     ShapeType
	Geom          Geometry
}

// ReadSHPOptions are options for decoding .shp records.
type ReadSHPOptions struct {
	MaxParts      int
	MaxPoints     int
	MaxRecordSize int
	// SuppressZ drops the Z channel from decoded geometries and bounding
	// boxes. The bytes are still consumed, so record framing is unaffected.
	SuppressZ bool
	// SuppressM drops the M channel, same rules as SuppressZ.
	SuppressM bool
}

// A SHPFile provides random access to shape records located by .shx
// offsets.
type SHPFile struct {
	SHxHeader
	source  ByteSource
	options *ReadSHPOptions
}

// ReadSHPFile reads the .shp header from src.
func ReadSHPFile(src ByteSource, options *ReadSHPOptions) (*SHPFile, error) {
	header, err := readSHxHeader(src)
	if err != nil {
		return nil, err
	}
	return &SHPFile{
		SHxHeader: *header,
		source:    src,
		options:   options,
	}, nil
}

// RecordAt decodes the record whose header starts at the given byte offset.
func (s *SHPFile) RecordAt(offset int64) (*SHPRecord, error) {
	recordHeaderData := make([]byte, 8)
	if err := readFullAt(s.source, offset, recordHeaderData); err != nil {
		return nil, err
	}
	recordNumber := int(binary.BigEndian.Uint32(recordHeaderData[:4]))
	contentLength := 2 * int(binary.BigEndian.Uint32(recordHeaderData[4:8]))
	if contentLength < 4 {
		return nil, newError(ErrCodeFileOpen, "record %d: content length too short", recordNumber)
	}
	if s.options != nil && s.options.MaxRecordSize != 0 && contentLength > s.options.MaxRecordSize {
		return nil, newError(ErrCodeFileOpen, "record %d: content length too large", recordNumber)
	}

	recordData := make([]byte, contentLength)
	if err := readFull(s.source, recordData); err != nil {
		return nil, wrapError(ErrCodeFileOpen, err)
	}
	return ParseSHPRecord(recordNumber, recordData, s.ShapeType, s.options)
}

// ParseSHPRecord parses one record body. The embedded shape type must be
// null or equal to the file's declared type.
func ParseSHPRecord(recordNumber int, recordData []byte, declared ShapeType, options *ReadSHPOptions) (*SHPRecord, error) {
	r := newByteSliceReader(recordData)

	shapeType := ShapeType(r.readUint32())
	if shapeType == ShapeTypeNull {
		return &SHPRecord{
			Number:        recordNumber,
			ContentLength: len(recordData),
			ShapeType:     ShapeTypeNull,
			Geom:          Null{},
		}, nil
	}
	if shapeType != declared {
		return nil, newError(ErrCodeWrongRecordType, "record %d: shape type %s does not match declared %s", recordNumber, shapeType, declared)
	}

	var geometry Geometry
	var err error
	switch shapeType {
	case ShapeTypePoint, ShapeTypePointZ, ShapeTypePointM:
		geometry, err = readPointShape(r, shapeType)
	case ShapeTypeMultiPoint, ShapeTypeMultiPointZ, ShapeTypeMultiPointM:
		geometry, err = readMultiPoint(r, shapeType, options)
	case ShapeTypePolyLine, ShapeTypePolyLineZ, ShapeTypePolyLineM:
		geometry, err = readPolyLine(r, shapeType, options)
	case ShapeTypePolygon, ShapeTypePolygonZ, ShapeTypePolygonM:
		var polyLine *PolyLine
		polyLine, err = readPolyLine(r, shapeType, options)
		if err == nil {
			geometry, err = assemblePolygon(polyLine)
		}
	default:
		return nil, newError(ErrCodeUnsupportedShapeType, "record %d: %s: unsupported shape type", recordNumber, shapeType)
	}
	if err != nil {
		return nil, err
	}

	if options != nil {
		suppressChannels(geometry, options.SuppressZ, options.SuppressM)
	}

	return &SHPRecord{
		Number:        recordNumber,
		ContentLength: len(recordData),
		ShapeType:     shapeType,
		Geom:          geometry,
	}, nil
}

func readPointShape(r *byteSliceReader, shapeType ShapeType) (*PointShape, error) {
	point := Point{}
	point.X = r.readFloat64()
	point.Y = r.readFloat64()
	if shapeType.hasZ() {
		point.Z = r.readFloat64()
	}
	if shapeType.hasM() {
		// The M ordinate is optional on the wire for Z types.
		if len(r.rest) >= 8 {
			point.M = measureFrom(r.readFloat64())
		}
	}
	if err := r.Err(); err != nil {
		return nil, wrapError(ErrCodeFileOpen, err)
	}
	return &PointShape{
		Point: point,
		Z3D:   shapeType.hasZ(),
		M4D:   shapeType.hasM(),
	}, nil
}

func readBBoxXY(r *byteSliceReader) BBox {
	var bounds BBox
	bounds.MinX, bounds.MinY = r.readFloat64Pair()
	bounds.MaxX, bounds.MaxY = r.readFloat64Pair()
	return bounds
}

func readMultiPoint(r *byteSliceReader, shapeType ShapeType, options *ReadSHPOptions) (*MultiPoint, error) {
	bounds := readBBoxXY(r)
	numPoints := r.readUint32()
	if options != nil && options.MaxPoints != 0 && numPoints > options.MaxPoints {
		return nil, newError(ErrCodeFileOpen, "%d: too many points", numPoints)
	}
	points := r.readXYs(numPoints)
	if shapeType.hasZ() {
		bounds.HasZ = true
		bounds.MinZ, bounds.MaxZ = r.readFloat64Pair()
		r.readZs(points)
	}
	if shapeType.hasM() {
		readMBlock(r, &bounds, points)
	}
	if err := r.Err(); err != nil {
		return nil, wrapError(ErrCodeFileOpen, err)
	}
	return &MultiPoint{
		Bounds: bounds,
		Points: points,
		Z3D:    shapeType.hasZ(),
		M4D:    shapeType.hasM(),
	}, nil
}

func readPolyLine(r *byteSliceReader, shapeType ShapeType, options *ReadSHPOptions) (*PolyLine, error) {
	bounds := readBBoxXY(r)
	numParts := r.readUint32()
	if numParts == 0 {
		return nil, newError(ErrCodeFileOpen, "invalid number of parts")
	}
	if options != nil && options.MaxParts != 0 && numParts > options.MaxParts {
		return nil, newError(ErrCodeFileOpen, "%d: too many parts", numParts)
	}
	numPoints := r.readUint32()
	if options != nil && options.MaxPoints != 0 && numPoints > options.MaxPoints {
		return nil, newError(ErrCodeFileOpen, "%d: too many points", numPoints)
	}
	starts := r.readPartStarts(numParts, numPoints)
	points := r.readXYs(numPoints)
	if shapeType.hasZ() {
		bounds.HasZ = true
		bounds.MinZ, bounds.MaxZ = r.readFloat64Pair()
		r.readZs(points)
	}
	if shapeType.hasM() {
		readMBlock(r, &bounds, points)
	}
	if err := r.Err(); err != nil {
		return nil, wrapError(ErrCodeFileOpen, err)
	}

	// Partition the flat point list into parts by the next part's start.
	parts := make([][]Point, 0, numParts)
	for i, start := range starts {
		end := numPoints
		if i+1 < len(starts) {
			end = starts[i+1]
		}
		if end < start {
			return nil, newError(ErrCodeFileOpen, "%d: invalid part start", end)
		}
		parts = append(parts, points[start:end])
	}

	return &PolyLine{
		Bounds: bounds,
		Parts:  parts,
		Z3D:    shapeType.hasZ(),
		M4D:    shapeType.hasM(),
	}, nil
}

// readMBlock reads the M range and per-point M values. The whole block is
// optional on the wire; when absent every measure stays undefined.
func readMBlock(r *byteSliceReader, bounds *BBox, points []Point) {
	bounds.HasM = true
	if r.err != nil || len(r.rest) < 8*(2+len(points)) {
		return
	}
	minM, maxM := r.readFloat64Pair()
	bounds.MinM = measureFrom(minM)
	bounds.MaxM = measureFrom(maxM)
	r.readMs(points)
}

// suppressChannels drops the Z and/or M channel from an already decoded
// geometry. The wire bytes were consumed during the decode, so only the
// in-memory representation changes.
func suppressChannels(g Geometry, suppressZ, suppressM bool) {
	if !suppressZ && !suppressM {
		return
	}
	clearPoints := func(points []Point) {
		for i := range points {
			if suppressZ {
				points[i].Z = 0
			}
			if suppressM {
				points[i].M = Measure{}
			}
		}
	}
	clearBounds := func(bounds *BBox) {
		if suppressZ {
			bounds.HasZ = false
			bounds.MinZ, bounds.MaxZ = 0, 0
		}
		if suppressM {
			bounds.HasM = false
			bounds.MinM, bounds.MaxM = Measure{}, Measure{}
		}
	}
	switch g := g.(type) {
	case *PointShape:
		if suppressZ {
			g.Z3D = false
			g.Z = 0
		}
		if suppressM {
			g.M4D = false
			g.M = Measure{}
		}
	case *MultiPoint:
		if suppressZ {
			g.Z3D = false
		}
		if suppressM {
			g.M4D = false
		}
		clearPoints(g.Points)
		clearBounds(&g.Bounds)
	case *PolyLine:
		if suppressZ {
			g.Z3D = false
		}
		if suppressM {
			g.M4D = false
		}
		for _, part := range g.Parts {
			clearPoints(part)
		}
		clearBounds(&g.Bounds)
	case *Polygon:
		if suppressZ {
			g.Z3D = false
		}
		if suppressM {
			g.M4D = false
		}
		for _, part := range g.Parts {
			for _, ring := range part.Rings {
				clearPoints(ring)
			}
		}
		clearBounds(&g.Bounds)
	}
}
