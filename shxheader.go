package shapefile

import (
	"encoding/binary"
	"math"
)

// A SHxHeader is the 100-byte header shared by .shp and .shx files.
type SHxHeader struct {
	ShapeType ShapeType
	Bounds    *BBox
}

// readSHxHeader reads a SHxHeader from the start of src.
func readSHxHeader(src ByteSource) (*SHxHeader, error) {
	if src.Size() < headerSize {
		return nil, newError(ErrCodeFileOpen, "file too short: %d bytes", src.Size())
	}
	data := make([]byte, headerSize)
	if err := readFullAt(src, 0, data); err != nil {
		return nil, err
	}
	return ParseSHxHeader(data)
}

// ParseSHxHeader parses a SHxHeader from data. Only the shape type and the
// bounding box are consumed; the file code and length words at the front of
// the header are left to the writer side of the format.
func ParseSHxHeader(data []byte) (*SHxHeader, error) {
	if len(data) != headerSize {
		return nil, newError(ErrCodeFileOpen, "invalid header length %d", len(data))
	}

	shapeType := ShapeType(binary.LittleEndian.Uint32(data[32:36]))
	if !shapeType.supported() {
		return nil, newError(ErrCodeUnsupportedShapeType, "%d: unsupported shape type", uint(shapeType))
	}

	if shapeType == ShapeTypeNull {
		return &SHxHeader{ShapeType: shapeType}, nil
	}

	bounds := &BBox{
		MinX: math.Float64frombits(binary.LittleEndian.Uint64(data[36:44])),
		MinY: math.Float64frombits(binary.LittleEndian.Uint64(data[44:52])),
		MaxX: math.Float64frombits(binary.LittleEndian.Uint64(data[52:60])),
		MaxY: math.Float64frombits(binary.LittleEndian.Uint64(data[60:68])),
	}
	if shapeType.hasZ() {
		bounds.HasZ = true
		bounds.MinZ = math.Float64frombits(binary.LittleEndian.Uint64(data[68:76]))
		bounds.MaxZ = math.Float64frombits(binary.LittleEndian.Uint64(data[76:84]))
	}
	if shapeType.hasM() {
		bounds.HasM = true
		bounds.MinM = measureFrom(math.Float64frombits(binary.LittleEndian.Uint64(data[84:92])))
		bounds.MaxM = measureFrom(math.Float64frombits(binary.LittleEndian.Uint64(data[92:100])))
	}

	return &SHxHeader{
		ShapeType: shapeType,
		Bounds:    bounds,
	}, nil
}
