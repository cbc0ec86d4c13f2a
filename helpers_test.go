package shapefile

import (
	"bytes"
	"encoding/binary"
	"math"
)

// binaryWriter accumulates the little- and big-endian primitives of the
// Shapefile wire formats.
type binaryWriter struct {
	bytes.Buffer
}

func (w *binaryWriter) uint32LE(v uint32) {
	var data [4]byte
	binary.LittleEndian.PutUint32(data[:], v)
	w.Write(data[:])
}

func (w *binaryWriter) uint32BE(v uint32) {
	var data [4]byte
	binary.BigEndian.PutUint32(data[:], v)
	w.Write(data[:])
}

func (w *binaryWriter) uint16LE(v uint16) {
	var data [2]byte
	binary.LittleEndian.PutUint16(data[:], v)
	w.Write(data[:])
}

func (w *binaryWriter) float64LE(v float64) {
	var data [8]byte
	binary.LittleEndian.PutUint64(data[:], math.Float64bits(v))
	w.Write(data[:])
}

func (w *binaryWriter) float64sLE(vs ...float64) {
	for _, v := range vs {
		w.float64LE(v)
	}
}

// buildSHxHeader writes the shared 100-byte .shp/.shx header.
func buildSHxHeader(w *binaryWriter, shapeType ShapeType, fileLength int, bbox [8]float64) {
	w.uint32BE(9994)
	for range 5 {
		w.uint32BE(0)
	}
	w.uint32BE(uint32(fileLength / 2))
	w.uint32LE(1000)
	w.uint32LE(uint32(shapeType))
	w.float64sLE(bbox[:]...)
}

// buildSHPAndSHX frames the given record bodies into a .shp file and the
// matching .shx index.
func buildSHPAndSHX(shapeType ShapeType, bbox [8]float64, bodies [][]byte) (shp, shx []byte) {
	var shpRecords binaryWriter
	var shxRecords binaryWriter
	offset := headerSize
	for i, body := range bodies {
		shxRecords.uint32BE(uint32(offset / 2))
		shxRecords.uint32BE(uint32(len(body) / 2))
		shpRecords.uint32BE(uint32(i + 1))
		shpRecords.uint32BE(uint32(len(body) / 2))
		shpRecords.Write(body)
		offset += 8 + len(body)
	}

	var shpFile binaryWriter
	buildSHxHeader(&shpFile, shapeType, headerSize+shpRecords.Len(), bbox)
	shpFile.Write(shpRecords.Bytes())

	var shxFile binaryWriter
	buildSHxHeader(&shxFile, shapeType, headerSize+shxRecords.Len(), bbox)
	shxFile.Write(shxRecords.Bytes())

	return shpFile.Bytes(), shxFile.Bytes()
}

func pointBody(shapeType ShapeType, ordinates ...float64) []byte {
	var w binaryWriter
	w.uint32LE(uint32(shapeType))
	w.float64sLE(ordinates...)
	return w.Bytes()
}

func nullBody() []byte {
	var w binaryWriter
	w.uint32LE(uint32(ShapeTypeNull))
	return w.Bytes()
}

func multiPointBody(shapeType ShapeType, bbox [4]float64, xys [][2]float64, zRange [2]float64, zs []float64, mRange [2]float64, ms []float64) []byte {
	var w binaryWriter
	w.uint32LE(uint32(shapeType))
	w.float64sLE(bbox[:]...)
	w.uint32LE(uint32(len(xys)))
	for _, xy := range xys {
		w.float64sLE(xy[:]...)
	}
	if shapeType.hasZ() {
		w.float64sLE(zRange[:]...)
		w.float64sLE(zs...)
	}
	if shapeType.hasM() && ms != nil {
		w.float64sLE(mRange[:]...)
		w.float64sLE(ms...)
	}
	return w.Bytes()
}

// polyBody encodes a polyline or polygon record body. Each part carries its
// vertices as [x, y, z, m] with trailing ordinates ignored for lower
// dimensionalities. Pass withM false to omit the optional M block of a Z
// type.
func polyBody(shapeType ShapeType, bbox [4]float64, parts [][][4]float64, zRange, mRange [2]float64, withM bool) []byte {
	var w binaryWriter
	w.uint32LE(uint32(shapeType))
	w.float64sLE(bbox[:]...)
	w.uint32LE(uint32(len(parts)))
	numPoints := 0
	for _, part := range parts {
		numPoints += len(part)
	}
	w.uint32LE(uint32(numPoints))
	start := 0
	for _, part := range parts {
		w.uint32LE(uint32(start))
		start += len(part)
	}
	for _, part := range parts {
		for _, p := range part {
			w.float64sLE(p[0], p[1])
		}
	}
	if shapeType.hasZ() {
		w.float64sLE(zRange[:]...)
		for _, part := range parts {
			for _, p := range part {
				w.float64LE(p[2])
			}
		}
	}
	if shapeType.hasM() && withM {
		w.float64sLE(mRange[:]...)
		for _, part := range parts {
			for _, p := range part {
				w.float64LE(p[3])
			}
		}
	}
	return w.Bytes()
}

type testField struct {
	name     string
	fieldTyp byte
	length   int
	decimals int
}

// buildDBF writes a dBase III table with one row of raw field strings per
// record. Rows listed in deleted get a '*' deletion flag.
func buildDBF(fields []testField, rows [][]string, deleted map[int]bool) []byte {
	recordSize := 1
	for _, field := range fields {
		recordSize += field.length
	}
	headerLength := dbfHeaderLength + dbfFieldDescriptorSize*len(fields) + 1

	var w binaryWriter
	w.WriteByte(0x03)
	w.WriteByte(24)
	w.WriteByte(1)
	w.WriteByte(1)
	w.uint32LE(uint32(len(rows)))
	w.uint16LE(uint16(headerLength))
	w.uint16LE(uint16(recordSize))
	w.Write(make([]byte, 20))

	for _, field := range fields {
		name := make([]byte, 11)
		copy(name, field.name)
		w.Write(name)
		w.WriteByte(field.fieldTyp)
		w.Write(make([]byte, 4))
		w.WriteByte(byte(field.length))
		w.WriteByte(byte(field.decimals))
		w.Write(make([]byte, 14))
	}
	w.WriteByte(0x0d)

	for i, row := range rows {
		if deleted[i] {
			w.WriteByte('*')
		} else {
			w.WriteByte(' ')
		}
		for j, field := range fields {
			data := make([]byte, field.length)
			for k := range data {
				data[k] = ' '
			}
			copy(data, row[j])
			w.Write(data)
		}
	}
	w.WriteByte(0x1a)

	return w.Bytes()
}

// singleFieldDBF is the smallest useful table: one C field per row.
func singleFieldDBF(values ...string) []byte {
	rows := make([][]string, 0, len(values))
	for _, value := range values {
		rows = append(rows, []string{value})
	}
	return buildDBF([]testField{{name: "NAME", fieldTyp: 'C', length: 16}}, rows, nil)
}

func newTestCursor(shp, shx, dbf []byte, options *CursorOptions) (*Cursor, error) {
	return NewCursor(
		NewBytesByteSource(shp),
		NewBytesByteSource(shx),
		NewBytesByteSource(dbf),
		options,
	)
}
