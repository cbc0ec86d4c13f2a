package shapefile

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

var errUnexpectedEndOfData = errors.New("unexpected end of data")

// A byteSliceReader decodes primitive values from a byte slice with a sticky
// error. The Shapefile formats mix endianness within one record, so the
// big- and little-endian reads are kept as separate named methods.
type byteSliceReader struct {
	rest []byte
	err  error
}

func newByteSliceReader(data []byte) *byteSliceReader {
	return &byteSliceReader{
		rest: data,
	}
}

func (r *byteSliceReader) Err() error {
	return r.err
}

func (r *byteSliceReader) readUint32() int {
	if r.err != nil {
		return 0
	}
	if len(r.rest) < 4 {
		r.err = errUnexpectedEndOfData
		return 0
	}
	u := int(binary.LittleEndian.Uint32(r.rest[:4]))
	r.rest = r.rest[4:]
	return u
}

func (r *byteSliceReader) readUint32BigEndian() int {
	if r.err != nil {
		return 0
	}
	if len(r.rest) < 4 {
		r.err = errUnexpectedEndOfData
		return 0
	}
	u := int(binary.BigEndian.Uint32(r.rest[:4]))
	r.rest = r.rest[4:]
	return u
}

func (r *byteSliceReader) readFloat64() float64 {
	if r.err != nil {
		return 0
	}
	if len(r.rest) < 8 {
		r.err = errUnexpectedEndOfData
		return 0
	}
	f := math.Float64frombits(binary.LittleEndian.Uint64(r.rest[:8]))
	r.rest = r.rest[8:]
	return f
}

func (r *byteSliceReader) readFloat64Pair() (float64, float64) {
	if r.err != nil {
		return 0, 0
	}
	if len(r.rest) < 16 {
		r.err = errUnexpectedEndOfData
		return 0, 0
	}
	a := math.Float64frombits(binary.LittleEndian.Uint64(r.rest[:8]))
	b := math.Float64frombits(binary.LittleEndian.Uint64(r.rest[8:16]))
	r.rest = r.rest[16:]
	return a, b
}

// readXYs reads n X,Y vertex pairs.
func (r *byteSliceReader) readXYs(n int) []Point {
	if r.err != nil {
		return nil
	}
	if len(r.rest) < 16*n {
		r.err = errUnexpectedEndOfData
		return nil
	}
	points := make([]Point, n)
	for i := range n {
		points[i].X = math.Float64frombits(binary.LittleEndian.Uint64(r.rest[16*i : 16*i+8]))
		points[i].Y = math.Float64frombits(binary.LittleEndian.Uint64(r.rest[16*i+8 : 16*i+16]))
	}
	r.rest = r.rest[16*n:]
	return points
}

// readZs reads one Z ordinate per point into points.
func (r *byteSliceReader) readZs(points []Point) {
	if r.err != nil {
		return
	}
	if len(r.rest) < 8*len(points) {
		r.err = errUnexpectedEndOfData
		return
	}
	for i := range points {
		points[i].Z = math.Float64frombits(binary.LittleEndian.Uint64(r.rest[8*i : 8*i+8]))
	}
	r.rest = r.rest[8*len(points):]
}

// readMs reads one M ordinate per point into points, applying the no-data
// sentinel rule.
func (r *byteSliceReader) readMs(points []Point) {
	if r.err != nil {
		return
	}
	if len(r.rest) < 8*len(points) {
		r.err = errUnexpectedEndOfData
		return
	}
	for i := range points {
		points[i].M = measureFrom(math.Float64frombits(binary.LittleEndian.Uint64(r.rest[8*i : 8*i+8])))
	}
	r.rest = r.rest[8*len(points):]
}

// readPartStarts reads numParts part starting indices. The first must be
// zero and the rest must not exceed numPoints.
func (r *byteSliceReader) readPartStarts(numParts, numPoints int) []int {
	if r.err != nil {
		return nil
	}
	if len(r.rest) < 4*numParts {
		r.err = errUnexpectedEndOfData
		return nil
	}
	starts := make([]int, 0, numParts)
	for i := range numParts {
		start := int(binary.LittleEndian.Uint32(r.rest[4*i : 4*i+4]))
		if i == 0 && start != 0 {
			r.err = fmt.Errorf("%d: invalid first part start", start)
			return nil
		}
		if start > numPoints {
			r.err = fmt.Errorf("%d: invalid part start", start)
			return nil
		}
		starts = append(starts, start)
	}
	r.rest = r.rest[4*numParts:]
	return starts
}
