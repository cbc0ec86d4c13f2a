package shapefile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSHXRecord(t *testing.T) {
	var w binaryWriter
	w.uint32BE(50)
	w.uint32BE(10)
	record := ParseSHXRecord(w.Bytes())
	assert.Equal(t, int64(100), record.Offset)
	assert.Equal(t, 20, record.ContentLength)
}

func TestReadSHXIndex(t *testing.T) {
	bodies := [][]byte{
		pointBody(ShapeTypePoint, 1, 2),
		pointBody(ShapeTypePoint, 3, 4),
		pointBody(ShapeTypePoint, 5, 6),
	}
	_, shx := buildSHPAndSHX(ShapeTypePoint, [8]float64{1, 2, 5, 6}, bodies)

	index, err := ReadSHXIndex(NewBytesByteSource(shx))
	require.NoError(t, err)
	assert.Equal(t, 3, index.NumRecords())
	assert.Equal(t, ShapeTypePoint, index.ShapeType)

	record, err := index.Record(1)
	require.NoError(t, err)
	assert.Equal(t, int64(headerSize), record.Offset)

	record, err = index.Record(2)
	require.NoError(t, err)
	// Header plus one record header and a 20-byte point body.
	assert.Equal(t, int64(headerSize+8+20), record.Offset)

	for _, i := range []int{0, -1, 4} {
		_, err := index.Record(i)
		require.Error(t, err)
		assert.Equal(t, ErrCodeIndexOutOfRange, CodeOf(err))
	}
}

func TestParseSHxHeader(t *testing.T) {
	var w binaryWriter
	buildSHxHeader(&w, ShapeTypePolyLineZ, headerSize, [8]float64{-1, -2, 3, 4, 10, 20, -1e40, 30})
	header, err := ParseSHxHeader(w.Bytes())
	require.NoError(t, err)
	assert.Equal(t, ShapeTypePolyLineZ, header.ShapeType)
	require.NotNil(t, header.Bounds)
	assert.Equal(t, -1.0, header.Bounds.MinX)
	assert.Equal(t, -2.0, header.Bounds.MinY)
	assert.Equal(t, 3.0, header.Bounds.MaxX)
	assert.Equal(t, 4.0, header.Bounds.MaxY)
	assert.LessOrEqual(t, header.Bounds.MinX, header.Bounds.MaxX)
	assert.LessOrEqual(t, header.Bounds.MinY, header.Bounds.MaxY)
	assert.True(t, header.Bounds.HasZ)
	assert.Equal(t, 10.0, header.Bounds.MinZ)
	assert.True(t, header.Bounds.HasM)
	assert.False(t, header.Bounds.MinM.Defined)
	assert.Equal(t, DefinedMeasure(30), header.Bounds.MaxM)
}

func TestParseSHxHeaderXYOnly(t *testing.T) {
	var w binaryWriter
	buildSHxHeader(&w, ShapeTypePoint, headerSize, [8]float64{0, 0, 1, 1})
	header, err := ParseSHxHeader(w.Bytes())
	require.NoError(t, err)
	assert.False(t, header.Bounds.HasZ)
	assert.False(t, header.Bounds.HasM)
}

func TestParseSHxHeaderUnsupportedShapeType(t *testing.T) {
	for _, shapeType := range []ShapeType{ShapeTypeMultiPatch, ShapeType(2), ShapeType(99)} {
		var w binaryWriter
		buildSHxHeader(&w, shapeType, headerSize, [8]float64{})
		_, err := ParseSHxHeader(w.Bytes())
		require.Error(t, err)
		assert.Equal(t, ErrCodeUnsupportedShapeType, CodeOf(err))
		assert.Equal(t, 21, int(CodeOf(err)))
	}
}
