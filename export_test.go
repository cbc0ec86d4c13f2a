package shapefile

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
)

type cityRow struct {
	Name       string  `shp:"name"`
	Population float64 `shp:"pop"`
	Geometry   geom.T  `shp:"geometry"`
}

type cityRowWKT struct {
	Name     string `shp:"name"`
	Geometry string `shp:"geometry"`
}

func TestExport(t *testing.T) {
	shp, shx := buildSHPAndSHX(ShapeTypePoint, [8]float64{1, 2, 1, 2}, [][]byte{
		pointBody(ShapeTypePoint, 1, 2),
	})
	dbf := buildDBF(
		[]testField{
			{name: "NAME", fieldTyp: 'C', length: 16},
			{name: "POP", fieldTyp: 'N', length: 8},
		},
		[][]string{{"Bern", "134000"}},
		nil,
	)
	cursor, err := newTestCursor(shp, shx, dbf, &CursorOptions{
		DBF: &ReadDBFOptions{ParseNumerics: true},
	})
	require.NoError(t, err)
	defer cursor.Close()

	record, err := cursor.Read()
	require.NoError(t, err)

	t.Run("geom geometry", func(t *testing.T) {
		exporter, err := cursor.NewExporter(reflect.TypeOf(cityRow{}))
		require.NoError(t, err)
		exported, err := record.Export(exporter)
		require.NoError(t, err)
		city, ok := exported.(cityRow)
		require.True(t, ok)
		assert.Equal(t, "Bern", city.Name)
		assert.Equal(t, 134000.0, city.Population)
		require.NotNil(t, city.Geometry)
		assert.Equal(t, []float64{1, 2}, city.Geometry.FlatCoords())
	})

	t.Run("wkt geometry", func(t *testing.T) {
		exporter, err := cursor.NewExporter(reflect.TypeOf(cityRowWKT{}))
		require.NoError(t, err)
		exported, err := record.Export(exporter)
		require.NoError(t, err)
		city, ok := exported.(cityRowWKT)
		require.True(t, ok)
		assert.Equal(t, "Bern", city.Name)
		assert.Equal(t, "POINT(1 2)", city.Geometry)
	})
}

func TestNewExporterRejectsNonStruct(t *testing.T) {
	_, err := NewExporter(reflect.TypeOf(""), "shp", nil)
	require.Error(t, err)
	_, err = NewExporter(nil, "shp", nil)
	require.Error(t, err)
}
