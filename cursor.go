package shapefile

import (
	"errors"
	"fmt"
	"io"
)

// A Format selects the per-record output surface.
type Format int

// Output formats.
const (
	// FormatDefault uses the cursor's configured default format.
	FormatDefault Format = iota
	// FormatStruct returns the *Record itself.
	FormatStruct
	// FormatWKT returns the geometry as a WKT string.
	FormatWKT
	// FormatGeoJSONGeometry returns the geometry as a GeoJSON geometry
	// object.
	FormatGeoJSONGeometry
	// FormatGeoJSONFeature returns a GeoJSON feature with the attribute row
	// as its properties.
	FormatGeoJSONFeature
	// FormatBoth returns a *Bundle with the WKT and GeoJSON geometry
	// serializations side by side.
	FormatBoth
)

// CursorOptions configure a Cursor.
type CursorOptions struct {
	SHP *ReadSHPOptions
	DBF *ReadDBFOptions
	// DefaultFormat is the format used by Read and Take when the caller
	// passes FormatDefault. The zero value means FormatStruct.
	DefaultFormat Format
}

// withCharset returns options with the DBF charset set, filling in any nil
// intermediate structs. The receiver may be nil.
func (o *CursorOptions) withCharset(name string) *CursorOptions {
	if o == nil {
		return &CursorOptions{DBF: &ReadDBFOptions{Charset: name}}
	}
	if o.DBF == nil {
		o.DBF = &ReadDBFOptions{Charset: name}
	} else if o.DBF.Charset == "" {
		o.DBF.Charset = name
	}
	return o
}

// A Record is one geometry joined with its attribute row.
type Record struct {
	Number     int
	Geometry   Geometry
	Attributes *AttributeRow
}

// A Bundle is a record with its WKT and GeoJSON serializations attached.
type Bundle struct {
	Record  *Record
	WKT     string
	GeoJSON string
}

// A Cursor iterates over the records of a dataset in ordinal order, with
// random access through the .shx index. A cursor owns its three byte
// sources; it is not safe for concurrent use.
type Cursor struct {
	shp        *SHPFile
	shx        *SHXIndex
	dbf        *DBFTable
	options    *CursorOptions
	projection string
	current    int // 0 means EOF
}

// NewCursor builds a cursor over pre-opened byte sources for the .shp,
// .shx, and .dbf files.
func NewCursor(shpSource, shxSource, dbfSource ByteSource, options *CursorOptions) (*Cursor, error) {
	if options == nil {
		options = &CursorOptions{}
	}
	shx, err := ReadSHXIndex(shxSource)
	if err != nil {
		return nil, fmt.Errorf("shx: %w", err)
	}
	shp, err := ReadSHPFile(shpSource, options.SHP)
	if err != nil {
		return nil, fmt.Errorf("shp: %w", err)
	}
	dbf, err := ReadDBFTable(dbfSource, shx.NumRecords(), options.DBF)
	if err != nil {
		return nil, fmt.Errorf("dbf: %w", err)
	}
	cursor := &Cursor{
		shp:     shp,
		shx:     shx,
		dbf:     dbf,
		options: options,
	}
	cursor.Rewind()
	return cursor, nil
}

// Close releases the cursor's byte sources.
func (c *Cursor) Close() error {
	return errors.Join(
		closeByteSource(c.shp.source),
		closeByteSource(c.shx.source),
		closeByteSource(c.dbf.source),
	)
}

// NumRecords returns the record count shared by the three files.
func (c *Cursor) NumRecords() int {
	return c.shx.NumRecords()
}

// ShapeType returns the dataset's declared shape type.
func (c *Cursor) ShapeType() ShapeType {
	return c.shp.ShapeType
}

// Bounds returns the file bounding box from the .shp header, with
// suppressed channels dropped.
func (c *Cursor) Bounds() *BBox {
	if c.shp.Bounds == nil {
		return nil
	}
	bounds := *c.shp.Bounds
	if c.options.SHP != nil {
		if c.options.SHP.SuppressZ {
			bounds.HasZ = false
			bounds.MinZ, bounds.MaxZ = 0, 0
		}
		if c.options.SHP.SuppressM {
			bounds.HasM = false
			bounds.MinM, bounds.MaxM = Measure{}, Measure{}
		}
	}
	return &bounds
}

// Projection returns the contents of the .prj sidecar, or the empty string
// if there was none.
func (c *Cursor) Projection() string {
	return c.projection
}

// FieldDescriptors returns the attribute table schema.
func (c *Cursor) FieldDescriptors() []*DBFFieldDescriptor {
	return c.dbf.FieldDescriptors
}

// Rewind positions the cursor on the first record, or at EOF for an empty
// dataset.
func (c *Cursor) Rewind() {
	if c.shx.NumRecords() > 0 {
		c.current = 1
	} else {
		c.current = 0
	}
}

// Next advances to the following record. Past the last record the cursor
// becomes EOF.
func (c *Cursor) Next() {
	if c.current == 0 {
		return
	}
	c.current++
	if c.current > c.shx.NumRecords() {
		c.current = 0
	}
}

// SeekRecord positions the cursor on the i-th record, 1-based.
func (c *Cursor) SeekRecord(i int) error {
	if i < 1 || i > c.shx.NumRecords() {
		return newError(ErrCodeIndexOutOfRange, "%d: record number out of range [1, %d]", i, c.shx.NumRecords())
	}
	c.current = i
	return nil
}

// CurrentRecord returns the 1-based ordinal of the current record, or 0 at
// EOF.
func (c *Cursor) CurrentRecord() int {
	return c.current
}

// Read decodes the record at the current position without advancing. At EOF
// it returns io.EOF.
func (c *Cursor) Read() (*Record, error) {
	if c.current == 0 {
		return nil, io.EOF
	}
	return c.record(c.current)
}

// ReadFormat decodes the record at the current position and converts it to
// the requested output format: *Record for FormatStruct, string for
// FormatWKT and the GeoJSON formats, *Bundle for FormatBoth.
func (c *Cursor) ReadFormat(format Format) (any, error) {
	record, err := c.Read()
	if err != nil {
		return nil, err
	}
	return c.emit(record, format)
}

// Take reads the record at the current position, then advances.
func (c *Cursor) Take() (*Record, error) {
	record, err := c.Read()
	if err != nil {
		return nil, err
	}
	c.Next()
	return record, nil
}

// TakeFormat reads the record at the current position in the requested
// format, then advances.
func (c *Cursor) TakeFormat(format Format) (any, error) {
	output, err := c.ReadFormat(format)
	if err != nil {
		return nil, err
	}
	c.Next()
	return output, nil
}

// record decodes the i-th geometry and attribute row.
func (c *Cursor) record(i int) (*Record, error) {
	shxRecord, err := c.shx.Record(i)
	if err != nil {
		return nil, err
	}
	shpRecord, err := c.shp.RecordAt(shxRecord.Offset)
	if err != nil {
		return nil, fmt.Errorf("record %d: %w", i, err)
	}
	if shpRecord.Number != i {
		return nil, fmt.Errorf("record %d: %w", i,
			newError(ErrCodeFileOpen, "embedded record number %d does not match", shpRecord.Number))
	}
	attributes, err := c.dbf.Record(i)
	if err != nil {
		return nil, fmt.Errorf("record %d: %w", i, err)
	}
	return &Record{
		Number:     i,
		Geometry:   shpRecord.Geom,
		Attributes: attributes,
	}, nil
}

func (c *Cursor) emit(record *Record, format Format) (any, error) {
	if format == FormatDefault {
		format = c.options.DefaultFormat
		if format == FormatDefault {
			format = FormatStruct
		}
	}
	switch format {
	case FormatStruct:
		return record, nil
	case FormatWKT:
		return MarshalWKT(record.Geometry), nil
	case FormatGeoJSONGeometry:
		return MarshalGeoJSONGeometry(record.Geometry)
	case FormatGeoJSONFeature:
		return MarshalGeoJSONFeature(record.Geometry, record.Attributes)
	case FormatBoth:
		geoJSON, err := MarshalGeoJSONGeometry(record.Geometry)
		if err != nil {
			return nil, err
		}
		return &Bundle{
			Record:  record,
			WKT:     MarshalWKT(record.Geometry),
			GeoJSON: geoJSON,
		}, nil
	default:
		return nil, fmt.Errorf("%d: unknown format", format)
	}
}
