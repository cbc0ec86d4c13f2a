package shapefile

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"strconv"
	"time"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

const (
	dbfHeaderLength        = 32
	dbfFieldDescriptorSize = 32
)

// A DBFHeader is the fixed part of a .dbf file header.
type DBFHeader struct {
	Version    int
	LastUpdate time.Time
	Records    int
	HeaderSize int
	RecordSize int
}

// A DBFFieldDescriptor describes one column of the attribute table.
type DBFFieldDescriptor struct {
	Name         string
	Type         byte
	Length       int
	DecimalCount int
}

// ReadDBFOptions are options for decoding the attribute table.
type ReadDBFOptions struct {
	// Charset names the character set of string fields. Empty means
	// ISO-8859-1. Decoded output is always UTF-8.
	Charset string
	// ParseNumerics decodes N and F fields to float64 instead of returning
	// the trimmed string.
	ParseNumerics bool
}

// An Attribute is one named attribute value.
type Attribute struct {
	Name  string
	Value any
}

// An AttributeRow is one decoded table row, with attributes in file order.
type AttributeRow struct {
	Deleted    bool
	Attributes []Attribute
}

// Get returns the value of the named attribute.
func (r *AttributeRow) Get(name string) (any, bool) {
	for _, attribute := range r.Attributes {
		if attribute.Name == name {
			return attribute.Value, true
		}
	}
	return nil, false
}

// MarshalJSON encodes the row as a JSON object with a synthetic _deleted
// member first, then the attributes in file order.
func (r *AttributeRow) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"_deleted":`)
	if r.Deleted {
		buf.WriteString("true")
	} else {
		buf.WriteString("false")
	}
	for _, attribute := range r.Attributes {
		buf.WriteByte(',')
		name, err := json.Marshal(attribute.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		value, err := json.Marshal(attribute.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// A DBFTable provides random access to attribute rows by 1-based ordinal.
type DBFTable struct {
	DBFHeader
	FieldDescriptors []*DBFFieldDescriptor
	source           ByteSource
	options          *ReadDBFOptions
	decoder          *encoding.Decoder
}

// ReadDBFTable reads the .dbf header and field schema from src. The header
// record count must equal expectedRecords, the count implied by the .shx
// index.
func ReadDBFTable(src ByteSource, expectedRecords int, options *ReadDBFOptions) (*DBFTable, error) {
	headerData := make([]byte, dbfHeaderLength)
	if err := readFullAt(src, 0, headerData); err != nil {
		return nil, err
	}
	header := parseDBFHeader(headerData)
	if header.Records != expectedRecords {
		return nil, newError(ErrCodeDBFMismatched, "record count %d does not match index count %d", header.Records, expectedRecords)
	}
	if header.HeaderSize < dbfHeaderLength+1 {
		return nil, newError(ErrCodeDBFInvalid, "header size %d too small", header.HeaderSize)
	}
	// The trailing 0x1a end-of-file marker may be absent.
	if src.Size() < int64(header.HeaderSize)+int64(header.Records)*int64(header.RecordSize) {
		return nil, newError(ErrCodeDBFInvalid, "file size %d too small for %d records", src.Size(), header.Records)
	}

	schemaData := make([]byte, header.HeaderSize-dbfHeaderLength)
	if err := readFullAt(src, dbfHeaderLength, schemaData); err != nil {
		return nil, err
	}
	var fieldDescriptors []*DBFFieldDescriptor
	pos := 0
	for dbfHeaderLength+pos < header.HeaderSize-1 {
		if pos+dbfFieldDescriptorSize > len(schemaData) {
			return nil, newError(ErrCodeDBFInvalid, "truncated field descriptor")
		}
		fieldDescriptors = append(fieldDescriptors, parseDBFFieldDescriptor(schemaData[pos:pos+dbfFieldDescriptorSize]))
		pos += dbfFieldDescriptorSize
	}
	if pos >= len(schemaData) || schemaData[pos] != '\x0d' {
		return nil, newError(ErrCodeDBFInvalid, "missing field descriptor terminator")
	}

	var decoder *encoding.Decoder
	if options != nil && options.Charset != "" {
		enc, _ := charset.Lookup(options.Charset)
		if enc == nil {
			return nil, newError(ErrCodeDBFInvalid, "%s: unknown charset", options.Charset)
		}
		decoder = enc.NewDecoder()
	} else {
		decoder = charmap.ISO8859_1.NewDecoder()
	}

	return &DBFTable{
		DBFHeader:        *header,
		FieldDescriptors: fieldDescriptors,
		source:           src,
		options:          options,
		decoder:          decoder,
	}, nil
}

func parseDBFHeader(data []byte) *DBFHeader {
	lastUpdate := time.Date(int(data[1])+1900, time.Month(int(data[2])), int(data[3]), 0, 0, 0, 0, time.UTC)
	return &DBFHeader{
		Version:    int(data[0]),
		LastUpdate: lastUpdate,
		Records:    int(binary.LittleEndian.Uint32(data[4:8])),
		HeaderSize: int(binary.LittleEndian.Uint16(data[8:10])),
		RecordSize: int(binary.LittleEndian.Uint16(data[10:12])),
	}
}

func parseDBFFieldDescriptor(data []byte) *DBFFieldDescriptor {
	name := string(bytes.TrimRight(trimTrailingZeros(data[:11]), " \t"))
	return &DBFFieldDescriptor{
		Name:         name,
		Type:         data[11],
		Length:       int(data[16]),
		DecimalCount: int(data[17]),
	}
}

// Record returns the i-th attribute row, 1-based. Deleted rows decode
// normally with the Deleted flag set.
func (t *DBFTable) Record(i int) (*AttributeRow, error) {
	if i < 1 {
		return nil, newError(ErrCodeIndexOutOfRange, "%d: record number out of range [1, %d]", i, t.Records)
	}
	position := int64(t.HeaderSize) + int64(i-1)*int64(t.RecordSize)
	if position > t.source.Size()-int64(t.RecordSize)+1 {
		return nil, newError(ErrCodeDBFEOFReached, "record %d is past the end of the table", i)
	}
	recordData := make([]byte, t.RecordSize)
	if err := readFullAt(t.source, position, recordData); err != nil {
		return nil, err
	}
	return t.parseRecord(recordData)
}

func (t *DBFTable) parseRecord(recordData []byte) (*AttributeRow, error) {
	row := &AttributeRow{
		Deleted:    recordData[0] != ' ',
		Attributes: make([]Attribute, 0, len(t.FieldDescriptors)),
	}
	offset := 1
	for _, fieldDescriptor := range t.FieldDescriptors {
		if offset+fieldDescriptor.Length > len(recordData) {
			return nil, newError(ErrCodeDBFInvalid, "field %s: truncated record", fieldDescriptor.Name)
		}
		fieldData := recordData[offset : offset+fieldDescriptor.Length]
		offset += fieldDescriptor.Length
		row.Attributes = append(row.Attributes, Attribute{
			Name:  fieldDescriptor.Name,
			Value: t.parseField(fieldDescriptor, fieldData),
		})
	}
	return row, nil
}

func (t *DBFTable) parseField(fieldDescriptor *DBFFieldDescriptor, data []byte) any {
	trimmed := t.decodeString(data)
	switch fieldDescriptor.Type {
	case 'D':
		date, err := time.Parse("20060102", trimmed)
		if err != nil {
			return trimmed
		}
		return date.Format("2006-01-02")
	case 'L':
		switch {
		case len(data) == 0:
			return false
		default:
			switch data[0] {
			case 'Y', 'y', 'T', 't':
				return true
			default:
				return false
			}
		}
	case 'N', 'F':
		if t.options != nil && t.options.ParseNumerics {
			if trimmed == "" {
				return nil
			}
			if value, err := strconv.ParseFloat(trimmed, 64); err == nil {
				return value
			}
		}
		return trimmed
	default:
		return trimmed
	}
}

// decodeString transcodes data to UTF-8 and trims padding.
func (t *DBFTable) decodeString(data []byte) string {
	trimmed := bytes.TrimSpace(trimTrailingZeros(data))
	if len(trimmed) == 0 {
		return ""
	}
	decoded, err := t.decoder.Bytes(trimmed)
	if err != nil {
		return string(trimmed)
	}
	return string(decoded)
}

func trimTrailingZeros(data []byte) []byte {
	for i := len(data) - 1; i >= 0; i-- {
		if data[i] != '\x00' {
			return data[:i+1]
		}
	}
	return nil
}
