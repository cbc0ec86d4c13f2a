package shapefile

import (
	"encoding/binary"
	"errors"
	"reflect"
	"strings"

	"github.com/ettle/strcase"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"github.com/twpayne/go-geom/encoding/wkb"
)

// An Exporter maps records onto a caller-defined struct type. Attribute
// fields are matched by the snake-cased field name against the struct tag;
// the geometry goes to the field tagged "geometry", which may be a geom.T,
// a WKT string, WKB bytes, or a geojson.Geometry.
type Exporter struct {
	fieldStruct map[int]string
	typ         reflect.Type
}

const geometryTagName = "geometry"

// NewExporter builds an Exporter for struct type t using the given struct
// tag key, matched against fieldDescriptors.
func NewExporter(t reflect.Type, tag string, fieldDescriptors []*DBFFieldDescriptor) (*Exporter, error) {
	if t == nil || t.Kind() != reflect.Struct {
		return nil, errors.New("type is nil or is not a struct")
	}
	structTags := make(map[string]string, t.NumField())
	for i := range t.NumField() {
		fieldType := t.Field(i)
		tagName := strings.Split(fieldType.Tag.Get(tag), ",")[0]
		structTags[tagName] = fieldType.Name
	}
	fieldStruct := make(map[int]string, len(fieldDescriptors)+1)
	fieldStruct[-1] = structTags[geometryTagName]
	for i, fieldDescriptor := range fieldDescriptors {
		if name, ok := structTags[strcase.ToSnake(fieldDescriptor.Name)]; ok {
			fieldStruct[i] = name
		}
	}
	return &Exporter{
		fieldStruct: fieldStruct,
		typ:         t,
	}, nil
}

// NewExporter builds an Exporter for struct type t against the cursor's
// attribute schema, using the "shp" struct tag.
func (c *Cursor) NewExporter(t reflect.Type) (*Exporter, error) {
	return NewExporter(t, "shp", c.FieldDescriptors())
}

// Export fills a new value of the exporter's struct type from r and returns
// it.
func (r *Record) Export(exporter *Exporter) (any, error) {
	values := reflect.New(exporter.typ).Elem()
	if r.Attributes != nil {
		for i, attribute := range r.Attributes.Attributes {
			name, ok := exporter.fieldStruct[i]
			if !ok {
				continue
			}
			setConvertible(values.FieldByName(name), attribute.Value)
		}
	}
	if r.Geometry != nil {
		if name := exporter.fieldStruct[-1]; name != "" {
			if err := setGeometry(values.FieldByName(name), r.Geometry); err != nil {
				return nil, err
			}
		}
	}
	return values.Interface(), nil
}

// setConvertible assigns value to val if the dynamic type converts, through
// one level of pointer indirection if needed.
func setConvertible(val reflect.Value, value any) {
	if !val.IsValid() {
		return
	}
	target := reflect.ValueOf(value)
	if !target.IsValid() {
		return
	}
	valType := val.Type()
	if valType.Kind() == reflect.Pointer {
		if target.CanConvert(valType.Elem()) {
			aux := reflect.New(valType.Elem())
			aux.Elem().Set(target.Convert(valType.Elem()))
			val.Set(aux)
		}
		return
	}
	if target.CanConvert(valType) {
		val.Set(target.Convert(valType))
	}
}

func setGeometry(val reflect.Value, geometry Geometry) error {
	if !val.IsValid() {
		return nil
	}
	valType := val.Type()
	elemType := valType
	if valType.Kind() == reflect.Pointer {
		elemType = valType.Elem()
	}

	var exported any
	switch {
	case elemType == reflect.TypeOf((*geom.T)(nil)).Elem() || elemType.Implements(reflect.TypeOf((*geom.T)(nil)).Elem()):
		exported = Geom(geometry)
	case elemType == reflect.TypeOf(geojson.Geometry{}):
		encoded, err := geojson.Encode(Geom(geometry))
		if err != nil {
			return err
		}
		exported = *encoded
	case elemType.Kind() == reflect.String:
		exported = MarshalWKT(geometry)
	case elemType == reflect.TypeOf([]byte(nil)):
		marshaled, err := wkb.Marshal(Geom(geometry), binary.BigEndian)
		if err != nil {
			return err
		}
		exported = marshaled
	default:
		return nil
	}

	setConvertible(val, exported)
	return nil
}
