// Package shapefile reads ESRI Shapefiles record by record.
//
// A dataset is the trio of sibling binary files <base>.shp (geometries),
// <base>.shx (record index), and <base>.dbf (attribute table), optionally
// accompanied by <base>.prj (projection text) and <base>.cpg (attribute
// character set). The package decodes all three binary formats, joins each
// geometry with its attribute row by the shared 1-based ordinal, and can
// emit records as structured geometries, WKT, or GeoJSON.
//
// See https://support.esri.com/en/white-paper/279.
package shapefile

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
)

const headerSize = 100

// A ShapeType is a shape type.
type ShapeType uint

// Shape types.
const (
	ShapeTypeNull        ShapeType = 0
	ShapeTypePoint       ShapeType = 1
	ShapeTypePolyLine    ShapeType = 3
	ShapeTypePolygon     ShapeType = 5
	ShapeTypeMultiPoint  ShapeType = 8
	ShapeTypePointZ      ShapeType = 11
	ShapeTypePolyLineZ   ShapeType = 13
	ShapeTypePolygonZ    ShapeType = 15
	ShapeTypeMultiPointZ ShapeType = 18
	ShapeTypePointM      ShapeType = 21
	ShapeTypePolyLineM   ShapeType = 23
	ShapeTypePolygonM    ShapeType = 25
	ShapeTypeMultiPointM ShapeType = 28
	ShapeTypeMultiPatch  ShapeType = 31
)

var shapeTypeNames = map[ShapeType]string{
	ShapeTypeNull:        "Null",
	ShapeTypePoint:       "Point",
	ShapeTypePolyLine:    "PolyLine",
	ShapeTypePolygon:     "Polygon",
	ShapeTypeMultiPoint:  "MultiPoint",
	ShapeTypePointZ:      "PointZ",
	ShapeTypePolyLineZ:   "PolyLineZ",
	ShapeTypePolygonZ:    "PolygonZ",
	ShapeTypeMultiPointZ: "MultiPointZ",
	ShapeTypePointM:      "PointM",
	ShapeTypePolyLineM:   "PolyLineM",
	ShapeTypePolygonM:    "PolygonM",
	ShapeTypeMultiPointM: "MultiPointM",
	ShapeTypeMultiPatch:  "MultiPatch",
}

func (t ShapeType) String() string {
	if name, ok := shapeTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("ShapeType(%d)", uint(t))
}

// supported returns whether t is one of the thirteen shape types this
// package decodes. MultiPatch is a known type but not a supported one.
func (t ShapeType) supported() bool {
	switch t {
	case ShapeTypeNull,
		ShapeTypePoint, ShapeTypePolyLine, ShapeTypePolygon, ShapeTypeMultiPoint,
		ShapeTypePointZ, ShapeTypePolyLineZ, ShapeTypePolygonZ, ShapeTypeMultiPointZ,
		ShapeTypePointM, ShapeTypePolyLineM, ShapeTypePolygonM, ShapeTypeMultiPointM:
		return true
	default:
		return false
	}
}

// hasZ returns whether records of type t carry a Z channel.
func (t ShapeType) hasZ() bool {
	switch t {
	case ShapeTypePointZ, ShapeTypePolyLineZ, ShapeTypePolygonZ, ShapeTypeMultiPointZ:
		return true
	default:
		return false
	}
}

// hasM returns whether records of type t carry an M channel. Z types carry
// one too.
func (t ShapeType) hasM() bool {
	switch t {
	case ShapeTypePointZ, ShapeTypePolyLineZ, ShapeTypePolygonZ, ShapeTypeMultiPointZ,
		ShapeTypePointM, ShapeTypePolyLineM, ShapeTypePolygonM, ShapeTypeMultiPointM:
		return true
	default:
		return false
	}
}

// Open opens the dataset with the given basename, reading <basename>.shp,
// <basename>.shx, and <basename>.dbf, plus <basename>.prj and
// <basename>.cpg when present.
func Open(basename string, options *CursorOptions) (*Cursor, error) {
	shpSource, err := OpenFileByteSource(basename + ".shp")
	if err != nil {
		return nil, fmt.Errorf("%s.shp: %w", basename, err)
	}
	shxSource, err := OpenFileByteSource(basename + ".shx")
	if err != nil {
		closeByteSource(shpSource)
		return nil, fmt.Errorf("%s.shx: %w", basename, err)
	}
	dbfSource, err := OpenFileByteSource(basename + ".dbf")
	if err != nil {
		closeByteSource(shpSource)
		closeByteSource(shxSource)
		return nil, fmt.Errorf("%s.dbf: %w", basename, err)
	}

	var projection string
	switch prjData, err := os.ReadFile(basename + ".prj"); {
	case os.IsNotExist(err):
		// Do nothing.
	case err != nil:
		closeByteSource(shpSource)
		closeByteSource(shxSource)
		closeByteSource(dbfSource)
		return nil, fmt.Errorf("%s.prj: %w", basename, wrapError(ErrCodeFileOpen, err))
	default:
		projection = string(prjData)
	}

	if options == nil || options.DBF == nil || options.DBF.Charset == "" {
		switch cpgData, err := os.ReadFile(basename + ".cpg"); {
		case os.IsNotExist(err):
			// Do nothing.
		case err != nil:
			closeByteSource(shpSource)
			closeByteSource(shxSource)
			closeByteSource(dbfSource)
			return nil, fmt.Errorf("%s.cpg: %w", basename, wrapError(ErrCodeFileOpen, err))
		default:
			cpg, err := ParseCPG(cpgData)
			if err != nil {
				closeByteSource(shpSource)
				closeByteSource(shxSource)
				closeByteSource(dbfSource)
				return nil, fmt.Errorf("%s.cpg: %w", basename, err)
			}
			options = options.withCharset(cpg.Charset)
		}
	}

	cursor, err := NewCursor(shpSource, shxSource, dbfSource, options)
	if err != nil {
		closeByteSource(shpSource)
		closeByteSource(shxSource)
		closeByteSource(dbfSource)
		return nil, err
	}
	cursor.projection = projection
	return cursor, nil
}

// OpenZipFile opens a dataset stored in the .zip file with the given name.
func OpenZipFile(name string, options *CursorOptions) (*Cursor, error) {
	file, err := os.Open(name)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", name, wrapError(ErrCodeFileNotFound, err))
		}
		return nil, fmt.Errorf("%s: %w", name, wrapError(ErrCodeFileOpen, err))
	}
	defer file.Close()

	fileInfo, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, wrapError(ErrCodeFileOpen, err))
	}

	zipReader, err := zip.NewReader(file, fileInfo.Size())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, wrapError(ErrCodeFileOpen, err))
	}

	cursor, err := OpenZipReader(zipReader, options)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return cursor, nil
}

// OpenZipReader opens a dataset from a *zip.Reader. Entries are read into
// memory so the cursor keeps random access over them.
func OpenZipReader(zipReader *zip.Reader, options *CursorOptions) (*Cursor, error) {
	contents := make(map[string][]byte)
	for _, zipFile := range zipReader.File {
		if isMacOSXPath(zipFile.Name) {
			continue
		}
		ext := strings.ToLower(path.Ext(zipFile.Name))
		switch ext {
		case ".shp", ".shx", ".dbf", ".prj", ".cpg":
		default:
			continue
		}
		if _, ok := contents[ext]; ok {
			return nil, newError(ErrCodeFileOpen, "too many %s files", ext)
		}
		readCloser, err := zipFile.Open()
		if err != nil {
			return nil, wrapError(ErrCodeFileOpen, err)
		}
		data, err := io.ReadAll(readCloser)
		readCloser.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", zipFile.Name, wrapError(ErrCodeFileOpen, err))
		}
		contents[ext] = data
	}

	for _, ext := range []string{".shp", ".shx", ".dbf"} {
		if _, ok := contents[ext]; !ok {
			return nil, newError(ErrCodeFileNotFound, "missing %s file", ext)
		}
	}

	if cpgData, ok := contents[".cpg"]; ok && (options == nil || options.DBF == nil || options.DBF.Charset == "") {
		cpg, err := ParseCPG(cpgData)
		if err != nil {
			return nil, err
		}
		options = options.withCharset(cpg.Charset)
	}

	cursor, err := NewCursor(
		NewBytesByteSource(contents[".shp"]),
		NewBytesByteSource(contents[".shx"]),
		NewBytesByteSource(contents[".dbf"]),
		options,
	)
	if err != nil {
		return nil, err
	}
	if prjData, ok := contents[".prj"]; ok {
		cursor.projection = string(prjData)
	}
	return cursor, nil
}
