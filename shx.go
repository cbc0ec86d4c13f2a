package shapefile

import "encoding/binary"

// A SHXRecord locates one shape record within the .shp file. Offset and
// ContentLength are in bytes, converted from the 16-bit words on the wire.
type SHXRecord struct {
	Offset        int64
	ContentLength int
}

// ParseSHXRecord parses a SHXRecord from data.
func ParseSHXRecord(data []byte) SHXRecord {
	offset := 2 * int64(binary.BigEndian.Uint32(data[:4]))
	contentLength := 2 * int(binary.BigEndian.Uint32(data[4:]))
	return SHXRecord{
		Offset:        offset,
		ContentLength: contentLength,
	}
}

// A SHXIndex provides random access to shape record offsets by 1-based
// ordinal.
type SHXIndex struct {
	SHxHeader
	source     ByteSource
	numRecords int
}

// ReadSHXIndex reads the .shx header from src and derives the record count
// from the file size.
func ReadSHXIndex(src ByteSource) (*SHXIndex, error) {
	header, err := readSHxHeader(src)
	if err != nil {
		return nil, err
	}
	return &SHXIndex{
		SHxHeader:  *header,
		source:     src,
		numRecords: int((src.Size() - headerSize) / 8),
	}, nil
}

// NumRecords returns the number of records in the index.
func (x *SHXIndex) NumRecords() int {
	return x.numRecords
}

// Record returns the index entry for the i-th record, 1-based.
func (x *SHXIndex) Record(i int) (SHXRecord, error) {
	if i < 1 || i > x.numRecords {
		return SHXRecord{}, newError(ErrCodeIndexOutOfRange, "%d: record number out of range [1, %d]", i, x.numRecords)
	}
	data := make([]byte, 8)
	if err := readFullAt(x.source, headerSize+8*int64(i-1), data); err != nil {
		return SHXRecord{}, err
	}
	return ParseSHXRecord(data), nil
}
