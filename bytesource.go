package shapefile

import (
	"bytes"
	"errors"
	"io"
	"os"
)

// A ByteSource is a seekable, sized byte stream. File positions are per
// source, so a cursor must own its sources exclusively.
type ByteSource interface {
	io.ReadSeeker
	Size() int64
}

type readSeekerByteSource struct {
	io.ReadSeeker
	size int64
}

func (s *readSeekerByteSource) Size() int64 { return s.size }

// NewByteSource returns a ByteSource reading from r with the given size.
func NewByteSource(r io.ReadSeeker, size int64) ByteSource {
	return &readSeekerByteSource{
		ReadSeeker: r,
		size:       size,
	}
}

// NewBytesByteSource returns an in-memory ByteSource over data.
func NewBytesByteSource(data []byte) ByteSource {
	return NewByteSource(bytes.NewReader(data), int64(len(data)))
}

type fileByteSource struct {
	*os.File
	size int64
}

func (s *fileByteSource) Size() int64 { return s.size }

// OpenFileByteSource opens name as a ByteSource.
func OpenFileByteSource(name string) (ByteSource, error) {
	file, err := os.Open(name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, wrapError(ErrCodeFileNotFound, err)
		}
		return nil, wrapError(ErrCodeFileOpen, err)
	}
	fileInfo, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, wrapError(ErrCodeFileOpen, err)
	}
	return &fileByteSource{
		File: file,
		size: fileInfo.Size(),
	}, nil
}

// readFull reads exactly len(data) bytes from r.
func readFull(r io.Reader, data []byte) error {
	for {
		switch n, err := r.Read(data); {
		case errors.Is(err, io.EOF) && n == len(data):
			return nil
		case err != nil:
			return err
		case n == 0:
			return io.ErrUnexpectedEOF
		case n < len(data):
			data = data[n:]
		default:
			return nil
		}
	}
}

// readFullAt seeks src to offset and reads exactly len(data) bytes. Failures
// surface as FileOpen errors.
func readFullAt(src ByteSource, offset int64, data []byte) error {
	if _, err := src.Seek(offset, io.SeekStart); err != nil {
		return wrapError(ErrCodeFileOpen, err)
	}
	if err := readFull(src, data); err != nil {
		return wrapError(ErrCodeFileOpen, err)
	}
	return nil
}

func closeByteSource(src ByteSource) error {
	if closer, ok := src.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
