package shapefile

import (
	"errors"
	"fmt"
)

// An ErrorCode identifies a class of decode failure. The numeric values are
// stable and shared with other readers of the same error taxonomy.
type ErrorCode int

// Error codes.
const (
	ErrCodeFileNotFound         ErrorCode = 11
	ErrCodeFileOpen             ErrorCode = 12
	ErrCodeUnsupportedShapeType ErrorCode = 21
	ErrCodeWrongRecordType      ErrorCode = 22
	ErrCodePolygonAreaTooSmall  ErrorCode = 31
	ErrCodeInvalidPolygon       ErrorCode = 32
	ErrCodeDBFInvalid           ErrorCode = 41
	ErrCodeDBFMismatched        ErrorCode = 42
	ErrCodeDBFEOFReached        ErrorCode = 43
	ErrCodeIndexOutOfRange      ErrorCode = 91
)

var errorCodeTags = map[ErrorCode]string{
	ErrCodeFileNotFound:         "FileNotFound",
	ErrCodeFileOpen:             "FileOpen",
	ErrCodeUnsupportedShapeType: "UnsupportedShapeType",
	ErrCodeWrongRecordType:      "WrongRecordType",
	ErrCodePolygonAreaTooSmall:  "PolygonAreaTooSmall",
	ErrCodeInvalidPolygon:       "InvalidPolygon",
	ErrCodeDBFInvalid:           "DBFInvalid",
	ErrCodeDBFMismatched:        "DBFMismatched",
	ErrCodeDBFEOFReached:        "DBFEOFReached",
	ErrCodeIndexOutOfRange:      "IndexOutOfRange",
}

// Tag returns the machine tag for c.
func (c ErrorCode) Tag() string {
	return errorCodeTags[c]
}

// An Error is a decode failure with a stable code.
type Error struct {
	Code    ErrorCode
	Message string
	err     error
}

func newError(code ErrorCode, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

func wrapError(code ErrorCode, err error) *Error {
	return &Error{
		Code:    code,
		Message: err.Error(),
		err:     err,
	}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (%d): %s", e.Code.Tag(), e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.err
}

// Is reports whether target is an *Error with the same code, so that
// errors.Is(err, &Error{Code: ErrCodeInvalidPolygon}) matches any invalid
// polygon error.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// CodeOf returns the error code carried by err, or 0 if err carries none.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return 0
}
