package codec

import (
	"errors"
	"fmt"
)

// Error kinds returned by the codec. Decode failures are wrapped in a
// *DecodeError; use errors.Is to match the kind.
var (
	ErrMissingField      = errors.New("missing required field")
	ErrMalformedEncoding = errors.New("malformed encoding")
	ErrTrailingData      = errors.New("trailing data")
	ErrIntegerOverflow   = errors.New("integer overflow")
)

// DecodeError describes where and why decoding stopped.
type DecodeError struct {
	Offset int64  // byte offset of the offending element
	Err    error  // one of the Err* kinds above
	Detail string // human readable cause
}

func (e *DecodeError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("der: %v at offset %d", e.Err, e.Offset)
	}
	return fmt.Sprintf("der: %v at offset %d: %s", e.Err, e.Offset, e.Detail)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func malformed(offset int, format string, args ...interface{}) error {
	return &DecodeError{Offset: int64(offset), Err: ErrMalformedEncoding, Detail: fmt.Sprintf(format, args...)}
}

// ErrorKind maps an error to a stable label, used for metrics.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissingField):
		return "missing_field"
	case errors.Is(err, ErrMalformedEncoding):
		return "malformed_encoding"
	case errors.Is(err, ErrTrailingData):
		return "trailing_data"
	case errors.Is(err, ErrIntegerOverflow):
		return "integer_overflow"
	default:
		return "other"
	}
}
