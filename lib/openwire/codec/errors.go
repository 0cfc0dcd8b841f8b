package codec

import (
	"errors"
	"fmt"
)

// Error kinds reported by the codec. All decode errors are fatal for the stream
// they were read from: the bit-stream and the cache tables cannot be rewound.
var (
	// ErrMalformedStream is returned when a length field is inconsistent with the
	// remaining buffer or the buffer ends before a value is complete.
	ErrMalformedStream = errors.New("openwire: malformed stream")

	// ErrUnknownTypeCode is returned when a type byte has no registered marshaller.
	ErrUnknownTypeCode = errors.New("openwire: unknown type code")

	// ErrCacheDesync is returned when a cache slot reference points to an empty
	// slot or a first occurrence announces a slot the decoder did not expect.
	ErrCacheDesync = errors.New("openwire: cache desync")

	// ErrVersionViolation is returned when a record carries data beyond the field
	// set of the negotiated version.
	ErrVersionViolation = errors.New("openwire: version violation")

	// ErrTypeMismatch is returned when a decoded object has a different variant
	// than the field it is assigned to.
	ErrTypeMismatch = errors.New("openwire: type mismatch")

	// ErrValueTooLarge is returned on encode when a value does not fit its length prefix.
	ErrValueTooLarge = errors.New("openwire: value too large")
)

// DecodeError annotates a decode failure with the type code of the record that
// was being decoded when it happened.
type DecodeError struct {
	TypeCode byte
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding type %d: %v", e.TypeCode, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// malformed wraps ErrMalformedStream with a short description of what was being read
func malformed(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrMalformedStream, fmt.Sprintf(format, args...))
}
