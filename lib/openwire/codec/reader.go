package codec

import (
	"encoding/binary"
)

// Reader reads big-endian primitives from a byte slice.
// The slice is never modified; ReadFully returns copies.
type Reader struct {
	data []byte
	pos  int
}

// NewReader creates a reader positioned at the start of data
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Remaining returns the number of unread bytes
func (r *Reader) Remaining() int {
	return len(r.data) - r.pos
}

// Pos returns the number of bytes consumed so far
func (r *Reader) Pos() int {
	return r.pos
}

// --------------------------------------------------------------------------
// Fixed-width reads
// --------------------------------------------------------------------------

// next returns the next n bytes without copying them
func (r *Reader) next(n int, what string) ([]byte, error) {
	if n < 0 || r.Remaining() < n {
		return nil, malformed("need %d bytes for %s, %d left", n, what, r.Remaining())
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// ReadByte reads one unsigned byte
func (r *Reader) ReadByte() (byte, error) {
	b, err := r.next(1, "byte")
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadBool reads one byte; any non-zero value is true
func (r *Reader) ReadBool() (bool, error) {
	b, err := r.next(1, "bool")
	if err != nil {
		return false, err
	}
	return b[0] != 0, nil
}

// ReadShort reads a signed two-byte integer
func (r *Reader) ReadShort() (int16, error) {
	v, err := r.ReadUint16()
	return int16(v), err
}

// ReadUint16 reads an unsigned two-byte integer, used for lengths, counts and cache slots
func (r *Reader) ReadUint16() (uint16, error) {
	b, err := r.next(2, "short")
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

// ReadInt reads a signed four-byte integer
func (r *Reader) ReadInt() (int32, error) {
	b, err := r.next(4, "int")
	if err != nil {
		return 0, err
	}
	return int32(binary.BigEndian.Uint32(b)), nil
}

// ReadLong reads a signed eight-byte integer
func (r *Reader) ReadLong() (int64, error) {
	b, err := r.next(8, "long")
	if err != nil {
		return 0, err
	}
	return int64(binary.BigEndian.Uint64(b)), nil
}

// ReadFully reads exactly n bytes and returns a copy of them
func (r *Reader) ReadFully(n int) ([]byte, error) {
	b, err := r.next(n, "byte run")
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b)
	return out, nil
}

// Sub returns a reader over the next n bytes and advances past them.
// The returned reader shares the underlying slice.
func (r *Reader) Sub(n int) (*Reader, error) {
	b, err := r.next(n, "record")
	if err != nil {
		return nil, err
	}
	return &Reader{data: b}, nil
}
