package codec

import (
	"encoding/binary"
)

// Writer appends big-endian primitives to a growing byte slice
type Writer struct {
	buf []byte
}

// NewWriter creates a writer with the given initial capacity
func NewWriter(capacity int) *Writer {
	return &Writer{buf: make([]byte, 0, capacity)}
}

// Bytes returns the written bytes. The slice aliases the writer's buffer.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Len returns the number of bytes written
func (w *Writer) Len() int {
	return len(w.buf)
}

// Reset discards all written bytes but keeps the buffer
func (w *Writer) Reset() {
	w.buf = w.buf[:0]
}

// WriteByte appends b. The error is always nil; it satisfies io.ByteWriter.
func (w *Writer) WriteByte(b byte) error {
	w.buf = append(w.buf, b)
	return nil
}

// WriteBool appends 1 for true and 0 for false
func (w *Writer) WriteBool(v bool) {
	if v {
		w.buf = append(w.buf, 1)
	} else {
		w.buf = append(w.buf, 0)
	}
}

// WriteShort appends a signed two-byte integer
func (w *Writer) WriteShort(v int16) {
	w.buf = binary.BigEndian.AppendUint16(w.buf, uint16(v))
}

// WriteUint16 appends an unsigned two-byte integer
func (w *Writer) WriteUint16(v uint16) {
	w.buf = binary.BigEndian.AppendUint16(w.buf, v)
}

// WriteInt appends a signed four-byte integer
func (w *Writer) WriteInt(v int32) {
	w.buf = binary.BigEndian.AppendUint32(w.buf, uint32(v))
}

// WriteLong appends a signed eight-byte integer
func (w *Writer) WriteLong(v int64) {
	w.buf = binary.BigEndian.AppendUint64(w.buf, uint64(v))
}

// Write appends p unchanged
func (w *Writer) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)
	return len(p), nil
}

// PutInt overwrites four bytes at offset with v. Used to back-patch length words.
func (w *Writer) PutInt(offset int, v int32) {
	binary.BigEndian.PutUint32(w.buf[offset:offset+4], uint32(v))
}
