package codec

// Count prefix markers of a marshalled BooleanStream. Counts below 64 fit into
// the first byte directly; the markers can never be confused with such a count.
const (
	boolStreamByteCount  byte = 0xC0 // followed by a one-byte count
	boolStreamShortCount byte = 0x80 // followed by a two-byte count
	maxBoolStreamBytes        = 0xFFFF
)

// BooleanStream packs booleans eight per byte, most significant bit first.
//
// Writers push values during the sizing pass, the stream is marshalled once,
// then the same values are popped in the same order during the write pass.
// Readers unmarshal the stream and pop values in declaration order.
// A stream is scoped to a single command and never reused.
type BooleanStream struct {
	data   []byte
	length int // number of bits written or available
	pos    int // read position in bits
}

// NewBooleanStream creates an empty stream
func NewBooleanStream() *BooleanStream {
	return &BooleanStream{data: make([]byte, 0, 32)}
}

// WriteBoolean appends one value
func (bs *BooleanStream) WriteBoolean(v bool) {
	if bs.length%8 == 0 {
		bs.data = append(bs.data, 0)
	}
	if v {
		bs.data[bs.length/8] |= 0x80 >> (bs.length % 8)
	}
	bs.length++
}

// ReadBoolean pops the next value. Reading past the end of the stream is malformed input.
func (bs *BooleanStream) ReadBoolean() (bool, error) {
	if bs.pos >= len(bs.data)*8 {
		return false, malformed("boolean stream exhausted after %d bits", bs.pos)
	}
	v := bs.data[bs.pos/8]&(0x80>>(bs.pos%8)) != 0
	bs.pos++
	return v, nil
}

// Remaining returns the number of bits that can still be read, including the
// padding bits of the last byte
func (bs *BooleanStream) Remaining() int {
	return len(bs.data)*8 - bs.pos
}

// HasSetBitsRemaining reports whether any unread bit is set
func (bs *BooleanStream) HasSetBitsRemaining() bool {
	for i := bs.pos; i < len(bs.data)*8; i++ {
		if bs.data[i/8]&(0x80>>(i%8)) != 0 {
			return true
		}
	}
	return false
}

// Rewind moves the read position back to the first bit
func (bs *BooleanStream) Rewind() {
	bs.pos = 0
}

// Len returns the number of packed bytes
func (bs *BooleanStream) Len() int {
	return len(bs.data)
}

// MarshalledSize returns the number of bytes Marshal will write
func (bs *BooleanStream) MarshalledSize() int {
	n := len(bs.data)
	switch {
	case n < 64:
		return 1 + n
	case n < 256:
		return 2 + n
	default:
		return 3 + n
	}
}

// Marshal writes the count prefix and the packed bytes, then rewinds the
// stream so the write pass can pop the values again
func (bs *BooleanStream) Marshal(w *Writer) error {
	n := len(bs.data)
	switch {
	case n < 64:
		w.WriteByte(byte(n))
	case n < 256:
		w.WriteByte(boolStreamByteCount)
		w.WriteByte(byte(n))
	case n <= maxBoolStreamBytes:
		w.WriteByte(boolStreamShortCount)
		w.WriteUint16(uint16(n))
	default:
		return ErrValueTooLarge
	}
	w.Write(bs.data)
	bs.Rewind()
	return nil
}

// Unmarshal reads a marshalled stream and positions it at the first bit
func (bs *BooleanStream) Unmarshal(r *Reader) error {
	first, err := r.ReadByte()
	if err != nil {
		return err
	}

	n := int(first)
	switch first {
	case boolStreamByteCount:
		b, err := r.ReadByte()
		if err != nil {
			return err
		}
		n = int(b)
	case boolStreamShortCount:
		s, err := r.ReadUint16()
		if err != nil {
			return err
		}
		n = int(s)
	default:
		if n >= 64 {
			return malformed("invalid boolean stream count prefix 0x%02x", first)
		}
	}

	data, err := r.ReadFully(n)
	if err != nil {
		return err
	}
	bs.data = data
	bs.length = n * 8
	bs.pos = 0
	return nil
}
