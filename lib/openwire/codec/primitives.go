package codec

import (
	"fmt"
	"math"
)

// --------------------------------------------------------------------------
// Strings
// --------------------------------------------------------------------------

// maxStringBytes is the largest UTF-8 byte count a two-byte length prefix can carry
const maxStringBytes = math.MaxUint16

// TightMarshalString1 records the presence of s and returns the number of bytes
// TightMarshalString2 will write. The empty string is encoded as absent.
func TightMarshalString1(s string, bs *BooleanStream) (int, error) {
	bs.WriteBoolean(s != "")
	if s == "" {
		return 0, nil
	}
	if len(s) > maxStringBytes {
		return 0, fmt.Errorf("%w: string of %d bytes", ErrValueTooLarge, len(s))
	}
	return 2 + len(s), nil
}

func TightMarshalString2(s string, w *Writer, bs *BooleanStream) error {
	present, err := bs.ReadBoolean()
	if err != nil || !present {
		return err
	}
	w.WriteUint16(uint16(len(s)))
	w.Write([]byte(s))
	return nil
}

func TightUnmarshalString(r *Reader, bs *BooleanStream) (string, error) {
	present, err := bs.ReadBoolean()
	if err != nil || !present {
		return "", err
	}
	return readString(r)
}

func LooseMarshalString(s string, w *Writer) error {
	w.WriteBool(s != "")
	if s == "" {
		return nil
	}
	if len(s) > maxStringBytes {
		return fmt.Errorf("%w: string of %d bytes", ErrValueTooLarge, len(s))
	}
	w.WriteUint16(uint16(len(s)))
	w.Write([]byte(s))
	return nil
}

func LooseUnmarshalString(r *Reader) (string, error) {
	present, err := r.ReadBool()
	if err != nil || !present {
		return "", err
	}
	return readString(r)
}

// readString reads a two-byte length followed by that many UTF-8 bytes
func readString(r *Reader) (string, error) {
	n, err := r.ReadUint16()
	if err != nil {
		return "", err
	}
	b, err := r.next(int(n), "string")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// --------------------------------------------------------------------------
// Byte arrays (empty and absent share one encoding)
// --------------------------------------------------------------------------

func TightMarshalByteArray1(b []byte, bs *BooleanStream) (int, error) {
	bs.WriteBoolean(len(b) != 0)
	if len(b) == 0 {
		return 0, nil
	}
	if len(b) > math.MaxInt32 {
		return 0, fmt.Errorf("%w: byte array of %d bytes", ErrValueTooLarge, len(b))
	}
	return 4 + len(b), nil
}

func TightMarshalByteArray2(b []byte, w *Writer, bs *BooleanStream) error {
	present, err := bs.ReadBoolean()
	if err != nil || !present {
		return err
	}
	w.WriteInt(int32(len(b)))
	w.Write(b)
	return nil
}

// TightUnmarshalByteArray returns nil for an absent or empty array
func TightUnmarshalByteArray(r *Reader, bs *BooleanStream) ([]byte, error) {
	present, err := bs.ReadBoolean()
	if err != nil || !present {
		return nil, err
	}
	return readByteArray(r)
}

func LooseMarshalByteArray(b []byte, w *Writer) error {
	w.WriteBool(len(b) != 0)
	if len(b) == 0 {
		return nil
	}
	if len(b) > math.MaxInt32 {
		return fmt.Errorf("%w: byte array of %d bytes", ErrValueTooLarge, len(b))
	}
	w.WriteInt(int32(len(b)))
	w.Write(b)
	return nil
}

func LooseUnmarshalByteArray(r *Reader) ([]byte, error) {
	present, err := r.ReadBool()
	if err != nil || !present {
		return nil, err
	}
	return readByteArray(r)
}

// readByteArray reads a four-byte count followed by the raw bytes
func readByteArray(r *Reader) ([]byte, error) {
	n, err := r.ReadInt()
	if err != nil {
		return nil, err
	}
	if n < 0 || int(n) > r.Remaining() {
		return nil, malformed("byte array length %d with %d bytes left", n, r.Remaining())
	}
	if n == 0 {
		return nil, nil
	}
	return r.ReadFully(int(n))
}

// --------------------------------------------------------------------------
// Compressed longs
// --------------------------------------------------------------------------

// TightMarshalLong1 pushes two bits selecting the width of v (0, 2, 4 or 8
// bytes) and returns that width
func TightMarshalLong1(v int64, bs *BooleanStream) int {
	u := uint64(v)
	switch {
	case u == 0:
		bs.WriteBoolean(false)
		bs.WriteBoolean(false)
		return 0
	case u&0xFFFFFFFFFFFF0000 == 0:
		bs.WriteBoolean(false)
		bs.WriteBoolean(true)
		return 2
	case u&0xFFFFFFFF00000000 == 0:
		bs.WriteBoolean(true)
		bs.WriteBoolean(false)
		return 4
	default:
		bs.WriteBoolean(true)
		bs.WriteBoolean(true)
		return 8
	}
}

func TightMarshalLong2(v int64, w *Writer, bs *BooleanStream) error {
	wide, err := bs.ReadBoolean()
	if err != nil {
		return err
	}
	low, err := bs.ReadBoolean()
	if err != nil {
		return err
	}
	switch {
	case wide && low:
		w.WriteLong(v)
	case wide:
		w.WriteInt(int32(v))
	case low:
		w.WriteShort(int16(v))
	}
	return nil
}

func TightUnmarshalLong(r *Reader, bs *BooleanStream) (int64, error) {
	wide, err := bs.ReadBoolean()
	if err != nil {
		return 0, err
	}
	low, err := bs.ReadBoolean()
	if err != nil {
		return 0, err
	}
	switch {
	case wide && low:
		return r.ReadLong()
	case wide:
		v, err := r.ReadInt()
		return int64(uint32(v)), err
	case low:
		v, err := r.ReadUint16()
		return int64(v), err
	default:
		return 0, nil
	}
}

func LooseMarshalLong(v int64, w *Writer) {
	w.WriteLong(v)
}

func LooseUnmarshalLong(r *Reader) (int64, error) {
	return r.ReadLong()
}
