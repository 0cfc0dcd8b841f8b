package codec

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/maxatome/go-testdeep/td"
)

func TestReaderShortReads(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		read func(r *Reader) error
	}{
		{"Byte", nil, func(r *Reader) error { _, err := r.ReadByte(); return err }},
		{"Short", []byte{1}, func(r *Reader) error { _, err := r.ReadShort(); return err }},
		{"Int", []byte{1, 2, 3}, func(r *Reader) error { _, err := r.ReadInt(); return err }},
		{"Long", []byte{1, 2, 3, 4, 5, 6, 7}, func(r *Reader) error { _, err := r.ReadLong(); return err }},
		{"Fully", []byte{1, 2}, func(r *Reader) error { _, err := r.ReadFully(3); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReader(tt.data)
			err := tt.read(r)
			td.CmpTrue(t, errors.Is(err, ErrMalformedStream), "got %v", err)
			td.Cmp(t, r.Pos(), 0, "short reads consume nothing")
		})
	}
}

func TestFixedWidthBigEndian(t *testing.T) {
	w := NewWriter(0)
	w.WriteByte(0x7F)
	w.WriteShort(-2)
	w.WriteInt(0x01020304)
	w.WriteLong(-1)
	td.Cmp(t, w.Bytes(), []byte{
		0x7F,
		0xFF, 0xFE,
		0x01, 0x02, 0x03, 0x04,
		0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF,
	})

	r := NewReader(w.Bytes())
	b, _ := r.ReadByte()
	s, _ := r.ReadShort()
	i, _ := r.ReadInt()
	l, err := r.ReadLong()
	td.CmpNoError(t, err)
	td.Cmp(t, []interface{}{b, s, i, l}, []interface{}{byte(0x7F), int16(-2), int32(0x01020304), int64(-1)})
}

func TestBoolAndUint16(t *testing.T) {
	w := NewWriter(0)
	w.WriteBool(true)
	w.WriteBool(false)
	w.WriteUint16(0xFFFE)
	td.Cmp(t, w.Bytes(), []byte{1, 0, 0xFF, 0xFE})

	r := NewReader([]byte{0x80, 0, 0xFF, 0xFE})
	yes, _ := r.ReadBool()
	no, _ := r.ReadBool()
	u, err := r.ReadUint16()
	td.CmpNoError(t, err)
	td.Cmp(t, []interface{}{yes, no, u}, []interface{}{true, false, uint16(0xFFFE)})
}

// TestStringEncoding covers both encodings of a string field
func TestStringEncoding(t *testing.T) {
	tests := []struct {
		name  string
		value string
		loose []byte
	}{
		{"Absent", "", []byte{0}},
		{"ASCII", "g1", []byte{1, 0, 2, 'g', '1'}},
		{"UTF8", "é", []byte{1, 0, 2, 0xC3, 0xA9}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWriter(0)
			td.CmpNoError(t, LooseMarshalString(tt.value, w))
			td.Cmp(t, w.Bytes(), tt.loose)
			got, err := LooseUnmarshalString(NewReader(w.Bytes()))
			td.CmpNoError(t, err)
			td.Cmp(t, got, tt.value)

			bs := NewBooleanStream()
			size, err := TightMarshalString1(tt.value, bs)
			td.CmpNoError(t, err)
			w = NewWriter(0)
			td.CmpNoError(t, bs.Marshal(w))
			start := w.Len()
			td.CmpNoError(t, TightMarshalString2(tt.value, w, bs))
			td.Cmp(t, w.Len()-start, size)
			td.Cmp(t, w.Bytes()[start:], tt.loose[1:])

			r := NewReader(w.Bytes())
			in := NewBooleanStream()
			td.CmpNoError(t, in.Unmarshal(r))
			got, err = TightUnmarshalString(r, in)
			td.CmpNoError(t, err)
			td.Cmp(t, got, tt.value)
			td.Cmp(t, r.Remaining(), 0)
		})
	}
}

func TestStringTooLarge(t *testing.T) {
	long := strings.Repeat("x", math.MaxUint16+1)

	_, err := TightMarshalString1(long, NewBooleanStream())
	td.CmpTrue(t, errors.Is(err, ErrValueTooLarge))

	err = LooseMarshalString(long, NewWriter(0))
	td.CmpTrue(t, errors.Is(err, ErrValueTooLarge))
}

// TestByteArrayEmptyIsAbsent checks that empty and absent arrays share one encoding and decode to nil
func TestByteArrayEmptyIsAbsent(t *testing.T) {
	for _, value := range [][]byte{nil, {}} {
		w := NewWriter(0)
		td.CmpNoError(t, LooseMarshalByteArray(value, w))
		td.Cmp(t, w.Bytes(), []byte{0})

		got, err := LooseUnmarshalByteArray(NewReader(w.Bytes()))
		td.CmpNoError(t, err)
		td.CmpNil(t, got)

		bs := NewBooleanStream()
		size, err := TightMarshalByteArray1(value, bs)
		td.CmpNoError(t, err)
		td.Cmp(t, size, 0)
	}
}

func TestByteArrayRoundTrip(t *testing.T) {
	value := []byte{0xDE, 0xAD, 0xBE, 0xEF}

	w := NewWriter(0)
	td.CmpNoError(t, LooseMarshalByteArray(value, w))
	td.Cmp(t, w.Bytes(), []byte{1, 0, 0, 0, 4, 0xDE, 0xAD, 0xBE, 0xEF})
	got, err := LooseUnmarshalByteArray(NewReader(w.Bytes()))
	td.CmpNoError(t, err)
	td.Cmp(t, got, value)

	bs := NewBooleanStream()
	size, err := TightMarshalByteArray1(value, bs)
	td.CmpNoError(t, err)
	td.Cmp(t, size, 8)
	w = NewWriter(0)
	td.CmpNoError(t, bs.Marshal(w))
	td.CmpNoError(t, TightMarshalByteArray2(value, w, bs))

	r := NewReader(w.Bytes())
	in := NewBooleanStream()
	td.CmpNoError(t, in.Unmarshal(r))
	got, err = TightUnmarshalByteArray(r, in)
	td.CmpNoError(t, err)
	td.Cmp(t, got, value)
}

func TestByteArrayLengthBeyondBuffer(t *testing.T) {
	r := NewReader([]byte{1, 0, 0, 0, 9, 1, 2})
	_, err := LooseUnmarshalByteArray(r)
	td.CmpTrue(t, errors.Is(err, ErrMalformedStream))
}

// TestCompressedLong checks the width chosen for each magnitude and the round trip
func TestCompressedLong(t *testing.T) {
	tests := []struct {
		value int64
		size  int
	}{
		{0, 0},
		{1, 2},
		{0xFFFF, 2},
		{0x10000, 4},
		{0xFFFFFFFF, 4},
		{0x100000000, 8},
		{-1, 8},
		{math.MaxInt64, 8},
	}

	for _, tt := range tests {
		bs := NewBooleanStream()
		td.Cmp(t, TightMarshalLong1(tt.value, bs), tt.size, "size of %d", tt.value)

		w := NewWriter(0)
		td.CmpNoError(t, bs.Marshal(w))
		start := w.Len()
		td.CmpNoError(t, TightMarshalLong2(tt.value, w, bs))
		td.Cmp(t, w.Len()-start, tt.size)

		r := NewReader(w.Bytes())
		in := NewBooleanStream()
		td.CmpNoError(t, in.Unmarshal(r))
		got, err := TightUnmarshalLong(r, in)
		td.CmpNoError(t, err)
		td.Cmp(t, got, tt.value)

		w = NewWriter(0)
		LooseMarshalLong(tt.value, w)
		td.Cmp(t, w.Len(), 8)
		got, err = LooseUnmarshalLong(NewReader(w.Bytes()))
		td.CmpNoError(t, err)
		td.Cmp(t, got, tt.value)
	}
}
