package primitivemap

import (
	"errors"
	"strings"
	"testing"

	"github.com/ValentinKolb/dWire/lib/openwire/codec"
	"github.com/maxatome/go-testdeep/td"
)

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		m    Map
	}{
		{"Scalars", Map{
			"null":   nil,
			"bool":   true,
			"byte":   int8(-3),
			"char":   uint16('x'),
			"short":  int16(-300),
			"int":    int32(70000),
			"long":   int64(-1 << 40),
			"float":  float32(1.5),
			"double": 2.25,
		}},
		{"Strings", Map{
			"empty": "",
			"utf8":  "grüße",
			"big":   strings.Repeat("b", 70000),
		}},
		{"Bytes", Map{"payload": []byte{1, 2, 3}}},
		{"Nested", Map{
			"inner": Map{"depth": int32(2)},
			"list":  List{int32(1), "two", List{false}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := Marshal(tt.m)
			td.CmpNoError(t, err)
			got, err := Unmarshal(data)
			td.CmpNoError(t, err)
			td.Cmp(t, got, tt.m)
		})
	}
}

// TestDeterministic checks that key order does not depend on map iteration
func TestDeterministic(t *testing.T) {
	m := Map{"b": int32(2), "a": int32(1), "c": int32(3)}
	first, err := Marshal(m)
	td.CmpNoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := Marshal(m)
		td.CmpNoError(t, err)
		td.Cmp(t, again, first)
	}
}

func TestEmpty(t *testing.T) {
	data, err := Marshal(Map{})
	td.CmpNoError(t, err)
	td.CmpNil(t, data)

	m, err := Unmarshal(nil)
	td.CmpNoError(t, err)
	td.CmpLen(t, m, 0)
}

func TestErrors(t *testing.T) {
	t.Run("UnsupportedType", func(t *testing.T) {
		_, err := Marshal(Map{"x": struct{}{}})
		td.CmpError(t, err)
	})

	t.Run("UnknownValueType", func(t *testing.T) {
		data := []byte{0, 0, 0, 1, 0, 1, 'k', 99}
		_, err := Unmarshal(data)
		td.CmpTrue(t, errors.Is(err, codec.ErrMalformedStream))
	})

	t.Run("Truncated", func(t *testing.T) {
		data, err := Marshal(Map{"key": "value"})
		td.CmpNoError(t, err)
		_, err = Unmarshal(data[:len(data)-2])
		td.CmpTrue(t, errors.Is(err, codec.ErrMalformedStream))
	})

	t.Run("ImplausibleCount", func(t *testing.T) {
		_, err := Unmarshal([]byte{0x7F, 0, 0, 0})
		td.CmpTrue(t, errors.Is(err, codec.ErrMalformedStream))
	})

	t.Run("NestedTooDeep", func(t *testing.T) {
		nested := func(tag byte, levels int) []byte {
			data := []byte{0, 0, 0, 1, 0, 1, 'k'}
			for i := 0; i < levels; i++ {
				if tag == typeList {
					data = append(data, typeList, 0, 0, 0, 1)
				} else {
					data = append(data, typeMap, 0, 0, 0, 1, 0, 1, 'k')
				}
			}
			return append(data, typeNull)
		}

		for _, tag := range []byte{typeList, typeMap} {
			_, err := Unmarshal(nested(tag, maxDepth-1))
			td.CmpNoError(t, err, "tag %d", tag)

			_, err = Unmarshal(nested(tag, maxDepth+8))
			td.CmpTrue(t, errors.Is(err, codec.ErrMalformedStream), "tag %d: got %v", tag, err)
		}
	})

	t.Run("TrailingBytes", func(t *testing.T) {
		_, err := Unmarshal([]byte{0, 0, 0, 0, 1})
		td.CmpTrue(t, errors.Is(err, codec.ErrMalformedStream))
	})
}
