package primitivemap

import (
	"fmt"
	"math"
	"sort"

	"github.com/ValentinKolb/dWire/lib/openwire/codec"
)

// Map is a property map with primitive values
type Map map[string]interface{}

// List is an ordered sequence of primitive values
type List []interface{}

// Value type tags
const (
	typeNull      byte = 0
	typeBool      byte = 1
	typeByte      byte = 2
	typeChar      byte = 3
	typeShort     byte = 4
	typeInt       byte = 5
	typeLong      byte = 6
	typeDouble    byte = 7
	typeFloat     byte = 8
	typeString    byte = 9
	typeBytes     byte = 10
	typeMap       byte = 11
	typeList      byte = 12
	typeBigString byte = 13
)

// maxDepth bounds the nesting of maps and lists on decode
const maxDepth = 32

// Marshal encodes m. Entries are written in key order so equal maps have equal encodings.
func Marshal(m Map) ([]byte, error) {
	if len(m) == 0 {
		return nil, nil
	}
	w := codec.NewWriter(64)
	if err := writeMap(w, m); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// Unmarshal decodes a map written by Marshal
func Unmarshal(data []byte) (Map, error) {
	if len(data) == 0 {
		return Map{}, nil
	}
	r := codec.NewReader(data)
	m, err := readMap(r, 0)
	if err != nil {
		return nil, err
	}
	if r.Remaining() != 0 {
		return nil, fmt.Errorf("%w: %d bytes after property map", codec.ErrMalformedStream, r.Remaining())
	}
	return m, nil
}

// --------------------------------------------------------------------------
// Encoding
// --------------------------------------------------------------------------

func writeMap(w *codec.Writer, m Map) error {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	w.WriteInt(int32(len(keys)))
	for _, k := range keys {
		if err := writeShortString(w, k); err != nil {
			return err
		}
		if err := writeValue(w, m[k]); err != nil {
			return fmt.Errorf("property %q: %w", k, err)
		}
	}
	return nil
}

func writeShortString(w *codec.Writer, s string) error {
	if len(s) > math.MaxUint16 {
		return fmt.Errorf("%w: key of %d bytes", codec.ErrValueTooLarge, len(s))
	}
	w.WriteUint16(uint16(len(s)))
	w.Write([]byte(s))
	return nil
}

func writeValue(w *codec.Writer, v interface{}) error {
	switch v := v.(type) {
	case nil:
		w.WriteByte(typeNull)
	case bool:
		w.WriteByte(typeBool)
		w.WriteBool(v)
	case int8:
		w.WriteByte(typeByte)
		w.WriteByte(byte(v))
	case uint16:
		w.WriteByte(typeChar)
		w.WriteUint16(v)
	case int16:
		w.WriteByte(typeShort)
		w.WriteShort(v)
	case int32:
		w.WriteByte(typeInt)
		w.WriteInt(v)
	case int64:
		w.WriteByte(typeLong)
		w.WriteLong(v)
	case float64:
		w.WriteByte(typeDouble)
		w.WriteLong(int64(math.Float64bits(v)))
	case float32:
		w.WriteByte(typeFloat)
		w.WriteInt(int32(math.Float32bits(v)))
	case string:
		if len(v) <= math.MaxUint16 {
			w.WriteByte(typeString)
			w.WriteUint16(uint16(len(v)))
		} else {
			w.WriteByte(typeBigString)
			w.WriteInt(int32(len(v)))
		}
		w.Write([]byte(v))
	case []byte:
		w.WriteByte(typeBytes)
		w.WriteInt(int32(len(v)))
		w.Write(v)
	case Map:
		w.WriteByte(typeMap)
		return writeMap(w, v)
	case List:
		w.WriteByte(typeList)
		w.WriteInt(int32(len(v)))
		for i, e := range v {
			if err := writeValue(w, e); err != nil {
				return fmt.Errorf("list element %d: %w", i, err)
			}
		}
	default:
		return fmt.Errorf("unsupported property type %T", v)
	}
	return nil
}

// --------------------------------------------------------------------------
// Decoding
// --------------------------------------------------------------------------

func readMap(r *codec.Reader, depth int) (Map, error) {
	if depth > maxDepth {
		return nil, fmt.Errorf("%w: property maps nested deeper than %d", codec.ErrMalformedStream, maxDepth)
	}
	n, err := r.ReadInt()
	if err != nil {
		return nil, err
	}
	// every entry needs at least a key length and a type byte
	if n < 0 || int(n) > r.Remaining()/3 {
		return nil, fmt.Errorf("%w: property map with %d entries", codec.ErrMalformedStream, n)
	}

	m := make(Map, n)
	for i := 0; i < int(n); i++ {
		kl, err := r.ReadUint16()
		if err != nil {
			return nil, err
		}
		key, err := r.ReadFully(int(kl))
		if err != nil {
			return nil, err
		}
		v, err := readValue(r, depth)
		if err != nil {
			return nil, err
		}
		m[string(key)] = v
	}
	return m, nil
}

func readValue(r *codec.Reader, depth int) (interface{}, error) {
	if depth > maxDepth {
		return nil, fmt.Errorf("%w: property values nested deeper than %d", codec.ErrMalformedStream, maxDepth)
	}
	t, err := r.ReadByte()
	if err != nil {
		return nil, err
	}

	switch t {
	case typeNull:
		return nil, nil
	case typeBool:
		return r.ReadBool()
	case typeByte:
		b, err := r.ReadByte()
		return int8(b), err
	case typeChar:
		return r.ReadUint16()
	case typeShort:
		return r.ReadShort()
	case typeInt:
		return r.ReadInt()
	case typeLong:
		return r.ReadLong()
	case typeDouble:
		v, err := r.ReadLong()
		return math.Float64frombits(uint64(v)), err
	case typeFloat:
		v, err := r.ReadInt()
		return math.Float32frombits(uint32(v)), err
	case typeString:
		n, err := r.ReadUint16()
		if err != nil {
			return nil, err
		}
		b, err := r.ReadFully(int(n))
		return string(b), err
	case typeBigString:
		n, err := r.ReadInt()
		if err != nil {
			return nil, err
		}
		b, err := r.ReadFully(int(n))
		return string(b), err
	case typeBytes:
		n, err := r.ReadInt()
		if err != nil {
			return nil, err
		}
		return r.ReadFully(int(n))
	case typeMap:
		return readMap(r, depth+1)
	case typeList:
		n, err := r.ReadInt()
		if err != nil {
			return nil, err
		}
		if n < 0 || int(n) > r.Remaining() {
			return nil, fmt.Errorf("%w: property list with %d elements", codec.ErrMalformedStream, n)
		}
		l := make(List, n)
		for i := range l {
			if l[i], err = readValue(r, depth+1); err != nil {
				return nil, err
			}
		}
		return l, nil
	default:
		return nil, fmt.Errorf("%w: unknown property type %d", codec.ErrMalformedStream, t)
	}
}
