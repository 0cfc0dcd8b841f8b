package inspect

import (
	"bytes"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/ValentinKolb/dWire/cmd/util"
	"github.com/ValentinKolb/dWire/lib/openwire/codec"
	"github.com/ValentinKolb/dWire/lib/openwire/marshal"
	"github.com/maxatome/go-testdeep/td"
)

func TestParseHex(t *testing.T) {
	for _, input := range []string{"1e0000", "0x1e0000", " 1e 00 00 ", "1e:00:00"} {
		data, err := parseHex(input)
		td.CmpNoError(t, err, input)
		td.Cmp(t, data, []byte{0x1e, 0, 0}, input)
	}

	_, err := parseHex("zz")
	td.CmpError(t, err)
}

func TestUnframe(t *testing.T) {
	data, err := unframe([]byte{0, 0, 0, 2, 1, 2})
	td.CmpNoError(t, err)
	td.Cmp(t, data, []byte{1, 2})

	_, err = unframe([]byte{0, 0, 0, 3, 1, 2})
	td.CmpErrorIs(t, err, codec.ErrMalformedStream)

	_, err = unframe([]byte{0, 0})
	td.CmpErrorIs(t, err, codec.ErrMalformedStream)
}

func TestDecodeRecords(t *testing.T) {
	var out bytes.Buffer
	err := decodeRecords(marshal.New(marshal.Options{Version: marshal.MaxVersion}),
		[]string{"1e000000070000000003", "00"}, false, &out)
	td.CmpNoError(t, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	td.Cmp(t, lines, td.Len(2))
	td.Cmp(t, lines[0], td.HasPrefix("1\t10 bytes\ttype 30\t"))
	td.Cmp(t, lines[1], "2\t1 bytes\tnull")
}

func TestDecodeRecordsFramed(t *testing.T) {
	var out bytes.Buffer
	err := decodeRecords(marshal.New(marshal.Options{Version: marshal.MaxVersion}),
		[]string{"0000000a1e000000070000000003"}, true, &out)
	td.CmpNoError(t, err)
	td.Cmp(t, out.String(), td.HasPrefix("1\t10 bytes\ttype 30\t"))
}

// TestDecodeRecordsSharesCache decodes records whose later entries refer to
// objects cached by the first one
func TestDecodeRecordsSharesCache(t *testing.T) {
	opts := marshal.DefaultOptions()
	enc := marshal.New(opts)

	var records []string
	for i := int64(1); i <= 3; i++ {
		data, err := enc.Marshal(util.SampleMessage(i, 8))
		td.CmpNoError(t, err)
		records = append(records, hex.EncodeToString(data))
	}
	td.Cmp(t, len(records[1]), td.Lt(len(records[0])), "second record uses cached references")

	var out bytes.Buffer
	td.CmpNoError(t, decodeRecords(marshal.New(opts), records, false, &out))
	td.Cmp(t, strings.Count(out.String(), "\n"), 3)

	// a fresh decoder lacks the cached objects of the first record
	out.Reset()
	err := decodeRecords(marshal.New(opts), records[1:], false, &out)
	td.CmpErrorIs(t, err, codec.ErrCacheDesync)
}
