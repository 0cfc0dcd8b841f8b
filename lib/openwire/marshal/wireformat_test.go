package marshal

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/ValentinKolb/dWire/lib/openwire/codec"
	"github.com/ValentinKolb/dWire/lib/openwire/commands"
	"github.com/maxatome/go-testdeep/td"
)

// TestRoundTrip encodes and decodes every type at every version in every encoding
func TestRoundTrip(t *testing.T) {
	for name, opts := range testOptions {
		for version := MinVersion; version <= MaxVersion; version++ {
			t.Run(fmt.Sprintf("%s/v%d", name, version), func(t *testing.T) {
				enc := New(opts(version))
				dec := New(opts(version))

				for _, cmd := range sampleCommands(version) {
					data, err := enc.Marshal(cmd)
					if !td.CmpNoError(t, err, "marshal %s", cmd) {
						continue
					}
					got, err := dec.Unmarshal(data)
					if !td.CmpNoError(t, err, "unmarshal %s", cmd) {
						continue
					}
					td.Cmp(t, got, cmd, commands.TypeName(cmd.DataStructureType()))
				}
			})
		}
	}
}

// TestRoundTripStream decodes a stream of repeated commands with one context per direction
func TestRoundTripStream(t *testing.T) {
	for name, opts := range testOptions {
		t.Run(name, func(t *testing.T) {
			enc := New(opts(MaxVersion))
			dec := New(opts(MaxVersion))

			for round := 0; round < 3; round++ {
				for _, cmd := range sampleCommands(MaxVersion) {
					data, err := enc.Marshal(cmd)
					td.CmpNoError(t, err)
					got, err := dec.Unmarshal(data)
					td.CmpNoError(t, err)
					td.Cmp(t, got, cmd, "round %d %s", round, commands.TypeName(cmd.DataStructureType()))
				}
			}
		})
	}
}

// TestVersionMonotonicity decodes records of an older version with a newer context
func TestVersionMonotonicity(t *testing.T) {
	for name, opts := range testOptions {
		for from := MinVersion; from <= MaxVersion; from++ {
			for to := from; to <= MaxVersion; to++ {
				enc := New(opts(from))
				dec := New(opts(to))

				for _, cmd := range sampleCommands(from) {
					data, err := enc.Marshal(cmd)
					td.CmpNoError(t, err)
					got, err := dec.Unmarshal(data)
					if !td.CmpNoError(t, err, "%s v%d->v%d %s", name, from, to, cmd) {
						continue
					}
					td.Cmp(t, got, cmd, "%s v%d->v%d", name, from, to)
				}
			}
		}
	}
}

// advisory returns a message carrying a ConnectionInfo, a nested object with
// version gated fields of its own
func advisory(version int) *commands.Message {
	return &commands.Message{
		BaseCommand:      commands.BaseCommand{CommandID: 9},
		Destination:      commands.NewTopic("ActiveMQ.Advisory.Connection"),
		DataStructure:    sampleCommands(version)[1],
		TargetConsumerID: &commands.ConsumerID{ConnectionID: "ID:host-2", SessionID: 1, Value: 9},
		UserID:           "alice",
	}
}

func TestNestedGatedRecord(t *testing.T) {
	for name, opts := range testOptions {
		for version := MinVersion; version <= MaxVersion; version++ {
			msg := advisory(version)
			data, err := New(opts(version)).Marshal(msg)
			if !td.CmpNoError(t, err, "%s v%d", name, version) {
				continue
			}
			got, err := New(opts(version)).Unmarshal(data)
			if td.CmpNoError(t, err, "%s v%d", name, version) {
				td.Cmp(t, got, msg, "%s v%d", name, version)
			}
		}
	}
}

// TestNestedGatedRecordAcrossVersions decodes an advisory with a newer context.
// The nested ConnectionInfo has no length of its own, so its missing gated
// fields cannot be detected; the record must fail instead of decoding garbage.
func TestNestedGatedRecordAcrossVersions(t *testing.T) {
	msg := &commands.Message{DataStructure: sampleCommands(1)[1], UserID: "alice"}

	for name, opts := range testOptions {
		data, err := New(opts(1)).Marshal(msg)
		td.Require(t).CmpNoError(err)

		for _, to := range []int{8, MaxVersion} {
			_, err := New(opts(to)).Unmarshal(data)
			td.CmpTrue(t, errors.Is(err, codec.ErrMalformedStream), "%s v1->v%d: got %v", name, to, err)

			var decodeErr *codec.DecodeError
			if td.CmpTrue(t, errors.As(err, &decodeErr), "%s v1->v%d", name, to) {
				td.Cmp(t, decodeErr.TypeCode, commands.TypeMessage)
			}
		}
	}
}

// TestFixedLayout pins the exact bytes of a small command in both encodings
func TestFixedLayout(t *testing.T) {
	resp := &commands.Response{BaseCommand: commands.BaseCommand{CommandID: 7}, CorrelationID: 3}

	tight, err := New(DefaultOptions()).Marshal(resp)
	td.CmpNoError(t, err)
	td.Cmp(t, tight, []byte{
		30,          // type
		0, 0, 0, 10, // length
		1, 0x00, // boolean stream: response required = false
		0, 0, 0, 7, // command id
		0, 0, 0, 3, // correlation id
	})

	loose, err := New(Options{Version: MaxVersion}).Marshal(resp)
	td.CmpNoError(t, err)
	td.Cmp(t, loose, []byte{30, 0, 0, 0, 7, 0, 0, 0, 0, 3})
}

func TestNullRecord(t *testing.T) {
	wf := New(DefaultOptions())

	data, err := wf.Marshal(nil)
	td.CmpNoError(t, err)
	td.Cmp(t, data, []byte{0})

	var typedNil *commands.Response
	data, err = wf.Marshal(typedNil)
	td.CmpNoError(t, err)
	td.Cmp(t, data, []byte{0})

	got, err := wf.Unmarshal(data)
	td.CmpNoError(t, err)
	td.CmpNil(t, got)
}

func TestEncodeDecode(t *testing.T) {
	enc := New(DefaultOptions())
	dec := New(DefaultOptions())

	cmd := &commands.ControlCommand{BaseCommand: commands.BaseCommand{CommandID: 1}, Command: "purge"}
	data, err := Encode(cmd, enc)
	td.CmpNoError(t, err)
	got, err := Decode(data, dec)
	td.CmpNoError(t, err)
	td.Cmp(t, got, cmd)
}

// TestCacheEquivalence checks that a repeated sub-object is encoded in full exactly once
func TestCacheEquivalence(t *testing.T) {
	const n = 10
	enc := New(DefaultOptions())
	dec := New(DefaultOptions())

	var stream [][]byte
	for i := 0; i < n; i++ {
		msg := &commands.Message{
			BaseCommand: commands.BaseCommand{CommandID: int32(i)},
			Destination: commands.NewQueue("repeated.destination"),
		}
		data, err := enc.Marshal(msg)
		td.CmpNoError(t, err)
		stream = append(stream, data)
	}

	name := []byte("repeated.destination")
	td.Cmp(t, bytes.Count(bytes.Join(stream, nil), name), 1, "full encodings")
	for i := 2; i < n; i++ {
		td.Cmp(t, len(stream[i]), len(stream[1]), "back-reference records have equal size")
	}
	td.CmpLt(t, len(stream[1]), len(stream[0]), "back-references are shorter than the full encoding")

	for i, data := range stream {
		got, err := dec.Unmarshal(data)
		td.CmpNoError(t, err)
		td.Cmp(t, got.(*commands.Message).Destination, commands.NewQueue("repeated.destination"), "record %d", i)
	}
}

// TestCacheDisabledInlinesEverything checks that without a cache every record carries the full object
func TestCacheDisabledInlinesEverything(t *testing.T) {
	enc := New(Options{Version: MaxVersion, TightEncodingEnabled: true})
	msg := &commands.Message{Destination: commands.NewQueue("inline")}

	var total []byte
	for i := 0; i < 3; i++ {
		data, err := enc.Marshal(msg)
		td.CmpNoError(t, err)
		total = append(total, data...)
	}
	td.Cmp(t, bytes.Count(total, []byte("inline")), 3)
}

// TestCacheEviction cycles more distinct objects than the table holds
func TestCacheEviction(t *testing.T) {
	opts := Options{Version: MaxVersion, TightEncodingEnabled: true, CacheEnabled: true, CacheSize: 3}
	enc := New(opts)
	dec := New(opts)

	for i := 0; i < 20; i++ {
		cmd := &commands.ProducerInfo{
			ProducerID:  &commands.ProducerID{ConnectionID: "c", Value: int64(i % 5)},
			Destination: commands.NewQueue(fmt.Sprintf("q%d", i%4)),
		}
		data, err := enc.Marshal(cmd)
		td.CmpNoError(t, err)
		got, err := dec.Unmarshal(data)
		td.CmpNoError(t, err)
		td.Cmp(t, got, cmd, "command %d", i)
	}
}

func TestCacheDesync(t *testing.T) {
	opts := DefaultOptions()

	t.Run("BackReferenceToEmptySlot", func(t *testing.T) {
		enc := New(opts)
		cmd := &commands.ProducerInfo{Destination: commands.NewQueue("a")}
		_, err := enc.Marshal(cmd)
		td.CmpNoError(t, err)
		second, err := enc.Marshal(cmd)
		td.CmpNoError(t, err)

		_, err = New(opts).Unmarshal(second)
		td.CmpTrue(t, errors.Is(err, codec.ErrCacheDesync), "got %v", err)
	})

	t.Run("UnexpectedSlot", func(t *testing.T) {
		enc := New(opts)
		_, err := enc.Marshal(&commands.ProducerInfo{Destination: commands.NewQueue("a")})
		td.CmpNoError(t, err)
		second, err := enc.Marshal(&commands.ProducerInfo{Destination: commands.NewQueue("b")})
		td.CmpNoError(t, err)

		_, err = New(opts).Unmarshal(second)
		td.CmpTrue(t, errors.Is(err, codec.ErrCacheDesync), "got %v", err)
	})
}

// TestUnknownTypeCode checks that nothing after the type byte is consumed
func TestUnknownTypeCode(t *testing.T) {
	for name, opts := range testOptions {
		t.Run(name, func(t *testing.T) {
			in := codec.NewReader([]byte{0xEE, 0, 0, 0, 4, 1, 2, 3, 4})
			_, err := New(opts(MaxVersion)).UnmarshalFrom(in)
			td.CmpTrue(t, errors.Is(err, codec.ErrUnknownTypeCode), "got %v", err)
			td.Cmp(t, in.Remaining(), 8)

			var decErr *codec.DecodeError
			td.CmpTrue(t, errors.As(err, &decErr))
			td.Cmp(t, decErr.TypeCode, byte(0xEE))
		})
	}
}

func TestUnknownNestedTypeCode(t *testing.T) {
	wf := New(Options{Version: MaxVersion})
	data, err := wf.Marshal(&commands.ProducerAck{ProducerID: &commands.ProducerID{ConnectionID: "c"}})
	td.CmpNoError(t, err)

	// [type][command id:4][response required][presence][nested type]
	data[7] = 0xEE
	_, err = wf.Unmarshal(data)
	td.CmpTrue(t, errors.Is(err, codec.ErrUnknownTypeCode), "got %v", err)
}

func TestTypeMismatch(t *testing.T) {
	wf := New(Options{Version: MaxVersion})
	data, err := wf.Marshal(&commands.ProducerAck{ProducerID: &commands.ProducerID{ConnectionID: "c"}})
	td.CmpNoError(t, err)

	// a connection id starts with a string like the producer id does
	data[7] = commands.TypeConnectionID
	_, err = wf.Unmarshal(data)
	td.CmpTrue(t, errors.Is(err, codec.ErrTypeMismatch), "got %v", err)
}

func TestMalformed(t *testing.T) {
	for name, opts := range testOptions {
		t.Run(name, func(t *testing.T) {
			enc := New(opts(MaxVersion))
			data, err := enc.Marshal(fillMessage(&commands.TextMessage{}, MaxVersion))
			td.CmpNoError(t, err)

			_, err = New(opts(MaxVersion)).Unmarshal(data[:len(data)-3])
			td.CmpTrue(t, errors.Is(err, codec.ErrMalformedStream), "got %v", err)
		})
	}

	t.Run("TrailingRecordBytes", func(t *testing.T) {
		wf := New(DefaultOptions())
		data, err := wf.Marshal(&commands.KeepAliveInfo{})
		td.CmpNoError(t, err)
		_, err = wf.Unmarshal(append(data, 0xFF))
		td.CmpTrue(t, errors.Is(err, codec.ErrMalformedStream), "got %v", err)
	})
}

// TestVersionViolationScenario encodes a message with version 3 fields and
// decodes it with a version 2 context
func TestVersionViolationScenario(t *testing.T) {
	a := commands.NewQueue("A")
	msg := &commands.Message{
		GroupID:             "g1",
		Content:             []byte{},
		Destination:         a,
		OriginalDestination: a,
		BrokerInTime:        0,
	}
	opts := Options{Version: 3, TightEncodingEnabled: true, CacheEnabled: true, CacheSize: 16}

	data, err := New(opts).Marshal(msg)
	td.CmpNoError(t, err)
	td.Cmp(t, bytes.Count(data, []byte{0, 1, 'A'}), 1, "second reference is a slot index")

	got, err := New(opts).Unmarshal(data)
	if td.CmpNoError(t, err) {
		m := got.(*commands.Message)
		td.Cmp(t, m.GroupID, "g1")
		td.CmpNil(t, m.Content)
		td.Cmp(t, m.Destination, commands.NewQueue("A"))
		td.Cmp(t, m.OriginalDestination, commands.NewQueue("A"))
		td.Cmp(t, m.BrokerInTime, int64(0))
	}

	opts.Version = 2
	_, err = New(opts).Unmarshal(data)
	td.CmpTrue(t, errors.Is(err, codec.ErrVersionViolation), "got %v", err)
}

// TestBrokerTimesFixedWidth checks that broker timestamps take eight bytes each
// in tight encoding regardless of their value
func TestBrokerTimesFixedWidth(t *testing.T) {
	opts := Options{Version: 3, TightEncodingEnabled: true}
	zero, err := New(opts).Marshal(&commands.Message{})
	td.Require(t).CmpNoError(err)

	set, err := New(opts).Marshal(&commands.Message{BrokerInTime: 1, BrokerOutTime: math.MaxInt64})
	td.Require(t).CmpNoError(err)
	td.Cmp(t, len(set), len(zero))

	older, err := New(Options{Version: 2, TightEncodingEnabled: true}).Marshal(&commands.Message{})
	td.Require(t).CmpNoError(err)
	td.Cmp(t, len(zero)-len(older), 16, "v3 adds two eight-byte fields and one bit")
}

// TestVersionViolation checks every encoding against a decoder one version behind
func TestVersionViolation(t *testing.T) {
	for name, opts := range testOptions {
		t.Run(name, func(t *testing.T) {
			data, err := New(opts(3)).Marshal(fillMessage(&commands.Message{}, 3))
			td.CmpNoError(t, err)
			_, err = New(opts(2)).Unmarshal(data)
			td.CmpTrue(t, errors.Is(err, codec.ErrVersionViolation), "got %v", err)
		})
	}
}

func TestEncodeErrors(t *testing.T) {
	wf := New(DefaultOptions())

	t.Run("StringTooLarge", func(t *testing.T) {
		_, err := wf.Marshal(&commands.ControlCommand{Command: string(make([]byte, 70000))})
		td.CmpTrue(t, errors.Is(err, codec.ErrValueTooLarge), "got %v", err)
	})

	t.Run("UnknownType", func(t *testing.T) {
		_, err := wf.Marshal(unknownStructure{})
		td.CmpTrue(t, errors.Is(err, codec.ErrUnknownTypeCode), "got %v", err)
	})
}

type unknownStructure struct{}

func (unknownStructure) DataStructureType() byte { return 0xEE }
func (unknownStructure) String() string          { return "unknown" }

func TestNewClampsOptions(t *testing.T) {
	wf := New(Options{Version: 99, TightEncodingEnabled: false, CacheEnabled: true, CacheSize: 1 << 20})
	td.Cmp(t, wf.Version(), MaxVersion)
	td.CmpFalse(t, wf.CacheEnabled(), "loose encoding has no cache")
	td.CmpFalse(t, wf.TightEncodingEnabled())

	wf = New(Options{Version: 0, TightEncodingEnabled: true, CacheEnabled: true, CacheSize: 1 << 20})
	td.Cmp(t, wf.Version(), MinVersion)
	td.Cmp(t, wf.Options().CacheSize, 16383)
}

func TestMarshallerRegistry(t *testing.T) {
	for _, code := range commands.TypeCodes() {
		m := MarshallerFor(code)
		if td.CmpNotNil(t, m, commands.TypeName(code)) {
			td.Cmp(t, m.DataStructureType(), code)
			td.Cmp(t, m.New().DataStructureType(), code)
		}
	}
	td.CmpNil(t, MarshallerFor(0))
	td.CmpNil(t, MarshallerFor(200))
}
