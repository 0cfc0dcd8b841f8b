package marshal

import (
	"fmt"
	"math"

	"github.com/ValentinKolb/dWire/lib/openwire/cache"
	"github.com/ValentinKolb/dWire/lib/openwire/codec"
	"github.com/ValentinKolb/dWire/lib/openwire/commands"
	"github.com/lni/dragonboat/v4/logger"
)

// Logger is the logger of the codec
var Logger = logger.GetLogger("openwire")

// Protocol versions understood by this package
const (
	MinVersion     = 1
	MaxVersion     = 12
	DefaultVersion = MaxVersion
)

// --------------------------------------------------------------------------
// Options
// --------------------------------------------------------------------------

// Options configures a WireFormat. After negotiation these are the values both
// peers agreed on.
type Options struct {
	Version              int  // protocol version, clamped to [MinVersion, MaxVersion]
	TightEncodingEnabled bool // tight instead of loose encoding
	CacheEnabled         bool // cached references (tight encoding only)
	CacheSize            int  // number of cache slots, clamped to [1, cache.MaxSize]
}

// DefaultOptions returns the preferences proposed by a peer that has no configuration
func DefaultOptions() Options {
	return Options{
		Version:              DefaultVersion,
		TightEncodingEnabled: true,
		CacheEnabled:         true,
		CacheSize:            cache.DefaultSize,
	}
}

// String returns a human-readable representation of the options
func (o Options) String() string {
	return fmt.Sprintf("version=%d, tight=%t, cache=%t, cacheSize=%d",
		o.Version, o.TightEncodingEnabled, o.CacheEnabled, o.CacheSize)
}

// --------------------------------------------------------------------------
// WireFormat
// --------------------------------------------------------------------------

// WireFormat is the codec context of one connection
type WireFormat struct {
	opts Options

	// encode direction
	marshalCache *cache.MarshalCache
	refs         refQueue

	// decode direction
	unmarshalCache *cache.UnmarshalCache
	depth          int // number of enclosing objects of the one being decoded
}

// New creates a context with fresh cache tables
func New(opts Options) *WireFormat {
	if opts.Version < MinVersion {
		opts.Version = MinVersion
	}
	if opts.Version > MaxVersion {
		opts.Version = MaxVersion
	}
	if opts.CacheSize < 1 {
		opts.CacheSize = cache.DefaultSize
	}
	if opts.CacheSize > cache.MaxSize {
		opts.CacheSize = cache.MaxSize
	}
	// back-references only exist in the tight encoding
	if !opts.TightEncodingEnabled {
		opts.CacheEnabled = false
	}

	wf := &WireFormat{opts: opts}
	if opts.CacheEnabled {
		wf.marshalCache = cache.NewMarshalCache(opts.CacheSize)
		wf.unmarshalCache = cache.NewUnmarshalCache(opts.CacheSize)
	}
	return wf
}

// Version returns the protocol version fields are gated on
func (wf *WireFormat) Version() int {
	return wf.opts.Version
}

// TightEncodingEnabled reports whether records use the tight encoding
func (wf *WireFormat) TightEncodingEnabled() bool {
	return wf.opts.TightEncodingEnabled
}

// CacheEnabled reports whether cached references use the cache tables
func (wf *WireFormat) CacheEnabled() bool {
	return wf.opts.CacheEnabled
}

// Options returns the effective options after clamping
func (wf *WireFormat) Options() Options {
	return wf.opts
}

// since reports whether fields introduced at version v are part of the encoding
func (wf *WireFormat) since(v int) bool {
	return wf.opts.Version >= v
}

// --------------------------------------------------------------------------
// Encode
// --------------------------------------------------------------------------

// Encode marshals cmd with the given context
func Encode(cmd commands.DataStructure, wf *WireFormat) ([]byte, error) {
	return wf.Marshal(cmd)
}

// Decode unmarshals exactly one record from data with the given context
func Decode(data []byte, wf *WireFormat) (commands.DataStructure, error) {
	return wf.Unmarshal(data)
}

// Marshal encodes ds as one record. A nil ds encodes as the null record.
func (wf *WireFormat) Marshal(ds commands.DataStructure) ([]byte, error) {
	out := codec.NewWriter(256)
	if err := wf.MarshalTo(out, ds); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// MarshalTo appends the record of ds to out
func (wf *WireFormat) MarshalTo(out *codec.Writer, ds commands.DataStructure) error {
	if isNil(ds) {
		return out.WriteByte(commands.TypeNull)
	}

	code := ds.DataStructureType()
	m := MarshallerFor(code)
	if m == nil {
		return fmt.Errorf("%w: %d", codec.ErrUnknownTypeCode, code)
	}

	start := out.Len()
	var err error
	if wf.opts.TightEncodingEnabled {
		err = wf.tightMarshal(m, ds, out)
	} else {
		err = wf.looseMarshal(m, ds, out)
	}
	if err != nil {
		countEncodeError()
		return fmt.Errorf("encoding %s: %w", commands.TypeName(code), err)
	}

	countEncoded(wf.opts.TightEncodingEnabled, out.Len()-start)
	return nil
}

func (wf *WireFormat) tightMarshal(m IMarshaller, ds commands.DataStructure, out *codec.Writer) error {
	bs := codec.NewBooleanStream()
	wf.refs.reset()

	size, err := m.TightMarshal1(wf, ds, bs)
	if err != nil {
		return err
	}
	size += bs.MarshalledSize()
	if size > math.MaxInt32 {
		return fmt.Errorf("%w: record of %d bytes", codec.ErrValueTooLarge, size)
	}

	out.WriteByte(m.DataStructureType())
	out.WriteInt(int32(size))
	start := out.Len()
	if err := bs.Marshal(out); err != nil {
		return err
	}
	if err := m.TightMarshal2(wf, ds, out, bs); err != nil {
		return err
	}
	if written := out.Len() - start; written != size {
		return fmt.Errorf("openwire: sizing pass computed %d bytes, write pass wrote %d", size, written)
	}
	return nil
}

func (wf *WireFormat) looseMarshal(m IMarshaller, ds commands.DataStructure, out *codec.Writer) error {
	out.WriteByte(m.DataStructureType())
	return m.LooseMarshal(wf, ds, out)
}

// --------------------------------------------------------------------------
// Decode
// --------------------------------------------------------------------------

// Unmarshal decodes data, which must hold exactly one record. The null record
// decodes to nil.
func (wf *WireFormat) Unmarshal(data []byte) (commands.DataStructure, error) {
	in := codec.NewReader(data)
	ds, err := wf.UnmarshalFrom(in)
	if err != nil {
		return nil, err
	}
	if in.Remaining() != 0 {
		countDecodeError(codec.ErrMalformedStream)
		return nil, fmt.Errorf("%w: %d bytes after the record", codec.ErrMalformedStream, in.Remaining())
	}
	return ds, nil
}

// UnmarshalFrom decodes the next record of in. A tight record ends at its
// declared length. A loose record has no length, so it must extend to the end of in.
//
// An unknown type code fails right after the type byte; nothing else is consumed.
func (wf *WireFormat) UnmarshalFrom(in *codec.Reader) (commands.DataStructure, error) {
	start := in.Pos()
	code, err := in.ReadByte()
	if err != nil {
		countDecodeError(err)
		return nil, err
	}
	if code == commands.TypeNull {
		return nil, nil
	}

	m := MarshallerFor(code)
	if m == nil {
		err := &codec.DecodeError{TypeCode: code, Err: fmt.Errorf("%w: %d", codec.ErrUnknownTypeCode, code)}
		countDecodeError(err)
		Logger.Debugf("rejecting record: %v", err)
		return nil, err
	}

	var ds commands.DataStructure
	if wf.opts.TightEncodingEnabled {
		ds, err = wf.tightUnmarshal(m, in)
	} else {
		ds, err = wf.looseUnmarshal(m, in)
	}
	if err != nil {
		err = &codec.DecodeError{TypeCode: code, Err: err}
		countDecodeError(err)
		Logger.Debugf("rejecting record: %v", err)
		return nil, err
	}

	countDecoded(wf.opts.TightEncodingEnabled, in.Pos()-start)
	return ds, nil
}

func (wf *WireFormat) tightUnmarshal(m IMarshaller, in *codec.Reader) (commands.DataStructure, error) {
	length, err := in.ReadInt()
	if err != nil {
		return nil, err
	}
	if length < 0 || int(length) > in.Remaining() {
		return nil, fmt.Errorf("%w: record length %d with %d bytes left", codec.ErrMalformedStream, length, in.Remaining())
	}
	body, err := in.Sub(int(length))
	if err != nil {
		return nil, err
	}

	bs := codec.NewBooleanStream()
	if err := bs.Unmarshal(body); err != nil {
		return nil, err
	}
	ds := m.New()
	if err := m.TightUnmarshal(wf, ds, body, bs); err != nil {
		return nil, err
	}

	// a whole unread byte of booleans or any unread set bit belongs to fields of a later version
	if body.Remaining() > 0 || bs.Remaining() >= 8 || bs.HasSetBitsRemaining() {
		return nil, fmt.Errorf("%w: %d bytes and %d booleans left at version %d",
			codec.ErrVersionViolation, body.Remaining(), bs.Remaining(), wf.opts.Version)
	}
	return ds, nil
}

func (wf *WireFormat) looseUnmarshal(m IMarshaller, in *codec.Reader) (commands.DataStructure, error) {
	ds := m.New()
	if err := m.LooseUnmarshal(wf, ds, in); err != nil {
		return nil, err
	}
	if in.Remaining() > 0 {
		return nil, fmt.Errorf("%w: %d bytes left at version %d", codec.ErrVersionViolation, in.Remaining(), wf.opts.Version)
	}
	return ds, nil
}
