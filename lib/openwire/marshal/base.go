package marshal

import (
	"fmt"
	"math"
	"reflect"

	"github.com/ValentinKolb/dWire/lib/openwire/codec"
	"github.com/ValentinKolb/dWire/lib/openwire/commands"
)

// --------------------------------------------------------------------------
// Helpers
// --------------------------------------------------------------------------

// isNil reports whether ds is absent, including typed nil pointers
func isNil(ds commands.DataStructure) bool {
	if ds == nil {
		return true
	}
	v := reflect.ValueOf(ds)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

// as converts a decoded object to the type of the field it is assigned to
func as[T commands.DataStructure](ds commands.DataStructure, field string) (T, error) {
	var zero T
	if ds == nil {
		return zero, nil
	}
	v, ok := ds.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s cannot hold a %s", codec.ErrTypeMismatch, field, commands.TypeName(ds.DataStructureType()))
	}
	return v, nil
}

// decodeSince reports whether a field introduced at version v is read. In the
// top-level record the record must also not have ended: a peer on an older
// version stops before its trailing gated fields. A nested object has no
// extent of its own, so it is gated on the version alone.
func (wf *WireFormat) decodeSince(v int, in *codec.Reader) bool {
	if wf.depth > 0 {
		return wf.since(v)
	}
	return wf.since(v) && in.Remaining() > 0
}

// decodeBitsSince is decodeSince for tight fields that start with n booleans
func (wf *WireFormat) decodeBitsSince(v int, bs *codec.BooleanStream, n int) bool {
	if wf.depth > 0 {
		return wf.since(v)
	}
	return wf.since(v) && bs.Remaining() >= n
}

// --------------------------------------------------------------------------
// Cache slot queue
// --------------------------------------------------------------------------

// refQueue holds the cache slots chosen during the sizing pass of one tight
// record, in the order the write pass consumes them. A first occurrence
// reserves its position before its fields are sized, so the queue is in field
// order even though the slot itself is only assigned afterwards.
type refQueue struct {
	slots []int
	pos   int
}

func (q *refQueue) reset() {
	q.slots = q.slots[:0]
	q.pos = 0
}

func (q *refQueue) push(slot int) {
	q.slots = append(q.slots, slot)
}

func (q *refQueue) reserve() int {
	q.slots = append(q.slots, -1)
	return len(q.slots) - 1
}

func (q *refQueue) set(i, slot int) {
	q.slots[i] = slot
}

func (q *refQueue) pop() (int, error) {
	if q.pos >= len(q.slots) {
		return 0, fmt.Errorf("openwire: write pass used more cache slots than the sizing pass chose")
	}
	slot := q.slots[q.pos]
	q.pos++
	return slot, nil
}

// cacheKey identifies ds by value: its type code followed by its loose encoding
func (wf *WireFormat) cacheKey(m IMarshaller, ds commands.DataStructure) (string, error) {
	w := codec.NewWriter(32)
	w.WriteByte(m.DataStructureType())
	if err := m.LooseMarshal(wf, ds, w); err != nil {
		return "", err
	}
	return string(w.Bytes()), nil
}

// marshallerOf returns the marshaller for the dynamic type of ds
func marshallerOf(ds commands.DataStructure) (IMarshaller, error) {
	m := MarshallerFor(ds.DataStructureType())
	if m == nil {
		return nil, fmt.Errorf("%w: %d", codec.ErrUnknownTypeCode, ds.DataStructureType())
	}
	return m, nil
}

// --------------------------------------------------------------------------
// Objects (type byte + fields)
// --------------------------------------------------------------------------

func tightMarshalObject1(wf *WireFormat, ds commands.DataStructure, bs *codec.BooleanStream) (int, error) {
	m, err := marshallerOf(ds)
	if err != nil {
		return 0, err
	}
	size, err := m.TightMarshal1(wf, ds, bs)
	return 1 + size, err
}

func tightMarshalObject2(wf *WireFormat, ds commands.DataStructure, out *codec.Writer, bs *codec.BooleanStream) error {
	m, err := marshallerOf(ds)
	if err != nil {
		return err
	}
	out.WriteByte(m.DataStructureType())
	return m.TightMarshal2(wf, ds, out, bs)
}

func tightUnmarshalObject(wf *WireFormat, in *codec.Reader, bs *codec.BooleanStream) (commands.DataStructure, error) {
	code, err := in.ReadByte()
	if err != nil {
		return nil, err
	}
	m := MarshallerFor(code)
	if m == nil {
		return nil, &codec.DecodeError{TypeCode: code, Err: fmt.Errorf("%w: %d", codec.ErrUnknownTypeCode, code)}
	}
	ds := m.New()
	wf.depth++
	defer func() { wf.depth-- }()
	if err := m.TightUnmarshal(wf, ds, in, bs); err != nil {
		return nil, err
	}
	return ds, nil
}

func looseMarshalObject(wf *WireFormat, ds commands.DataStructure, out *codec.Writer) error {
	m, err := marshallerOf(ds)
	if err != nil {
		return err
	}
	out.WriteByte(m.DataStructureType())
	return m.LooseMarshal(wf, ds, out)
}

func looseUnmarshalObject(wf *WireFormat, in *codec.Reader) (commands.DataStructure, error) {
	code, err := in.ReadByte()
	if err != nil {
		return nil, err
	}
	m := MarshallerFor(code)
	if m == nil {
		return nil, &codec.DecodeError{TypeCode: code, Err: fmt.Errorf("%w: %d", codec.ErrUnknownTypeCode, code)}
	}
	ds := m.New()
	wf.depth++
	defer func() { wf.depth-- }()
	if err := m.LooseUnmarshal(wf, ds, in); err != nil {
		return nil, err
	}
	return ds, nil
}

// --------------------------------------------------------------------------
// Nested references: presence, then the object inline
// --------------------------------------------------------------------------

func tightMarshalNested1(wf *WireFormat, ds commands.DataStructure, bs *codec.BooleanStream) (int, error) {
	present := !isNil(ds)
	bs.WriteBoolean(present)
	if !present {
		return 0, nil
	}
	return tightMarshalObject1(wf, ds, bs)
}

func tightMarshalNested2(wf *WireFormat, ds commands.DataStructure, out *codec.Writer, bs *codec.BooleanStream) error {
	present, err := bs.ReadBoolean()
	if err != nil || !present {
		return err
	}
	return tightMarshalObject2(wf, ds, out, bs)
}

func tightUnmarshalNested(wf *WireFormat, in *codec.Reader, bs *codec.BooleanStream) (commands.DataStructure, error) {
	present, err := bs.ReadBoolean()
	if err != nil || !present {
		return nil, err
	}
	return tightUnmarshalObject(wf, in, bs)
}

func looseMarshalNested(wf *WireFormat, ds commands.DataStructure, out *codec.Writer) error {
	present := !isNil(ds)
	out.WriteBool(present)
	if !present {
		return nil
	}
	return looseMarshalObject(wf, ds, out)
}

func looseUnmarshalNested(wf *WireFormat, in *codec.Reader) (commands.DataStructure, error) {
	present, err := in.ReadBool()
	if err != nil || !present {
		return nil, err
	}
	return looseUnmarshalObject(wf, in)
}

// --------------------------------------------------------------------------
// Cached references: presence, first-occurrence flag, slot, object on first occurrence
// --------------------------------------------------------------------------

func tightMarshalCached1(wf *WireFormat, ds commands.DataStructure, bs *codec.BooleanStream) (int, error) {
	if !wf.opts.CacheEnabled {
		return tightMarshalNested1(wf, ds, bs)
	}
	present := !isNil(ds)
	bs.WriteBoolean(present)
	if !present {
		return 0, nil
	}

	m, err := marshallerOf(ds)
	if err != nil {
		return 0, err
	}
	key, err := wf.cacheKey(m, ds)
	if err != nil {
		return 0, err
	}
	if slot, ok := wf.marshalCache.Lookup(key); ok {
		bs.WriteBoolean(false)
		wf.refs.push(slot)
		countCacheHit()
		return 2, nil
	}

	bs.WriteBoolean(true)
	ref := wf.refs.reserve()
	size, err := tightMarshalObject1(wf, ds, bs)
	if err != nil {
		return 0, err
	}
	slot, evicted := wf.marshalCache.Add(key)
	wf.refs.set(ref, slot)
	countCacheMiss(evicted)
	if evicted {
		Logger.Debugf("cache slot %d reused for %s", slot, ds)
	}
	return 2 + size, nil
}

func tightMarshalCached2(wf *WireFormat, ds commands.DataStructure, out *codec.Writer, bs *codec.BooleanStream) error {
	if !wf.opts.CacheEnabled {
		return tightMarshalNested2(wf, ds, out, bs)
	}
	present, err := bs.ReadBoolean()
	if err != nil || !present {
		return err
	}
	isNew, err := bs.ReadBoolean()
	if err != nil {
		return err
	}
	slot, err := wf.refs.pop()
	if err != nil {
		return err
	}
	out.WriteUint16(uint16(slot))
	if !isNew {
		return nil
	}
	return tightMarshalObject2(wf, ds, out, bs)
}

func tightUnmarshalCached(wf *WireFormat, in *codec.Reader, bs *codec.BooleanStream) (commands.DataStructure, error) {
	if !wf.opts.CacheEnabled {
		return tightUnmarshalNested(wf, in, bs)
	}
	present, err := bs.ReadBoolean()
	if err != nil || !present {
		return nil, err
	}
	isNew, err := bs.ReadBoolean()
	if err != nil {
		return nil, err
	}
	slot, err := in.ReadUint16()
	if err != nil {
		return nil, err
	}
	if !isNew {
		return wf.unmarshalCache.Get(int(slot))
	}

	ds, err := tightUnmarshalObject(wf, in, bs)
	if err != nil {
		return nil, err
	}
	if err := wf.unmarshalCache.Put(int(slot), ds); err != nil {
		return nil, err
	}
	return ds, nil
}

// The loose encoding has no back-references
func looseMarshalCached(wf *WireFormat, ds commands.DataStructure, out *codec.Writer) error {
	return looseMarshalNested(wf, ds, out)
}

func looseUnmarshalCached(wf *WireFormat, in *codec.Reader) (commands.DataStructure, error) {
	return looseUnmarshalNested(wf, in)
}

// --------------------------------------------------------------------------
// Arrays of cached references: presence, count:uint16, elements
// --------------------------------------------------------------------------

func tightMarshalArray1[T commands.DataStructure](wf *WireFormat, items []T, bs *codec.BooleanStream) (int, error) {
	bs.WriteBoolean(len(items) > 0)
	if len(items) == 0 {
		return 0, nil
	}
	if len(items) > math.MaxUint16 {
		return 0, fmt.Errorf("%w: array of %d elements", codec.ErrValueTooLarge, len(items))
	}
	size := 2
	for _, item := range items {
		n, err := tightMarshalCached1(wf, item, bs)
		if err != nil {
			return 0, err
		}
		size += n
	}
	return size, nil
}

func tightMarshalArray2[T commands.DataStructure](wf *WireFormat, items []T, out *codec.Writer, bs *codec.BooleanStream) error {
	present, err := bs.ReadBoolean()
	if err != nil || !present {
		return err
	}
	out.WriteUint16(uint16(len(items)))
	for _, item := range items {
		if err := tightMarshalCached2(wf, item, out, bs); err != nil {
			return err
		}
	}
	return nil
}

func tightUnmarshalArray[T commands.DataStructure](wf *WireFormat, in *codec.Reader, bs *codec.BooleanStream, field string) ([]T, error) {
	present, err := bs.ReadBoolean()
	if err != nil || !present {
		return nil, err
	}
	count, err := in.ReadUint16()
	if err != nil {
		return nil, err
	}
	// every element starts with at least one boolean
	if int(count) > bs.Remaining() {
		return nil, fmt.Errorf("%w: %s declares %d elements with %d booleans left", codec.ErrMalformedStream, field, count, bs.Remaining())
	}

	items := make([]T, 0, count)
	for i := 0; i < int(count); i++ {
		ds, err := tightUnmarshalCached(wf, in, bs)
		if err != nil {
			return nil, err
		}
		item, err := as[T](ds, field)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func looseMarshalArray[T commands.DataStructure](wf *WireFormat, items []T, out *codec.Writer) error {
	out.WriteBool(len(items) > 0)
	if len(items) == 0 {
		return nil
	}
	if len(items) > math.MaxUint16 {
		return fmt.Errorf("%w: array of %d elements", codec.ErrValueTooLarge, len(items))
	}
	out.WriteUint16(uint16(len(items)))
	for _, item := range items {
		if err := looseMarshalNested(wf, item, out); err != nil {
			return err
		}
	}
	return nil
}

func looseUnmarshalArray[T commands.DataStructure](wf *WireFormat, in *codec.Reader, field string) ([]T, error) {
	present, err := in.ReadBool()
	if err != nil || !present {
		return nil, err
	}
	count, err := in.ReadUint16()
	if err != nil {
		return nil, err
	}
	// every element starts with at least its presence byte
	if int(count) > in.Remaining() {
		return nil, fmt.Errorf("%w: %s declares %d elements with %d bytes left", codec.ErrMalformedStream, field, count, in.Remaining())
	}

	items := make([]T, 0, count)
	for i := 0; i < int(count); i++ {
		ds, err := looseUnmarshalNested(wf, in)
		if err != nil {
			return nil, err
		}
		item, err := as[T](ds, field)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// --------------------------------------------------------------------------
// Command header: command id and response flag
// --------------------------------------------------------------------------

func tightMarshalBase1(c *commands.BaseCommand, bs *codec.BooleanStream) int {
	bs.WriteBoolean(c.ResponseRequired)
	return 4
}

func tightMarshalBase2(c *commands.BaseCommand, out *codec.Writer, bs *codec.BooleanStream) error {
	out.WriteInt(c.CommandID)
	_, err := bs.ReadBoolean()
	return err
}

func tightUnmarshalBase(c *commands.BaseCommand, in *codec.Reader, bs *codec.BooleanStream) error {
	id, err := in.ReadInt()
	if err != nil {
		return err
	}
	required, err := bs.ReadBoolean()
	if err != nil {
		return err
	}
	c.CommandID = id
	c.ResponseRequired = required
	return nil
}

func looseMarshalBase(c *commands.BaseCommand, out *codec.Writer) {
	out.WriteInt(c.CommandID)
	out.WriteBool(c.ResponseRequired)
}

func looseUnmarshalBase(c *commands.BaseCommand, in *codec.Reader) error {
	id, err := in.ReadInt()
	if err != nil {
		return err
	}
	required, err := in.ReadBool()
	if err != nil {
		return err
	}
	c.CommandID = id
	c.ResponseRequired = required
	return nil
}
