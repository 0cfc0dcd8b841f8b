package marshal

import (
	"github.com/ValentinKolb/dWire/lib/openwire/codec"
	"github.com/ValentinKolb/dWire/lib/openwire/commands"
)

// The field cursors below walk the field list of one record. Each keeps the
// first error it runs into and turns every later call into a no-op, so a
// marshaller can list its fields in declaration order and check the error once.

// --------------------------------------------------------------------------
// Tight sizing pass
// --------------------------------------------------------------------------

type tightSizer struct {
	wf   *WireFormat
	bs   *codec.BooleanStream
	size int
	err  error
}

func (s *tightSizer) add(n int, err error) {
	if s.err == nil {
		s.size += n
		s.err = err
	}
}

// fixed accounts for a field of n bytes that is always present
func (s *tightSizer) fixed(n int) {
	s.size += n
}

func (s *tightSizer) flag(v bool) {
	if s.err == nil {
		s.bs.WriteBoolean(v)
	}
}

func (s *tightSizer) str(v string) {
	if s.err == nil {
		s.add(codec.TightMarshalString1(v, s.bs))
	}
}

func (s *tightSizer) byteArray(v []byte) {
	if s.err == nil {
		s.add(codec.TightMarshalByteArray1(v, s.bs))
	}
}

func (s *tightSizer) long(v int64) {
	if s.err == nil {
		s.add(codec.TightMarshalLong1(v, s.bs), nil)
	}
}

func (s *tightSizer) cached(ds commands.DataStructure) {
	if s.err == nil {
		s.add(tightMarshalCached1(s.wf, ds, s.bs))
	}
}

func (s *tightSizer) nested(ds commands.DataStructure) {
	if s.err == nil {
		s.add(tightMarshalNested1(s.wf, ds, s.bs))
	}
}

func (s *tightSizer) base(c *commands.BaseCommand) {
	if s.err == nil {
		s.add(tightMarshalBase1(c, s.bs), nil)
	}
}

func sizeArray[T commands.DataStructure](s *tightSizer, items []T) {
	if s.err == nil {
		s.add(tightMarshalArray1(s.wf, items, s.bs))
	}
}

// --------------------------------------------------------------------------
// Tight write pass
// --------------------------------------------------------------------------

type tightWriter struct {
	wf  *WireFormat
	out *codec.Writer
	bs  *codec.BooleanStream
	err error
}

func (w *tightWriter) do(err error) {
	if w.err == nil {
		w.err = err
	}
}

// flag consumes the boolean pushed for a boolean field; its value lives in the stream
func (w *tightWriter) flag() {
	if w.err == nil {
		_, w.err = w.bs.ReadBoolean()
	}
}

func (w *tightWriter) u8(v byte) {
	if w.err == nil {
		w.out.WriteByte(v)
	}
}

func (w *tightWriter) i32(v int32) {
	if w.err == nil {
		w.out.WriteInt(v)
	}
}

// i64 writes a long that is never compressed
func (w *tightWriter) i64(v int64) {
	if w.err == nil {
		w.out.WriteLong(v)
	}
}

func (w *tightWriter) str(v string) {
	if w.err == nil {
		w.do(codec.TightMarshalString2(v, w.out, w.bs))
	}
}

func (w *tightWriter) byteArray(v []byte) {
	if w.err == nil {
		w.do(codec.TightMarshalByteArray2(v, w.out, w.bs))
	}
}

func (w *tightWriter) long(v int64) {
	if w.err == nil {
		w.do(codec.TightMarshalLong2(v, w.out, w.bs))
	}
}

func (w *tightWriter) cached(ds commands.DataStructure) {
	if w.err == nil {
		w.do(tightMarshalCached2(w.wf, ds, w.out, w.bs))
	}
}

func (w *tightWriter) nested(ds commands.DataStructure) {
	if w.err == nil {
		w.do(tightMarshalNested2(w.wf, ds, w.out, w.bs))
	}
}

func (w *tightWriter) base(c *commands.BaseCommand) {
	if w.err == nil {
		w.do(tightMarshalBase2(c, w.out, w.bs))
	}
}

func writeArray[T commands.DataStructure](w *tightWriter, items []T) {
	if w.err == nil {
		w.do(tightMarshalArray2(w.wf, items, w.out, w.bs))
	}
}

// --------------------------------------------------------------------------
// Tight unmarshal
// --------------------------------------------------------------------------

type tightReader struct {
	wf  *WireFormat
	in  *codec.Reader
	bs  *codec.BooleanStream
	err error
}

// since reports whether a field of version v that is not led by a boolean is present
func (r *tightReader) since(v int) bool {
	return r.err == nil && r.wf.decodeSince(v, r.in)
}

// bitsSince reports whether a field of version v led by n booleans is present
func (r *tightReader) bitsSince(v, n int) bool {
	return r.err == nil && r.wf.decodeBitsSince(v, r.bs, n)
}

func (r *tightReader) flag() bool {
	if r.err != nil {
		return false
	}
	v, err := r.bs.ReadBoolean()
	r.err = err
	return v
}

func (r *tightReader) u8() byte {
	if r.err != nil {
		return 0
	}
	v, err := r.in.ReadByte()
	r.err = err
	return v
}

func (r *tightReader) i32() int32 {
	if r.err != nil {
		return 0
	}
	v, err := r.in.ReadInt()
	r.err = err
	return v
}

func (r *tightReader) i64() int64 {
	if r.err != nil {
		return 0
	}
	v, err := r.in.ReadLong()
	r.err = err
	return v
}

func (r *tightReader) str() string {
	if r.err != nil {
		return ""
	}
	v, err := codec.TightUnmarshalString(r.in, r.bs)
	r.err = err
	return v
}

func (r *tightReader) byteArray() []byte {
	if r.err != nil {
		return nil
	}
	v, err := codec.TightUnmarshalByteArray(r.in, r.bs)
	r.err = err
	return v
}

func (r *tightReader) long() int64 {
	if r.err != nil {
		return 0
	}
	v, err := codec.TightUnmarshalLong(r.in, r.bs)
	r.err = err
	return v
}

func (r *tightReader) cached() commands.DataStructure {
	if r.err != nil {
		return nil
	}
	ds, err := tightUnmarshalCached(r.wf, r.in, r.bs)
	r.err = err
	return ds
}

func (r *tightReader) nested() commands.DataStructure {
	if r.err != nil {
		return nil
	}
	ds, err := tightUnmarshalNested(r.wf, r.in, r.bs)
	r.err = err
	return ds
}

func (r *tightReader) base(c *commands.BaseCommand) {
	if r.err == nil {
		r.err = tightUnmarshalBase(c, r.in, r.bs)
	}
}

func readArray[T commands.DataStructure](r *tightReader, field string) []T {
	if r.err != nil {
		return nil
	}
	items, err := tightUnmarshalArray[T](r.wf, r.in, r.bs, field)
	r.err = err
	return items
}

// --------------------------------------------------------------------------
// Loose marshal
// --------------------------------------------------------------------------

type looseWriter struct {
	wf  *WireFormat
	out *codec.Writer
	err error
}

func (w *looseWriter) do(err error) {
	if w.err == nil {
		w.err = err
	}
}

func (w *looseWriter) flag(v bool) {
	if w.err == nil {
		w.out.WriteBool(v)
	}
}

func (w *looseWriter) u8(v byte) {
	if w.err == nil {
		w.out.WriteByte(v)
	}
}

func (w *looseWriter) i32(v int32) {
	if w.err == nil {
		w.out.WriteInt(v)
	}
}

func (w *looseWriter) long(v int64) {
	if w.err == nil {
		codec.LooseMarshalLong(v, w.out)
	}
}

func (w *looseWriter) str(v string) {
	if w.err == nil {
		w.do(codec.LooseMarshalString(v, w.out))
	}
}

func (w *looseWriter) byteArray(v []byte) {
	if w.err == nil {
		w.do(codec.LooseMarshalByteArray(v, w.out))
	}
}

func (w *looseWriter) cached(ds commands.DataStructure) {
	if w.err == nil {
		w.do(looseMarshalCached(w.wf, ds, w.out))
	}
}

func (w *looseWriter) nested(ds commands.DataStructure) {
	if w.err == nil {
		w.do(looseMarshalNested(w.wf, ds, w.out))
	}
}

func (w *looseWriter) base(c *commands.BaseCommand) {
	if w.err == nil {
		looseMarshalBase(c, w.out)
	}
}

func looseWriteArray[T commands.DataStructure](w *looseWriter, items []T) {
	if w.err == nil {
		w.do(looseMarshalArray(w.wf, items, w.out))
	}
}

// --------------------------------------------------------------------------
// Loose unmarshal
// --------------------------------------------------------------------------

type looseReader struct {
	wf  *WireFormat
	in  *codec.Reader
	err error
}

// since reports whether a field of version v is present
func (r *looseReader) since(v int) bool {
	return r.err == nil && r.wf.decodeSince(v, r.in)
}

func (r *looseReader) flag() bool {
	if r.err != nil {
		return false
	}
	v, err := r.in.ReadBool()
	r.err = err
	return v
}

func (r *looseReader) u8() byte {
	if r.err != nil {
		return 0
	}
	v, err := r.in.ReadByte()
	r.err = err
	return v
}

func (r *looseReader) i32() int32 {
	if r.err != nil {
		return 0
	}
	v, err := r.in.ReadInt()
	r.err = err
	return v
}

func (r *looseReader) long() int64 {
	if r.err != nil {
		return 0
	}
	v, err := codec.LooseUnmarshalLong(r.in)
	r.err = err
	return v
}

func (r *looseReader) str() string {
	if r.err != nil {
		return ""
	}
	v, err := codec.LooseUnmarshalString(r.in)
	r.err = err
	return v
}

func (r *looseReader) byteArray() []byte {
	if r.err != nil {
		return nil
	}
	v, err := codec.LooseUnmarshalByteArray(r.in)
	r.err = err
	return v
}

func (r *looseReader) cached() commands.DataStructure {
	if r.err != nil {
		return nil
	}
	ds, err := looseUnmarshalCached(r.wf, r.in)
	r.err = err
	return ds
}

func (r *looseReader) nested() commands.DataStructure {
	if r.err != nil {
		return nil
	}
	ds, err := looseUnmarshalNested(r.wf, r.in)
	r.err = err
	return ds
}

func (r *looseReader) base(c *commands.BaseCommand) {
	if r.err == nil {
		r.err = looseUnmarshalBase(c, r.in)
	}
}

func looseReadArray[T commands.DataStructure](r *looseReader, field string) []T {
	if r.err != nil {
		return nil
	}
	items, err := looseUnmarshalArray[T](r.wf, r.in, field)
	r.err = err
	return items
}

// --------------------------------------------------------------------------
// Field assignment
// --------------------------------------------------------------------------

// errSetter is implemented by both reader cursors
type errSetter interface {
	fail(err error)
	failed() bool
}

func (r *tightReader) fail(err error) { r.err = err }
func (r *tightReader) failed() bool   { return r.err != nil }
func (r *looseReader) fail(err error) { r.err = err }
func (r *looseReader) failed() bool   { return r.err != nil }

// field converts a decoded reference to the type of the field it is assigned
// to, recording codec.ErrTypeMismatch on the cursor when it does not fit
func field[T commands.DataStructure](r errSetter, ds commands.DataStructure, name string) T {
	var zero T
	if r.failed() {
		return zero
	}
	v, err := as[T](ds, name)
	if err != nil {
		r.fail(err)
	}
	return v
}
