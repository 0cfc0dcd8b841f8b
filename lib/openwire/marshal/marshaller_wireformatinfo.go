package marshal

import (
	"github.com/ValentinKolb/dWire/lib/openwire/codec"
	"github.com/ValentinKolb/dWire/lib/openwire/commands"
)

// wireFormatInfoMarshaller handles the handshake record: 8 magic bytes, the
// version and the negotiation properties. It has no command header.
type wireFormatInfoMarshaller struct{}

func (wireFormatInfoMarshaller) DataStructureType() byte     { return commands.TypeWireFormatInfo }
func (wireFormatInfoMarshaller) New() commands.DataStructure { return &commands.WireFormatInfo{} }

func (wireFormatInfoMarshaller) TightMarshal1(wf *WireFormat, ds commands.DataStructure, bs *codec.BooleanStream) (int, error) {
	info, err := as[*commands.WireFormatInfo](ds, "record")
	if err != nil {
		return 0, err
	}
	s := &tightSizer{wf: wf, bs: bs}
	s.fixed(len(info.Magic) + 4)
	s.byteArray(info.MarshalledProperties)
	return s.size, s.err
}

func (wireFormatInfoMarshaller) TightMarshal2(wf *WireFormat, ds commands.DataStructure, out *codec.Writer, bs *codec.BooleanStream) error {
	info, err := as[*commands.WireFormatInfo](ds, "record")
	if err != nil {
		return err
	}
	out.Write(info.Magic[:])
	w := &tightWriter{wf: wf, out: out, bs: bs}
	w.i32(info.Version)
	w.byteArray(info.MarshalledProperties)
	return w.err
}

func (wireFormatInfoMarshaller) TightUnmarshal(wf *WireFormat, ds commands.DataStructure, in *codec.Reader, bs *codec.BooleanStream) error {
	info, err := as[*commands.WireFormatInfo](ds, "record")
	if err != nil {
		return err
	}
	magic, err := in.ReadFully(len(info.Magic))
	if err != nil {
		return err
	}
	copy(info.Magic[:], magic)
	r := &tightReader{wf: wf, in: in, bs: bs}
	info.Version = r.i32()
	info.MarshalledProperties = r.byteArray()
	return r.err
}

func (wireFormatInfoMarshaller) LooseMarshal(wf *WireFormat, ds commands.DataStructure, out *codec.Writer) error {
	info, err := as[*commands.WireFormatInfo](ds, "record")
	if err != nil {
		return err
	}
	out.Write(info.Magic[:])
	w := &looseWriter{wf: wf, out: out}
	w.i32(info.Version)
	w.byteArray(info.MarshalledProperties)
	return w.err
}

func (wireFormatInfoMarshaller) LooseUnmarshal(wf *WireFormat, ds commands.DataStructure, in *codec.Reader) error {
	info, err := as[*commands.WireFormatInfo](ds, "record")
	if err != nil {
		return err
	}
	magic, err := in.ReadFully(len(info.Magic))
	if err != nil {
		return err
	}
	copy(info.Magic[:], magic)
	r := &looseReader{wf: wf, in: in}
	info.Version = r.i32()
	info.MarshalledProperties = r.byteArray()
	return r.err
}
