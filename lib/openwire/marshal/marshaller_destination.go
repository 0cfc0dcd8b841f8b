package marshal

import (
	"github.com/ValentinKolb/dWire/lib/openwire/codec"
	"github.com/ValentinKolb/dWire/lib/openwire/commands"
)

// destinationMarshaller handles every destination kind: the only field is the physical name
type destinationMarshaller struct {
	code byte
}

func (m destinationMarshaller) DataStructureType() byte     { return m.code }
func (m destinationMarshaller) New() commands.DataStructure { return commands.New(m.code) }

func (destinationMarshaller) TightMarshal1(wf *WireFormat, ds commands.DataStructure, bs *codec.BooleanStream) (int, error) {
	d, err := as[commands.IDestination](ds, "record")
	if err != nil {
		return 0, err
	}
	return codec.TightMarshalString1(d.GetPhysicalName(), bs)
}

func (destinationMarshaller) TightMarshal2(wf *WireFormat, ds commands.DataStructure, out *codec.Writer, bs *codec.BooleanStream) error {
	d, err := as[commands.IDestination](ds, "record")
	if err != nil {
		return err
	}
	return codec.TightMarshalString2(d.GetPhysicalName(), out, bs)
}

func (destinationMarshaller) TightUnmarshal(wf *WireFormat, ds commands.DataStructure, in *codec.Reader, bs *codec.BooleanStream) error {
	d, err := as[commands.IDestination](ds, "record")
	if err != nil {
		return err
	}
	d.Dest().PhysicalName, err = codec.TightUnmarshalString(in, bs)
	return err
}

func (destinationMarshaller) LooseMarshal(wf *WireFormat, ds commands.DataStructure, out *codec.Writer) error {
	d, err := as[commands.IDestination](ds, "record")
	if err != nil {
		return err
	}
	return codec.LooseMarshalString(d.GetPhysicalName(), out)
}

func (destinationMarshaller) LooseUnmarshal(wf *WireFormat, ds commands.DataStructure, in *codec.Reader) error {
	d, err := as[commands.IDestination](ds, "record")
	if err != nil {
		return err
	}
	d.Dest().PhysicalName, err = codec.LooseUnmarshalString(in)
	return err
}
