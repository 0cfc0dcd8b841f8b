package marshal

import (
	"github.com/ValentinKolb/dWire/lib/openwire/codec"
	"github.com/ValentinKolb/dWire/lib/openwire/commands"
)

// --------------------------------------------------------------------------
// ConnectionID: value string
// --------------------------------------------------------------------------

type connectionIDMarshaller struct{}

func (connectionIDMarshaller) DataStructureType() byte     { return commands.TypeConnectionID }
func (connectionIDMarshaller) New() commands.DataStructure { return &commands.ConnectionID{} }

func (connectionIDMarshaller) TightMarshal1(wf *WireFormat, ds commands.DataStructure, bs *codec.BooleanStream) (int, error) {
	id, err := as[*commands.ConnectionID](ds, "record")
	if err != nil {
		return 0, err
	}
	return codec.TightMarshalString1(id.Value, bs)
}

func (connectionIDMarshaller) TightMarshal2(wf *WireFormat, ds commands.DataStructure, out *codec.Writer, bs *codec.BooleanStream) error {
	id, err := as[*commands.ConnectionID](ds, "record")
	if err != nil {
		return err
	}
	return codec.TightMarshalString2(id.Value, out, bs)
}

func (connectionIDMarshaller) TightUnmarshal(wf *WireFormat, ds commands.DataStructure, in *codec.Reader, bs *codec.BooleanStream) error {
	id, err := as[*commands.ConnectionID](ds, "record")
	if err != nil {
		return err
	}
	id.Value, err = codec.TightUnmarshalString(in, bs)
	return err
}

func (connectionIDMarshaller) LooseMarshal(wf *WireFormat, ds commands.DataStructure, out *codec.Writer) error {
	id, err := as[*commands.ConnectionID](ds, "record")
	if err != nil {
		return err
	}
	return codec.LooseMarshalString(id.Value, out)
}

func (connectionIDMarshaller) LooseUnmarshal(wf *WireFormat, ds commands.DataStructure, in *codec.Reader) error {
	id, err := as[*commands.ConnectionID](ds, "record")
	if err != nil {
		return err
	}
	id.Value, err = codec.LooseUnmarshalString(in)
	return err
}

// --------------------------------------------------------------------------
// BrokerID: value string
// --------------------------------------------------------------------------

type brokerIDMarshaller struct{}

func (brokerIDMarshaller) DataStructureType() byte     { return commands.TypeBrokerID }
func (brokerIDMarshaller) New() commands.DataStructure { return &commands.BrokerID{} }

func (brokerIDMarshaller) TightMarshal1(wf *WireFormat, ds commands.DataStructure, bs *codec.BooleanStream) (int, error) {
	id, err := as[*commands.BrokerID](ds, "record")
	if err != nil {
		return 0, err
	}
	return codec.TightMarshalString1(id.Value, bs)
}

func (brokerIDMarshaller) TightMarshal2(wf *WireFormat, ds commands.DataStructure, out *codec.Writer, bs *codec.BooleanStream) error {
	id, err := as[*commands.BrokerID](ds, "record")
	if err != nil {
		return err
	}
	return codec.TightMarshalString2(id.Value, out, bs)
}

func (brokerIDMarshaller) TightUnmarshal(wf *WireFormat, ds commands.DataStructure, in *codec.Reader, bs *codec.BooleanStream) error {
	id, err := as[*commands.BrokerID](ds, "record")
	if err != nil {
		return err
	}
	id.Value, err = codec.TightUnmarshalString(in, bs)
	return err
}

func (brokerIDMarshaller) LooseMarshal(wf *WireFormat, ds commands.DataStructure, out *codec.Writer) error {
	id, err := as[*commands.BrokerID](ds, "record")
	if err != nil {
		return err
	}
	return codec.LooseMarshalString(id.Value, out)
}

func (brokerIDMarshaller) LooseUnmarshal(wf *WireFormat, ds commands.DataStructure, in *codec.Reader) error {
	id, err := as[*commands.BrokerID](ds, "record")
	if err != nil {
		return err
	}
	id.Value, err = codec.LooseUnmarshalString(in)
	return err
}

// --------------------------------------------------------------------------
// SessionID: connection id string, value long
// --------------------------------------------------------------------------

type sessionIDMarshaller struct{}

func (sessionIDMarshaller) DataStructureType() byte     { return commands.TypeSessionID }
func (sessionIDMarshaller) New() commands.DataStructure { return &commands.SessionID{} }

func (sessionIDMarshaller) TightMarshal1(wf *WireFormat, ds commands.DataStructure, bs *codec.BooleanStream) (int, error) {
	id, err := as[*commands.SessionID](ds, "record")
	if err != nil {
		return 0, err
	}
	s := &tightSizer{wf: wf, bs: bs}
	s.str(id.ConnectionID)
	s.long(id.Value)
	return s.size, s.err
}

func (sessionIDMarshaller) TightMarshal2(wf *WireFormat, ds commands.DataStructure, out *codec.Writer, bs *codec.BooleanStream) error {
	id, err := as[*commands.SessionID](ds, "record")
	if err != nil {
		return err
	}
	w := &tightWriter{wf: wf, out: out, bs: bs}
	w.str(id.ConnectionID)
	w.long(id.Value)
	return w.err
}

func (sessionIDMarshaller) TightUnmarshal(wf *WireFormat, ds commands.DataStructure, in *codec.Reader, bs *codec.BooleanStream) error {
	id, err := as[*commands.SessionID](ds, "record")
	if err != nil {
		return err
	}
	r := &tightReader{wf: wf, in: in, bs: bs}
	id.ConnectionID = r.str()
	id.Value = r.long()
	return r.err
}

func (sessionIDMarshaller) LooseMarshal(wf *WireFormat, ds commands.DataStructure, out *codec.Writer) error {
	id, err := as[*commands.SessionID](ds, "record")
	if err != nil {
		return err
	}
	w := &looseWriter{wf: wf, out: out}
	w.str(id.ConnectionID)
	w.long(id.Value)
	return w.err
}

func (sessionIDMarshaller) LooseUnmarshal(wf *WireFormat, ds commands.DataStructure, in *codec.Reader) error {
	id, err := as[*commands.SessionID](ds, "record")
	if err != nil {
		return err
	}
	r := &looseReader{wf: wf, in: in}
	id.ConnectionID = r.str()
	id.Value = r.long()
	return r.err
}

// --------------------------------------------------------------------------
// ConsumerID: connection id string, session id long, value long
// --------------------------------------------------------------------------

type consumerIDMarshaller struct{}

func (consumerIDMarshaller) DataStructureType() byte     { return commands.TypeConsumerID }
func (consumerIDMarshaller) New() commands.DataStructure { return &commands.ConsumerID{} }

func (consumerIDMarshaller) TightMarshal1(wf *WireFormat, ds commands.DataStructure, bs *codec.BooleanStream) (int, error) {
	id, err := as[*commands.ConsumerID](ds, "record")
	if err != nil {
		return 0, err
	}
	s := &tightSizer{wf: wf, bs: bs}
	s.str(id.ConnectionID)
	s.long(id.SessionID)
	s.long(id.Value)
	return s.size, s.err
}

func (consumerIDMarshaller) TightMarshal2(wf *WireFormat, ds commands.DataStructure, out *codec.Writer, bs *codec.BooleanStream) error {
	id, err := as[*commands.ConsumerID](ds, "record")
	if err != nil {
		return err
	}
	w := &tightWriter{wf: wf, out: out, bs: bs}
	w.str(id.ConnectionID)
	w.long(id.SessionID)
	w.long(id.Value)
	return w.err
}

func (consumerIDMarshaller) TightUnmarshal(wf *WireFormat, ds commands.DataStructure, in *codec.Reader, bs *codec.BooleanStream) error {
	id, err := as[*commands.ConsumerID](ds, "record")
	if err != nil {
		return err
	}
	r := &tightReader{wf: wf, in: in, bs: bs}
	id.ConnectionID = r.str()
	id.SessionID = r.long()
	id.Value = r.long()
	return r.err
}

func (consumerIDMarshaller) LooseMarshal(wf *WireFormat, ds commands.DataStructure, out *codec.Writer) error {
	id, err := as[*commands.ConsumerID](ds, "record")
	if err != nil {
		return err
	}
	w := &looseWriter{wf: wf, out: out}
	w.str(id.ConnectionID)
	w.long(id.SessionID)
	w.long(id.Value)
	return w.err
}

func (consumerIDMarshaller) LooseUnmarshal(wf *WireFormat, ds commands.DataStructure, in *codec.Reader) error {
	id, err := as[*commands.ConsumerID](ds, "record")
	if err != nil {
		return err
	}
	r := &looseReader{wf: wf, in: in}
	id.ConnectionID = r.str()
	id.SessionID = r.long()
	id.Value = r.long()
	return r.err
}

// --------------------------------------------------------------------------
// ProducerID: connection id string, value long, session id long
// --------------------------------------------------------------------------

type producerIDMarshaller struct{}

func (producerIDMarshaller) DataStructureType() byte     { return commands.TypeProducerID }
func (producerIDMarshaller) New() commands.DataStructure { return &commands.ProducerID{} }

func (producerIDMarshaller) TightMarshal1(wf *WireFormat, ds commands.DataStructure, bs *codec.BooleanStream) (int, error) {
	id, err := as[*commands.ProducerID](ds, "record")
	if err != nil {
		return 0, err
	}
	s := &tightSizer{wf: wf, bs: bs}
	s.str(id.ConnectionID)
	s.long(id.Value)
	s.long(id.SessionID)
	return s.size, s.err
}

func (producerIDMarshaller) TightMarshal2(wf *WireFormat, ds commands.DataStructure, out *codec.Writer, bs *codec.BooleanStream) error {
	id, err := as[*commands.ProducerID](ds, "record")
	if err != nil {
		return err
	}
	w := &tightWriter{wf: wf, out: out, bs: bs}
	w.str(id.ConnectionID)
	w.long(id.Value)
	w.long(id.SessionID)
	return w.err
}

func (producerIDMarshaller) TightUnmarshal(wf *WireFormat, ds commands.DataStructure, in *codec.Reader, bs *codec.BooleanStream) error {
	id, err := as[*commands.ProducerID](ds, "record")
	if err != nil {
		return err
	}
	r := &tightReader{wf: wf, in: in, bs: bs}
	id.ConnectionID = r.str()
	id.Value = r.long()
	id.SessionID = r.long()
	return r.err
}

func (producerIDMarshaller) LooseMarshal(wf *WireFormat, ds commands.DataStructure, out *codec.Writer) error {
	id, err := as[*commands.ProducerID](ds, "record")
	if err != nil {
		return err
	}
	w := &looseWriter{wf: wf, out: out}
	w.str(id.ConnectionID)
	w.long(id.Value)
	w.long(id.SessionID)
	return w.err
}

func (producerIDMarshaller) LooseUnmarshal(wf *WireFormat, ds commands.DataStructure, in *codec.Reader) error {
	id, err := as[*commands.ProducerID](ds, "record")
	if err != nil {
		return err
	}
	r := &looseReader{wf: wf, in: in}
	id.ConnectionID = r.str()
	id.Value = r.long()
	id.SessionID = r.long()
	return r.err
}

// --------------------------------------------------------------------------
// MessageID: producer id (cached), producer sequence long, broker sequence long
// --------------------------------------------------------------------------

type messageIDMarshaller struct{}

func (messageIDMarshaller) DataStructureType() byte     { return commands.TypeMessageID }
func (messageIDMarshaller) New() commands.DataStructure { return &commands.MessageID{} }

func (messageIDMarshaller) TightMarshal1(wf *WireFormat, ds commands.DataStructure, bs *codec.BooleanStream) (int, error) {
	id, err := as[*commands.MessageID](ds, "record")
	if err != nil {
		return 0, err
	}
	s := &tightSizer{wf: wf, bs: bs}
	s.cached(id.ProducerID)
	s.long(id.ProducerSequenceID)
	s.long(id.BrokerSequenceID)
	return s.size, s.err
}

func (messageIDMarshaller) TightMarshal2(wf *WireFormat, ds commands.DataStructure, out *codec.Writer, bs *codec.BooleanStream) error {
	id, err := as[*commands.MessageID](ds, "record")
	if err != nil {
		return err
	}
	w := &tightWriter{wf: wf, out: out, bs: bs}
	w.cached(id.ProducerID)
	w.long(id.ProducerSequenceID)
	w.long(id.BrokerSequenceID)
	return w.err
}

func (messageIDMarshaller) TightUnmarshal(wf *WireFormat, ds commands.DataStructure, in *codec.Reader, bs *codec.BooleanStream) error {
	id, err := as[*commands.MessageID](ds, "record")
	if err != nil {
		return err
	}
	r := &tightReader{wf: wf, in: in, bs: bs}
	id.ProducerID = field[*commands.ProducerID](r, r.cached(), "MessageID.ProducerID")
	id.ProducerSequenceID = r.long()
	id.BrokerSequenceID = r.long()
	return r.err
}

func (messageIDMarshaller) LooseMarshal(wf *WireFormat, ds commands.DataStructure, out *codec.Writer) error {
	id, err := as[*commands.MessageID](ds, "record")
	if err != nil {
		return err
	}
	w := &looseWriter{wf: wf, out: out}
	w.cached(id.ProducerID)
	w.long(id.ProducerSequenceID)
	w.long(id.BrokerSequenceID)
	return w.err
}

func (messageIDMarshaller) LooseUnmarshal(wf *WireFormat, ds commands.DataStructure, in *codec.Reader) error {
	id, err := as[*commands.MessageID](ds, "record")
	if err != nil {
		return err
	}
	r := &looseReader{wf: wf, in: in}
	id.ProducerID = field[*commands.ProducerID](r, r.cached(), "MessageID.ProducerID")
	id.ProducerSequenceID = r.long()
	id.BrokerSequenceID = r.long()
	return r.err
}

// --------------------------------------------------------------------------
// LocalTransactionID: value long, connection id (cached)
// --------------------------------------------------------------------------

type localTransactionIDMarshaller struct{}

func (localTransactionIDMarshaller) DataStructureType() byte     { return commands.TypeLocalTransactionID }
func (localTransactionIDMarshaller) New() commands.DataStructure { return &commands.LocalTransactionID{} }

func (localTransactionIDMarshaller) TightMarshal1(wf *WireFormat, ds commands.DataStructure, bs *codec.BooleanStream) (int, error) {
	id, err := as[*commands.LocalTransactionID](ds, "record")
	if err != nil {
		return 0, err
	}
	s := &tightSizer{wf: wf, bs: bs}
	s.long(id.Value)
	s.cached(id.ConnectionID)
	return s.size, s.err
}

func (localTransactionIDMarshaller) TightMarshal2(wf *WireFormat, ds commands.DataStructure, out *codec.Writer, bs *codec.BooleanStream) error {
	id, err := as[*commands.LocalTransactionID](ds, "record")
	if err != nil {
		return err
	}
	w := &tightWriter{wf: wf, out: out, bs: bs}
	w.long(id.Value)
	w.cached(id.ConnectionID)
	return w.err
}

func (localTransactionIDMarshaller) TightUnmarshal(wf *WireFormat, ds commands.DataStructure, in *codec.Reader, bs *codec.BooleanStream) error {
	id, err := as[*commands.LocalTransactionID](ds, "record")
	if err != nil {
		return err
	}
	r := &tightReader{wf: wf, in: in, bs: bs}
	id.Value = r.long()
	id.ConnectionID = field[*commands.ConnectionID](r, r.cached(), "LocalTransactionID.ConnectionID")
	return r.err
}

func (localTransactionIDMarshaller) LooseMarshal(wf *WireFormat, ds commands.DataStructure, out *codec.Writer) error {
	id, err := as[*commands.LocalTransactionID](ds, "record")
	if err != nil {
		return err
	}
	w := &looseWriter{wf: wf, out: out}
	w.long(id.Value)
	w.cached(id.ConnectionID)
	return w.err
}

func (localTransactionIDMarshaller) LooseUnmarshal(wf *WireFormat, ds commands.DataStructure, in *codec.Reader) error {
	id, err := as[*commands.LocalTransactionID](ds, "record")
	if err != nil {
		return err
	}
	r := &looseReader{wf: wf, in: in}
	id.Value = r.long()
	id.ConnectionID = field[*commands.ConnectionID](r, r.cached(), "LocalTransactionID.ConnectionID")
	return r.err
}

// --------------------------------------------------------------------------
// XATransactionID: format id int, global transaction id bytes, branch qualifier bytes
// --------------------------------------------------------------------------

type xaTransactionIDMarshaller struct{}

func (xaTransactionIDMarshaller) DataStructureType() byte     { return commands.TypeXATransactionID }
func (xaTransactionIDMarshaller) New() commands.DataStructure { return &commands.XATransactionID{} }

func (xaTransactionIDMarshaller) TightMarshal1(wf *WireFormat, ds commands.DataStructure, bs *codec.BooleanStream) (int, error) {
	id, err := as[*commands.XATransactionID](ds, "record")
	if err != nil {
		return 0, err
	}
	s := &tightSizer{wf: wf, bs: bs}
	s.fixed(4)
	s.byteArray(id.GlobalTransactionID)
	s.byteArray(id.BranchQualifier)
	return s.size, s.err
}

func (xaTransactionIDMarshaller) TightMarshal2(wf *WireFormat, ds commands.DataStructure, out *codec.Writer, bs *codec.BooleanStream) error {
	id, err := as[*commands.XATransactionID](ds, "record")
	if err != nil {
		return err
	}
	w := &tightWriter{wf: wf, out: out, bs: bs}
	w.i32(id.FormatID)
	w.byteArray(id.GlobalTransactionID)
	w.byteArray(id.BranchQualifier)
	return w.err
}

func (xaTransactionIDMarshaller) TightUnmarshal(wf *WireFormat, ds commands.DataStructure, in *codec.Reader, bs *codec.BooleanStream) error {
	id, err := as[*commands.XATransactionID](ds, "record")
	if err != nil {
		return err
	}
	r := &tightReader{wf: wf, in: in, bs: bs}
	id.FormatID = r.i32()
	id.GlobalTransactionID = r.byteArray()
	id.BranchQualifier = r.byteArray()
	return r.err
}

func (xaTransactionIDMarshaller) LooseMarshal(wf *WireFormat, ds commands.DataStructure, out *codec.Writer) error {
	id, err := as[*commands.XATransactionID](ds, "record")
	if err != nil {
		return err
	}
	w := &looseWriter{wf: wf, out: out}
	w.i32(id.FormatID)
	w.byteArray(id.GlobalTransactionID)
	w.byteArray(id.BranchQualifier)
	return w.err
}

func (xaTransactionIDMarshaller) LooseUnmarshal(wf *WireFormat, ds commands.DataStructure, in *codec.Reader) error {
	id, err := as[*commands.XATransactionID](ds, "record")
	if err != nil {
		return err
	}
	r := &looseReader{wf: wf, in: in}
	id.FormatID = r.i32()
	id.GlobalTransactionID = r.byteArray()
	id.BranchQualifier = r.byteArray()
	return r.err
}
