package marshal

import (
	"github.com/ValentinKolb/dWire/lib/openwire/codec"
	"github.com/ValentinKolb/dWire/lib/openwire/commands"
)

// --------------------------------------------------------------------------
// Commands without fields of their own (KeepAliveInfo, ShutdownInfo)
// --------------------------------------------------------------------------

type baseCommandMarshaller struct {
	code byte
}

func (m baseCommandMarshaller) DataStructureType() byte     { return m.code }
func (m baseCommandMarshaller) New() commands.DataStructure { return commands.New(m.code) }

func (baseCommandMarshaller) TightMarshal1(wf *WireFormat, ds commands.DataStructure, bs *codec.BooleanStream) (int, error) {
	c, err := as[commands.IBaseCommand](ds, "record")
	if err != nil {
		return 0, err
	}
	return tightMarshalBase1(c.Base(), bs), nil
}

func (baseCommandMarshaller) TightMarshal2(wf *WireFormat, ds commands.DataStructure, out *codec.Writer, bs *codec.BooleanStream) error {
	c, err := as[commands.IBaseCommand](ds, "record")
	if err != nil {
		return err
	}
	return tightMarshalBase2(c.Base(), out, bs)
}

func (baseCommandMarshaller) TightUnmarshal(wf *WireFormat, ds commands.DataStructure, in *codec.Reader, bs *codec.BooleanStream) error {
	c, err := as[commands.IBaseCommand](ds, "record")
	if err != nil {
		return err
	}
	return tightUnmarshalBase(c.Base(), in, bs)
}

func (baseCommandMarshaller) LooseMarshal(wf *WireFormat, ds commands.DataStructure, out *codec.Writer) error {
	c, err := as[commands.IBaseCommand](ds, "record")
	if err != nil {
		return err
	}
	looseMarshalBase(c.Base(), out)
	return nil
}

func (baseCommandMarshaller) LooseUnmarshal(wf *WireFormat, ds commands.DataStructure, in *codec.Reader) error {
	c, err := as[commands.IBaseCommand](ds, "record")
	if err != nil {
		return err
	}
	return looseUnmarshalBase(c.Base(), in)
}

// --------------------------------------------------------------------------
// ConnectionInfo
// --------------------------------------------------------------------------

type connectionInfoMarshaller struct{}

func (connectionInfoMarshaller) DataStructureType() byte     { return commands.TypeConnectionInfo }
func (connectionInfoMarshaller) New() commands.DataStructure { return &commands.ConnectionInfo{} }

func (connectionInfoMarshaller) TightMarshal1(wf *WireFormat, ds commands.DataStructure, bs *codec.BooleanStream) (int, error) {
	c, err := as[*commands.ConnectionInfo](ds, "record")
	if err != nil {
		return 0, err
	}
	s := &tightSizer{wf: wf, bs: bs}
	s.base(&c.BaseCommand)
	s.cached(c.ConnectionID)
	s.str(c.ClientID)
	s.str(c.Password)
	s.str(c.UserName)
	sizeArray(s, c.BrokerPath)
	s.flag(c.BrokerMasterConnector)
	s.flag(c.Manageable)
	if wf.since(2) {
		s.flag(c.ClientMaster)
	}
	if wf.since(6) {
		s.flag(c.FaultTolerant)
		s.flag(c.FailoverReconnect)
	}
	if wf.since(8) {
		s.str(c.ClientIP)
	}
	return s.size, s.err
}

func (connectionInfoMarshaller) TightMarshal2(wf *WireFormat, ds commands.DataStructure, out *codec.Writer, bs *codec.BooleanStream) error {
	c, err := as[*commands.ConnectionInfo](ds, "record")
	if err != nil {
		return err
	}
	w := &tightWriter{wf: wf, out: out, bs: bs}
	w.base(&c.BaseCommand)
	w.cached(c.ConnectionID)
	w.str(c.ClientID)
	w.str(c.Password)
	w.str(c.UserName)
	writeArray(w, c.BrokerPath)
	w.flag()
	w.flag()
	if wf.since(2) {
		w.flag()
	}
	if wf.since(6) {
		w.flag()
		w.flag()
	}
	if wf.since(8) {
		w.str(c.ClientIP)
	}
	return w.err
}

func (connectionInfoMarshaller) TightUnmarshal(wf *WireFormat, ds commands.DataStructure, in *codec.Reader, bs *codec.BooleanStream) error {
	c, err := as[*commands.ConnectionInfo](ds, "record")
	if err != nil {
		return err
	}
	r := &tightReader{wf: wf, in: in, bs: bs}
	r.base(&c.BaseCommand)
	c.ConnectionID = field[*commands.ConnectionID](r, r.cached(), "ConnectionInfo.ConnectionID")
	c.ClientID = r.str()
	c.Password = r.str()
	c.UserName = r.str()
	c.BrokerPath = readArray[*commands.BrokerID](r, "ConnectionInfo.BrokerPath")
	c.BrokerMasterConnector = r.flag()
	c.Manageable = r.flag()
	if r.bitsSince(2, 1) {
		c.ClientMaster = r.flag()
	}
	if r.bitsSince(6, 2) {
		c.FaultTolerant = r.flag()
		c.FailoverReconnect = r.flag()
	}
	if r.bitsSince(8, 1) {
		c.ClientIP = r.str()
	}
	return r.err
}

func (connectionInfoMarshaller) LooseMarshal(wf *WireFormat, ds commands.DataStructure, out *codec.Writer) error {
	c, err := as[*commands.ConnectionInfo](ds, "record")
	if err != nil {
		return err
	}
	w := &looseWriter{wf: wf, out: out}
	w.base(&c.BaseCommand)
	w.cached(c.ConnectionID)
	w.str(c.ClientID)
	w.str(c.Password)
	w.str(c.UserName)
	looseWriteArray(w, c.BrokerPath)
	w.flag(c.BrokerMasterConnector)
	w.flag(c.Manageable)
	if wf.since(2) {
		w.flag(c.ClientMaster)
	}
	if wf.since(6) {
		w.flag(c.FaultTolerant)
		w.flag(c.FailoverReconnect)
	}
	if wf.since(8) {
		w.str(c.ClientIP)
	}
	return w.err
}

func (connectionInfoMarshaller) LooseUnmarshal(wf *WireFormat, ds commands.DataStructure, in *codec.Reader) error {
	c, err := as[*commands.ConnectionInfo](ds, "record")
	if err != nil {
		return err
	}
	r := &looseReader{wf: wf, in: in}
	r.base(&c.BaseCommand)
	c.ConnectionID = field[*commands.ConnectionID](r, r.cached(), "ConnectionInfo.ConnectionID")
	c.ClientID = r.str()
	c.Password = r.str()
	c.UserName = r.str()
	c.BrokerPath = looseReadArray[*commands.BrokerID](r, "ConnectionInfo.BrokerPath")
	c.BrokerMasterConnector = r.flag()
	c.Manageable = r.flag()
	if r.since(2) {
		c.ClientMaster = r.flag()
	}
	if r.since(6) {
		c.FaultTolerant = r.flag()
		c.FailoverReconnect = r.flag()
	}
	if r.since(8) {
		c.ClientIP = r.str()
	}
	return r.err
}

// --------------------------------------------------------------------------
// SessionInfo
// --------------------------------------------------------------------------

type sessionInfoMarshaller struct{}

func (sessionInfoMarshaller) DataStructureType() byte     { return commands.TypeSessionInfo }
func (sessionInfoMarshaller) New() commands.DataStructure { return &commands.SessionInfo{} }

func (sessionInfoMarshaller) TightMarshal1(wf *WireFormat, ds commands.DataStructure, bs *codec.BooleanStream) (int, error) {
	c, err := as[*commands.SessionInfo](ds, "record")
	if err != nil {
		return 0, err
	}
	s := &tightSizer{wf: wf, bs: bs}
	s.base(&c.BaseCommand)
	s.cached(c.SessionID)
	return s.size, s.err
}

func (sessionInfoMarshaller) TightMarshal2(wf *WireFormat, ds commands.DataStructure, out *codec.Writer, bs *codec.BooleanStream) error {
	c, err := as[*commands.SessionInfo](ds, "record")
	if err != nil {
		return err
	}
	w := &tightWriter{wf: wf, out: out, bs: bs}
	w.base(&c.BaseCommand)
	w.cached(c.SessionID)
	return w.err
}

func (sessionInfoMarshaller) TightUnmarshal(wf *WireFormat, ds commands.DataStructure, in *codec.Reader, bs *codec.BooleanStream) error {
	c, err := as[*commands.SessionInfo](ds, "record")
	if err != nil {
		return err
	}
	r := &tightReader{wf: wf, in: in, bs: bs}
	r.base(&c.BaseCommand)
	c.SessionID = field[*commands.SessionID](r, r.cached(), "SessionInfo.SessionID")
	return r.err
}

func (sessionInfoMarshaller) LooseMarshal(wf *WireFormat, ds commands.DataStructure, out *codec.Writer) error {
	c, err := as[*commands.SessionInfo](ds, "record")
	if err != nil {
		return err
	}
	w := &looseWriter{wf: wf, out: out}
	w.base(&c.BaseCommand)
	w.cached(c.SessionID)
	return w.err
}

func (sessionInfoMarshaller) LooseUnmarshal(wf *WireFormat, ds commands.DataStructure, in *codec.Reader) error {
	c, err := as[*commands.SessionInfo](ds, "record")
	if err != nil {
		return err
	}
	r := &looseReader{wf: wf, in: in}
	r.base(&c.BaseCommand)
	c.SessionID = field[*commands.SessionID](r, r.cached(), "SessionInfo.SessionID")
	return r.err
}

// --------------------------------------------------------------------------
// ProducerInfo
// --------------------------------------------------------------------------

type producerInfoMarshaller struct{}

func (producerInfoMarshaller) DataStructureType() byte     { return commands.TypeProducerInfo }
func (producerInfoMarshaller) New() commands.DataStructure { return &commands.ProducerInfo{} }

func (producerInfoMarshaller) TightMarshal1(wf *WireFormat, ds commands.DataStructure, bs *codec.BooleanStream) (int, error) {
	c, err := as[*commands.ProducerInfo](ds, "record")
	if err != nil {
		return 0, err
	}
	s := &tightSizer{wf: wf, bs: bs}
	s.base(&c.BaseCommand)
	s.cached(c.ProducerID)
	s.cached(c.Destination)
	sizeArray(s, c.BrokerPath)
	if wf.since(2) {
		s.flag(c.DispatchAsync)
	}
	if wf.since(3) {
		s.fixed(4)
	}
	return s.size, s.err
}

func (producerInfoMarshaller) TightMarshal2(wf *WireFormat, ds commands.DataStructure, out *codec.Writer, bs *codec.BooleanStream) error {
	c, err := as[*commands.ProducerInfo](ds, "record")
	if err != nil {
		return err
	}
	w := &tightWriter{wf: wf, out: out, bs: bs}
	w.base(&c.BaseCommand)
	w.cached(c.ProducerID)
	w.cached(c.Destination)
	writeArray(w, c.BrokerPath)
	if wf.since(2) {
		w.flag()
	}
	if wf.since(3) {
		w.i32(c.WindowSize)
	}
	return w.err
}

func (producerInfoMarshaller) TightUnmarshal(wf *WireFormat, ds commands.DataStructure, in *codec.Reader, bs *codec.BooleanStream) error {
	c, err := as[*commands.ProducerInfo](ds, "record")
	if err != nil {
		return err
	}
	r := &tightReader{wf: wf, in: in, bs: bs}
	r.base(&c.BaseCommand)
	c.ProducerID = field[*commands.ProducerID](r, r.cached(), "ProducerInfo.ProducerID")
	c.Destination = field[commands.IDestination](r, r.cached(), "ProducerInfo.Destination")
	c.BrokerPath = readArray[*commands.BrokerID](r, "ProducerInfo.BrokerPath")
	if r.bitsSince(2, 1) {
		c.DispatchAsync = r.flag()
	}
	if r.since(3) {
		c.WindowSize = r.i32()
	}
	return r.err
}

func (producerInfoMarshaller) LooseMarshal(wf *WireFormat, ds commands.DataStructure, out *codec.Writer) error {
	c, err := as[*commands.ProducerInfo](ds, "record")
	if err != nil {
		return err
	}
	w := &looseWriter{wf: wf, out: out}
	w.base(&c.BaseCommand)
	w.cached(c.ProducerID)
	w.cached(c.Destination)
	looseWriteArray(w, c.BrokerPath)
	if wf.since(2) {
		w.flag(c.DispatchAsync)
	}
	if wf.since(3) {
		w.i32(c.WindowSize)
	}
	return w.err
}

func (producerInfoMarshaller) LooseUnmarshal(wf *WireFormat, ds commands.DataStructure, in *codec.Reader) error {
	c, err := as[*commands.ProducerInfo](ds, "record")
	if err != nil {
		return err
	}
	r := &looseReader{wf: wf, in: in}
	r.base(&c.BaseCommand)
	c.ProducerID = field[*commands.ProducerID](r, r.cached(), "ProducerInfo.ProducerID")
	c.Destination = field[commands.IDestination](r, r.cached(), "ProducerInfo.Destination")
	c.BrokerPath = looseReadArray[*commands.BrokerID](r, "ProducerInfo.BrokerPath")
	if r.since(2) {
		c.DispatchAsync = r.flag()
	}
	if r.since(3) {
		c.WindowSize = r.i32()
	}
	return r.err
}

// --------------------------------------------------------------------------
// RemoveInfo
// --------------------------------------------------------------------------

type removeInfoMarshaller struct{}

func (removeInfoMarshaller) DataStructureType() byte     { return commands.TypeRemoveInfo }
func (removeInfoMarshaller) New() commands.DataStructure { return &commands.RemoveInfo{} }

func (removeInfoMarshaller) TightMarshal1(wf *WireFormat, ds commands.DataStructure, bs *codec.BooleanStream) (int, error) {
	c, err := as[*commands.RemoveInfo](ds, "record")
	if err != nil {
		return 0, err
	}
	s := &tightSizer{wf: wf, bs: bs}
	s.base(&c.BaseCommand)
	s.cached(c.ObjectID)
	if wf.since(5) {
		s.long(c.LastDeliveredSequenceID)
	}
	return s.size, s.err
}

func (removeInfoMarshaller) TightMarshal2(wf *WireFormat, ds commands.DataStructure, out *codec.Writer, bs *codec.BooleanStream) error {
	c, err := as[*commands.RemoveInfo](ds, "record")
	if err != nil {
		return err
	}
	w := &tightWriter{wf: wf, out: out, bs: bs}
	w.base(&c.BaseCommand)
	w.cached(c.ObjectID)
	if wf.since(5) {
		w.long(c.LastDeliveredSequenceID)
	}
	return w.err
}

func (removeInfoMarshaller) TightUnmarshal(wf *WireFormat, ds commands.DataStructure, in *codec.Reader, bs *codec.BooleanStream) error {
	c, err := as[*commands.RemoveInfo](ds, "record")
	if err != nil {
		return err
	}
	r := &tightReader{wf: wf, in: in, bs: bs}
	r.base(&c.BaseCommand)
	c.ObjectID = r.cached()
	if r.bitsSince(5, 2) {
		c.LastDeliveredSequenceID = r.long()
	}
	return r.err
}

func (removeInfoMarshaller) LooseMarshal(wf *WireFormat, ds commands.DataStructure, out *codec.Writer) error {
	c, err := as[*commands.RemoveInfo](ds, "record")
	if err != nil {
		return err
	}
	w := &looseWriter{wf: wf, out: out}
	w.base(&c.BaseCommand)
	w.cached(c.ObjectID)
	if wf.since(5) {
		w.long(c.LastDeliveredSequenceID)
	}
	return w.err
}

func (removeInfoMarshaller) LooseUnmarshal(wf *WireFormat, ds commands.DataStructure, in *codec.Reader) error {
	c, err := as[*commands.RemoveInfo](ds, "record")
	if err != nil {
		return err
	}
	r := &looseReader{wf: wf, in: in}
	r.base(&c.BaseCommand)
	c.ObjectID = r.cached()
	if r.since(5) {
		c.LastDeliveredSequenceID = r.long()
	}
	return r.err
}

// --------------------------------------------------------------------------
// ControlCommand
// --------------------------------------------------------------------------

type controlCommandMarshaller struct{}

func (controlCommandMarshaller) DataStructureType() byte     { return commands.TypeControlCommand }
func (controlCommandMarshaller) New() commands.DataStructure { return &commands.ControlCommand{} }

func (controlCommandMarshaller) TightMarshal1(wf *WireFormat, ds commands.DataStructure, bs *codec.BooleanStream) (int, error) {
	c, err := as[*commands.ControlCommand](ds, "record")
	if err != nil {
		return 0, err
	}
	s := &tightSizer{wf: wf, bs: bs}
	s.base(&c.BaseCommand)
	s.str(c.Command)
	return s.size, s.err
}

func (controlCommandMarshaller) TightMarshal2(wf *WireFormat, ds commands.DataStructure, out *codec.Writer, bs *codec.BooleanStream) error {
	c, err := as[*commands.ControlCommand](ds, "record")
	if err != nil {
		return err
	}
	w := &tightWriter{wf: wf, out: out, bs: bs}
	w.base(&c.BaseCommand)
	w.str(c.Command)
	return w.err
}

func (controlCommandMarshaller) TightUnmarshal(wf *WireFormat, ds commands.DataStructure, in *codec.Reader, bs *codec.BooleanStream) error {
	c, err := as[*commands.ControlCommand](ds, "record")
	if err != nil {
		return err
	}
	r := &tightReader{wf: wf, in: in, bs: bs}
	r.base(&c.BaseCommand)
	c.Command = r.str()
	return r.err
}

func (controlCommandMarshaller) LooseMarshal(wf *WireFormat, ds commands.DataStructure, out *codec.Writer) error {
	c, err := as[*commands.ControlCommand](ds, "record")
	if err != nil {
		return err
	}
	w := &looseWriter{wf: wf, out: out}
	w.base(&c.BaseCommand)
	w.str(c.Command)
	return w.err
}

func (controlCommandMarshaller) LooseUnmarshal(wf *WireFormat, ds commands.DataStructure, in *codec.Reader) error {
	c, err := as[*commands.ControlCommand](ds, "record")
	if err != nil {
		return err
	}
	r := &looseReader{wf: wf, in: in}
	r.base(&c.BaseCommand)
	c.Command = r.str()
	return r.err
}

// --------------------------------------------------------------------------
// ProducerAck
// --------------------------------------------------------------------------

type producerAckMarshaller struct{}

func (producerAckMarshaller) DataStructureType() byte     { return commands.TypeProducerAck }
func (producerAckMarshaller) New() commands.DataStructure { return &commands.ProducerAck{} }

func (producerAckMarshaller) TightMarshal1(wf *WireFormat, ds commands.DataStructure, bs *codec.BooleanStream) (int, error) {
	c, err := as[*commands.ProducerAck](ds, "record")
	if err != nil {
		return 0, err
	}
	s := &tightSizer{wf: wf, bs: bs}
	s.base(&c.BaseCommand)
	s.nested(c.ProducerID)
	s.fixed(4)
	return s.size, s.err
}

func (producerAckMarshaller) TightMarshal2(wf *WireFormat, ds commands.DataStructure, out *codec.Writer, bs *codec.BooleanStream) error {
	c, err := as[*commands.ProducerAck](ds, "record")
	if err != nil {
		return err
	}
	w := &tightWriter{wf: wf, out: out, bs: bs}
	w.base(&c.BaseCommand)
	w.nested(c.ProducerID)
	w.i32(c.Size)
	return w.err
}

func (producerAckMarshaller) TightUnmarshal(wf *WireFormat, ds commands.DataStructure, in *codec.Reader, bs *codec.BooleanStream) error {
	c, err := as[*commands.ProducerAck](ds, "record")
	if err != nil {
		return err
	}
	r := &tightReader{wf: wf, in: in, bs: bs}
	r.base(&c.BaseCommand)
	c.ProducerID = field[*commands.ProducerID](r, r.nested(), "ProducerAck.ProducerID")
	c.Size = r.i32()
	return r.err
}

func (producerAckMarshaller) LooseMarshal(wf *WireFormat, ds commands.DataStructure, out *codec.Writer) error {
	c, err := as[*commands.ProducerAck](ds, "record")
	if err != nil {
		return err
	}
	w := &looseWriter{wf: wf, out: out}
	w.base(&c.BaseCommand)
	w.nested(c.ProducerID)
	w.i32(c.Size)
	return w.err
}

func (producerAckMarshaller) LooseUnmarshal(wf *WireFormat, ds commands.DataStructure, in *codec.Reader) error {
	c, err := as[*commands.ProducerAck](ds, "record")
	if err != nil {
		return err
	}
	r := &looseReader{wf: wf, in: in}
	r.base(&c.BaseCommand)
	c.ProducerID = field[*commands.ProducerID](r, r.nested(), "ProducerAck.ProducerID")
	c.Size = r.i32()
	return r.err
}

// --------------------------------------------------------------------------
// Response
// --------------------------------------------------------------------------

type responseMarshaller struct{}

func (responseMarshaller) DataStructureType() byte     { return commands.TypeResponse }
func (responseMarshaller) New() commands.DataStructure { return &commands.Response{} }

func (responseMarshaller) TightMarshal1(wf *WireFormat, ds commands.DataStructure, bs *codec.BooleanStream) (int, error) {
	c, err := as[*commands.Response](ds, "record")
	if err != nil {
		return 0, err
	}
	return tightMarshalBase1(&c.BaseCommand, bs) + 4, nil
}

func (responseMarshaller) TightMarshal2(wf *WireFormat, ds commands.DataStructure, out *codec.Writer, bs *codec.BooleanStream) error {
	c, err := as[*commands.Response](ds, "record")
	if err != nil {
		return err
	}
	if err := tightMarshalBase2(&c.BaseCommand, out, bs); err != nil {
		return err
	}
	out.WriteInt(c.CorrelationID)
	return nil
}

func (responseMarshaller) TightUnmarshal(wf *WireFormat, ds commands.DataStructure, in *codec.Reader, bs *codec.BooleanStream) error {
	c, err := as[*commands.Response](ds, "record")
	if err != nil {
		return err
	}
	if err := tightUnmarshalBase(&c.BaseCommand, in, bs); err != nil {
		return err
	}
	c.CorrelationID, err = in.ReadInt()
	return err
}

func (responseMarshaller) LooseMarshal(wf *WireFormat, ds commands.DataStructure, out *codec.Writer) error {
	c, err := as[*commands.Response](ds, "record")
	if err != nil {
		return err
	}
	looseMarshalBase(&c.BaseCommand, out)
	out.WriteInt(c.CorrelationID)
	return nil
}

func (responseMarshaller) LooseUnmarshal(wf *WireFormat, ds commands.DataStructure, in *codec.Reader) error {
	c, err := as[*commands.Response](ds, "record")
	if err != nil {
		return err
	}
	if err := looseUnmarshalBase(&c.BaseCommand, in); err != nil {
		return err
	}
	c.CorrelationID, err = in.ReadInt()
	return err
}
