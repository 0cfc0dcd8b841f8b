package marshal

import (
	"github.com/ValentinKolb/dWire/lib/openwire/codec"
	"github.com/ValentinKolb/dWire/lib/openwire/commands"
)

// messageMarshaller handles Message and every typed variant. The variants add
// no fields; only the type code differs.
type messageMarshaller struct {
	code byte
}

func (m messageMarshaller) DataStructureType() byte     { return m.code }
func (m messageMarshaller) New() commands.DataStructure { return commands.New(m.code) }

func messageOf(ds commands.DataStructure) (*commands.Message, error) {
	im, err := as[commands.IMessage](ds, "record")
	if err != nil {
		return nil, err
	}
	return im.Msg(), nil
}

func (messageMarshaller) TightMarshal1(wf *WireFormat, ds commands.DataStructure, bs *codec.BooleanStream) (int, error) {
	m, err := messageOf(ds)
	if err != nil {
		return 0, err
	}
	s := &tightSizer{wf: wf, bs: bs}
	s.base(&m.BaseCommand)
	s.cached(m.ProducerID)
	s.cached(m.Destination)
	s.cached(m.TransactionID)
	s.cached(m.OriginalDestination)
	s.nested(m.MessageID)
	s.cached(m.OriginalTransactionID)
	s.str(m.GroupID)
	s.str(m.CorrelationID)
	s.flag(m.Persistent)
	s.long(m.Expiration)
	s.nested(m.ReplyTo)
	s.long(m.Timestamp)
	s.str(m.Type)
	s.byteArray(m.Content)
	s.byteArray(m.MarshalledProperties)
	s.nested(m.DataStructure)
	s.cached(m.TargetConsumerID)
	s.flag(m.Compressed)
	sizeArray(s, m.BrokerPath)
	s.long(m.Arrival)
	s.str(m.UserID)
	s.flag(m.ReceivedByDFBridge)
	if wf.since(2) {
		s.flag(m.Droppable)
	}
	if wf.since(3) {
		sizeArray(s, m.Cluster)
		// broker in and out time
		s.fixed(16)
	}
	if wf.since(10) {
		s.flag(m.JMSXGroupFirstForConsumer)
	}
	// group sequence, priority, redelivery counter
	s.fixed(9)
	return s.size, s.err
}

func (messageMarshaller) TightMarshal2(wf *WireFormat, ds commands.DataStructure, out *codec.Writer, bs *codec.BooleanStream) error {
	m, err := messageOf(ds)
	if err != nil {
		return err
	}
	w := &tightWriter{wf: wf, out: out, bs: bs}
	w.base(&m.BaseCommand)
	w.cached(m.ProducerID)
	w.cached(m.Destination)
	w.cached(m.TransactionID)
	w.cached(m.OriginalDestination)
	w.nested(m.MessageID)
	w.cached(m.OriginalTransactionID)
	w.str(m.GroupID)
	w.i32(m.GroupSequence)
	w.str(m.CorrelationID)
	w.flag()
	w.long(m.Expiration)
	w.u8(m.Priority)
	w.nested(m.ReplyTo)
	w.long(m.Timestamp)
	w.str(m.Type)
	w.byteArray(m.Content)
	w.byteArray(m.MarshalledProperties)
	w.nested(m.DataStructure)
	w.cached(m.TargetConsumerID)
	w.flag()
	w.i32(m.RedeliveryCounter)
	writeArray(w, m.BrokerPath)
	w.long(m.Arrival)
	w.str(m.UserID)
	w.flag()
	if wf.since(2) {
		w.flag()
	}
	if wf.since(3) {
		writeArray(w, m.Cluster)
		w.i64(m.BrokerInTime)
		w.i64(m.BrokerOutTime)
	}
	if wf.since(10) {
		w.flag()
	}
	return w.err
}

func (messageMarshaller) TightUnmarshal(wf *WireFormat, ds commands.DataStructure, in *codec.Reader, bs *codec.BooleanStream) error {
	m, err := messageOf(ds)
	if err != nil {
		return err
	}
	r := &tightReader{wf: wf, in: in, bs: bs}
	r.base(&m.BaseCommand)
	m.ProducerID = field[*commands.ProducerID](r, r.cached(), "Message.ProducerID")
	m.Destination = field[commands.IDestination](r, r.cached(), "Message.Destination")
	m.TransactionID = field[commands.ITransactionID](r, r.cached(), "Message.TransactionID")
	m.OriginalDestination = field[commands.IDestination](r, r.cached(), "Message.OriginalDestination")
	m.MessageID = field[*commands.MessageID](r, r.nested(), "Message.MessageID")
	m.OriginalTransactionID = field[commands.ITransactionID](r, r.cached(), "Message.OriginalTransactionID")
	m.GroupID = r.str()
	m.GroupSequence = r.i32()
	m.CorrelationID = r.str()
	m.Persistent = r.flag()
	m.Expiration = r.long()
	m.Priority = r.u8()
	m.ReplyTo = field[commands.IDestination](r, r.nested(), "Message.ReplyTo")
	m.Timestamp = r.long()
	m.Type = r.str()
	m.Content = r.byteArray()
	m.MarshalledProperties = r.byteArray()
	m.DataStructure = r.nested()
	m.TargetConsumerID = field[*commands.ConsumerID](r, r.cached(), "Message.TargetConsumerID")
	m.Compressed = r.flag()
	m.RedeliveryCounter = r.i32()
	m.BrokerPath = readArray[*commands.BrokerID](r, "Message.BrokerPath")
	m.Arrival = r.long()
	m.UserID = r.str()
	m.ReceivedByDFBridge = r.flag()
	if r.bitsSince(2, 1) {
		m.Droppable = r.flag()
	}
	if r.bitsSince(3, 1) {
		m.Cluster = readArray[*commands.BrokerID](r, "Message.Cluster")
	}
	if r.since(3) {
		m.BrokerInTime = r.i64()
		m.BrokerOutTime = r.i64()
	}
	if r.bitsSince(10, 1) {
		m.JMSXGroupFirstForConsumer = r.flag()
	}
	return r.err
}

func (messageMarshaller) LooseMarshal(wf *WireFormat, ds commands.DataStructure, out *codec.Writer) error {
	m, err := messageOf(ds)
	if err != nil {
		return err
	}
	w := &looseWriter{wf: wf, out: out}
	w.base(&m.BaseCommand)
	w.cached(m.ProducerID)
	w.cached(m.Destination)
	w.cached(m.TransactionID)
	w.cached(m.OriginalDestination)
	w.nested(m.MessageID)
	w.cached(m.OriginalTransactionID)
	w.str(m.GroupID)
	w.i32(m.GroupSequence)
	w.str(m.CorrelationID)
	w.flag(m.Persistent)
	w.long(m.Expiration)
	w.u8(m.Priority)
	w.nested(m.ReplyTo)
	w.long(m.Timestamp)
	w.str(m.Type)
	w.byteArray(m.Content)
	w.byteArray(m.MarshalledProperties)
	w.nested(m.DataStructure)
	w.cached(m.TargetConsumerID)
	w.flag(m.Compressed)
	w.i32(m.RedeliveryCounter)
	looseWriteArray(w, m.BrokerPath)
	w.long(m.Arrival)
	w.str(m.UserID)
	w.flag(m.ReceivedByDFBridge)
	if wf.since(2) {
		w.flag(m.Droppable)
	}
	if wf.since(3) {
		looseWriteArray(w, m.Cluster)
		w.long(m.BrokerInTime)
		w.long(m.BrokerOutTime)
	}
	if wf.since(10) {
		w.flag(m.JMSXGroupFirstForConsumer)
	}
	return w.err
}

func (messageMarshaller) LooseUnmarshal(wf *WireFormat, ds commands.DataStructure, in *codec.Reader) error {
	m, err := messageOf(ds)
	if err != nil {
		return err
	}
	r := &looseReader{wf: wf, in: in}
	r.base(&m.BaseCommand)
	m.ProducerID = field[*commands.ProducerID](r, r.cached(), "Message.ProducerID")
	m.Destination = field[commands.IDestination](r, r.cached(), "Message.Destination")
	m.TransactionID = field[commands.ITransactionID](r, r.cached(), "Message.TransactionID")
	m.OriginalDestination = field[commands.IDestination](r, r.cached(), "Message.OriginalDestination")
	m.MessageID = field[*commands.MessageID](r, r.nested(), "Message.MessageID")
	m.OriginalTransactionID = field[commands.ITransactionID](r, r.cached(), "Message.OriginalTransactionID")
	m.GroupID = r.str()
	m.GroupSequence = r.i32()
	m.CorrelationID = r.str()
	m.Persistent = r.flag()
	m.Expiration = r.long()
	m.Priority = r.u8()
	m.ReplyTo = field[commands.IDestination](r, r.nested(), "Message.ReplyTo")
	m.Timestamp = r.long()
	m.Type = r.str()
	m.Content = r.byteArray()
	m.MarshalledProperties = r.byteArray()
	m.DataStructure = r.nested()
	m.TargetConsumerID = field[*commands.ConsumerID](r, r.cached(), "Message.TargetConsumerID")
	m.Compressed = r.flag()
	m.RedeliveryCounter = r.i32()
	m.BrokerPath = looseReadArray[*commands.BrokerID](r, "Message.BrokerPath")
	m.Arrival = r.long()
	m.UserID = r.str()
	m.ReceivedByDFBridge = r.flag()
	if r.since(2) {
		m.Droppable = r.flag()
	}
	if r.since(3) {
		m.Cluster = looseReadArray[*commands.BrokerID](r, "Message.Cluster")
		m.BrokerInTime = r.long()
		m.BrokerOutTime = r.long()
	}
	if r.since(10) {
		m.JMSXGroupFirstForConsumer = r.flag()
	}
	return r.err
}
