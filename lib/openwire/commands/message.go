package commands

import (
	"encoding/binary"
	"fmt"
	"unicode/utf8"

	"github.com/ValentinKolb/dWire/lib/openwire/primitivemap"
)

// Message carries a payload to a destination. The typed variants below share
// its field set and only differ in how Content is interpreted.
type Message struct {
	BaseCommand
	ProducerID                *ProducerID
	Destination               IDestination
	TransactionID             ITransactionID
	OriginalDestination       IDestination
	MessageID                 *MessageID
	OriginalTransactionID     ITransactionID
	GroupID                   string
	GroupSequence             int32
	CorrelationID             string
	Persistent                bool
	Expiration                int64
	Priority                  byte
	ReplyTo                   IDestination
	Timestamp                 int64
	Type                      string
	Content                   []byte
	MarshalledProperties      []byte
	DataStructure             DataStructure
	TargetConsumerID          *ConsumerID
	Compressed                bool
	RedeliveryCounter         int32
	BrokerPath                []*BrokerID
	Arrival                   int64
	UserID                    string
	ReceivedByDFBridge        bool
	Droppable                 bool        // since version 2
	Cluster                   []*BrokerID // since version 3
	BrokerInTime              int64       // since version 3
	BrokerOutTime             int64       // since version 3
	JMSXGroupFirstForConsumer bool        // since version 10
}

// IMessage is implemented by Message and every typed variant
type IMessage interface {
	Command
	Msg() *Message
}

// Msg returns the shared field set
func (m *Message) Msg() *Message {
	return m
}

func (m *Message) DataStructureType() byte { return TypeMessage }
func (m *Message) String() string          { return m.describe(TypeMessage) }

func (m *Message) describe(code byte) string {
	return fmt.Sprintf("%s{commandId=%d, responseRequired=%t, messageId=%v, destination=%v, producerId=%v, persistent=%t, priority=%d, content=%d bytes}",
		TypeName(code), m.CommandID, m.ResponseRequired, m.MessageID, m.Destination, m.ProducerID,
		m.Persistent, m.Priority, len(m.Content))
}

// Properties decodes the user properties of the message
func (m *Message) Properties() (primitivemap.Map, error) {
	return primitivemap.Unmarshal(m.MarshalledProperties)
}

// SetProperties replaces the user properties of the message
func (m *Message) SetProperties(props primitivemap.Map) error {
	data, err := primitivemap.Marshal(props)
	if err != nil {
		return err
	}
	m.MarshalledProperties = data
	return nil
}

// --------------------------------------------------------------------------
// Typed variants
// --------------------------------------------------------------------------

type BytesMessage struct{ Message }

func (m *BytesMessage) DataStructureType() byte { return TypeBytesMessage }
func (m *BytesMessage) String() string          { return m.describe(TypeBytesMessage) }

type MapMessage struct{ Message }

func (m *MapMessage) DataStructureType() byte { return TypeMapMessage }
func (m *MapMessage) String() string          { return m.describe(TypeMapMessage) }

// Body decodes the map carried as content
func (m *MapMessage) Body() (primitivemap.Map, error) {
	return primitivemap.Unmarshal(m.Content)
}

// SetBody encodes body as the message content
func (m *MapMessage) SetBody(body primitivemap.Map) error {
	data, err := primitivemap.Marshal(body)
	if err != nil {
		return err
	}
	m.Content = data
	return nil
}

type ObjectMessage struct{ Message }

func (m *ObjectMessage) DataStructureType() byte { return TypeObjectMessage }
func (m *ObjectMessage) String() string          { return m.describe(TypeObjectMessage) }

type StreamMessage struct{ Message }

func (m *StreamMessage) DataStructureType() byte { return TypeStreamMessage }
func (m *StreamMessage) String() string          { return m.describe(TypeStreamMessage) }

type BlobMessage struct{ Message }

func (m *BlobMessage) DataStructureType() byte { return TypeBlobMessage }
func (m *BlobMessage) String() string          { return m.describe(TypeBlobMessage) }

// TextMessage carries a string body as [length:int32][UTF-8 bytes]
type TextMessage struct{ Message }

func (m *TextMessage) DataStructureType() byte { return TypeTextMessage }
func (m *TextMessage) String() string          { return m.describe(TypeTextMessage) }

// SetText encodes text as the message content
func (m *TextMessage) SetText(text string) {
	buf := make([]byte, 4, 4+len(text))
	binary.BigEndian.PutUint32(buf, uint32(len(text)))
	m.Content = append(buf, text...)
}

// Text decodes the message content. A message without content has an empty text.
func (m *TextMessage) Text() (string, error) {
	if len(m.Content) == 0 {
		return "", nil
	}
	if len(m.Content) < 4 {
		return "", fmt.Errorf("text message content of %d bytes has no length prefix", len(m.Content))
	}
	n := binary.BigEndian.Uint32(m.Content)
	if int64(n) != int64(len(m.Content)-4) {
		return "", fmt.Errorf("text message declares %d bytes but carries %d", n, len(m.Content)-4)
	}
	text := m.Content[4:]
	if !utf8.Valid(text) {
		return "", fmt.Errorf("text message content is not valid UTF-8")
	}
	return string(text), nil
}
