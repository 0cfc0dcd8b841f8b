package commands

import (
	"fmt"
)

// Type codes of the supported data structures
const (
	TypeNull byte = 0

	TypeWireFormatInfo byte = 1
	TypeConnectionInfo byte = 3
	TypeSessionInfo    byte = 4
	TypeProducerInfo   byte = 6
	TypeKeepAliveInfo  byte = 10
	TypeShutdownInfo   byte = 11
	TypeRemoveInfo     byte = 12
	TypeControlCommand byte = 14
	TypeProducerAck    byte = 19

	TypeMessage       byte = 23
	TypeBytesMessage  byte = 24
	TypeMapMessage    byte = 25
	TypeObjectMessage byte = 26
	TypeStreamMessage byte = 27
	TypeTextMessage   byte = 28
	TypeBlobMessage   byte = 29

	TypeResponse byte = 30

	TypeQueue     byte = 100
	TypeTopic     byte = 101
	TypeTempQueue byte = 102
	TypeTempTopic byte = 103

	TypeMessageID          byte = 110
	TypeLocalTransactionID byte = 111
	TypeXATransactionID    byte = 112

	TypeConnectionID byte = 120
	TypeSessionID    byte = 121
	TypeConsumerID   byte = 122
	TypeProducerID   byte = 123
	TypeBrokerID     byte = 124
)

// DataStructure is implemented by every type that can appear on the wire
type DataStructure interface {
	// DataStructureType returns the one-byte type code
	DataStructureType() byte
	String() string
}

// Command is a top-level record of a stream
type Command interface {
	DataStructure
	GetCommandID() int32
	SetCommandID(id int32)
	IsResponseRequired() bool
	SetResponseRequired(required bool)
}

// BaseCommand holds the fields every command starts with
type BaseCommand struct {
	CommandID        int32
	ResponseRequired bool
}

func (c *BaseCommand) GetCommandID() int32 {
	return c.CommandID
}

func (c *BaseCommand) SetCommandID(id int32) {
	c.CommandID = id
}

func (c *BaseCommand) IsResponseRequired() bool {
	return c.ResponseRequired
}

func (c *BaseCommand) SetResponseRequired(required bool) {
	c.ResponseRequired = required
}

// Base returns the embedded BaseCommand. Marshallers use it to reach the shared fields.
func (c *BaseCommand) Base() *BaseCommand {
	return c
}

// IBaseCommand is implemented by every command embedding BaseCommand
type IBaseCommand interface {
	Command
	Base() *BaseCommand
}

// --------------------------------------------------------------------------
// Registry of constructors
// --------------------------------------------------------------------------

// typeNames maps type codes to the names used in logs and String output
var typeNames = map[byte]string{
	TypeWireFormatInfo:     "WireFormatInfo",
	TypeConnectionInfo:     "ConnectionInfo",
	TypeSessionInfo:        "SessionInfo",
	TypeProducerInfo:       "ProducerInfo",
	TypeKeepAliveInfo:      "KeepAliveInfo",
	TypeShutdownInfo:       "ShutdownInfo",
	TypeRemoveInfo:         "RemoveInfo",
	TypeControlCommand:     "ControlCommand",
	TypeProducerAck:        "ProducerAck",
	TypeMessage:            "Message",
	TypeBytesMessage:       "BytesMessage",
	TypeMapMessage:         "MapMessage",
	TypeObjectMessage:      "ObjectMessage",
	TypeStreamMessage:      "StreamMessage",
	TypeTextMessage:        "TextMessage",
	TypeBlobMessage:        "BlobMessage",
	TypeResponse:           "Response",
	TypeQueue:              "Queue",
	TypeTopic:              "Topic",
	TypeTempQueue:          "TempQueue",
	TypeTempTopic:          "TempTopic",
	TypeMessageID:          "MessageID",
	TypeLocalTransactionID: "LocalTransactionID",
	TypeXATransactionID:    "XATransactionID",
	TypeConnectionID:       "ConnectionID",
	TypeSessionID:          "SessionID",
	TypeConsumerID:         "ConsumerID",
	TypeProducerID:         "ProducerID",
	TypeBrokerID:           "BrokerID",
}

// TypeName returns the name of a type code, or "Unknown(<code>)"
func TypeName(code byte) string {
	if name, ok := typeNames[code]; ok {
		return name
	}
	return fmt.Sprintf("Unknown(%d)", code)
}

// New constructs an empty instance of the given type, or nil for an unknown code
func New(code byte) DataStructure {
	switch code {
	case TypeWireFormatInfo:
		return &WireFormatInfo{}
	case TypeConnectionInfo:
		return &ConnectionInfo{}
	case TypeSessionInfo:
		return &SessionInfo{}
	case TypeProducerInfo:
		return &ProducerInfo{}
	case TypeKeepAliveInfo:
		return &KeepAliveInfo{}
	case TypeShutdownInfo:
		return &ShutdownInfo{}
	case TypeRemoveInfo:
		return &RemoveInfo{}
	case TypeControlCommand:
		return &ControlCommand{}
	case TypeProducerAck:
		return &ProducerAck{}
	case TypeMessage:
		return &Message{}
	case TypeBytesMessage:
		return &BytesMessage{}
	case TypeMapMessage:
		return &MapMessage{}
	case TypeObjectMessage:
		return &ObjectMessage{}
	case TypeStreamMessage:
		return &StreamMessage{}
	case TypeTextMessage:
		return &TextMessage{}
	case TypeBlobMessage:
		return &BlobMessage{}
	case TypeResponse:
		return &Response{}
	case TypeQueue:
		return &Queue{}
	case TypeTopic:
		return &Topic{}
	case TypeTempQueue:
		return &TempQueue{}
	case TypeTempTopic:
		return &TempTopic{}
	case TypeMessageID:
		return &MessageID{}
	case TypeLocalTransactionID:
		return &LocalTransactionID{}
	case TypeXATransactionID:
		return &XATransactionID{}
	case TypeConnectionID:
		return &ConnectionID{}
	case TypeSessionID:
		return &SessionID{}
	case TypeConsumerID:
		return &ConsumerID{}
	case TypeProducerID:
		return &ProducerID{}
	case TypeBrokerID:
		return &BrokerID{}
	default:
		return nil
	}
}

// TypeCodes returns every known type code in ascending order
func TypeCodes() []byte {
	codes := make([]byte, 0, len(typeNames))
	for c := 0; c < 256; c++ {
		if _, ok := typeNames[byte(c)]; ok {
			codes = append(codes, byte(c))
		}
	}
	return codes
}
