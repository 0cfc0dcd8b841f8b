package commands

import (
	"encoding/hex"
	"fmt"
)

// ConnectionID identifies a client connection
type ConnectionID struct {
	Value string
}

func (id *ConnectionID) DataStructureType() byte { return TypeConnectionID }
func (id *ConnectionID) String() string          { return id.Value }

// SessionID identifies a session of a connection
type SessionID struct {
	ConnectionID string
	Value        int64
}

func (id *SessionID) DataStructureType() byte { return TypeSessionID }
func (id *SessionID) String() string {
	return fmt.Sprintf("%s:%d", id.ConnectionID, id.Value)
}

// ParentID returns the id of the connection owning the session
func (id *SessionID) ParentID() *ConnectionID {
	return &ConnectionID{Value: id.ConnectionID}
}

// ConsumerID identifies a consumer of a session
type ConsumerID struct {
	ConnectionID string
	SessionID    int64
	Value        int64
}

func (id *ConsumerID) DataStructureType() byte { return TypeConsumerID }
func (id *ConsumerID) String() string {
	return fmt.Sprintf("%s:%d:%d", id.ConnectionID, id.SessionID, id.Value)
}

// ProducerID identifies a producer of a session
type ProducerID struct {
	ConnectionID string
	Value        int64
	SessionID    int64
}

func (id *ProducerID) DataStructureType() byte { return TypeProducerID }
func (id *ProducerID) String() string {
	return fmt.Sprintf("%s:%d:%d", id.ConnectionID, id.SessionID, id.Value)
}

// ParentID returns the id of the session owning the producer
func (id *ProducerID) ParentID() *SessionID {
	return &SessionID{ConnectionID: id.ConnectionID, Value: id.SessionID}
}

// BrokerID identifies a broker in a network of brokers
type BrokerID struct {
	Value string
}

func (id *BrokerID) DataStructureType() byte { return TypeBrokerID }
func (id *BrokerID) String() string          { return id.Value }

// MessageID identifies a message by its producer and sequence numbers
type MessageID struct {
	ProducerID         *ProducerID
	ProducerSequenceID int64
	BrokerSequenceID   int64
}

func (id *MessageID) DataStructureType() byte { return TypeMessageID }
func (id *MessageID) String() string {
	if id.ProducerID == nil {
		return fmt.Sprintf("<nil>:%d", id.ProducerSequenceID)
	}
	return fmt.Sprintf("%s:%d", id.ProducerID, id.ProducerSequenceID)
}

// --------------------------------------------------------------------------
// Transactions
// --------------------------------------------------------------------------

// ITransactionID is implemented by the local and the XA transaction id
type ITransactionID interface {
	DataStructure
	IsXATransaction() bool
}

// LocalTransactionID identifies a transaction local to one connection
type LocalTransactionID struct {
	Value        int64
	ConnectionID *ConnectionID
}

func (id *LocalTransactionID) DataStructureType() byte { return TypeLocalTransactionID }
func (id *LocalTransactionID) IsXATransaction() bool   { return false }
func (id *LocalTransactionID) String() string {
	return fmt.Sprintf("TX:%v:%d", id.ConnectionID, id.Value)
}

// XATransactionID identifies a distributed transaction
type XATransactionID struct {
	FormatID            int32
	GlobalTransactionID []byte
	BranchQualifier     []byte
}

func (id *XATransactionID) DataStructureType() byte { return TypeXATransactionID }
func (id *XATransactionID) IsXATransaction() bool   { return true }
func (id *XATransactionID) String() string {
	return fmt.Sprintf("XID:[%d,globalId=%s,branchId=%s]", id.FormatID,
		hex.EncodeToString(id.GlobalTransactionID), hex.EncodeToString(id.BranchQualifier))
}
