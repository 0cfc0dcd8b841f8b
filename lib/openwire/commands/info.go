package commands

import (
	"fmt"
	"strings"
)

// ConnectionInfo opens a connection on the broker
type ConnectionInfo struct {
	BaseCommand
	ConnectionID          *ConnectionID
	ClientID              string
	Password              string
	UserName              string
	BrokerPath            []*BrokerID
	BrokerMasterConnector bool
	Manageable            bool
	ClientMaster          bool   // since version 2
	FaultTolerant         bool   // since version 6
	FailoverReconnect     bool   // since version 6
	ClientIP              string // since version 8
}

func (c *ConnectionInfo) DataStructureType() byte { return TypeConnectionInfo }
func (c *ConnectionInfo) String() string {
	return fmt.Sprintf("ConnectionInfo{commandId=%d, responseRequired=%t, connectionId=%v, clientId=%s, userName=%s, brokerPath=%s}",
		c.CommandID, c.ResponseRequired, c.ConnectionID, c.ClientID, c.UserName, brokerPath(c.BrokerPath))
}

// SessionInfo opens a session on a connection
type SessionInfo struct {
	BaseCommand
	SessionID *SessionID
}

func (c *SessionInfo) DataStructureType() byte { return TypeSessionInfo }
func (c *SessionInfo) String() string {
	return fmt.Sprintf("SessionInfo{commandId=%d, responseRequired=%t, sessionId=%v}",
		c.CommandID, c.ResponseRequired, c.SessionID)
}

// ProducerInfo registers a producer of a session
type ProducerInfo struct {
	BaseCommand
	ProducerID    *ProducerID
	Destination   IDestination
	BrokerPath    []*BrokerID
	DispatchAsync bool  // since version 2
	WindowSize    int32 // since version 3
}

func (c *ProducerInfo) DataStructureType() byte { return TypeProducerInfo }
func (c *ProducerInfo) String() string {
	return fmt.Sprintf("ProducerInfo{commandId=%d, responseRequired=%t, producerId=%v, destination=%v, windowSize=%d}",
		c.CommandID, c.ResponseRequired, c.ProducerID, c.Destination, c.WindowSize)
}

// KeepAliveInfo is sent periodically to prove the peer is alive
type KeepAliveInfo struct {
	BaseCommand
}

func (c *KeepAliveInfo) DataStructureType() byte { return TypeKeepAliveInfo }
func (c *KeepAliveInfo) String() string {
	return fmt.Sprintf("KeepAliveInfo{commandId=%d, responseRequired=%t}", c.CommandID, c.ResponseRequired)
}

// ShutdownInfo announces an orderly close of the connection
type ShutdownInfo struct {
	BaseCommand
}

func (c *ShutdownInfo) DataStructureType() byte { return TypeShutdownInfo }
func (c *ShutdownInfo) String() string {
	return fmt.Sprintf("ShutdownInfo{commandId=%d, responseRequired=%t}", c.CommandID, c.ResponseRequired)
}

// RemoveInfo removes the connection, session, producer or consumer named by ObjectID
type RemoveInfo struct {
	BaseCommand
	ObjectID                DataStructure
	LastDeliveredSequenceID int64 // since version 5
}

func (c *RemoveInfo) DataStructureType() byte { return TypeRemoveInfo }
func (c *RemoveInfo) String() string {
	return fmt.Sprintf("RemoveInfo{commandId=%d, responseRequired=%t, objectId=%v, lastDeliveredSequenceId=%d}",
		c.CommandID, c.ResponseRequired, c.ObjectID, c.LastDeliveredSequenceID)
}

// ControlCommand carries a free-form control instruction
type ControlCommand struct {
	BaseCommand
	Command string
}

func (c *ControlCommand) DataStructureType() byte { return TypeControlCommand }
func (c *ControlCommand) String() string {
	return fmt.Sprintf("ControlCommand{commandId=%d, responseRequired=%t, command=%s}",
		c.CommandID, c.ResponseRequired, c.Command)
}

// ProducerAck tells a producer how many bytes of its window were released
type ProducerAck struct {
	BaseCommand
	ProducerID *ProducerID
	Size       int32
}

func (c *ProducerAck) DataStructureType() byte { return TypeProducerAck }
func (c *ProducerAck) String() string {
	return fmt.Sprintf("ProducerAck{commandId=%d, producerId=%v, size=%d}", c.CommandID, c.ProducerID, c.Size)
}

// Response answers the command whose id equals CorrelationID
type Response struct {
	BaseCommand
	CorrelationID int32
}

func (c *Response) DataStructureType() byte { return TypeResponse }
func (c *Response) String() string {
	return fmt.Sprintf("Response{commandId=%d, correlationId=%d}", c.CommandID, c.CorrelationID)
}

// brokerPath renders a broker path as "[a, b]"
func brokerPath(path []*BrokerID) string {
	names := make([]string, len(path))
	for i, b := range path {
		names[i] = fmt.Sprint(b)
	}
	return "[" + strings.Join(names, ", ") + "]"
}
