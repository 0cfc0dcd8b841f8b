package server

import (
	"net"

	"github.com/ValentinKolb/dWire/lib/openwire/commands"
	"github.com/ValentinKolb/dWire/lib/openwire/marshal"
	"github.com/ValentinKolb/dWire/rpc/transport/base"
)

// ICommandHandler processes the commands the server receives
type ICommandHandler interface {
	// Handle is called for every command of a connection, in the order they were
	// received. A non-nil reply is sent back to the peer. If reply is nil and the
	// command requires a response, a Response correlated to the command is sent.
	// A non-nil error closes the connection.
	Handle(session *Session, cmd commands.Command) (reply commands.Command, err error)
}

// HandlerFunc adapts a function to ICommandHandler
type HandlerFunc func(session *Session, cmd commands.Command) (commands.Command, error)

func (f HandlerFunc) Handle(session *Session, cmd commands.Command) (commands.Command, error) {
	return f(session, cmd)
}

// Session is the server side of one connection
type Session struct {
	// ID is unique per server
	ID uint64
	// ClientID is taken from the ConnectionInfo of the peer, empty before it arrived
	ClientID string

	conn *base.Conn
}

// Send sends a command to the peer outside of a reply
func (s *Session) Send(cmd commands.Command) error {
	return s.conn.Send(cmd)
}

// RemoteAddr returns the address of the peer
func (s *Session) RemoteAddr() net.Addr {
	return s.conn.RemoteAddr()
}

// Negotiated returns the wire format options of the connection
func (s *Session) Negotiated() marshal.Preferences {
	return s.conn.Negotiated()
}

// LogHandler logs every command and lets the server answer the ones requiring a response
type LogHandler struct{}

func (LogHandler) Handle(session *Session, cmd commands.Command) (commands.Command, error) {
	Logger.Infof("[%d] %s", session.ID, cmd)
	return nil, nil
}
