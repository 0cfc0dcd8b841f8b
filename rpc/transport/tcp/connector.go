package tcp

import (
	"fmt"
	"net"
	"time"

	"github.com/ValentinKolb/dWire/rpc/common"
	"github.com/ValentinKolb/dWire/rpc/transport"
)

// Connector implements transport.IClientConnector and transport.IServerConnector for TCP sockets
type Connector struct{}

// NewConnector returns the TCP connector
func NewConnector() *Connector {
	return &Connector{}
}

var (
	_ transport.IClientConnector = (*Connector)(nil)
	_ transport.IServerConnector = (*Connector)(nil)
)

// --------------------------------------------------------------------------
// Interface Methods (docu see transport.IClientConnector / IServerConnector)
// --------------------------------------------------------------------------

func (*Connector) GetName() string {
	return "tcp"
}

func (*Connector) Connect(endpoint string, timeout time.Duration) (net.Conn, error) {
	return net.DialTimeout("tcp", endpoint, timeout)
}

func (*Connector) Listen(endpoint string) (net.Listener, error) {
	listener, err := net.Listen("tcp", endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create TCP socket: %v", err)
	}
	return listener, nil
}

// UpgradeConnection applies the socket options of socket to a TCP connection
func (*Connector) UpgradeConnection(conn net.Conn, socket common.SocketConf) error {
	tcpConn, ok := conn.(*net.TCPConn)
	if !ok {
		return nil // not a TCP connection, nothing to upgrade
	}

	if err := tcpConn.SetNoDelay(socket.TCPNoDelay); err != nil {
		return err
	}
	if socket.WriteBufferSize > 0 {
		if err := tcpConn.SetWriteBuffer(socket.WriteBufferSize); err != nil {
			return err
		}
	}
	if socket.ReadBufferSize > 0 {
		if err := tcpConn.SetReadBuffer(socket.ReadBufferSize); err != nil {
			return err
		}
	}
	if socket.TCPKeepAliveSec > 0 {
		if err := tcpConn.SetKeepAlive(true); err != nil {
			return err
		}
		if err := tcpConn.SetKeepAlivePeriod(time.Duration(socket.TCPKeepAliveSec) * time.Second); err != nil {
			return err
		}
	}
	if socket.TCPLingerSec >= 0 {
		if err := tcpConn.SetLinger(socket.TCPLingerSec); err != nil {
			return err
		}
	}
	return nil
}
