package unix

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/ValentinKolb/dWire/rpc/common"
	"github.com/ValentinKolb/dWire/rpc/transport"
)

// Connector implements transport.IClientConnector and transport.IServerConnector for Unix sockets
type Connector struct{}

// NewConnector returns the Unix socket connector
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
	return "unix"
}

func (*Connector) Connect(endpoint string, timeout time.Duration) (net.Conn, error) {
	return net.DialTimeout("unix", endpoint, timeout)
}

func (*Connector) Listen(endpoint string) (net.Listener, error) {
	// remove a stale socket file of a previous run
	if err := os.RemoveAll(endpoint); err != nil {
		return nil, fmt.Errorf("failed to remove existing socket: %v", err)
	}

	listener, err := net.Listen("unix", endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create Unix socket: %v", err)
	}
	return listener, nil
}

// UpgradeConnection applies the buffer sizes of socket to a Unix connection
func (*Connector) UpgradeConnection(conn net.Conn, socket common.SocketConf) error {
	unixConn, ok := conn.(*net.UnixConn)
	if !ok {
		return nil
	}
	if socket.WriteBufferSize > 0 {
		if err := unixConn.SetWriteBuffer(socket.WriteBufferSize); err != nil {
			return err
		}
	}
	if socket.ReadBufferSize > 0 {
		if err := unixConn.SetReadBuffer(socket.ReadBufferSize); err != nil {
			return err
		}
	}
	return nil
}
