package transport

import (
	"net"
	"time"

	"github.com/ValentinKolb/dWire/rpc/common"
)

// --------------------------------------------------------------------------
// Client Connector
// --------------------------------------------------------------------------

// IClientConnector dials a transport medium (tcp, unix, ...)
type IClientConnector interface {
	// GetName returns the name of the transport type (e.g., "unix", "tcp")
	GetName() string

	// Connect establishes a single connection to endpoint
	Connect(endpoint string, timeout time.Duration) (net.Conn, error)

	// UpgradeConnection applies protocol-specific socket options
	UpgradeConnection(conn net.Conn, socket common.SocketConf) error
}

// --------------------------------------------------------------------------
// Server Connector
// --------------------------------------------------------------------------

// IServerConnector listens on a transport medium (tcp, unix, ...)
type IServerConnector interface {
	// GetName returns the name of the transport type (e.g., "unix", "tcp")
	GetName() string

	// Listen creates a listener on endpoint
	Listen(endpoint string) (net.Listener, error)

	// UpgradeConnection applies protocol-specific socket options to an accepted connection
	UpgradeConnection(conn net.Conn, socket common.SocketConf) error
}
