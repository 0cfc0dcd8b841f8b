package client

import (
	"errors"
	"fmt"
	"net"
	"sync/atomic"
	"time"

	"github.com/ValentinKolb/dWire/lib/openwire/commands"
	"github.com/ValentinKolb/dWire/lib/openwire/marshal"
	"github.com/ValentinKolb/dWire/rpc/common"
	"github.com/ValentinKolb/dWire/rpc/transport"
	"github.com/ValentinKolb/dWire/rpc/transport/base"
	"github.com/google/uuid"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/puzpuzpuz/xsync/v3"
)

var Logger = logger.GetLogger("client")

// ErrTimeout is returned when no Response arrived within the configured timeout
var ErrTimeout = errors.New("client: request timed out")

// responseResult contains the result of a request
type responseResult struct {
	resp *commands.Response
	err  error
}

// Client is an OpenWire connection to a dWire server
type Client struct {
	config       common.ClientConfig
	conn         *base.Conn
	connectionID *commands.ConnectionID
	pending      *xsync.MapOf[int32, chan responseResult]
	nextID       atomic.Int32
	nextSession  atomic.Int64
	nextProducer atomic.Int64
	readerDone   chan struct{}
}

// Connect dials the configured endpoints in order, negotiates the wire format
// with the first one that answers and registers the connection with a ConnectionInfo.
func Connect(config common.ClientConfig, connector transport.IClientConnector) (*Client, error) {
	if len(config.Endpoints) == 0 {
		return nil, fmt.Errorf("no endpoints provided")
	}

	var conn *base.Conn
	var lastErr error
	for _, endpoint := range config.Endpoints {
		conn, lastErr = dial(config, connector, endpoint)
		if lastErr == nil {
			break
		}
		Logger.Warningf("failed to connect to %s: %v", endpoint, lastErr)
	}
	if conn == nil {
		return nil, fmt.Errorf("failed to connect to any endpoint: %w", lastErr)
	}

	c := &Client{
		config:       config,
		conn:         conn,
		connectionID: &commands.ConnectionID{Value: "ID:" + uuid.NewString()},
		pending:      xsync.NewMapOf[int32, chan responseResult](),
		readerDone:   make(chan struct{}),
	}
	go c.readResponses()

	info := &commands.ConnectionInfo{ConnectionID: c.connectionID, ClientID: config.ClientID}
	if _, err := c.Request(info); err != nil {
		c.conn.Close()
		return nil, fmt.Errorf("registering connection: %w", err)
	}

	Logger.Infof("connected to %s as %s (%s)", conn.RemoteAddr(), c.connectionID.Value, conn.Negotiated())
	return c, nil
}

// dial connects to one endpoint and runs the handshake
func dial(config common.ClientConfig, connector transport.IClientConnector, endpoint string) (*base.Conn, error) {
	netConn, err := connector.Connect(endpoint, config.Timeout())
	if err != nil {
		return nil, err
	}
	if err := connector.UpgradeConnection(netConn, config.Socket); err != nil {
		netConn.Close()
		return nil, fmt.Errorf("failed to upgrade connection: %v", err)
	}
	conn, err := base.Handshake(netConn, config.Wire, config.MaxFrameSize, config.Timeout())
	if err != nil {
		netConn.Close()
		return nil, err
	}
	return conn, nil
}

// --------------------------------------------------------------------------
// Accessors
// --------------------------------------------------------------------------

// ConnectionID returns the id the connection was registered with
func (c *Client) ConnectionID() *commands.ConnectionID {
	return c.connectionID
}

// Negotiated returns the wire format options of the connection
func (c *Client) Negotiated() marshal.Preferences {
	return c.conn.Negotiated()
}

// RemoteAddr returns the address of the server
func (c *Client) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}

// --------------------------------------------------------------------------
// Requests
// --------------------------------------------------------------------------

// Send assigns the next command id to cmd and sends it without waiting for a response
func (c *Client) Send(cmd commands.Command) error {
	cmd.SetCommandID(c.nextID.Add(1))
	cmd.SetResponseRequired(false)
	return c.conn.Send(cmd)
}

// Request assigns the next command id to cmd, sends it and waits for the correlated Response
func (c *Client) Request(cmd commands.Command) (*commands.Response, error) {
	id := c.nextID.Add(1)
	cmd.SetCommandID(id)
	cmd.SetResponseRequired(true)

	respCh := make(chan responseResult, 1)
	c.pending.Store(id, respCh)

	if err := c.conn.Send(cmd); err != nil {
		c.pending.Delete(id)
		return nil, err
	}

	var timeoutCh <-chan time.Time
	if timeout := c.config.Timeout(); timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		timeoutCh = timer.C
	}

	select {
	case result := <-respCh:
		return result.resp, result.err
	case <-timeoutCh:
		c.pending.Delete(id)
		return nil, fmt.Errorf("%w: %s", ErrTimeout, cmd)
	}
}

// Close unregisters the connection, tells the server to shut it down and closes it
func (c *Client) Close() error {
	if c.conn.Err() == nil {
		if err := c.Send(&commands.RemoveInfo{ObjectID: c.connectionID}); err != nil {
			Logger.Debugf("removing connection: %v", err)
		}
		if err := c.Send(&commands.ShutdownInfo{}); err != nil {
			Logger.Debugf("shutting down connection: %v", err)
		}
	}
	err := c.conn.Close()
	<-c.readerDone
	return err
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// readResponses reads commands in a loop and distributes responses to waiting requests
func (c *Client) readResponses() {
	defer close(c.readerDone)

	for {
		ds, err := c.conn.Receive()
		if err != nil {
			c.failPending(err)
			return
		}

		switch cmd := ds.(type) {
		case *commands.Response:
			if respCh, found := c.pending.LoadAndDelete(cmd.CorrelationID); found {
				respCh <- responseResult{resp: cmd}
			} else {
				Logger.Warningf("received response for unknown command id %d", cmd.CorrelationID)
			}
		case *commands.ShutdownInfo:
			Logger.Infof("server shut down the connection")
			c.conn.Close()
		default:
			Logger.Debugf("ignoring unsolicited %v", ds)
		}
	}
}

// failPending completes every waiting request with err
func (c *Client) failPending(err error) {
	c.pending.Range(func(id int32, _ chan responseResult) bool {
		if respCh, found := c.pending.LoadAndDelete(id); found {
			respCh <- responseResult{err: err}
		}
		return true
	})
}
