package base

import (
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/ValentinKolb/dWire/lib/openwire/codec"
	"github.com/ValentinKolb/dWire/lib/openwire/commands"
	"github.com/ValentinKolb/dWire/lib/openwire/marshal"
	"github.com/lni/dragonboat/v4/logger"
)

var Logger = logger.GetLogger("transport")

// ErrClosed is returned by operations on a closed connection
var ErrClosed = errors.New("transport: connection closed")

// envelope carries one command through the outbox
type envelope struct {
	cmd  commands.DataStructure
	sent chan error
}

// Conn is an OpenWire connection after the handshake. It owns one WireFormat:
// the encode half is only used by the writer goroutine, the decode half only by
// the goroutine calling Receive.
//
// Send may be called from any goroutine; commands are queued in a lock-free
// outbox and encoded in queue order. Receive must be called from a single
// goroutine.
//
// Any encode or decode failure closes the connection: the cache tables of
// both peers can no longer be assumed to match.
type Conn struct {
	conn     net.Conn
	agreed   marshal.Preferences
	wf       *marshal.WireFormat
	maxFrame int
	timeout  time.Duration

	outbox *MPSC[envelope]
	header [frameHeaderSize]byte // used by Receive only

	done       chan struct{}
	writerDone chan struct{} // closed when writeLoop returns
	closeOnce  sync.Once
	err        error // set before done is closed
}

// Handshake exchanges WireFormatInfo records over conn with the bootstrap
// format, negotiates the options and starts the writer goroutine. prefs are the
// options announced to the peer. timeout bounds the whole exchange; zero
// disables it. On error the caller still owns conn.
func Handshake(conn net.Conn, prefs marshal.Preferences, maxFrame int, timeout time.Duration) (*Conn, error) {
	if maxFrame <= 0 {
		maxFrame = DefaultMaxFrameSize
	}
	if timeout > 0 {
		if err := conn.SetDeadline(time.Now().Add(timeout)); err != nil {
			return nil, err
		}
	}

	info, err := prefs.Info()
	if err != nil {
		return nil, err
	}
	record, err := marshal.NewBootstrap().Marshal(info)
	if err != nil {
		return nil, err
	}

	// both peers write first, so the write must not wait for the read
	written := make(chan error, 1)
	go func() { written <- writeFrame(conn, record) }()

	var header [frameHeaderSize]byte
	data, err := readFrame(conn, header[:], maxFrame)
	if err != nil {
		return nil, fmt.Errorf("reading wire format info: %w", err)
	}
	if err := <-written; err != nil {
		return nil, fmt.Errorf("writing wire format info: %w", err)
	}

	ds, err := marshal.NewBootstrap().Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("decoding wire format info: %w", err)
	}
	remote, ok := ds.(*commands.WireFormatInfo)
	if !ok {
		return nil, fmt.Errorf("%w: expected WireFormatInfo, got %v", codec.ErrTypeMismatch, ds)
	}
	agreed, err := marshal.Negotiate(prefs, remote)
	if err != nil {
		return nil, err
	}

	if timeout > 0 {
		if err := conn.SetDeadline(time.Time{}); err != nil {
			return nil, err
		}
	}

	c := &Conn{
		conn:       conn,
		agreed:     agreed,
		wf:         marshal.New(agreed.Options),
		maxFrame:   maxFrame,
		timeout:    timeout,
		outbox:     NewMPSC[envelope](),
		done:       make(chan struct{}),
		writerDone: make(chan struct{}),
	}
	go c.writeLoop()
	if agreed.MaxInactivityDuration > 0 {
		go c.keepAlive(agreed.MaxInactivityDuration / 3)
	}

	Logger.Debugf("handshake with %s done: %s", conn.RemoteAddr(), agreed)
	return c, nil
}

// --------------------------------------------------------------------------
// Accessors
// --------------------------------------------------------------------------

// Negotiated returns the options both peers agreed on
func (c *Conn) Negotiated() marshal.Preferences {
	return c.agreed
}

// RemoteAddr returns the address of the peer
func (c *Conn) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}

// Done is closed when the connection is closed
func (c *Conn) Done() <-chan struct{} {
	return c.done
}

// Err returns the reason the connection was closed, nil while it is open
func (c *Conn) Err() error {
	select {
	case <-c.done:
		return c.err
	default:
		return nil
	}
}

// --------------------------------------------------------------------------
// Send / Receive
// --------------------------------------------------------------------------

// Send queues cmd and waits until it was written. A nil error means the whole
// record was handed to the socket, even if the connection closed right after.
func (c *Conn) Send(cmd commands.DataStructure) error {
	env := &envelope{cmd: cmd, sent: make(chan error, 1)}
	if !c.outbox.Push(env) {
		return c.closedErr()
	}

	// the writer answers every envelope it receives; only a push racing with
	// the end of the writer is never answered
	select {
	case err := <-env.sent:
		return err
	case <-c.writerDone:
		select {
		case err := <-env.sent:
			return err
		default:
			return c.closedErr()
		}
	}
}

// Receive returns the next command sent by the peer. Keep-alives are handled
// here and never returned.
func (c *Conn) Receive() (commands.DataStructure, error) {
	for {
		if c.agreed.MaxInactivityDuration > 0 {
			if err := c.conn.SetReadDeadline(time.Now().Add(c.agreed.MaxInactivityDuration)); err != nil {
				return nil, c.fail(err)
			}
		}

		data, err := readFrame(c.conn, c.header[:], c.maxFrame)
		if err != nil {
			return nil, c.fail(err)
		}
		ds, err := c.wf.Unmarshal(data)
		if err != nil {
			return nil, c.fail(err)
		}

		if ka, ok := ds.(*commands.KeepAliveInfo); ok {
			if ka.ResponseRequired {
				go c.Send(&commands.KeepAliveInfo{})
			}
			continue
		}
		return ds, nil
	}
}

// Close closes the connection. Queued commands that were not written yet fail with ErrClosed.
func (c *Conn) Close() error {
	c.closeWith(ErrClosed)
	return nil
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// writeLoop encodes and writes the queued commands until the outbox is closed
func (c *Conn) writeLoop() {
	defer close(c.writerDone)

	out := codec.NewWriter(4096)
	for env := range c.outbox.Recv() {
		if c.Err() != nil {
			env.sent <- c.err
			continue
		}

		out.Reset()
		err := c.wf.MarshalTo(out, env.cmd)
		if err == nil {
			if c.timeout > 0 {
				err = c.conn.SetWriteDeadline(time.Now().Add(c.timeout))
			}
			if err == nil {
				err = writeFrame(c.conn, out.Bytes())
			}
		}
		if err != nil {
			err = c.fail(err)
		}
		env.sent <- err
	}
}

// keepAlive sends a KeepAliveInfo every interval so the peer's read deadline never expires
func (c *Conn) keepAlive(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			if err := c.Send(&commands.KeepAliveInfo{}); err != nil {
				return
			}
		}
	}
}

// fail closes the connection because of err. If the connection was already
// closed, the original reason is returned instead.
func (c *Conn) fail(err error) error {
	c.closeWith(err)
	return c.err
}

func (c *Conn) closedErr() error {
	if err := c.Err(); err != nil {
		return err
	}
	return ErrClosed
}

func (c *Conn) closeWith(err error) {
	c.closeOnce.Do(func() {
		c.err = err
		close(c.done)
		c.outbox.Close()
		if cerr := c.conn.Close(); cerr != nil {
			Logger.Debugf("closing connection to %s: %v", c.conn.RemoteAddr(), cerr)
		}
		if err != ErrClosed {
			Logger.Warningf("connection to %s closed: %v", c.conn.RemoteAddr(), err)
		}
	})
}
