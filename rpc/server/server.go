package server

import (
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os/signal"
	"runtime"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/ValentinKolb/dWire/lib/openwire/commands"
	"github.com/ValentinKolb/dWire/rpc/common"
	"github.com/ValentinKolb/dWire/rpc/transport"
	"github.com/ValentinKolb/dWire/rpc/transport/base"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/puzpuzpuz/xsync/v3"
)

var Logger = logger.GetLogger("server")

// Server accepts OpenWire connections and passes their commands to a handler
type Server struct {
	config    common.ServerConfig
	connector transport.IServerConnector
	handler   ICommandHandler

	listener      net.Listener
	metricsServer *http.Server
	sessions      *xsync.MapOf[uint64, *Session]
	handshaking   *xsync.MapOf[net.Conn, struct{}]
	nextID        atomic.Uint64
	closing       atomic.Bool
	wg            sync.WaitGroup
}

// NewServer creates a new server
//
// Usage:
//
//	s := server.NewServer(
//		*config,
//		tcp.NewConnector(),
//		server.LogHandler{},
//	)
//
//	if err := s.ListenAndServe(); err != nil {
//		panic(err)
//	}
func NewServer(config common.ServerConfig, connector transport.IServerConnector, handler ICommandHandler) *Server {
	// https://github.com/golang/go/issues/17393
	if runtime.GOOS == "darwin" {
		signal.Ignore(syscall.Signal(0xd))
	}
	if handler == nil {
		handler = LogHandler{}
	}

	return &Server{
		config:      config,
		connector:   connector,
		handler:     handler,
		sessions:    xsync.NewMapOf[uint64, *Session](),
		handshaking: xsync.NewMapOf[net.Conn, struct{}](),
	}
}

// Listen creates the listener and starts the metrics endpoint, if configured
func (s *Server) Listen() error {
	listener, err := s.connector.Listen(s.config.Endpoint)
	if err != nil {
		return fmt.Errorf("failed to create listener: %v", err)
	}
	s.listener = listener

	if s.config.MetricsEndpoint != "" {
		s.metricsServer = newMetricsServer(s.config.MetricsEndpoint)
		go func() {
			Logger.Infof("serving metrics on http://%s/metrics", s.config.MetricsEndpoint)
			if err := s.metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				Logger.Errorf("metrics endpoint: %v", err)
			}
		}()
	}

	Logger.Infof("listening for %s connections on %s", s.connector.GetName(), listener.Addr())
	return nil
}

// Addr returns the address of the listener, nil before Listen
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Serve accepts connections until Close is called
func (s *Server) Serve() error {
	if s.listener == nil {
		return fmt.Errorf("server is not listening")
	}

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if s.closing.Load() || errors.Is(err, net.ErrClosed) {
				return nil
			}
			Logger.Errorf("accept error: %v", err)
			continue
		}

		s.wg.Add(1)
		go s.handleConnection(conn)
	}
}

// ListenAndServe calls Listen and Serve
func (s *Server) ListenAndServe() error {
	Logger.Infof("starting dWire server")
	Logger.Infof(s.config.String())
	if err := s.Listen(); err != nil {
		return err
	}
	return s.Serve()
}

// Sessions returns the number of open connections
func (s *Server) Sessions() int {
	return s.sessions.Size()
}

// Close stops accepting, closes every connection and waits for their handlers to return
func (s *Server) Close() error {
	if !s.closing.CompareAndSwap(false, true) {
		return nil
	}

	var err error
	if s.listener != nil {
		err = s.listener.Close()
	}
	if s.metricsServer != nil {
		if cerr := s.metricsServer.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	s.handshaking.Range(func(conn net.Conn, _ struct{}) bool {
		conn.Close()
		return true
	})
	s.sessions.Range(func(_ uint64, session *Session) bool {
		session.conn.Close()
		return true
	})
	s.wg.Wait()
	return err
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// handleConnection runs the handshake and the receive loop of one connection
func (s *Server) handleConnection(conn net.Conn) {
	defer s.wg.Done()
	connectionsAccepted.Inc()

	if err := s.connector.UpgradeConnection(conn, s.config.Socket); err != nil {
		Logger.Errorf("failed to upgrade connection from %s: %v", conn.RemoteAddr(), err)
		conn.Close()
		return
	}
	s.handshaking.Store(conn, struct{}{})
	if s.closing.Load() {
		conn.Close()
	}
	c, err := base.Handshake(conn, s.config.Wire, s.config.MaxFrameSize, s.config.Timeout())
	s.handshaking.Delete(conn)
	if err != nil {
		handshakeFailures.Inc()
		Logger.Warningf("handshake with %s failed: %v", conn.RemoteAddr(), err)
		conn.Close()
		return
	}
	defer c.Close()

	session := &Session{ID: s.nextID.Add(1), conn: c}
	s.sessions.Store(session.ID, session)
	defer s.sessions.Delete(session.ID)
	if s.closing.Load() {
		return
	}

	connectionsActive.Inc()
	defer connectionsActive.Dec()
	Logger.Infof("[%d] accepted connection from %s (%s)", session.ID, c.RemoteAddr(), c.Negotiated())

	for {
		ds, err := c.Receive()
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, base.ErrClosed) {
				Logger.Infof("[%d] connection closed", session.ID)
			} else {
				Logger.Warningf("[%d] connection failed: %v", session.ID, err)
			}
			return
		}

		cmd, ok := ds.(commands.Command)
		if !ok {
			Logger.Warningf("[%d] ignoring record that is not a command: %v", session.ID, ds)
			continue
		}
		countCommand(cmd)

		if err := s.dispatch(session, cmd); err != nil {
			Logger.Warningf("[%d] closing connection: %v", session.ID, err)
			return
		}
		if _, ok := cmd.(*commands.ShutdownInfo); ok {
			Logger.Infof("[%d] peer shut down the connection", session.ID)
			return
		}
	}
}

// dispatch passes cmd to the handler and sends the reply
func (s *Server) dispatch(session *Session, cmd commands.Command) error {
	if info, ok := cmd.(*commands.ConnectionInfo); ok {
		session.ClientID = info.ClientID
	}

	reply, err := s.handler.Handle(session, cmd)
	if err != nil {
		return fmt.Errorf("handling %s: %w", commands.TypeName(cmd.DataStructureType()), err)
	}
	if reply == nil && cmd.IsResponseRequired() {
		reply = &commands.Response{CorrelationID: cmd.GetCommandID()}
	}
	if reply == nil {
		return nil
	}
	return session.Send(reply)
}
