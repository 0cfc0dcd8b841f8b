package common

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ValentinKolb/dWire/lib/openwire/marshal"
)

// --------------------------------------------------------------------------
// Socket configuration
// --------------------------------------------------------------------------

// SocketConf holds the socket options applied to every connection
type SocketConf struct {
	WriteBufferSize int // bytes, 0 keeps the OS default
	ReadBufferSize  int // bytes, 0 keeps the OS default

	// tcp only
	TCPNoDelay      bool
	TCPKeepAliveSec int
	TCPLingerSec    int // negative keeps the OS default
}

// --------------------------------------------------------------------------
// RPC server configuration struct
// --------------------------------------------------------------------------

// ServerConfig holds all configuration parameters of a dWire server
type ServerConfig struct {
	// Endpoint is the address the server listens on (host:port or socket path)
	Endpoint string

	// TimeoutSecond bounds the handshake and every write
	TimeoutSecond int64

	// MaxFrameSize is the largest record accepted from a peer
	MaxFrameSize int

	// Wire holds the preferences announced in the handshake
	Wire marshal.Preferences

	// Socket options
	Socket SocketConf

	// MetricsEndpoint is the address of the prometheus endpoint, empty disables it
	MetricsEndpoint string

	// Logging configuration
	LogLevel string
}

// Timeout returns TimeoutSecond as a duration
func (c *ServerConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecond) * time.Second
}

// String returns a formatted string representation of the configuration
func (c *ServerConfig) String() string {
	var sb strings.Builder
	addSection, addField := formatter(&sb)

	addSection("RPC Server")
	addField("Endpoint", c.Endpoint)
	addField("Timeout", fmt.Sprintf("%d sec", c.TimeoutSecond))
	addField("Max Frame Size", fmt.Sprintf("%d bytes", c.MaxFrameSize))
	if c.MetricsEndpoint != "" {
		addField("Metrics Endpoint", c.MetricsEndpoint)
	}

	writeWire(addSection, addField, c.Wire)
	writeSocket(addSection, addField, c.Socket)

	addSection("Logging")
	addField("Log Level", c.LogLevel)

	return sb.String()
}

// --------------------------------------------------------------------------
// RPC client configuration struct
// --------------------------------------------------------------------------

// ClientConfig holds all configuration parameters of a dWire client
type ClientConfig struct {
	// Endpoints are tried in order until one accepts the connection
	Endpoints []string

	// TimeoutSecond bounds the handshake, every write and every request
	TimeoutSecond int

	// MaxFrameSize is the largest record accepted from the server
	MaxFrameSize int

	// ClientID is announced in the ConnectionInfo
	ClientID string

	// Wire holds the preferences announced in the handshake
	Wire marshal.Preferences

	// Socket options
	Socket SocketConf
}

// Timeout returns TimeoutSecond as a duration
func (c *ClientConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecond) * time.Second
}

// String returns a formatted string representation of the client configuration
func (c *ClientConfig) String() string {
	var sb strings.Builder
	addSection, addField := formatter(&sb)

	addSection("Client Configuration")
	addField("Client ID", c.ClientID)
	addField("Timeout", fmt.Sprintf("%d sec", c.TimeoutSecond))
	addField("Max Frame Size", fmt.Sprintf("%d bytes", c.MaxFrameSize))

	addSection("Endpoints")
	for i, endpoint := range c.Endpoints {
		addField(strconv.Itoa(i), endpoint)
	}

	writeWire(addSection, addField, c.Wire)
	writeSocket(addSection, addField, c.Socket)

	return sb.String()
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func formatter(sb *strings.Builder) (addSection func(string), addField func(string, string)) {
	addSection = func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}
	addField = func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}
	return addSection, addField
}

func writeWire(addSection func(string), addField func(string, string), p marshal.Preferences) {
	addSection("Wire Format")
	addField("Version", strconv.Itoa(p.Version))
	addField("Tight Encoding", strconv.FormatBool(p.TightEncodingEnabled))
	addField("Cache", strconv.FormatBool(p.CacheEnabled))
	addField("Cache Size", strconv.Itoa(p.CacheSize))
	addField("Max Inactivity", p.MaxInactivityDuration.String())
}

func writeSocket(addSection func(string), addField func(string, string), s SocketConf) {
	addSection("Socket")
	addField("Write Buffer", fmt.Sprintf("%d bytes", s.WriteBufferSize))
	addField("Read Buffer", fmt.Sprintf("%d bytes", s.ReadBufferSize))
	addField("TCP No Delay", strconv.FormatBool(s.TCPNoDelay))
	addField("TCP Keep Alive", fmt.Sprintf("%d sec", s.TCPKeepAliveSec))
	addField("TCP Linger", fmt.Sprintf("%d sec", s.TCPLingerSec))
}
