package util

import (
	"fmt"
	"strings"
	"time"

	"github.com/ValentinKolb/dWire/lib/openwire/commands"
	"github.com/ValentinKolb/dWire/lib/openwire/marshal"
	"github.com/ValentinKolb/dWire/rpc/common"
	"github.com/ValentinKolb/dWire/rpc/transport"
	"github.com/ValentinKolb/dWire/rpc/transport/tcp"
	"github.com/ValentinKolb/dWire/rpc/transport/unix"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50

	// EnvPrefix is the prefix of all environment variables read by dWire
	EnvPrefix = "dwire"
)

// Connector is implemented by the tcp and unix connectors
type Connector interface {
	transport.IClientConnector
	transport.IServerConnector
}

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		if lineWidth > 0 && lineWidth+1+len(word) > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}
		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}
		currentLine.WriteString(word)
		lineWidth += len(word)
	}
	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// InitConfig loads .env files and makes viper read DWIRE_* environment variables
func InitConfig() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}

// --------------------------------------------------------------------------
// Wire format flags
// --------------------------------------------------------------------------

// SetupWireFlags adds the wire format preference flags to a command
func SetupWireFlags(cmd *cobra.Command) {
	defaults := marshal.DefaultPreferences()

	key := "wire-version"
	cmd.PersistentFlags().Int(key, defaults.Version, WrapString(fmt.Sprintf("Highest OpenWire version to announce (%d-%d)", marshal.MinVersion, marshal.MaxVersion)))

	key = "wire-tight"
	cmd.PersistentFlags().Bool(key, defaults.TightEncodingEnabled, WrapString("Whether to propose the tight encoding"))

	key = "wire-cache"
	cmd.PersistentFlags().Bool(key, defaults.CacheEnabled, WrapString("Whether to propose the object cache (tight encoding only)"))

	key = "wire-cache-size"
	cmd.PersistentFlags().Int(key, defaults.CacheSize, WrapString("Number of object cache slots to propose"))

	key = "wire-max-inactivity"
	cmd.PersistentFlags().Duration(key, defaults.MaxInactivityDuration, WrapString("Longest silence tolerated on a connection before it is closed (0 disables keep-alives)"))
}

// GetWirePreferences reads the wire format flags from viper
func GetWirePreferences() marshal.Preferences {
	return marshal.Preferences{
		Options: marshal.Options{
			Version:              viper.GetInt("wire-version"),
			TightEncodingEnabled: viper.GetBool("wire-tight"),
			CacheEnabled:         viper.GetBool("wire-cache"),
			CacheSize:            viper.GetInt("wire-cache-size"),
		},
		MaxInactivityDuration: viper.GetDuration("wire-max-inactivity"),
	}
}

// --------------------------------------------------------------------------
// Transport flags
// --------------------------------------------------------------------------

// SetupSocketFlags adds the socket option flags to a command
func SetupSocketFlags(cmd *cobra.Command) {
	key := "transport-write-buffer"
	cmd.PersistentFlags().Int(key, 512, WrapString("The size of the socket write buffer (in KB, 0 keeps the OS default)"))

	key = "transport-read-buffer"
	cmd.PersistentFlags().Int(key, 512, WrapString("The size of the socket read buffer (in KB, 0 keeps the OS default)"))

	key = "transport-tcp-nodelay"
	cmd.PersistentFlags().Bool(key, true, WrapString("Whether to enable TCP_NODELAY (only for tcp)"))

	key = "transport-tcp-keepalive"
	cmd.PersistentFlags().Int(key, 0, WrapString("The TCP keepalive interval (in seconds, only for tcp)"))

	key = "transport-tcp-linger"
	cmd.PersistentFlags().Int(key, -1, WrapString("The TCP linger time (in seconds, only for tcp, negative keeps the OS default)"))

	key = "max-frame-size"
	cmd.PersistentFlags().Int(key, 64*1024, WrapString("The largest record accepted from the peer (in KB)"))
}

// GetSocketConf reads the socket flags from viper
func GetSocketConf() common.SocketConf {
	return common.SocketConf{
		WriteBufferSize: viper.GetInt("transport-write-buffer") * 1024,
		ReadBufferSize:  viper.GetInt("transport-read-buffer") * 1024,
		TCPNoDelay:      viper.GetBool("transport-tcp-nodelay"),
		TCPKeepAliveSec: viper.GetInt("transport-tcp-keepalive"),
		TCPLingerSec:    viper.GetInt("transport-tcp-linger"),
	}
}

// GetConnector creates the connector selected by the transport flag
func GetConnector() (Connector, error) {
	switch viper.GetString("transport") {
	case "tcp":
		return tcp.NewConnector(), nil
	case "unix":
		return unix.NewConnector(), nil
	default:
		return nil, fmt.Errorf("invalid transport %s", viper.GetString("transport"))
	}
}

// --------------------------------------------------------------------------
// Client configuration
// --------------------------------------------------------------------------

// SetupRPCClientFlags adds the flags of commands connecting to a server
func SetupRPCClientFlags(cmd *cobra.Command) {
	key := "timeout"
	cmd.PersistentFlags().Int(key, 10, WrapString("The timeout in seconds of the client"))

	key = "endpoints"
	cmd.PersistentFlags().String(key, "localhost:61616", WrapString("The address of the dWire server. Multiple endpoints can be specified as a comma-separated list; they are tried in order"))

	key = "client-id"
	cmd.PersistentFlags().String(key, "dwire-cli", WrapString("The client id announced to the server"))

	SetupWireFlags(cmd)
	SetupSocketFlags(cmd)
}

// GetClientConfig reads client configuration from viper
func GetClientConfig() common.ClientConfig {
	return common.ClientConfig{
		Endpoints:     strings.Split(viper.GetString("endpoints"), ","),
		TimeoutSecond: viper.GetInt("timeout"),
		MaxFrameSize:  viper.GetInt("max-frame-size") * 1024,
		ClientID:      viper.GetString("client-id"),
		Wire:          GetWirePreferences(),
		Socket:        GetSocketConf(),
	}
}

// FormatDuration prints d with a unit matching its magnitude
func FormatDuration(d time.Duration) string {
	switch {
	case d < time.Microsecond:
		return fmt.Sprintf("%dns", d.Nanoseconds())
	case d < time.Millisecond:
		return fmt.Sprintf("%.2fµs", float64(d)/float64(time.Microsecond))
	default:
		return fmt.Sprintf("%.2fms", float64(d)/float64(time.Millisecond))
	}
}

// SampleMessage builds the text message used by the bench and inspect commands
func SampleMessage(seq int64, size int) *commands.TextMessage {
	pid := &commands.ProducerID{ConnectionID: "ID:dwire-cli", SessionID: 1, Value: 1}

	msg := &commands.TextMessage{}
	msg.ProducerID = pid
	msg.Destination = commands.NewQueue("dwire.bench")
	msg.MessageID = &commands.MessageID{ProducerID: pid, ProducerSequenceID: seq}
	msg.Persistent = true
	msg.Priority = 4
	msg.Timestamp = time.Now().UnixMilli()
	msg.SetText(strings.Repeat("x", size))
	return msg
}
