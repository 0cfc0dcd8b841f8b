package util

import (
	"strings"
	"testing"
	"time"

	"github.com/ValentinKolb/dWire/lib/openwire/marshal"
	"github.com/maxatome/go-testdeep/td"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func TestWrapString(t *testing.T) {
	wrapped := WrapString(strings.Repeat("word ", 30))
	for _, line := range strings.Split(wrapped, "\n") {
		td.Cmp(t, len(line) <= Wrap, true, line)
	}
	td.Cmp(t, strings.Fields(wrapped), strings.Fields(strings.Repeat("word ", 30)))
}

func TestWireFlags(t *testing.T) {
	viper.Reset()
	cmd := &cobra.Command{Use: "test"}
	SetupWireFlags(cmd)
	td.Require(t).CmpNoError(cmd.PersistentFlags().Parse([]string{"--wire-version=4", "--wire-cache=false"}))
	td.Require(t).CmpNoError(viper.BindPFlags(cmd.PersistentFlags()))

	prefs := GetWirePreferences()
	td.Cmp(t, prefs, marshal.Preferences{
		Options:               marshal.Options{Version: 4, TightEncodingEnabled: true, CacheSize: marshal.DefaultOptions().CacheSize},
		MaxInactivityDuration: 30 * time.Second,
	})
}

func TestEnvironmentOverridesDefaults(t *testing.T) {
	viper.Reset()
	t.Setenv("DWIRE_ENDPOINTS", "a:1,b:2")
	InitConfig()

	cmd := &cobra.Command{Use: "test"}
	SetupRPCClientFlags(cmd)
	td.Require(t).CmpNoError(viper.BindPFlags(cmd.PersistentFlags()))

	config := GetClientConfig()
	td.Cmp(t, config.Endpoints, []string{"a:1", "b:2"})
	td.Cmp(t, config.ClientID, "dwire-cli")
	td.Cmp(t, config.Socket.TCPLingerSec, -1)
}

func TestGetConnector(t *testing.T) {
	viper.Reset()
	for _, name := range []string{"tcp", "unix"} {
		viper.Set("transport", name)
		c, err := GetConnector()
		td.CmpNoError(t, err)
		td.Cmp(t, c.GetName(), name)
	}
	viper.Set("transport", "http")
	_, err := GetConnector()
	td.CmpError(t, err)
}

func TestFormatDuration(t *testing.T) {
	td.Cmp(t, FormatDuration(500*time.Nanosecond), "500ns")
	td.Cmp(t, FormatDuration(1500*time.Nanosecond), "1.50µs")
	td.Cmp(t, FormatDuration(2*time.Millisecond), "2.00ms")
}

func TestSampleMessageRoundTrip(t *testing.T) {
	msg := SampleMessage(7, 100)
	td.Cmp(t, msg.MessageID.ProducerSequenceID, int64(7))
	td.Cmp(t, msg.MessageID.ProducerID, msg.ProducerID)

	wf := marshal.New(marshal.DefaultOptions())
	data, err := wf.Marshal(msg)
	td.CmpNoError(t, err)

	got, err := marshal.New(marshal.DefaultOptions()).Unmarshal(data)
	td.CmpNoError(t, err)
	td.Cmp(t, got, msg)
}
