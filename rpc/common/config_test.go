package common

import (
	"testing"

	"github.com/ValentinKolb/dWire/lib/openwire/marshal"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/maxatome/go-testdeep/td"
)

func TestServerConfigString(t *testing.T) {
	c := ServerConfig{
		Endpoint:        "127.0.0.1:61616",
		TimeoutSecond:   5,
		MaxFrameSize:    1024,
		Wire:            marshal.DefaultPreferences(),
		MetricsEndpoint: ":9100",
		LogLevel:        "info",
	}
	s := c.String()
	td.Cmp(t, s, td.All(
		td.Contains("127.0.0.1:61616"),
		td.Contains("WIRE FORMAT"),
		td.Contains("Cache Size"),
		td.Contains("1024"),
		td.Contains(":9100"),
	))
}

func TestClientConfigString(t *testing.T) {
	c := ClientConfig{Endpoints: []string{"a:1", "b:2"}, ClientID: "cli", Wire: marshal.DefaultPreferences()}
	td.Cmp(t, c.String(), td.All(td.Contains("a:1"), td.Contains("b:2"), td.Contains("cli")))
}

func TestParseLogLevel(t *testing.T) {
	for in, expected := range map[string]logger.LogLevel{
		"debug":   logger.DEBUG,
		"INFO":    logger.INFO,
		"warn":    logger.WARNING,
		"warning": logger.WARNING,
		"error":   logger.ERROR,
	} {
		lvl, err := ParseLogLevel(in)
		td.CmpNoError(t, err, in)
		td.Cmp(t, lvl, expected, in)
	}

	_, err := ParseLogLevel("verbose")
	td.CmpError(t, err)
	td.CmpError(t, InitLoggers("verbose"))
}
