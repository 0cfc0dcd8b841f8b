package server

import (
	"fmt"
	"net/http"

	"github.com/ValentinKolb/dWire/lib/openwire/commands"
	"github.com/VictoriaMetrics/metrics"
)

var (
	connectionsActive   = metrics.NewCounter("dwire_server_connections_active")
	connectionsAccepted = metrics.NewCounter("dwire_server_connections_total")
	handshakeFailures   = metrics.NewCounter("dwire_server_handshake_failures_total")
)

// countCommand counts a received command by type
func countCommand(cmd commands.Command) {
	name := commands.TypeName(cmd.DataStructureType())
	metrics.GetOrCreateCounter(fmt.Sprintf(`dwire_server_commands_total{type=%q}`, name)).Inc()
}

// newMetricsServer returns the http server exposing all dWire metrics on /metrics
func newMetricsServer(endpoint string) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", func(w http.ResponseWriter, _ *http.Request) {
		metrics.WritePrometheus(w, true)
	})
	return &http.Server{Addr: endpoint, Handler: mux}
}
