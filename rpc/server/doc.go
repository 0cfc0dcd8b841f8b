// Package server implements the dWire server: it accepts connections through a
// transport connector, runs the OpenWire handshake and passes every received
// command to an ICommandHandler.
//
// Commands of one connection are handled sequentially in arrival order.
// Commands requiring a response are answered with a Response carrying their
// command id unless the handler returns its own reply. A ShutdownInfo ends the
// connection after it was handled.
//
// Metrics (VictoriaMetrics) about connections and received commands, together
// with the codec counters, are exposed on an optional /metrics endpoint.
package server
