// Package rpc carries OpenWire commands between processes. It connects the codec
// in lib/openwire to the network.
//
// The package is organized into several subpackages:
//
//   - common: Configuration structures of clients and servers and the logger setup
//     shared by all packages.
//
//   - transport: Connectors for TCP and Unix sockets and, in transport/base, the framed
//     connection that performs the wire format handshake, sends keep-alives and
//     owns one negotiated WireFormat.
//
//   - client: Connects to a server, registers a connection and producers and correlates
//     requests with the server's responses.
//
//   - server: Accepts connections and hands every decoded command to an ICommandHandler,
//     answering requests the handler does not reply to itself.
package rpc
