// Package transport defines how dWire reaches the network. A connector knows
// how to dial or listen on one medium (TCP, Unix sockets) and how to tune the
// resulting socket; everything above the socket lives in the base package.
//
// Key Components:
//
//   - IClientConnector: dials an endpoint and applies socket options.
//
//   - IServerConnector: creates a listener and applies socket options to
//     accepted connections.
package transport
