// Package common holds what the dWire client, server and command line share:
// the configuration structs and the logger factory.
//
// Key Components:
//
//   - ServerConfig / ClientConfig: connection parameters, socket options and the
//     wire format preferences each side announces in the handshake. Both print
//     themselves as a sectioned table for startup logs.
//
//   - Logger: a dragonboat logger.ILogger producing "LEVEL | name | message"
//     lines. InitLoggers installs it for the openwire, transport, server and
//     client loggers.
package common
