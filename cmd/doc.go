// Package cmd implements the command-line interface of dWire. It provides a
// server that accepts OpenWire connections and a set of client and offline tools.
//
// The package is organized into several subpackages:
//
//   - serve: Starts the OpenWire server
//   - send: Sends text messages to a destination of a running server
//   - inspect: Decodes hex encoded records offline
//   - bench: Measures codec throughput and server round trips
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// Every flag can also be set through a DWIRE_ prefixed environment variable or a
// .env file, e.g. DWIRE_WIRE_CACHE_SIZE=2048.
//
// See dwire -help for a list of all commands.
package cmd
