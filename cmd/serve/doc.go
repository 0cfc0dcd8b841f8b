// Package serve implements the serve command, which runs a dWire server that
// logs every received command.
package serve
