// Package util holds the flag, configuration and formatting helpers shared by
// the dWire commands (internal use).
package util
