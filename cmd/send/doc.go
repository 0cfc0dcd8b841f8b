// Package send implements the send command, a minimal producer for dWire servers.
package send
