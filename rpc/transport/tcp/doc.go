// Package tcp implements the TCP connector of dWire: dialing, listening and
// the TCP specific socket options (no-delay, keep-alive, linger, buffer sizes).
package tcp
