// Package unix implements the Unix domain socket connector of dWire. Listening
// removes a stale socket file left behind by a previous run.
package unix
