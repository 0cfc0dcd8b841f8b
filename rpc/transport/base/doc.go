// Package base implements the OpenWire connection on top of any net.Conn,
// independent of the transport medium.
//
// Frames: every record travels as
//
//	[4 bytes: record length, big endian][record]
//
// Handshake: both peers first send a WireFormatInfo encoded with the bootstrap
// format (loose, version 1, no cache), then switch to the negotiated options.
//
// Key Components:
//
//   - Conn: one negotiated connection. Sends from any goroutine are funnelled
//     through a lock-free outbox and encoded by a single writer goroutine, so
//     the cache tables see commands in exactly the order they hit the socket.
//     A single reader decodes with the other half of the context. When an
//     inactivity limit was negotiated, Conn sends and swallows KeepAliveInfo
//     records on its own.
//
//   - MPSC: the unbounded lock-free multi-producer single-consumer queue behind
//     the outbox.
//
// Error handling: a frame, encode or decode error closes the connection. The
// error that closed it is available through Err.
package base
