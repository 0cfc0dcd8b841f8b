// Package cache implements the per-connection object cache tables of the tight
// OpenWire encoding.
//
// Repeated sub-objects of a command stream (the destination of every message sent
// to the same queue, the producer id of every message of one producer, ...) are
// encoded in full only once. The encoder assigns the object a slot in its
// MarshalCache and later occurrences carry just the two-byte slot index. The
// decoder keeps a mirror image of that table in its UnmarshalCache.
//
// Neither side ever transmits the table itself. Both tables assign slots in the
// same deterministic order (the order in which first occurrences complete) and
// wrap around at the same size, evicting the oldest slot. A decoder that sees a
// first occurrence announced for a slot other than the one it expects next, or
// a back-reference to a slot that was never filled, reports codec.ErrCacheDesync.
//
// Key Components:
//
//   - MarshalCache: Encoder side. Maps a value key (the type code plus the loose
//     encoding of the object) to its slot and assigns new slots in ring order.
//
//   - UnmarshalCache: Decoder side. Holds the decoded object per slot and
//     verifies that slots are filled in the expected order.
//
// Thread Safety:
//
//	Tables are not safe for concurrent use. Each direction of a connection owns
//	its own table and drives it from a single goroutine.
package cache
