// Package marshal converts OpenWire data structures to bytes and back.
//
// A WireFormat is the per-connection context of the codec. It carries the
// negotiated protocol version, the chosen encoding and the object cache tables,
// and is passed into every marshaller call. Two encodings are supported:
//
//	tight: [type:1][length:int32][boolean stream][fields]
//	loose: [type:1][fields]
//
// The tight encoding records the presence of optional fields in a packed
// boolean stream, compresses longs to 0, 2, 4 or 8 bytes and replaces repeated
// sub-objects by two-byte cache slot indexes. It is produced in two passes: the
// first pass pushes the booleans and computes the size of every field, the
// second pass pops the same booleans and writes the bytes. The loose encoding
// is written in a single pass with an explicit presence byte before every
// optional field and no back-references.
//
// Every data structure type has one IMarshaller, looked up by type code through
// MarshallerFor. A marshaller knows the field list of its type, which fields are
// cached or nested references and from which protocol version a field exists.
// Fields shared along the type hierarchy (the command id and response flag of
// every command, the field set shared by all message variants) are written by
// shared helpers before the type's own fields.
//
// Version gates:
//
//	A field introduced at version N is written and read only when the context
//	version is at least N. A record from a peer running an older version may
//	end before its trailing gated fields; those decode to their zero value.
//	Data left over after the last field of the context version, on the other
//	hand, means the peer used fields this version does not know about and is
//	reported as codec.ErrVersionViolation.
//
// Failure semantics:
//
//	Any error leaves the cache tables in an undefined state. The connection the
//	WireFormat belongs to must be closed; nothing can be resumed.
//
// Thread Safety:
//
//	A WireFormat may run one Marshal and one Unmarshal concurrently because the
//	two directions use separate cache tables. Two concurrent calls in the same
//	direction are not allowed.
package marshal
