// Package codec provides the primitive building blocks of the OpenWire binary
// format: a bounded big-endian reader and a growable writer over byte slices,
// the packed boolean stream used by the tight encoding, and the field-level
// helpers for strings, byte arrays and compressed longs in both the tight and
// the loose form.
//
// The package focuses on:
//   - Exact, allocation-light primitives matching the fixed wire layout
//   - Strict failure on short buffers (no partial values are returned)
//   - A small set of sentinel errors shared by every decoder in the module
//
// Key Components:
//
//   - Reader: Reads fixed-width integers and raw byte runs from a byte slice.
//     Every read fails with ErrMalformedStream when the slice is exhausted.
//
//   - Writer: Appends fixed-width integers and raw bytes to a growing slice.
//
//   - BooleanStream: Packs booleans eight per byte (most significant bit first)
//     behind a variable-size count prefix. The tight encoding pushes one boolean
//     per optional field during its sizing pass and pops them again, in the same
//     order, while writing.
//
//   - Tight*/Loose* helpers: String, byte array and compressed long encodings.
//     The tight helpers come in pairs (…1 for the sizing pass, …2 for the write
//     pass) plus a single unmarshal function.
//
// Thread Safety:
//
//	None of the types are safe for concurrent use. A Reader, Writer or
//	BooleanStream belongs to exactly one marshal or unmarshal call.
package codec
