// Package primitivemap encodes the typed property maps carried inside OpenWire
// commands: the negotiation options of a WireFormatInfo, the user properties of
// a Message and the body of a MapMessage.
//
// Layout:
//
//	[entries:int32] { [key length:uint16][key UTF-8] [value type:1][value] }*
//
// A value is one of null, bool, int8, uint16 (char), int16, int32, int64,
// float32, float64, string, []byte, a nested Map or a List. Strings longer than
// a two-byte length prefix allows are written as "big strings" with a four-byte
// length. An empty map marshals to nil and nil unmarshals to an empty map.
package primitivemap
