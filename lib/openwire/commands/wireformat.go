package commands

import (
	"bytes"
	"fmt"

	"github.com/ValentinKolb/dWire/lib/openwire/primitivemap"
)

// Magic is the fixed prefix of every WireFormatInfo
var Magic = [8]byte{'A', 'c', 't', 'i', 'v', 'e', 'M', 'Q'}

// Negotiation property keys
const (
	PropCacheEnabled          = "CacheEnabled"
	PropCacheSize             = "CacheSize"
	PropTightEncodingEnabled  = "TightEncodingEnabled"
	PropMaxInactivityDuration = "MaxInactivityDuration"
)

// WireFormatInfo is the first record each side sends. It announces the highest
// protocol version and the encoding options the sender supports. It has no
// command id of its own.
type WireFormatInfo struct {
	Magic                [8]byte
	Version              int32
	MarshalledProperties []byte
}

func (w *WireFormatInfo) DataStructureType() byte { return TypeWireFormatInfo }
func (w *WireFormatInfo) GetCommandID() int32     { return 0 }
func (w *WireFormatInfo) SetCommandID(int32) {}
func (w *WireFormatInfo) IsResponseRequired() bool { return false }
func (w *WireFormatInfo) SetResponseRequired(bool) {}
func (w *WireFormatInfo) String() string {
	props, _ := w.Properties()
	return fmt.Sprintf("WireFormatInfo{magic=%s, version=%d, properties=%v}", w.Magic[:], w.Version, props)
}

// IsValid reports whether the magic prefix is present
func (w *WireFormatInfo) IsValid() bool {
	return bytes.Equal(w.Magic[:], Magic[:])
}

// Properties decodes the negotiation options
func (w *WireFormatInfo) Properties() (primitivemap.Map, error) {
	return primitivemap.Unmarshal(w.MarshalledProperties)
}

// SetProperties replaces the negotiation options
func (w *WireFormatInfo) SetProperties(props primitivemap.Map) error {
	data, err := primitivemap.Marshal(props)
	if err != nil {
		return err
	}
	w.MarshalledProperties = data
	return nil
}
