package marshal

import (
	"fmt"
	"time"

	"github.com/ValentinKolb/dWire/lib/openwire/commands"
	"github.com/ValentinKolb/dWire/lib/openwire/primitivemap"
)

// Preferences are the options one peer announces in its WireFormatInfo
type Preferences struct {
	Options
	// MaxInactivityDuration is the longest the peer tolerates a silent
	// connection. Zero disables inactivity monitoring.
	MaxInactivityDuration time.Duration
}

// DefaultPreferences returns DefaultOptions with a 30 second inactivity limit
func DefaultPreferences() Preferences {
	return Preferences{Options: DefaultOptions(), MaxInactivityDuration: 30 * time.Second}
}

// String returns a human-readable representation of the preferences
func (p Preferences) String() string {
	return fmt.Sprintf("%s, maxInactivity=%s", p.Options, p.MaxInactivityDuration)
}

// Info builds the WireFormatInfo announcing p
func (p Preferences) Info() (*commands.WireFormatInfo, error) {
	info := &commands.WireFormatInfo{Magic: commands.Magic, Version: int32(p.Version)}
	err := info.SetProperties(primitivemap.Map{
		commands.PropCacheEnabled:          p.CacheEnabled,
		commands.PropCacheSize:             int32(p.CacheSize),
		commands.PropTightEncodingEnabled:  p.TightEncodingEnabled,
		commands.PropMaxInactivityDuration: p.MaxInactivityDuration.Milliseconds(),
	})
	if err != nil {
		return nil, err
	}
	return info, nil
}

// PreferencesFromInfo reads the preferences a peer announced. Options the peer
// did not send count as disabled; a missing cache size counts as the default.
func PreferencesFromInfo(info *commands.WireFormatInfo) (Preferences, error) {
	if !info.IsValid() {
		return Preferences{}, fmt.Errorf("openwire: bad magic %q in wire format info", info.Magic[:])
	}
	if info.Version < MinVersion {
		return Preferences{}, fmt.Errorf("openwire: peer announced version %d", info.Version)
	}
	props, err := info.Properties()
	if err != nil {
		return Preferences{}, fmt.Errorf("openwire: wire format properties: %w", err)
	}

	p := Preferences{Options: Options{Version: int(info.Version)}}
	p.CacheEnabled, _ = props[commands.PropCacheEnabled].(bool)
	p.TightEncodingEnabled, _ = props[commands.PropTightEncodingEnabled].(bool)
	if size, ok := props[commands.PropCacheSize].(int32); ok && size > 0 {
		p.CacheSize = int(size)
	} else {
		p.CacheSize = DefaultOptions().CacheSize
	}
	if ms, ok := props[commands.PropMaxInactivityDuration].(int64); ok && ms > 0 {
		p.MaxInactivityDuration = time.Duration(ms) * time.Millisecond
	}
	return p, nil
}

// Negotiate combines the local preferences with the WireFormatInfo of the peer.
// The result uses the lower version, enables the cache and the tight encoding
// only when both sides do, takes the smaller cache and the shorter inactivity limit.
func Negotiate(local Preferences, remote *commands.WireFormatInfo) (Preferences, error) {
	peer, err := PreferencesFromInfo(remote)
	if err != nil {
		return Preferences{}, err
	}

	agreed := Preferences{
		Options: Options{
			Version:              min(local.Version, peer.Version),
			TightEncodingEnabled: local.TightEncodingEnabled && peer.TightEncodingEnabled,
			CacheEnabled:         local.CacheEnabled && peer.CacheEnabled,
			CacheSize:            min(local.CacheSize, peer.CacheSize),
		},
		MaxInactivityDuration: local.MaxInactivityDuration,
	}
	switch {
	case local.MaxInactivityDuration == 0:
		agreed.MaxInactivityDuration = peer.MaxInactivityDuration
	case peer.MaxInactivityDuration > 0:
		agreed.MaxInactivityDuration = min(local.MaxInactivityDuration, peer.MaxInactivityDuration)
	}

	Logger.Debugf("negotiated wire format: local {%s}, peer {%s}, agreed {%s}", local, peer, agreed)
	return agreed, nil
}

// NewBootstrap returns the context used to exchange WireFormatInfo records
// before anything is negotiated: loose encoding, version 1, no cache.
func NewBootstrap() *WireFormat {
	return New(Options{Version: MinVersion})
}
