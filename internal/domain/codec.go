package domain

// The listen settings live under one property format ID with two property
// indices. These are the exact constants the Windows sound control panel's
// "Listen" tab reads and writes; treat them as a versioned external contract,
// never derived at runtime.
const (
	ListenFormatID = "{24DBB0FC-9311-4B3D-9CF0-18FF155639D4}"

	// PIDListenEnabled is the "Listen to this device" checkbox.
	PIDListenEnabled uint32 = 1
	// PIDListenRoute is the "Playback through this device" dropdown.
	PIDListenRoute uint32 = 0
)

var (
	KeyListenEnabled = PropertyKey{FormatID: ListenFormatID, PID: PIDListenEnabled}
	KeyListenRoute   = PropertyKey{FormatID: ListenFormatID, PID: PIDListenRoute}
)

// DecodeEnabled interprets a raw checkbox value. Nil means the property was
// absent or unreadable: a device whose listen setting was never touched, not
// an error.
func DecodeEnabled(v PropertyValue, err error) *bool {
	if err != nil || v.Kind != KindBool {
		return nil
	}
	b := v.Bool
	return &b
}

// EncodeEnabled produces the boolean-typed checkbox value.
func EncodeEnabled(enabled bool) PropertyValue {
	return PropertyValue{Kind: KindBool, Bool: enabled}
}

// EncodeRouteTarget produces the dropdown value. An empty id encodes the
// explicit empty value that clears the route back to the default playback
// device, which is distinct from leaving the property untouched.
func EncodeRouteTarget(id string) PropertyValue {
	if id == "" {
		return PropertyValue{Kind: KindEmpty}
	}
	return PropertyValue{Kind: KindString, Str: id}
}
