package domain

import "strconv"

// Direction distinguishes recording endpoints from playback endpoints.
type Direction int

const (
	DirectionInput Direction = iota
	DirectionOutput
)

func (d Direction) String() string {
	switch d {
	case DirectionInput:
		return "input"
	case DirectionOutput:
		return "output"
	default:
		return "unknown"
	}
}

// DeviceDescriptor describes one active audio endpoint as reported by the OS.
// The ID is stable across process runs while the endpoint stays present; the
// display name is not guaranteed unique.
type DeviceDescriptor struct {
	ID        string
	Name      string
	Direction Direction
}

// DeviceList groups the active endpoints by direction.
type DeviceList struct {
	Inputs  []DeviceDescriptor
	Outputs []DeviceDescriptor
}

// ListenState holds the two persisted listen properties of one input device.
// An empty RouteTarget means "default playback device".
type ListenState struct {
	Enabled     bool
	RouteTarget string
}

// DesiredState is what the caller asks Apply to do with the enabled flag.
type DesiredState int

const (
	DesiredToggle DesiredState = iota
	DesiredOn
	DesiredOff
)

func (s DesiredState) String() string {
	switch s {
	case DesiredOn:
		return "on"
	case DesiredOff:
		return "off"
	case DesiredToggle:
		return "toggle"
	default:
		return "unknown"
	}
}

// ValueKind is the runtime type of a PropertyValue.
type ValueKind int

const (
	KindEmpty ValueKind = iota
	KindBool
	KindString
)

// PropertyKey addresses one typed value in a device property store.
type PropertyKey struct {
	FormatID string
	PID      uint32
}

func (k PropertyKey) String() string {
	return k.FormatID + "," + strconv.FormatUint(uint64(k.PID), 10)
}

// PropertyValue is the generic typed-value representation moved through a
// property store. KindEmpty is a real value (writing it clears the property),
// not the absence of one.
type PropertyValue struct {
	Kind ValueKind
	Bool bool
	Str  string
}

// PropertyWrite pairs a key with the value to store under it.
type PropertyWrite struct {
	Key   PropertyKey
	Value PropertyValue
}
