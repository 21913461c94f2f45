package domain

import "fmt"

// DeviceNotFoundError reports that no active endpoint carries the given
// display name. User input error; surfaced verbatim, never retried.
type DeviceNotFoundError struct {
	Name      string
	Direction Direction
}

func (e *DeviceNotFoundError) Error() string {
	return fmt.Sprintf("%s device not found: %q (run: micmon list)", e.Direction, e.Name)
}

// EnumerationError reports that the OS device enumeration subsystem could not
// be reached. Fatal for the whole operation; not transient on the timescale
// of a CLI invocation.
type EnumerationError struct {
	Direction Direction
	Cause     error
}

func (e *EnumerationError) Error() string {
	return fmt.Sprintf("enumerate %s endpoints: %v", e.Direction, e.Cause)
}

func (e *EnumerationError) Unwrap() error { return e.Cause }

// StoreOpenError reports that a device resolved moments ago could not be
// opened for writing (removed in between, or access denied).
type StoreOpenError struct {
	DeviceID string
	Cause    error
}

func (e *StoreOpenError) Error() string {
	return fmt.Sprintf("open property store for %s: %v", e.DeviceID, e.Cause)
}

func (e *StoreOpenError) Unwrap() error { return e.Cause }

// PropertyIOError reports a failed read or write of one typed property.
type PropertyIOError struct {
	Op    string // "get" or "set"
	Key   PropertyKey
	Cause error
}

func (e *PropertyIOError) Error() string {
	return fmt.Sprintf("%s property %s: %v", e.Op, e.Key, e.Cause)
}

func (e *PropertyIOError) Unwrap() error { return e.Cause }

// PartialWriteError reports that the enabled flag was written but the route
// target was not, leaving the device in a mixed state. Enabled is the value
// that did land.
type PartialWriteError struct {
	Enabled bool
	Cause   *PropertyIOError
}

func (e *PartialWriteError) Error() string {
	return fmt.Sprintf("listen flag written (enabled=%t) but route target was not: %v", e.Enabled, e.Cause)
}

func (e *PartialWriteError) Unwrap() error { return e.Cause }
