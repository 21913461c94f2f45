package domain

// DeviceSystem is a secondary port over the OS audio device subsystem.
// This interface is defined in the domain layer and implemented by adapters.
type DeviceSystem interface {
	// ListActiveEndpoints returns the active, non-ghost endpoints of one
	// direction in OS enumeration order.
	ListActiveEndpoints(d Direction) ([]DeviceDescriptor, error)

	// OpenPropertyStore opens a writable property store bound to the given
	// device identifier. The caller owns the returned store for the duration
	// of one apply operation and must Release it on every exit path.
	OpenPropertyStore(id string) (PropertyStore, error)

	Close() error
}

// PropertyStore is an exclusive handle onto one device's typed key/value
// store. Never held across operations; the backing OS object is reference
// counted and released by Release.
type PropertyStore interface {
	Get(key PropertyKey) (PropertyValue, error)
	Set(key PropertyKey, value PropertyValue) error

	// Commit flushes the writes. On this OS the writes are already durable
	// once Set succeeds, so callers treat a commit failure as a warning.
	Commit() error

	Release()
}
