// Package memory provides an in-memory DeviceSystem. It backs the tests and
// has no OS dependencies; faults can be scripted per call site to exercise
// the failure paths of the use case.
package memory

import (
	"fmt"

	"micmon/internal/domain"
)

// Device is one fake endpoint with its property store contents. A device
// with an empty Name models a ghost endpoint mid-teardown and must never be
// enumerated.
type Device struct {
	ID        string
	Name      string
	Direction domain.Direction
	Props     map[domain.PropertyKey]domain.PropertyValue
}

// System implements domain.DeviceSystem over a fixed device set.
type System struct {
	Devices []*Device

	// Fault injection. Zero values mean "succeed".
	EnumerateErr error
	OpenErr      error
	GetErr       map[domain.PropertyKey]error
	SetErr       map[domain.PropertyKey]error
	CommitErr    error

	Commits  int
	Releases int
	Closed   bool
}

// NewSystem builds a system over the given devices.
func NewSystem(devices ...*Device) *System {
	return &System{Devices: devices}
}

func (s *System) ListActiveEndpoints(d domain.Direction) ([]domain.DeviceDescriptor, error) {
	if s.EnumerateErr != nil {
		return nil, &domain.EnumerationError{Direction: d, Cause: s.EnumerateErr}
	}
	var out []domain.DeviceDescriptor
	for _, dev := range s.Devices {
		if dev.Direction != d || dev.Name == "" {
			continue
		}
		out = append(out, domain.DeviceDescriptor{ID: dev.ID, Name: dev.Name, Direction: dev.Direction})
	}
	return out, nil
}

func (s *System) OpenPropertyStore(id string) (domain.PropertyStore, error) {
	if s.OpenErr != nil {
		return nil, s.OpenErr
	}
	for _, dev := range s.Devices {
		if dev.ID == id {
			if dev.Props == nil {
				dev.Props = make(map[domain.PropertyKey]domain.PropertyValue)
			}
			return &store{system: s, device: dev}, nil
		}
	}
	return nil, fmt.Errorf("no such device: %s", id)
}

func (s *System) Close() error {
	s.Closed = true
	return nil
}

// Device returns the fake device with the given id, for test assertions.
func (s *System) Device(id string) *Device {
	for _, dev := range s.Devices {
		if dev.ID == id {
			return dev
		}
	}
	return nil
}

type store struct {
	system   *System
	device   *Device
	released bool
}

func (st *store) Get(key domain.PropertyKey) (domain.PropertyValue, error) {
	if err := st.system.GetErr[key]; err != nil {
		return domain.PropertyValue{}, err
	}
	v, ok := st.device.Props[key]
	if !ok {
		return domain.PropertyValue{}, fmt.Errorf("property %s not set", key)
	}
	return v, nil
}

func (st *store) Set(key domain.PropertyKey, value domain.PropertyValue) error {
	if err := st.system.SetErr[key]; err != nil {
		return err
	}
	st.device.Props[key] = value
	return nil
}

func (st *store) Commit() error {
	if st.system.CommitErr != nil {
		return st.system.CommitErr
	}
	st.system.Commits++
	return nil
}

func (st *store) Release() {
	if !st.released {
		st.released = true
		st.system.Releases++
	}
}
