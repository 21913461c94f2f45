//go:build !windows

package wasapi

import "micmon/internal/domain"

// System is unavailable off Windows; New fails so callers can surface a
// clear error instead of silently doing nothing.
type System struct{}

func New() (*System, error) {
	return nil, ErrUnsupported
}

func (s *System) ListActiveEndpoints(domain.Direction) ([]domain.DeviceDescriptor, error) {
	return nil, ErrUnsupported
}

func (s *System) OpenPropertyStore(string) (domain.PropertyStore, error) {
	return nil, ErrUnsupported
}

func (s *System) Close() error {
	return nil
}
