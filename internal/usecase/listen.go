package usecase

import (
	"errors"

	"micmon/internal/domain"
	"micmon/internal/logging"
)

// ListenUseCase is the primary port for the listen toggle operations.
type ListenUseCase interface {
	Apply(req ApplyRequest) (domain.ListenState, error)
	ListDevices() (domain.DeviceList, error)
}

// ApplyRequest carries the caller's three inputs for one apply operation.
type ApplyRequest struct {
	Microphone string
	Desired    domain.DesiredState
	Playback   string // empty means the default playback device
}

// listenInteractor implements ListenUseCase. It depends only on the domain
// layer and the DeviceSystem secondary port.
type listenInteractor struct {
	system domain.DeviceSystem
}

// NewListenUseCase creates the use case over an injected device system.
func NewListenUseCase(system domain.DeviceSystem) (ListenUseCase, error) {
	if system == nil {
		return nil, errors.New("device system is required")
	}
	return &listenInteractor{system: system}, nil
}

// ListDevices enumerates the active endpoints of both directions.
func (i *listenInteractor) ListDevices() (domain.DeviceList, error) {
	inputs, err := i.system.ListActiveEndpoints(domain.DirectionInput)
	if err != nil {
		return domain.DeviceList{}, err
	}
	outputs, err := i.system.ListActiveEndpoints(domain.DirectionOutput)
	if err != nil {
		return domain.DeviceList{}, err
	}
	return domain.DeviceList{Inputs: inputs, Outputs: outputs}, nil
}

// Apply resolves the input device, reads the current listen state, computes
// the target state and writes both listen properties. Identifiers are always
// resolved from a live enumeration inside the same call; endpoint sets can
// change between runs, so nothing is cached.
func (i *listenInteractor) Apply(req ApplyRequest) (domain.ListenState, error) {
	// Resolving
	logging.Debugf("resolving input device %q", req.Microphone)
	devices, err := i.ListDevices()
	if err != nil {
		return domain.ListenState{}, err
	}
	micID, ok := domain.ResolveByName(devices.Inputs, devices.Outputs, req.Microphone)
	if !ok {
		return domain.ListenState{}, &domain.DeviceNotFoundError{Name: req.Microphone, Direction: domain.DirectionInput}
	}

	// Computing: the route target is resolved before any store write so a bad
	// playback name fails the operation while the device is still untouched.
	var routeID string
	if req.Playback != "" {
		logging.Debugf("resolving playback device %q", req.Playback)
		routeID, ok = domain.ResolveByName(devices.Inputs, devices.Outputs, req.Playback)
		if !ok {
			return domain.ListenState{}, &domain.DeviceNotFoundError{Name: req.Playback, Direction: domain.DirectionOutput}
		}
	}

	// Reading
	store, err := i.system.OpenPropertyStore(micID)
	if err != nil {
		return domain.ListenState{}, &domain.StoreOpenError{DeviceID: micID, Cause: err}
	}
	defer store.Release()

	raw, err := store.Get(domain.KeyListenEnabled)
	current := domain.DecodeEnabled(raw, err)
	if current == nil {
		logging.Debugf("no prior listen state for %q", req.Microphone)
	} else {
		logging.Debugf("current listen state for %q: enabled=%t", req.Microphone, *current)
	}

	target := domain.TargetEnabled(current, req.Desired)

	// Writing: checkbox first, then route. There is no transaction across the
	// two properties; a route failure after a successful checkbox write leaves
	// the device mixed and is reported as such.
	writes := domain.PlanListenWrite(target, routeID)
	for n, w := range writes {
		if err := store.Set(w.Key, w.Value); err != nil {
			ioErr := &domain.PropertyIOError{Op: "set", Key: w.Key, Cause: err}
			if n > 0 {
				return domain.ListenState{}, &domain.PartialWriteError{Enabled: target, Cause: ioErr}
			}
			return domain.ListenState{}, ioErr
		}
	}

	// Committed: the writes are durable once Set succeeds, so a commit
	// failure must not overturn a successful apply.
	if err := store.Commit(); err != nil {
		logging.Warnf("commit failed for %q: %v", req.Microphone, err)
	}

	return domain.ListenState{Enabled: target, RouteTarget: routeID}, nil
}
