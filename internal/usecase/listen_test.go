package usecase

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"micmon/internal/adapter/secondary/memory"
	"micmon/internal/domain"
)

func newTestSystem() *memory.System {
	return memory.NewSystem(
		&memory.Device{ID: "mic-1", Name: "USB Microphone", Direction: domain.DirectionInput},
		&memory.Device{ID: "mic-2", Name: "Line In", Direction: domain.DirectionInput},
		&memory.Device{ID: "spk-1", Name: "Speakers", Direction: domain.DirectionOutput},
		&memory.Device{ID: "spk-2", Name: "Headphones", Direction: domain.DirectionOutput},
		// Ghost endpoint mid-teardown: no display name, must never be listed.
		&memory.Device{ID: "ghost-1", Name: "", Direction: domain.DirectionInput},
	)
}

func newTestUseCase(t *testing.T, sys *memory.System) ListenUseCase {
	t.Helper()
	uc, err := NewListenUseCase(sys)
	require.NoError(t, err)
	return uc
}

func TestListDevicesFiltersGhosts(t *testing.T) {
	uc := newTestUseCase(t, newTestSystem())

	devices, err := uc.ListDevices()
	require.NoError(t, err)

	assert.Len(t, devices.Inputs, 2)
	assert.Len(t, devices.Outputs, 2)
	for _, d := range devices.Inputs {
		assert.NotEmpty(t, d.Name)
	}
}

func TestApplySucceedsForEveryListedName(t *testing.T) {
	sys := newTestSystem()
	uc := newTestUseCase(t, sys)

	devices, err := uc.ListDevices()
	require.NoError(t, err)

	for _, d := range devices.Inputs {
		_, err := uc.Apply(ApplyRequest{Microphone: d.Name, Desired: domain.DesiredOn})
		assert.NoError(t, err, "listed input %q must resolve", d.Name)
	}
	// Output names resolve too; the resolver scans both directions.
	for _, d := range devices.Outputs {
		_, err := uc.Apply(ApplyRequest{Microphone: d.Name, Desired: domain.DesiredOn})
		assert.NoError(t, err, "listed output %q must resolve", d.Name)
	}
}

func TestApplyOnThenOffClearsRoute(t *testing.T) {
	sys := newTestSystem()
	uc := newTestUseCase(t, sys)

	state, err := uc.Apply(ApplyRequest{Microphone: "USB Microphone", Desired: domain.DesiredOn, Playback: "Speakers"})
	require.NoError(t, err)
	assert.True(t, state.Enabled)
	assert.Equal(t, "spk-1", state.RouteTarget)

	state, err = uc.Apply(ApplyRequest{Microphone: "USB Microphone", Desired: domain.DesiredOff})
	require.NoError(t, err)
	assert.False(t, state.Enabled)
	assert.Empty(t, state.RouteTarget)

	// The prior route was cleared on the device with an explicit empty value,
	// not left behind.
	dev := sys.Device("mic-1")
	assert.Equal(t, domain.KindBool, dev.Props[domain.KeyListenEnabled].Kind)
	assert.False(t, dev.Props[domain.KeyListenEnabled].Bool)
	assert.Equal(t, domain.KindEmpty, dev.Props[domain.KeyListenRoute].Kind)
}

func TestToggleTwiceRestoresState(t *testing.T) {
	sys := newTestSystem()
	sys.Device("mic-1").Props = map[domain.PropertyKey]domain.PropertyValue{
		domain.KeyListenEnabled: domain.EncodeEnabled(true),
	}
	uc := newTestUseCase(t, sys)

	state, err := uc.Apply(ApplyRequest{Microphone: "USB Microphone", Desired: domain.DesiredToggle})
	require.NoError(t, err)
	assert.False(t, state.Enabled)

	state, err = uc.Apply(ApplyRequest{Microphone: "USB Microphone", Desired: domain.DesiredToggle})
	require.NoError(t, err)
	assert.True(t, state.Enabled)
}

func TestToggleWithUnknownPriorTurnsOn(t *testing.T) {
	sys := newTestSystem()
	uc := newTestUseCase(t, sys)

	// Never-configured device: the property read fails, which is "unknown",
	// and the first toggle turns listening on.
	state, err := uc.Apply(ApplyRequest{Microphone: "USB Microphone", Desired: domain.DesiredToggle})
	require.NoError(t, err)
	assert.True(t, state.Enabled)
}

func TestApplyUnknownMicrophone(t *testing.T) {
	sys := newTestSystem()
	uc := newTestUseCase(t, sys)

	_, err := uc.Apply(ApplyRequest{Microphone: "NonexistentMic", Desired: domain.DesiredOn})

	var nf *domain.DeviceNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "NonexistentMic", nf.Name)
	assert.Equal(t, domain.DirectionInput, nf.Direction)

	// No device was touched.
	for _, dev := range sys.Devices {
		assert.Empty(t, dev.Props, "device %s must be untouched", dev.ID)
	}
}

func TestApplyUnknownPlaybackFailsBeforeAnyWrite(t *testing.T) {
	sys := newTestSystem()
	uc := newTestUseCase(t, sys)

	_, err := uc.Apply(ApplyRequest{Microphone: "USB Microphone", Desired: domain.DesiredOn, Playback: "NonexistentSpeaker"})

	var nf *domain.DeviceNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "NonexistentSpeaker", nf.Name)
	assert.Equal(t, domain.DirectionOutput, nf.Direction)

	// The microphone resolved, but the route failure precedes the write phase.
	assert.Empty(t, sys.Device("mic-1").Props)
}

func TestPartialWrite(t *testing.T) {
	sys := newTestSystem()
	oldRoute := domain.EncodeRouteTarget("spk-2")
	sys.Device("mic-1").Props = map[domain.PropertyKey]domain.PropertyValue{
		domain.KeyListenEnabled: domain.EncodeEnabled(false),
		domain.KeyListenRoute:   oldRoute,
	}
	sys.SetErr = map[domain.PropertyKey]error{
		domain.KeyListenRoute: errors.New("simulated io fault"),
	}
	uc := newTestUseCase(t, sys)

	_, err := uc.Apply(ApplyRequest{Microphone: "USB Microphone", Desired: domain.DesiredOn, Playback: "Speakers"})

	var pw *domain.PartialWriteError
	require.ErrorAs(t, err, &pw)
	assert.True(t, pw.Enabled)

	var io *domain.PropertyIOError
	assert.ErrorAs(t, err, &io)
	assert.Equal(t, domain.KeyListenRoute, io.Key)

	// Mixed on-device state: the checkbox holds the new value, the route
	// still holds the old one.
	dev := sys.Device("mic-1")
	assert.True(t, dev.Props[domain.KeyListenEnabled].Bool)
	assert.Equal(t, oldRoute, dev.Props[domain.KeyListenRoute])
}

func TestEnabledWriteFailureIsNotPartial(t *testing.T) {
	sys := newTestSystem()
	sys.SetErr = map[domain.PropertyKey]error{
		domain.KeyListenEnabled: errors.New("simulated io fault"),
	}
	uc := newTestUseCase(t, sys)

	_, err := uc.Apply(ApplyRequest{Microphone: "USB Microphone", Desired: domain.DesiredOn})

	var pw *domain.PartialWriteError
	assert.False(t, errors.As(err, &pw), "first write failing leaves nothing partially written")

	var io *domain.PropertyIOError
	require.ErrorAs(t, err, &io)
	assert.Equal(t, domain.KeyListenEnabled, io.Key)

	// The handle is still released on the failure path.
	assert.Equal(t, 1, sys.Releases)
}

func TestCommitFailureDoesNotFailApply(t *testing.T) {
	sys := newTestSystem()
	sys.CommitErr = errors.New("simulated commit fault")
	uc := newTestUseCase(t, sys)

	state, err := uc.Apply(ApplyRequest{Microphone: "USB Microphone", Desired: domain.DesiredOn})
	require.NoError(t, err)
	assert.True(t, state.Enabled)
}

func TestApplyCommitsOnSuccess(t *testing.T) {
	sys := newTestSystem()
	uc := newTestUseCase(t, sys)

	_, err := uc.Apply(ApplyRequest{Microphone: "USB Microphone", Desired: domain.DesiredOn})
	require.NoError(t, err)
	assert.Equal(t, 1, sys.Commits)
	assert.Equal(t, 1, sys.Releases)
}

func TestEnumerationFailure(t *testing.T) {
	sys := newTestSystem()
	sys.EnumerateErr = errors.New("subsystem unreachable")
	uc := newTestUseCase(t, sys)

	_, err := uc.ListDevices()
	var enum *domain.EnumerationError
	require.ErrorAs(t, err, &enum)

	_, err = uc.Apply(ApplyRequest{Microphone: "USB Microphone", Desired: domain.DesiredOn})
	require.ErrorAs(t, err, &enum)
}

func TestStoreOpenFailure(t *testing.T) {
	sys := newTestSystem()
	sys.OpenErr = errors.New("device vanished")
	uc := newTestUseCase(t, sys)

	_, err := uc.Apply(ApplyRequest{Microphone: "USB Microphone", Desired: domain.DesiredOn})

	var open *domain.StoreOpenError
	require.ErrorAs(t, err, &open)
	assert.Equal(t, "mic-1", open.DeviceID)
}

func TestNewListenUseCaseRequiresSystem(t *testing.T) {
	_, err := NewListenUseCase(nil)
	assert.Error(t, err)
}
