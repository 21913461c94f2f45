//go:build windows

package wasapi

import (
	"fmt"
	"runtime"
	"syscall"
	"unsafe"

	"github.com/go-ole/go-ole"
	"github.com/moutend/go-wca/pkg/wca"

	"micmon/internal/domain"
	"micmon/internal/logging"
)

// System implements domain.DeviceSystem against the live Core Audio
// subsystem. New initializes COM for the calling thread; Close must be
// called once the system is no longer needed.
type System struct{}

func New() (*System, error) {
	if err := ole.CoInitializeEx(0, ole.COINIT_APARTMENTTHREADED); err != nil {
		return nil, fmt.Errorf("initialize COM: %w", err)
	}
	return &System{}, nil
}

func (s *System) Close() error {
	ole.CoUninitialize()
	return nil
}

func (s *System) ListActiveEndpoints(d domain.Direction) ([]domain.DeviceDescriptor, error) {
	mmde, err := newEnumerator()
	if err != nil {
		return nil, &domain.EnumerationError{Direction: d, Cause: err}
	}
	defer mmde.Release()

	flow := uint32(wca.ECapture)
	if d == domain.DirectionOutput {
		flow = uint32(wca.ERender)
	}

	var mdc *wca.IMMDeviceCollection
	if err := mmde.EnumAudioEndpoints(flow, wca.DEVICE_STATE_ACTIVE, &mdc); err != nil {
		return nil, &domain.EnumerationError{Direction: d, Cause: fmt.Errorf("enum audio endpoints: %w", err)}
	}
	defer mdc.Release()

	var count uint32
	if err := mdc.GetCount(&count); err != nil {
		return nil, &domain.EnumerationError{Direction: d, Cause: fmt.Errorf("get endpoint count: %w", err)}
	}

	var out []domain.DeviceDescriptor
	for i := uint32(0); i < count; i++ {
		var mmd *wca.IMMDevice
		if err := mdc.Item(i, &mmd); err != nil {
			continue
		}
		id, name, err := deviceIdentity(mmd)
		mmd.Release()
		if err != nil || name == "" {
			// Ghost endpoint mid-teardown.
			logging.Tracef("skipping %s endpoint %d without a friendly name: %v", d, i, err)
			continue
		}
		out = append(out, domain.DeviceDescriptor{ID: id, Name: name, Direction: d})
	}
	return out, nil
}

func (s *System) OpenPropertyStore(id string) (domain.PropertyStore, error) {
	mmde, err := newEnumerator()
	if err != nil {
		return nil, err
	}
	defer mmde.Release()

	mmd, err := getDevice(mmde, id)
	if err != nil {
		return nil, fmt.Errorf("get device: %w", err)
	}

	var ps *wca.IPropertyStore
	if err := mmd.OpenPropertyStore(wca.STGM_READ_WRITE, &ps); err != nil {
		mmd.Release()
		return nil, fmt.Errorf("open writable property store: %w", err)
	}
	return &propertyStore{device: mmd, store: ps}, nil
}

func newEnumerator() (*wca.IMMDeviceEnumerator, error) {
	var mmde *wca.IMMDeviceEnumerator
	if err := wca.CoCreateInstance(wca.CLSID_MMDeviceEnumerator, 0, wca.CLSCTX_ALL, wca.IID_IMMDeviceEnumerator, &mmde); err != nil {
		return nil, fmt.Errorf("create device enumerator: %w", err)
	}
	return mmde, nil
}

func deviceIdentity(mmd *wca.IMMDevice) (id, name string, err error) {
	if err := mmd.GetId(&id); err != nil {
		return "", "", fmt.Errorf("get device id: %w", err)
	}
	var ps *wca.IPropertyStore
	if err := mmd.OpenPropertyStore(wca.STGM_READ, &ps); err != nil {
		return id, "", fmt.Errorf("open read store: %w", err)
	}
	defer ps.Release()

	var pv wca.PROPVARIANT
	if err := ps.GetValue(&wca.PKEY_Device_FriendlyName, &pv); err != nil {
		return id, "", fmt.Errorf("get friendly name: %w", err)
	}
	return id, pv.String(), nil
}

// go-wca stubs IMMDeviceEnumerator.GetDevice, IPropertyStore.SetValue and
// IPropertyStore.Commit with E_NOTIMPL, so those three slots are invoked
// through the COM vtables the library exposes.

func getDevice(mmde *wca.IMMDeviceEnumerator, id string) (*wca.IMMDevice, error) {
	wid, err := syscall.UTF16PtrFromString(id)
	if err != nil {
		return nil, fmt.Errorf("encode device id: %w", err)
	}
	var mmd *wca.IMMDevice
	hr, _, _ := syscall.SyscallN(
		mmde.VTable().GetDevice,
		uintptr(unsafe.Pointer(mmde)),
		uintptr(unsafe.Pointer(wid)),
		uintptr(unsafe.Pointer(&mmd)),
	)
	if hr != 0 {
		return nil, ole.NewError(hr)
	}
	return mmd, nil
}

func setValue(ps *wca.IPropertyStore, key *wca.PROPERTYKEY, pv *wca.PROPVARIANT) error {
	hr, _, _ := syscall.SyscallN(
		ps.VTable().SetValue,
		uintptr(unsafe.Pointer(ps)),
		uintptr(unsafe.Pointer(key)),
		uintptr(unsafe.Pointer(pv)),
	)
	if hr != 0 {
		return ole.NewError(hr)
	}
	return nil
}

func commit(ps *wca.IPropertyStore) error {
	hr, _, _ := syscall.SyscallN(
		ps.VTable().Commit,
		uintptr(unsafe.Pointer(ps)),
	)
	if hr != 0 {
		return ole.NewError(hr)
	}
	return nil
}

// propertyStore wraps one device's writable IPropertyStore. The pinned
// buffers back VT_LPWSTR PROPVARIANTs and must stay reachable until the
// store is released.
type propertyStore struct {
	device *wca.IMMDevice
	store  *wca.IPropertyStore
	pinned []*uint16
}

func (p *propertyStore) Get(key domain.PropertyKey) (domain.PropertyValue, error) {
	var pv wca.PROPVARIANT
	if err := p.store.GetValue(propertyKey(key), &pv); err != nil {
		return domain.PropertyValue{}, fmt.Errorf("get value: %w", err)
	}
	return fromPropVariant(&pv), nil
}

func (p *propertyStore) Set(key domain.PropertyKey, value domain.PropertyValue) error {
	pv, err := p.toPropVariant(value)
	if err != nil {
		return err
	}
	if err := setValue(p.store, propertyKey(key), pv); err != nil {
		return fmt.Errorf("set value: %w", err)
	}
	return nil
}

func (p *propertyStore) Commit() error {
	return commit(p.store)
}

func (p *propertyStore) Release() {
	if p.store != nil {
		p.store.Release()
		p.store = nil
	}
	if p.device != nil {
		p.device.Release()
		p.device = nil
	}
	runtime.KeepAlive(p.pinned)
	p.pinned = nil
}

func propertyKey(key domain.PropertyKey) *wca.PROPERTYKEY {
	return &wca.PROPERTYKEY{FmtID: *ole.NewGUID(key.FormatID), PID: key.PID}
}

func fromPropVariant(pv *wca.PROPVARIANT) domain.PropertyValue {
	switch pv.VT {
	case ole.VT_BOOL:
		// boolVal is a VARIANT_BOOL in the low 16 bits of the union.
		return domain.PropertyValue{Kind: domain.KindBool, Bool: pv.Val&0xFFFF != 0}
	case ole.VT_LPWSTR:
		return domain.PropertyValue{Kind: domain.KindString, Str: pv.String()}
	default:
		return domain.PropertyValue{Kind: domain.KindEmpty}
	}
}

func (p *propertyStore) toPropVariant(v domain.PropertyValue) (*wca.PROPVARIANT, error) {
	var pv wca.PROPVARIANT
	switch v.Kind {
	case domain.KindBool:
		pv.VT = ole.VT_BOOL
		if v.Bool {
			pv.Val = 0xFFFF // VARIANT_TRUE
		}
	case domain.KindString:
		ptr, err := syscall.UTF16PtrFromString(v.Str)
		if err != nil {
			return nil, fmt.Errorf("encode utf16: %w", err)
		}
		p.pinned = append(p.pinned, ptr)
		pv.VT = ole.VT_LPWSTR
		pv.Val = int64(uintptr(unsafe.Pointer(ptr)))
	case domain.KindEmpty:
		pv.VT = ole.VT_EMPTY
	}
	return &pv, nil
}
