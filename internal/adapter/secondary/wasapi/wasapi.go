// Package wasapi implements the DeviceSystem port over the Windows Core
// Audio APIs (MMDevice enumeration and the per-endpoint property store).
package wasapi

import "errors"

// ErrUnsupported is returned on platforms without the Windows Core Audio
// subsystem.
var ErrUnsupported = errors.New("the listen property store requires windows")
