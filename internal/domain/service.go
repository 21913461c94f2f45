package domain

// ResolveByName maps a display name to a device identifier. Inputs are
// scanned before outputs, first exact match wins; duplicate names resolve to
// enumeration order. Matching is case-sensitive with no fuzziness.
// This is a pure function with no side effects.
func ResolveByName(inputs, outputs []DeviceDescriptor, name string) (string, bool) {
	for _, d := range inputs {
		if d.Name == name {
			return d.ID, true
		}
	}
	for _, d := range outputs {
		if d.Name == name {
			return d.ID, true
		}
	}
	return "", false
}

// TargetEnabled computes the checkbox value to write. current is nil when the
// device was never configured; a toggle from that state turns listening on.
func TargetEnabled(current *bool, desired DesiredState) bool {
	switch desired {
	case DesiredOn:
		return true
	case DesiredOff:
		return false
	default:
		return current == nil || !*current
	}
}

// PlanListenWrite returns the property writes for one apply, in the order
// they must land: checkbox first, then route target. routeID empty means
// clear the route to the default playback device.
func PlanListenWrite(enabled bool, routeID string) []PropertyWrite {
	return []PropertyWrite{
		{Key: KeyListenEnabled, Value: EncodeEnabled(enabled)},
		{Key: KeyListenRoute, Value: EncodeRouteTarget(routeID)},
	}
}
