package cli

import (
	"fmt"

	"github.com/gen2brain/beeep"

	"micmon/internal/domain"
	"micmon/internal/logging"
)

// notifyApplied posts a desktop notification with the final listen state.
// Best effort; a notifier failure never fails the apply.
func notifyApplied(state domain.ListenState, playbackName string) {
	status := "OFF"
	if state.Enabled {
		status = "ON"
	}
	target := playbackName
	if target == "" {
		target = "Default playback device"
	}
	msg := fmt.Sprintf("Listen to this device: %s\nPlayback through: %s", status, target)
	if err := beeep.Notify("micmon", msg, ""); err != nil {
		logging.Warnf("desktop notification failed: %v", err)
	}
}
