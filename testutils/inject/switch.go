package inject

import (
	"context"

	"github.com/ironcladrobotics/puncherbot/components/limitswitch"
)

// Switch is an injected limit switch.
type Switch struct {
	limitswitch.Switch
	PressedFunc func(ctx context.Context) (bool, error)
}

// Pressed calls the injected Pressed or the real version.
func (s *Switch) Pressed(ctx context.Context) (bool, error) {
	if s.PressedFunc == nil {
		return s.Switch.Pressed(ctx)
	}
	return s.PressedFunc(ctx)
}
