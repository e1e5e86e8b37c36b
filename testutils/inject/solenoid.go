package inject

import (
	"context"

	"github.com/ironcladrobotics/puncherbot/components/solenoid"
)

// Solenoid is an injected solenoid.
type Solenoid struct {
	solenoid.Solenoid
	SetFunc      func(ctx context.Context, extended bool) error
	ExtendedFunc func(ctx context.Context) (bool, error)
}

// Set calls the injected Set or the real version.
func (s *Solenoid) Set(ctx context.Context, extended bool) error {
	if s.SetFunc == nil {
		return s.Solenoid.Set(ctx, extended)
	}
	return s.SetFunc(ctx, extended)
}

// Extended calls the injected Extended or the real version.
func (s *Solenoid) Extended(ctx context.Context) (bool, error) {
	if s.ExtendedFunc == nil {
		return s.Solenoid.Extended(ctx)
	}
	return s.ExtendedFunc(ctx)
}
