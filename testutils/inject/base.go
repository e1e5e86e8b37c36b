package inject

import (
	"context"

	"github.com/ironcladrobotics/puncherbot/components/base"
	"github.com/ironcladrobotics/puncherbot/components/motor"
)

// Base is an injected base.
type Base struct {
	base.Base
	TankFunc         func(ctx context.Context, left, right float64) error
	ArcadeFunc       func(ctx context.Context, throttle, turn float64) error
	StopFunc         func(ctx context.Context) error
	SetBrakeModeFunc func(ctx context.Context, mode motor.BrakeMode) error
}

// Tank calls the injected Tank or the real version.
func (b *Base) Tank(ctx context.Context, left, right float64) error {
	if b.TankFunc == nil {
		return b.Base.Tank(ctx, left, right)
	}
	return b.TankFunc(ctx, left, right)
}

// Arcade calls the injected Arcade or the real version.
func (b *Base) Arcade(ctx context.Context, throttle, turn float64) error {
	if b.ArcadeFunc == nil {
		return b.Base.Arcade(ctx, throttle, turn)
	}
	return b.ArcadeFunc(ctx, throttle, turn)
}

// Stop calls the injected Stop or the real version.
func (b *Base) Stop(ctx context.Context) error {
	if b.StopFunc == nil {
		return b.Base.Stop(ctx)
	}
	return b.StopFunc(ctx)
}

// SetBrakeMode calls the injected SetBrakeMode or the real version.
func (b *Base) SetBrakeMode(ctx context.Context, mode motor.BrakeMode) error {
	if b.SetBrakeModeFunc == nil {
		return b.Base.SetBrakeMode(ctx, mode)
	}
	return b.SetBrakeModeFunc(ctx, mode)
}
