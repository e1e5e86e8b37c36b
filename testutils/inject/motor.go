package inject

import (
	"context"

	"github.com/ironcladrobotics/puncherbot/components/motor"
)

// Motor is an injected motor.
type Motor struct {
	motor.Motor
	SetPowerFunc     func(ctx context.Context, powerPct float64) error
	StopFunc         func(ctx context.Context) error
	SetBrakeModeFunc func(ctx context.Context, mode motor.BrakeMode) error
	IsPoweredFunc    func(ctx context.Context) (bool, float64, error)
}

// SetPower calls the injected SetPower or the real version.
func (m *Motor) SetPower(ctx context.Context, powerPct float64) error {
	if m.SetPowerFunc == nil {
		return m.Motor.SetPower(ctx, powerPct)
	}
	return m.SetPowerFunc(ctx, powerPct)
}

// Stop calls the injected Stop or the real version.
func (m *Motor) Stop(ctx context.Context) error {
	if m.StopFunc == nil {
		return m.Motor.Stop(ctx)
	}
	return m.StopFunc(ctx)
}

// SetBrakeMode calls the injected SetBrakeMode or the real version.
func (m *Motor) SetBrakeMode(ctx context.Context, mode motor.BrakeMode) error {
	if m.SetBrakeModeFunc == nil {
		return m.Motor.SetBrakeMode(ctx, mode)
	}
	return m.SetBrakeModeFunc(ctx, mode)
}

// IsPowered calls the injected IsPowered or the real version.
func (m *Motor) IsPowered(ctx context.Context) (bool, float64, error) {
	if m.IsPoweredFunc == nil {
		return m.Motor.IsPowered(ctx)
	}
	return m.IsPoweredFunc(ctx)
}
