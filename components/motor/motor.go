// Package motor defines the signed-power motors that drive the puncher, intake and drivetrain.
package motor

import (
	"context"
	"math"

	"github.com/ironcladrobotics/puncherbot/resource"
	"github.com/ironcladrobotics/puncherbot/utils"
)

// API is the resource API for motors.
const API = resource.API("motor")

// RawMax is the magnitude of full power on the -127..127 controller scale.
const RawMax = 127

// BrakeMode is what a motor does when it is stopped.
type BrakeMode int

// The brake modes.
const (
	BrakeModeCoast BrakeMode = iota
	BrakeModeBrake
	BrakeModeHold
)

func (b BrakeMode) String() string {
	switch b {
	case BrakeModeCoast:
		return "coast"
	case BrakeModeBrake:
		return "brake"
	case BrakeModeHold:
		return "hold"
	default:
		return "unknown"
	}
}

// A Motor represents a physical motor driven by signed power.
type Motor interface {
	resource.Resource

	// SetPower sets the percentage of power the motor should employ between -1 and 1.
	// Negative power drives the motor in reverse.
	SetPower(ctx context.Context, powerPct float64) error

	// Stop turns the power to the motor off immediately, honoring the brake mode.
	Stop(ctx context.Context) error

	// SetBrakeMode sets what happens when the motor is stopped.
	SetBrakeMode(ctx context.Context, mode BrakeMode) error

	// IsPowered returns whether or not the motor is currently on, and the percent power.
	IsPowered(ctx context.Context) (bool, float64, error)
}

// Named is a helper for getting the named motor's typed resource name.
func Named(name string) resource.Name {
	return resource.NewName(API, name)
}

// FromDependencies is a helper for getting the named motor from a collection of
// dependencies.
func FromDependencies(deps resource.Dependencies, name string) (Motor, error) {
	return resource.FromDependencies[Motor](deps, Named(name))
}

// CheckPower returns an error if the power is not a number in [-1, 1].
func CheckPower(powerPct float64) error {
	if math.IsNaN(powerPct) || math.Abs(powerPct) > 1 {
		return NewPowerOutOfRangeError(powerPct)
	}
	return nil
}

// PowerFromRaw converts a raw -127..127 command into signed power, clamping out of range values.
func PowerFromRaw(raw int) float64 {
	return float64(utils.ClampInt(raw, -RawMax, RawMax)) / RawMax
}

// RawFromPower converts signed power into the nearest raw -127..127 command.
func RawFromPower(powerPct float64) int {
	return int(math.Round(utils.Clamp(powerPct, -1, 1) * RawMax))
}
