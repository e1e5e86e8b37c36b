package teleop

import (
	"context"

	"go.uber.org/multierr"

	"github.com/ironcladrobotics/puncherbot/components/motor"
	"github.com/ironcladrobotics/puncherbot/robot"
)

// Intake is the pair of roller motors. The sides are mounted facing each other, so spinning
// forward drives them in opposite senses. A nil side is skipped.
type Intake struct {
	Left, Right motor.Motor
}

// Spin drives the rollers at full power in the given direction. IntakeOff stops them.
func (in Intake) Spin(ctx context.Context, dir robot.IntakeDirection) error {
	switch dir {
	case robot.IntakeForward:
		return in.set(ctx, 1, -1)
	case robot.IntakeBackward:
		return in.set(ctx, -1, 1)
	default:
		return in.Stop(ctx)
	}
}

// SetSpeed drives both sides at -raw on the -127..127 scale.
func (in Intake) SetSpeed(ctx context.Context, raw int) error {
	power := motor.PowerFromRaw(-raw)
	return in.set(ctx, power, power)
}

// Stop stops both sides.
func (in Intake) Stop(ctx context.Context) error {
	var err error
	for _, m := range []motor.Motor{in.Left, in.Right} {
		if m != nil {
			err = multierr.Combine(err, m.Stop(ctx))
		}
	}
	return err
}

// SetBrakeMode sets the brake mode of both sides.
func (in Intake) SetBrakeMode(ctx context.Context, mode motor.BrakeMode) error {
	var err error
	for _, m := range []motor.Motor{in.Left, in.Right} {
		if m != nil {
			err = multierr.Combine(err, m.SetBrakeMode(ctx, mode))
		}
	}
	return err
}

func (in Intake) set(ctx context.Context, left, right float64) error {
	var err error
	if in.Left != nil {
		err = multierr.Combine(err, in.Left.SetPower(ctx, left))
	}
	if in.Right != nil {
		err = multierr.Combine(err, in.Right.SetPower(ctx, right))
	}
	return err
}
