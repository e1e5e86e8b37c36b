// Package tank implements an open-loop base made of a left and a right group of motors.
package tank

import (
	"context"
	"fmt"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/ironcladrobotics/puncherbot/components/base"
	"github.com/ironcladrobotics/puncherbot/components/motor"
	"github.com/ironcladrobotics/puncherbot/resource"
	"github.com/ironcladrobotics/puncherbot/utils"
)

const model = resource.Model("tank")

// Config is how you configure a tank base.
type Config struct {
	Left  []string `json:"left"`
	Right []string `json:"right"`
}

// Validate ensures all parts of the config are valid.
func (conf *Config) Validate(path string) ([]string, error) {
	var deps []string

	if len(conf.Left) == 0 {
		return nil, resource.NewConfigValidationFieldRequiredError(path, "left")
	}
	if len(conf.Right) == 0 {
		return nil, resource.NewConfigValidationFieldRequiredError(path, "right")
	}

	if len(conf.Left) != len(conf.Right) {
		return nil, resource.NewConfigValidationError(path,
			fmt.Errorf("left and right need to have the same number of motors, not %d vs %d",
				len(conf.Left), len(conf.Right)))
	}

	deps = append(deps, conf.Left...)
	deps = append(deps, conf.Right...)

	return deps, nil
}

func init() {
	resource.RegisterComponent(
		base.API,
		model,
		resource.Registration[base.Base, *Config]{Constructor: createTankBase},
	)
}

var _ base.Chassis = &tankBase{}

type tankBase struct {
	resource.Named

	left      []motor.Motor
	right     []motor.Motor
	allMotors []motor.Motor
	logger    golog.Logger
}

// createTankBase returns a new tank base defined by the given config.
func createTankBase(
	ctx context.Context,
	deps resource.Dependencies,
	conf resource.Config,
	logger golog.Logger,
) (base.Base, error) {
	newConf, err := resource.NativeConfig[*Config](conf)
	if err != nil {
		return nil, err
	}

	tb := &tankBase{Named: conf.ResourceName().AsNamed(), logger: logger}

	for _, name := range newConf.Left {
		m, err := motor.FromDependencies(deps, name)
		if err != nil {
			return nil, errors.Wrapf(err, "no left motor named (%s)", name)
		}
		tb.left = append(tb.left, m)
	}

	for _, name := range newConf.Right {
		m, err := motor.FromDependencies(deps, name)
		if err != nil {
			return nil, errors.Wrapf(err, "no right motor named (%s)", name)
		}
		tb.right = append(tb.right, m)
	}

	tb.allMotors = append(tb.allMotors, tb.left...)
	tb.allMotors = append(tb.allMotors, tb.right...)

	return tb, nil
}

// Tank sends the side powers to every motor, stopping the base if any write fails.
func (tb *tankBase) Tank(ctx context.Context, left, right float64) error {
	left = utils.Clamp(left, -1, 1)
	right = utils.Clamp(right, -1, 1)

	var err error
	for _, m := range tb.left {
		err = multierr.Combine(err, m.SetPower(ctx, left))
	}

	for _, m := range tb.right {
		err = multierr.Combine(err, m.SetPower(ctx, right))
	}

	if err != nil {
		return multierr.Combine(err, tb.Stop(ctx))
	}

	return nil
}

func (tb *tankBase) Arcade(ctx context.Context, throttle, turn float64) error {
	left, right := base.ArcadeToTank(throttle, turn)
	return tb.Tank(ctx, left, right)
}

// Stop commands the base to stop moving.
func (tb *tankBase) Stop(ctx context.Context) error {
	var err error
	for _, m := range tb.allMotors {
		err = multierr.Combine(err, m.Stop(ctx))
	}
	return err
}

func (tb *tankBase) SetBrakeMode(ctx context.Context, mode motor.BrakeMode) error {
	var err error
	for _, m := range tb.allMotors {
		err = multierr.Combine(err, m.SetBrakeMode(ctx, mode))
	}
	return err
}

// Drive is unsupported; a tank base has no encoders to close the loop on.
func (tb *tankBase) Drive(ctx context.Context, distanceMm, speed float64) error {
	return base.NewMotionUnsupportedError(tb.Name().Name)
}

// Turn is unsupported.
func (tb *tankBase) Turn(ctx context.Context, angleDeg, speed float64) error {
	return base.NewMotionUnsupportedError(tb.Name().Name)
}

// Swing is unsupported.
func (tb *tankBase) Swing(ctx context.Context, side base.Side, angleDeg, speed float64) error {
	return base.NewMotionUnsupportedError(tb.Name().Name)
}

// WaitDrive returns immediately since no motion is ever running.
func (tb *tankBase) WaitDrive(ctx context.Context) error {
	return nil
}

func (tb *tankBase) SetMaxSpeed(speed float64) {}

// Close is called to close the instance of the base.
func (tb *tankBase) Close(ctx context.Context) error {
	return tb.Stop(ctx)
}
