package teleop

import (
	"context"
	"testing"

	"github.com/edaniels/golog"
	"go.viam.com/test"

	"github.com/ironcladrobotics/puncherbot/components/motor"
	fakemotor "github.com/ironcladrobotics/puncherbot/components/motor/fake"
	"github.com/ironcladrobotics/puncherbot/robot"
)

func TestIntake(t *testing.T) {
	ctx := context.Background()
	logger := golog.NewTestLogger(t)
	left := fakemotor.NewMotor(motor.Named("left"), logger)
	right := fakemotor.NewMotor(motor.Named("right"), logger)
	in := Intake{Left: left, Right: right}

	test.That(t, in.Spin(ctx, robot.IntakeForward), test.ShouldBeNil)
	test.That(t, left.PowerPct(), test.ShouldEqual, 1.0)
	test.That(t, right.PowerPct(), test.ShouldEqual, -1.0)

	test.That(t, in.Spin(ctx, robot.IntakeBackward), test.ShouldBeNil)
	test.That(t, left.PowerPct(), test.ShouldEqual, -1.0)
	test.That(t, right.PowerPct(), test.ShouldEqual, 1.0)

	test.That(t, in.Spin(ctx, robot.IntakeOff), test.ShouldBeNil)
	test.That(t, left.PowerPct(), test.ShouldEqual, 0.0)
	test.That(t, right.PowerPct(), test.ShouldEqual, 0.0)

	// both sides run at -raw
	test.That(t, in.SetSpeed(ctx, 127), test.ShouldBeNil)
	test.That(t, left.PowerPct(), test.ShouldEqual, -1.0)
	test.That(t, right.PowerPct(), test.ShouldEqual, -1.0)
	test.That(t, in.SetSpeed(ctx, -500), test.ShouldBeNil)
	test.That(t, left.PowerPct(), test.ShouldEqual, 1.0)

	test.That(t, in.SetBrakeMode(ctx, motor.BrakeModeCoast), test.ShouldBeNil)
	test.That(t, right.BrakeMode(), test.ShouldEqual, motor.BrakeModeCoast)
	test.That(t, in.Stop(ctx), test.ShouldBeNil)
	test.That(t, left.PowerPct(), test.ShouldEqual, 0.0)

	// a missing side is skipped
	test.That(t, Intake{Left: left}.Spin(ctx, robot.IntakeForward), test.ShouldBeNil)
	test.That(t, Intake{}.Stop(ctx), test.ShouldBeNil)
}
