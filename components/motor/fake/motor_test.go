package fake

import (
	"context"
	"testing"

	"github.com/edaniels/golog"
	"go.viam.com/test"

	"github.com/ironcladrobotics/puncherbot/components/motor"
)

func TestMotor(t *testing.T) {
	ctx := context.Background()
	m := NewMotor(motor.Named("m1"), golog.NewTestLogger(t))

	on, powerPct, err := m.IsPowered(ctx)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, on, test.ShouldBeFalse)
	test.That(t, powerPct, test.ShouldEqual, 0)

	test.That(t, m.SetPower(ctx, -1), test.ShouldBeNil)
	on, powerPct, err = m.IsPowered(ctx)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, on, test.ShouldBeTrue)
	test.That(t, powerPct, test.ShouldEqual, -1)

	test.That(t, m.SetPower(ctx, 2), test.ShouldNotBeNil)
	test.That(t, m.PowerPct(), test.ShouldEqual, -1)

	test.That(t, m.Stop(ctx), test.ShouldBeNil)
	test.That(t, m.History(), test.ShouldResemble, []float64{-1, 0})
	m.ResetHistory()
	test.That(t, m.History(), test.ShouldBeEmpty)

	test.That(t, m.SetBrakeMode(ctx, motor.BrakeModeHold), test.ShouldBeNil)
	test.That(t, m.BrakeMode(), test.ShouldEqual, motor.BrakeModeHold)
	test.That(t, m.Close(ctx), test.ShouldBeNil)
}
