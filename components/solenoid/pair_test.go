package solenoid_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"

	"github.com/ironcladrobotics/puncherbot/components/solenoid"
	"github.com/ironcladrobotics/puncherbot/components/solenoid/fake"
	"github.com/ironcladrobotics/puncherbot/testutils/inject"
)

func TestPair(t *testing.T) {
	ctx := context.Background()
	left := fake.NewSolenoid(solenoid.Named("left"))
	right := fake.NewSolenoid(solenoid.Named("right"))
	pair := solenoid.Pair{Left: left, Right: right}

	test.That(t, pair.Set(ctx, true), test.ShouldBeNil)
	test.That(t, left.IsExtended(), test.ShouldBeTrue)
	test.That(t, right.IsExtended(), test.ShouldBeTrue)

	test.That(t, pair.SetLeft(ctx, false), test.ShouldBeNil)
	test.That(t, left.IsExtended(), test.ShouldBeFalse)
	test.That(t, right.IsExtended(), test.ShouldBeTrue)

	test.That(t, pair.SetRight(ctx, false), test.ShouldBeNil)
	test.That(t, right.IsExtended(), test.ShouldBeFalse)
	test.That(t, right.Writes(), test.ShouldEqual, 2)

	half := solenoid.Pair{Right: right}
	test.That(t, half.Set(ctx, true), test.ShouldBeNil)
	test.That(t, right.IsExtended(), test.ShouldBeTrue)
}

func TestPairKeepsGoingOnError(t *testing.T) {
	ctx := context.Background()
	right := fake.NewSolenoid(solenoid.Named("right"))
	stuck := &inject.Solenoid{
		Solenoid: fake.NewSolenoid(solenoid.Named("left")),
		SetFunc: func(ctx context.Context, extended bool) error {
			return errors.New("no air")
		},
	}
	pair := solenoid.Pair{Left: stuck, Right: right}

	err := pair.Set(ctx, true)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "no air")
	test.That(t, right.IsExtended(), test.ShouldBeTrue)

	extended, err := stuck.Extended(ctx)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, extended, test.ShouldBeFalse)
}
