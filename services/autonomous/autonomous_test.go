package autonomous

import (
	"context"
	"strings"
	"testing"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"go.viam.com/test"

	"github.com/ironcladrobotics/puncherbot/components/base"
	fakebase "github.com/ironcladrobotics/puncherbot/components/base/fake"
	"github.com/ironcladrobotics/puncherbot/components/input"
	fakeinput "github.com/ironcladrobotics/puncherbot/components/input/fake"
	"github.com/ironcladrobotics/puncherbot/components/motor"
)

func TestSelector(t *testing.T) {
	ctx := context.Background()
	s := NewSelector(DefaultRoutines()...)
	test.That(t, s.Names(), test.ShouldResemble, []string{
		"Skills", "Left Side", "Win Point", "Right Side", "Skills Safe", "Nothing",
	})

	r, ok := s.Selected()
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, r.Name, test.ShouldEqual, "Skills")

	test.That(t, s.Next().Name, test.ShouldEqual, "Left Side")
	test.That(t, s.Prev().Name, test.ShouldEqual, "Skills")
	test.That(t, s.Prev().Name, test.ShouldEqual, "Nothing")
	test.That(t, s.Next().Name, test.ShouldEqual, "Skills")

	test.That(t, s.Select("Win Point"), test.ShouldBeNil)
	r, _ = s.Selected()
	test.That(t, r.Name, test.ShouldEqual, "Win Point")
	test.That(t, s.Select("Backflip"), test.ShouldNotBeNil)
	r, _ = s.Selected()
	test.That(t, r.Name, test.ShouldEqual, "Win Point")

	for _, name := range s.Names() {
		test.That(t, s.Select(name), test.ShouldBeNil)
		test.That(t, s.Run(ctx), test.ShouldBeNil)
	}

	pad := fakeinput.NewController(input.Named("pad"))
	test.That(t, s.Show(ctx, pad), test.ShouldBeNil)
	test.That(t, pad.Text(1), test.ShouldEqual, "Auton: Nothing")

	menu := s.String()
	test.That(t, menu, test.ShouldContainSubstring, "Skills Safe")
	test.That(t, menu, test.ShouldContainSubstring, "roller, turn, go")
	test.That(t, strings.Count(menu, "*"), test.ShouldEqual, 1)
}

func TestEmptySelector(t *testing.T) {
	ctx := context.Background()
	s := NewSelector()
	_, ok := s.Selected()
	test.That(t, ok, test.ShouldBeFalse)
	test.That(t, s.Next(), test.ShouldResemble, Routine{})
	test.That(t, s.Run(ctx), test.ShouldNotBeNil)

	pad := fakeinput.NewController(input.Named("pad"))
	test.That(t, s.Show(ctx, pad), test.ShouldBeNil)
	test.That(t, pad.Text(1), test.ShouldEqual, "no autonomous")
}

func TestRunner(t *testing.T) {
	ctx := context.Background()
	logger := golog.NewTestLogger(t)
	b := fakebase.NewBase(base.Named("drive"), logger)
	defer func() {
		test.That(t, b.Close(ctx), test.ShouldBeNil)
	}()
	test.That(t, b.Tank(ctx, 1, 1), test.ShouldBeNil)
	test.That(t, b.SetBrakeMode(ctx, motor.BrakeModeHold), test.ShouldBeNil)

	var ran []string
	s := NewSelector()
	s.Add(Routine{Name: "square", Run: func(ctx context.Context) error {
		left, right := b.Powers()
		test.That(t, left, test.ShouldEqual, 0)
		test.That(t, right, test.ShouldEqual, 0)
		ran = append(ran, "square")
		return nil
	}})
	s.Add(Routine{Name: "crash", Run: func(ctx context.Context) error {
		return errors.New("hit the wall")
	}})

	r := &Runner{Selector: s, Base: b, Logger: logger}
	test.That(t, r.Run(ctx), test.ShouldBeNil)
	test.That(t, ran, test.ShouldResemble, []string{"square"})
	test.That(t, b.BrakeMode(), test.ShouldEqual, motor.BrakeModeCoast)

	s.Next()
	err := r.Run(ctx)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "crash")
	test.That(t, err.Error(), test.ShouldContainSubstring, "hit the wall")

	r = &Runner{Selector: s}
	test.That(t, r.Run(ctx), test.ShouldNotBeNil)
}
