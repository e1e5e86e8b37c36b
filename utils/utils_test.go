package utils

import (
	"context"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"go.viam.com/test"
)

func TestClamp(t *testing.T) {
	test.That(t, Clamp(1.5, -1, 1), test.ShouldEqual, 1.0)
	test.That(t, Clamp(-3, -1, 1), test.ShouldEqual, -1.0)
	test.That(t, Clamp(0.25, -1, 1), test.ShouldEqual, 0.25)
	test.That(t, ClampInt(200, -127, 127), test.ShouldEqual, 127)
	test.That(t, ClampInt(-200, -127, 127), test.ShouldEqual, -127)
}

func TestAssertType(t *testing.T) {
	v, err := AssertType[string]("hi")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, v, test.ShouldEqual, "hi")

	_, err = AssertType[string](5)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "expected string but got int")
}

func TestSelectContextOrWaitClock(t *testing.T) {
	t.Run("cancelled context returns immediately", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		test.That(t, SelectContextOrWaitClock(ctx, clock.NewMock(), time.Hour), test.ShouldBeFalse)
	})

	t.Run("mock clock elapses", func(t *testing.T) {
		mock := clock.NewMock()
		done := make(chan bool)
		go func() {
			done <- SelectContextOrWaitClock(context.Background(), mock, 250*time.Millisecond)
		}()
		// keep advancing until the waiter has registered its timer and observed it firing
		for {
			mock.Add(50 * time.Millisecond)
			select {
			case res := <-done:
				test.That(t, res, test.ShouldBeTrue)
				return
			default:
			}
		}
	})

	t.Run("real clock", func(t *testing.T) {
		test.That(t, SelectContextOrWaitClock(context.Background(), clock.New(), time.Millisecond), test.ShouldBeTrue)
	})
}
