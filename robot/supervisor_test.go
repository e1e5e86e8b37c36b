package robot

import (
	"context"
	"sync"
	"testing"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"go.uber.org/atomic"
	"go.viam.com/test"
	"go.viam.com/utils/testutils"

	"github.com/ironcladrobotics/puncherbot/operation"
)

type fakeTask struct {
	mu     sync.Mutex
	calls  []string
	closed bool
}

func (ft *fakeTask) record(call string) {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	ft.calls = append(ft.calls, call)
}

func (ft *fakeTask) Start(ctx context.Context) { ft.record("start") }
func (ft *fakeTask) Suspend()                  { ft.record("suspend") }
func (ft *fakeTask) Resume()                   { ft.record("resume") }

func (ft *fakeTask) Close(ctx context.Context) error {
	ft.record("close")
	return nil
}

func (ft *fakeTask) Calls() []string {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	return append([]string(nil), ft.calls...)
}

// blockingRunner runs until its context is done.
type blockingRunner struct {
	running atomic.Int32
	runs    atomic.Int32
}

func (br *blockingRunner) Run(ctx context.Context) error {
	br.runs.Inc()
	br.running.Inc()
	defer br.running.Dec()
	<-ctx.Done()
	return ctx.Err()
}

func TestParseMode(t *testing.T) {
	for _, mode := range []Mode{ModeDisabled, ModeAutonomous, ModeDriver} {
		got, err := ParseMode(string(mode))
		test.That(t, err, test.ShouldBeNil)
		test.That(t, got, test.ShouldEqual, mode)
	}
	_, err := ParseMode("teleop")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestSupervisorModes(t *testing.T) {
	ctx := context.Background()
	logger := golog.NewTestLogger(t)
	task := &fakeTask{}
	auton := &blockingRunner{}
	driver := &blockingRunner{}

	var inits atomic.Int32
	s := NewSupervisor(SupervisorConfig{
		Puncher:    task,
		Autonomous: auton,
		Driver:     driver,
		Initializers: []func(context.Context) error{
			func(context.Context) error { inits.Inc(); return nil },
			func(context.Context) error { inits.Inc(); return nil },
		},
	}, logger)

	test.That(t, s.Enter(ctx, ModeDriver), test.ShouldNotBeNil)

	test.That(t, s.Initialize(ctx), test.ShouldBeNil)
	test.That(t, s.Initialize(ctx), test.ShouldBeNil)
	test.That(t, inits.Load(), test.ShouldEqual, 2)
	test.That(t, s.Mode(), test.ShouldEqual, ModeDisabled)
	test.That(t, task.Calls(), test.ShouldResemble, []string{"start", "suspend"})

	test.That(t, s.Enter(ctx, ModeAutonomous), test.ShouldBeNil)
	test.That(t, s.Mode(), test.ShouldEqual, ModeAutonomous)
	testutils.WaitForAssertion(t, func(tb testing.TB) {
		tb.Helper()
		test.That(tb, auton.running.Load(), test.ShouldEqual, 1)
	})
	testutils.WaitForAssertion(t, func(tb testing.TB) {
		tb.Helper()
		var modeOps int
		for _, op := range operation.CurrentOps() {
			if op.HasLabel(modeLabel) {
				modeOps++
			}
		}
		test.That(tb, modeOps, test.ShouldEqual, 1)
	})

	// entering a mode waits for the previous one to return
	test.That(t, s.Enter(ctx, ModeDriver), test.ShouldBeNil)
	test.That(t, auton.running.Load(), test.ShouldEqual, 0)
	testutils.WaitForAssertion(t, func(tb testing.TB) {
		tb.Helper()
		test.That(tb, driver.running.Load(), test.ShouldEqual, 1)
	})

	test.That(t, s.Enter(ctx, ModeDisabled), test.ShouldBeNil)
	test.That(t, driver.running.Load(), test.ShouldEqual, 0)
	<-s.Done()

	test.That(t, s.Enter(ctx, Mode("bogus")), test.ShouldNotBeNil)
	test.That(t, s.Mode(), test.ShouldEqual, ModeDisabled)

	test.That(t, s.Close(ctx), test.ShouldBeNil)
	test.That(t, s.Close(ctx), test.ShouldBeNil)
	test.That(t, task.Calls(), test.ShouldResemble, []string{
		"start", "suspend",
		"resume",
		"resume",
		"suspend",
		"close",
	})
	test.That(t, auton.runs.Load(), test.ShouldEqual, 1)
	test.That(t, driver.runs.Load(), test.ShouldEqual, 1)
	test.That(t, s.Enter(ctx, ModeDriver), test.ShouldNotBeNil)
}

func TestSupervisorRunnerFinishes(t *testing.T) {
	ctx := context.Background()
	logger := golog.NewTestLogger(t)
	var ran atomic.Bool
	s := NewSupervisor(SupervisorConfig{
		Autonomous: RunnerFunc(func(ctx context.Context) error {
			ran.Store(true)
			return errors.New("routine failed")
		}),
	}, logger)
	test.That(t, s.Initialize(ctx), test.ShouldBeNil)
	test.That(t, s.Enter(ctx, ModeAutonomous), test.ShouldBeNil)
	<-s.Done()
	test.That(t, ran.Load(), test.ShouldBeTrue)
	test.That(t, s.Mode(), test.ShouldEqual, ModeAutonomous)
	test.That(t, s.Close(ctx), test.ShouldBeNil)
}

func TestSupervisorInitializeError(t *testing.T) {
	ctx := context.Background()
	logger := golog.NewTestLogger(t)
	task := &fakeTask{}
	s := NewSupervisor(SupervisorConfig{
		Puncher: task,
		Initializers: []func(context.Context) error{
			func(context.Context) error { return errors.New("no brakes") },
		},
	}, logger)
	err := s.Initialize(ctx)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "no brakes")
	test.That(t, task.Calls(), test.ShouldBeEmpty)
	test.That(t, s.Close(ctx), test.ShouldBeNil)
	test.That(t, task.Calls(), test.ShouldBeEmpty)
}
