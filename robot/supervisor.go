package robot

import (
	"context"
	"sync"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	goutils "go.viam.com/utils"
	"golang.org/x/sync/errgroup"

	"github.com/ironcladrobotics/puncherbot/operation"
)

// A Mode is a competition mode.
type Mode string

// The competition modes. The robot starts in ModeDisabled once initialized.
const (
	ModeDisabled   = Mode("disabled")
	ModeAutonomous = Mode("autonomous")
	ModeDriver     = Mode("driver")
)

const modeLabel = "competition_mode"

// ParseMode returns the Mode named by s.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeDisabled, ModeAutonomous, ModeDriver:
		return m, nil
	default:
		return "", errors.Errorf("unknown mode %q, expected one of %q, %q or %q", s, ModeDisabled, ModeAutonomous, ModeDriver)
	}
}

// A Task is a background loop that lives for the whole match and is paused while the robot is
// disabled.
type Task interface {
	Start(ctx context.Context)
	Suspend()
	Resume()
	Close(ctx context.Context) error
}

// A Runner does the work of a mode until it finishes or ctx is done.
type Runner interface {
	Run(ctx context.Context) error
}

// RunnerFunc adapts a function to a Runner.
type RunnerFunc func(ctx context.Context) error

// Run calls f.
func (f RunnerFunc) Run(ctx context.Context) error {
	return f(ctx)
}

// SupervisorConfig holds what the supervisor runs in each mode. Any field may be nil.
type SupervisorConfig struct {
	Puncher    Task
	Autonomous Runner
	Driver     Runner
	// Initializers run concurrently once, before anything else.
	Initializers []func(ctx context.Context) error
}

// A Supervisor moves the robot between competition modes. Only one mode runs at a time.
type Supervisor struct {
	conf   SupervisorConfig
	logger golog.Logger

	mu          sync.Mutex
	initialized bool
	closed      bool
	mode        Mode
	workers     *goutils.StoppableWorkers
	done        chan struct{}
}

// NewSupervisor returns a supervisor that has not been initialized.
func NewSupervisor(conf SupervisorConfig, logger golog.Logger) *Supervisor {
	return &Supervisor{conf: conf, logger: logger, mode: ModeDisabled}
}

// Initialize runs the initializers, starts the puncher and leaves the robot disabled.
func (s *Supervisor) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errors.New("supervisor is closed")
	}
	if s.initialized {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, f := range s.conf.Initializers {
		f := f
		g.Go(func() error { return f(gctx) })
	}
	if err := g.Wait(); err != nil {
		return errors.Wrap(err, "failed to initialize")
	}

	if s.conf.Puncher != nil {
		s.conf.Puncher.Start(ctx)
		s.conf.Puncher.Suspend()
	}
	s.initialized = true
	s.mode = ModeDisabled
	s.logger.Info("initialized")
	return nil
}

// Enter stops the current mode and starts mode. It returns once the previous mode's work has
// returned; the new mode runs in the background.
func (s *Supervisor) Enter(ctx context.Context, mode Mode) error {
	if _, err := ParseMode(string(mode)); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errors.New("supervisor is closed")
	}
	if !s.initialized {
		return errors.New("supervisor must be initialized before entering a mode")
	}

	s.stopModeInLock()
	s.mode = mode
	s.logger.Infow("entering mode", "mode", mode)

	var runner Runner
	switch mode {
	case ModeDisabled:
		if s.conf.Puncher != nil {
			s.conf.Puncher.Suspend()
		}
		return nil
	case ModeAutonomous:
		runner = s.conf.Autonomous
	case ModeDriver:
		runner = s.conf.Driver
	}
	if s.conf.Puncher != nil {
		s.conf.Puncher.Resume()
	}
	if runner == nil {
		return nil
	}

	done := make(chan struct{})
	s.done = done
	s.workers = goutils.NewBackgroundStoppableWorkers(func(workerCtx context.Context) {
		defer close(done)
		opCtx, cleanup := operation.Create(workerCtx, "mode/"+string(mode), nil)
		defer cleanup()
		operation.CancelOtherWithLabel(opCtx, modeLabel)

		if err := runner.Run(opCtx); err != nil && !errors.Is(err, context.Canceled) {
			s.logger.Errorw("mode stopped with error", "mode", mode, "error", err)
			return
		}
		s.logger.Debugw("mode finished", "mode", mode)
	})
	return nil
}

// Mode returns the current mode.
func (s *Supervisor) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Done returns a channel closed when the current mode's work returns on its own or is stopped.
// It is closed already if nothing is running.
func (s *Supervisor) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done == nil {
		done := make(chan struct{})
		close(done)
		return done
	}
	return s.done
}

func (s *Supervisor) stopModeInLock() {
	if s.workers == nil {
		return
	}
	s.workers.Stop()
	s.workers = nil
	s.done = nil
}

// Close stops the current mode and closes the puncher.
func (s *Supervisor) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.stopModeInLock()
	if s.conf.Puncher != nil && s.initialized {
		return s.conf.Puncher.Close(ctx)
	}
	return nil
}
