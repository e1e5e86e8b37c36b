// Package puncher runs the charge and release cycle of the spring loaded puncher. A limit
// switch reports whether the arm is cocked; shot requests arrive through robot.State.
package puncher

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"go.uber.org/atomic"
	goutils "go.viam.com/utils"

	"github.com/ironcladrobotics/puncherbot/components/limitswitch"
	"github.com/ironcladrobotics/puncherbot/components/motor"
	"github.com/ironcladrobotics/puncherbot/robot"
	"github.com/ironcladrobotics/puncherbot/utils"
)

// State is where the puncher is in its cycle.
type State int32

// The puncher states.
const (
	Idle State = iota
	Firing
	Retracting
	InstantFire
	Suspended
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Firing:
		return "firing"
	case Retracting:
		return "retracting"
	case InstantFire:
		return "instant_fire"
	case Suspended:
		return "suspended"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// Motor power for each phase.
const (
	firePower    = -1.0
	instantPower = 1.0
)

// An Option changes how a Puncher is built.
type Option func(p *Puncher)

// WithClock makes the loop wait on clk. Tests pass a mock clock.
func WithClock(clk clock.Clock) Option {
	return func(p *Puncher) {
		p.clock = clk
	}
}

// A Puncher drives the puncher motor from the limit switch and the shared state.
type Puncher struct {
	motor  motor.Motor
	sw     limitswitch.Switch
	st     *robot.State
	conf   Config
	clock  clock.Clock
	logger golog.Logger

	state atomic.Int32

	mu sync.Mutex
	// guarded by mu
	suspended  bool
	lastPower  float64
	forceWrite bool
	errLogged  bool

	startOnce               sync.Once
	cancel                  func()
	activeBackgroundWorkers sync.WaitGroup
}

// New returns a puncher that is not yet running. Zero config durations and policy take their
// defaults.
func New(
	m motor.Motor,
	sw limitswitch.Switch,
	st *robot.State,
	conf Config,
	logger golog.Logger,
	opts ...Option,
) (*Puncher, error) {
	if m == nil || sw == nil || st == nil {
		return nil, errors.New("puncher needs a motor, a limit switch and a state")
	}
	conf, err := conf.withDefaults()
	if err != nil {
		return nil, err
	}
	p := &Puncher{
		motor:      m,
		sw:         sw,
		st:         st,
		conf:       conf,
		clock:      clock.New(),
		logger:     logger,
		forceWrite: true,
		cancel:     func() {},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// FromRobot builds a puncher from the motor and limit switch named in conf.
func FromRobot(r *robot.Robot, st *robot.State, conf Config, logger golog.Logger, opts ...Option) (*Puncher, error) {
	m, err := robot.ResourceFromRobot[motor.Motor](r, motor.Named(conf.Motor))
	if err != nil {
		return nil, err
	}
	sw, err := robot.ResourceFromRobot[limitswitch.Switch](r, limitswitch.Named(conf.LimitSwitch))
	if err != nil {
		return nil, err
	}
	return New(m, sw, st, conf, logger, opts...)
}

// Prepare sets the motor to hold its position when stopped so a cocked arm stays cocked.
func (p *Puncher) Prepare(ctx context.Context) error {
	return p.motor.SetBrakeMode(ctx, motor.BrakeModeHold)
}

// Start launches the loop. Later calls do nothing.
func (p *Puncher) Start(ctx context.Context) {
	p.startOnce.Do(func() {
		cancelCtx, cancel := context.WithCancel(context.Background())
		p.mu.Lock()
		p.cancel = cancel
		p.mu.Unlock()

		p.activeBackgroundWorkers.Add(1)
		goutils.ManagedGo(func() {
			for {
				wait := p.step(cancelCtx)
				if !utils.SelectContextOrWaitClock(cancelCtx, p.clock, wait) {
					return
				}
			}
		}, p.activeBackgroundWorkers.Done)
		p.logger.Debugw("puncher started", "policy", p.conf.Policy, "poll_interval", p.conf.PollInterval)
	})
}

// Suspend stops the motor and parks the loop until Resume.
func (p *Puncher) Suspend() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.suspended {
		return
	}
	p.suspended = true
	if err := p.motor.Stop(context.Background()); err != nil {
		p.logger.Errorw("failed to stop puncher motor", "error", err)
	}
	p.lastPower = 0
	p.setState(Suspended)
}

// Resume restarts the cycle at Idle. The next motor write always goes out.
func (p *Puncher) Resume() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.suspended {
		return
	}
	p.suspended = false
	p.forceWrite = true
	p.setState(Idle)
}

// State returns where the puncher is in its cycle.
func (p *Puncher) State() State {
	return State(p.state.Load())
}

// Policy returns the fire policy in use.
func (p *Puncher) Policy() FirePolicy {
	return p.conf.Policy
}

// step runs one poll of the cycle and returns how long to wait before the next.
func (p *Puncher) step(ctx context.Context) time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.suspended {
		return p.conf.PollInterval
	}

	if p.st.InstantFire.Load() {
		if p.st.TakeShot() {
			p.logger.Debug("dropping shot request during instant fire")
		}
		p.setPower(ctx, instantPower)
		p.setState(InstantFire)
		return p.conf.PollInterval
	}

	atRest, err := p.sw.Pressed(ctx)
	if err != nil {
		p.logError("failed to read limit switch", err)
		return p.conf.PollInterval
	}
	requested := p.st.ShotRequested.Load()

	switch {
	case requested && atRest:
		written := p.setPower(ctx, firePower)
		if p.conf.Policy == SettleDelayFire {
			if !written {
				return p.conf.PollInterval
			}
			p.st.TakeShot()
			p.setState(Firing)
			return p.conf.SettleDelay
		}
		p.setState(Firing)
	case requested:
		p.setPower(ctx, firePower)
		if p.conf.Policy == SwitchConfirmedFire && p.State() == Firing {
			p.st.TakeShot()
		}
		p.setState(Retracting)
	case atRest:
		p.setPower(ctx, 0)
		p.setState(Idle)
	default:
		p.setPower(ctx, firePower)
		p.setState(Retracting)
	}
	return p.conf.PollInterval
}

// setPower writes to the motor only when the power changes and reports whether the motor is
// now at power. Failed writes are retried on the next call.
func (p *Puncher) setPower(ctx context.Context, power float64) bool {
	if !p.forceWrite && power == p.lastPower {
		return true
	}
	if err := p.motor.SetPower(ctx, power); err != nil {
		p.logError("failed to set puncher power", err)
		return false
	}
	p.lastPower = power
	p.forceWrite = false
	return true
}

// logError logs once per state.
func (p *Puncher) logError(msg string, err error) {
	if p.errLogged {
		return
	}
	p.errLogged = true
	p.logger.Errorw(msg, "state", p.State(), "error", err)
}

func (p *Puncher) setState(s State) {
	old := State(p.state.Swap(int32(s)))
	if old == s {
		return
	}
	p.errLogged = false
	p.logger.Debugw("puncher state", "from", old, "to", s)
}

// Close stops the loop and the motor.
func (p *Puncher) Close(ctx context.Context) error {
	p.startOnce.Do(func() {})
	p.mu.Lock()
	cancel := p.cancel
	p.mu.Unlock()
	cancel()
	p.activeBackgroundWorkers.Wait()
	return p.motor.Stop(ctx)
}
