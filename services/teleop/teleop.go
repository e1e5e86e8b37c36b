// Package teleop maps operator controller input to actuator commands once per frame.
package teleop

import (
	"context"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/ironcladrobotics/puncherbot/components/base"
	"github.com/ironcladrobotics/puncherbot/components/input"
	"github.com/ironcladrobotics/puncherbot/components/motor"
	"github.com/ironcladrobotics/puncherbot/components/solenoid"
	"github.com/ironcladrobotics/puncherbot/robot"
	"github.com/ironcladrobotics/puncherbot/utils"
)

// Deps are the components the dispatcher drives. Only Controller and Base are required.
type Deps struct {
	Controller input.Controller
	Base       base.Base
	Intake     Intake
	Guide      solenoid.Pair
	Wall       solenoid.Pair
	Clutch     solenoid.Pair
}

// DepsFromRobot looks up the components named in conf.
func DepsFromRobot(r *robot.Robot, conf Config) (Deps, error) {
	var deps Deps
	var err error
	if deps.Controller, err = robot.ResourceFromRobot[input.Controller](r, input.Named(conf.Controller)); err != nil {
		return Deps{}, err
	}
	if deps.Base, err = robot.ResourceFromRobot[base.Base](r, base.Named(conf.Base)); err != nil {
		return Deps{}, err
	}
	motors := []struct {
		name string
		to   *motor.Motor
	}{
		{conf.IntakeLeft, &deps.Intake.Left},
		{conf.IntakeRight, &deps.Intake.Right},
	}
	for _, m := range motors {
		if m.name == "" {
			continue
		}
		if *m.to, err = robot.ResourceFromRobot[motor.Motor](r, motor.Named(m.name)); err != nil {
			return Deps{}, err
		}
	}
	solenoids := []struct {
		name string
		to   *solenoid.Solenoid
	}{
		{conf.GuideLeft, &deps.Guide.Left},
		{conf.GuideRight, &deps.Guide.Right},
		{conf.WallLeft, &deps.Wall.Left},
		{conf.WallRight, &deps.Wall.Right},
		{conf.ClutchLeft, &deps.Clutch.Left},
		{conf.ClutchRight, &deps.Clutch.Right},
	}
	for _, s := range solenoids {
		if s.name == "" {
			continue
		}
		if *s.to, err = robot.ResourceFromRobot[solenoid.Solenoid](r, solenoid.Named(s.name)); err != nil {
			return Deps{}, err
		}
	}
	return deps, nil
}

// An Option changes how a Dispatcher is built.
type Option func(d *Dispatcher)

// WithClock makes the dispatcher wait on, and take cooldown times from, clk.
func WithClock(clk clock.Clock) Option {
	return func(d *Dispatcher) {
		d.clock = clk
	}
}

// A Dispatcher reads the controller every frame and commands the actuators. Tick and Run
// must not be called concurrently.
type Dispatcher struct {
	deps   Deps
	st     *robot.State
	conf   Config
	clock  clock.Clock
	logger golog.Logger

	pressed    map[Action]bool
	prev       map[Action]bool
	lastAction map[Action]time.Time
	stall      bool

	intakeSet bool
	intakeDir robot.IntakeDirection

	lastErrs map[string]string
}

// New returns a dispatcher. Zero config values take their defaults.
func New(deps Deps, st *robot.State, conf Config, logger golog.Logger, opts ...Option) (*Dispatcher, error) {
	if deps.Controller == nil || deps.Base == nil {
		return nil, errors.New("dispatcher needs a controller and a base")
	}
	if st == nil {
		return nil, errors.New("dispatcher needs a state")
	}
	conf, err := conf.withDefaults()
	if err != nil {
		return nil, err
	}
	d := &Dispatcher{
		deps:       deps,
		st:         st,
		conf:       conf,
		clock:      clock.New(),
		logger:     logger,
		pressed:    map[Action]bool{},
		prev:       map[Action]bool{},
		lastAction: map[Action]time.Time{},
		lastErrs:   map[string]string{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Prepare sets the drive and intake motors to coast when stopped.
func (d *Dispatcher) Prepare(ctx context.Context) error {
	return multierr.Combine(
		d.deps.Base.SetBrakeMode(ctx, motor.BrakeModeCoast),
		d.deps.Intake.SetBrakeMode(ctx, motor.BrakeModeCoast),
	)
}

// Run ticks until ctx is done, then stops the intake and the base.
func (d *Dispatcher) Run(ctx context.Context) error {
	d.logger.Debugw("teleop running", "drive_mode", d.conf.DriveMode, "debounce", d.conf.Debounce)
	d.reset()
	for {
		wait := d.Tick(ctx)
		if !utils.SelectContextOrWaitClock(ctx, d.clock, wait) {
			break
		}
	}
	stopCtx := context.Background()
	return multierr.Combine(
		d.deps.Intake.Stop(stopCtx),
		d.deps.Base.Stop(stopCtx),
	)
}

// reset forgets the last intake write and the button history, since the actuators may
// have been stopped since the last run.
func (d *Dispatcher) reset() {
	d.intakeSet = false
	d.prev = map[Action]bool{}
	d.pressed = map[Action]bool{}
}

// Tick handles one frame of input and returns how long to wait before the next.
func (d *Dispatcher) Tick(ctx context.Context) time.Duration {
	d.stall = false
	d.readButtons(ctx)

	d.drive(ctx)

	if d.pressed[ActionFire] {
		d.st.RequestShot()
	}

	if d.triggered(ActionInstantFire) {
		on := !d.st.InstantFire.Load()
		d.st.InstantFire.Store(on)
		d.announceInstantFire(ctx, on)
	}

	d.intake(ctx)
	d.guide(ctx)

	if d.triggered(ActionWallGuard) {
		up := !d.st.WallGuardUp.Load()
		d.st.WallGuardUp.Store(up)
		d.check("wall", d.deps.Wall.Set(ctx, up))
	}

	if d.triggered(ActionClutch) {
		engaged := !d.st.ClutchEngaged.Load()
		d.st.ClutchEngaged.Store(engaged)
		d.check("clutch", d.deps.Clutch.Set(ctx, engaged))
	}

	d.prev, d.pressed = d.pressed, d.prev
	if d.stall {
		return d.conf.Cooldown
	}
	return d.conf.FrameInterval
}

func (d *Dispatcher) readButtons(ctx context.Context) {
	for action, control := range d.conf.Buttons {
		pressed, err := d.deps.Controller.Button(ctx, control)
		d.check("button "+string(control), err)
		d.pressed[action] = pressed && err == nil
	}
}

// triggered reports whether a toggle action should happen this frame.
func (d *Dispatcher) triggered(action Action) bool {
	if !d.pressed[action] {
		return false
	}
	if d.conf.Debounce == DebounceSleep {
		d.stall = true
		return true
	}
	if d.prev[action] {
		return false
	}
	now := d.clock.Now()
	if last, ok := d.lastAction[action]; ok && now.Sub(last) < d.conf.Cooldown {
		return false
	}
	d.lastAction[action] = now
	return true
}

func (d *Dispatcher) drive(ctx context.Context) {
	axis := func(control input.Control) float64 {
		v, err := d.deps.Controller.Axis(ctx, control)
		d.check("axis "+string(control), err)
		return v
	}
	// sticks report up as negative
	leftX := func() float64 { return axis(input.AbsoluteX) }
	leftY := func() float64 { return -axis(input.AbsoluteY) }
	rightX := func() float64 { return axis(input.AbsoluteRX) }
	rightY := func() float64 { return -axis(input.AbsoluteRY) }

	var err error
	switch d.conf.DriveMode {
	case DriveArcadeSplit:
		err = d.deps.Base.Arcade(ctx, leftY(), rightX())
	case DriveArcadeSingle:
		err = d.deps.Base.Arcade(ctx, leftY(), leftX())
	case DriveArcadeFlipped:
		err = d.deps.Base.Arcade(ctx, rightY(), leftX())
	default:
		err = d.deps.Base.Tank(ctx, leftY(), rightY())
	}
	d.check("drive", err)
}

func (d *Dispatcher) intake(ctx context.Context) {
	if d.conf.IntakePolicy == IntakeSticky {
		switch {
		case d.pressed[ActionIntakeForward]:
			d.st.IntakeEngaged.Store(true)
			d.st.SetIntakeDirection(robot.IntakeForward)
		case d.pressed[ActionIntakeBackward]:
			d.st.IntakeEngaged.Store(true)
			d.st.SetIntakeDirection(robot.IntakeBackward)
		}
		if d.pressed[ActionIntakeReset] {
			d.st.IntakeEngaged.Store(false)
			d.st.SetIntakeDirection(robot.IntakeForward)
		}
	} else {
		switch {
		case d.pressed[ActionIntakeForward]:
			d.st.IntakeEngaged.Store(true)
			d.st.SetIntakeDirection(robot.IntakeForward)
		case d.pressed[ActionIntakeBackward]:
			d.st.IntakeEngaged.Store(true)
			d.st.SetIntakeDirection(robot.IntakeBackward)
		default:
			d.st.IntakeEngaged.Store(false)
			d.st.SetIntakeDirection(robot.IntakeOff)
		}
	}

	dir := robot.IntakeOff
	if d.st.IntakeEngaged.Load() {
		dir = d.st.IntakeDirection()
	}
	if d.intakeSet && dir == d.intakeDir {
		return
	}
	if err := d.deps.Intake.Spin(ctx, dir); err != nil {
		d.check("intake", err)
		return
	}
	d.intakeSet = true
	d.intakeDir = dir
}

// guide handles the intake guide buttons. Up wins over right, right over left.
func (d *Dispatcher) guide(ctx context.Context) {
	left, right := d.st.PneumaticLeft.Load(), d.st.PneumaticRight.Load()
	switch {
	case d.pressed[ActionGuideUp]:
		if !d.triggered(ActionGuideUp) {
			return
		}
		extend := !left && !right
		d.st.PneumaticLeft.Store(extend)
		d.st.PneumaticRight.Store(extend)
		d.check("guide", d.deps.Guide.Set(ctx, extend))
	case d.pressed[ActionGuideRight]:
		if !d.triggered(ActionGuideRight) {
			return
		}
		d.st.PneumaticRight.Store(true)
		d.check("guide", d.deps.Guide.SetRight(ctx, true))
	case d.pressed[ActionGuideLeft]:
		if !d.triggered(ActionGuideLeft) {
			return
		}
		d.st.PneumaticLeft.Store(true)
		d.check("guide", d.deps.Guide.SetLeft(ctx, true))
	}
}

func (d *Dispatcher) announceInstantFire(ctx context.Context, on bool) {
	status := "OFF"
	if on {
		status = "ON"
	}
	text := fmt.Sprintf("Instant fire: %s", status)
	d.logger.Infow(text, "instant_fire", on)
	if screen, ok := d.deps.Controller.(input.Screen); ok {
		d.check("screen", screen.SetText(ctx, 0, text))
	}
}

// check logs err the first time it differs from the last error seen for what.
func (d *Dispatcher) check(what string, err error) {
	if err == nil {
		delete(d.lastErrs, what)
		return
	}
	if d.lastErrs[what] == err.Error() {
		return
	}
	d.lastErrs[what] = err.Error()
	d.logger.Warnw("teleop command failed", "command", what, "error", err)
}
