// Package fake implements a fake base that records what it was asked to do and simulates
// scripted motions by waiting as long as a real chassis would take.
package fake

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/edaniels/golog"
	goutils "go.viam.com/utils"

	"github.com/ironcladrobotics/puncherbot/components/base"
	"github.com/ironcladrobotics/puncherbot/components/motor"
	"github.com/ironcladrobotics/puncherbot/operation"
	"github.com/ironcladrobotics/puncherbot/resource"
	"github.com/ironcladrobotics/puncherbot/utils"
)

func init() {
	resource.RegisterComponent(
		base.API,
		resource.Model("fake"),
		resource.Registration[base.Base, resource.NoNativeConfig]{
			Constructor: func(ctx context.Context, _ resource.Dependencies, conf resource.Config, logger golog.Logger) (base.Base, error) {
				return NewBase(conf.ResourceName(), logger), nil
			},
		},
	)
}

// Simulated top speeds at full power.
const (
	MmPerSec   = 1000.0
	DegsPerSec = 360.0
)

// A Motion is a scripted motion the base was asked to run.
type Motion struct {
	Kind   string
	Side   base.Side
	Amount float64
	Speed  float64
}

// Base is a fake base that returns what it was provided in each method.
type Base struct {
	resource.Named

	mu         sync.Mutex
	left       float64
	right      float64
	brakeMode  motor.BrakeMode
	maxSpeed   float64
	motions    []Motion
	CloseCount int

	clk                     clock.Clock
	opMgr                   *operation.SingleOperationManager
	logger                  golog.Logger
	cancelCtx               context.Context
	cancelFunc              func()
	activeBackgroundWorkers sync.WaitGroup
}

var _ base.Chassis = &Base{}

// NewBase instantiates a new base of the fake model type.
func NewBase(name resource.Name, logger golog.Logger) *Base {
	return NewBaseWithClock(name, clock.New(), logger)
}

// NewBaseWithClock instantiates a fake base timing its motions on clk.
func NewBaseWithClock(name resource.Name, clk clock.Clock, logger golog.Logger) *Base {
	cancelCtx, cancelFunc := context.WithCancel(context.Background())
	return &Base{
		Named:      name.AsNamed(),
		maxSpeed:   1,
		clk:        clk,
		opMgr:      &operation.SingleOperationManager{Clock: clk},
		logger:     logger,
		cancelCtx:  cancelCtx,
		cancelFunc: cancelFunc,
	}
}

// Tank records the powers and cancels any running motion.
func (b *Base) Tank(ctx context.Context, left, right float64) error {
	b.opMgr.CancelRunning(ctx)
	b.mu.Lock()
	defer b.mu.Unlock()
	b.left = utils.Clamp(left, -1, 1)
	b.right = utils.Clamp(right, -1, 1)
	return nil
}

// Arcade records the mixed powers.
func (b *Base) Arcade(ctx context.Context, throttle, turn float64) error {
	left, right := base.ArcadeToTank(throttle, turn)
	return b.Tank(ctx, left, right)
}

// Stop zeroes the powers and cancels any running motion.
func (b *Base) Stop(ctx context.Context) error {
	return b.Tank(ctx, 0, 0)
}

// Powers returns the last left and right powers.
func (b *Base) Powers() (float64, float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.left, b.right
}

// SetBrakeMode records the brake mode.
func (b *Base) SetBrakeMode(ctx context.Context, mode motor.BrakeMode) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.brakeMode = mode
	return nil
}

// BrakeMode returns the last brake mode set.
func (b *Base) BrakeMode() motor.BrakeMode {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.brakeMode
}

// Drive simulates driving straight.
func (b *Base) Drive(ctx context.Context, distanceMm, speed float64) error {
	return b.startMotion(Motion{Kind: "drive", Amount: distanceMm, Speed: speed}, MmPerSec)
}

// Turn simulates turning in place.
func (b *Base) Turn(ctx context.Context, angleDeg, speed float64) error {
	return b.startMotion(Motion{Kind: "turn", Amount: angleDeg, Speed: speed}, DegsPerSec)
}

// Swing simulates a turn about one side, which covers the angle at half the rate.
func (b *Base) Swing(ctx context.Context, side base.Side, angleDeg, speed float64) error {
	return b.startMotion(Motion{Kind: "swing", Side: side, Amount: angleDeg, Speed: speed}, DegsPerSec/2)
}

func (b *Base) startMotion(m Motion, fullRate float64) error {
	if m.Speed <= 0 || m.Speed > 1 {
		return base.NewInvalidSpeedError(m.Speed)
	}
	b.mu.Lock()
	speed := math.Min(m.Speed, b.maxSpeed)
	b.motions = append(b.motions, m)
	b.mu.Unlock()

	dur := time.Duration(math.Abs(m.Amount) / (fullRate * speed) * float64(time.Second))
	b.logger.Debugw("starting motion", "kind", m.Kind, "amount", m.Amount, "speed", speed, "duration", dur)

	opCtx, finish := b.opMgr.New(b.cancelCtx)
	b.activeBackgroundWorkers.Add(1)
	goutils.ManagedGo(func() {
		defer finish()
		utils.SelectContextOrWaitClock(opCtx, b.clk, dur)
	}, b.activeBackgroundWorkers.Done)
	return nil
}

// WaitDrive blocks until the current motion is done.
func (b *Base) WaitDrive(ctx context.Context) error {
	return b.opMgr.Wait(ctx)
}

// SetMaxSpeed caps the speed of later motions.
func (b *Base) SetMaxSpeed(speed float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.maxSpeed = utils.Clamp(speed, 0.01, 1)
}

// Motions returns every motion started, in order.
func (b *Base) Motions() []Motion {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Motion(nil), b.motions...)
}

// IsMoving returns whether a motion is running or any side is powered.
func (b *Base) IsMoving(ctx context.Context) (bool, error) {
	left, right := b.Powers()
	return b.opMgr.OpRunning() || left != 0 || right != 0, nil
}

// Close stops any motion.
func (b *Base) Close(ctx context.Context) error {
	b.cancelFunc()
	b.activeBackgroundWorkers.Wait()
	b.mu.Lock()
	defer b.mu.Unlock()
	b.CloseCount++
	return nil
}
