// Package fake implements a fake motor.
package fake

import (
	"context"
	"sync"

	"github.com/edaniels/golog"

	"github.com/ironcladrobotics/puncherbot/components/motor"
	"github.com/ironcladrobotics/puncherbot/resource"
)

const model = resource.Model("fake")

func init() {
	resource.RegisterComponent(
		motor.API,
		model,
		resource.Registration[motor.Motor, resource.NoNativeConfig]{
			Constructor: func(
				ctx context.Context,
				_ resource.Dependencies,
				conf resource.Config,
				logger golog.Logger,
			) (motor.Motor, error) {
				return NewMotor(conf.ResourceName(), logger), nil
			},
		})
}

var _ motor.Motor = &Motor{}

// A Motor allows setting and reading a set power percentage and
// keeps every distinct write for inspection.
type Motor struct {
	resource.Named
	resource.TriviallyCloseable

	mu        sync.Mutex
	powerPct  float64
	brakeMode motor.BrakeMode
	history   []float64
	Logger    golog.Logger
}

// NewMotor returns a stopped fake motor.
func NewMotor(name resource.Name, logger golog.Logger) *Motor {
	return &Motor{Named: name.AsNamed(), Logger: logger}
}

// SetPower sets the given power percentage.
func (m *Motor) SetPower(ctx context.Context, powerPct float64) error {
	if err := motor.CheckPower(powerPct); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setPower(powerPct)
	return nil
}

func (m *Motor) setPower(powerPct float64) {
	m.powerPct = powerPct
	m.history = append(m.history, powerPct)
}

// Stop has the motor pretend to be off.
func (m *Motor) Stop(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setPower(0)
	return nil
}

// SetBrakeMode records the brake mode.
func (m *Motor) SetBrakeMode(ctx context.Context, mode motor.BrakeMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.brakeMode = mode
	return nil
}

// BrakeMode returns the last brake mode set.
func (m *Motor) BrakeMode() motor.BrakeMode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.brakeMode
}

// IsPowered returns if the motor is pretending to be on or not, and its power level.
func (m *Motor) IsPowered(ctx context.Context) (bool, float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.powerPct != 0, m.powerPct, nil
}

// PowerPct returns the current power.
func (m *Motor) PowerPct() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.powerPct
}

// History returns every power written, in order.
func (m *Motor) History() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]float64(nil), m.history...)
}

// ResetHistory forgets previous writes.
func (m *Motor) ResetHistory() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.history = nil
}
