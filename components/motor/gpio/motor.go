// Package gpio implements a motor driven through the GPIO pins of a board, either by an
// a/b h-bridge or by a dir/pwm driver.
package gpio

import (
	"context"
	"math"
	"sync"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/ironcladrobotics/puncherbot/components/board"
	"github.com/ironcladrobotics/puncherbot/components/motor"
	"github.com/ironcladrobotics/puncherbot/resource"
)

const model = resource.Model("gpio")

// PinConfig defines the mapping of where motor are wired.
type PinConfig struct {
	A             string `json:"a,omitempty"`
	B             string `json:"b,omitempty"`
	Direction     string `json:"dir,omitempty"`
	PWM           string `json:"pwm,omitempty"`
	EnablePinHigh string `json:"en_high,omitempty"`
	EnablePinLow  string `json:"en_low,omitempty"`
}

// Config describes the configuration of a GPIO motor.
type Config struct {
	Pins          PinConfig `json:"pins"`
	BoardName     string    `json:"board"`
	MinPowerPct   float64   `json:"min_power_pct,omitempty"`
	MaxPowerPct   float64   `json:"max_power_pct,omitempty"`
	PWMFreq       uint      `json:"pwm_freq,omitempty"`
	DirectionFlip bool      `json:"dir_flip,omitempty"`
}

// Validate ensures all parts of the config are valid.
func (conf *Config) Validate(path string) ([]string, error) {
	if conf.BoardName == "" {
		return nil, resource.NewConfigValidationFieldRequiredError(path, "board")
	}
	hasAB := conf.Pins.A != "" && conf.Pins.B != ""
	hasDirPWM := conf.Pins.Direction != "" && conf.Pins.PWM != ""
	if !hasAB && !hasDirPWM {
		return nil, motor.NewMissingPinError(path)
	}
	if conf.MaxPowerPct != 0 && (conf.MaxPowerPct < 0.06 || conf.MaxPowerPct > 1.0) {
		return nil, errors.New("max_power_pct must be between 0.06 and 1.0")
	}
	return []string{conf.BoardName}, nil
}

func init() {
	resource.RegisterComponent(
		motor.API,
		model,
		resource.Registration[motor.Motor, *Config]{
			Constructor: func(
				ctx context.Context,
				deps resource.Dependencies,
				conf resource.Config,
				logger golog.Logger,
			) (motor.Motor, error) {
				newConf, err := resource.NativeConfig[*Config](conf)
				if err != nil {
					return nil, err
				}
				b, err := board.FromDependencies(deps, newConf.BoardName)
				if err != nil {
					return nil, err
				}
				return NewMotor(ctx, b, *newConf, conf.ResourceName(), logger)
			},
		})
}

// NewMotor constructs a new GPIO based motor on the given board using the
// given configuration.
func NewMotor(ctx context.Context, b board.Board, mc Config, name resource.Name, logger golog.Logger) (*Motor, error) {
	if mc.MaxPowerPct == 0 {
		mc.MaxPowerPct = 1.0
	}
	mc.MinPowerPct = math.Min(math.Max(mc.MinPowerPct, 0), 1)

	m := &Motor{
		Named:       name.AsNamed(),
		minPowerPct: mc.MinPowerPct,
		maxPowerPct: mc.MaxPowerPct,
		pwmFreq:     mc.PWMFreq,
		dirFlip:     mc.DirectionFlip,
		logger:      logger,
	}

	pin := func(pinName string) (board.GPIOPin, error) {
		if pinName == "" {
			return nil, nil
		}
		return b.GPIOPinByName(pinName)
	}
	var err error
	if m.A, err = pin(mc.Pins.A); err != nil {
		return nil, err
	}
	if m.B, err = pin(mc.Pins.B); err != nil {
		return nil, err
	}
	if m.Dir, err = pin(mc.Pins.Direction); err != nil {
		return nil, err
	}
	if m.PWM, err = pin(mc.Pins.PWM); err != nil {
		return nil, err
	}
	if m.EnablePinHigh, err = pin(mc.Pins.EnablePinHigh); err != nil {
		return nil, err
	}
	if m.EnablePinLow, err = pin(mc.Pins.EnablePinLow); err != nil {
		return nil, err
	}
	if (m.A == nil || m.B == nil) && (m.Dir == nil || m.PWM == nil) {
		return nil, motor.NewMissingPinError(name.String())
	}

	if err := m.Stop(ctx); err != nil {
		return nil, err
	}
	return m, nil
}

var _ motor.Motor = &Motor{}

// A Motor is a GPIO based Motor that resides on a GPIO Board.
type Motor struct {
	resource.Named

	mu                          sync.Mutex
	A, B, Dir, PWM              board.GPIOPin
	EnablePinHigh, EnablePinLow board.GPIOPin
	powerPct                    float64
	brakeMode                   motor.BrakeMode
	minPowerPct, maxPowerPct    float64
	pwmFreq                     uint
	dirFlip                     bool
	logger                      golog.Logger
}

func (m *Motor) setEnabled(ctx context.Context, on bool) error {
	var errs error
	if m.EnablePinHigh != nil {
		errs = multierr.Combine(errs, m.EnablePinHigh.Set(ctx, on))
	}
	if m.EnablePinLow != nil {
		errs = multierr.Combine(errs, m.EnablePinLow.Set(ctx, !on))
	}
	return errs
}

// SetPower sets the direction pins and drives PWM at the given magnitude.
func (m *Motor) SetPower(ctx context.Context, powerPct float64) error {
	if err := motor.CheckPower(powerPct); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if math.Abs(powerPct) <= 0.001 {
		return m.stop(ctx)
	}
	m.powerPct = powerPct

	forward := powerPct > 0
	if m.dirFlip {
		forward = !forward
	}
	magnitude := math.Min(math.Max(math.Abs(powerPct), m.minPowerPct), m.maxPowerPct)

	errs := m.setEnabled(ctx, true)
	if m.Dir != nil {
		return multierr.Combine(
			errs,
			m.Dir.Set(ctx, forward),
			m.setPWM(ctx, m.PWM, magnitude),
		)
	}

	// With only a/b, one pin is held high and the other carries an inverted duty cycle,
	// since the bridge only drives while they differ.
	high, pwm := m.A, m.B
	if !forward {
		high, pwm = m.B, m.A
	}
	return multierr.Combine(
		errs,
		pwm.Set(ctx, false),
		high.Set(ctx, true),
		m.setPWM(ctx, pwm, 1.0-magnitude),
	)
}

func (m *Motor) setPWM(ctx context.Context, pin board.GPIOPin, dutyCyclePct float64) error {
	if m.pwmFreq != 0 {
		if err := pin.SetPWMFreq(ctx, m.pwmFreq); err != nil {
			return err
		}
	}
	return pin.SetPWM(ctx, dutyCyclePct)
}

// Stop turns the motor off. In brake or hold mode an a/b bridge shorts the motor.
func (m *Motor) Stop(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stop(ctx)
}

func (m *Motor) stop(ctx context.Context) error {
	m.powerPct = 0
	if m.Dir != nil {
		return multierr.Combine(
			m.PWM.Set(ctx, false),
			m.setEnabled(ctx, m.brakeMode != motor.BrakeModeCoast),
		)
	}
	short := m.brakeMode != motor.BrakeModeCoast
	return multierr.Combine(
		m.A.Set(ctx, short),
		m.B.Set(ctx, short),
		m.setEnabled(ctx, short),
	)
}

// SetBrakeMode changes how the next stop behaves.
func (m *Motor) SetBrakeMode(ctx context.Context, mode motor.BrakeMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.brakeMode = mode
	if m.powerPct == 0 {
		return m.stop(ctx)
	}
	return nil
}

// IsPowered returns if the motor is currently on or off, and its power.
func (m *Motor) IsPowered(ctx context.Context) (bool, float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.powerPct != 0, m.powerPct, nil
}

// Close stops the motor.
func (m *Motor) Close(ctx context.Context) error {
	return m.Stop(ctx)
}
