// Package fake implements a fake board.
package fake

import (
	"context"
	"sync"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"

	"github.com/ironcladrobotics/puncherbot/components/board"
	"github.com/ironcladrobotics/puncherbot/resource"
)

// A Config describes the configuration of a fake board.
type Config struct {
	// Pins holds the initial level of named pins.
	Pins    map[string]bool `json:"pins,omitempty"`
	FailNew bool            `json:"fail_new"`
}

// Validate ensures all parts of the config are valid.
func (conf *Config) Validate(path string) ([]string, error) {
	if conf.FailNew {
		return nil, errors.New("whoops")
	}
	return nil, nil
}

const model = resource.Model("fake")

func init() {
	resource.RegisterComponent(
		board.API,
		model,
		resource.Registration[board.Board, *Config]{
			Constructor: func(
				ctx context.Context,
				_ resource.Dependencies,
				conf resource.Config,
				logger golog.Logger,
			) (board.Board, error) {
				return NewBoard(ctx, conf, logger)
			},
		})
}

// NewBoard returns a new fake board.
func NewBoard(ctx context.Context, conf resource.Config, logger golog.Logger) (*Board, error) {
	b := &Board{
		Named:    conf.ResourceName().AsNamed(),
		GPIOPins: map[string]*GPIOPin{},
		logger:   logger,
	}
	if conf.ConvertedAttributes == nil {
		return b, nil
	}
	newConf, err := resource.NativeConfig[*Config](conf)
	if err != nil {
		return nil, err
	}
	for name, high := range newConf.Pins {
		b.GPIOPins[name] = &GPIOPin{high: high}
	}
	return b, nil
}

// A Board keeps its pins in memory so tests can drive and inspect them.
type Board struct {
	resource.Named

	mu         sync.Mutex
	GPIOPins   map[string]*GPIOPin
	logger     golog.Logger
	CloseCount int
}

// GPIOPinByName returns the GPIO pin by the given name, creating it if needed.
func (b *Board) GPIOPinByName(name string) (board.GPIOPin, error) {
	return b.Pin(name), nil
}

// Pin is GPIOPinByName with the concrete fake type.
func (b *Board) Pin(name string) *GPIOPin {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.GPIOPins[name]
	if !ok {
		p = &GPIOPin{}
		b.GPIOPins[name] = p
	}
	return p
}

// Close counts how many times the board was closed.
func (b *Board) Close(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.CloseCount++
	return nil
}

// A GPIOPin reads back the same set values.
type GPIOPin struct {
	high    bool
	pwm     float64
	pwmFreq uint
	writes  int

	mu sync.Mutex
}

// Set sets the pin to either low or high.
func (gp *GPIOPin) Set(ctx context.Context, high bool) error {
	gp.mu.Lock()
	defer gp.mu.Unlock()

	gp.high = high
	gp.pwm = 0
	gp.pwmFreq = 0
	gp.writes++
	return nil
}

// Get gets the high/low state of the pin.
func (gp *GPIOPin) Get(ctx context.Context) (bool, error) {
	gp.mu.Lock()
	defer gp.mu.Unlock()

	return gp.high, nil
}

// PWM gets the pin's given duty cycle.
func (gp *GPIOPin) PWM(ctx context.Context) (float64, error) {
	gp.mu.Lock()
	defer gp.mu.Unlock()

	return gp.pwm, nil
}

// SetPWM sets the pin to the given duty cycle.
func (gp *GPIOPin) SetPWM(ctx context.Context, dutyCyclePct float64) error {
	gp.mu.Lock()
	defer gp.mu.Unlock()

	gp.pwm = dutyCyclePct
	gp.writes++
	return nil
}

// PWMFreq gets the PWM frequency of the pin.
func (gp *GPIOPin) PWMFreq(ctx context.Context) (uint, error) {
	gp.mu.Lock()
	defer gp.mu.Unlock()

	return gp.pwmFreq, nil
}

// SetPWMFreq sets the given pin to the given PWM frequency.
func (gp *GPIOPin) SetPWMFreq(ctx context.Context, freqHz uint) error {
	gp.mu.Lock()
	defer gp.mu.Unlock()

	gp.pwmFreq = freqHz
	return nil
}

// Writes returns how many times the level or duty cycle was written.
func (gp *GPIOPin) Writes() int {
	gp.mu.Lock()
	defer gp.mu.Unlock()
	return gp.writes
}
