// Package gpio implements a solenoid valve switched by a board's GPIO pin.
package gpio

import (
	"context"

	"github.com/edaniels/golog"
	"go.uber.org/atomic"

	"github.com/ironcladrobotics/puncherbot/components/board"
	"github.com/ironcladrobotics/puncherbot/components/solenoid"
	"github.com/ironcladrobotics/puncherbot/resource"
)

const model = resource.Model("gpio")

// Config describes the configuration of a GPIO solenoid.
type Config struct {
	BoardName string `json:"board"`
	Pin       string `json:"pin"`
	ActiveLow bool   `json:"active_low,omitempty"`
}

// Validate ensures all parts of the config are valid.
func (conf *Config) Validate(path string) ([]string, error) {
	if conf.BoardName == "" {
		return nil, resource.NewConfigValidationFieldRequiredError(path, "board")
	}
	if conf.Pin == "" {
		return nil, resource.NewConfigValidationFieldRequiredError(path, "pin")
	}
	return []string{conf.BoardName}, nil
}

func init() {
	resource.RegisterComponent(
		solenoid.API,
		model,
		resource.Registration[solenoid.Solenoid, *Config]{
			Constructor: func(
				ctx context.Context,
				deps resource.Dependencies,
				conf resource.Config,
				logger golog.Logger,
			) (solenoid.Solenoid, error) {
				newConf, err := resource.NativeConfig[*Config](conf)
				if err != nil {
					return nil, err
				}
				b, err := board.FromDependencies(deps, newConf.BoardName)
				if err != nil {
					return nil, err
				}
				return NewSolenoid(ctx, b, *newConf, conf.ResourceName())
			},
		})
}

// NewSolenoid returns a solenoid on the configured pin, retracted.
func NewSolenoid(ctx context.Context, b board.Board, conf Config, name resource.Name) (*Solenoid, error) {
	pin, err := b.GPIOPinByName(conf.Pin)
	if err != nil {
		return nil, err
	}
	s := &Solenoid{Named: name.AsNamed(), pin: pin, activeLow: conf.ActiveLow}
	if err := s.Set(ctx, false); err != nil {
		return nil, err
	}
	return s, nil
}

// A Solenoid drives a single valve pin.
type Solenoid struct {
	resource.Named
	pin       board.GPIOPin
	activeLow bool
	extended  atomic.Bool
}

// Set energizes the valve to extend.
func (s *Solenoid) Set(ctx context.Context, extended bool) error {
	if err := s.pin.Set(ctx, extended != s.activeLow); err != nil {
		return err
	}
	s.extended.Store(extended)
	return nil
}

// Extended returns the last commanded position.
func (s *Solenoid) Extended(ctx context.Context) (bool, error) {
	return s.extended.Load(), nil
}

// Close retracts the cylinder.
func (s *Solenoid) Close(ctx context.Context) error {
	return s.Set(ctx, false)
}
