// Package gpio implements a limit switch wired to a board's GPIO pin.
package gpio

import (
	"context"

	"github.com/edaniels/golog"

	"github.com/ironcladrobotics/puncherbot/components/board"
	"github.com/ironcladrobotics/puncherbot/components/limitswitch"
	"github.com/ironcladrobotics/puncherbot/resource"
)

const model = resource.Model("gpio")

// Config describes the configuration of a GPIO limit switch.
type Config struct {
	BoardName string `json:"board"`
	Pin       string `json:"pin"`
	// ActiveLow inverts the reading for normally-closed wiring.
	ActiveLow bool `json:"active_low,omitempty"`
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
		limitswitch.API,
		model,
		resource.Registration[limitswitch.Switch, *Config]{
			Constructor: func(
				ctx context.Context,
				deps resource.Dependencies,
				conf resource.Config,
				logger golog.Logger,
			) (limitswitch.Switch, error) {
				newConf, err := resource.NativeConfig[*Config](conf)
				if err != nil {
					return nil, err
				}
				b, err := board.FromDependencies(deps, newConf.BoardName)
				if err != nil {
					return nil, err
				}
				return NewSwitch(b, *newConf, conf.ResourceName())
			},
		})
}

// NewSwitch returns a switch reading the configured pin.
func NewSwitch(b board.Board, conf Config, name resource.Name) (limitswitch.Switch, error) {
	pin, err := b.GPIOPinByName(conf.Pin)
	if err != nil {
		return nil, err
	}
	return &gpioSwitch{Named: name.AsNamed(), pin: pin, activeLow: conf.ActiveLow}, nil
}

type gpioSwitch struct {
	resource.Named
	resource.TriviallyCloseable
	pin       board.GPIOPin
	activeLow bool
}

func (s *gpioSwitch) Pressed(ctx context.Context) (bool, error) {
	high, err := s.pin.Get(ctx)
	if err != nil {
		return false, err
	}
	return high != s.activeLow, nil
}
