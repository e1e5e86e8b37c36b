// Package fake implements a limit switch whose reading is set by hand.
package fake

import (
	"context"

	"github.com/edaniels/golog"
	"go.uber.org/atomic"

	"github.com/ironcladrobotics/puncherbot/components/limitswitch"
	"github.com/ironcladrobotics/puncherbot/resource"
)

const model = resource.Model("fake")

// Config describes the configuration of a fake switch.
type Config struct {
	Pressed bool `json:"pressed"`
}

// Validate always succeeds.
func (conf *Config) Validate(path string) ([]string, error) {
	return nil, nil
}

func init() {
	resource.RegisterComponent(
		limitswitch.API,
		model,
		resource.Registration[limitswitch.Switch, *Config]{
			Constructor: func(
				ctx context.Context,
				_ resource.Dependencies,
				conf resource.Config,
				logger golog.Logger,
			) (limitswitch.Switch, error) {
				newConf, err := resource.NativeConfig[*Config](conf)
				if err != nil {
					return nil, err
				}
				sw := NewSwitch(conf.ResourceName())
				sw.SetPressed(newConf.Pressed)
				return sw, nil
			},
		})
}

// A Switch returns whatever was last set.
type Switch struct {
	resource.Named
	resource.TriviallyCloseable
	pressed atomic.Bool
	reads   atomic.Int64
}

// NewSwitch returns a released fake switch.
func NewSwitch(name resource.Name) *Switch {
	return &Switch{Named: name.AsNamed()}
}

// SetPressed sets the reading.
func (s *Switch) SetPressed(pressed bool) {
	s.pressed.Store(pressed)
}

// Pressed returns the last set reading.
func (s *Switch) Pressed(ctx context.Context) (bool, error) {
	s.reads.Inc()
	return s.pressed.Load(), nil
}

// Reads returns how many times the switch was read.
func (s *Switch) Reads() int64 {
	return s.reads.Load()
}
