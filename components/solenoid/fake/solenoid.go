// Package fake implements an in-memory solenoid.
package fake

import (
	"context"
	"sync"

	"github.com/edaniels/golog"

	"github.com/ironcladrobotics/puncherbot/components/solenoid"
	"github.com/ironcladrobotics/puncherbot/resource"
)

const model = resource.Model("fake")

func init() {
	resource.RegisterComponent(
		solenoid.API,
		model,
		resource.Registration[solenoid.Solenoid, resource.NoNativeConfig]{
			Constructor: func(
				ctx context.Context,
				_ resource.Dependencies,
				conf resource.Config,
				logger golog.Logger,
			) (solenoid.Solenoid, error) {
				return NewSolenoid(conf.ResourceName()), nil
			},
		})
}

// A Solenoid remembers its position and how often it was written.
type Solenoid struct {
	resource.Named
	resource.TriviallyCloseable

	mu       sync.Mutex
	extended bool
	writes   int
}

// NewSolenoid returns a retracted fake solenoid.
func NewSolenoid(name resource.Name) *Solenoid {
	return &Solenoid{Named: name.AsNamed()}
}

// Set records the position.
func (s *Solenoid) Set(ctx context.Context, extended bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.extended = extended
	s.writes++
	return nil
}

// Extended returns the recorded position.
func (s *Solenoid) Extended(ctx context.Context) (bool, error) {
	return s.IsExtended(), nil
}

// IsExtended is Extended without a context.
func (s *Solenoid) IsExtended() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.extended
}

// Writes returns the number of Set calls.
func (s *Solenoid) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}
