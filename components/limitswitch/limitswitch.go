// Package limitswitch defines binary position sensors such as the switch that reports
// when the puncher arm is cocked.
package limitswitch

import (
	"context"

	"github.com/ironcladrobotics/puncherbot/resource"
)

// API is the resource API for limit switches.
const API = resource.API("limit_switch")

// A Switch reports whether a mechanism is resting against it.
type Switch interface {
	resource.Resource

	// Pressed returns true while the mechanism is at its rest position.
	Pressed(ctx context.Context) (bool, error)
}

// Named is a helper for getting the named switch's typed resource name.
func Named(name string) resource.Name {
	return resource.NewName(API, name)
}

// FromDependencies is a helper for getting the named switch from a collection of
// dependencies.
func FromDependencies(deps resource.Dependencies, name string) (Switch, error) {
	return resource.FromDependencies[Switch](deps, Named(name))
}
