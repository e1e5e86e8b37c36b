// Package solenoid defines single-acting pneumatic valves, and the left/right pairs the
// robot's guides, wall and clutch are built from.
package solenoid

import (
	"context"

	"github.com/ironcladrobotics/puncherbot/resource"
)

// API is the resource API for solenoids.
const API = resource.API("solenoid")

// A Solenoid extends its cylinder while energized.
type Solenoid interface {
	resource.Resource

	// Set extends (true) or retracts (false) the cylinder.
	Set(ctx context.Context, extended bool) error

	// Extended returns the last commanded position.
	Extended(ctx context.Context) (bool, error)
}

// Named is a helper for getting the named solenoid's typed resource name.
func Named(name string) resource.Name {
	return resource.NewName(API, name)
}

// FromDependencies is a helper for getting the named solenoid from a collection of
// dependencies.
func FromDependencies(deps resource.Dependencies, name string) (Solenoid, error) {
	return resource.FromDependencies[Solenoid](deps, Named(name))
}
