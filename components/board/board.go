// Package board defines the interfaces that typically live on a single-board computer
// or microcontroller that exposes GPIO pins.
package board

import (
	"github.com/ironcladrobotics/puncherbot/resource"
)

// API is the resource API for boards.
const API = resource.API("board")

// Named is a helper for getting the named board's typed resource name.
func Named(name string) resource.Name {
	return resource.NewName(API, name)
}

// A Board represents a physical general purpose board that contains GPIO pins.
type Board interface {
	resource.Resource

	// GPIOPinByName returns a GPIOPin by name.
	GPIOPinByName(name string) (GPIOPin, error)
}

// FromDependencies is a helper for getting the named board from a collection of
// dependencies.
func FromDependencies(deps resource.Dependencies, name string) (Board, error) {
	return resource.FromDependencies[Board](deps, Named(name))
}
