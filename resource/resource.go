// Package resource contains the naming, configuration, and registry shared by every
// component the robot is built from.
package resource

import (
	"context"
	"fmt"
)

// API identifies a kind of resource, e.g. "motor" or "board".
type API string

// Model identifies a particular implementation of an API, e.g. "gpio" or "fake".
type Model string

// Name uniquely identifies a resource on the robot.
type Name struct {
	API  API
	Name string
}

// NewName creates a new resource name.
func NewName(api API, name string) Name {
	return Name{API: api, Name: name}
}

// String returns the fully qualified name.
func (n Name) String() string {
	return fmt.Sprintf("%s/%s", n.API, n.Name)
}

// AsNamed returns a Named implementation for this name.
func (n Name) AsNamed() Named {
	return selfNamed{n}
}

// A Resource is the base of every component on the robot.
type Resource interface {
	Name() Name

	// Close must safely shut down the resource and prevent further use.
	Close(ctx context.Context) error
}

// Named is to be embedded by any resource that just needs to return a name.
type Named interface {
	Name() Name
}

type selfNamed struct {
	name Name
}

func (n selfNamed) Name() Name {
	return n.name
}

// TriviallyCloseable is to be embedded by any resource that does not care about
// handling Closes.
type TriviallyCloseable struct{}

// Close always returns no error.
func (TriviallyCloseable) Close(ctx context.Context) error {
	return nil
}
