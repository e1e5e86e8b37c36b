// Package fake implements a controller whose buttons and sticks are set by hand.
package fake

import (
	"context"
	"sync"

	"github.com/edaniels/golog"

	"github.com/ironcladrobotics/puncherbot/components/input"
	"github.com/ironcladrobotics/puncherbot/resource"
)

const model = resource.Model("fake")

func init() {
	resource.RegisterComponent(
		input.API,
		model,
		resource.Registration[input.Controller, resource.NoNativeConfig]{
			Constructor: func(
				ctx context.Context,
				_ resource.Dependencies,
				conf resource.Config,
				logger golog.Logger,
			) (input.Controller, error) {
				return NewController(conf.ResourceName()), nil
			},
		})
}

var (
	_ input.Controller = &Controller{}
	_ input.Screen     = &Controller{}
)

// A Controller holds button and axis state in memory and records screen text.
type Controller struct {
	resource.Named
	resource.TriviallyCloseable

	mu      sync.Mutex
	buttons map[input.Control]bool
	axes    map[input.Control]float64
	screen  map[int]string
}

// NewController returns a fake controller with nothing pressed.
func NewController(name resource.Name) *Controller {
	return &Controller{
		Named:   name.AsNamed(),
		buttons: map[input.Control]bool{},
		axes:    map[input.Control]float64{},
		screen:  map[int]string{},
	}
}

// Controls lists every known control.
func (c *Controller) Controls(ctx context.Context) ([]input.Control, error) {
	return append(append([]input.Control(nil), input.Axes...), input.Buttons...), nil
}

// Button returns whether the button was set as held.
func (c *Controller) Button(ctx context.Context, control input.Control) (bool, error) {
	if !control.IsButton() {
		return false, input.NewUnknownControlError(control)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buttons[control], nil
}

// Axis returns the set axis position.
func (c *Controller) Axis(ctx context.Context, control input.Control) (float64, error) {
	if !control.IsAxis() {
		return 0, input.NewUnknownControlError(control)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.axes[control], nil
}

// SetButton holds or releases a button.
func (c *Controller) SetButton(control input.Control, held bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.buttons[control] = held
}

// SetAxis moves an axis.
func (c *Controller) SetAxis(control input.Control, value float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.axes[control] = value
}

// Release lets go of every button and centers every axis.
func (c *Controller) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.buttons = map[input.Control]bool{}
	c.axes = map[input.Control]float64{}
}

// SetText records the line.
func (c *Controller) SetText(ctx context.Context, line int, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.screen[line] = text
	return nil
}

// Text returns what is shown on a line of the screen.
func (c *Controller) Text(line int) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.screen[line]
}
