package inject

import (
	"context"

	"github.com/ironcladrobotics/puncherbot/components/input"
)

// Controller is an injected input controller.
type Controller struct {
	input.Controller
	ControlsFunc func(ctx context.Context) ([]input.Control, error)
	ButtonFunc   func(ctx context.Context, control input.Control) (bool, error)
	AxisFunc     func(ctx context.Context, control input.Control) (float64, error)
}

// Controls calls the injected function or the real version.
func (c *Controller) Controls(ctx context.Context) ([]input.Control, error) {
	if c.ControlsFunc == nil {
		return c.Controller.Controls(ctx)
	}
	return c.ControlsFunc(ctx)
}

// Button calls the injected function or the real version.
func (c *Controller) Button(ctx context.Context, control input.Control) (bool, error) {
	if c.ButtonFunc == nil {
		return c.Controller.Button(ctx, control)
	}
	return c.ButtonFunc(ctx, control)
}

// Axis calls the injected function or the real version.
func (c *Controller) Axis(ctx context.Context, control input.Control) (float64, error) {
	if c.AxisFunc == nil {
		return c.Controller.Axis(ctx, control)
	}
	return c.AxisFunc(ctx, control)
}
