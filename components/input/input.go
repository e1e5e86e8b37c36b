// Package input defines the operator controllers the robot is driven from. Controllers are
// polled: a reader asks for the current state of a button or axis once per frame.
package input

import (
	"context"

	"github.com/ironcladrobotics/puncherbot/resource"
)

// API is the resource API for input controllers.
const API = resource.API("input_controller")

// Control identifies an input (usually an axis or button).
type Control string

// Axes.
const (
	AbsoluteX     Control = "AbsoluteX"
	AbsoluteY     Control = "AbsoluteY"
	AbsoluteZ     Control = "AbsoluteZ"
	AbsoluteRX    Control = "AbsoluteRX"
	AbsoluteRY    Control = "AbsoluteRY"
	AbsoluteRZ    Control = "AbsoluteRZ"
	AbsoluteHat0X Control = "AbsoluteHat0X"
	AbsoluteHat0Y Control = "AbsoluteHat0Y"
)

// Buttons. The face buttons follow compass positions, so on a controller labelled
// X/A/B/Y clockwise from the top, X is ButtonNorth and Y is ButtonWest.
const (
	ButtonSouth     Control = "ButtonSouth"
	ButtonEast      Control = "ButtonEast"
	ButtonWest      Control = "ButtonWest"
	ButtonNorth     Control = "ButtonNorth"
	ButtonLT        Control = "ButtonLT"
	ButtonRT        Control = "ButtonRT"
	ButtonLT2       Control = "ButtonLT2"
	ButtonRT2       Control = "ButtonRT2"
	ButtonLThumb    Control = "ButtonLThumb"
	ButtonRThumb    Control = "ButtonRThumb"
	ButtonSelect    Control = "ButtonSelect"
	ButtonStart     Control = "ButtonStart"
	ButtonMenu      Control = "ButtonMenu"
	ButtonDpadUp    Control = "ButtonDpadUp"
	ButtonDpadDown  Control = "ButtonDpadDown"
	ButtonDpadLeft  Control = "ButtonDpadLeft"
	ButtonDpadRight Control = "ButtonDpadRight"
)

// Axes lists every axis control.
var Axes = []Control{
	AbsoluteX, AbsoluteY, AbsoluteZ, AbsoluteRX, AbsoluteRY, AbsoluteRZ, AbsoluteHat0X, AbsoluteHat0Y,
}

// Buttons lists every button control.
var Buttons = []Control{
	ButtonSouth, ButtonEast, ButtonWest, ButtonNorth,
	ButtonLT, ButtonRT, ButtonLT2, ButtonRT2, ButtonLThumb, ButtonRThumb,
	ButtonSelect, ButtonStart, ButtonMenu,
	ButtonDpadUp, ButtonDpadDown, ButtonDpadLeft, ButtonDpadRight,
}

// IsButton reports whether the control is a known button.
func (c Control) IsButton() bool {
	for _, b := range Buttons {
		if b == c {
			return true
		}
	}
	return false
}

// IsAxis reports whether the control is a known axis.
func (c Control) IsAxis() bool {
	for _, a := range Axes {
		if a == c {
			return true
		}
	}
	return false
}

// A Controller is a logical "container" more than an actual device.
// Could be a single gamepad or a fake driven by tests.
type Controller interface {
	resource.Resource

	// Controls returns a list of Controls provided by the Controller
	Controls(ctx context.Context) ([]Control, error)

	// Button returns whether a button is currently held down.
	Button(ctx context.Context, control Control) (bool, error)

	// Axis returns the current position of an axis, -1.0 to +1.0.
	Axis(ctx context.Context, control Control) (float64, error)
}

// A Screen is implemented by controllers with a status display.
type Screen interface {
	// SetText replaces the given line of the display.
	SetText(ctx context.Context, line int, text string) error
}

// Named is a helper for getting the named input controller's typed resource name.
func Named(name string) resource.Name {
	return resource.NewName(API, name)
}

// FromDependencies is a helper for getting the named input controller from a collection of
// dependencies.
func FromDependencies(deps resource.Dependencies, name string) (Controller, error) {
	return resource.FromDependencies[Controller](deps, Named(name))
}
