// Package gamepad implements a Linux gamepad as an input controller, read through evdev.
package gamepad

import (
	"context"
	"sync"

	"github.com/ironcladrobotics/puncherbot/components/input"
)

// Config is used for converting config attributes.
type Config struct {
	// DevFile is the evdev node, e.g. /dev/input/event3. When empty the first device with
	// a known mapping is used.
	DevFile string `json:"dev_file,omitempty"`
	// Deadzone is the axis magnitude reported as centered.
	Deadzone float64 `json:"deadzone,omitempty"`
}

// Validate ensures all parts of the config are valid.
func (conf *Config) Validate(path string) ([]string, error) {
	return nil, nil
}

const defaultDeadzone = 0.05

// padState is the last known state of every control, fed by device events.
type padState struct {
	mu       sync.Mutex
	buttons  map[input.Control]bool
	axes     map[input.Control]float64
	deadzone float64
}

func newPadState(deadzone float64) *padState {
	if deadzone <= 0 {
		deadzone = defaultDeadzone
	}
	return &padState{
		buttons:  map[input.Control]bool{},
		axes:     map[input.Control]float64{},
		deadzone: deadzone,
	}
}

func (s *padState) setButton(control input.Control, pressed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buttons[control] = pressed
}

// setAxis scales a raw reading into -1..1. Hat axes also drive the matching d-pad buttons.
func (s *padState) setAxis(control input.Control, value, minValue, maxValue int32) {
	pos := scaleAxis(value, minValue, maxValue)
	if pos > -s.deadzone && pos < s.deadzone {
		pos = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.axes[control] = pos
	switch control {
	case input.AbsoluteHat0X:
		s.buttons[input.ButtonDpadLeft] = pos < 0
		s.buttons[input.ButtonDpadRight] = pos > 0
	case input.AbsoluteHat0Y:
		// evdev hats report up as negative
		s.buttons[input.ButtonDpadUp] = pos < 0
		s.buttons[input.ButtonDpadDown] = pos > 0
	default:
	}
}

func (s *padState) button(ctx context.Context, control input.Control) (bool, error) {
	if !control.IsButton() {
		return false, input.NewUnknownControlError(control)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buttons[control], nil
}

func (s *padState) axis(ctx context.Context, control input.Control) (float64, error) {
	if !control.IsAxis() {
		return 0, input.NewUnknownControlError(control)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.axes[control], nil
}

// reset releases everything, used when the device goes away.
func (s *padState) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buttons = map[input.Control]bool{}
	s.axes = map[input.Control]float64{}
}

func scaleAxis(x, inMin, inMax int32) float64 {
	if inMax == inMin {
		return 0
	}
	pos := float64(x-inMin)/float64(inMax-inMin)*2 - 1
	if pos > 1 {
		return 1
	}
	if pos < -1 {
		return -1
	}
	return pos
}
