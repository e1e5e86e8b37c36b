package input

import "github.com/pkg/errors"

// NewUnknownControlError returns an error for a control the controller does not provide.
func NewUnknownControlError(control Control) error {
	return errors.Errorf("unknown control %q", control)
}

// NewNotButtonError returns an error when an axis was configured where a button is required.
func NewNotButtonError(control Control) error {
	return errors.Errorf("control %q is not a button", control)
}
