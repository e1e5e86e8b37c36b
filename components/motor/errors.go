package motor

import "github.com/pkg/errors"

// NewPowerOutOfRangeError returns an error for a power outside of [-1, 1].
func NewPowerOutOfRangeError(powerPct float64) error {
	return errors.Errorf("power %.3f is out of range, must be within [-1, 1]", powerPct)
}

// NewMissingPinError returns an error for a gpio motor configured without the pins it needs.
func NewMissingPinError(path string) error {
	return errors.Errorf("%s: motor pin configuration requires either a/b or dir/pwm", path)
}
