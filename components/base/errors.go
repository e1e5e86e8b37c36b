package base

import "github.com/pkg/errors"

// NewMotionUnsupportedError returns an error for a base that cannot run scripted motions.
func NewMotionUnsupportedError(baseName string) error {
	return errors.Errorf("base named %s does not support scripted motions", baseName)
}

// NewInvalidSpeedError returns an error for a motion speed outside of (0, 1].
func NewInvalidSpeedError(speed float64) error {
	return errors.Errorf("speed %.3f must be within (0, 1]", speed)
}
