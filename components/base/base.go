// Package base defines the drivetrain of the robot: a Base takes operator stick input every
// frame, and a Chassis additionally runs scripted motions for autonomous routines.
package base

import (
	"context"

	"github.com/ironcladrobotics/puncherbot/components/motor"
	"github.com/ironcladrobotics/puncherbot/resource"
)

// API is the resource API for bases.
const API = resource.API("base")

// A Base represents a physical base of a robot.
type Base interface {
	resource.Resource

	// Tank drives each side at the given power, -1 to 1.
	Tank(ctx context.Context, left, right float64) error

	// Arcade drives forward with throttle and turns clockwise with positive turn, -1 to 1 each.
	Arcade(ctx context.Context, throttle, turn float64) error

	// Stop stops the base.
	Stop(ctx context.Context) error

	// SetBrakeMode sets how every drive motor behaves when stopped.
	SetBrakeMode(ctx context.Context, mode motor.BrakeMode) error
}

// Side picks the pivot of a swing turn.
type Side int

// The sides.
const (
	SideLeft Side = iota
	SideRight
)

func (s Side) String() string {
	if s == SideLeft {
		return "left"
	}
	return "right"
}

// A Chassis is a Base that can also run closed-loop motions. Motions return as soon as they
// start; WaitDrive blocks until the current one is done.
type Chassis interface {
	Base

	// Drive moves straight for distanceMm (negative backwards) at up to speed, 0 to 1.
	Drive(ctx context.Context, distanceMm, speed float64) error

	// Turn spins in place by angleDeg (positive clockwise) at up to speed.
	Turn(ctx context.Context, angleDeg, speed float64) error

	// Swing turns by angleDeg pivoting about the given side.
	Swing(ctx context.Context, side Side, angleDeg, speed float64) error

	// WaitDrive blocks until the current motion finishes.
	WaitDrive(ctx context.Context) error

	// SetMaxSpeed changes the speed cap of the running motion and any later one.
	SetMaxSpeed(speed float64)
}

// Named is a helper for getting the named base's typed resource name.
func Named(name string) resource.Name {
	return resource.NewName(API, name)
}

// FromDependencies is a helper for getting the named base from a collection of
// dependencies.
func FromDependencies(deps resource.Dependencies, name string) (Base, error) {
	return resource.FromDependencies[Base](deps, Named(name))
}
