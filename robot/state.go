package robot

import (
	"fmt"

	"go.uber.org/atomic"
)

// IntakeDirection is the desired spin of the intake rollers.
type IntakeDirection int32

// The intake directions.
const (
	IntakeForward IntakeDirection = iota
	IntakeBackward
	IntakeOff
)

func (d IntakeDirection) String() string {
	switch d {
	case IntakeForward:
		return "forward"
	case IntakeBackward:
		return "backward"
	case IntakeOff:
		return "off"
	default:
		return fmt.Sprintf("IntakeDirection(%d)", int32(d))
	}
}

// State is the actuator state shared between the puncher loop and the teleop dispatcher.
// Every field has a single writer, noted per field; readers may be on any goroutine.
type State struct {
	// ShotRequested is set by the dispatcher and cleared by the puncher once the shot is taken.
	ShotRequested atomic.Bool
	// InstantFire is written by the dispatcher only.
	InstantFire atomic.Bool
	// IntakeEngaged is written by the dispatcher only.
	IntakeEngaged atomic.Bool
	// PneumaticLeft and PneumaticRight track the intake guide pair; dispatcher only.
	PneumaticLeft  atomic.Bool
	PneumaticRight atomic.Bool
	// WallGuardUp is written by the dispatcher only.
	WallGuardUp atomic.Bool
	// ClutchEngaged is written by the dispatcher only.
	ClutchEngaged atomic.Bool

	intakeDirection atomic.Int32
}

// NewState returns the startup state: everything off and the intake set to spin forward.
func NewState() *State {
	st := &State{}
	st.SetIntakeDirection(IntakeForward)
	return st
}

// IntakeDirection returns the desired intake spin. Written by the dispatcher only.
func (st *State) IntakeDirection() IntakeDirection {
	return IntakeDirection(st.intakeDirection.Load())
}

// SetIntakeDirection sets the desired intake spin.
func (st *State) SetIntakeDirection(d IntakeDirection) {
	st.intakeDirection.Store(int32(d))
}

// RequestShot asks the puncher for one fire cycle. Requests made while one is pending
// collapse into it.
func (st *State) RequestShot() {
	st.ShotRequested.Store(true)
}

// TakeShot clears a pending request, reporting whether there was one.
func (st *State) TakeShot() bool {
	return st.ShotRequested.CompareAndSwap(true, false)
}

// StateSnapshot is a point in time copy of State.
type StateSnapshot struct {
	ShotRequested   bool
	InstantFire     bool
	IntakeEngaged   bool
	IntakeDirection IntakeDirection
	PneumaticLeft   bool
	PneumaticRight  bool
	WallGuardUp     bool
	ClutchEngaged   bool
}

// Snapshot copies every field. Fields are read one at a time, so a snapshot taken while the
// dispatcher is writing may mix old and new values.
func (st *State) Snapshot() StateSnapshot {
	return StateSnapshot{
		ShotRequested:   st.ShotRequested.Load(),
		InstantFire:     st.InstantFire.Load(),
		IntakeEngaged:   st.IntakeEngaged.Load(),
		IntakeDirection: st.IntakeDirection(),
		PneumaticLeft:   st.PneumaticLeft.Load(),
		PneumaticRight:  st.PneumaticRight.Load(),
		WallGuardUp:     st.WallGuardUp.Load(),
		ClutchEngaged:   st.ClutchEngaged.Load(),
	}
}
