// Package autonomous holds the named autonomous routines and runs the one the operator picked.
package autonomous

import (
	"context"
	"fmt"
	"sync"

	"github.com/edaniels/golog"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/ironcladrobotics/puncherbot/components/base"
	"github.com/ironcladrobotics/puncherbot/components/input"
	"github.com/ironcladrobotics/puncherbot/components/motor"
)

// A Routine is a scripted autonomous run.
type Routine struct {
	Name        string
	Description string
	Run         func(ctx context.Context) error
}

// DefaultRoutines returns the routines every robot starts with, in menu order.
func DefaultRoutines() []Routine {
	noop := func(ctx context.Context) error { return nil }
	return []Routine{
		{Name: "Skills", Description: "skills auton", Run: noop},
		{Name: "Left Side", Run: noop},
		{Name: "Win Point", Description: "roller, turn, go, turn, shoot, backup, turn, go, turn, roller", Run: noop},
		{Name: "Right Side", Description: "go, turn, shoot, backup, turn, go, roller", Run: noop},
		{Name: "Skills Safe", Description: "skills auton, safe", Run: noop},
		{Name: "Nothing", Run: noop},
	}
}

// Config configures autonomous mode.
type Config struct {
	// Routine is selected at startup. Empty selects the first routine.
	Routine string `json:"routine,omitempty"`
	// Base, if set, is stopped and set to coast before the routine runs.
	Base string `json:"base,omitempty"`
}

// A Selector is the menu of routines. The selection wraps around at either end.
type Selector struct {
	mu       sync.Mutex
	routines []Routine
	selected int
}

// NewSelector returns a selector holding routines, with the first selected.
func NewSelector(routines ...Routine) *Selector {
	s := &Selector{}
	for _, r := range routines {
		s.Add(r)
	}
	return s
}

// Add appends a routine to the menu.
func (s *Selector) Add(r Routine) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routines = append(s.routines, r)
}

// Names returns the routine names in menu order.
func (s *Selector) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.routines))
	for _, r := range s.routines {
		names = append(names, r.Name)
	}
	return names
}

// Selected returns the selected routine, if any.
func (s *Selector) Selected() (Routine, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.routines) == 0 {
		return Routine{}, false
	}
	return s.routines[s.selected], true
}

// Select selects the routine with the given name.
func (s *Selector) Select(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.routines {
		if r.Name == name {
			s.selected = i
			return nil
		}
	}
	return errors.Errorf("no autonomous routine named %q", name)
}

// Next selects the following routine.
func (s *Selector) Next() Routine {
	return s.move(1)
}

// Prev selects the previous routine.
func (s *Selector) Prev() Routine {
	return s.move(-1)
}

func (s *Selector) move(by int) Routine {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.routines) == 0 {
		return Routine{}
	}
	s.selected = (s.selected + by + len(s.routines)) % len(s.routines)
	return s.routines[s.selected]
}

// String prints the menu as a table, marking the selected routine.
func (s *Selector) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := table.NewWriter()
	t.AppendHeader(table.Row{"#", "Name", "Description", ""})
	for i, r := range s.routines {
		mark := ""
		if i == s.selected {
			mark = "*"
		}
		t.AppendRow(table.Row{fmt.Sprintf("%d", i+1), r.Name, r.Description, mark})
	}
	return t.Render()
}

// Show writes the selected routine's name to line 1 of the screen.
func (s *Selector) Show(ctx context.Context, screen input.Screen) error {
	r, ok := s.Selected()
	if !ok {
		return screen.SetText(ctx, 1, "no autonomous")
	}
	return screen.SetText(ctx, 1, "Auton: "+r.Name)
}

// Run runs the selected routine.
func (s *Selector) Run(ctx context.Context) error {
	r, ok := s.Selected()
	if !ok {
		return errors.New("no autonomous routine to run")
	}
	if r.Run == nil {
		return nil
	}
	return errors.Wrapf(r.Run(ctx), "autonomous routine %q", r.Name)
}

// A Runner is autonomous mode: it readies the drivetrain and runs the selected routine.
type Runner struct {
	Selector *Selector
	// Base may be nil.
	Base   base.Base
	Logger golog.Logger
}

// Run readies the base and runs the selected routine.
func (r *Runner) Run(ctx context.Context) error {
	if r.Base != nil {
		if err := multierr.Combine(
			r.Base.Stop(ctx),
			r.Base.SetBrakeMode(ctx, motor.BrakeModeCoast),
		); err != nil {
			return errors.Wrap(err, "failed to ready the base")
		}
	}
	if routine, ok := r.Selector.Selected(); ok && r.Logger != nil {
		r.Logger.Infow("running autonomous", "routine", routine.Name)
	}
	return r.Selector.Run(ctx)
}
