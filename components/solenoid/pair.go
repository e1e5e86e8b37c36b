package solenoid

import (
	"context"

	"go.uber.org/multierr"
)

// A Pair is two solenoids that usually move together.
type Pair struct {
	Left, Right Solenoid
}

// Set moves both sides.
func (p Pair) Set(ctx context.Context, extended bool) error {
	return multierr.Combine(
		p.SetLeft(ctx, extended),
		p.SetRight(ctx, extended),
	)
}

// SetLeft moves the left side only.
func (p Pair) SetLeft(ctx context.Context, extended bool) error {
	if p.Left == nil {
		return nil
	}
	return p.Left.Set(ctx, extended)
}

// SetRight moves the right side only.
func (p Pair) SetRight(ctx context.Context, extended bool) error {
	if p.Right == nil {
		return nil
	}
	return p.Right.Set(ctx, extended)
}
