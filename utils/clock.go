package utils

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
)

// SelectContextOrWaitClock is SelectContextOrWait from go.viam.com/utils driven by the given
// clock instead of wall time. It returns true if the full duration elapsed and false if the
// context finished first.
func SelectContextOrWaitClock(ctx context.Context, clk clock.Clock, dur time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	default:
	}
	timer := clk.Timer(dur)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
	}
	return true
}
