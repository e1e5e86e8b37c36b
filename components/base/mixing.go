package base

import "math"

// ArcadeToTank mixes throttle and turn into left and right powers. When either side would
// exceed full power both are scaled down together so the turn ratio is kept.
func ArcadeToTank(throttle, turn float64) (float64, float64) {
	left := throttle + turn
	right := throttle - turn
	if m := math.Max(math.Abs(left), math.Abs(right)); m > 1 {
		left /= m
		right /= m
	}
	return left, right
}
