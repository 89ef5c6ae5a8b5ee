package quote

import "math"

// IsStale reports whether a resting order has drifted more than
// maxDeviationBps away from the current fair price. Symmetric in direction.
func IsStale(orderPrice, fairPrice, maxDeviationBps float64) bool {
	return math.Abs(orderPrice-fairPrice)/fairPrice*10000 > maxDeviationBps
}
