//go:build !fastmath

package design

import "math"

// dbToGain converts decibels to a linear amplitude factor.
func dbToGain(db float64) float64 {
	return math.Pow(10, db/20)
}
