//go:build fastmath

package design

import "github.com/meko-christian/algo-approx"

// ln10Over20 converts dB to the natural exponent: 10^(x/20) = e^(x*ln10/20).
const ln10Over20 = 0.115129254649702284200899572734218210380

// dbToGain converts decibels to a linear amplitude factor using a fast
// exponential approximation.
func dbToGain(db float64) float64 {
	return approx.FastExp(db * ln10Over20)
}
