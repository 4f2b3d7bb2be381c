package biquad

import (
	"math"
	"math/cmplx"
)

// Response evaluates the transfer function on the unit circle at freqHz.
func (c Coefficients) Response(freqHz, sampleRate float64) complex128 {
	zInv := cmplx.Rect(1, -2*math.Pi*freqHz/sampleRate)

	num := complex(c.B0, 0) + zInv*(complex(c.B1, 0)+zInv*complex(c.B2, 0))
	den := 1 + zInv*(complex(c.A1, 0)+zInv*complex(c.A2, 0))

	return num / den
}

// MagnitudeDB returns the gain at freqHz in decibels.
func (c Coefficients) MagnitudeDB(freqHz, sampleRate float64) float64 {
	return 20 * math.Log10(cmplx.Abs(c.Response(freqHz, sampleRate)))
}

// Phase returns the phase shift at freqHz in radians, in [-pi, pi].
func (c Coefficients) Phase(freqHz, sampleRate float64) float64 {
	return cmplx.Phase(c.Response(freqHz, sampleRate))
}

// CascadeResponse returns the response of sections run in series. An empty
// cascade is the identity.
func CascadeResponse(freqHz, sampleRate float64, sections ...Coefficients) complex128 {
	h := complex(1, 0)
	for _, c := range sections {
		h *= c.Response(freqHz, sampleRate)
	}

	return h
}
