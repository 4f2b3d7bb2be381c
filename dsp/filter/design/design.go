package design

import (
	"math"

	"github.com/cwbudde/algo-pedalfx/dsp/filter/biquad"
)

const defaultQ = 1 / math.Sqrt2

// FirstOrderAllpass designs the first-order all-pass
//
//	H(z) = (g + z^-1) / (1 + g*z^-1),  g = (tan(pi*fc/fs) - 1) / (tan(pi*fc/fs) + 1)
//
// Its phase passes through -90 degrees at freq. |g| < 1 for every freq in
// (0, Nyquist).
func FirstOrderAllpass(freq, sampleRate float64) biquad.Coefficients {
	if _, ok := normalizedW0(freq, sampleRate); !ok {
		return biquad.Coefficients{}
	}

	t := math.Tan(math.Pi * freq / sampleRate)
	g := (t - 1) / (t + 1)

	return biquad.Coefficients{B0: g, B1: 1, A1: g}
}

// FirstOrderLowShelf designs a first-order low shelf with gainDB of boost or
// cut below freq. The gain at Nyquist is unity.
func FirstOrderLowShelf(freq, gainDB, sampleRate float64) biquad.Coefficients {
	w0, ok := normalizedW0(freq, sampleRate)
	if !ok {
		return biquad.Coefficients{}
	}

	mu := dbToGain(gainDB)
	beta := 4 / (1 + mu)
	delta := beta * math.Tan(w0/2)
	gamma := (1 - delta) / (1 + delta)

	// Unity-DC first-order lowpass, blended as 1 + (mu-1)*LP.
	a0 := (1 - gamma) / 2
	a1 := a0
	b1 := -gamma
	c0 := mu - 1

	return biquad.Coefficients{
		B0: 1 + c0*a0,
		B1: b1 + c0*a1,
		A1: b1,
	}
}

// Allpass designs a second-order all-pass biquad centered at freq (Hz).
func Allpass(freq, q, sampleRate float64) biquad.Coefficients {
	w0, ok := normalizedW0(freq, sampleRate)
	if !ok {
		return biquad.Coefficients{}
	}

	q = normalizedQ(q)
	cosW := math.Cos(w0)
	sinW := math.Sin(w0)
	alpha := sinW / (2 * q)

	b0 := 1 - alpha
	b1 := -2 * cosW
	b2 := 1 + alpha
	a0 := 1 + alpha
	a1 := -2 * cosW
	a2 := 1 - alpha

	return normalizeBiquad(b0, b1, b2, a0, a1, a2)
}

// LowShelf designs a second-order low-shelf biquad with gain in dB.
func LowShelf(freq, gainDB, q, sampleRate float64) biquad.Coefficients {
	w0, ok := normalizedW0(freq, sampleRate)
	if !ok {
		return biquad.Coefficients{}
	}

	q = normalizedQ(q)
	cw := math.Cos(w0)
	sw := math.Sin(w0)
	alpha := sw / (2 * q)
	a := dbToGain(gainDB / 2)
	beta := 2 * math.Sqrt(a) * alpha

	b0 := a * ((a + 1) - (a-1)*cw + beta)
	b1 := 2 * a * ((a - 1) - (a+1)*cw)
	b2 := a * ((a + 1) - (a-1)*cw - beta)
	a0 := (a + 1) + (a-1)*cw + beta
	a1 := -2 * ((a - 1) + (a+1)*cw)
	a2 := (a + 1) + (a-1)*cw - beta

	return normalizeBiquad(b0, b1, b2, a0, a1, a2)
}

func normalizedW0(freq, sampleRate float64) (float64, bool) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return 0, false
	}

	nyquist := sampleRate / 2
	if freq <= 0 || freq >= nyquist || math.IsNaN(freq) || math.IsInf(freq, 0) {
		return 0, false
	}

	return 2 * math.Pi * freq / sampleRate, true
}

func normalizedQ(q float64) float64 {
	if q <= 0 || math.IsNaN(q) || math.IsInf(q, 0) {
		return defaultQ
	}

	return q
}

func normalizeBiquad(b0, b1, b2, a0, a1, a2 float64) biquad.Coefficients {
	if a0 == 0 || math.IsNaN(a0) || math.IsInf(a0, 0) {
		return biquad.Coefficients{}
	}

	return biquad.Coefficients{
		B0: b0 / a0,
		B1: b1 / a0,
		B2: b2 / a0,
		A1: a1 / a0,
		A2: a2 / a0,
	}
}
