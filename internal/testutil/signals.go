package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine generates a sine wave starting at phase zero.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}

	return out
}

// Sawtooth generates a naive rising sawtooth in [-amplitude, amplitude),
// the harmonically rich tone modulation effects are usually auditioned with.
func Sawtooth(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	inc := freqHz / sampleRate
	for i := range out {
		phase := float64(i) * inc
		phase -= math.Floor(phase)
		out[i] = amplitude * (2*phase - 1)
	}

	return out
}

// DeterministicNoise generates white noise with a fixed seed.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}

	return out
}

// Impulse generates a unit impulse at pos. An out-of-range pos yields silence.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}

	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}

	return out
}

// RMS returns the root-mean-square level of data, or 0 when empty.
func RMS(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}

	sum := 0.0
	for _, v := range data {
		sum += v * v
	}

	return math.Sqrt(sum / float64(len(data)))
}

// Peak returns the largest absolute sample value.
func Peak(data []float64) float64 {
	peak := 0.0
	for _, v := range data {
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}

	return peak
}
