package lfo

import (
	"fmt"
	"math"
	"strings"
)

// Waveform selects the oscillator shape.
type Waveform int

const (
	Sine Waveform = iota
	Triangle
	Sawtooth
	InverseSawtooth
	Parabola
)

var waveformNames = [...]string{
	Sine:            "sine",
	Triangle:        "triangle",
	Sawtooth:        "sawtooth",
	InverseSawtooth: "inverse-sawtooth",
	Parabola:        "parabola",
}

// String returns the lower-case waveform name.
func (w Waveform) String() string {
	if w < 0 || int(w) >= len(waveformNames) {
		return fmt.Sprintf("Waveform(%d)", int(w))
	}

	return waveformNames[w]
}

// Valid reports whether w names a known shape.
func (w Waveform) Valid() bool {
	return w >= 0 && int(w) < len(waveformNames)
}

// ParseWaveform resolves a waveform by name. Matching is case-insensitive and
// accepts "saw" and "inverse-saw" as short forms.
func ParseWaveform(name string) (Waveform, error) {
	switch n := strings.ToLower(strings.TrimSpace(name)); n {
	case "saw":
		return Sawtooth, nil
	case "inverse-saw", "invsaw":
		return InverseSawtooth, nil
	default:
		for i, candidate := range waveformNames {
			if candidate == n {
				return Waveform(i), nil
			}
		}
	}

	return Sine, fmt.Errorf("lfo: unknown waveform %q", name)
}

// At evaluates the waveform at phase, which must already lie in [0, 1).
// The result is unipolar in [0, 1]. Unknown waveforms render as Sine.
func (w Waveform) At(phase float64) float64 {
	switch w {
	case Triangle:
		switch {
		case phase < 0.25:
			return 0.5 + 2*phase
		case phase < 0.75:
			return 1 - 2*(phase-0.25)
		default:
			return 2 * (phase - 0.75)
		}
	case Sawtooth:
		if phase < 0.5 {
			return 0.5 + phase
		}
		return phase - 0.5
	case InverseSawtooth:
		if phase < 0.5 {
			return 0.5 - phase
		}
		return 1.5 - phase
	case Parabola:
		return 0.5 + 0.5*parabolicSine(math.Pi-2*math.Pi*phase)
	default:
		return 0.5 + 0.5*math.Sin(2*math.Pi*phase)
	}
}

// Bipolar maps a unipolar value in [0, 1] onto [-1, 1].
func Bipolar(u float64) float64 {
	return 2*u - 1
}

// parabolicSine approximates sin(x) for x in [-pi, pi] with two parabolic
// segments and one refinement step.
func parabolicSine(x float64) float64 {
	const (
		b = 4 / math.Pi
		c = -4 / (math.Pi * math.Pi)
		p = 0.225
	)

	y := b*x + c*x*math.Abs(x)

	return p*(y*math.Abs(y)-y) + y
}
