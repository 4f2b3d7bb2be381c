package core

import "math"

const defaultEpsilon = 1e-12

// Clamp limits value to the inclusive range [min, max].
func Clamp(value, min, max float64) float64 {
	if min > max {
		min, max = max, min
	}

	if value < min {
		return min
	}

	if value > max {
		return max
	}

	return value
}

// ClampFinite is Clamp with NaN mapped to fallback. Infinities clamp to the
// nearest bound.
func ClampFinite(value, min, max, fallback float64) float64 {
	if math.IsNaN(value) {
		return Clamp(fallback, min, max)
	}

	return Clamp(value, min, max)
}

// NearlyEqual reports whether a and b are equal within eps.
func NearlyEqual(a, b, eps float64) bool {
	if eps <= 0 {
		eps = defaultEpsilon
	}

	diff := math.Abs(a - b)
	if diff <= eps {
		return true
	}

	largest := math.Max(math.Abs(a), math.Abs(b))
	if largest == 0 {
		return diff <= eps
	}

	return diff/largest <= eps
}

// FlushDenormals converts tiny denormal-like values to exact zero.
// Feedback loops that decay toward silence otherwise spend their tail in
// subnormal arithmetic.
func FlushDenormals(x float64) float64 {
	const epsilon = 1e-30
	if x > -epsilon && x < epsilon {
		return 0
	}

	return x
}

// DBToLinear converts dB to linear amplitude (20*log10 convention).
func DBToLinear(db float64) float64 {
	return math.Pow(10, db/20)
}

// WrapPhase folds a normalized phase into [0, 1).
func WrapPhase(phase float64) float64 {
	if phase >= 0 && phase < 1 {
		return phase
	}

	phase -= math.Floor(phase)
	if phase >= 1 {
		// -tiny - floor(-tiny) rounds to exactly 1.
		phase = 0
	}

	return phase
}

// BipolarModulation maps mod in [-1, 1] onto [min, max] around the midpoint.
// mod is clamped first.
func BipolarModulation(mod, min, max float64) float64 {
	mod = Clamp(mod, -1, 1)
	half := (max - min) / 2

	return mod*half + min + half
}
