package modulation

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidSampleRate is returned for non-positive or non-finite
	// sample rates.
	ErrInvalidSampleRate = errors.New("modulation: invalid sample rate")
	// ErrInvalidChannels is returned for channel counts below one.
	ErrInvalidChannels = errors.New("modulation: invalid channel count")
)

func validateFormat(name string, sampleRate float64, channels int) error {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("%w: %s sample rate must be > 0 and finite: %f", ErrInvalidSampleRate, name, sampleRate)
	}

	if channels < 1 {
		return fmt.Errorf("%w: %s channels must be >= 1: %d", ErrInvalidChannels, name, channels)
	}

	return nil
}

func validPercent(v float64) bool {
	return v >= 0 && v <= 100 && !math.IsNaN(v)
}

func validRate(v float64) bool {
	return v >= 0 && v <= maxRateHz && !math.IsNaN(v)
}
