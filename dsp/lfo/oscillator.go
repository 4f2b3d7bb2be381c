package lfo

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-pedalfx/dsp/core"
)

// ErrInvalidSampleRate is returned for non-positive or non-finite sample rates.
var ErrInvalidSampleRate = errors.New("lfo: sample rate must be > 0 and finite")

// quadOffset is the phase shift of the quadrature output (90 degrees).
const quadOffset = 0.25

// Option mutates oscillator construction parameters.
type Option func(*Oscillator) error

// WithRateHz sets the oscillation rate in Hz. Zero freezes the phase.
func WithRateHz(rateHz float64) Option {
	return func(o *Oscillator) error {
		if rateHz < 0 || math.IsNaN(rateHz) || math.IsInf(rateHz, 0) {
			return fmt.Errorf("lfo rate must be >= 0 and finite: %f", rateHz)
		}

		o.rateHz = rateHz

		return nil
	}
}

// WithWaveform selects the oscillator shape.
func WithWaveform(w Waveform) Option {
	return func(o *Oscillator) error {
		if !w.Valid() {
			return fmt.Errorf("lfo waveform out of range: %d", int(w))
		}

		o.waveform = w

		return nil
	}
}

// WithPhase sets the start phase; it is wrapped into [0, 1).
func WithPhase(phase float64) Option {
	return func(o *Oscillator) error {
		if math.IsNaN(phase) || math.IsInf(phase, 0) {
			return fmt.Errorf("lfo phase must be finite: %f", phase)
		}

		o.start = core.WrapPhase(phase)

		return nil
	}
}

// Oscillator is a phase-accumulator LFO. The zero value is a silent sine
// oscillator with rate 0; configure it with New or the setters.
type Oscillator struct {
	sampleRate float64
	rateHz     float64
	inc        float64
	waveform   Waveform

	start float64
	phase float64
}

// New creates an oscillator for the given sample rate.
func New(sampleRate float64, opts ...Option) (Oscillator, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return Oscillator{}, fmt.Errorf("%w: %f", ErrInvalidSampleRate, sampleRate)
	}

	o := Oscillator{sampleRate: sampleRate, rateHz: 1}

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		err := opt(&o)
		if err != nil {
			return Oscillator{}, err
		}
	}

	o.phase = o.start
	o.updateIncrement()

	return o, nil
}

// SetSampleRate changes the sample rate used to derive the phase increment.
// Invalid rates are ignored.
func (o *Oscillator) SetSampleRate(sampleRate float64) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return
	}

	o.sampleRate = sampleRate
	o.updateIncrement()
}

// SetRateHz sets the rate, clamped to [0, sampleRate/2]. NaN leaves the
// rate unchanged.
func (o *Oscillator) SetRateHz(rateHz float64) {
	if math.IsNaN(rateHz) {
		return
	}

	o.rateHz = math.Max(rateHz, 0)
	o.updateIncrement()
}

// SetWaveform selects the shape. Unknown values are ignored.
func (o *Oscillator) SetWaveform(w Waveform) {
	if w.Valid() {
		o.waveform = w
	}
}

// SetPhase jumps to phase, wrapped into [0, 1).
func (o *Oscillator) SetPhase(phase float64) {
	if math.IsNaN(phase) || math.IsInf(phase, 0) {
		return
	}

	o.phase = core.WrapPhase(phase)
}

// Reset returns the phase to its start value.
func (o *Oscillator) Reset() {
	o.phase = o.start
}

// Advance moves the phase forward by rate/sampleRate.
func (o *Oscillator) Advance() {
	o.AdvanceBy(o.inc)
}

// AdvanceBy moves the phase forward by an explicit increment in cycles.
func (o *Oscillator) AdvanceBy(inc float64) {
	o.phase += inc
	if o.phase >= 1 || o.phase < 0 {
		o.phase = core.WrapPhase(o.phase)
	}
}

// Render returns the unipolar waveform value at the current phase.
func (o *Oscillator) Render() float64 {
	return o.waveform.At(o.phase)
}

// Quad returns the waveform value a quarter cycle ahead of the current phase.
func (o *Oscillator) Quad() float64 {
	return o.waveform.At(core.WrapPhase(o.phase + quadOffset))
}

// Phase returns the current phase in [0, 1).
func (o *Oscillator) Phase() float64 { return o.phase }

// RateHz returns the configured rate in Hz.
func (o *Oscillator) RateHz() float64 { return o.rateHz }

// Increment returns the per-sample phase increment in cycles.
func (o *Oscillator) Increment() float64 { return o.inc }

// Waveform returns the selected shape.
func (o *Oscillator) Waveform() Waveform { return o.waveform }

// SampleRate returns the sample rate in Hz.
func (o *Oscillator) SampleRate() float64 { return o.sampleRate }

func (o *Oscillator) updateIncrement() {
	if o.sampleRate <= 0 {
		o.inc = 0
		return
	}

	o.rateHz = math.Min(o.rateHz, o.sampleRate/2)
	o.inc = o.rateHz / o.sampleRate
}
