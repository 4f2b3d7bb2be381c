package stage

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-pedalfx/dsp/core"
	"github.com/cwbudde/algo-pedalfx/dsp/filter/biquad"
)

const (
	// MinFrequency is the lowest center frequency a Stage will design for.
	MinFrequency = 1.0
	// MaxFrequencyRatio bounds the center frequency to this fraction of the
	// sample rate.
	MaxFrequencyRatio = 0.49

	defaultFrequency = 100.0
	defaultQ         = 0.707
)

var (
	// ErrInvalidSampleRate is returned by Reset for non-positive or
	// non-finite sample rates.
	ErrInvalidSampleRate = errors.New("stage: invalid sample rate")
	// ErrInvalidChannels is returned by Reset for channel counts below one.
	ErrInvalidChannels = errors.New("stage: invalid channel count")
)

// Parameters describes a stage's design. The zero Kind is APF1.
type Parameters struct {
	Kind       Kind
	FcHz       float64
	Q          float64
	BoostCutDB float64
}

// DefaultParameters returns a first-order all-pass at 100 Hz.
func DefaultParameters() Parameters {
	return Parameters{Kind: APF1, FcHz: defaultFrequency, Q: defaultQ}
}

// Filter is a retunable multi-channel section.
type Filter interface {
	// SetParameters retunes the filter. Out-of-range values are clamped.
	SetParameters(p Parameters)
	Parameters() Parameters
	ProcessSample(x float64, ch int) float64
	// FeedbackCoefficient returns the instantaneous gain G of the section.
	FeedbackCoefficient() float64
	// StateValue returns the storage register S of channel ch.
	StateValue(ch int) float64
	Reset(sampleRate float64, channels int) error
}

var _ Filter = (*Stage)(nil)

// Stage is the biquad-backed Filter implementation.
type Stage struct {
	params     Parameters
	sampleRate float64
	bank       *biquad.Channels
}

// New returns a Stage that passes audio through until Reset is called.
func New(p Parameters) *Stage {
	s := &Stage{bank: biquad.NewChannels(biquad.Coefficients{B0: 1}, 0)}
	s.params = s.sanitize(p)

	return s
}

// Reset allocates per-channel state for the given format and redesigns the
// coefficients at the new sample rate.
func (s *Stage) Reset(sampleRate float64, channels int) error {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("stage sample rate %v: %w", sampleRate, ErrInvalidSampleRate)
	}

	if channels < 1 {
		return fmt.Errorf("stage channels %d: %w", channels, ErrInvalidChannels)
	}

	s.sampleRate = sampleRate
	s.params = s.sanitize(s.params)

	if s.bank.Len() == channels {
		s.bank.Reset()
	} else {
		s.bank = biquad.NewChannels(biquad.Coefficients{}, channels)
	}

	s.bank.SetCoefficients(strategies[s.params.Kind](s.params, sampleRate))

	return nil
}

// SetParameters retunes the stage without touching channel state. Before
// Reset only the parameters are stored.
func (s *Stage) SetParameters(p Parameters) {
	p = s.sanitize(p)
	if p == s.params && s.sampleRate > 0 {
		return
	}

	s.params = p
	if s.sampleRate > 0 {
		s.bank.SetCoefficients(strategies[p.Kind](p, s.sampleRate))
	}
}

// Parameters returns the clamped parameters in effect.
func (s *Stage) Parameters() Parameters {
	return s.params
}

// SampleRate returns the rate captured by the last Reset, or 0.
func (s *Stage) SampleRate() float64 {
	return s.sampleRate
}

// Coefficients returns the current section coefficients.
func (s *Stage) Coefficients() biquad.Coefficients {
	return s.bank.Coefficients()
}

// Response returns the complex frequency response of the current
// coefficients at freqHz. Before Reset the stage passes audio through and
// the response is 1.
func (s *Stage) Response(freqHz float64) complex128 {
	if s.sampleRate <= 0 {
		return 1
	}

	return s.Coefficients().Response(freqHz, s.sampleRate)
}

// ProcessSample filters x on channel ch. Unknown channels pass through.
func (s *Stage) ProcessSample(x float64, ch int) float64 {
	return s.bank.ProcessSample(x, ch)
}

// ProcessBlock filters buf in place on channel ch.
func (s *Stage) ProcessBlock(buf []float64, ch int) {
	s.bank.ProcessBlock(buf, ch)
}

// FeedbackCoefficient returns B0, the weight of the current input in the
// next output.
func (s *Stage) FeedbackCoefficient() float64 {
	return s.bank.Coefficients().B0
}

// StateValue returns the first DF2T register of channel ch.
func (s *Stage) StateValue(ch int) float64 {
	return s.bank.Storage(ch)
}

func (s *Stage) sanitize(p Parameters) Parameters {
	if !p.Kind.Valid() {
		p.Kind = APF1
	}

	maxFc := math.Inf(1)
	if s.sampleRate > 0 {
		maxFc = MaxFrequencyRatio * s.sampleRate
	}

	p.FcHz = core.ClampFinite(p.FcHz, MinFrequency, maxFc, defaultFrequency)

	if p.Q <= 0 || math.IsNaN(p.Q) || math.IsInf(p.Q, 0) {
		p.Q = defaultQ
	}

	if math.IsNaN(p.BoostCutDB) || math.IsInf(p.BoostCutDB, 0) {
		p.BoostCutDB = 0
	}

	return p
}
