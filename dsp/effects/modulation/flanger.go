package modulation

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-pedalfx/dsp/core"
	"github.com/cwbudde/algo-pedalfx/dsp/delay"
	"github.com/cwbudde/algo-pedalfx/dsp/filter/stage"
	"github.com/cwbudde/algo-pedalfx/dsp/interp"
	"github.com/cwbudde/algo-pedalfx/dsp/lfo"
)

const (
	defaultFlangerDepth     = 100.0
	defaultFlangerRateHz    = 0.5
	defaultFlangerFeedback  = 50.0
	defaultFlangerBaseDelay = 0.0025
	defaultFlangerSweep     = 0.001

	maxFlangerFeedback = 99.0
	// maxFlangerDelaySeconds bounds BaseDelay and Sweep individually.
	maxFlangerDelaySeconds = 0.02
	// flangerBufferSeconds sizes the per-channel buffer for the longest
	// base delay plus the widest sweep.
	flangerBufferSeconds = 2 * maxFlangerDelaySeconds

	toneShelfHz = 150.0
	toneShelfDB = -6.0
)

// FlangerParameters is an immutable snapshot of the flanger controls.
type FlangerParameters struct {
	// Depth is the wet level added to the dry signal, in percent.
	Depth float64
	// RateHz is the LFO rate in [0, 20].
	RateHz float64
	// Feedback is the share of the delayed signal written back, in [0, 99]
	// percent.
	Feedback float64
	// Inverted subtracts the wet signal instead of adding it.
	Inverted bool
	Waveform lfo.Waveform
	// BaseDelay is the shortest delay in seconds.
	BaseDelay float64
	// Sweep is the LFO-controlled delay added on top of BaseDelay, in
	// seconds.
	Sweep float64
	// Tone enables the 150 Hz, -6 dB low shelf on the output.
	Tone bool
}

// DefaultFlangerParameters returns a 2.5 ms to 3.5 ms triangle sweep at
// half feedback.
func DefaultFlangerParameters() FlangerParameters {
	return FlangerParameters{
		Depth:     defaultFlangerDepth,
		RateHz:    defaultFlangerRateHz,
		Feedback:  defaultFlangerFeedback,
		Waveform:  lfo.Triangle,
		BaseDelay: defaultFlangerBaseDelay,
		Sweep:     defaultFlangerSweep,
	}
}

func (p FlangerParameters) clamped() FlangerParameters {
	p.Depth = core.ClampFinite(p.Depth, 0, 100, defaultFlangerDepth)
	p.RateHz = core.ClampFinite(p.RateHz, 0, maxRateHz, defaultFlangerRateHz)
	p.Feedback = core.ClampFinite(p.Feedback, 0, maxFlangerFeedback, defaultFlangerFeedback)
	p.BaseDelay = core.ClampFinite(p.BaseDelay, 0, maxFlangerDelaySeconds, defaultFlangerBaseDelay)
	p.Sweep = core.ClampFinite(p.Sweep, 0, maxFlangerDelaySeconds, defaultFlangerSweep)

	if !p.Waveform.Valid() {
		p.Waveform = lfo.Triangle
	}

	return p
}

func (p FlangerParameters) validate() error {
	if !validPercent(p.Depth) {
		return fmt.Errorf("flanger depth must be in [0, 100]: %f", p.Depth)
	}

	if !validRate(p.RateHz) {
		return fmt.Errorf("flanger rate must be in [0, %g]: %f", maxRateHz, p.RateHz)
	}

	if p.Feedback < 0 || p.Feedback > maxFlangerFeedback || math.IsNaN(p.Feedback) {
		return fmt.Errorf("flanger feedback must be in [0, %g]: %f", maxFlangerFeedback, p.Feedback)
	}

	if p.BaseDelay < 0 || p.BaseDelay > maxFlangerDelaySeconds || math.IsNaN(p.BaseDelay) {
		return fmt.Errorf("flanger base delay must be in [0, %g]: %f", maxFlangerDelaySeconds, p.BaseDelay)
	}

	if p.Sweep < 0 || p.Sweep > maxFlangerDelaySeconds || math.IsNaN(p.Sweep) {
		return fmt.Errorf("flanger sweep must be in [0, %g]: %f", maxFlangerDelaySeconds, p.Sweep)
	}

	if !p.Waveform.Valid() {
		return fmt.Errorf("flanger waveform out of range: %d", int(p.Waveform))
	}

	return nil
}

// FlangerOption mutates flanger construction parameters.
type FlangerOption func(*flangerConfig) error

type flangerConfig struct {
	params FlangerParameters
	mode   interp.Mode
}

// WithFlangerParameters replaces the whole parameter set.
func WithFlangerParameters(params FlangerParameters) FlangerOption {
	return func(cfg *flangerConfig) error {
		err := params.validate()
		if err != nil {
			return err
		}

		cfg.params = params

		return nil
	}
}

// WithFlangerDepth sets the wet level in percent.
func WithFlangerDepth(depth float64) FlangerOption {
	return func(cfg *flangerConfig) error {
		if !validPercent(depth) {
			return fmt.Errorf("flanger depth must be in [0, 100]: %f", depth)
		}

		cfg.params.Depth = depth

		return nil
	}
}

// WithFlangerRateHz sets the LFO rate in [0, 20] Hz.
func WithFlangerRateHz(rateHz float64) FlangerOption {
	return func(cfg *flangerConfig) error {
		if !validRate(rateHz) {
			return fmt.Errorf("flanger rate must be in [0, %g]: %f", maxRateHz, rateHz)
		}

		cfg.params.RateHz = rateHz

		return nil
	}
}

// WithFlangerFeedback sets the recirculation amount in [0, 99] percent.
func WithFlangerFeedback(feedback float64) FlangerOption {
	return func(cfg *flangerConfig) error {
		if feedback < 0 || feedback > maxFlangerFeedback || math.IsNaN(feedback) {
			return fmt.Errorf("flanger feedback must be in [0, %g]: %f", maxFlangerFeedback, feedback)
		}

		cfg.params.Feedback = feedback

		return nil
	}
}

// WithFlangerDelaySeconds sets the base delay and the LFO sweep width.
func WithFlangerDelaySeconds(base, sweep float64) FlangerOption {
	return func(cfg *flangerConfig) error {
		p := cfg.params
		p.BaseDelay = base
		p.Sweep = sweep

		err := p.validate()
		if err != nil {
			return err
		}

		cfg.params = p

		return nil
	}
}

// WithFlangerTone enables the low-shelf tone filter.
func WithFlangerTone(enabled bool) FlangerOption {
	return func(cfg *flangerConfig) error {
		cfg.params.Tone = enabled
		return nil
	}
}

// WithFlangerInterpolation selects the fractional delay read kernel.
// Cubic is the default.
func WithFlangerInterpolation(mode interp.Mode) FlangerOption {
	return func(cfg *flangerConfig) error {
		if !mode.Valid() {
			return fmt.Errorf("flanger interpolation mode out of range: %d", int(mode))
		}

		cfg.mode = mode

		return nil
	}
}

// Flanger mixes the input with a copy of itself delayed by a few
// milliseconds, the delay swept by a per-channel LFO.
type Flanger struct {
	params     FlangerParameters
	mode       interp.Mode
	sampleRate float64

	// Scale factors derived from params.
	wet      float64
	feedback float64

	arena [][]float64
	lines []delay.Line
	lfos  []lfo.Oscillator
	tone  *stage.Stage
}

// NewFlanger creates a flanger with default parameters and optional
// overrides. It passes audio through until Reset is called.
func NewFlanger(opts ...FlangerOption) (*Flanger, error) {
	cfg := flangerConfig{params: DefaultFlangerParameters(), mode: interp.ModeCubic}

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		err := opt(&cfg)
		if err != nil {
			return nil, err
		}
	}

	f := &Flanger{
		mode: cfg.mode,
		tone: stage.New(stage.Parameters{
			Kind:       stage.LowShelf1,
			FcHz:       toneShelfHz,
			BoostCutDB: toneShelfDB,
		}),
	}
	f.applyParameters(cfg.params.clamped())

	return f, nil
}

// Reset prepares the flanger for sampleRate and channels, allocating one
// delay buffer per channel. Buffer contents, write positions, LFO phases
// and tone filter registers are cleared.
func (f *Flanger) Reset(sampleRate float64, channels int) error {
	err := validateFormat("flanger", sampleRate, channels)
	if err != nil {
		return err
	}

	size := f.bufferSize(sampleRate)
	if len(f.arena) != channels || len(f.arena[0]) != size {
		f.arena = core.Arena(channels, size)
		f.lines = make([]delay.Line, channels)
	}

	for ch := range f.lines {
		f.lines[ch], err = delay.FromBuffer(f.arena[ch], delay.WithMode(f.mode))
		if err != nil {
			return fmt.Errorf("flanger channel %d: %w", ch, err)
		}
	}

	lfos, err := resetOscillators(f.lfos, channels, sampleRate, f.params.RateHz, f.params.Waveform)
	if err != nil {
		return fmt.Errorf("flanger: %w", err)
	}

	f.lfos = lfos

	err = f.tone.Reset(sampleRate, channels)
	if err != nil {
		return fmt.Errorf("flanger tone: %w", err)
	}

	f.sampleRate = sampleRate

	return nil
}

// bufferSize covers flangerBufferSeconds plus the interpolator's two-tap
// margin.
func (f *Flanger) bufferSize(sampleRate float64) int {
	return int(math.Ceil(flangerBufferSeconds*sampleRate)) + 4
}

// SetParameters applies params, clamping out-of-range values. Buffers and
// LFO phases are preserved.
func (f *Flanger) SetParameters(params FlangerParameters) {
	old := f.params
	f.applyParameters(params.clamped())

	if f.params.RateHz == old.RateHz && f.params.Waveform == old.Waveform {
		return
	}

	for ch := range f.lfos {
		f.lfos[ch].SetRateHz(f.params.RateHz)
		f.lfos[ch].SetWaveform(f.params.Waveform)
	}
}

func (f *Flanger) applyParameters(p FlangerParameters) {
	f.params = p
	f.wet = p.Depth / 100
	f.feedback = p.Feedback / 100

	if p.Inverted {
		f.wet = -f.wet
	}
}

// SetDepth sets the wet level in percent.
func (f *Flanger) SetDepth(depth float64) {
	p := f.params
	p.Depth = depth
	f.SetParameters(p)
}

// SetRateHz sets the LFO rate.
func (f *Flanger) SetRateHz(rateHz float64) {
	p := f.params
	p.RateHz = rateHz
	f.SetParameters(p)
}

// SetFeedback sets the recirculation amount in percent.
func (f *Flanger) SetFeedback(feedback float64) {
	p := f.params
	p.Feedback = feedback
	f.SetParameters(p)
}

// SetInverted flips the polarity of the wet signal.
func (f *Flanger) SetInverted(inverted bool) {
	p := f.params
	p.Inverted = inverted
	f.SetParameters(p)
}

// Parameters returns the parameters in effect.
func (f *Flanger) Parameters() FlangerParameters { return f.params }

// SampleRate returns the rate captured by the last Reset, or 0.
func (f *Flanger) SampleRate() float64 { return f.sampleRate }

// Channels returns the channel count prepared by the last Reset.
func (f *Flanger) Channels() int { return len(f.lines) }

// Interpolation returns the fractional delay read kernel.
func (f *Flanger) Interpolation() interp.Mode { return f.mode }

// DelaySamples returns the delay, in samples, at the current LFO phase of
// channel ch: the read offset of its most recent sample. Delays shorter
// than delay.MinFractionalDelay are reported, and read, at that minimum.
func (f *Flanger) DelaySamples(ch int) float64 {
	if ch < 0 || ch >= len(f.lines) {
		return 0
	}

	return f.readDelay(ch)
}

func (f *Flanger) readDelay(ch int) float64 {
	d := (f.params.BaseDelay + f.params.Sweep*f.lfos[ch].Render()) * f.sampleRate
	return f.lines[ch].ClampDelay(d)
}

// Process runs one sample of channel ch through the flanger.
func (f *Flanger) Process(ch int, x float64) float64 {
	if ch < 0 || ch >= len(f.lines) {
		return x
	}

	f.lfos[ch].Advance()

	line := &f.lines[ch]
	delayed := line.ReadFractional(f.readDelay(ch))

	out := x + delayed*f.wet
	line.Write(core.FlushDenormals(x + delayed*f.feedback))

	if f.params.Tone {
		out = f.tone.ProcessSample(out, ch)
	}

	return out
}

// ProcessSample is the float32 entry point used by audio hosts.
func (f *Flanger) ProcessSample(x float32, ch int) float32 {
	return float32(f.Process(ch, float64(x)))
}

// ProcessBlock applies the flanger to buf in place on channel ch.
func (f *Flanger) ProcessBlock(ch int, buf []float64) {
	for i := range buf {
		buf[i] = f.Process(ch, buf[i])
	}
}
