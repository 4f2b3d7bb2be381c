package modulation

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-pedalfx/dsp/core"
	"github.com/cwbudde/algo-pedalfx/dsp/filter/stage"
	"github.com/cwbudde/algo-pedalfx/dsp/lfo"
)

const (
	// PhaserStages is the fixed length of the all-pass cascade.
	PhaserStages = 4

	defaultPhaserRateHz    = 0.5
	defaultPhaserDepth     = 100.0
	defaultPhaserIntensity = 75.0

	maxRateHz = 20.0

	// minLoopDenominator keeps 1 + K*gamma4 away from zero.
	minLoopDenominator = 1e-6
)

// phaserBand is the sweep range of one stage, in Hz.
type phaserBand struct {
	minHz, maxHz float64
}

// Stage 0 sweeps the lowest band, stage 3 the highest.
var phaserBands = [PhaserStages]phaserBand{
	{16, 1600},
	{33, 3300},
	{48, 4800},
	{98, 9800},
}

// Centre frequencies the stages hold until the first sample is processed.
var phaserBaseFrequencies = [PhaserStages]float64{100, 200, 400, 800}

// PhaserVoicing selects the dry/wet summing ratio of the phaser output.
type PhaserVoicing int

const (
	// VoicingBalanced sums dry and wet at -3 dB each.
	VoicingBalanced PhaserVoicing = iota
	// VoicingVintage uses the 0.125 dry / 1.25 wet ratio of the classic
	// discrete-transistor phaser circuit.
	VoicingVintage
)

var phaserMix = [...]struct{ dry, wet float64 }{
	VoicingBalanced: {0.707, 0.707},
	VoicingVintage:  {0.125, 1.25},
}

func (v PhaserVoicing) String() string {
	switch v {
	case VoicingBalanced:
		return "balanced"
	case VoicingVintage:
		return "vintage"
	default:
		return "unknown"
	}
}

// Valid reports whether v names a known voicing.
func (v PhaserVoicing) Valid() bool {
	return v >= 0 && int(v) < len(phaserMix)
}

// PhaserParameters is an immutable snapshot of the phaser controls.
type PhaserParameters struct {
	// RateHz is the LFO rate in [0, 20].
	RateHz float64
	// Depth scales the LFO sweep, in percent.
	Depth float64
	// Intensity is the loop feedback K, in percent.
	Intensity float64
	// QuadPhase drives the stages from the LFO's 90 degree output.
	QuadPhase bool
	// FeedbackSwitch limits the feedback sum to the first two stages.
	FeedbackSwitch bool
	Voicing        PhaserVoicing
	Waveform       lfo.Waveform
}

// DefaultPhaserParameters returns a slow, deep sine sweep at 75 % intensity.
func DefaultPhaserParameters() PhaserParameters {
	return PhaserParameters{
		RateHz:    defaultPhaserRateHz,
		Depth:     defaultPhaserDepth,
		Intensity: defaultPhaserIntensity,
		Voicing:   VoicingBalanced,
		Waveform:  lfo.Sine,
	}
}

// clamped returns p with every field forced into range. NaN falls back to
// the default.
func (p PhaserParameters) clamped() PhaserParameters {
	p.RateHz = core.ClampFinite(p.RateHz, 0, maxRateHz, defaultPhaserRateHz)
	p.Depth = core.ClampFinite(p.Depth, 0, 100, defaultPhaserDepth)
	p.Intensity = core.ClampFinite(p.Intensity, 0, 100, defaultPhaserIntensity)

	if !p.Voicing.Valid() {
		p.Voicing = VoicingBalanced
	}

	if !p.Waveform.Valid() {
		p.Waveform = lfo.Sine
	}

	return p
}

// PhaserOption mutates phaser construction parameters.
type PhaserOption func(*PhaserParameters) error

// WithPhaserParameters replaces the whole parameter set.
func WithPhaserParameters(params PhaserParameters) PhaserOption {
	return func(p *PhaserParameters) error {
		if !validRate(params.RateHz) || !validPercent(params.Depth) || !validPercent(params.Intensity) {
			return fmt.Errorf("phaser parameters out of range: %+v", params)
		}

		if !params.Voicing.Valid() || !params.Waveform.Valid() {
			return fmt.Errorf("phaser voicing or waveform out of range: %+v", params)
		}

		*p = params

		return nil
	}
}

// WithPhaserRateHz sets the LFO rate in [0, 20] Hz.
func WithPhaserRateHz(rateHz float64) PhaserOption {
	return func(p *PhaserParameters) error {
		if !validRate(rateHz) {
			return fmt.Errorf("phaser rate must be in [0, %g]: %f", maxRateHz, rateHz)
		}

		p.RateHz = rateHz

		return nil
	}
}

// WithPhaserDepth sets the sweep depth in percent.
func WithPhaserDepth(depth float64) PhaserOption {
	return func(p *PhaserParameters) error {
		if !validPercent(depth) {
			return fmt.Errorf("phaser depth must be in [0, 100]: %f", depth)
		}

		p.Depth = depth

		return nil
	}
}

// WithPhaserIntensity sets the loop feedback in percent.
func WithPhaserIntensity(intensity float64) PhaserOption {
	return func(p *PhaserParameters) error {
		if !validPercent(intensity) {
			return fmt.Errorf("phaser intensity must be in [0, 100]: %f", intensity)
		}

		p.Intensity = intensity

		return nil
	}
}

// WithPhaserQuadPhase drives the stages from the quadrature LFO output.
func WithPhaserQuadPhase(enabled bool) PhaserOption {
	return func(p *PhaserParameters) error {
		p.QuadPhase = enabled
		return nil
	}
}

// WithPhaserFeedbackSwitch selects the two-stage feedback sum.
func WithPhaserFeedbackSwitch(enabled bool) PhaserOption {
	return func(p *PhaserParameters) error {
		p.FeedbackSwitch = enabled
		return nil
	}
}

// WithPhaserVoicing selects the output mix ratio.
func WithPhaserVoicing(v PhaserVoicing) PhaserOption {
	return func(p *PhaserParameters) error {
		if !v.Valid() {
			return fmt.Errorf("phaser voicing out of range: %d", int(v))
		}

		p.Voicing = v

		return nil
	}
}

// WithPhaserWaveform selects the LFO shape.
func WithPhaserWaveform(w lfo.Waveform) PhaserOption {
	return func(p *PhaserParameters) error {
		if !w.Valid() {
			return fmt.Errorf("phaser waveform out of range: %d", int(w))
		}

		p.Waveform = w

		return nil
	}
}

// Phaser is a four-stage all-pass phaser. Each stage is swept through its
// own band by a per-channel LFO, and the cascade output is fed back to its
// input through a closed-form solution of the delay-free loop.
type Phaser struct {
	params     PhaserParameters
	sampleRate float64

	lfos   []lfo.Oscillator
	stages [PhaserStages]*stage.Stage
}

// NewPhaser creates a phaser with default parameters and optional
// overrides. It passes audio through until Reset is called.
func NewPhaser(opts ...PhaserOption) (*Phaser, error) {
	params := DefaultPhaserParameters()

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		err := opt(&params)
		if err != nil {
			return nil, err
		}
	}

	p := &Phaser{params: params.clamped()}
	for i := range p.stages {
		p.stages[i] = stage.New(stage.Parameters{Kind: stage.APF1, FcHz: phaserBaseFrequencies[i]})
	}

	return p, nil
}

// Reset prepares the phaser for sampleRate and channels. All LFO phases
// and filter registers are cleared and the stages return to their base
// frequencies.
func (p *Phaser) Reset(sampleRate float64, channels int) error {
	err := validateFormat("phaser", sampleRate, channels)
	if err != nil {
		return err
	}

	lfos, err := resetOscillators(p.lfos, channels, sampleRate, p.params.RateHz, p.params.Waveform)
	if err != nil {
		return fmt.Errorf("phaser: %w", err)
	}

	p.lfos = lfos

	for i, s := range p.stages {
		s.SetParameters(stage.Parameters{Kind: stage.APF1, FcHz: phaserBaseFrequencies[i]})

		err = s.Reset(sampleRate, channels)
		if err != nil {
			return fmt.Errorf("phaser stage %d: %w", i, err)
		}
	}

	p.sampleRate = sampleRate

	return nil
}

// SetParameters applies params, clamping out-of-range values. Filter
// state and LFO phase are preserved.
func (p *Phaser) SetParameters(params PhaserParameters) {
	params = params.clamped()
	old := p.params
	p.params = params

	if params.RateHz == old.RateHz && params.Waveform == old.Waveform {
		return
	}

	for ch := range p.lfos {
		p.lfos[ch].SetRateHz(params.RateHz)
		p.lfos[ch].SetWaveform(params.Waveform)
	}
}

// Parameters returns the parameters in effect.
func (p *Phaser) Parameters() PhaserParameters { return p.params }

// SampleRate returns the rate captured by the last Reset, or 0.
func (p *Phaser) SampleRate() float64 { return p.sampleRate }

// Channels returns the channel count prepared by the last Reset.
func (p *Phaser) Channels() int { return len(p.lfos) }

// StageFrequency returns the current centre frequency of stage i in Hz.
func (p *Phaser) StageFrequency(i int) float64 {
	if i < 0 || i >= PhaserStages {
		return 0
	}

	return p.stages[i].Parameters().FcHz
}

// loopGain returns 1 / (1 + k*gamma4), the gain that resolves the
// delay-free feedback loop. With |g| < 1 per stage and k <= 1 the
// denominator stays above zero; the clamp only guards against a stage
// reporting |g| >= 1.
func loopGain(k, gamma4 float64) float64 {
	den := 1 + k*gamma4
	if math.Abs(den) < minLoopDenominator {
		den = math.Copysign(minLoopDenominator, den)
	}

	return 1 / den
}

// Process runs one sample of channel ch through the phaser.
func (p *Phaser) Process(ch int, x float64) float64 {
	if ch < 0 || ch >= len(p.lfos) {
		return x
	}

	osc := &p.lfos[ch]
	osc.Advance()

	u := osc.Render()
	if p.params.QuadPhase {
		u = osc.Quad()
	}

	mod := lfo.Bipolar(u) * p.params.Depth / 100

	var g [PhaserStages]float64
	for i, s := range p.stages {
		band := phaserBands[i]
		s.SetParameters(stage.Parameters{
			Kind: stage.APF1,
			FcHz: core.BipolarModulation(mod, band.minHz, band.maxHz),
		})
		g[i] = s.FeedbackCoefficient()
	}

	// Cumulative gains from each stage's input to the cascade output.
	gamma1 := g[3]
	gamma2 := g[2] * gamma1
	gamma3 := g[1] * gamma2
	gamma4 := g[0] * gamma3

	k := p.params.Intensity / 100
	alpha0 := loopGain(k, gamma4)

	sn := gamma3*p.stages[0].StateValue(ch) + gamma2*p.stages[1].StateValue(ch)
	if !p.params.FeedbackSwitch {
		sn += gamma1*p.stages[2].StateValue(ch) + p.stages[3].StateValue(ch)
	}

	y := alpha0 * (x + k*sn)
	for _, s := range p.stages {
		y = s.ProcessSample(y, ch)
	}

	mix := phaserMix[p.params.Voicing]

	return mix.dry*x + mix.wet*y
}

// ProcessSample is the float32 entry point used by audio hosts.
func (p *Phaser) ProcessSample(x float32, ch int) float32 {
	return float32(p.Process(ch, float64(x)))
}

// ProcessBlock applies the phaser to buf in place on channel ch.
func (p *Phaser) ProcessBlock(ch int, buf []float64) {
	for i := range buf {
		buf[i] = p.Process(ch, buf[i])
	}
}
