package pedal

import (
	"github.com/cwbudde/algo-pedalfx/dsp/effects/modulation"
)

// Context carries the stream format the runtimes are prepared for.
type Context struct {
	SampleRate float64
	Channels   int
}

// runtime adapts one effect engine to the board's parameter table.
type runtime interface {
	Reset(ctx Context) error
	Configure(v *values)
	Bypassed(v *values) bool
	Process(ch int, block []float64)
}

type phaserRuntime struct {
	fx *modulation.Phaser
}

func (r *phaserRuntime) Reset(ctx Context) error {
	return r.fx.Reset(ctx.SampleRate, ctx.Channels)
}

func (r *phaserRuntime) Configure(v *values) {
	p := r.fx.Parameters()
	p.RateHz = v[ParamPhaserRate]
	p.Depth = v[ParamPhaserDepth]
	p.Intensity = v[ParamPhaserIntensity]
	p.QuadPhase = v.on(ParamPhaserQuadPhase)
	p.FeedbackSwitch = v.on(ParamPhaserFeedbackSwitch)
	r.fx.SetParameters(p)
}

func (r *phaserRuntime) Bypassed(v *values) bool {
	return v.on(ParamPhaserBypass)
}

func (r *phaserRuntime) Process(ch int, block []float64) {
	r.fx.ProcessBlock(ch, block)
}

type flangerRuntime struct {
	fx *modulation.Flanger
}

func (r *flangerRuntime) Reset(ctx Context) error {
	return r.fx.Reset(ctx.SampleRate, ctx.Channels)
}

func (r *flangerRuntime) Configure(v *values) {
	p := r.fx.Parameters()
	p.Depth = v[ParamFlangerDepth]
	p.RateHz = v[ParamFlangerRate]
	p.Feedback = v[ParamFlangerFeedback]
	p.Inverted = v.on(ParamFlangerInverted)
	p.Tone = v.on(ParamFlangerTone)
	r.fx.SetParameters(p)
}

func (r *flangerRuntime) Bypassed(v *values) bool {
	return v.on(ParamFlangerBypass)
}

func (r *flangerRuntime) Process(ch int, block []float64) {
	r.fx.ProcessBlock(ch, block)
}
