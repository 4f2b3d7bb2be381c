package pedal

import (
	"fmt"

	"github.com/GeoffreyPlitt/debuggo"
	vecmath "github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-pedalfx/dsp/core"
	"github.com/cwbudde/algo-pedalfx/dsp/effects/modulation"
)

var boardDebug = debuggo.Debug("pedalfx:board")

// Board runs a phaser and a flanger in series on every channel, followed
// by a dry/wet crossfade and an output gain stage.
//
// A Board is not safe for concurrent use. SetParam must not race with
// ProcessBlock.
type Board struct {
	cfg    core.ProcessorConfig
	values values

	phaser  *modulation.Phaser
	flanger *modulation.Flanger

	phaserRT  phaserRuntime
	flangerRT flangerRuntime

	// Processing order for each routing value.
	phaserFirst  [2]runtime
	flangerFirst [2]runtime

	dry []float64
}

// NewBoard creates a board with the default parameter values and prepares
// it for the configured sample rate and channel count.
func NewBoard(opts ...core.ProcessorOption) (*Board, error) {
	phaser, err := modulation.NewPhaser()
	if err != nil {
		return nil, fmt.Errorf("pedal: %w", err)
	}

	flanger, err := modulation.NewFlanger()
	if err != nil {
		return nil, fmt.Errorf("pedal: %w", err)
	}

	b := &Board{
		cfg:     core.ApplyProcessorOptions(opts...),
		values:  defaultValues(),
		phaser:  phaser,
		flanger: flanger,
	}
	b.phaserRT = phaserRuntime{fx: phaser}
	b.flangerRT = flangerRuntime{fx: flanger}
	b.phaserFirst = [2]runtime{&b.phaserRT, &b.flangerRT}
	b.flangerFirst = [2]runtime{&b.flangerRT, &b.phaserRT}

	b.phaserRT.Configure(&b.values)
	b.flangerRT.Configure(&b.values)

	err = b.Reset(b.cfg.SampleRate, b.cfg.Channels)
	if err != nil {
		return nil, err
	}

	return b, nil
}

// Reset prepares both engines for sampleRate and channels and clears all
// their state. Parameter values are kept.
func (b *Board) Reset(sampleRate float64, channels int) error {
	ctx := Context{SampleRate: sampleRate, Channels: channels}

	for _, rt := range b.phaserFirst {
		err := rt.Reset(ctx)
		if err != nil {
			return fmt.Errorf("pedal: %w", err)
		}
	}

	b.cfg.SampleRate = sampleRate
	b.cfg.Channels = channels
	b.dry = core.EnsureLen(b.dry, b.cfg.BlockSize)

	boardDebug("reset sr=%.0f channels=%d block=%d", sampleRate, channels, b.cfg.BlockSize)

	return nil
}

// SetParam stores v, clamped to the parameter's range, and forwards it to
// the engine it belongs to. Engine state is preserved.
func (b *Board) SetParam(id ParamID, v float64) error {
	info, err := id.Info()
	if err != nil {
		return err
	}

	b.values[id] = info.Clamp(v)

	switch id {
	case ParamPhaserRate, ParamPhaserDepth, ParamPhaserIntensity,
		ParamPhaserQuadPhase, ParamPhaserFeedbackSwitch:
		b.phaserRT.Configure(&b.values)
	case ParamFlangerDepth, ParamFlangerRate, ParamFlangerFeedback,
		ParamFlangerInverted, ParamFlangerTone:
		b.flangerRT.Configure(&b.values)
	}

	return nil
}

// Param returns the stored value of id, or 0 for unknown ids.
func (b *Board) Param(id ParamID) float64 {
	if !id.Valid() {
		return 0
	}

	return b.values[id]
}

// Snapshot returns every parameter keyed by name.
func (b *Board) Snapshot() map[string]float64 {
	out := make(map[string]float64, numParams)
	for i, info := range paramTable {
		out[info.Name] = b.values[i]
	}

	return out
}

// SampleRate returns the rate prepared by the last Reset.
func (b *Board) SampleRate() float64 { return b.cfg.SampleRate }

// Channels returns the channel count prepared by the last Reset.
func (b *Board) Channels() int { return b.cfg.Channels }

// BlockSize returns the block length the scratch buffer is sized for.
func (b *Board) BlockSize() int { return b.cfg.BlockSize }

// Phaser exposes the phaser engine for inspection.
func (b *Board) Phaser() *modulation.Phaser { return b.phaser }

// Flanger exposes the flanger engine for inspection.
func (b *Board) Flanger() *modulation.Flanger { return b.flanger }

// ProcessBlock processes each channel slice in place. Slices beyond the
// prepared channel count are left untouched. Blocks longer than BlockSize
// grow the scratch buffer once.
func (b *Board) ProcessBlock(channels [][]float64) {
	order := b.phaserFirst
	if b.values.on(ParamRouting) {
		order = b.flangerFirst
	}

	gain := core.DBToLinear(b.values[ParamGain])
	wet := b.values[ParamDryWet] / 100

	for ch, buf := range channels {
		if ch >= b.cfg.Channels || len(buf) == 0 {
			continue
		}

		if len(buf) > cap(b.dry) {
			b.dry = make([]float64, len(buf))
		}

		dry := b.dry[:len(buf)]
		copy(dry, buf)

		for _, rt := range order {
			if !rt.Bypassed(&b.values) {
				rt.Process(ch, buf)
			}
		}

		vecmath.ScaleBlockInPlace(buf, wet)
		vecmath.ScaleBlockInPlace(dry, 1-wet)
		vecmath.AddMulBlock(buf, buf, dry, gain)
	}
}
