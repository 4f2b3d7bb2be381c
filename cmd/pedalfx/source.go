package main

import (
	"fmt"
	"math"
	"os"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"

	"github.com/cwbudde/algo-pedalfx/dsp/core"
	"github.com/cwbudde/algo-pedalfx/dsp/lfo"
)

const toneAmplitude = 0.5

// openSource returns the input stream, its format and a close function.
func openSource(opts options) (beep.Streamer, beep.Format, func(), error) {
	if opts.in == "" {
		format := beep.Format{
			SampleRate:  beep.SampleRate(int(math.Round(opts.sampleRate))),
			NumChannels: 2,
			Precision:   2,
		}

		if format.SampleRate <= 0 {
			return nil, beep.Format{}, nil, fmt.Errorf("tone sample rate must be > 0: %f", opts.sampleRate)
		}

		frames := format.SampleRate.N(opts.duration)
		cliDebug("generating %d frames of %.1f Hz sawtooth at %d Hz", frames, opts.toneHz, format.SampleRate)

		return sawtoothTone(opts.toneHz, float64(format.SampleRate), frames), format, func() {}, nil
	}

	f, err := os.Open(opts.in)
	if err != nil {
		return nil, beep.Format{}, nil, err
	}

	s, format, err := wav.Decode(f)
	if err != nil {
		_ = f.Close()
		return nil, beep.Format{}, nil, fmt.Errorf("%s: %w", opts.in, err)
	}

	format.NumChannels = min(max(format.NumChannels, 1), 2)
	cliDebug("decoded %s: %d Hz, %d channels, %d frames", opts.in, format.SampleRate, format.NumChannels, s.Len())

	return s, format, func() { _ = s.Close() }, nil
}

// sawtoothTone streams a band-unlimited sawtooth on both channels for
// frames samples.
func sawtoothTone(freqHz, sampleRate float64, frames int) beep.Streamer {
	pos := 0

	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if pos >= frames {
			return 0, false
		}

		n := min(len(samples), frames-pos)
		for i := range n {
			phase := core.WrapPhase(float64(pos+i) * freqHz / sampleRate)
			v := toneAmplitude * lfo.Bipolar(lfo.Sawtooth.At(phase))
			samples[i][0] = v
			samples[i][1] = v
		}

		pos += n

		return n, true
	})
}
