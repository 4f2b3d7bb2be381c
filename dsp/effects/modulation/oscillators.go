package modulation

import "github.com/cwbudde/algo-pedalfx/dsp/lfo"

// resetOscillators restarts one oscillator per channel at phase zero with
// the given rate and shape. When the channel count is unchanged the
// existing oscillators are retuned in place.
func resetOscillators(lfos []lfo.Oscillator, channels int, sampleRate, rateHz float64, w lfo.Waveform) ([]lfo.Oscillator, error) {
	if len(lfos) != channels {
		osc, err := lfo.New(sampleRate, lfo.WithRateHz(rateHz), lfo.WithWaveform(w))
		if err != nil {
			return nil, err
		}

		lfos = make([]lfo.Oscillator, channels)
		for ch := range lfos {
			lfos[ch] = osc
		}

		return lfos, nil
	}

	for ch := range lfos {
		osc := &lfos[ch]
		osc.SetSampleRate(sampleRate)
		osc.SetRateHz(rateHz)
		osc.SetWaveform(w)
		osc.SetPhase(0)
	}

	return lfos, nil
}
