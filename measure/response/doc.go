// Package response measures the magnitude response of single-channel
// processors from their impulse response.
//
// Measure feeds a unit impulse through a processor, transforms the
// captured impulse response with an FFT and reports the level of every
// bin from DC to Nyquist in dB. Notches then locates the comb-filter dips
// that give phasers and flangers their sound.
//
// Time-varying processors must be frozen first (LFO rate 0), otherwise
// the result describes a sweep rather than a transfer function.
//
// # Usage
//
//	p, _ := modulation.NewPhaser(modulation.WithPhaserRateHz(0))
//	_ = p.Reset(48000, 1)
//	resp, err := response.Measure(p, 48000, 8192)
//	for _, n := range response.Notches(resp, 20) {
//		fmt.Printf("%.0f Hz: %.1f dB\n", n.FrequencyHz, n.LevelDB)
//	}
package response
