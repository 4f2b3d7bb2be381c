// Package lfo provides phase-accumulator low-frequency oscillators for
// modulation effects.
//
// An [Oscillator] is a small value type: engines that process several
// channels keep one Oscillator per channel so that each stream advances its
// own phase. Waveform values are unipolar in [0, 1]; use [Bipolar] to map
// them onto [-1, 1].
//
// Available shapes:
//
//   - [Sine]:            0.5 + 0.5*sin(2*pi*phase)
//   - [Triangle]:        piecewise-linear, symmetric about 0.25 and 0.75
//   - [Sawtooth]:        rising ramp split at phase 0.5
//   - [InverseSawtooth]: falling ramp split at phase 0.5
//   - [Parabola]:        parabolic approximation of the sine shape
package lfo
