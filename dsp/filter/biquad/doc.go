// Package biquad provides biquad (second-order IIR) filter runtime primitives.
//
// A [Section] implements Direct Form II Transposed processing for a single
// second-order section defined by [Coefficients]. [Channels] shares one
// coefficient set across several independent channel states, which is how
// the modulation engines keep per-channel filter memory without copying
// coefficients around.
//
// This package provides the processing runtime only. Coefficient design
// (allpass, shelving) lives in dsp/filter/design.
package biquad
