// Package design computes biquad coefficients for the all-pass and shelving
// sections used by the modulation effects.
//
// Every designer returns [biquad.Coefficients] normalized to a0 = 1.
// First-order designs leave B2 and A2 at zero. Invalid frequencies or sample
// rates produce the zero value, which callers are expected to prevent by
// clamping fc into (0, Nyquist) first.
package design
