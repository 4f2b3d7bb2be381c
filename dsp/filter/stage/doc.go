// Package stage wraps a retunable filter section behind the [Filter]
// interface consumed by the modulation effects.
//
// A [Stage] holds one coefficient set, chosen by [Kind], and one register
// pair per channel. Retuning every sample is allocation-free. The all-pass
// kinds expose the section's instantaneous gain G and storage S, so a
// caller can predict the next output as G*x + S and solve a feedback loop
// around a cascade in closed form.
package stage
