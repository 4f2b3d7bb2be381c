// Package modulation provides the pedal's two modulation engines.
//
// Included processors:
//   - Phaser: four first-order all-pass stages swept by an LFO, with a
//     feedback loop solved in closed form around the whole cascade.
//   - Flanger: a short LFO-modulated fractional delay with feedback and an
//     optional low-shelf tone filter.
//
// Both engines are multi-channel: Reset fixes the sample rate and channel
// count and preallocates every per-channel oscillator, register and delay
// buffer. The per-sample path never allocates, locks or fails; invalid
// parameters are clamped and unknown channels pass audio through.
// Engines are not safe for concurrent use.
package modulation
