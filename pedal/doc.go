// Package pedal hosts the phaser and flanger engines as a two-effect
// pedal board.
//
// A Board owns one engine of each kind and runs them in series on every
// channel, in either order, followed by a dry/wet crossfade and an output
// gain. Controls are addressed through a typed parameter table (ParamID)
// whose ranges and defaults match the hardware-style front panel: gain in
// dB, rates in Hz, depths and feedback in percent, and toggles stored as 0
// or 1.
//
// Presets serialize the table by parameter name as JSON, and Streamer
// adapts a Board to beep's stereo streaming interface.
package pedal
