package delay

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-pedalfx/dsp/core"
	"github.com/cwbudde/algo-pedalfx/dsp/interp"
)

// MinFractionalDelay is the shortest fractional read in samples. Below two
// samples the newest interpolation tap would wrap onto unwritten history.
const MinFractionalDelay = 2.0

// minSize leaves room for the four interpolation taps.
const minSize = 4

// ErrInvalidSize is returned for buffers too short to interpolate.
var ErrInvalidSize = errors.New("delay size too small")

// Option configures a Line.
type Option func(*Line) error

// WithMode selects the fractional read kernel. The default is cubic.
func WithMode(mode interp.Mode) Option {
	return func(d *Line) error {
		if !mode.Valid() {
			return fmt.Errorf("delay interpolation mode unknown: %d", int(mode))
		}

		d.mode = mode

		return nil
	}
}

// Line is a circular delay line.
type Line struct {
	buffer   []float64
	writePos int
	mode     interp.Mode
}

// FromBuffer builds a Line over caller-owned storage, typically one slice of
// a per-channel arena. The buffer is cleared.
func FromBuffer(buf []float64, opts ...Option) (Line, error) {
	if len(buf) < minSize {
		return Line{}, fmt.Errorf("%w: %d < %d", ErrInvalidSize, len(buf), minSize)
	}

	d := Line{buffer: buf}

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		err := opt(&d)
		if err != nil {
			return Line{}, err
		}
	}

	d.Reset()

	return d, nil
}

// Len returns internal buffer size.
func (d *Line) Len() int {
	return len(d.buffer)
}

// MaxDelay returns the longest fractional delay the line can serve.
func (d *Line) MaxDelay() float64 {
	return float64(len(d.buffer) - 2)
}

// WritePosition returns the index about to be written.
func (d *Line) WritePosition() int {
	return d.writePos
}

// Mode returns the fractional read kernel.
func (d *Line) Mode() interp.Mode {
	return d.mode
}

// Write stores one sample and advances the write position.
func (d *Line) Write(sample float64) {
	if len(d.buffer) == 0 {
		return
	}

	d.buffer[d.writePos] = sample

	d.writePos++
	if d.writePos >= len(d.buffer) {
		d.writePos = 0
	}
}

// ClampDelay limits delay to the range ReadFractional serves,
// [MinFractionalDelay, MaxDelay()]. NaN maps to MinFractionalDelay.
func (d *Line) ClampDelay(delay float64) float64 {
	if math.IsNaN(delay) {
		return MinFractionalDelay
	}

	return core.Clamp(delay, MinFractionalDelay, d.MaxDelay())
}

// ReadFractional reads at a fractional delay in samples using the line's
// interpolation kernel. A zero fractional part returns the stored sample
// exactly.
func (d *Line) ReadFractional(delay float64) float64 {
	size := len(d.buffer)
	if size == 0 {
		return 0
	}

	delay = d.ClampDelay(delay)

	pos := float64(d.writePos) - delay + float64(size)
	if pos >= float64(size) {
		pos -= float64(size)
	}

	i := int(pos)
	frac := pos - float64(i)

	prev := i - 1
	if prev < 0 {
		prev += size
	}

	next := i + 1
	if next >= size {
		next -= size
	}

	next2 := next + 1
	if next2 >= size {
		next2 -= size
	}

	return d.mode.Interpolate(frac, d.buffer[prev], d.buffer[i], d.buffer[next], d.buffer[next2])
}

// Process reads at delay, then writes sample. It returns the delayed value.
func (d *Line) Process(sample, delay float64) float64 {
	y := d.ReadFractional(delay)
	d.Write(sample)

	return y
}

// Reset clears line state.
func (d *Line) Reset() {
	core.Zero(d.buffer)
	d.writePos = 0
}
