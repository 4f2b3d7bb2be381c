package delay

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-pedalfx/dsp/interp"
	"github.com/cwbudde/algo-pedalfx/internal/testutil"
)

func newLine(t *testing.T, size int, opts ...Option) *Line {
	t.Helper()

	d, err := FromBuffer(make([]float64, size), opts...)
	if err != nil {
		t.Fatalf("FromBuffer(%d) error = %v", size, err)
	}

	return &d
}

// --- construction and validation ---

func TestFromBufferValidation(t *testing.T) {
	for _, size := range []int{0, 1, 3} {
		_, err := FromBuffer(make([]float64, size))
		if !errors.Is(err, ErrInvalidSize) {
			t.Fatalf("FromBuffer(len %d) error = %v, want ErrInvalidSize", size, err)
		}
	}

	if _, err := FromBuffer(nil); !errors.Is(err, ErrInvalidSize) {
		t.Fatalf("FromBuffer(nil) error = %v, want ErrInvalidSize", err)
	}

	if _, err := FromBuffer(make([]float64, 16), WithMode(interp.Mode(7))); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

func TestDefaults(t *testing.T) {
	d := newLine(t, 16)

	if d.Len() != 16 {
		t.Fatalf("Len: got %d want 16", d.Len())
	}

	if d.Mode() != interp.ModeCubic {
		t.Fatalf("default mode: got %v want cubic", d.Mode())
	}

	if d.MaxDelay() != 14 {
		t.Fatalf("MaxDelay: got %v want 14", d.MaxDelay())
	}
}

func TestFromBufferClearsStorage(t *testing.T) {
	buf := []float64{1, 2, 3, 4, 5}

	d, err := FromBuffer(buf, WithMode(interp.ModeLinear))
	if err != nil {
		t.Fatal(err)
	}

	for i, v := range buf {
		if v != 0 {
			t.Fatalf("buf[%d] = %v after FromBuffer, want 0", i, v)
		}
	}

	d.Write(9)
	if buf[0] != 9 {
		t.Fatal("Line does not write through to caller storage")
	}
}

// --- writes ---

func TestWriteWrapsAround(t *testing.T) {
	d := newLine(t, 8)

	for i := range 8 {
		d.Write(float64(i + 1))
	}

	if d.WritePosition() != 0 {
		t.Fatalf("write position = %d, want 0 after a full cycle", d.WritePosition())
	}

	// The newest sample, 8, sits one slot behind the write position.
	for delay := 2; delay <= int(d.MaxDelay()); delay++ {
		want := float64(8 - delay + 1)
		if got := d.ReadFractional(float64(delay)); got != want {
			t.Fatalf("ReadFractional(%d) = %v, want %v", delay, got, want)
		}
	}

	d.Write(9)
	if d.WritePosition() != 1 || d.ReadFractional(2) != 8 {
		t.Fatalf("after wrap: write position %d, ReadFractional(2) = %v", d.WritePosition(), d.ReadFractional(2))
	}
}

// --- fractional reads ---

func TestReadFractionalIntegerIdentity(t *testing.T) {
	d := newLine(t, 32)

	signal := testutil.DeterministicNoise(7, 1, 50)
	for _, x := range signal {
		d.Write(x)
	}

	for delay := 2; delay <= 30; delay++ {
		want := signal[len(signal)-delay]
		if got := d.ReadFractional(float64(delay)); got != want {
			t.Fatalf("ReadFractional(%d) = %v, want exactly %v", delay, got, want)
		}
	}
}

func TestReadFractionalOnRamp(t *testing.T) {
	for _, mode := range []interp.Mode{interp.ModeCubic, interp.ModeLinear} {
		d := newLine(t, 64, WithMode(mode))

		for i := range 40 {
			d.Write(float64(i))
		}

		// Newest sample is 39 at delay 1; delay 4.25 sits between 35 and 36.
		got := d.ReadFractional(4.25)
		if math.Abs(got-35.75) > 1e-12 {
			t.Fatalf("%v: ReadFractional(4.25) = %v, want 35.75", mode, got)
		}
	}
}

func TestReadFractionalWrapsAtWritePositionZero(t *testing.T) {
	d := newLine(t, 8)

	// Fill a full cycle so the write position lands back on 0.
	for i := range 8 {
		d.Write(float64(10 * (i + 1)))
	}

	if d.WritePosition() != 0 {
		t.Fatalf("write position = %d, want 0", d.WritePosition())
	}

	// Read position 0 - 6 + 8 = 2.
	if got := d.ReadFractional(6); got != 30 {
		t.Fatalf("ReadFractional(6) = %v, want 30", got)
	}

	// Read position 6: the second forward tap wraps to index 0.
	if got := d.ReadFractional(2); got != 70 {
		t.Fatalf("ReadFractional(2) = %v, want 70", got)
	}

	got := d.ReadFractional(2.5)
	if want := interp.Hermite4(0.5, 50, 60, 70, 80); math.Abs(got-want) > 1e-12 {
		t.Fatalf("ReadFractional(2.5) = %v, want %v", got, want)
	}
}

func TestReadFractionalPreviousTapWraps(t *testing.T) {
	d := newLine(t, 8)

	for x := 1; x <= 11; x++ {
		d.Write(float64(x))
	}

	// buffer = [9 10 11 4 5 6 7 8], write position 3.
	if d.WritePosition() != 3 {
		t.Fatalf("write position = %d, want 3", d.WritePosition())
	}

	// Position 0.5: taps at indices 7, 0, 1, 2 = 8, 9, 10, 11.
	got := d.ReadFractional(2.5)
	if math.Abs(got-9.5) > 1e-12 {
		t.Fatalf("ReadFractional(2.5) = %v, want 9.5", got)
	}

	// Position 0 exactly returns the stored sample.
	d.Write(12)
	d.Write(13)
	d.Write(14) // buffer = [9 10 11 12 13 14 7 8], write position 6.

	if got := d.ReadFractional(6); got != 9 {
		t.Fatalf("ReadFractional(6) = %v, want 9", got)
	}
}

func TestReadFractionalClamps(t *testing.T) {
	d := newLine(t, 16)

	for i := range 16 {
		d.Write(float64(i))
	}

	if got, want := d.ReadFractional(0.2), d.ReadFractional(MinFractionalDelay); got != want {
		t.Fatalf("short delay not clamped: %v vs %v", got, want)
	}

	if got, want := d.ReadFractional(1000), d.ReadFractional(d.MaxDelay()); got != want {
		t.Fatalf("long delay not clamped: %v vs %v", got, want)
	}

	if got := d.ReadFractional(math.NaN()); math.IsNaN(got) {
		t.Fatal("NaN delay produced NaN output")
	}
}

func TestClampDelay(t *testing.T) {
	d := newLine(t, 16)

	tests := []struct {
		in, want float64
	}{
		{0, MinFractionalDelay},
		{-3, MinFractionalDelay},
		{math.NaN(), MinFractionalDelay},
		{2.5, 2.5},
		{14, 14},
		{math.Inf(1), 14},
	}

	for _, tt := range tests {
		if got := d.ClampDelay(tt.in); got != tt.want {
			t.Fatalf("ClampDelay(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestProcessRoundTrip(t *testing.T) {
	const delay = 37

	d := newLine(t, 64)

	input := testutil.DeterministicSine(440, 48000, 0.8, 500)
	output := make([]float64, len(input))

	for i, x := range input {
		output[i] = d.Process(x, delay)
	}

	for i := range output {
		want := 0.0
		if i >= delay {
			want = input[i-delay]
		}

		if output[i] != want {
			t.Fatalf("sample %d: got %v want %v", i, output[i], want)
		}
	}
}

func TestReset(t *testing.T) {
	d := newLine(t, 8)

	for i := range 5 {
		d.Write(float64(i + 1))
	}

	d.Reset()

	if d.WritePosition() != 0 {
		t.Fatalf("write position = %d, want 0", d.WritePosition())
	}

	for delay := 2; delay <= int(d.MaxDelay()); delay++ {
		if got := d.ReadFractional(float64(delay)); got != 0 {
			t.Fatalf("ReadFractional(%d) = %v after reset, want 0", delay, got)
		}
	}
}

func TestZeroValueLineIsSilent(t *testing.T) {
	var d Line

	d.Write(1)

	if got := d.ReadFractional(3); got != 0 {
		t.Fatalf("zero Line ReadFractional = %v, want 0", got)
	}
}
