package modulation

import (
	"errors"
	"math"
	"math/cmplx"
	"testing"

	"github.com/cwbudde/algo-pedalfx/dsp/core"
	"github.com/cwbudde/algo-pedalfx/dsp/filter/biquad"
	"github.com/cwbudde/algo-pedalfx/dsp/filter/design"
	"github.com/cwbudde/algo-pedalfx/dsp/lfo"
	"github.com/cwbudde/algo-pedalfx/internal/testutil"
)

func newTestPhaser(t *testing.T, sampleRate float64, channels int, opts ...PhaserOption) *Phaser {
	t.Helper()

	p, err := NewPhaser(opts...)
	if err != nil {
		t.Fatalf("NewPhaser() error = %v", err)
	}

	err = p.Reset(sampleRate, channels)
	if err != nil {
		t.Fatalf("Reset() error = %v", err)
	}

	return p
}

func runPhaser(p *Phaser, ch int, in []float64) []float64 {
	out := make([]float64, len(in))
	for i, x := range in {
		out[i] = p.Process(ch, x)
	}

	return out
}

func TestPhaserValidation(t *testing.T) {
	tests := []struct {
		name string
		opt  PhaserOption
	}{
		{"negative rate", WithPhaserRateHz(-1)},
		{"rate too high", WithPhaserRateHz(50)},
		{"nan depth", WithPhaserDepth(math.NaN())},
		{"depth above 100", WithPhaserDepth(101)},
		{"negative intensity", WithPhaserIntensity(-5)},
		{"bad voicing", WithPhaserVoicing(PhaserVoicing(9))},
		{"bad waveform", WithPhaserWaveform(lfo.Waveform(-1))},
		{"bad parameter set", WithPhaserParameters(PhaserParameters{RateHz: 1, Depth: 200})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewPhaser(tt.opt); err == nil {
				t.Fatal("NewPhaser() expected error")
			}
		})
	}

	p, err := NewPhaser(nil)
	if err != nil {
		t.Fatalf("nil option: %v", err)
	}

	if err := p.Reset(0, 2); !errors.Is(err, ErrInvalidSampleRate) {
		t.Fatalf("Reset(0, 2) = %v, want ErrInvalidSampleRate", err)
	}

	if err := p.Reset(44100, 0); !errors.Is(err, ErrInvalidChannels) {
		t.Fatalf("Reset(44100, 0) = %v, want ErrInvalidChannels", err)
	}
}

func TestPhaserPassthroughWhenUnprepared(t *testing.T) {
	p, err := NewPhaser()
	if err != nil {
		t.Fatal(err)
	}

	if got := p.Process(0, 0.3); got != 0.3 {
		t.Fatalf("before Reset: got %v, want 0.3", got)
	}

	p = newTestPhaser(t, 44100, 2)
	for _, ch := range []int{-1, 2, 17} {
		if got := p.ProcessSample(0.25, ch); got != 0.25 {
			t.Fatalf("channel %d: got %v, want passthrough", ch, got)
		}
	}
}

// The degenerate phaser (no sweep, no feedback) must equal a fixed cascade
// of first-order all-passes at the band centres, mixed 0.707/0.707.
func TestPhaserDegenerateMatchesFixedCascade(t *testing.T) {
	const sr = 44100.0

	p := newTestPhaser(t, sr, 1,
		WithPhaserRateHz(0), WithPhaserDepth(0), WithPhaserIntensity(0))

	var cascade [PhaserStages]*biquad.Section
	for i, band := range phaserBands {
		fc := core.BipolarModulation(0, band.minHz, band.maxHz)
		cascade[i] = biquad.NewSection(design.FirstOrderAllpass(fc, sr))
	}

	in := testutil.Impulse(2048, 0)
	want := make([]float64, len(in))
	for i, x := range in {
		y := x
		for _, s := range cascade {
			y = s.ProcessSample(y)
		}

		want[i] = 0.707*x + 0.707*y
	}

	got := runPhaser(p, 0, in)
	testutil.RequireSliceNearlyEqual(t, got, want, 1e-12)

	// Repeated runs are bit-for-bit identical.
	if err := p.Reset(sr, 1); err != nil {
		t.Fatal(err)
	}

	testutil.RequireIdentical(t, runPhaser(p, 0, in), got)
}

func TestPhaserDeterministic(t *testing.T) {
	opts := []PhaserOption{WithPhaserRateHz(3), WithPhaserIntensity(90), WithPhaserQuadPhase(true)}
	a := newTestPhaser(t, 48000, 2, opts...)
	b := newTestPhaser(t, 48000, 2, opts...)

	in := testutil.Sawtooth(110, 48000, 0.5, 4096)
	testutil.RequireIdentical(t, runPhaser(a, 1, in), runPhaser(b, 1, in))
}

func TestPhaserSilenceDecays(t *testing.T) {
	for _, sw := range []bool{false, true} {
		p := newTestPhaser(t, 44100, 1, WithPhaserIntensity(100), WithPhaserFeedbackSwitch(sw))

		out := runPhaser(p, 0, testutil.Impulse(44100, 0))
		testutil.RequireFinite(t, out)
		testutil.RequireDecays(t, out, 2000, 1e-6)
	}
}

func TestPhaserFiniteOutputUnderFeedback(t *testing.T) {
	in := testutil.Sawtooth(220, 44100, 0.9, 44100)

	for w := lfo.Sine; w <= lfo.Parabola; w++ {
		for _, quad := range []bool{false, true} {
			p := newTestPhaser(t, 44100, 1,
				WithPhaserRateHz(10), WithPhaserIntensity(100),
				WithPhaserWaveform(w), WithPhaserQuadPhase(quad))

			out := runPhaser(p, 0, in)
			testutil.RequireFinite(t, out)

			if peak := testutil.Peak(out); peak > 10 {
				t.Fatalf("%v quad=%v: peak %v", w, quad, peak)
			}
		}
	}
}

func TestPhaserFeedbackSwitchChangesLoop(t *testing.T) {
	in := testutil.DeterministicNoise(5, 0.5, 512)

	full := newTestPhaser(t, 44100, 1, WithPhaserIntensity(80))
	half := newTestPhaser(t, 44100, 1, WithPhaserIntensity(80), WithPhaserFeedbackSwitch(true))

	diff, err := testutil.MaxAbsDiff(runPhaser(full, 0, in), runPhaser(half, 0, in))
	if err != nil {
		t.Fatal(err)
	}

	if diff < 1e-6 {
		t.Fatal("feedback switch had no effect with intensity > 0")
	}

	// Without feedback the switch is irrelevant.
	a := newTestPhaser(t, 44100, 1, WithPhaserIntensity(0))
	b := newTestPhaser(t, 44100, 1, WithPhaserIntensity(0), WithPhaserFeedbackSwitch(true))
	testutil.RequireIdentical(t, runPhaser(a, 0, in), runPhaser(b, 0, in))
}

func TestPhaserVoicing(t *testing.T) {
	in := testutil.DeterministicNoise(9, 1, 256)
	opts := []PhaserOption{WithPhaserRateHz(0), WithPhaserDepth(0), WithPhaserIntensity(0)}

	balanced := runPhaser(newTestPhaser(t, 44100, 1, opts...), 0, in)
	vintage := runPhaser(newTestPhaser(t, 44100, 1, append(opts, WithPhaserVoicing(VoicingVintage))...), 0, in)

	for i, x := range in {
		wetB := (balanced[i] - 0.707*x) / 0.707
		wetV := (vintage[i] - 0.125*x) / 1.25

		if math.Abs(wetB-wetV) > 1e-9 {
			t.Fatalf("sample %d: wet paths differ: %v vs %v", i, wetB, wetV)
		}
	}
}

func TestPhaserChannelsIndependent(t *testing.T) {
	in := testutil.Sawtooth(330, 44100, 0.5, 1024)
	other := testutil.DeterministicNoise(1, 1, len(in))

	mono := newTestPhaser(t, 44100, 2, WithPhaserRateHz(2))
	want := runPhaser(mono, 0, in)

	stereo := newTestPhaser(t, 44100, 2, WithPhaserRateHz(2))
	got := make([]float64, len(in))
	for i := range in {
		stereo.Process(1, other[i])
		got[i] = stereo.Process(0, in[i])
	}

	testutil.RequireSliceNearlyEqual(t, got, want, 1e-12)
}

func TestPhaserStageFrequencies(t *testing.T) {
	p := newTestPhaser(t, 44100, 1, WithPhaserRateHz(5))

	for i, want := range phaserBaseFrequencies {
		if got := p.StageFrequency(i); got != want {
			t.Fatalf("stage %d base = %v, want %v", i, got, want)
		}
	}

	for range 20000 {
		p.Process(0, 0)

		for i, band := range phaserBands {
			fc := p.StageFrequency(i)
			if fc < band.minHz-1e-9 || fc > band.maxHz+1e-9 {
				t.Fatalf("stage %d at %v Hz outside [%v, %v]", i, fc, band.minHz, band.maxHz)
			}
		}
	}

	if p.StageFrequency(-1) != 0 || p.StageFrequency(PhaserStages) != 0 {
		t.Fatal("out-of-range stage index should report 0")
	}
}

func TestPhaserSetParametersClamps(t *testing.T) {
	p := newTestPhaser(t, 44100, 1)
	p.SetParameters(PhaserParameters{
		RateHz:    -3,
		Depth:     250,
		Intensity: math.NaN(),
		Voicing:   PhaserVoicing(7),
		Waveform:  lfo.Waveform(99),
	})

	got := p.Parameters()
	want := PhaserParameters{RateHz: 0, Depth: 100, Intensity: defaultPhaserIntensity, Voicing: VoicingBalanced, Waveform: lfo.Sine}

	if got != want {
		t.Fatalf("Parameters() = %+v, want %+v", got, want)
	}
}

func TestPhaserResetRestoresState(t *testing.T) {
	p := newTestPhaser(t, 48000, 1)
	in := testutil.Impulse(512, 0)

	first := runPhaser(p, 0, in)

	if err := p.Reset(48000, 1); err != nil {
		t.Fatal(err)
	}

	testutil.RequireIdentical(t, runPhaser(p, 0, in), first)
}

func TestPhaserResetChangesFormat(t *testing.T) {
	opts := []PhaserOption{WithPhaserRateHz(3), WithPhaserWaveform(lfo.Triangle)}
	in := testutil.Sawtooth(220, 48000, 0.5, 1024)

	p := newTestPhaser(t, 44100, 2, opts...)
	runPhaser(p, 0, in)
	runPhaser(p, 1, in)

	if err := p.Reset(48000, 2); err != nil {
		t.Fatal(err)
	}

	if p.lfos[1].SampleRate() != 48000 || p.lfos[1].Phase() != 0 {
		t.Fatalf("oscillator not restarted: rate %v, phase %v", p.lfos[1].SampleRate(), p.lfos[1].Phase())
	}

	fresh := newTestPhaser(t, 48000, 2, opts...)
	for _, ch := range []int{0, 1} {
		testutil.RequireIdentical(t, runPhaser(p, ch, in), runPhaser(fresh, ch, in))
	}
}

func TestLoopGain(t *testing.T) {
	floor := float64(minLoopDenominator)

	tests := []struct {
		name      string
		k, gamma4 float64
		want      float64
	}{
		{"open loop", 0, 0.9, 1},
		{"positive loop", 0.75, 0.5, 1 / 1.375},
		{"negative loop", 1, -0.5, 2},
		{"singular", 1, -1, 1 / floor},
		{"past singular", 1, -1 - 1e-9, -1 / floor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := loopGain(tt.k, tt.gamma4); got != tt.want {
				t.Fatalf("loopGain(%v, %v) = %v, want %v", tt.k, tt.gamma4, got, tt.want)
			}
		})
	}
}

// With the sweep frozen and no feedback, a settled sine comes out scaled by
// dry + wet times the product of the four stage responses.
func TestPhaserSteadyStateMatchesStageResponses(t *testing.T) {
	const (
		sr     = 48000.0
		settle = 4800
		window = 480
	)

	p := newTestPhaser(t, sr, 1, WithPhaserRateHz(0), WithPhaserDepth(0), WithPhaserIntensity(0))

	for _, freq := range []float64{500, 3000, 9000} {
		if err := p.Reset(sr, 1); err != nil {
			t.Fatal(err)
		}

		w := 2 * math.Pi * freq / sr

		var re, im float64
		for n := range settle + window {
			y := p.Process(0, math.Sin(w*float64(n)))
			if n >= settle {
				re += y * math.Sin(w*float64(n))
				im += y * math.Cos(w*float64(n))
			}
		}

		gain := 2 * math.Hypot(re, im) / window

		var coeffs [PhaserStages]biquad.Coefficients
		h := complex(1, 0)
		for i, s := range p.stages {
			coeffs[i] = s.Coefficients()
			h *= s.Response(freq)
		}

		if c := biquad.CascadeResponse(freq, sr, coeffs[:]...); cmplx.Abs(c-h) > 1e-12 {
			t.Fatalf("%v Hz: stage product %v, cascade %v", freq, h, c)
		}

		if math.Abs(cmplx.Abs(h)-1) > 1e-12 {
			t.Fatalf("%v Hz: cascade magnitude %v, want 1", freq, cmplx.Abs(h))
		}

		mix := phaserMix[VoicingBalanced]
		want := cmplx.Abs(complex(mix.dry, 0) + complex(mix.wet, 0)*h)

		if math.Abs(gain-want) > 1e-9 {
			t.Fatalf("%v Hz: gain %v, want %v", freq, gain, want)
		}
	}
}

func TestPhaserProcessBlockMatchesProcess(t *testing.T) {
	a := newTestPhaser(t, 48000, 1)
	b := newTestPhaser(t, 48000, 1)

	in := testutil.DeterministicSine(440, 48000, 0.5, 300)
	want := runPhaser(a, 0, in)

	got := append([]float64(nil), in...)
	b.ProcessBlock(0, got)

	testutil.RequireIdentical(t, got, want)
}

func TestPhaserVoicingString(t *testing.T) {
	if VoicingBalanced.String() != "balanced" || VoicingVintage.String() != "vintage" || PhaserVoicing(5).String() != "unknown" {
		t.Fatal("unexpected voicing names")
	}
}

func BenchmarkPhaserProcess(b *testing.B) {
	p, err := NewPhaser()
	if err != nil {
		b.Fatal(err)
	}

	if err := p.Reset(48000, 2); err != nil {
		b.Fatal(err)
	}

	buf := testutil.Sawtooth(110, 48000, 0.5, 512)

	b.ReportAllocs()
	b.SetBytes(int64(len(buf) * 8))

	for i := 0; i < b.N; i++ {
		p.ProcessBlock(i&1, buf)
	}
}
