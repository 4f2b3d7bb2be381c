package response

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	vecmath "github.com/cwbudde/algo-vecmath"
)

// Errors returned by Measure.
var (
	ErrInvalidSize       = errors.New("response: size must be a power of two >= 8")
	ErrInvalidSampleRate = errors.New("response: sample rate must be positive")
)

// floorDB is the level reported for bins with zero magnitude.
const floorDB = -240.0

// Processor is any single-sample processor addressed by channel.
type Processor interface {
	Process(ch int, x float64) float64
}

// Response is a magnitude response from DC to Nyquist.
type Response struct {
	SampleRate float64
	Size       int
	// LevelDB holds Size/2+1 bins.
	LevelDB []float64
}

// Frequency returns the centre frequency of bin in Hz.
func (r Response) Frequency(bin int) float64 {
	if r.Size <= 0 {
		return 0
	}

	return float64(bin) * r.SampleRate / float64(r.Size)
}

// Bin returns the bin closest to freqHz, clamped to the valid range.
func (r Response) Bin(freqHz float64) int {
	if r.SampleRate <= 0 || len(r.LevelDB) == 0 {
		return 0
	}

	bin := int(math.Round(freqHz * float64(r.Size) / r.SampleRate))

	return min(max(bin, 0), len(r.LevelDB)-1)
}

// Measure drives p on channel 0 with a unit impulse followed by size-1
// zeros and returns the magnitude of the resulting impulse response. The
// processor must already be prepared for sampleRate.
func Measure(p Processor, sampleRate float64, size int) (Response, error) {
	if size < 8 || size&(size-1) != 0 {
		return Response{}, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}

	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return Response{}, fmt.Errorf("%w: %f", ErrInvalidSampleRate, sampleRate)
	}

	in := make([]complex128, size)
	for i := range in {
		x := 0.0
		if i == 0 {
			x = 1
		}

		in[i] = complex(p.Process(0, x), 0)
	}

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return Response{}, fmt.Errorf("response: %w", err)
	}

	out := make([]complex128, size)

	err = plan.Forward(out, in)
	if err != nil {
		return Response{}, fmt.Errorf("response: %w", err)
	}

	bins := size/2 + 1
	re := make([]float64, bins)
	im := make([]float64, bins)

	for k := range bins {
		re[k] = real(out[k])
		im[k] = imag(out[k])
	}

	mag := make([]float64, bins)
	vecmath.Magnitude(mag, re, im)

	for k, m := range mag {
		mag[k] = levelDB(m)
	}

	return Response{SampleRate: sampleRate, Size: size, LevelDB: mag}, nil
}

func levelDB(mag float64) float64 {
	if mag <= 0 {
		return floorDB
	}

	return math.Max(20*math.Log10(mag), floorDB)
}

// Notch is a local minimum of a magnitude response.
type Notch struct {
	Bin         int
	FrequencyHz float64
	LevelDB     float64
	// DepthDB is how far the notch lies below the lower of the two maxima
	// that enclose it.
	DepthDB float64
}

// Notches returns the local minima of r that are at least depthDB deep,
// in ascending frequency order. DC and Nyquist are never reported.
func Notches(r Response, depthDB float64) []Notch {
	level := r.LevelDB
	if len(level) < 3 {
		return nil
	}

	var out []Notch

	for k := 1; k < len(level)-1; k++ {
		if level[k] >= level[k-1] || level[k] > level[k+1] {
			continue
		}

		left := level[k]
		for i := k - 1; i >= 0 && level[i] >= left; i-- {
			left = level[i]
		}

		right := level[k]
		for i := k + 1; i < len(level) && level[i] >= right; i++ {
			right = level[i]
		}

		depth := math.Min(left, right) - level[k]
		if depth < depthDB {
			continue
		}

		out = append(out, Notch{
			Bin:         k,
			FrequencyHz: r.Frequency(k),
			LevelDB:     level[k],
			DepthDB:     depth,
		})
	}

	return out
}
