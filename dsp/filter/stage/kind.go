package stage

import (
	"github.com/cwbudde/algo-pedalfx/dsp/filter/biquad"
	"github.com/cwbudde/algo-pedalfx/dsp/filter/design"
)

// Kind selects the coefficient design used by a Stage.
type Kind int

const (
	// APF1 is a first-order all-pass; Q and BoostCutDB are ignored.
	APF1 Kind = iota
	// APF2 is a second-order all-pass; BoostCutDB is ignored.
	APF2
	// LowShelf1 is a first-order low shelf; Q is ignored.
	LowShelf1
	// LowShelf2 is a second-order low shelf.
	LowShelf2
)

var kindNames = [...]string{
	APF1:      "apf1",
	APF2:      "apf2",
	LowShelf1: "lowshelf1",
	LowShelf2: "lowshelf2",
}

// designFunc computes coefficients for an already clamped parameter set.
type designFunc func(p Parameters, sampleRate float64) biquad.Coefficients

var strategies = [...]designFunc{
	APF1: func(p Parameters, sr float64) biquad.Coefficients {
		return design.FirstOrderAllpass(p.FcHz, sr)
	},
	APF2: func(p Parameters, sr float64) biquad.Coefficients {
		return design.Allpass(p.FcHz, p.Q, sr)
	},
	LowShelf1: func(p Parameters, sr float64) biquad.Coefficients {
		return design.FirstOrderLowShelf(p.FcHz, p.BoostCutDB, sr)
	},
	LowShelf2: func(p Parameters, sr float64) biquad.Coefficients {
		return design.LowShelf(p.FcHz, p.BoostCutDB, p.Q, sr)
	},
}

// Valid reports whether k names a known design.
func (k Kind) Valid() bool {
	return k >= 0 && int(k) < len(strategies)
}

func (k Kind) String() string {
	if !k.Valid() {
		return "unknown"
	}

	return kindNames[k]
}
