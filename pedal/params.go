package pedal

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/cwbudde/algo-pedalfx/dsp/core"
)

// ErrUnknownParam is returned for parameter ids or names outside the table.
var ErrUnknownParam = errors.New("pedal: unknown parameter")

// ParamID identifies one automatable control of the board.
type ParamID int

const (
	ParamGain ParamID = iota
	ParamDryWet
	ParamRouting
	ParamPhaserBypass
	ParamPhaserRate
	ParamPhaserDepth
	ParamPhaserIntensity
	ParamPhaserQuadPhase
	ParamPhaserFeedbackSwitch
	ParamFlangerBypass
	ParamFlangerDepth
	ParamFlangerRate
	ParamFlangerFeedback
	ParamFlangerInverted
	ParamFlangerTone

	numParams
)

// Routing values for ParamRouting.
const (
	RoutingPhaserFirst  = 0.0
	RoutingFlangerFirst = 1.0
)

// ParamInfo describes the range and default of a parameter. Toggles store
// 0 or 1.
type ParamInfo struct {
	ID      ParamID
	Name    string
	Unit    string
	Min     float64
	Max     float64
	Default float64
	Toggle  bool
}

func toggle(id ParamID, name string) ParamInfo {
	return ParamInfo{ID: id, Name: name, Min: 0, Max: 1, Toggle: true}
}

var paramTable = [numParams]ParamInfo{
	ParamGain:                 {ID: ParamGain, Name: "gain", Unit: "dB", Min: -60, Max: 0, Default: -20},
	ParamDryWet:               {ID: ParamDryWet, Name: "drywet", Unit: "%", Min: 0, Max: 100, Default: 50},
	ParamRouting:              toggle(ParamRouting, "routing"),
	ParamPhaserBypass:         toggle(ParamPhaserBypass, "phaser.bypass"),
	ParamPhaserRate:           {ID: ParamPhaserRate, Name: "phaser.rate", Unit: "Hz", Min: 0.2, Max: 10, Default: 0.5},
	ParamPhaserDepth:          {ID: ParamPhaserDepth, Name: "phaser.depth", Unit: "%", Min: 0, Max: 100, Default: 100},
	ParamPhaserIntensity:      {ID: ParamPhaserIntensity, Name: "phaser.intensity", Unit: "%", Min: 0, Max: 100, Default: 75},
	ParamPhaserQuadPhase:      toggle(ParamPhaserQuadPhase, "phaser.quad"),
	ParamPhaserFeedbackSwitch: toggle(ParamPhaserFeedbackSwitch, "phaser.fbswitch"),
	ParamFlangerBypass:        toggle(ParamFlangerBypass, "flanger.bypass"),
	ParamFlangerDepth:         {ID: ParamFlangerDepth, Name: "flanger.depth", Unit: "%", Min: 0, Max: 100, Default: 100},
	ParamFlangerRate:          {ID: ParamFlangerRate, Name: "flanger.rate", Unit: "Hz", Min: 0.2, Max: 10, Default: 0.5},
	ParamFlangerFeedback:      {ID: ParamFlangerFeedback, Name: "flanger.feedback", Unit: "%", Min: 0, Max: 99, Default: 50},
	ParamFlangerInverted:      toggle(ParamFlangerInverted, "flanger.inverted"),
	ParamFlangerTone:          toggle(ParamFlangerTone, "flanger.tone"),
}

// Params returns the parameter table in id order.
func Params() []ParamInfo {
	out := make([]ParamInfo, len(paramTable))
	copy(out, paramTable[:])

	return out
}

// Valid reports whether id is in the table.
func (id ParamID) Valid() bool {
	return id >= 0 && id < numParams
}

func (id ParamID) String() string {
	if !id.Valid() {
		return fmt.Sprintf("ParamID(%d)", int(id))
	}

	return paramTable[id].Name
}

// Info returns the table entry for id.
func (id ParamID) Info() (ParamInfo, error) {
	if !id.Valid() {
		return ParamInfo{}, fmt.Errorf("%w: id %d", ErrUnknownParam, int(id))
	}

	return paramTable[id], nil
}

// ParseParamID looks a parameter up by name, case-insensitively.
func ParseParamID(name string) (ParamID, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for _, info := range paramTable {
		if info.Name == key {
			return info.ID, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownParam, name)
}

// Clamp forces v into the parameter's range. Toggles snap to 0 or 1 at
// 0.5. NaN yields the default.
func (info ParamInfo) Clamp(v float64) float64 {
	if math.IsNaN(v) {
		return info.Default
	}

	if info.Toggle {
		if v >= 0.5 {
			return 1
		}

		return 0
	}

	return core.Clamp(v, info.Min, info.Max)
}

// values holds one clamped value per parameter.
type values [numParams]float64

func defaultValues() values {
	var v values
	for i, info := range paramTable {
		v[i] = info.Default
	}

	return v
}

func (v *values) on(id ParamID) bool {
	return v[id] >= 0.5
}
