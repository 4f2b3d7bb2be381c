package pedal

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/GeoffreyPlitt/debuggo"
)

var presetDebug = debuggo.Debug("pedalfx:preset")

// ErrInvalidPreset is returned when preset JSON cannot be decoded.
var ErrInvalidPreset = errors.New("pedal: invalid preset")

// Preset is a named set of parameter values. Missing parameters keep the
// board's current value when applied.
type Preset struct {
	Name   string             `json:"name"`
	Params map[string]float64 `json:"params"`
}

// LoadPreset decodes a preset from JSON. Unknown parameter names are
// rejected.
func LoadPreset(r io.Reader) (Preset, error) {
	var p Preset

	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	err := dec.Decode(&p)
	if err != nil {
		return Preset{}, fmt.Errorf("%w: %w", ErrInvalidPreset, err)
	}

	for name := range p.Params {
		_, err = ParseParamID(name)
		if err != nil {
			return Preset{}, fmt.Errorf("preset %q: %w", p.Name, err)
		}
	}

	return p, nil
}

// NewPreset captures the current board parameters under name.
func NewPreset(name string, b *Board) Preset {
	return Preset{Name: name, Params: b.Snapshot()}
}

// Apply sets every parameter of the preset on b, in table order.
func (p Preset) Apply(b *Board) error {
	var (
		set  [numParams]bool
		vals values
	)

	for name, v := range p.Params {
		id, err := ParseParamID(name)
		if err != nil {
			return fmt.Errorf("preset %q: %w", p.Name, err)
		}

		set[id] = true
		vals[id] = v
	}

	applied := 0

	for i := range set {
		if !set[i] {
			continue
		}

		err := b.SetParam(ParamID(i), vals[i])
		if err != nil {
			return fmt.Errorf("preset %q: %w", p.Name, err)
		}

		applied++
	}

	presetDebug("applied preset %q (%d params)", p.Name, applied)

	return nil
}

// Save writes p as indented JSON.
func (p Preset) Save(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	err := enc.Encode(p)
	if err != nil {
		return fmt.Errorf("preset %q: %w", p.Name, err)
	}

	return nil
}
