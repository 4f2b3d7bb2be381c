package biquad

// Channels runs one coefficient set over several independent channel
// states. Each channel owns its own registers; coefficients are shared.
type Channels struct {
	coeffs   Coefficients
	sections []Section
}

// NewChannels allocates state for n channels. n < 1 yields an empty set on
// which ProcessSample is a passthrough.
func NewChannels(c Coefficients, n int) *Channels {
	m := &Channels{coeffs: c}
	if n > 0 {
		m.sections = make([]Section, n)
		for i := range m.sections {
			m.sections[i].Coefficients = c
		}
	}

	return m
}

// Len returns the channel count.
func (m *Channels) Len() int {
	return len(m.sections)
}

// Coefficients returns the shared coefficient set.
func (m *Channels) Coefficients() Coefficients {
	return m.coeffs
}

// SetCoefficients replaces the shared coefficients without touching state.
func (m *Channels) SetCoefficients(c Coefficients) {
	m.coeffs = c
	for i := range m.sections {
		m.sections[i].Coefficients = c
	}
}

// ProcessSample filters x on channel ch. Out-of-range channels pass x
// through unchanged.
func (m *Channels) ProcessSample(x float64, ch int) float64 {
	if ch < 0 || ch >= len(m.sections) {
		return x
	}

	return m.sections[ch].ProcessSample(x)
}

// ProcessBlock filters buf in place on channel ch.
func (m *Channels) ProcessBlock(buf []float64, ch int) {
	if ch < 0 || ch >= len(m.sections) {
		return
	}

	m.sections[ch].ProcessBlock(buf)
}

// Storage returns channel ch's d0 register, or 0 for an unknown channel.
func (m *Channels) Storage(ch int) float64 {
	if ch < 0 || ch >= len(m.sections) {
		return 0
	}

	return m.sections[ch].Storage()
}

// State returns channel ch's registers.
func (m *Channels) State(ch int) [2]float64 {
	if ch < 0 || ch >= len(m.sections) {
		return [2]float64{}
	}

	return m.sections[ch].State()
}

// Reset clears every channel's registers.
func (m *Channels) Reset() {
	for i := range m.sections {
		m.sections[i].Reset()
	}
}
