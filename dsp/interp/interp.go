package interp

import "fmt"

// Mode selects an interpolation kernel.
type Mode int

const (
	// ModeCubic is 4-point Catmull-Rom interpolation.
	ModeCubic Mode = iota
	// ModeLinear is 2-point linear interpolation.
	ModeLinear
)

// String returns the kernel name.
func (m Mode) String() string {
	switch m {
	case ModeCubic:
		return "cubic"
	case ModeLinear:
		return "linear"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Valid reports whether m is a known kernel.
func (m Mode) Valid() bool {
	return m == ModeCubic || m == ModeLinear
}

// Interpolate evaluates the selected kernel between x0 and x1 at fraction t.
// Unknown modes fall back to cubic.
func (m Mode) Interpolate(t, xm1, x0, x1, x2 float64) float64 {
	if m == ModeLinear {
		return Linear2(t, x0, x1)
	}

	return Hermite4(t, xm1, x0, x1, x2)
}

// Linear2 interpolates linearly from x0 to x1.
func Linear2(t, x0, x1 float64) float64 {
	return x0 + t*(x1-x0)
}

// Hermite4 computes cubic 4-point interpolation.
// It interpolates from x0 to x1 using neighbor points xm1 and x2.
func Hermite4(t, xm1, x0, x1, x2 float64) float64 {
	c0 := x0
	c1 := 0.5 * (x1 - xm1)
	c2 := xm1 - 2.5*x0 + 2*x1 - 0.5*x2
	c3 := 0.5*(x2-xm1) + 1.5*(x0-x1)
	return ((c3*t+c2)*t+c1)*t + c0
}
