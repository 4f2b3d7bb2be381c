// Package interp provides interpolation primitives used by delay-based DSP blocks.
//
// Available methods, from cheapest to highest quality:
//
//   - [Linear2]:  2-point linear interpolation
//   - [Hermite4]: 4-point cubic Hermite (Catmull-Rom), the default
//
// The [Mode] enum lets a delay line select its read kernel at construction
// time. Both kernels return x0 exactly when the fraction is 0.
package interp
