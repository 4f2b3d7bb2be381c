// Package delay provides a fixed-size circular delay line with fractional,
// interpolated reads.
//
// The write position always names the slot about to be written. A read at
// delay d targets the fractional position (write - d) modulo the buffer
// length, gathering one tap before and two taps after the integer part.
// Reads are legal for delays in [MinFractionalDelay, Len()-2]; requests
// outside that window are clamped.
package delay
