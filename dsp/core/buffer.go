package core

// EnsureLen returns a slice with the requested length, reusing buf capacity if possible.
func EnsureLen(buf []float64, n int) []float64 {
	if n <= 0 {
		return buf[:0]
	}
	if cap(buf) >= n {
		return buf[:n]
	}
	return make([]float64, n)
}

// Zero sets all values in buf to 0.
func Zero(buf []float64) {
	for i := range buf {
		buf[i] = 0
	}
}

// Arena allocates count slices of length size backed by one contiguous
// allocation. Slices are capped so appends cannot spill into a neighbour.
func Arena(count, size int) [][]float64 {
	if count <= 0 || size <= 0 {
		return nil
	}

	backing := make([]float64, count*size)
	out := make([][]float64, count)

	for i := range out {
		out[i] = backing[i*size : (i+1)*size : (i+1)*size]
	}

	return out
}
