package smoothing

import "math"

// Centered computes the symmetric convolution average: a kernel of length n
// is correlated over the input after padding it with floor((n-1)/2) copies of
// the first value on the left and ceil((n-1)/2) copies of the last value on
// the right, so the output keeps the input's length. n = 1 is the identity.
func Centered(x []float64, n int, weighting Weighting) ([]float64, error) {
	if n < 1 {
		return nil, ErrInvalidWindow
	}
	out := make([]float64, len(x))
	if len(x) == 0 {
		return out, nil
	}

	w := kernel(n, weighting)
	padded := replicatePad(x, (n-1)/2, n/2)
	for i := range out {
		var sum float64
		for j, wj := range w {
			sum += wj * padded[i+j]
		}
		out[i] = sum
	}
	return out, nil
}

// kernel builds the normalized weight vector. Uniform weights are 1/n;
// exponential weights decay from the center as exp(-|j-c|/c) with c=(n-1)/2
// and are normalized to sum 1. A window of 1 is always [1].
func kernel(n int, weighting Weighting) []float64 {
	w := make([]float64, n)
	if weighting == WeightExponential && n > 1 {
		c := float64(n-1) / 2
		var sum float64
		for j := range w {
			w[j] = math.Exp(-math.Abs(float64(j)-c) / c)
			sum += w[j]
		}
		for j := range w {
			w[j] /= sum
		}
		return w
	}
	for j := range w {
		w[j] = 1 / float64(n)
	}
	return w
}

// replicatePad copies x with the first value repeated left times on the left
// and the last value repeated right times on the right.
func replicatePad(x []float64, left, right int) []float64 {
	padded := make([]float64, 0, len(x)+left+right)
	for i := 0; i < left; i++ {
		padded = append(padded, x[0])
	}
	padded = append(padded, x...)
	for i := 0; i < right; i++ {
		padded = append(padded, x[len(x)-1])
	}
	return padded
}
