// Package smoothing implements the moving-average engine for fillup series:
// a causal lagging average, a centered convolution average with edge padding,
// and a centered average with shrinking boundary windows. All three are pure
// functions of their inputs, keep output index-aligned with the input, and
// propagate NaN through any window that contains one. Window sizes are only
// symmetric for odd n; even n is accepted but asymmetric.
package smoothing

import (
	"errors"
	"fmt"
	"strings"
)

// Method selects the moving-average algorithm.
type Method int

const (
	// MethodLagging averages the trailing up-to-n values. It is causal and
	// never borrows from the future, which makes it the default for trend
	// display.
	MethodLagging Method = iota
	// MethodCentered correlates a symmetric kernel over an edge-padded copy
	// of the input.
	MethodCentered
	// MethodShrinking centers the window on each index and shrinks it near
	// both boundaries instead of padding.
	MethodShrinking
)

// String returns the method name used in configuration and API parameters.
func (m Method) String() string {
	switch m {
	case MethodLagging:
		return "lagging"
	case MethodCentered:
		return "centered"
	case MethodShrinking:
		return "shrinking"
	default:
		return "unknown"
	}
}

// ParseMethod parses a method name, case-insensitively.
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lagging":
		return MethodLagging, nil
	case "centered":
		return MethodCentered, nil
	case "shrinking":
		return MethodShrinking, nil
	default:
		return 0, fmt.Errorf("unknown smoothing method %q", s)
	}
}

// Weighting selects the kernel shape for the centered method. The other
// methods always weight uniformly.
type Weighting int

const (
	// WeightUniform weights every sample in the window 1/n.
	WeightUniform Weighting = iota
	// WeightExponential decays the weights exponentially away from the window
	// center, normalized to sum 1.
	WeightExponential
)

// String returns the weighting name used in configuration and API parameters.
func (w Weighting) String() string {
	switch w {
	case WeightUniform:
		return "uniform"
	case WeightExponential:
		return "exponential"
	default:
		return "unknown"
	}
}

// ParseWeighting parses a weighting name, case-insensitively.
func ParseWeighting(s string) (Weighting, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "uniform":
		return WeightUniform, nil
	case "exponential":
		return WeightExponential, nil
	default:
		return 0, fmt.Errorf("unknown weighting %q", s)
	}
}

// ErrInvalidWindow reports a window size below 1.
var ErrInvalidWindow = errors.New("window size must be at least 1")

// Smooth computes the smoothed series for x using the selected method. The
// output has the same length and index alignment as x; element i rides on the
// same x-axis position as x[i].
func Smooth(x []float64, n int, method Method, weighting Weighting) ([]float64, error) {
	switch method {
	case MethodLagging:
		return Lagging(x, n)
	case MethodCentered:
		return Centered(x, n, weighting)
	case MethodShrinking:
		return Shrinking(x, n)
	default:
		return nil, fmt.Errorf("unknown smoothing method %d", method)
	}
}

// Lagging computes the causal moving average: output i is the arithmetic mean
// of x over [max(0, i-n+1), i]. The window shrinks at the left boundary, so
// output 0 always equals x[0].
func Lagging(x []float64, n int) ([]float64, error) {
	if n < 1 {
		return nil, ErrInvalidWindow
	}
	out := make([]float64, len(x))
	for i := range x {
		lo := i - n + 1
		if lo < 0 {
			lo = 0
		}
		out[i] = mean(x[lo : i+1])
	}
	return out, nil
}

// Shrinking computes the centered moving average with boundary windows that
// shrink instead of padding: the window for index i is
// [max(0, i-ceil(n/2)+1), min(N, i+floor(n/2)+1)).
func Shrinking(x []float64, n int) ([]float64, error) {
	if n < 1 {
		return nil, ErrInvalidWindow
	}
	out := make([]float64, len(x))
	for i := range x {
		lo := i - (n+1)/2 + 1
		if lo < 0 {
			lo = 0
		}
		hi := i + n/2 + 1
		if hi > len(x) {
			hi = len(x)
		}
		out[i] = mean(x[lo:hi])
	}
	return out, nil
}

// Label produces the human-readable tag attached to a smoothed series.
func Label(method Method, n int) string {
	switch method {
	case MethodLagging:
		return fmt.Sprintf("last-%d average", n)
	default:
		return fmt.Sprintf("%s-%d average", method, n)
	}
}

// mean returns the arithmetic mean of the window. A NaN anywhere in the
// window propagates through the sum.
func mean(window []float64) float64 {
	var sum float64
	for _, v := range window {
		sum += v
	}
	return sum / float64(len(window))
}
