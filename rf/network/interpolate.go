package network

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-rf/rf/cmat"
	"github.com/cwbudde/algo-rf/rf/frequency"
	"github.com/cwbudde/algo-rf/rf/trace"
)

// Method selects how S parameters are resampled between grid points.
type Method int

const (
	// Linear interpolates real and imaginary parts.
	Linear Method = iota
	// Polar interpolates magnitude and unwrapped phase.
	Polar
	// Cubic uses Hermite interpolation on uniform source grids and falls
	// back to Linear otherwise.
	Cubic
)

// String returns the method name.
func (m Method) String() string {
	switch m {
	case Linear:
		return "linear"
	case Polar:
		return "polar"
	case Cubic:
		return "cubic"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// InterpConfig controls Interpolate.
type InterpConfig struct {
	Method      Method
	Extrapolate bool
}

// InterpOption mutates an InterpConfig.
type InterpOption func(*InterpConfig)

// DefaultInterpConfig returns linear interpolation without extrapolation.
func DefaultInterpConfig() InterpConfig {
	return InterpConfig{Method: Linear}
}

// ApplyInterpOptions applies opts on top of DefaultInterpConfig.
func ApplyInterpOptions(opts ...InterpOption) InterpConfig {
	cfg := DefaultInterpConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithMethod selects the interpolation method.
func WithMethod(m Method) InterpOption {
	return func(cfg *InterpConfig) { cfg.Method = m }
}

// WithExtrapolate allows target points outside the source span; they hold
// the edge values.
func WithExtrapolate() InterpOption {
	return func(cfg *InterpConfig) { cfg.Extrapolate = true }
}

// Interpolate resamples n onto target.
func Interpolate(n Network, target frequency.Frequency, opts ...InterpOption) (Network, error) {
	cfg := ApplyInterpOptions(opts...)
	if target.Len() == 0 {
		return Network{}, frequency.ErrEmpty
	}
	if n.Freq.Equal(target, 0) {
		out := n.Clone()
		out.Freq = target
		return out, nil
	}
	if !cfg.Extrapolate && !n.Freq.Contains(target) {
		return Network{}, fmt.Errorf("%w: %s not within %s", ErrOutOfRange, target, n.Freq)
	}
	if n.Len() < 2 {
		return Network{}, fmt.Errorf("%w: cannot interpolate a single point", ErrShape)
	}

	src := n.Freq.Hz()
	dst := target.Hz()
	p := n.Ports()
	out := Network{Name: n.Name, Freq: target, Z0: append([]float64(nil), n.Z0...)}
	out.Comments = append([]string(nil), n.Comments...)
	out.S = make([]cmat.Matrix, len(dst))
	for k := range out.S {
		out.S[k] = cmat.New(p, p)
	}

	for i := range p {
		for j := range p {
			vals, err := resample(src, n.At(i, j), dst, n.Freq, cfg.Method)
			if err != nil {
				return Network{}, fmt.Errorf("interpolate S%d%d: %w", i+1, j+1, err)
			}
			for k, v := range vals {
				out.S[k].Set(i, j, v)
			}
		}
	}
	return out, nil
}

func resample(x []float64, y []complex128, q []float64, grid frequency.Frequency, m Method) ([]complex128, error) {
	var a, b []float64
	switch m {
	case Polar:
		a = trace.Magnitude(y)
		b = trace.UnwrapPhase(trace.Phase(y))
	default:
		a = make([]float64, len(y))
		b = make([]float64, len(y))
		for k, v := range y {
			a[k], b[k] = real(v), imag(v)
		}
	}

	interp := func(v []float64) ([]float64, error) {
		if m == Cubic && grid.IsUniform(1e-6) {
			return trace.InterpolateCubic(x[0], (x[len(x)-1]-x[0])/float64(len(x)-1), v, q)
		}
		return trace.InterpolateLinear(x, v, q)
	}
	ai, err := interp(a)
	if err != nil {
		return nil, err
	}
	bi, err := interp(b)
	if err != nil {
		return nil, err
	}

	out := make([]complex128, len(q))
	for k := range out {
		if m == Polar {
			out[k] = cmplx.Rect(math.Max(ai[k], 0), bi[k])
			continue
		}
		out[k] = complex(ai[k], bi[k])
	}
	return out, nil
}

// Align returns a unchanged and b resampled onto a's frequency grid.
func Align(a, b Network, opts ...InterpOption) (Network, Network, error) {
	if a.Freq.Equal(b.Freq, 0) {
		return a, b, nil
	}
	bi, err := Interpolate(b, a.Freq, opts...)
	if err != nil {
		return Network{}, Network{}, err
	}
	return a, bi, nil
}
