package ieeep370

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"go.uber.org/zap"

	"github.com/cwbudde/algo-rf/rf/cmat"
	"github.com/cwbudde/algo-rf/rf/frequency"
	"github.com/cwbudde/algo-rf/rf/mixedmode"
	"github.com/cwbudde/algo-rf/rf/network"
	"github.com/cwbudde/algo-rf/rf/trace"
)

// MinPoints is the smallest number of non-DC frequency points accepted.
const MinPoints = 10

// Errors returned by the split functions.
var (
	ErrTooFewPoints     = errors.New("ieeep370: too few frequency points")
	ErrUnsupportedPorts = errors.New("ieeep370: 2x-thru must be a 2-port or 4-port")
)

// Fixture holds the two halves of a 2x-thru. Side1 faces port 1 of the
// measurement, Side2 the last port. Side1 has its outer port first, Side2
// its inner port first, so Side1 ** Side2 is the 2x-thru.
type Fixture struct {
	Side1 network.Network
	Side2 network.Network
}

// Reconstruct cascades both halves, which reproduces the 2x-thru.
func (fx Fixture) Reconstruct() (network.Network, error) {
	return network.Cascade(fx.Side1, fx.Side2)
}

// Deembed removes both halves from a measurement taken with the same
// fixture: Side1⁻¹ ** dut ** Side2⁻¹. The halves are resampled onto the
// measurement grid when needed.
func (fx Fixture) Deembed(dut network.Network) (network.Network, error) {
	s1, err := onGrid(fx.Side1, dut.Freq)
	if err != nil {
		return network.Network{}, fmt.Errorf("side 1: %w", err)
	}
	s2, err := onGrid(fx.Side2, dut.Freq)
	if err != nil {
		return network.Network{}, fmt.Errorf("side 2: %w", err)
	}
	out, err := network.DeembedBoth(s1, dut, s2)
	if err != nil {
		return network.Network{}, err
	}
	out.Name = dut.Name + "_deembedded"
	return out, nil
}

func onGrid(n network.Network, grid frequency.Frequency) (network.Network, error) {
	if n.Freq.Equal(grid, 0) {
		return n, nil
	}
	return network.Interpolate(n, grid, network.WithMethod(network.Polar))
}

// Split dispatches on port count: 2-ports go to SplitSE, 4-ports to SplitMM.
func Split(thru network.Network, opts ...Option) (Fixture, error) {
	switch thru.Ports() {
	case 2:
		return SplitSE(thru, opts...)
	case 4:
		return SplitMM(thru, opts...)
	default:
		return Fixture{}, fmt.Errorf("%w: have %d ports", ErrUnsupportedPorts, thru.Ports())
	}
}

// SplitSE splits a single-ended 2-port 2x-thru into two fixture halves.
func SplitSE(thru network.Network, opts ...Option) (Fixture, error) {
	if thru.Ports() != 2 {
		return Fixture{}, fmt.Errorf("%w: single-ended split needs a 2-port, have %d ports", ErrUnsupportedPorts, thru.Ports())
	}
	cfg := ApplyOptions(opts...)
	z0 := cfg.Z0
	if z0 == 0 {
		z0 = thru.Z0[0]
	}
	return splitTwoPort(thru, z0, cfg)
}

// SplitMM splits a 4-port differential 2x-thru. The differential and
// common modes are split separately, at 2·z0 and z0/2, and recombined.
func SplitMM(thru network.Network, opts ...Option) (Fixture, error) {
	if thru.Ports() != 4 {
		return Fixture{}, fmt.Errorf("%w: mixed-mode split needs a 4-port, have %d ports", ErrUnsupportedPorts, thru.Ports())
	}
	cfg := ApplyOptions(opts...)
	z0 := cfg.Z0
	if z0 == 0 {
		z0 = thru.Z0[0]
	}
	if !uniformZ0(thru.Z0, z0) {
		var err error
		if thru, err = thru.Renormalize(z0); err != nil {
			return Fixture{}, err
		}
	}

	mm, err := mixedmode.ToMixedMode(thru, cfg.Order)
	if err != nil {
		return Fixture{}, err
	}
	dd, err := mixedmode.SDD(mm)
	if err != nil {
		return Fixture{}, err
	}
	cc, err := mixedmode.SCC(mm)
	if err != nil {
		return Fixture{}, err
	}
	dd.Name, cc.Name = thru.Name+"_dd", thru.Name+"_cc"

	fdd, err := splitTwoPort(dd, 2*z0, cfg)
	if err != nil {
		return Fixture{}, fmt.Errorf("differential mode: %w", err)
	}
	fcc, err := splitTwoPort(cc, z0/2, cfg)
	if err != nil {
		return Fixture{}, fmt.Errorf("common mode: %w", err)
	}

	side := func(d, c network.Network, name string) (network.Network, error) {
		m, err := mixedmode.Combine(d, c)
		if err != nil {
			return network.Network{}, err
		}
		se, err := mixedmode.ToSingleEnded(m, cfg.Order)
		if err != nil {
			return network.Network{}, err
		}
		se.Name = name
		return se, nil
	}
	side1, err := side(fdd.Side1, fcc.Side1, thru.Name+"_side1")
	if err != nil {
		return Fixture{}, err
	}
	side2, err := side(fdd.Side2, fcc.Side2, thru.Name+"_side2")
	if err != nil {
		return Fixture{}, err
	}
	return Fixture{Side1: side1, Side2: side2}, nil
}

func splitTwoPort(thru network.Network, z0 float64, cfg Config) (Fixture, error) {
	log := cfg.Logger.With(zap.String("network", thru.Name))
	orig := thru.Freq

	work := thru
	if !uniformZ0(work.Z0, z0) {
		var err error
		if work, err = work.Renormalize(z0); err != nil {
			return Fixture{}, err
		}
	}
	if orig.HasDC() {
		log.Warn("2x-thru contains a DC point, removing it before extraction")
		var err error
		if work, err = dropFirst(work); err != nil {
			return Fixture{}, err
		}
	}
	if work.Len() < MinPoints {
		return Fixture{}, fmt.Errorf("%w: have %d, need %d", ErrTooFewPoints, work.Len(), MinPoints)
	}

	resampled := false
	if !harmonic(work.Freq) {
		n := work.Len()
		step := work.Freq.Stop() / float64(n)
		grid, err := harmonicGrid(step, n, orig.Unit)
		if err != nil {
			return Fixture{}, err
		}
		log.Warn("frequency grid is not a multiple of its step, resampling",
			zap.Int("points", n), zap.Float64("step_hz", step))
		if work, err = resampleHarmonic(work, grid); err != nil {
			return Fixture{}, err
		}
		resampled = true
	}

	h, err := splitHarmonic(work, z0, cfg.PreResponseTime)
	if err != nil {
		return Fixture{}, err
	}
	log.Debug("2x-thru split",
		zap.Int("midpoint", h.mid),
		zap.Float64("z11_ohm", h.z11x),
		zap.Int("points", work.Len()))

	fx := Fixture{Side1: h.side1, Side2: h.side2}
	if resampled || orig.HasDC() {
		if fx.Side1, err = restoreGrid(fx.Side1, orig); err != nil {
			return Fixture{}, err
		}
		if fx.Side2, err = restoreGrid(fx.Side2, orig); err != nil {
			return Fixture{}, err
		}
	}
	return fx, nil
}

// harmonic reports whether the grid is f_k = k·Δf, k = 1..n.
func harmonic(f frequency.Frequency) bool {
	if f.Len() < 2 || !f.IsUniform(1e-6) {
		return false
	}
	step := (f.Stop() - f.Start()) / float64(f.Len()-1)
	return math.Abs(f.Start()-step) <= 1e-6*step
}

// harmonicGrid returns n points k·step in hertz, k = 1..n.
func harmonicGrid(step float64, n int, unit frequency.Unit) (frequency.Frequency, error) {
	hz := make([]float64, n)
	for i := range hz {
		hz[i] = step * float64(i+1)
	}
	return frequency.New(hz, unit)
}

// resampleHarmonic moves n onto grid. Points below the first measured
// frequency come from the conjugate-symmetric extension towards DC.
func resampleHarmonic(n network.Network, grid frequency.Frequency) (network.Network, error) {
	out, err := network.Interpolate(n, grid, network.WithMethod(network.Cubic), network.WithExtrapolate())
	if err != nil {
		return network.Network{}, err
	}
	f1, f2 := n.Freq.At(0), n.Freq.At(1)
	for k := 0; k < grid.Len() && grid.At(k) < f1; k++ {
		for i := range n.Ports() {
			for j := range n.Ports() {
				out.S[k].Set(i, j, trace.ExtendToDC(f1, f2, n.S[0].At(i, j), n.S[1].At(i, j), grid.At(k)))
			}
		}
	}
	return out, nil
}

func uniformZ0(z0 []float64, want float64) bool {
	return !slices.ContainsFunc(z0, func(v float64) bool { return v != want })
}

func dropFirst(n network.Network) (network.Network, error) {
	freq, err := n.Freq.Drop(1)
	if err != nil {
		return network.Network{}, err
	}
	out, err := network.New(n.Name, freq, n.S[1:], n.Z0...)
	if err != nil {
		return network.Network{}, err
	}
	return out.Clone(), nil
}

// restoreGrid adds a DC point extrapolated from the two lowest harmonics
// and resamples n onto orig.
func restoreGrid(n network.Network, orig frequency.Frequency) (network.Network, error) {
	p := n.Ports()
	dc := cmat.New(p, p)
	for i := range p {
		for j := range p {
			tr := n.At(i, j)
			dc.Set(i, j, complex(trace.DCValue(tr), 0))
		}
	}
	hz := append([]float64{0}, n.Freq.Hz()...)
	freq, err := frequency.New(hz, n.Freq.Unit)
	if err != nil {
		return network.Network{}, err
	}
	withDC, err := network.New(n.Name, freq, append([]cmat.Matrix{dc}, n.S...), n.Z0...)
	if err != nil {
		return network.Network{}, err
	}
	return network.Interpolate(withDC, orig, network.WithMethod(network.Cubic), network.WithExtrapolate())
}
