package network

import (
	"fmt"
	"math"
	"math/cmplx"
	"slices"

	"github.com/cwbudde/algo-rf/rf/cmat"
	"github.com/cwbudde/algo-rf/rf/frequency"
)

// Renormalize returns the network referred to new real reference
// impedances (one value, or one per port) using power waves:
//
//	S' = K (S − Γ)(I − Γ S)⁻¹ K⁻¹
//
// with Γ_i = (z_i' − z_i)/(z_i' + z_i) and K_i = (z_i + z_i')/(2√(z_i z_i')).
func (n Network) Renormalize(z0 ...float64) (Network, error) {
	p := n.Ports()
	ref, err := expandZ0(z0, p)
	if err != nil {
		return Network{}, err
	}
	if slices.Equal(ref, n.Z0) {
		return n.Clone(), nil
	}

	gamma := make([]complex128, p)
	k := make([]complex128, p)
	for i := range p {
		zo, zn := n.Z0[i], ref[i]
		gamma[i] = complex((zn-zo)/(zn+zo), 0)
		k[i] = complex((zo+zn)/(2*math.Sqrt(zo*zn)), 0)
	}

	out := n.Clone()
	out.Z0 = ref
	id := cmat.Identity(p)
	for f, s := range n.S {
		num := s.Clone()
		den := id.Clone()
		for i := range p {
			num.Set(i, i, num.At(i, i)-gamma[i])
			for j := range p {
				den.Set(i, j, den.At(i, j)-gamma[i]*s.At(i, j))
			}
		}
		inv, err := den.Inverse()
		if err != nil {
			return Network{}, fmt.Errorf("renormalize at %g Hz: %w", n.Freq.At(f), ErrSingular)
		}
		r := num.Mul(inv)
		for i := range p {
			for j := range p {
				r.Set(i, j, k[i]*r.At(i, j)/k[j])
			}
		}
		out.S[f] = r
	}
	return out, nil
}

func sqrtZ0(z0 []float64) []float64 {
	out := make([]float64, len(z0))
	for i, v := range z0 {
		out[i] = math.Sqrt(v)
	}
	return out
}

// scaleDiag returns diag(l)·m·diag(r).
func scaleDiag(l []float64, m cmat.Matrix, r []float64) cmat.Matrix {
	out := m.Clone()
	for i := range m.Rows {
		for j := range m.Cols {
			out.Set(i, j, m.At(i, j)*complex(l[i]*r[j], 0))
		}
	}
	return out
}

func reciprocal(v []float64) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = 1 / x
	}
	return out
}

// ToZ returns the impedance matrices Z = √z0 (I − S)⁻¹(I + S) √z0.
func (n Network) ToZ() ([]cmat.Matrix, error) {
	d := sqrtZ0(n.Z0)
	id := cmat.Identity(n.Ports())
	out := make([]cmat.Matrix, len(n.S))
	for f, s := range n.S {
		zn, err := id.Sub(s).Solve(id.Add(s))
		if err != nil {
			return nil, fmt.Errorf("Z parameters at %g Hz: %w", n.Freq.At(f), ErrSingular)
		}
		out[f] = scaleDiag(d, zn, d)
	}
	return out, nil
}

// ToY returns the admittance matrices Y = √z0⁻¹ (I + S)⁻¹(I − S) √z0⁻¹.
func (n Network) ToY() ([]cmat.Matrix, error) {
	d := reciprocal(sqrtZ0(n.Z0))
	id := cmat.Identity(n.Ports())
	out := make([]cmat.Matrix, len(n.S))
	for f, s := range n.S {
		yn, err := id.Add(s).Solve(id.Sub(s))
		if err != nil {
			return nil, fmt.Errorf("Y parameters at %g Hz: %w", n.Freq.At(f), ErrSingular)
		}
		out[f] = scaleDiag(d, yn, d)
	}
	return out, nil
}

// FromZ builds a network from impedance matrices referred to z0.
func FromZ(name string, freq frequency.Frequency, z []cmat.Matrix, z0 ...float64) (Network, error) {
	return fromImmittance(name, freq, z, z0, false)
}

// FromY builds a network from admittance matrices referred to z0.
func FromY(name string, freq frequency.Frequency, y []cmat.Matrix, z0 ...float64) (Network, error) {
	return fromImmittance(name, freq, y, z0, true)
}

func fromImmittance(name string, freq frequency.Frequency, m []cmat.Matrix, z0 []float64, admittance bool) (Network, error) {
	if len(m) == 0 {
		return Network{}, frequency.ErrEmpty
	}
	ref, err := expandZ0(z0, m[0].Rows)
	if err != nil {
		return Network{}, err
	}
	d := sqrtZ0(ref)
	di := reciprocal(d)
	id := cmat.Identity(m[0].Rows)
	s := make([]cmat.Matrix, len(m))
	for f, x := range m {
		if x.Rows != id.Rows || x.Cols != id.Cols {
			return Network{}, fmt.Errorf("%w: point %d", ErrShape, f)
		}
		var num, den cmat.Matrix
		if admittance {
			yn := scaleDiag(d, x, d)
			num, den = id.Sub(yn), id.Add(yn)
		} else {
			zn := scaleDiag(di, x, di)
			num, den = zn.Sub(id), zn.Add(id)
		}
		inv, err := den.Inverse()
		if err != nil {
			return Network{}, fmt.Errorf("S parameters at point %d: %w", f, ErrSingular)
		}
		s[f] = num.Mul(inv)
	}
	return New(name, freq, s, ref...)
}

// ToT returns the scattering-transfer matrices of a 2N-port, defined by
// [a1; b1] = T [b2; a2] so that cascading multiplies T matrices:
//
//	T = [[S21⁻¹, −S21⁻¹S22], [S11S21⁻¹, S12 − S11S21⁻¹S22]]
func (n Network) ToT() ([]cmat.Matrix, error) {
	p := n.Ports()
	if p%2 != 0 {
		return nil, fmt.Errorf("%w: %d", ErrOddPorts, p)
	}
	out := make([]cmat.Matrix, len(n.S))
	for f, s := range n.S {
		t, err := sToT(s)
		if err != nil {
			return nil, fmt.Errorf("T parameters at %g Hz: %w", n.Freq.At(f), err)
		}
		out[f] = t
	}
	return out, nil
}

// FromT builds a network from scattering-transfer matrices.
func FromT(name string, freq frequency.Frequency, t []cmat.Matrix, z0 ...float64) (Network, error) {
	s := make([]cmat.Matrix, len(t))
	for f, m := range t {
		if m.Rows%2 != 0 || !m.IsSquare() {
			return Network{}, fmt.Errorf("%w: T matrix %dx%d", ErrShape, m.Rows, m.Cols)
		}
		var err error
		if s[f], err = tToS(m); err != nil {
			return Network{}, fmt.Errorf("S parameters at point %d: %w", f, err)
		}
	}
	return New(name, freq, s, z0...)
}

func quarters(m cmat.Matrix) (a11, a12, a21, a22 cmat.Matrix) {
	h := m.Rows / 2
	return m.Block(0, 0, h, h), m.Block(0, h, h, h), m.Block(h, 0, h, h), m.Block(h, h, h, h)
}

func assemble(a11, a12, a21, a22 cmat.Matrix) cmat.Matrix {
	h := a11.Rows
	m := cmat.New(2*h, 2*h)
	m.SetBlock(0, 0, a11)
	m.SetBlock(0, h, a12)
	m.SetBlock(h, 0, a21)
	m.SetBlock(h, h, a22)
	return m
}

func sToT(s cmat.Matrix) (cmat.Matrix, error) {
	s11, s12, s21, s22 := quarters(s)
	inv, err := s21.Inverse()
	if err != nil {
		return cmat.Matrix{}, ErrSingular
	}
	s11inv := s11.Mul(inv)
	return assemble(
		inv,
		inv.Mul(s22).Scale(-1),
		s11inv,
		s12.Sub(s11inv.Mul(s22)),
	), nil
}

func tToS(t cmat.Matrix) (cmat.Matrix, error) {
	t11, t12, t21, t22 := quarters(t)
	inv, err := t11.Inverse()
	if err != nil {
		return cmat.Matrix{}, ErrSingular
	}
	t21inv := t21.Mul(inv)
	return assemble(
		t21inv,
		t22.Sub(t21inv.Mul(t12)),
		inv,
		inv.Mul(t12).Scale(-1),
	), nil
}

// ToABCD returns the chain matrices [[A, B], [C, D]] of a 2-port.
func (n Network) ToABCD() ([]cmat.Matrix, error) {
	if n.Ports() != 2 {
		return nil, fmt.Errorf("%w: ABCD needs a 2-port, have %d ports", ErrPortMismatch, n.Ports())
	}
	z1, z2 := n.Z0[0], n.Z0[1]
	r := complex(math.Sqrt(z1*z2), 0)
	q := complex(math.Sqrt(z1/z2), 0)
	out := make([]cmat.Matrix, len(n.S))
	for f, s := range n.S {
		s11, s12, s21, s22 := s.At(0, 0), s.At(0, 1), s.At(1, 0), s.At(1, 1)
		if cmplx.Abs(s21) == 0 {
			return nil, fmt.Errorf("ABCD parameters at %g Hz: %w", n.Freq.At(f), ErrSingular)
		}
		den := 2 * s21
		x := s12 * s21
		out[f] = cmat.FromRows([][]complex128{
			{((1+s11)*(1-s22) + x) / den * q, ((1+s11)*(1+s22) - x) / den * r},
			{((1-s11)*(1-s22) - x) / den / r, ((1-s11)*(1+s22) + x) / den / q},
		})
	}
	return out, nil
}

// FromABCD builds a 2-port from chain matrices.
func FromABCD(name string, freq frequency.Frequency, abcd []cmat.Matrix, z0 ...float64) (Network, error) {
	ref, err := expandZ0(z0, 2)
	if err != nil {
		return Network{}, err
	}
	z1, z2 := complex(ref[0], 0), complex(ref[1], 0)
	r := complex(math.Sqrt(ref[0]*ref[1]), 0)
	s := make([]cmat.Matrix, len(abcd))
	for f, m := range abcd {
		if m.Rows != 2 || m.Cols != 2 {
			return Network{}, fmt.Errorf("%w: ABCD matrix %dx%d", ErrShape, m.Rows, m.Cols)
		}
		a, b, c, d := m.At(0, 0), m.At(0, 1), m.At(1, 0), m.At(1, 1)
		den := a*z2 + b + c*z1*z2 + d*z1
		if den == 0 {
			return Network{}, fmt.Errorf("S parameters at point %d: %w", f, ErrSingular)
		}
		s[f] = cmat.FromRows([][]complex128{
			{(a*z2 + b - c*z1*z2 - d*z1) / den, 2 * (a*d - b*c) * r / den},
			{2 * r / den, (-a*z2 + b - c*z1*z2 + d*z1) / den},
		})
	}
	return New(name, freq, s, ref...)
}
