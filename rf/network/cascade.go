package network

import (
	"fmt"
	"slices"

	"github.com/cwbudde/algo-rf/rf/cmat"
)

// Cascade connects side 2 of a (ports N..2N-1) to side 1 of b (ports
// 0..N-1). Both networks need the same even port count and the same
// frequency grid. b's side 1 is renormalized to a's side 2 references when
// they differ.
//
// The result is computed with the Redheffer star product, so networks with
// zero transmission (opens, shorts, isolated ports) cascade without error.
func Cascade(a, b Network) (Network, error) {
	if err := samePorts(a, b); err != nil {
		return Network{}, err
	}
	p := a.Ports()
	if p%2 != 0 {
		return Network{}, fmt.Errorf("%w: %d", ErrOddPorts, p)
	}
	if err := sameGrid(a, b); err != nil {
		return Network{}, err
	}
	h := p / 2
	if !slices.Equal(a.Z0[h:], b.Z0[:h]) {
		ref := append(slices.Clone(a.Z0[h:]), b.Z0[h:]...)
		var err error
		if b, err = b.Renormalize(ref...); err != nil {
			return Network{}, err
		}
	}

	out := Network{Name: a.Name + "_" + b.Name, Freq: a.Freq}
	out.Z0 = append(slices.Clone(a.Z0[:h]), b.Z0[h:]...)
	out.S = make([]cmat.Matrix, len(a.S))
	for f := range a.S {
		s, err := star(a.S[f], b.S[f])
		if err != nil {
			return Network{}, fmt.Errorf("cascade at %g Hz: %w", a.Freq.At(f), err)
		}
		out.S[f] = s
	}
	return out, nil
}

// star returns the Redheffer star product of two 2N×2N S matrices.
func star(a, b cmat.Matrix) (cmat.Matrix, error) {
	a11, a12, a21, a22 := quarters(a)
	b11, b12, b21, b22 := quarters(b)
	id := cmat.Identity(a11.Rows)

	m, err := id.Sub(b11.Mul(a22)).Inverse()
	if err != nil {
		return cmat.Matrix{}, ErrSingular
	}
	l, err := id.Sub(a22.Mul(b11)).Inverse()
	if err != nil {
		return cmat.Matrix{}, ErrSingular
	}

	a12m := a12.Mul(m)
	b21l := b21.Mul(l)
	return assemble(
		a11.Add(a12m.Mul(b11).Mul(a21)),
		a12m.Mul(b12),
		b21l.Mul(a21),
		b22.Add(b21l.Mul(a22).Mul(b12)),
	), nil
}

// CascadeAll cascades the networks left to right.
func CascadeAll(nets ...Network) (Network, error) {
	if len(nets) == 0 {
		return Network{}, fmt.Errorf("%w: no networks to cascade", ErrShape)
	}
	out := nets[0]
	for _, n := range nets[1:] {
		var err error
		if out, err = Cascade(out, n); err != nil {
			return Network{}, err
		}
	}
	return out, nil
}

// Inverse returns the network whose cascade with n is an ideal thru,
// computed by inverting n's scattering-transfer matrices.
func Inverse(n Network) (Network, error) {
	t, err := n.ToT()
	if err != nil {
		return Network{}, err
	}
	for f, m := range t {
		inv, err := m.Inverse()
		if err != nil {
			return Network{}, fmt.Errorf("inverse at %g Hz: %w", n.Freq.At(f), ErrSingular)
		}
		t[f] = inv
	}
	h := n.Ports() / 2
	z0 := append(slices.Clone(n.Z0[h:]), n.Z0[:h]...)
	out, err := FromT(n.Name+"_inv", n.Freq, t, z0...)
	if err != nil {
		return Network{}, err
	}
	return out, nil
}

// DeembedRight removes partial from side 2 of total: total ** partial⁻¹.
func DeembedRight(total, partial Network) (Network, error) {
	inv, err := Inverse(partial)
	if err != nil {
		return Network{}, err
	}
	return Cascade(total, inv)
}

// DeembedLeft removes partial from side 1 of total: partial⁻¹ ** total.
func DeembedLeft(partial, total Network) (Network, error) {
	inv, err := Inverse(partial)
	if err != nil {
		return Network{}, err
	}
	return Cascade(inv, total)
}

// DeembedBoth removes left from side 1 and right from side 2 of total.
func DeembedBoth(left, total, right Network) (Network, error) {
	inner, err := DeembedLeft(left, total)
	if err != nil {
		return Network{}, err
	}
	return DeembedRight(inner, right)
}
