package network

import (
	"fmt"

	"github.com/cwbudde/algo-rf/rf/cmat"
)

// Connect joins port k of a to port l of b. The result has a's remaining
// ports followed by b's remaining ports. b is renormalized so that port l
// shares the reference impedance of port k.
func Connect(a Network, k int, b Network, l int) (Network, error) {
	if err := a.checkPort(k); err != nil {
		return Network{}, err
	}
	if err := b.checkPort(l); err != nil {
		return Network{}, err
	}
	if b.Z0[l] != a.Z0[k] {
		ref := append([]float64(nil), b.Z0...)
		ref[l] = a.Z0[k]
		var err error
		if b, err = b.Renormalize(ref...); err != nil {
			return Network{}, err
		}
	}
	joint, err := ConcatPorts(a, b)
	if err != nil {
		return Network{}, err
	}
	out, err := innerconnect(joint, k, a.Ports()+l)
	if err != nil {
		return Network{}, err
	}
	out.Name = a.Name + "_" + b.Name
	return out, nil
}

// innerconnect connects ports k and l of the same network and removes them.
func innerconnect(n Network, k, l int) (Network, error) {
	p := n.Ports()
	keep := make([]int, 0, p-2)
	for i := range p {
		if i != k && i != l {
			keep = append(keep, i)
		}
	}
	out := Network{Name: n.Name, Freq: n.Freq, S: make([]cmat.Matrix, len(n.S))}
	out.Z0 = make([]float64, len(keep))
	for i, src := range keep {
		out.Z0[i] = n.Z0[src]
	}

	for f, s := range n.S {
		skk, sll, skl, slk := s.At(k, k), s.At(l, l), s.At(k, l), s.At(l, k)
		den := (1-skl)*(1-slk) - skk*sll
		if den == 0 {
			return Network{}, fmt.Errorf("connect at %g Hz: %w", n.Freq.At(f), ErrSingular)
		}
		m := cmat.New(len(keep), len(keep))
		for ii, i := range keep {
			for jj, j := range keep {
				sik, sil := s.At(i, k), s.At(i, l)
				skj, slj := s.At(k, j), s.At(l, j)
				num := skj*sil*(1-slk) + slj*sik*(1-skl) + skj*sll*sik + slj*skk*sil
				m.Set(ii, jj, s.At(i, j)+num/den)
			}
		}
		out.S[f] = m
	}
	return out, nil
}

// AttachPort places the 2-port cable in front of port of n: cable port 1
// connects to n, cable port 0 becomes the new external port at the same
// index.
func AttachPort(n Network, port int, cable Network) (Network, error) {
	if cable.Ports() != 2 {
		return Network{}, fmt.Errorf("%w: cable must be a 2-port, have %d ports", ErrPortMismatch, cable.Ports())
	}
	joined, err := Connect(cable, 1, n, port)
	if err != nil {
		return Network{}, err
	}
	// joined: [cable external, n ports except port]
	order := make([]int, n.Ports())
	for i := range order {
		switch {
		case i < port:
			order[i] = i + 1
		case i == port:
			order[i] = 0
		default:
			order[i] = i
		}
	}
	out := joined.permute(order)
	out.Name = n.Name
	out.Comments = n.Comments
	return out, nil
}

// FromTwoPorts assembles an nports network from the 2-port measurements of
// every port pair, ordered (0,1), (0,2), …, (0,n-1), (1,2), … . Each pair
// contributes its transmission terms; reflection terms are averaged over
// all pairs that include the port.
func FromTwoPorts(nports int, pairs []Network) (Network, error) {
	want := nports * (nports - 1) / 2
	if nports < 2 || len(pairs) != want {
		return Network{}, fmt.Errorf("%w: %d-port needs %d pair measurements, have %d", ErrShape, nports, want, len(pairs))
	}
	for _, p := range pairs {
		if p.Ports() != 2 {
			return Network{}, fmt.Errorf("%w: %s is not a 2-port", ErrPortMismatch, p.Name)
		}
		if err := sameGrid(pairs[0], p); err != nil {
			return Network{}, err
		}
	}

	out, err := Zeros("combined", pairs[0].Freq, nports)
	if err != nil {
		return Network{}, err
	}
	z0set := make([]bool, nports)
	counts := make([]int, nports)
	idx := 0
	for i := range nports {
		for j := i + 1; j < nports; j++ {
			pair := pairs[idx]
			idx++
			for f, s := range pair.S {
				m := out.S[f]
				m.Set(i, i, m.At(i, i)+s.At(0, 0))
				m.Set(j, j, m.At(j, j)+s.At(1, 1))
				m.Set(j, i, s.At(1, 0))
				m.Set(i, j, s.At(0, 1))
			}
			counts[i]++
			counts[j]++
			for side, port := range []int{i, j} {
				if !z0set[port] {
					out.Z0[port] = pair.Z0[side]
					z0set[port] = true
				}
			}
		}
	}
	for _, m := range out.S {
		for p := range nports {
			m.Set(p, p, m.At(p, p)/complex(float64(counts[p]), 0))
		}
	}
	return out, nil
}
