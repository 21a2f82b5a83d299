package mixedmode

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/cwbudde/algo-rf/rf/cmat"
	"github.com/cwbudde/algo-rf/rf/network"
)

// ErrUnequalZ0 is returned when the two ports of a pair have different
// reference impedances.
var ErrUnequalZ0 = errors.New("mixedmode: pair ports have unequal reference impedance")

// ErrUnknownOrder is returned by ParseOrder for unrecognised names.
var ErrUnknownOrder = errors.New("mixedmode: unknown port order")

// Order describes how single-ended ports form differential pairs.
type Order int

const (
	// OrderSides pairs consecutive ports: pair k is ports (2k, 2k+1). For a
	// 4-port the through paths are 0→2 and 1→3.
	OrderSides Order = iota
	// OrderOddEven pairs port k with port k+p. For a 4-port the through
	// paths are 0→1 and 2→3.
	OrderOddEven
)

// String returns the order name as used on the command line.
func (o Order) String() string {
	switch o {
	case OrderSides:
		return "sides"
	case OrderOddEven:
		return "oddeven"
	default:
		return fmt.Sprintf("Order(%d)", int(o))
	}
}

// ParseOrder maps "sides" and "oddeven" to an Order.
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "sides":
		return OrderSides, nil
	case "oddeven", "odd-even":
		return OrderOddEven, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownOrder, s)
}

// Pairs returns the single-ended (positive, negative) port indices of each
// differential pair for a network with nports ports.
func (o Order) Pairs(nports int) ([][2]int, error) {
	if nports <= 0 || nports%2 != 0 {
		return nil, fmt.Errorf("%w: %d", network.ErrOddPorts, nports)
	}
	p := nports / 2
	out := make([][2]int, p)
	for k := range p {
		if o == OrderOddEven {
			out[k] = [2]int{k, k + p}
		} else {
			out[k] = [2]int{2 * k, 2*k + 1}
		}
	}
	return out, nil
}

// transform returns M with mixed = M·se, rows ordered [D1..Dp, C1..Cp].
func transform(pairs [][2]int) cmat.Matrix {
	p := len(pairs)
	m := cmat.New(2*p, 2*p)
	r := complex(1/math.Sqrt2, 0)
	for k, pr := range pairs {
		m.Set(k, pr[0], r)
		m.Set(k, pr[1], -r)
		m.Set(p+k, pr[0], r)
		m.Set(p+k, pr[1], r)
	}
	return m
}

// ToMixedMode converts a 2p-port single-ended network into generalised
// mixed-mode parameters with ports [D1..Dp, C1..Cp]. Differential ports are
// referred to 2·z0 and common ports to z0/2.
func ToMixedMode(n network.Network, order Order) (network.Network, error) {
	pairs, err := order.Pairs(n.Ports())
	if err != nil {
		return network.Network{}, err
	}
	p := len(pairs)
	z0 := make([]float64, 2*p)
	for k, pr := range pairs {
		zp, zn := n.Z0[pr[0]], n.Z0[pr[1]]
		if zp != zn {
			return network.Network{}, fmt.Errorf("%w: pair %d has %g and %g Ω", ErrUnequalZ0, k+1, zp, zn)
		}
		z0[k] = 2 * zp
		z0[p+k] = zp / 2
	}

	m := transform(pairs)
	mt := m.Transpose()
	s := make([]cmat.Matrix, n.Len())
	for f, sm := range n.S {
		s[f] = m.Mul(sm).Mul(mt)
	}
	out, err := network.New(n.Name, n.Freq, s, z0...)
	if err != nil {
		return network.Network{}, err
	}
	out.Comments = n.Comments
	return out, nil
}

// ToSingleEnded is the inverse of ToMixedMode. Single-ended ports are
// referred to half the differential reference impedance of their pair.
func ToSingleEnded(mm network.Network, order Order) (network.Network, error) {
	pairs, err := order.Pairs(mm.Ports())
	if err != nil {
		return network.Network{}, err
	}
	z0 := make([]float64, mm.Ports())
	for k, pr := range pairs {
		z0[pr[0]] = mm.Z0[k] / 2
		z0[pr[1]] = mm.Z0[k] / 2
	}

	m := transform(pairs)
	mt := m.Transpose()
	s := make([]cmat.Matrix, mm.Len())
	for f, sm := range mm.S {
		s[f] = mt.Mul(sm).Mul(m)
	}
	out, err := network.New(mm.Name, mm.Freq, s, z0...)
	if err != nil {
		return network.Network{}, err
	}
	out.Comments = mm.Comments
	return out, nil
}

// SDD returns the differential-to-differential block of a mixed-mode network.
func SDD(mm network.Network) (network.Network, error) { return modeBlock(mm, 0, 0, "dd") }

// SCC returns the common-to-common block.
func SCC(mm network.Network) (network.Network, error) { return modeBlock(mm, 1, 1, "cc") }

// SDC returns the common-to-differential conversion block (differential
// response to common-mode stimulus).
func SDC(mm network.Network) (network.Network, error) { return modeBlock(mm, 0, 1, "dc") }

// SCD returns the differential-to-common conversion block.
func SCD(mm network.Network) (network.Network, error) { return modeBlock(mm, 1, 0, "cd") }

func modeBlock(mm network.Network, row, col int, tag string) (network.Network, error) {
	n := mm.Ports()
	if n%2 != 0 {
		return network.Network{}, fmt.Errorf("%w: %d", network.ErrOddPorts, n)
	}
	p := n / 2
	s := make([]cmat.Matrix, mm.Len())
	for f, sm := range mm.S {
		s[f] = sm.Block(row*p, col*p, p, p)
	}
	name := mm.Name + "_s" + tag
	return network.New(name, mm.Freq, s, mm.Z0[row*p:(row+1)*p]...)
}

// Combine builds a mixed-mode network from its differential and common
// blocks, leaving mode conversion terms at zero.
func Combine(dd, cc network.Network) (network.Network, error) {
	out, err := network.ConcatPorts(dd, cc)
	if err != nil {
		return network.Network{}, err
	}
	out.Name = dd.Name
	return out, nil
}
