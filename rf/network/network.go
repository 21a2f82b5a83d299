package network

import (
	"errors"
	"fmt"
	"slices"

	"github.com/cwbudde/algo-rf/rf/cmat"
	"github.com/cwbudde/algo-rf/rf/frequency"
)

// DefaultZ0 is the reference impedance used when none is given.
const DefaultZ0 = 50.0

// Errors returned by network operations.
var (
	ErrPortMismatch      = errors.New("network: port counts differ")
	ErrFrequencyMismatch = errors.New("network: frequency grids differ")
	ErrOddPorts          = errors.New("network: operation requires an even number of ports")
	ErrSingular          = errors.New("network: singular matrix")
	ErrOutOfRange        = errors.New("network: frequency outside source range")
	ErrInvalidPort       = errors.New("network: invalid port index")
	ErrShape             = errors.New("network: inconsistent matrix shape")
)

// Network is an N-port described by one S matrix per frequency point.
//
// Ports are 0-based. For 2N-port operations (cascade, T-parameters) ports
// 0..N-1 form side 1 and ports N..2N-1 form side 2.
type Network struct {
	Name     string
	Comments []string
	Freq     frequency.Frequency
	S        []cmat.Matrix
	Z0       []float64
}

// New validates and returns a network. z0 may be empty (DefaultZ0 on every
// port), a single value applied to every port, or one value per port.
func New(name string, freq frequency.Frequency, s []cmat.Matrix, z0 ...float64) (Network, error) {
	if freq.Len() == 0 {
		return Network{}, frequency.ErrEmpty
	}
	if len(s) != freq.Len() {
		return Network{}, fmt.Errorf("%w: %d matrices for %d frequencies", ErrShape, len(s), freq.Len())
	}
	n := s[0].Rows
	if n == 0 {
		return Network{}, fmt.Errorf("%w: zero ports", ErrShape)
	}
	for k, m := range s {
		if m.Rows != n || m.Cols != n || len(m.Data) != n*n {
			return Network{}, fmt.Errorf("%w: point %d is %dx%d, want %dx%d", ErrShape, k, m.Rows, m.Cols, n, n)
		}
	}
	ref, err := expandZ0(z0, n)
	if err != nil {
		return Network{}, err
	}
	return Network{Name: name, Freq: freq, S: s, Z0: ref}, nil
}

// Zeros returns an nports network with all S parameters zero.
func Zeros(name string, freq frequency.Frequency, nports int, z0 ...float64) (Network, error) {
	if nports <= 0 {
		return Network{}, fmt.Errorf("%w: %d ports", ErrShape, nports)
	}
	s := make([]cmat.Matrix, freq.Len())
	for k := range s {
		s[k] = cmat.New(nports, nports)
	}
	return New(name, freq, s, z0...)
}

func expandZ0(z0 []float64, n int) ([]float64, error) {
	out := make([]float64, n)
	switch len(z0) {
	case 0:
		for i := range out {
			out[i] = DefaultZ0
		}
	case 1:
		for i := range out {
			out[i] = z0[0]
		}
	case n:
		copy(out, z0)
	default:
		return nil, fmt.Errorf("%w: %d reference impedances for %d ports", ErrShape, len(z0), n)
	}
	for i, v := range out {
		if !(v > 0) {
			return nil, fmt.Errorf("%w: reference impedance %g on port %d", ErrShape, v, i)
		}
	}
	return out, nil
}

// Ports returns the number of ports.
func (n Network) Ports() int {
	if len(n.S) == 0 {
		return 0
	}
	return n.S[0].Rows
}

// Len returns the number of frequency points.
func (n Network) Len() int { return len(n.S) }

// Clone returns a deep copy.
func (n Network) Clone() Network {
	out := Network{
		Name:     n.Name,
		Comments: slices.Clone(n.Comments),
		Freq:     n.Freq,
		S:        make([]cmat.Matrix, len(n.S)),
		Z0:       slices.Clone(n.Z0),
	}
	for k, m := range n.S {
		out.S[k] = m.Clone()
	}
	return out
}

// At returns the trace of S[i][j] over frequency.
func (n Network) At(i, j int) []complex128 {
	out := make([]complex128, len(n.S))
	for k, m := range n.S {
		out[k] = m.At(i, j)
	}
	return out
}

// SetAt overwrites the trace of S[i][j] in place.
func (n Network) SetAt(i, j int, trace []complex128) error {
	if err := n.checkPort(i); err != nil {
		return err
	}
	if err := n.checkPort(j); err != nil {
		return err
	}
	if len(trace) != len(n.S) {
		return fmt.Errorf("%w: trace has %d points, network %d", ErrShape, len(trace), len(n.S))
	}
	for k, m := range n.S {
		m.Set(i, j, trace[k])
	}
	return nil
}

func (n Network) checkPort(p int) error {
	if p < 0 || p >= n.Ports() {
		return fmt.Errorf("%w: %d (network has %d ports)", ErrInvalidPort, p, n.Ports())
	}
	return nil
}

// Subnetwork returns the network restricted to ports, in the given order.
func (n Network) Subnetwork(ports ...int) (Network, error) {
	if len(ports) == 0 {
		return Network{}, fmt.Errorf("%w: no ports selected", ErrInvalidPort)
	}
	seen := make(map[int]bool, len(ports))
	for _, p := range ports {
		if err := n.checkPort(p); err != nil {
			return Network{}, err
		}
		if seen[p] {
			return Network{}, fmt.Errorf("%w: port %d selected twice", ErrInvalidPort, p)
		}
		seen[p] = true
	}
	return n.permute(ports), nil
}

// Renumber moves port from[i] to position to[i]. Ports not listed keep
// their position. from and to must name the same set of ports.
func (n Network) Renumber(from, to []int) (Network, error) {
	if len(from) != len(to) {
		return Network{}, fmt.Errorf("%w: %d sources for %d targets", ErrInvalidPort, len(from), len(to))
	}
	if !slices.Equal(sortedCopy(from), sortedCopy(to)) {
		return Network{}, fmt.Errorf("%w: %v is not a permutation of %v", ErrInvalidPort, to, from)
	}
	order := make([]int, n.Ports())
	for i := range order {
		order[i] = i
	}
	for i := range from {
		if err := n.checkPort(from[i]); err != nil {
			return Network{}, err
		}
		order[to[i]] = from[i]
	}
	return n.permute(order), nil
}

// Flip swaps side 1 and side 2 of a 2N-port.
func (n Network) Flip() (Network, error) {
	p := n.Ports()
	if p%2 != 0 {
		return Network{}, fmt.Errorf("%w: %d", ErrOddPorts, p)
	}
	h := p / 2
	order := make([]int, p)
	for i := range h {
		order[i] = i + h
		order[i+h] = i
	}
	return n.permute(order), nil
}

// permute returns the network whose port i is port order[i] of n.
func (n Network) permute(order []int) Network {
	out := Network{Name: n.Name, Comments: slices.Clone(n.Comments), Freq: n.Freq}
	out.S = make([]cmat.Matrix, len(n.S))
	for k, m := range n.S {
		out.S[k] = m.Permute(order)
	}
	out.Z0 = make([]float64, len(order))
	for i, o := range order {
		out.Z0[i] = n.Z0[o]
	}
	return out
}

// ConcatPorts returns the block-diagonal union of a and b: a's ports
// followed by b's, with no coupling between them.
func ConcatPorts(a, b Network) (Network, error) {
	if err := sameGrid(a, b); err != nil {
		return Network{}, err
	}
	na, nb := a.Ports(), b.Ports()
	out := Network{Name: a.Name + "_" + b.Name, Freq: a.Freq}
	out.S = make([]cmat.Matrix, len(a.S))
	for k := range a.S {
		m := cmat.New(na+nb, na+nb)
		m.SetBlock(0, 0, a.S[k])
		m.SetBlock(na, na, b.S[k])
		out.S[k] = m
	}
	out.Z0 = append(slices.Clone(a.Z0), b.Z0...)
	return out, nil
}

// Subtract returns the point-wise difference a.S - b.S with a's reference
// impedances.
func Subtract(a, b Network) (Network, error) {
	if err := samePorts(a, b); err != nil {
		return Network{}, err
	}
	if err := sameGrid(a, b); err != nil {
		return Network{}, err
	}
	out := a.Clone()
	out.Name = a.Name + "_" + b.Name + "_diff"
	for k := range out.S {
		out.S[k] = a.S[k].Sub(b.S[k])
	}
	return out, nil
}

// String summarises the network, e.g. "thru: 2-port, 1-20 GHz, 2000 pts".
func (n Network) String() string {
	name := n.Name
	if name == "" {
		name = "network"
	}
	return fmt.Sprintf("%s: %d-port, %s", name, n.Ports(), n.Freq)
}

func sameGrid(a, b Network) error {
	if !a.Freq.Equal(b.Freq, 0) {
		return fmt.Errorf("%w: %s vs %s", ErrFrequencyMismatch, a.Freq, b.Freq)
	}
	return nil
}

func samePorts(a, b Network) error {
	if a.Ports() != b.Ports() {
		return fmt.Errorf("%w: %d vs %d", ErrPortMismatch, a.Ports(), b.Ports())
	}
	return nil
}

func sortedCopy(s []int) []int {
	out := slices.Clone(s)
	slices.Sort(out)
	return out
}
