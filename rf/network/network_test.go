package network

import (
	"errors"
	"testing"

	"github.com/cwbudde/algo-rf/rf/cmat"
	"github.com/cwbudde/algo-rf/rf/frequency"
)

func TestNewValidation(t *testing.T) {
	freq := frequency.MustNew([]float64{1e9, 2e9}, frequency.GHz)
	two := []cmat.Matrix{cmat.New(2, 2), cmat.New(2, 2)}

	tests := []struct {
		name    string
		s       []cmat.Matrix
		z0      []float64
		wantErr error
	}{
		{name: "ok default z0", s: two},
		{name: "ok scalar z0", s: two, z0: []float64{75}},
		{name: "ok per port", s: two, z0: []float64{50, 75}},
		{name: "count mismatch", s: two[:1], wantErr: ErrShape},
		{name: "non square", s: []cmat.Matrix{cmat.New(2, 2), cmat.New(2, 3)}, wantErr: ErrShape},
		{name: "z0 count", s: two, z0: []float64{50, 50, 50}, wantErr: ErrShape},
		{name: "z0 non positive", s: two, z0: []float64{0}, wantErr: ErrShape},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			n, err := New("x", freq, tc.s, tc.z0...)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if n.Ports() != 2 || n.Len() != 2 || len(n.Z0) != 2 {
				t.Fatalf("unexpected shape %v", n)
			}
		})
	}
}

func TestZeros(t *testing.T) {
	n, err := Zeros("zero", testGrid(), 2)
	if err != nil {
		t.Fatal(err)
	}
	for _, m := range n.S {
		if m.MaxAbs() != 0 {
			t.Fatal("expected all-zero network")
		}
	}
	if n.Z0[0] != DefaultZ0 || n.Z0[1] != DefaultZ0 {
		t.Fatalf("Z0 = %v", n.Z0)
	}
}

func TestCloneIsDeep(t *testing.T) {
	n := lineNetwork(t, testGrid(), 60, 100e-12, 0)
	c := n.Clone()
	c.S[0].Set(0, 0, 42)
	c.Z0[0] = 1
	if n.S[0].At(0, 0) == 42 || n.Z0[0] == 1 {
		t.Fatal("Clone shares storage with the original")
	}
}

func TestSetAt(t *testing.T) {
	n, _ := Zeros("z", testGrid(), 2)
	tr := make([]complex128, n.Len())
	for k := range tr {
		tr[k] = complex(float64(k), 1)
	}
	if err := n.SetAt(1, 0, tr); err != nil {
		t.Fatal(err)
	}
	if got := n.At(1, 0)[3]; got != 3+1i {
		t.Fatalf("S21[3] = %v", got)
	}
	if err := n.SetAt(2, 0, tr); !errors.Is(err, ErrInvalidPort) {
		t.Fatalf("expected ErrInvalidPort, got %v", err)
	}
	if err := n.SetAt(0, 0, tr[:2]); !errors.Is(err, ErrShape) {
		t.Fatalf("expected ErrShape, got %v", err)
	}
}

func fourPortCounting(t *testing.T) Network {
	t.Helper()
	freq := frequency.MustNew([]float64{1e9}, frequency.GHz)
	m := cmat.New(4, 4)
	for i := range 4 {
		for j := range 4 {
			m.Set(i, j, complex(float64(10*(i+1)+j+1), 0))
		}
	}
	n, err := New("count", freq, []cmat.Matrix{m}, 10, 20, 30, 40)
	if err != nil {
		t.Fatal(err)
	}
	return n
}

func TestSubnetwork(t *testing.T) {
	n := fourPortCounting(t)
	sub, err := n.Subnetwork(3, 1)
	if err != nil {
		t.Fatal(err)
	}
	if sub.S[0].At(0, 1) != 42 || sub.S[0].At(1, 0) != 24 || sub.Z0[0] != 40 {
		t.Fatalf("unexpected subnetwork %v z0 %v", sub.S[0], sub.Z0)
	}
	if _, err := n.Subnetwork(1, 1); !errors.Is(err, ErrInvalidPort) {
		t.Fatalf("expected ErrInvalidPort, got %v", err)
	}
	if _, err := n.Subnetwork(4); !errors.Is(err, ErrInvalidPort) {
		t.Fatalf("expected ErrInvalidPort, got %v", err)
	}
}

func TestRenumber(t *testing.T) {
	n := fourPortCounting(t)
	r, err := n.Renumber([]int{1, 2}, []int{2, 1})
	if err != nil {
		t.Fatal(err)
	}
	// Ports 1 and 2 swapped.
	if r.S[0].At(1, 2) != 32 || r.S[0].At(0, 3) != 14 || r.Z0[1] != 30 {
		t.Fatalf("unexpected renumbering %v", r.S[0])
	}
	if _, err := n.Renumber([]int{0, 1}, []int{1, 3}); !errors.Is(err, ErrInvalidPort) {
		t.Fatalf("expected ErrInvalidPort, got %v", err)
	}
}

func TestFlip(t *testing.T) {
	n := fourPortCounting(t)
	f, err := n.Flip()
	if err != nil {
		t.Fatal(err)
	}
	if f.S[0].At(0, 0) != 33 || f.S[0].At(0, 2) != 31 || f.Z0[0] != 30 {
		t.Fatalf("unexpected flip %v", f.S[0])
	}
	ff, _ := f.Flip()
	requireNetworksNearlyEqual(t, ff, n, 0)

	three, _ := n.Subnetwork(0, 1, 2)
	if _, err := three.Flip(); !errors.Is(err, ErrOddPorts) {
		t.Fatalf("expected ErrOddPorts, got %v", err)
	}
}

func TestConcatPorts(t *testing.T) {
	a := lineNetwork(t, testGrid(), 60, 100e-12, 0)
	b := lineNetwork(t, testGrid(), 40, 50e-12, 0)
	c, err := ConcatPorts(a, b)
	if err != nil {
		t.Fatal(err)
	}
	if c.Ports() != 4 {
		t.Fatalf("ports = %d", c.Ports())
	}
	for k, m := range c.S {
		if m.At(0, 2) != 0 || m.At(3, 1) != 0 {
			t.Fatalf("point %d: unexpected coupling", k)
		}
		if m.At(3, 2) != b.S[k].At(1, 0) {
			t.Fatalf("point %d: b block not copied", k)
		}
	}
}

func TestSubtract(t *testing.T) {
	a := lineNetwork(t, testGrid(), 60, 100e-12, 0)
	d, err := Subtract(a, a)
	if err != nil {
		t.Fatal(err)
	}
	for _, m := range d.S {
		if m.MaxAbs() != 0 {
			t.Fatal("a - a is not zero")
		}
	}

	other := frequency.MustNew([]float64{1e9, 2e9}, frequency.GHz)
	b := lineNetwork(t, other, 60, 100e-12, 0)
	if _, err := Subtract(a, b); !errors.Is(err, ErrFrequencyMismatch) {
		t.Fatalf("expected ErrFrequencyMismatch, got %v", err)
	}
	four := sidesFromPairs(t, a, a)
	if _, err := Subtract(a, four); !errors.Is(err, ErrPortMismatch) {
		t.Fatalf("expected ErrPortMismatch, got %v", err)
	}
}
