package network

import (
	"testing"

	"github.com/cwbudde/algo-rf/internal/testutil"
	"github.com/cwbudde/algo-rf/rf/cmat"
	"github.com/cwbudde/algo-rf/rf/frequency"
)

func testGrid() frequency.Frequency {
	return frequency.MustNew(testutil.Grid(100e6, 50), frequency.GHz)
}

func lineNetwork(t testing.TB, freq frequency.Frequency, zLine, delay, loss float64) Network {
	t.Helper()
	s := make([]cmat.Matrix, freq.Len())
	for k, f := range freq.Hz() {
		s11, s21 := testutil.Line(f, zLine, DefaultZ0, delay, loss)
		s[k] = cmat.FromRows([][]complex128{{s11, s21}, {s21, s11}})
	}
	n, err := New("line", freq, s)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return n
}

// requireNetworksNearlyEqual compares every S element of two networks.
func requireNetworksNearlyEqual(t *testing.T, got, want Network, eps float64) {
	t.Helper()
	if got.Ports() != want.Ports() || got.Len() != want.Len() {
		t.Fatalf("shape: got %d ports x %d pts, want %d x %d", got.Ports(), got.Len(), want.Ports(), want.Len())
	}
	for i := range got.Ports() {
		for j := range got.Ports() {
			d, err := testutil.MaxAbsDiff(got.At(i, j), want.At(i, j))
			if err != nil {
				t.Fatal(err)
			}
			if d > eps {
				t.Fatalf("S%d%d differs by %g (eps %g)", i+1, j+1, d, eps)
			}
		}
	}
}

// sidesFromPairs turns two uncoupled 2-ports into a 4-port with side 1 =
// (a.1, b.1) and side 2 = (a.2, b.2).
func sidesFromPairs(t testing.TB, a, b Network) Network {
	t.Helper()
	c, err := ConcatPorts(a, b)
	if err != nil {
		t.Fatal(err)
	}
	out, err := c.Subnetwork(0, 2, 1, 3)
	if err != nil {
		t.Fatal(err)
	}
	return out
}
