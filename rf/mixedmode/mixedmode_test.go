package mixedmode

import (
	"errors"
	"testing"

	"github.com/cwbudde/algo-rf/internal/testutil"
	"github.com/cwbudde/algo-rf/rf/cmat"
	"github.com/cwbudde/algo-rf/rf/frequency"
	"github.com/cwbudde/algo-rf/rf/network"
)

var grid = frequency.MustNew(testutil.Grid(250e6, 40), frequency.GHz)

func line(t *testing.T, zLine, delay float64) network.Network {
	t.Helper()
	s := make([]cmat.Matrix, grid.Len())
	for k, f := range grid.Hz() {
		s11, s21 := testutil.Line(f, zLine, 50, delay, 0.02)
		s[k] = cmat.FromRows([][]complex128{{s11, s21}, {s21, s11}})
	}
	n, err := network.New("line", grid, s)
	if err != nil {
		t.Fatal(err)
	}
	return n
}

// pairOfLines returns a 4-port made of two uncoupled lines with through
// paths 0→2 and 1→3.
func pairOfLines(t *testing.T, a, b network.Network) network.Network {
	t.Helper()
	c, err := network.ConcatPorts(a, b)
	if err != nil {
		t.Fatal(err)
	}
	out, err := c.Subnetwork(0, 2, 1, 3)
	if err != nil {
		t.Fatal(err)
	}
	return out
}

func TestPairs(t *testing.T) {
	tests := []struct {
		order Order
		n     int
		want  [][2]int
	}{
		{OrderSides, 4, [][2]int{{0, 1}, {2, 3}}},
		{OrderOddEven, 4, [][2]int{{0, 2}, {1, 3}}},
		{OrderSides, 2, [][2]int{{0, 1}}},
	}
	for _, tc := range tests {
		t.Run(tc.order.String(), func(t *testing.T) {
			got, err := tc.order.Pairs(tc.n)
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != len(tc.want) {
				t.Fatalf("Pairs = %v, want %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("Pairs = %v, want %v", got, tc.want)
				}
			}
		})
	}
	if _, err := OrderSides.Pairs(3); !errors.Is(err, network.ErrOddPorts) {
		t.Fatalf("expected ErrOddPorts, got %v", err)
	}
}

func TestParseOrder(t *testing.T) {
	for in, want := range map[string]Order{"sides": OrderSides, "": OrderSides, "OddEven": OrderOddEven} {
		got, err := ParseOrder(in)
		if err != nil || got != want {
			t.Fatalf("ParseOrder(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseOrder("diagonal"); !errors.Is(err, ErrUnknownOrder) {
		t.Fatalf("expected ErrUnknownOrder, got %v", err)
	}
}

func TestIdenticalLinesHaveNoModeConversion(t *testing.T) {
	l := line(t, 50, 90e-12)
	se := pairOfLines(t, l, l)
	mm, err := ToMixedMode(se, OrderSides)
	if err != nil {
		t.Fatal(err)
	}
	if mm.Z0[0] != 100 || mm.Z0[2] != 25 {
		t.Fatalf("Z0 = %v", mm.Z0)
	}

	sdd, _ := SDD(mm)
	scc, _ := SCC(mm)
	sdc, _ := SDC(mm)
	scd, _ := SCD(mm)
	testutil.RequireComplexSliceNearlyEqual(t, sdd.At(1, 0), l.At(1, 0), 1e-12)
	testutil.RequireComplexSliceNearlyEqual(t, scc.At(1, 0), l.At(1, 0), 1e-12)
	for _, blk := range []network.Network{sdc, scd} {
		for _, m := range blk.S {
			if m.MaxAbs() > 1e-12 {
				t.Fatalf("%s: unexpected mode conversion %v", blk.Name, m)
			}
		}
	}
}

func TestSkewCreatesModeConversion(t *testing.T) {
	se := pairOfLines(t, line(t, 50, 90e-12), line(t, 50, 110e-12))
	mm, err := ToMixedMode(se, OrderSides)
	if err != nil {
		t.Fatal(err)
	}
	sdc, _ := SDC(mm)
	if sdc.S[grid.Len()-1].MaxAbs() < 0.1 {
		t.Fatal("expected mode conversion from skewed lines")
	}
}

func TestRoundTrip(t *testing.T) {
	se := pairOfLines(t, line(t, 61, 90e-12), line(t, 43, 70e-12))
	for _, order := range []Order{OrderSides, OrderOddEven} {
		t.Run(order.String(), func(t *testing.T) {
			mm, err := ToMixedMode(se, order)
			if err != nil {
				t.Fatal(err)
			}
			back, err := ToSingleEnded(mm, order)
			if err != nil {
				t.Fatal(err)
			}
			for i := range 4 {
				if back.Z0[i] != 50 {
					t.Fatalf("Z0 = %v", back.Z0)
				}
				for j := range 4 {
					testutil.RequireComplexSliceNearlyEqual(t, back.At(i, j), se.At(i, j), 1e-12)
				}
			}
		})
	}
}

func TestOddEvenMatchesSidesAfterRenumbering(t *testing.T) {
	l := line(t, 55, 60e-12)
	sides := pairOfLines(t, l, l)
	// Sides order [0,1 | 2,3] becomes odd/even order [0,2 | 1,3].
	oddeven, err := sides.Subnetwork(0, 2, 1, 3)
	if err != nil {
		t.Fatal(err)
	}
	a, _ := ToMixedMode(sides, OrderSides)
	b, _ := ToMixedMode(oddeven, OrderOddEven)
	for i := range 4 {
		for j := range 4 {
			testutil.RequireComplexSliceNearlyEqual(t, a.At(i, j), b.At(i, j), 1e-12)
		}
	}
}

func TestUnequalZ0(t *testing.T) {
	se := pairOfLines(t, line(t, 50, 90e-12), line(t, 50, 90e-12))
	se, _ = se.Renormalize(50, 75, 50, 75)
	if _, err := ToMixedMode(se, OrderSides); !errors.Is(err, ErrUnequalZ0) {
		t.Fatalf("expected ErrUnequalZ0, got %v", err)
	}
}

func TestCombine(t *testing.T) {
	l := line(t, 50, 90e-12)
	mm, _ := ToMixedMode(pairOfLines(t, l, l), OrderSides)
	dd, _ := SDD(mm)
	cc, _ := SCC(mm)
	got, err := Combine(dd, cc)
	if err != nil {
		t.Fatal(err)
	}
	for i := range 4 {
		for j := range 4 {
			testutil.RequireComplexSliceNearlyEqual(t, got.At(i, j), mm.At(i, j), 1e-12)
		}
	}
}
