package tdr

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-rf/internal/testutil"
	"github.com/cwbudde/algo-rf/rf/cmat"
	"github.com/cwbudde/algo-rf/rf/frequency"
	"github.com/cwbudde/algo-rf/rf/network"
)

// 400 points at 50 MHz give dt = 25 ps.
func testGrid() frequency.Frequency {
	return frequency.MustNew(testutil.Grid(50e6, 400), frequency.GHz)
}

func lineNetwork(t *testing.T, zLine, delay float64) network.Network {
	t.Helper()
	freq := testGrid()
	s := make([]cmat.Matrix, freq.Len())
	for k, f := range freq.Hz() {
		s11, s21 := testutil.Line(f, zLine, 50, delay, 0)
		s[k] = cmat.FromRows([][]complex128{{s11, s21}, {s21, s11}})
	}
	n, err := network.New("line", freq, s)
	if err != nil {
		t.Fatal(err)
	}
	return n
}

func TestImpulseTimeAxis(t *testing.T) {
	freq := testGrid()
	r, err := NewAnalyzer(50).Impulse(freq, make([]complex128, freq.Len()))
	if err != nil {
		t.Fatal(err)
	}
	if len(r.Values) != 800 || len(r.Time) != 800 {
		t.Fatalf("len = %d, want 800", len(r.Values))
	}
	if r.Time[r.zero()] != 0 {
		t.Fatalf("t[m] = %g, want 0", r.Time[r.zero()])
	}
	if dt := r.Time[1] - r.Time[0]; math.Abs(dt-25e-12) > 1e-18 {
		t.Fatalf("dt = %g, want 25 ps", dt)
	}
}

func TestAnalyzeMatchedLine(t *testing.T) {
	m, err := NewAnalyzer(50).Analyze(lineNetwork(t, 50, 500e-12))
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(m.Delay-500e-12) > 1e-15 {
		t.Errorf("Delay = %g, want 500 ps", m.Delay)
	}
	if m.Onset > m.Delay || m.Onset < m.Delay-5*25e-12 {
		t.Errorf("Onset = %g, want within 5 samples before %g", m.Onset, m.Delay)
	}
	if m.MinImpedance != 50 || m.MaxImpedance != 50 {
		t.Errorf("impedance %g..%g, want 50", m.MinImpedance, m.MaxImpedance)
	}
}

func TestAnalyzeMismatchedLine(t *testing.T) {
	m, err := NewAnalyzer(0).Analyze(lineNetwork(t, 60, 500e-12))
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(m.MaxImpedance-60) > 1.5 {
		t.Errorf("MaxImpedance = %.2f, want about 60", m.MaxImpedance)
	}
	if m.MinImpedance < 49 || m.MinImpedance > m.MaxImpedance {
		t.Errorf("MinImpedance = %.2f", m.MinImpedance)
	}
}

func TestStepOfConstantReflection(t *testing.T) {
	freq := testGrid()
	tr := make([]complex128, freq.Len())
	for i := range tr {
		tr[i] = 0.2
	}
	r, err := NewAnalyzer(50).Step(freq, tr)
	if err != nil {
		t.Fatal(err)
	}
	// A frequency-flat reflection is a step of 0.2 at t = 0.
	if got := r.Values[r.zero()+50]; math.Abs(got-0.2) > 1e-3 {
		t.Fatalf("step plateau = %g, want 0.2", got)
	}
	if got := r.Values[r.zero()-50]; math.Abs(got) > 1e-3 {
		t.Fatalf("step before t=0 = %g, want 0", got)
	}
}

func TestErrors(t *testing.T) {
	a := NewAnalyzer(50)
	if _, err := a.Impulse(testGrid(), nil); !errors.Is(err, ErrEmptyTrace) {
		t.Errorf("empty: err = %v", err)
	}

	shifted := frequency.MustNew([]float64{1e9, 1.5e9, 2e9}, frequency.GHz)
	if _, err := a.Impulse(shifted, make([]complex128, 3)); !errors.Is(err, ErrGrid) {
		t.Errorf("grid: err = %v", err)
	}

	four, err := network.Zeros("z", testGrid(), 4)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := a.Analyze(four); !errors.Is(err, ErrPorts) {
		t.Errorf("ports: err = %v", err)
	}
}

func TestFindOnset(t *testing.T) {
	h := []float64{0, 0.01, -0.05, 0.2, 1, 0.3}
	if got := findOnset(h, 0.1); got != 3 {
		t.Fatalf("findOnset = %d, want 3", got)
	}
	if got := findPeak(h); got != 4 {
		t.Fatalf("findPeak = %d, want 4", got)
	}
}
