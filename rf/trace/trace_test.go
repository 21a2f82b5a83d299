package trace

import (
	"errors"
	"math"
	"math/cmplx"
	"testing"

	"github.com/cwbudde/algo-rf/internal/testutil"
)

func TestMagnitudeAndPower(t *testing.T) {
	in := []complex128{3 + 4i, 0, -1, 1i}
	testutil.RequireSliceNearlyEqual(t, Magnitude(in), []float64{5, 0, 1, 1}, 1e-12)
	testutil.RequireSliceNearlyEqual(t, Power(in), []float64{25, 0, 1, 1}, 1e-12)
	if Magnitude(nil) != nil || Power(nil) != nil {
		t.Fatal("expected nil for empty input")
	}
}

func TestDB(t *testing.T) {
	got := DB([]complex128{1, 0.1, 0})
	if math.Abs(got[0]) > 1e-12 || math.Abs(got[1]+20) > 1e-9 {
		t.Fatalf("DB() = %v", got)
	}
	if !math.IsInf(got[2], -1) {
		t.Fatalf("DB(0) = %v, want -Inf", got[2])
	}
}

func TestPhaseDeg(t *testing.T) {
	got := PhaseDeg([]complex128{1, 1i, -1i})
	testutil.RequireSliceNearlyEqual(t, got, []float64{0, 90, -90}, 1e-12)
}

func TestUnwrapPhase(t *testing.T) {
	// A linear phase ramp wrapped into (-π, π] must come back as the ramp.
	n := 50
	want := make([]float64, n)
	wrapped := make([]float64, n)
	for i := range want {
		want[i] = -0.4 * float64(i)
		wrapped[i] = cmplx.Phase(cmplx.Rect(1, want[i]))
	}
	testutil.RequireSliceNearlyEqual(t, UnwrapPhase(wrapped), want, 1e-9)
}

func TestGroupDelayOfPureDelay(t *testing.T) {
	const tau = 250e-12
	f := testutil.Grid(10e6, 200)
	s := make([]complex128, len(f))
	for i, v := range f {
		s[i] = cmplx.Rect(1, -2*math.Pi*v*tau)
	}
	gd, err := GroupDelay(f, UnwrapPhase(Phase(s)))
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range gd {
		if math.Abs(v-tau) > 1e-15 {
			t.Fatalf("index %d: group delay %g, want %g", i, v, tau)
		}
	}
}

func TestGroupDelayValidation(t *testing.T) {
	if _, err := GroupDelay([]float64{1}, []float64{0}); !errors.Is(err, ErrTooShort) {
		t.Fatalf("expected ErrTooShort, got %v", err)
	}
	if _, err := GroupDelay([]float64{1, 2, 3}, []float64{0, 1}); !errors.Is(err, ErrLength) {
		t.Fatalf("expected ErrLength, got %v", err)
	}
}

func TestInterpolateLinear(t *testing.T) {
	got, err := InterpolateLinear([]float64{0, 1, 3}, []float64{0, 10, 30}, []float64{-1, 0.5, 2, 4})
	if err != nil {
		t.Fatal(err)
	}
	testutil.RequireSliceNearlyEqual(t, got, []float64{0, 5, 20, 30}, 1e-12)

	if _, err := InterpolateLinear([]float64{0, 0}, []float64{1, 2}, nil); !errors.Is(err, ErrNotIncreasing) {
		t.Fatalf("expected ErrNotIncreasing, got %v", err)
	}
}
