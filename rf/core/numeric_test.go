package core

import (
	"math"
	"testing"
)

func TestNearlyEqual(t *testing.T) {
	if !NearlyEqual(1.0, 1.0+1e-13, 1e-12) {
		t.Fatal("expected values to be nearly equal")
	}
	if NearlyEqual(1.0, 1.1, 1e-3) {
		t.Fatal("expected values to differ")
	}
	if !NearlyEqual(1e9, 1e9+0.5, 1e-9) {
		t.Fatal("expected relative tolerance to apply for large values")
	}
}

func TestComplexNearlyEqual(t *testing.T) {
	if !ComplexNearlyEqual(1+1i, 1+1i+1e-13i, 1e-12) {
		t.Fatal("expected values to be nearly equal")
	}
	if ComplexNearlyEqual(1+1i, 1-1i, 1e-3) {
		t.Fatal("expected values to differ")
	}
}

func TestDBConversions(t *testing.T) {
	linear := DBToLinear(-6)
	db := LinearToDB(linear)
	if !NearlyEqual(db, -6, 1e-10) {
		t.Fatalf("LinearToDB(DBToLinear(-6)) = %v, want -6", db)
	}
	if !math.IsInf(LinearToDB(0), -1) {
		t.Fatal("expected -Inf for zero")
	}
	if !math.IsNaN(LinearToDB(-1)) {
		t.Fatal("expected NaN for negative amplitude")
	}
	if p := DBPowerToLinear(3); !NearlyEqual(p, 2.0, 0.01) {
		t.Fatalf("DBPowerToLinear(3) = %v, want ~2.0", p)
	}
	if !math.IsInf(LinearPowerToDB(0), -1) {
		t.Fatal("expected -Inf for zero power")
	}
}

func TestPolarRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		mag  float64
		deg  float64
	}{
		{"unit", 1, 0},
		{"quarter", 0.5, 90},
		{"negative angle", 0.25, -135},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			z := FromPolar(tt.mag, tt.deg)
			mag, deg := ToPolar(z)
			if !NearlyEqual(mag, tt.mag, 1e-12) || !NearlyEqual(deg, tt.deg, 1e-9) {
				t.Fatalf("ToPolar(FromPolar(%v, %v)) = (%v, %v)", tt.mag, tt.deg, mag, deg)
			}

			db, deg2 := ToDB(FromDB(LinearToDB(tt.mag), tt.deg))
			if !NearlyEqual(db, LinearToDB(tt.mag), 1e-9) || !NearlyEqual(deg2, tt.deg, 1e-9) {
				t.Fatalf("ToDB(FromDB()) = (%v, %v)", db, deg2)
			}
		})
	}
}
