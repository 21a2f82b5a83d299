package core

import (
	"math"
	"math/cmplx"
)

const defaultEpsilon = 1e-12

// NearlyEqual reports whether a and b are equal within eps.
// The tolerance is absolute near zero and relative otherwise.
func NearlyEqual(a, b, eps float64) bool {
	if eps <= 0 {
		eps = defaultEpsilon
	}

	diff := math.Abs(a - b)
	if diff <= eps {
		return true
	}

	largest := math.Max(math.Abs(a), math.Abs(b))
	if largest == 0 {
		return diff <= eps
	}

	return diff/largest <= eps
}

// ComplexNearlyEqual reports whether |a-b| <= eps.
func ComplexNearlyEqual(a, b complex128, eps float64) bool {
	if eps <= 0 {
		eps = defaultEpsilon
	}

	return cmplx.Abs(a-b) <= eps
}

// DBToLinear converts dB to linear amplitude (20*log10 convention).
func DBToLinear(db float64) float64 {
	return math.Pow(10, db/20)
}

// LinearToDB converts linear amplitude to dB (20*log10 convention).
// Returns -Inf for zero and NaN for negative values.
func LinearToDB(linear float64) float64 {
	if linear < 0 {
		return math.NaN()
	}

	if linear == 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(linear)
}

// DBPowerToLinear converts dB to linear power (10*log10 convention).
func DBPowerToLinear(db float64) float64 {
	return math.Pow(10, db/10)
}

// LinearPowerToDB converts linear power to dB (10*log10 convention).
// Returns -Inf for zero and NaN for negative values.
func LinearPowerToDB(power float64) float64 {
	if power < 0 {
		return math.NaN()
	}

	if power == 0 {
		return math.Inf(-1)
	}

	return 10 * math.Log10(power)
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 { return deg * math.Pi / 180 }

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 { return rad * 180 / math.Pi }

// FromPolar builds a complex value from a linear magnitude and an angle in degrees.
func FromPolar(mag, deg float64) complex128 {
	return cmplx.Rect(mag, Radians(deg))
}

// FromDB builds a complex value from a dB magnitude and an angle in degrees.
func FromDB(db, deg float64) complex128 {
	return cmplx.Rect(DBToLinear(db), Radians(deg))
}

// ToPolar returns the linear magnitude and the angle in degrees of z.
func ToPolar(z complex128) (mag, deg float64) {
	return cmplx.Abs(z), Degrees(cmplx.Phase(z))
}

// ToDB returns the dB magnitude and the angle in degrees of z.
func ToDB(z complex128) (db, deg float64) {
	mag, deg := ToPolar(z)
	return LinearToDB(mag), deg
}
