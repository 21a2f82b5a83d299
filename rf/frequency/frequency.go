package frequency

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

// Errors returned by grid constructors.
var (
	ErrEmpty         = errors.New("frequency: grid is empty")
	ErrNotIncreasing = errors.New("frequency: points must be strictly increasing")
	ErrNegative      = errors.New("frequency: points must be non-negative")
	ErrUnknownUnit   = errors.New("frequency: unknown unit")
)

// DefaultTolerance is the relative tolerance used by [Frequency.Equal].
const DefaultTolerance = 1e-9

// Unit is a display unit for frequency values.
type Unit int

// Supported units.
const (
	Hz Unit = iota
	KHz
	MHz
	GHz
	THz
)

var (
	unitNames       = [...]string{"Hz", "kHz", "MHz", "GHz", "THz"}
	unitMultipliers = [...]float64{1, 1e3, 1e6, 1e9, 1e12}
)

// String returns the conventional spelling of the unit.
func (u Unit) String() string {
	if u < Hz || u > THz {
		return fmt.Sprintf("Unit(%d)", int(u))
	}
	return unitNames[u]
}

// Multiplier returns the number of hertz in one u.
func (u Unit) Multiplier() float64 {
	if u < Hz || u > THz {
		return 1
	}
	return unitMultipliers[u]
}

// ParseUnit parses a unit name case-insensitively ("ghz", "MHz", ...).
func ParseUnit(s string) (Unit, error) {
	for i, name := range unitNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return Unit(i), nil
		}
	}
	return Hz, fmt.Errorf("%w: %q", ErrUnknownUnit, s)
}

// Frequency is a strictly increasing grid of frequency points in hertz.
// Unit only affects presentation.
type Frequency struct {
	f    []float64
	Unit Unit
}

// New builds a grid from points in hertz. The slice is copied.
func New(hz []float64, unit Unit) (Frequency, error) {
	if len(hz) == 0 {
		return Frequency{}, ErrEmpty
	}
	for i, v := range hz {
		if v < 0 || math.IsNaN(v) {
			return Frequency{}, fmt.Errorf("%w: index %d (%g)", ErrNegative, i, v)
		}
		if i > 0 && !(v > hz[i-1]) {
			return Frequency{}, fmt.Errorf("%w: index %d", ErrNotIncreasing, i)
		}
	}
	return Frequency{f: append([]float64(nil), hz...), Unit: unit}, nil
}

// MustNew is like [New] but panics on invalid input. Intended for tests and
// literal grids.
func MustNew(hz []float64, unit Unit) Frequency {
	f, err := New(hz, unit)
	if err != nil {
		panic(err)
	}
	return f
}

// Linspace returns n points evenly spaced from start to stop, both given in unit.
func Linspace(start, stop float64, n int, unit Unit) (Frequency, error) {
	if n <= 0 {
		return Frequency{}, ErrEmpty
	}
	m := unit.Multiplier()
	hz := make([]float64, n)
	if n == 1 {
		hz[0] = start * m
		return New(hz, unit)
	}
	step := (stop - start) / float64(n-1)
	for i := range hz {
		hz[i] = (start + float64(i)*step) * m
	}
	hz[n-1] = stop * m
	return New(hz, unit)
}

// Len returns the number of points.
func (f Frequency) Len() int { return len(f.f) }

// Hz returns a copy of the points in hertz.
func (f Frequency) Hz() []float64 { return append([]float64(nil), f.f...) }

// At returns point i in hertz.
func (f Frequency) At(i int) float64 { return f.f[i] }

// Scaled returns the points expressed in f.Unit.
func (f Frequency) Scaled() []float64 {
	m := f.Unit.Multiplier()
	out := make([]float64, len(f.f))
	for i, v := range f.f {
		out[i] = v / m
	}
	return out
}

// Start returns the first point in hertz, or 0 for an empty grid.
func (f Frequency) Start() float64 {
	if len(f.f) == 0 {
		return 0
	}
	return f.f[0]
}

// Stop returns the last point in hertz, or 0 for an empty grid.
func (f Frequency) Stop() float64 {
	if len(f.f) == 0 {
		return 0
	}
	return f.f[len(f.f)-1]
}

// Step returns the spacing of a uniform grid, or 0 when the grid has fewer
// than two points or is not uniform.
func (f Frequency) Step() float64 {
	if len(f.f) < 2 || !f.IsUniform(DefaultTolerance) {
		return 0
	}
	return (f.Stop() - f.Start()) / float64(len(f.f)-1)
}

// IsUniform reports whether all spacings match the mean spacing within the
// relative tolerance tol.
func (f Frequency) IsUniform(tol float64) bool {
	if len(f.f) < 3 {
		return len(f.f) > 0
	}
	mean := (f.Stop() - f.Start()) / float64(len(f.f)-1)
	for i := 1; i < len(f.f); i++ {
		if math.Abs(f.f[i]-f.f[i-1]-mean) > tol*math.Max(mean, 1) {
			return false
		}
	}
	return true
}

// HasDC reports whether the first point is 0 Hz.
func (f Frequency) HasDC() bool {
	return len(f.f) > 0 && f.f[0] == 0
}

// Equal reports whether both grids have the same length and every point
// matches within the relative tolerance tol (DefaultTolerance when tol <= 0).
func (f Frequency) Equal(other Frequency, tol float64) bool {
	if tol <= 0 {
		tol = DefaultTolerance
	}
	if len(f.f) != len(other.f) {
		return false
	}
	for i := range f.f {
		a, b := f.f[i], other.f[i]
		if math.Abs(a-b) > tol*math.Max(math.Abs(a), math.Abs(b)) {
			return false
		}
	}
	return true
}

// Contains reports whether other lies within the span of f.
func (f Frequency) Contains(other Frequency) bool {
	if len(f.f) == 0 || len(other.f) == 0 {
		return false
	}
	return other.Start() >= f.Start()*(1-DefaultTolerance) && other.Stop() <= f.Stop()*(1+DefaultTolerance)
}

// Overlap returns the points of f that fall within the span of other.
func (f Frequency) Overlap(other Frequency) (Frequency, error) {
	lo := sort.SearchFloat64s(f.f, other.Start())
	hi := sort.Search(len(f.f), func(i int) bool { return f.f[i] > other.Stop() })
	if lo >= hi {
		return Frequency{}, ErrEmpty
	}
	return New(f.f[lo:hi], f.Unit)
}

// Drop returns the grid without the first n points.
func (f Frequency) Drop(n int) (Frequency, error) {
	if n >= len(f.f) {
		return Frequency{}, ErrEmpty
	}
	return New(f.f[n:], f.Unit)
}

// String summarises the grid, e.g. "10-20000 MHz, 2000 pts".
func (f Frequency) String() string {
	if len(f.f) == 0 {
		return "empty"
	}
	m := f.Unit.Multiplier()
	return fmt.Sprintf("%g-%g %s, %d pts", f.Start()/m, f.Stop()/m, f.Unit, len(f.f))
}
