// Package cmat implements the small dense complex matrices used for
// per-frequency network algebra.
package cmat

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"
	"sort"
	"strings"
)

// ErrSingular is returned when a matrix cannot be inverted.
var ErrSingular = errors.New("cmat: matrix is singular")

// singularTol is the pivot magnitude below which a matrix is treated as singular.
const singularTol = 1e-300

// Matrix is a dense row-major complex matrix.
type Matrix struct {
	Rows, Cols int
	Data       []complex128
}

// New returns a zero rows×cols matrix.
func New(rows, cols int) Matrix {
	return Matrix{Rows: rows, Cols: cols, Data: make([]complex128, rows*cols)}
}

// Identity returns the n×n identity matrix.
func Identity(n int) Matrix {
	m := New(n, n)
	for i := range n {
		m.Data[i*n+i] = 1
	}
	return m
}

// FromRows builds a matrix from row slices. All rows must have equal length.
func FromRows(rows [][]complex128) Matrix {
	if len(rows) == 0 {
		return Matrix{}
	}
	m := New(len(rows), len(rows[0]))
	for i, r := range rows {
		if len(r) != m.Cols {
			panic(fmt.Sprintf("cmat: row %d has %d columns, want %d", i, len(r), m.Cols))
		}
		copy(m.Data[i*m.Cols:], r)
	}
	return m
}

// At returns element (i, j).
func (m Matrix) At(i, j int) complex128 { return m.Data[i*m.Cols+j] }

// Set assigns element (i, j).
func (m Matrix) Set(i, j int, v complex128) { m.Data[i*m.Cols+j] = v }

// Clone returns a deep copy.
func (m Matrix) Clone() Matrix {
	return Matrix{Rows: m.Rows, Cols: m.Cols, Data: append([]complex128(nil), m.Data...)}
}

// IsSquare reports whether Rows == Cols.
func (m Matrix) IsSquare() bool { return m.Rows == m.Cols }

// Mul returns m·b.
func (m Matrix) Mul(b Matrix) Matrix {
	if m.Cols != b.Rows {
		panic(fmt.Sprintf("cmat: dimension mismatch %dx%d · %dx%d", m.Rows, m.Cols, b.Rows, b.Cols))
	}
	out := New(m.Rows, b.Cols)
	for i := range m.Rows {
		for k := range m.Cols {
			a := m.Data[i*m.Cols+k]
			if a == 0 {
				continue
			}
			row := b.Data[k*b.Cols : (k+1)*b.Cols]
			dst := out.Data[i*out.Cols : (i+1)*out.Cols]
			for j, v := range row {
				dst[j] += a * v
			}
		}
	}
	return out
}

// Add returns m+b.
func (m Matrix) Add(b Matrix) Matrix {
	m.mustMatch(b)
	out := m.Clone()
	for i, v := range b.Data {
		out.Data[i] += v
	}
	return out
}

// Sub returns m-b.
func (m Matrix) Sub(b Matrix) Matrix {
	m.mustMatch(b)
	out := m.Clone()
	for i, v := range b.Data {
		out.Data[i] -= v
	}
	return out
}

// Scale returns s·m.
func (m Matrix) Scale(s complex128) Matrix {
	out := m.Clone()
	for i := range out.Data {
		out.Data[i] *= s
	}
	return out
}

// Transpose returns mᵀ.
func (m Matrix) Transpose() Matrix {
	out := New(m.Cols, m.Rows)
	for i := range m.Rows {
		for j := range m.Cols {
			out.Data[j*out.Cols+i] = m.Data[i*m.Cols+j]
		}
	}
	return out
}

// ConjTranspose returns the Hermitian transpose mᴴ.
func (m Matrix) ConjTranspose() Matrix {
	out := New(m.Cols, m.Rows)
	for i := range m.Rows {
		for j := range m.Cols {
			out.Data[j*out.Cols+i] = cmplx.Conj(m.Data[i*m.Cols+j])
		}
	}
	return out
}

// Block returns the rows×cols sub-matrix starting at (r0, c0).
func (m Matrix) Block(r0, c0, rows, cols int) Matrix {
	out := New(rows, cols)
	for i := range rows {
		copy(out.Data[i*cols:(i+1)*cols], m.Data[(r0+i)*m.Cols+c0:(r0+i)*m.Cols+c0+cols])
	}
	return out
}

// SetBlock copies b into m starting at (r0, c0).
func (m Matrix) SetBlock(r0, c0 int, b Matrix) {
	for i := range b.Rows {
		copy(m.Data[(r0+i)*m.Cols+c0:], b.Data[i*b.Cols:(i+1)*b.Cols])
	}
}

// Permute returns P·m·Pᵀ where order[i] is the source index of new index i.
func (m Matrix) Permute(order []int) Matrix {
	out := New(len(order), len(order))
	for i, oi := range order {
		for j, oj := range order {
			out.Data[i*out.Cols+j] = m.Data[oi*m.Cols+oj]
		}
	}
	return out
}

// Inverse returns m⁻¹ using Gauss-Jordan elimination with partial pivoting.
func (m Matrix) Inverse() (Matrix, error) {
	if !m.IsSquare() {
		return Matrix{}, fmt.Errorf("cmat: inverse of non-square %dx%d matrix", m.Rows, m.Cols)
	}
	return m.Solve(Identity(m.Rows))
}

// Solve returns X with m·X = b.
func (m Matrix) Solve(b Matrix) (Matrix, error) {
	n := m.Rows
	if !m.IsSquare() || b.Rows != n {
		return Matrix{}, fmt.Errorf("cmat: cannot solve %dx%d system with %dx%d rhs", m.Rows, m.Cols, b.Rows, b.Cols)
	}
	a := m.Clone()
	x := b.Clone()
	scale := a.MaxAbs()
	if scale == 0 {
		return Matrix{}, ErrSingular
	}

	for col := range n {
		pivot := col
		best := cmplx.Abs(a.Data[col*n+col])
		for r := col + 1; r < n; r++ {
			if v := cmplx.Abs(a.Data[r*n+col]); v > best {
				best, pivot = v, r
			}
		}
		if best <= singularTol || best/scale < 1e-15 {
			return Matrix{}, ErrSingular
		}
		if pivot != col {
			a.swapRows(pivot, col)
			x.swapRows(pivot, col)
		}

		inv := 1 / a.Data[col*n+col]
		for j := range n {
			a.Data[col*n+j] *= inv
		}
		for j := range x.Cols {
			x.Data[col*x.Cols+j] *= inv
		}

		for r := range n {
			if r == col {
				continue
			}
			f := a.Data[r*n+col]
			if f == 0 {
				continue
			}
			for j := range n {
				a.Data[r*n+j] -= f * a.Data[col*n+j]
			}
			for j := range x.Cols {
				x.Data[r*x.Cols+j] -= f * x.Data[col*x.Cols+j]
			}
		}
	}
	return x, nil
}

// MaxAbs returns the largest element magnitude.
func (m Matrix) MaxAbs() float64 {
	best := 0.0
	for _, v := range m.Data {
		if a := cmplx.Abs(v); a > best {
			best = a
		}
	}
	return best
}

// Norm2 returns the spectral norm (largest singular value) of m.
func (m Matrix) Norm2() float64 {
	if len(m.Data) == 0 {
		return 0
	}
	eig := m.ConjTranspose().Mul(m).HermitianEigenvalues()
	top := eig[len(eig)-1]
	if top < 0 {
		return 0
	}
	return math.Sqrt(top)
}

// HermitianEigenvalues returns the eigenvalues of a Hermitian matrix in
// ascending order. The matrix is embedded in the real symmetric matrix
// [[Re, -Im], [Im, Re]], whose spectrum repeats each eigenvalue twice, and
// diagonalised with cyclic Jacobi rotations.
func (m Matrix) HermitianEigenvalues() []float64 {
	n := m.Rows
	size := 2 * n
	a := make([]float64, size*size)
	for i := range n {
		for j := range n {
			v := m.Data[i*n+j]
			a[i*size+j] = real(v)
			a[(i+n)*size+j+n] = real(v)
			a[i*size+j+n] = -imag(v)
			a[(i+n)*size+j] = imag(v)
		}
	}

	for range 100 {
		off := 0.0
		for p := range size {
			for q := p + 1; q < size; q++ {
				off += a[p*size+q] * a[p*size+q]
			}
		}
		if off < 1e-30 {
			break
		}
		for p := range size {
			for q := p + 1; q < size; q++ {
				apq := a[p*size+q]
				if math.Abs(apq) < 1e-300 {
					continue
				}
				theta := (a[q*size+q] - a[p*size+p]) / (2 * apq)
				t := math.Copysign(1, theta) / (math.Abs(theta) + math.Sqrt(theta*theta+1))
				c := 1 / math.Sqrt(t*t+1)
				s := t * c
				for k := range size {
					akp, akq := a[k*size+p], a[k*size+q]
					a[k*size+p] = c*akp - s*akq
					a[k*size+q] = s*akp + c*akq
				}
				for k := range size {
					apk, aqk := a[p*size+k], a[q*size+k]
					a[p*size+k] = c*apk - s*aqk
					a[q*size+k] = s*apk + c*aqk
				}
			}
		}
	}

	diag := make([]float64, size)
	for i := range size {
		diag[i] = a[i*size+i]
	}
	sort.Float64s(diag)
	out := make([]float64, n)
	for i := range n {
		out[i] = diag[2*i]
	}
	return out
}

// String formats the matrix one row per line.
func (m Matrix) String() string {
	var sb strings.Builder
	for i := range m.Rows {
		for j := range m.Cols {
			if j > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "%.6g", m.Data[i*m.Cols+j])
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (m Matrix) swapRows(a, b int) {
	for j := range m.Cols {
		m.Data[a*m.Cols+j], m.Data[b*m.Cols+j] = m.Data[b*m.Cols+j], m.Data[a*m.Cols+j]
	}
}

func (m Matrix) mustMatch(b Matrix) {
	if m.Rows != b.Rows || m.Cols != b.Cols {
		panic(fmt.Sprintf("cmat: dimension mismatch %dx%d vs %dx%d", m.Rows, m.Cols, b.Rows, b.Cols))
	}
}
