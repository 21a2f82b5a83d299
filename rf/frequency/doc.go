// Package frequency provides the frequency grid shared by networks.
//
// Points are always stored in hertz and must be strictly increasing. The
// [Unit] of a grid only selects how values are printed and written to
// Touchstone files.
//
// # Usage
//
//	f, _ := frequency.Linspace(10, 20000, 2000, frequency.MHz)
//	fmt.Println(f)            // 10-20000 MHz, 2000 pts
//	f.IsUniform(1e-9)         // true
//	f.Equal(other, 0)         // point-wise comparison with DefaultTolerance
package frequency
