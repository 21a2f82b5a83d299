// Package mixedmode converts between single-ended and mixed-mode
// (differential/common) S parameters of 2p-port networks.
//
// Mixed-mode networks have ports [D1..Dp, C1..Cp]. With single-ended
// reference z0, differential ports are referred to 2·z0 and common ports to
// z0/2, which keeps the transform a real orthogonal change of basis.
//
// # Usage
//
//	mm, _ := mixedmode.ToMixedMode(se, mixedmode.OrderSides)
//	sdd, _ := mixedmode.SDD(mm)
//	il := trace.DB(sdd.At(1, 0))
package mixedmode
