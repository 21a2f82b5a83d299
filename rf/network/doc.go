// Package network implements multi-port S-parameter network algebra.
//
// A [Network] holds one square S matrix per frequency point together with
// real per-port reference impedances. All operations return new networks
// and leave their inputs untouched.
//
// Ports are 0-based. Operations that need two sides ([Cascade], [Inverse],
// [Network.ToT], [Network.Flip]) treat the first half of the ports as side 1
// and the second half as side 2, so a 4-port with through paths 0→2 and
// 1→3 cascades like two coupled 2-ports.
//
// # Usage
//
//	total, _ := network.Cascade(fixture, dut)
//	dut2, _ := network.DeembedRight(total, fixture2)
//	_, aligned, _ := network.Align(total, other, network.WithMethod(network.Polar))
package network
