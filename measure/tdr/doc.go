// Package tdr derives time-domain views of S-parameter data: impulse and
// step responses, time-domain reflectometry impedance profiles and the
// propagation delay of a 2-port.
//
// Traces must be sampled on a harmonic grid f_k = k·Δf (k = 1..m) as
// produced by most VNA setups for time-domain work. The DC point is
// extrapolated from the first two samples and the spectrum is tapered with
// a half Hann window unless Analyzer.Window is cleared. Responses hold 2m
// samples spaced dt = 1/(2m·Δf) with t = 0 at index m.
//
// # Usage
//
//	a := tdr.NewAnalyzer(50)
//	m, err := a.Analyze(cable)
//	fmt.Printf("delay %.1f ps, Z %.1f..%.1f Ω\n", m.Delay*1e12, m.MinImpedance, m.MaxImpedance)
package tdr
