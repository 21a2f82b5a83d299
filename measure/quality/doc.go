// Package quality computes the IEEE P370 frequency-domain quality metrics
// of S-parameter networks: causality, passivity and reciprocity.
//
// Each metric is a percentage where 100 means no violation. Passivity and
// reciprocity weight every frequency point by how far it exceeds a small
// threshold; causality measures how much of each element's polar
// trajectory rotates clockwise. [Grade] maps values to qualitative levels.
//
// # Usage
//
//	rep := quality.CheckSE(ntw)
//	if !rep.Pass(quality.DefaultPassCriterion) {
//		log.Printf("passivity %.1f%% (%s)", rep.Passivity.Value, rep.Passivity.Level)
//	}
package quality
