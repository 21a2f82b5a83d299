package quality

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-rf/rf/network"
)

const (
	// DefaultPassCriterion is the minimum metric value, in percent, for a
	// network to pass a quality check.
	DefaultPassCriterion = 95.0

	passivityThreshold   = 1.00001
	reciprocityThreshold = 1e-6
	weightScale          = 0.1
)

// Level is a qualitative grade for a metric value.
type Level int

// Grades, best first.
const (
	Good Level = iota
	Acceptable
	Inconclusive
	Poor
)

// String returns the grade name.
func (l Level) String() string {
	switch l {
	case Good:
		return "good"
	case Acceptable:
		return "acceptable"
	case Inconclusive:
		return "inconclusive"
	case Poor:
		return "poor"
	default:
		return fmt.Sprintf("Level(%d)", int(l))
	}
}

// Kind names a quality metric.
type Kind int

// Metric kinds.
const (
	Causality Kind = iota
	Passivity
	Reciprocity
)

// String returns the metric name.
func (k Kind) String() string {
	switch k {
	case Causality:
		return "causality"
	case Passivity:
		return "passivity"
	case Reciprocity:
		return "reciprocity"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Grade maps a metric value in percent to a Level. Causality uses wider
// bands than passivity and reciprocity.
func Grade(kind Kind, value float64) Level {
	bands := [3]float64{99.9, 99, 80}
	if kind == Causality {
		bands = [3]float64{80, 50, 20}
	}
	switch {
	case value >= bands[0]:
		return Good
	case value >= bands[1]:
		return Acceptable
	case value >= bands[2]:
		return Inconclusive
	default:
		return Poor
	}
}

// Metric is a metric value in percent together with its grade.
type Metric struct {
	Value float64
	Level Level
}

func newMetric(kind Kind, value float64) Metric {
	return Metric{Value: value, Level: Grade(kind, value)}
}

// weighted aggregates per-frequency excess weights into a percentage:
// max((N − Σw)/N, 0)·100.
func weighted(excess []float64, threshold float64) float64 {
	if len(excess) == 0 {
		return 100
	}
	sum := 0.0
	for _, v := range excess {
		if v > threshold {
			sum += (v - threshold) / weightScale
		}
	}
	n := float64(len(excess))
	return math.Max((n-sum)/n, 0) * 100
}

// PassivityValue returns the passivity metric in percent. Each frequency
// point contributes by how far the largest singular value of S exceeds
// unity.
func PassivityValue(n network.Network) float64 {
	pm := make([]float64, n.Len())
	for k, s := range n.S {
		pm[k] = s.Norm2()
	}
	return weighted(pm, passivityThreshold)
}

// ReciprocityValue returns the reciprocity metric in percent, based on the
// mean |Sij − Sji| over all port pairs at each frequency. One-ports are
// reciprocal by definition.
func ReciprocityValue(n network.Network) float64 {
	p := n.Ports()
	if p < 2 {
		return 100
	}
	pairs := float64(p * (p - 1) / 2)
	rm := make([]float64, n.Len())
	for k, s := range n.S {
		sum := 0.0
		for i := range p {
			for j := i + 1; j < p; j++ {
				sum += cmplx.Abs(s.At(i, j) - s.At(j, i))
			}
		}
		rm[k] = sum / pairs
	}
	return weighted(rm, reciprocityThreshold)
}

// CausalityValue returns the causality metric in percent: for every S
// element the share of the polar trajectory that turns clockwise with
// increasing frequency, weighted by segment length. The worst element
// determines the result.
func CausalityValue(n network.Network) float64 {
	worst := 100.0
	for i := range n.Ports() {
		for j := range n.Ports() {
			worst = math.Min(worst, traceCausality(n.At(i, j)))
		}
	}
	return worst
}

func traceCausality(tr []complex128) float64 {
	if len(tr) < 3 {
		return 100
	}
	var cw, total float64
	prev := tr[1] - tr[0]
	for k := 2; k < len(tr); k++ {
		cur := tr[k] - tr[k-1]
		cross := real(prev)*imag(cur) - imag(prev)*real(cur)
		length := cmplx.Abs(cur)
		if cross != 0 && length > 0 {
			total += length
			if cross < 0 {
				cw += length
			}
		}
		prev = cur
	}
	if total == 0 {
		return 100
	}
	return cw / total * 100
}
