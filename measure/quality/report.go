package quality

import (
	"fmt"

	"github.com/cwbudde/algo-rf/rf/mixedmode"
	"github.com/cwbudde/algo-rf/rf/network"
)

// Report holds the three quality metrics of one network.
type Report struct {
	Causality   Metric
	Passivity   Metric
	Reciprocity Metric
}

// Metrics returns the metrics in display order.
func (r Report) Metrics() []NamedMetric {
	return []NamedMetric{
		{Kind: Causality, Metric: r.Causality},
		{Kind: Passivity, Metric: r.Passivity},
		{Kind: Reciprocity, Metric: r.Reciprocity},
	}
}

// NamedMetric pairs a metric with its kind.
type NamedMetric struct {
	Kind Kind
	Metric
}

// Pass reports whether every metric reaches threshold percent.
func (r Report) Pass(threshold float64) bool {
	for _, m := range r.Metrics() {
		if m.Value < threshold {
			return false
		}
	}
	return true
}

// ModeReport holds the differential and common mode reports of a
// 4-port.
type ModeReport struct {
	DD Report
	CC Report
}

// Pass reports whether both modes pass.
func (r ModeReport) Pass(threshold float64) bool {
	return r.DD.Pass(threshold) && r.CC.Pass(threshold)
}

// CheckSE evaluates a network as single-ended.
func CheckSE(n network.Network) Report {
	return Report{
		Causality:   newMetric(Causality, CausalityValue(n)),
		Passivity:   newMetric(Passivity, PassivityValue(n)),
		Reciprocity: newMetric(Reciprocity, ReciprocityValue(n)),
	}
}

// CheckMM converts a 2p-port network to mixed mode and evaluates its
// differential and common blocks.
func CheckMM(n network.Network, order mixedmode.Order) (ModeReport, error) {
	mm, err := mixedmode.ToMixedMode(n, order)
	if err != nil {
		return ModeReport{}, fmt.Errorf("quality: %w", err)
	}
	dd, err := mixedmode.SDD(mm)
	if err != nil {
		return ModeReport{}, fmt.Errorf("quality: %w", err)
	}
	cc, err := mixedmode.SCC(mm)
	if err != nil {
		return ModeReport{}, fmt.Errorf("quality: %w", err)
	}
	return ModeReport{DD: CheckSE(dd), CC: CheckSE(cc)}, nil
}
