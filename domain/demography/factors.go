package demography

import "math"

// GrowthFactorTable maps each metric to its per-period annualized growth
// factors. Undefined factors (zero or missing base) are stored as NaN; the
// compounder treats NaN as "no growth applied".
type GrowthFactorTable struct {
	// Periods holds the ordered period labels, e.g. "1988-1993".
	Periods []string

	factors map[Metric]map[string]float64
}

// NewGrowthFactorTable creates an empty factor table.
func NewGrowthFactorTable() *GrowthFactorTable {
	return &GrowthFactorTable{factors: make(map[Metric]map[string]float64)}
}

// Set records the factor for a metric and period, appending the period label
// the first time it is seen.
func (g *GrowthFactorTable) Set(m Metric, period string, factor float64) {
	if g.factors[m] == nil {
		g.factors[m] = make(map[string]float64)
	}
	g.factors[m][period] = factor
	for _, p := range g.Periods {
		if p == period {
			return
		}
	}
	g.Periods = append(g.Periods, period)
}

// Factor returns the factor for a metric and period, NaN when undefined or
// absent.
func (g *GrowthFactorTable) Factor(m Metric, period string) float64 {
	if g == nil {
		return math.NaN()
	}
	if f, ok := g.factors[m][period]; ok {
		return f
	}
	return math.NaN()
}

// Defined returns the defined (non-NaN) factors for a metric, in period
// order.
func (g *GrowthFactorTable) Defined(m Metric) []float64 {
	if g == nil {
		return nil
	}
	var out []float64
	for _, p := range g.Periods {
		if f, ok := g.factors[m][p]; ok && !math.IsNaN(f) {
			out = append(out, f)
		}
	}
	return out
}

// HasMetric reports whether any factor exists for the metric.
func (g *GrowthFactorTable) HasMetric(m Metric) bool {
	return g != nil && len(g.factors[m]) > 0
}

// Empty reports whether no period could be computed for any metric.
func (g *GrowthFactorTable) Empty() bool {
	return g == nil || len(g.Periods) == 0
}
