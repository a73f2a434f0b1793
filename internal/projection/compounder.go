// Package projection implements the intercensal projection engine: seeding
// census anchors, compounding geometric growth factors into a dense annual
// series, extending past 2019 and reconciling against the 2023 census.
package projection

import (
	"math"

	"demografia/domain/demography"
	"demografia/internal/growth"
)

// Engine runs the projection pipeline for every demographic phenomenon.
type Engine struct {
	growth *growth.Calculator
	cfg    Config
}

// Config carries the knobs the implementation variants disagree on.
type Config struct {
	// BridgeExponent is applied to the quinquennial mean factor when
	// bridging units from 2018 to 2019: rate = mean**BridgeExponent.
	// The reference series uses 1 (the raw mean of already-annualized
	// factors); 1.0/5 and 1.0/6 match the alternative conventions.
	BridgeExponent float64
}

// DefaultConfig returns the reference configuration.
func DefaultConfig() Config {
	return Config{BridgeExponent: 1}
}

// NewEngine creates an engine with the reference configuration.
func NewEngine() *Engine {
	return NewEngineWithConfig(DefaultConfig())
}

// NewEngineWithConfig creates an engine with explicit knobs.
func NewEngineWithConfig(cfg Config) *Engine {
	if cfg.BridgeExponent == 0 {
		cfg.BridgeExponent = 1
	}
	return &Engine{growth: growth.NewCalculator(), cfg: cfg}
}

// Result is the output of one phenomenon's pipeline.
type Result struct {
	Phenomenon  demography.Phenomenon             `json:"phenomenon"`
	Lag         int                               `json:"lag,omitempty"`
	Factors     *demography.GrowthFactorTable     `json:"-"`
	Series      demography.AnnualSeries           `json:"series"`
	Diagnostics map[demography.Metric]Diagnostics `json:"diagnostics,omitempty"`
	Warnings    []string                          `json:"warnings,omitempty"`
}

// anchor pairs a census year with its observed (or extracted) value.
type anchor struct {
	year  int
	value float64
}

// compound seeds each census anchor and multiplies forward by the period
// factor for every integer year strictly inside (a_i, min(a_{i+1}, cutoff)).
// The 2018→2023 gap therefore produces no intermediate years: the loop bound
// collapses at the cutoff and the extension rules take over.
//
// A NaN factor means the period's growth is undefined; the value is carried
// forward unchanged. A NaN anchor (unobservable cohort) leaves a gap.
func compound(b *demography.SeriesBuilder, m demography.Metric, anchors []anchor, factors *demography.GrowthFactorTable, cutoff int) {
	for i := 0; i+1 < len(anchors); i++ {
		cur, next := anchors[i], anchors[i+1]
		if math.IsNaN(cur.value) {
			continue
		}
		val := cur.value
		b.Add(cur.year, m, val)
		f := factors.Factor(m, demography.PeriodLabel(cur.year, next.year))
		for year := cur.year + 1; year < minInt(next.year, cutoff); year++ {
			if !math.IsNaN(f) {
				val *= f
			}
			b.Add(year, m, val)
		}
	}
	// The pair loop never seeds the terminal anchor. When it lies at or
	// before the cutoff it is a real pre-2019 observation and must appear;
	// past the cutoff (2023) the reconciliation step owns it.
	if n := len(anchors); n > 0 {
		last := anchors[n-1]
		if last.year <= cutoff && !math.IsNaN(last.value) {
			b.Add(last.year, m, last.value)
		}
	}
}

// reconcile2023 drops any synthesized rows for the final census year and
// writes the directly observed pivot values. The observation always wins.
func reconcile2023(b *demography.SeriesBuilder, table *demography.PivotTable, metrics []demography.Metric) {
	observed := make(map[demography.Metric]float64)
	for _, m := range metrics {
		if v, ok := table.Observed2023(m); ok {
			observed[m] = v
		}
	}
	if len(observed) == 0 {
		return
	}
	b.DropYear(demography.FinalCensusYear)
	for _, m := range metrics {
		if v, ok := observed[m]; ok {
			b.Add(demography.FinalCensusYear, m, v)
		}
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
