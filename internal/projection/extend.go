package projection

import (
	"fmt"
	"math"

	"demografia/domain/demography"
	"demografia/internal/errors"
	"demografia/internal/growth"
)

// UnitsExtensionPolicy selects how the 2020–2022 units values are derived
// from the probability table. The population-activity and natality adapters
// genuinely differ here and the divergence is preserved per adapter.
type UnitsExtensionPolicy int

const (
	// ExtendNone performs no probability-based extension.
	ExtendNone UnitsExtensionPolicy = iota
	// ExtendFromFixedBase applies each year's (survivors+births) factor to
	// the fixed 2019 base. Used by population activity.
	ExtendFromFixedBase
	// ExtendCompounded applies the factor to the running prior-year value.
	// Used by natality.
	ExtendCompounded
)

// bridgeUnits2019 synthesizes the 2019 units value from the 2018 one using
// the quinquennial-average annual rate raised to the configured exponent.
func (e *Engine) bridgeUnits2019(b *demography.SeriesBuilder, m demography.Metric, factors *demography.GrowthFactorTable) {
	base, ok := b.Value(2018, m)
	if !ok {
		return
	}
	rate := math.Pow(growth.MeanFactor(factors, m), e.cfg.BridgeExponent)
	b.Add(2019, m, base*rate)
}

// bridgePersonnel2019 synthesizes the 2019 personnel value by the first
// external administrative multiplier, with no averaging.
func bridgePersonnel2019(b *demography.SeriesBuilder, m demography.Metric) {
	base, ok := b.Value(2018, m)
	if !ok {
		return
	}
	b.Add(2019, m, base*demography.IMSSRates[0])
}

// extendUnits extends 2020–2022 from the probability table under the
// adapter's policy. A missing row yields a warning and a gap for that year,
// never a zero or unit default.
func extendUnits(b *demography.SeriesBuilder, m demography.Metric, policy UnitsExtensionPolicy, probs demography.ProbabilityTable, f demography.Filter) []string {
	if policy == ExtendNone {
		return nil
	}
	base, ok := b.Value(2019, m)
	if !ok {
		return nil
	}
	if probs.Empty() {
		return []string{"probability table unavailable; units series ends at 2019"}
	}

	var warnings []string
	running := base
	for _, year := range demography.ExtensionYears {
		p, found := probs.Lookup(f, year)
		if !found {
			warnings = append(warnings, errors.MissingProbabilityRow(fmt.Sprintf(
				"no probability row for %s / %s / %s / %d; year left blank",
				orSentinel(f.Entity, demography.EntityNational),
				orSentinel(f.Sector, demography.SectorAll),
				orSentinel(f.Stratum, demography.StratumAll), year)).Error())
			continue
		}
		switch policy {
		case ExtendFromFixedBase:
			b.Add(year, m, base*p.CombinedRate())
		case ExtendCompounded:
			running *= p.CombinedRate()
			b.Add(year, m, running)
		}
	}
	return warnings
}

// extendPersonnel multiplies cumulatively by the remaining administrative
// multipliers, one per year, starting from the 2019 personnel value.
func extendPersonnel(b *demography.SeriesBuilder, m demography.Metric) {
	val, ok := b.Value(2019, m)
	if !ok {
		return
	}
	for i, year := range demography.IMSSRateYears {
		if i == 0 {
			continue // 2019 already bridged
		}
		val *= demography.IMSSRates[i]
		b.Add(year, m, val)
	}
}

func orSentinel(v, sentinel string) string {
	if v == "" {
		return sentinel
	}
	return v
}
