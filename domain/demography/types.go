package demography

import (
	"fmt"
	"sort"
	"strings"
)

// Metric identifies one of the two tracked magnitudes
type Metric string

const (
	MetricUnits     Metric = "UE" // Unidades Económicas
	MetricPersonnel Metric = "PO" // Personal Ocupado
)

// DisplayName returns the Spanish label used in factor tables and exports
func (m Metric) DisplayName() string {
	switch m {
	case MetricUnits:
		return "Unidades Económicas"
	case MetricPersonnel:
		return "Personal Ocupado"
	}
	return string(m)
}

// CensusYears lists the eight historical snapshot years, ascending
var CensusYears = []int{1988, 1993, 1998, 2003, 2008, 2013, 2018, 2023}

// ProjectionCutoff is the last year reached by inter-census compounding.
// The 2018→2023 gap is never interpolated; post-2019 years come from the
// extension rules instead.
const ProjectionCutoff = 2019

// FinalCensusYear is the newest census; its observed values always override
// synthesized ones.
const FinalCensusYear = 2023

// IMSSRates extends the personnel series past the last full census.
// One multiplier per year, 2019 through 2022. Process-wide constant.
var IMSSRates = [4]float64{1.0184, 0.9681, 1.0558, 1.0319}

// IMSSRateYears are the years the IMSSRates entries apply to, in order.
var IMSSRateYears = [4]int{2019, 2020, 2021, 2022}

// CensusObservation is one row of the unified long table: the count of
// economic units and employed personnel for a (entity, sector, stratum,
// generation year) cell as observed by one census.
type CensusObservation struct {
	Entity         string
	Sector         string
	Stratum        int
	GenerationYear int
	CensusYear     int
	Units          float64
	Personnel      float64
}

// Sentinel filter values meaning "no restriction" on their dimension.
const (
	EntityNational = "NACIONAL"
	SectorAll      = "TODOS LOS SECTORES"
	StratumAll     = "CONCENTRADOS"
)

// Filter restricts the long table to one entity/sector/stratum combination.
// Zero values and the sentinel labels mean "no restriction".
type Filter struct {
	Entity  string
	Sector  string
	Stratum string // stratum label, e.g. "3-5 Personas ocupadas"
}

// Matches reports whether the observation passes the filter.
func (f Filter) Matches(obs CensusObservation) bool {
	if f.Entity != "" && f.Entity != EntityNational && obs.Entity != f.Entity {
		return false
	}
	if f.Sector != "" && f.Sector != SectorAll && obs.Sector != f.Sector {
		return false
	}
	if f.Stratum != "" && f.Stratum != StratumAll {
		num, ok := StratumNumber(f.Stratum)
		if !ok {
			return false
		}
		if OpenEndedStratum(f.Stratum) {
			if obs.Stratum < num {
				return false
			}
		} else if obs.Stratum != num {
			return false
		}
	}
	return true
}

// Key returns a stable cache key for the filter.
func (f Filter) Key() string {
	return strings.Join([]string{f.Entity, f.Sector, f.Stratum}, "|")
}

// MetricSet selects which metrics a computation includes.
type MetricSet struct {
	Units     bool
	Personnel bool
}

// Empty reports whether no metric is selected. An empty selection is an
// error condition signaled to the caller, never an implicit default.
func (s MetricSet) Empty() bool { return !s.Units && !s.Personnel }

// List returns the selected metrics in canonical order (UE before PO).
func (s MetricSet) List() []Metric {
	var out []Metric
	if s.Units {
		out = append(out, MetricUnits)
	}
	if s.Personnel {
		out = append(out, MetricPersonnel)
	}
	return out
}

// Key returns a stable cache key for the selection.
func (s MetricSet) Key() string {
	return fmt.Sprintf("ue=%t|po=%t", s.Units, s.Personnel)
}

// ColumnLabel builds the pivot column label for a census year and metric,
// e.g. "CE 1993 - UE".
func ColumnLabel(censusYear int, m Metric) string {
	return fmt.Sprintf("CE %d - %s", censusYear, m)
}

// PeriodLabel builds the growth-factor period label, e.g. "1988-1993".
func PeriodLabel(startYear, endYear int) string {
	return fmt.Sprintf("%d-%d", startYear, endYear)
}

// SortedYears returns the keys of a year-indexed map in ascending order.
func SortedYears[V any](m map[int]V) []int {
	years := make([]int, 0, len(m))
	for y := range m {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}
