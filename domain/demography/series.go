package demography

import "sort"

// SeriesPoint is one year of an annual series: a partial per-metric value
// mapping plus derived rates (survival probability, year-over-year growth,
// mortality rate) where the phenomenon defines them.
type SeriesPoint struct {
	Year   int                `json:"year"`
	Values map[Metric]float64 `json:"values"`
	Rates  map[string]float64 `json:"rates,omitempty"`
}

// Value returns the point's entry for a metric and whether it is present.
// Absent entries are gaps (e.g. a missing probability row), not zeros.
func (p SeriesPoint) Value(m Metric) (float64, bool) {
	v, ok := p.Values[m]
	return v, ok
}

// AnnualSeries is the year-ordered, deduplicated output of the projection
// engine for one phenomenon.
type AnnualSeries struct {
	// Labels maps each metric to its phenomenon-specific display label,
	// e.g. "Número de Negocios" or "Número de Nacimientos".
	Labels map[Metric]string `json:"labels"`
	Points []SeriesPoint     `json:"points"`
}

// At returns the point for a year, if present.
func (s AnnualSeries) At(year int) (SeriesPoint, bool) {
	for _, p := range s.Points {
		if p.Year == year {
			return p, true
		}
	}
	return SeriesPoint{}, false
}

// ValueAt returns the metric value at a year, if present.
func (s AnnualSeries) ValueAt(year int, m Metric) (float64, bool) {
	p, ok := s.At(year)
	if !ok {
		return 0, false
	}
	return p.Value(m)
}

// SetRate attaches a derived rate to the point for a year, if present.
func (s *AnnualSeries) SetRate(year int, name string, value float64) {
	for i := range s.Points {
		if s.Points[i].Year == year {
			if s.Points[i].Rates == nil {
				s.Points[i].Rates = make(map[string]float64)
			}
			s.Points[i].Rates[name] = value
			return
		}
	}
}

// Years returns the covered years in order.
func (s AnnualSeries) Years() []int {
	out := make([]int, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Year
	}
	return out
}

// Empty reports whether the series has no points.
func (s AnnualSeries) Empty() bool { return len(s.Points) == 0 }

// SeriesBuilder accumulates (year, metric, value) writes and emits a sorted,
// per-metric last-write-wins series. Overlapping seed/extension steps may
// write the same year more than once; the final series keeps exactly one row
// per year, carrying the last write for each metric.
type SeriesBuilder struct {
	labels  map[Metric]string
	records []seriesRecord
}

type seriesRecord struct {
	year   int
	metric Metric
	value  float64
}

// NewSeriesBuilder creates a builder with the phenomenon's display labels.
func NewSeriesBuilder(labels map[Metric]string) *SeriesBuilder {
	return &SeriesBuilder{labels: labels}
}

// Add appends one write for a year and metric.
func (b *SeriesBuilder) Add(year int, m Metric, value float64) {
	b.records = append(b.records, seriesRecord{year: year, metric: m, value: value})
}

// DropYear discards every prior write for a year. Used by the 2023
// reconciliation before the observed census value is written.
func (b *SeriesBuilder) DropYear(year int) {
	kept := b.records[:0]
	for _, r := range b.records {
		if r.year != year {
			kept = append(kept, r)
		}
	}
	b.records = kept
}

// Value returns the last write for a (year, metric) pair, if any. The
// extension steps use this to read the 2018/2019 bases mid-build.
func (b *SeriesBuilder) Value(year int, m Metric) (float64, bool) {
	for i := len(b.records) - 1; i >= 0; i-- {
		if b.records[i].year == year && b.records[i].metric == m {
			return b.records[i].value, true
		}
	}
	return 0, false
}

// Build sorts by year, deduplicates keep-last per (year, metric) and emits
// the final series.
func (b *SeriesBuilder) Build() AnnualSeries {
	byYear := make(map[int]map[Metric]float64)
	for _, r := range b.records {
		if byYear[r.year] == nil {
			byYear[r.year] = make(map[Metric]float64)
		}
		byYear[r.year][r.metric] = r.value
	}
	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Ints(years)

	s := AnnualSeries{Labels: b.labels}
	for _, y := range years {
		s.Points = append(s.Points, SeriesPoint{Year: y, Values: byYear[y]})
	}
	return s
}
