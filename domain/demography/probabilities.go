package demography

// ProbabilityKey addresses one row of the survival/birth probability table.
// Stratum is the label form ("3-5 Personas ocupadas"), matching the source
// table's TAMAÑO column.
type ProbabilityKey struct {
	Entity  string
	Sector  string
	Stratum string
	Year    int
}

// Probability carries the survivor and birth rates for one key. The units
// extension for 2020–2022 multiplies by their sum.
type Probability struct {
	Survivors float64
	Births    float64
}

// CombinedRate is the multiplier applied by the units extension.
func (p Probability) CombinedRate() float64 { return p.Survivors + p.Births }

// ProbabilityTable is the in-memory PROBABILIDADES lookup. Missing rows are
// gaps surfaced as warnings, never defaulted.
type ProbabilityTable map[ProbabilityKey]Probability

// Lookup returns the probability row for a filter combination and year.
// The national/all-sector/all-strata sentinels are passed through unchanged;
// the source table carries matching aggregate rows under the same labels.
func (t ProbabilityTable) Lookup(f Filter, year int) (Probability, bool) {
	key := ProbabilityKey{
		Entity:  f.Entity,
		Sector:  f.Sector,
		Stratum: f.Stratum,
		Year:    year,
	}
	if key.Entity == "" {
		key.Entity = EntityNational
	}
	if key.Sector == "" {
		key.Sector = SectorAll
	}
	if key.Stratum == "" {
		key.Stratum = StratumAll
	}
	p, ok := t[key]
	return p, ok
}

// Empty reports whether the table holds no rows (file missing or unreadable).
func (t ProbabilityTable) Empty() bool { return len(t) == 0 }

// ExtensionYears are the years covered by the probability table.
var ExtensionYears = []int{2020, 2021, 2022}
