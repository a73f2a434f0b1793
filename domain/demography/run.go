package demography

import "time"

// Phenomenon names one of the demographic series the engine can produce.
type Phenomenon string

const (
	PhenomenonActivity  Phenomenon = "poblacion_activa"
	PhenomenonNatality  Phenomenon = "natalidad"
	PhenomenonSurvival  Phenomenon = "supervivencia"
	PhenomenonMortality Phenomenon = "mortalidad"
)

// SurvivalLags are the supported survival horizons in years.
var SurvivalLags = []int{5, 10, 15, 20, 25}

// ValidSurvivalLag reports whether k is a supported horizon.
func ValidSurvivalLag(k int) bool {
	for _, lag := range SurvivalLags {
		if lag == k {
			return true
		}
	}
	return false
}

// SurvivalStartYear is the earliest census for which a full k-year-lagged
// cohort can exist: 1993 for k=5 through 2013 for k=25.
func SurvivalStartYear(k int) int { return 1988 + k }

// ProjectionRun is a persisted record of one computed projection: the inputs
// that produced it plus the emitted series, stored for later inspection.
type ProjectionRun struct {
	ID         string       `db:"id" json:"id"`
	Phenomenon Phenomenon   `db:"phenomenon" json:"phenomenon"`
	Entity     string       `db:"entity" json:"entity"`
	Sector     string       `db:"sector" json:"sector"`
	Stratum    string       `db:"stratum" json:"stratum"`
	Lag        int          `db:"lag" json:"lag,omitempty"`
	Series     AnnualSeries `db:"-" json:"series"`
	Warnings   []string     `db:"-" json:"warnings,omitempty"`
	CreatedAt  time.Time    `db:"created_at" json:"created_at"`
}
