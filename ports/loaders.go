package ports

import (
	"context"

	"demografia/domain/demography"
)

// CensusLoader reads the per-census source files into the unified long
// table. Missing or unreadable files are non-fatal: their censuses are
// omitted and reported through the warnings slice. The error return is
// reserved for the hard stop of no usable data at all.
type CensusLoader interface {
	LoadAll(ctx context.Context) ([]demography.CensusObservation, []string, error)
}

// ProbabilityLoader reads the survival/birth probability table. An absent
// table is non-fatal (warnings carry the detail); downstream projections
// simply stop at 2019 for units.
type ProbabilityLoader interface {
	Load(ctx context.Context) (demography.ProbabilityTable, []string, error)
}
