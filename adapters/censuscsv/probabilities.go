package censuscsv

import (
	"context"
	"os"
	"strings"

	"demografia/domain/demography"
	"demografia/internal/errors"
	"demografia/ports"
)

// ProbabilityFileLoader reads PROBABILIDADES.csv into the lookup table.
type ProbabilityFileLoader struct {
	path string
}

var _ ports.ProbabilityLoader = (*ProbabilityFileLoader)(nil)

// NewProbabilityLoader creates a loader for the probability file.
func NewProbabilityLoader(path string) *ProbabilityFileLoader {
	return &ProbabilityFileLoader{path: path}
}

// Load parses the table. An absent file yields an empty table plus a
// warning: the units projections then stop at 2019 instead of failing.
func (l *ProbabilityFileLoader) Load(ctx context.Context) (demography.ProbabilityTable, []string, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	if _, err := os.Stat(l.path); os.IsNotExist(err) {
		warning := errors.MissingFile(l.path).Error() + "; some projections will not be available"
		return demography.ProbabilityTable{}, []string{warning}, nil
	}

	rows, err := readLatin1CSV(l.path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to read probability table %s", l.path)
	}
	if len(rows) < 2 {
		return demography.ProbabilityTable{}, nil, nil
	}
	idx := headerIndex(rows[0])

	table := make(demography.ProbabilityTable)
	var warnings []string
	for _, row := range rows[1:] {
		entity := strings.ToUpper(field(row, idx, "ENTIDAD"))
		sector := strings.ToUpper(field(row, idx, "SECTOR"))
		stratum := field(row, idx, "TAMAÑO")
		year, yearOK := intField(row, idx, "AÑO")
		if entity == "" || sector == "" || !yearOK {
			continue
		}
		key := demography.ProbabilityKey{
			Entity:  entity,
			Sector:  sector,
			Stratum: stratum,
			Year:    year,
		}
		table[key] = demography.Probability{
			Survivors: numericField(row, idx, "SOBREVIVIENTES"),
			Births:    numericField(row, idx, "NACIMIENTOS"),
		}
	}
	return table, warnings, nil
}
