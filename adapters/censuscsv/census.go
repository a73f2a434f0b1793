package censuscsv

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"demografia/domain/demography"
	"demografia/internal/errors"
	"demografia/ports"
)

// censusFiles maps each source file to the census year it snapshots.
var censusFiles = map[string]int{
	"NAC_UE_POT_SEC_1.csv": 1988,
	"NAC_UE_POT_SEC_2.csv": 1993,
	"NAC_UE_POT_SEC_3.csv": 1998,
	"NAC_UE_POT_SEC_4.csv": 2003,
	"NAC_UE_POT_SEC_5.csv": 2008,
	"NAC_UE_POT_SEC_6.csv": 2013,
	"NAC_UE_POT_SEC_7.csv": 2018,
	"NAC_UE_POT_SEC_8.csv": 2023,
}

// Loader reads the eight census files from a directory into the unified
// long table.
type Loader struct {
	dir string
}

var _ ports.CensusLoader = (*Loader)(nil)

// NewLoader creates a census loader over the data directory.
func NewLoader(dir string) *Loader {
	return &Loader{dir: dir}
}

// LoadAll reads every census file concurrently, tags rows with their census
// year and concatenates the results. Missing files are warnings, not
// failures; only the total absence of usable data is an error.
func (l *Loader) LoadAll(ctx context.Context) ([]demography.CensusObservation, []string, error) {
	var (
		mu       sync.Mutex
		all      []demography.CensusObservation
		warnings []string
	)

	g, ctx := errgroup.WithContext(ctx)
	for file, year := range censusFiles {
		path := filepath.Join(l.dir, file)
		censusYear := year
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if _, err := os.Stat(path); os.IsNotExist(err) {
				mu.Lock()
				warnings = append(warnings, errors.MissingFile(path).Error())
				mu.Unlock()
				return nil
			}
			obs, err := loadCensusFile(path, censusYear)
			if err != nil {
				mu.Lock()
				warnings = append(warnings, fmt.Sprintf("census %d unreadable: %v", censusYear, err))
				mu.Unlock()
				return nil
			}
			mu.Lock()
			all = append(all, obs...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, warnings, err
	}
	if len(all) == 0 {
		return nil, warnings, errors.NoCensusData()
	}

	// Deterministic order regardless of goroutine completion.
	sort.Slice(all, func(i, j int) bool {
		a, b := all[i], all[j]
		if a.CensusYear != b.CensusYear {
			return a.CensusYear < b.CensusYear
		}
		if a.Entity != b.Entity {
			return a.Entity < b.Entity
		}
		if a.Sector != b.Sector {
			return a.Sector < b.Sector
		}
		if a.Stratum != b.Stratum {
			return a.Stratum < b.Stratum
		}
		return a.GenerationYear < b.GenerationYear
	})
	return all, warnings, nil
}

// loadCensusFile parses one census file into observations, normalizing
// columns and dropping rows with missing key fields.
func loadCensusFile(path string, censusYear int) ([]demography.CensusObservation, error) {
	rows, err := readLatin1CSV(path)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, nil
	}
	idx := headerIndex(rows[0])

	var out []demography.CensusObservation
	for _, row := range rows[1:] {
		entity := strings.ToUpper(field(row, idx, "ENTIDAD"))
		sector := strings.ToUpper(field(row, idx, "SECTOR"))
		stratum, stratumOK := intField(row, idx, "TAMAÑO")
		generation, generationOK := intField(row, idx, "AÑO")
		if entity == "" || sector == "" || !stratumOK || !generationOK {
			continue
		}
		out = append(out, demography.CensusObservation{
			Entity:         entity,
			Sector:         sector,
			Stratum:        stratum,
			GenerationYear: generation,
			CensusYear:     censusYear,
			Units:          numericField(row, idx, "UNIDADES_ECONÓMICAS"),
			Personnel:      numericField(row, idx, "PERSONAL_OCUPADO"),
		})
	}
	return out, nil
}
