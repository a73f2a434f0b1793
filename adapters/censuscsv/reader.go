// Package censuscsv loads the Latin-1 census CSV files and the probability
// table into the domain's long-format structures.
package censuscsv

import (
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// candidate delimiters, checked against the header line in order.
var delimiters = []rune{',', ';', '|', '\t'}

// readLatin1CSV reads an entire CSV file, decoding Latin-1 and sniffing the
// delimiter from the header line. The source files come from several export
// tools and do not agree on a separator.
func readLatin1CSV(path string) ([][]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return nil, err
	}

	sep := sniffDelimiter(decoded)
	r := csv.NewReader(bytes.NewReader(decoded))
	r.Comma = sep
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	var rows [][]string
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, record)
	}
	return rows, nil
}

// sniffDelimiter picks the candidate occurring most often in the first line,
// falling back to comma.
func sniffDelimiter(data []byte) rune {
	line := string(data)
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	best, bestCount := ',', 0
	for _, d := range delimiters {
		if n := strings.Count(line, string(d)); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}

// normalizeHeader upper-cases, trims and underscores a column name, matching
// the source files' inconsistent spellings.
func normalizeHeader(h string) string {
	return strings.ReplaceAll(strings.TrimSpace(strings.ToUpper(h)), " ", "_")
}

// headerIndex maps normalized column names to positions.
func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[normalizeHeader(h)] = i
	}
	return idx
}

// field returns the trimmed cell for a normalized column name, empty when
// the column or cell is absent.
func field(row []string, idx map[string]int, name string) string {
	i, ok := idx[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// numericField coerces a cell to float64, 0 when blank or malformed (the
// source tables use blanks for zero counts).
func numericField(row []string, idx map[string]int, name string) float64 {
	s := field(row, idx, name)
	if s == "" {
		return 0
	}
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// intField coerces a cell to int, returning ok=false when blank or
// malformed.
func intField(row []string, idx map[string]int, name string) (int, bool) {
	s := field(row, idx, name)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return int(v), true
}
