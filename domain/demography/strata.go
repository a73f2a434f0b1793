package demography

// Stratum labels mirror the size bands of the source censuses. Band 9 is
// open-ended ("101 y más"), which is why its filter semantics differ.
var stratumLabels = map[int]string{
	1: "0-2 Personas ocupadas",
	2: "3-5 Personas ocupadas",
	3: "6-10 Personas ocupadas",
	4: "11-15 Personas ocupadas",
	5: "16-20 Personas ocupadas",
	6: "21-30 Personas ocupadas",
	7: "31-50 Personas ocupadas",
	8: "51-100 Personas ocupadas",
	9: "101 y más Personas ocupadas",
}

var stratumNumbers = func() map[string]int {
	m := make(map[string]int, len(stratumLabels))
	for n, label := range stratumLabels {
		m[label] = n
	}
	return m
}()

// StratumLabel returns the display label for an ordinal stratum, if known.
func StratumLabel(n int) (string, bool) {
	label, ok := stratumLabels[n]
	return label, ok
}

// StratumNumber returns the ordinal for a stratum label, if known.
func StratumNumber(label string) (int, bool) {
	n, ok := stratumNumbers[label]
	return n, ok
}

// OpenEndedStratum reports whether the label names the open upper band,
// which filters as stratum >= 9 rather than equality.
func OpenEndedStratum(label string) bool {
	return label == "101 y más Personas ocupadas"
}

// StratumCount is the number of defined size bands.
const StratumCount = 9
