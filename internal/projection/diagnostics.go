package projection

import (
	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"demografia/domain/demography"
)

// Diagnostics summarizes one metric's emitted series for inspection next to
// the raw numbers: level range, mean annual growth multiplier, its geometric
// counterpart and the fitted linear trend.
type Diagnostics struct {
	Years          int     `json:"years"`
	Min            float64 `json:"min"`
	Max            float64 `json:"max"`
	MeanGrowth     float64 `json:"mean_growth"`
	GeoMeanGrowth  float64 `json:"geo_mean_growth"`
	TrendIntercept float64 `json:"trend_intercept"`
	TrendSlope     float64 `json:"trend_slope"`
}

// Diagnose computes the summary for one metric of a series. Returns false
// when the series carries fewer than two values for the metric.
func Diagnose(s demography.AnnualSeries, m demography.Metric) (Diagnostics, bool) {
	var years, values []float64
	for _, p := range s.Points {
		if v, ok := p.Value(m); ok {
			years = append(years, float64(p.Year))
			values = append(values, v)
		}
	}
	if len(values) < 2 {
		return Diagnostics{}, false
	}

	min, _ := stats.Min(values)
	max, _ := stats.Max(values)

	ratios := make([]float64, 0, len(values)-1)
	for i := 1; i < len(values); i++ {
		if values[i-1] > 0 {
			ratios = append(ratios, values[i]/values[i-1])
		}
	}
	var meanGrowth, geoMean float64
	if len(ratios) > 0 {
		meanGrowth, _ = stats.Mean(ratios)
		geoMean = stat.GeometricMean(ratios, nil)
	}

	alpha, beta := stat.LinearRegression(years, values, nil, false)

	return Diagnostics{
		Years:          len(values),
		Min:            min,
		Max:            max,
		MeanGrowth:     meanGrowth,
		GeoMeanGrowth:  geoMean,
		TrendIntercept: alpha,
		TrendSlope:     beta,
	}, true
}

// diagnoseAll runs Diagnose for each metric, skipping metrics with too few
// points.
func diagnoseAll(s demography.AnnualSeries, metrics []demography.Metric) map[demography.Metric]Diagnostics {
	out := make(map[demography.Metric]Diagnostics, len(metrics))
	for _, m := range metrics {
		if d, ok := Diagnose(s, m); ok {
			out[m] = d
		}
	}
	return out
}
