package forecast

import (
	"time"

	"gonum.org/v1/gonum/stat"
)

// maxTrainRows caps how many feature rows feed the model. Older rows are
// dropped to bias the fit toward recent demand.
const maxTrainRows = 30

// recipe is the feature set used for one item. It adapts to series length so
// short histories still produce enough usable rows: lag 7 and the rolling
// windows only join once the series can afford their warm-up.
type recipe struct {
	lags    []int
	windows []int
}

func recipeFor(seriesLen int) recipe {
	r := recipe{lags: []int{1, 2, 3}}
	if seriesLen >= 15 {
		r.lags = append(r.lags, 7)
		r.windows = append(r.windows, 7)
	}
	if seriesLen >= 29 {
		r.windows = append(r.windows, 14)
	}
	return r
}

// warmup is the number of leading series days that cannot form a complete
// feature row.
func (r recipe) warmup() int {
	n := 0
	for _, lag := range r.lags {
		if lag > n {
			n = lag
		}
	}
	for _, w := range r.windows {
		if w > n {
			n = w
		}
	}
	return n
}

// featureVector builds the feature row for date. history holds the daily
// quantities of every day strictly before date, oldest first; same-day and
// future values never enter a feature.
func (r recipe) featureVector(date time.Time, history []float64) []float64 {
	v := make([]float64, 0, 3+len(r.lags)+len(r.windows))
	v = append(v, float64(date.Weekday()), float64(date.Day()), isWeekend(date))
	for _, lag := range r.lags {
		v = append(v, history[len(history)-lag])
	}
	for _, w := range r.windows {
		v = append(v, stat.Mean(history[len(history)-w:], nil))
	}
	return v
}

func isWeekend(date time.Time) float64 {
	if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return 1
	}
	return 0
}

// buildMatrix produces one (features, target) pair per series day past the
// warm-up window. Pure function of the series: identical input always yields
// identical output.
func buildMatrix(series []DailyPoint, r recipe) ([][]float64, []float64) {
	quantities := seriesQuantities(series)
	warm := r.warmup()

	var x [][]float64
	var y []float64
	for i := warm; i < len(series); i++ {
		x = append(x, r.featureVector(series[i].Date, quantities[:i]))
		y = append(y, quantities[i])
	}

	if len(x) > maxTrainRows {
		x = x[len(x)-maxTrainRows:]
		y = y[len(y)-maxTrainRows:]
	}
	return x, y
}
