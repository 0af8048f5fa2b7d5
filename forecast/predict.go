package forecast

import (
	"encoding/json"
	"math"
	"time"
)

// Point is one predicted day of unit demand, with ±MAE bounds.
type Point struct {
	Date     time.Time
	Quantity int
	Max      int
	Min      int
}

func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Date     string `json:"date"`
		Quantity int    `json:"total_sales"`
		Max      int    `json:"max_sales"`
		Min      int    `json:"min_sales"`
	}{p.Date.Format(dayFormat), p.Quantity, p.Max, p.Min})
}

// predictHorizon rolls the model forward one day at a time. Each day's
// feature vector is built with the training recipe, sourcing lags and rolling
// values from real history plus the predictions already made inside the
// horizon. The raw model output is clamped to zero and rounded to whole
// units *before* it is fed back, so a clamp on day i deliberately shapes the
// features of day i+1 onward: items cannot sell fractional or negative units,
// and the feed-forward loop must see the same values the caller does.
func predictHorizon(m regressor, series []DailyPoint, r recipe, horizon, mae int) []Point {
	history := seriesQuantities(series)
	last := series[len(series)-1].Date

	points := make([]Point, 0, horizon)
	for i := 1; i <= horizon; i++ {
		date := last.AddDate(0, 0, i)
		raw := m.predict(r.featureVector(date, history))
		q := int(math.Round(math.Max(0, raw)))
		history = append(history, float64(q))

		p := Point{Date: date, Quantity: q, Max: q + mae, Min: q - mae}
		if p.Min < 0 {
			p.Min = 0
		}
		points = append(points, p)
	}
	return points
}
