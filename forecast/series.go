package forecast

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

const dayFormat = "2006-01-02"

// DailyPoint is one calendar day of aggregated sales for a single item.
type DailyPoint struct {
	Date     time.Time
	Quantity int
}

func (p DailyPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Date     string `json:"date"`
		Quantity int    `json:"total_quantity"`
	}{p.Date.Format(dayFormat), p.Quantity})
}

// day truncates a timestamp to its UTC calendar day.
func day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// BuildDailySeries turns raw per-day sales rows into a contiguous daily
// series from the item's first recorded sale through today. Days without a
// sale are synthesized with quantity zero, so the result always has exactly
// one entry per calendar day, ascending, with no gaps.
//
// The span between the first and last real sale must cover at least
// minSpanDays calendar days, otherwise ErrInsufficientHistory is returned:
// forecasting a one-off data point is meaningless.
func BuildDailySeries(points []DailyPoint, today time.Time, minSpanDays int) ([]DailyPoint, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("%w: no sales recorded", ErrInsufficientHistory)
	}

	// Aggregate by calendar day; duplicate dates in the input are summed.
	byDay := make(map[time.Time]int, len(points))
	for _, p := range points {
		byDay[day(p.Date)] += p.Quantity
	}

	days := make([]time.Time, 0, len(byDay))
	for d := range byDay {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	first, last := days[0], days[len(days)-1]
	span := int(last.Sub(first).Hours()/24) + 1
	if span < minSpanDays {
		return nil, fmt.Errorf("%w: sales span %d days, need at least %d", ErrInsufficientHistory, span, minSpanDays)
	}

	end := day(today)
	if end.Before(last) {
		end = last
	}

	series := make([]DailyPoint, 0, int(end.Sub(first).Hours()/24)+1)
	for d := first; !d.After(end); d = d.AddDate(0, 0, 1) {
		series = append(series, DailyPoint{Date: d, Quantity: byDay[d]})
	}
	return series, nil
}

// seriesQuantities copies the quantities of a series, oldest first.
func seriesQuantities(series []DailyPoint) []float64 {
	q := make([]float64, len(series))
	for i, p := range series {
		q[i] = float64(p.Quantity)
	}
	return q
}
