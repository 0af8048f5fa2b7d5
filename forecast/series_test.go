package forecast

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testStart = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

// seriesFrom builds raw daily points from consecutive quantities, starting at
// testStart. A negative quantity marks a day with no sales row at all.
func seriesFrom(quantities ...int) []DailyPoint {
	points := make([]DailyPoint, 0, len(quantities))
	for i, q := range quantities {
		if q < 0 {
			continue
		}
		points = append(points, DailyPoint{Date: testStart.AddDate(0, 0, i), Quantity: q})
	}
	return points
}

func TestBuildDailySeriesZeroFills(t *testing.T) {
	points := seriesFrom(2, -1, -1, 5, -1, -1, -1, -1, -1, 1)
	today := testStart.AddDate(0, 0, 9)

	series, err := BuildDailySeries(points, today, 7)
	require.NoError(t, err)

	require.Len(t, series, 10)
	for i, p := range series {
		assert.Equal(t, testStart.AddDate(0, 0, i), p.Date, "dates must be contiguous and ascending")
	}
	assert.Equal(t, 2, series[0].Quantity)
	assert.Equal(t, 0, series[1].Quantity, "missing day must be synthesized with zero")
	assert.Equal(t, 5, series[3].Quantity)
	assert.Equal(t, 1, series[9].Quantity)
}

func TestBuildDailySeriesExtendsThroughToday(t *testing.T) {
	points := seriesFrom(1, 2, 3, 4, 5, 6, 7)
	today := testStart.AddDate(0, 0, 10)

	series, err := BuildDailySeries(points, today, 7)
	require.NoError(t, err)

	require.Len(t, series, 11)
	for i := 7; i <= 10; i++ {
		assert.Equal(t, 0, series[i].Quantity, "days after the last sale are zero-sales days")
	}
}

func TestBuildDailySeriesAggregatesSameDay(t *testing.T) {
	points := seriesFrom(1, 2, 3, 4, 5, 6, 7)
	points = append(points, DailyPoint{Date: testStart.Add(13 * time.Hour), Quantity: 4})

	series, err := BuildDailySeries(points, testStart.AddDate(0, 0, 6), 7)
	require.NoError(t, err)
	assert.Equal(t, 5, series[0].Quantity, "rows on the same calendar day are summed")
}

func TestBuildDailySeriesSpanBoundary(t *testing.T) {
	today := testStart.AddDate(0, 0, 30)

	// Six distinct calendar days of sales: below the 7-day minimum span.
	_, err := BuildDailySeries(seriesFrom(1, 2, 3, 4, 5, 6), today, 7)
	assert.True(t, errors.Is(err, ErrInsufficientHistory))

	// Exactly seven days of span is enough.
	_, err = BuildDailySeries(seriesFrom(1, 2, 3, 4, 5, 6, 7), today, 7)
	assert.NoError(t, err)

	// Two sales far apart also span enough days.
	_, err = BuildDailySeries(seriesFrom(3, -1, -1, -1, -1, -1, -1, -1, 2), today, 7)
	assert.NoError(t, err)
}

func TestBuildDailySeriesEmpty(t *testing.T) {
	_, err := BuildDailySeries(nil, time.Now(), 7)
	assert.True(t, errors.Is(err, ErrInsufficientHistory))
}

func TestDailyPointJSON(t *testing.T) {
	p := DailyPoint{Date: testStart, Quantity: 3}
	raw, err := p.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2024-05-01","total_quantity":3}`, string(raw))
}
