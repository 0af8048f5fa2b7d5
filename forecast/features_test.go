package forecast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dailySeries(quantities ...int) []DailyPoint {
	series := make([]DailyPoint, len(quantities))
	for i, q := range quantities {
		series[i] = DailyPoint{Date: testStart.AddDate(0, 0, i), Quantity: q}
	}
	return series
}

func TestRecipeAdaptsToSeriesLength(t *testing.T) {
	short := recipeFor(10)
	assert.Equal(t, []int{1, 2, 3}, short.lags)
	assert.Empty(t, short.windows)
	assert.Equal(t, 3, short.warmup())

	medium := recipeFor(15)
	assert.Equal(t, []int{1, 2, 3, 7}, medium.lags)
	assert.Equal(t, []int{7}, medium.windows)
	assert.Equal(t, 7, medium.warmup())

	long := recipeFor(40)
	assert.Equal(t, []int{7, 14}, long.windows)
	assert.Equal(t, 14, long.warmup())
}

func TestBuildMatrixDropsWarmupRows(t *testing.T) {
	series := dailySeries(5, 1, 4, 2, 6, 3, 7, 2)
	r := recipeFor(len(series))

	x, y := buildMatrix(series, r)
	require.Len(t, x, len(series)-r.warmup())
	require.Len(t, y, len(x))

	// First usable row targets day 3 and sees days 0-2 as lags.
	assert.Equal(t, float64(series[3].Quantity), y[0])
	assert.Equal(t, float64(series[2].Quantity), x[0][3], "lag_1")
	assert.Equal(t, float64(series[1].Quantity), x[0][4], "lag_2")
	assert.Equal(t, float64(series[0].Quantity), x[0][5], "lag_3")
}

func TestBuildMatrixCalendarFeatures(t *testing.T) {
	// testStart is a Wednesday.
	series := dailySeries(5, 1, 4, 2, 6, 3, 7, 2)
	r := recipeFor(len(series))

	x, _ := buildMatrix(series, r)
	day3 := testStart.AddDate(0, 0, 3) // Saturday, May 4th
	require.Equal(t, time.Saturday, day3.Weekday())
	assert.Equal(t, float64(time.Saturday), x[0][0])
	assert.Equal(t, 4.0, x[0][1], "day of month")
	assert.Equal(t, 1.0, x[0][2], "weekend flag")

	day5 := testStart.AddDate(0, 0, 5) // Monday
	require.Equal(t, time.Monday, day5.Weekday())
	assert.Equal(t, 0.0, x[2][2], "weekday flag")
}

func TestBuildMatrixNoLeakage(t *testing.T) {
	base := dailySeries(5, 1, 4, 2, 6, 3, 7, 2, 8, 1)
	changed := dailySeries(5, 1, 4, 2, 6, 3, 7, 2, 8, 9) // only the last day differs

	r := recipeFor(len(base))
	x1, y1 := buildMatrix(base, r)
	x2, y2 := buildMatrix(changed, r)

	// No feature row may depend on its own day or any later day, so changing
	// the final target leaves every feature vector untouched.
	assert.Equal(t, x1, x2)
	assert.Equal(t, y1[:len(y1)-1], y2[:len(y2)-1])
	assert.NotEqual(t, y1[len(y1)-1], y2[len(y2)-1])
}

func TestBuildMatrixRollingMeanUsesPriorDaysOnly(t *testing.T) {
	quantities := make([]int, 16)
	for i := range quantities {
		quantities[i] = i
	}
	series := dailySeries(quantities...)
	r := recipeFor(len(series))
	require.Equal(t, []int{7}, r.windows)

	x, _ := buildMatrix(series, r)
	// First row targets day 7; its 7-day rolling mean covers days 0-6.
	assert.Equal(t, 3.0, x[0][len(x[0])-1])
}

func TestBuildMatrixDeterministic(t *testing.T) {
	series := dailySeries(2, 0, 3, 1, 0, 4, 2, 5, 1, 0, 3, 2)
	r := recipeFor(len(series))

	x1, y1 := buildMatrix(series, r)
	x2, y2 := buildMatrix(series, r)
	assert.Equal(t, x1, x2)
	assert.Equal(t, y1, y2)
}

func TestBuildMatrixRecencyCap(t *testing.T) {
	quantities := make([]int, 60)
	for i := range quantities {
		quantities[i] = i % 5
	}
	series := dailySeries(quantities...)

	x, y := buildMatrix(series, recipeFor(len(series)))
	assert.Len(t, x, maxTrainRows)
	assert.Len(t, y, maxTrainRows)
	// The cap keeps the most recent rows.
	assert.Equal(t, float64(quantities[59]), y[len(y)-1])
}
