package forecast

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunEndToEnd(t *testing.T) {
	points := seriesFrom(4, 2, 7, 3, 5, 8, 2, 6, 4, 9, 1, 5, 7, 3, 6, 8, 2, 4, 5, 7)
	opts := Options{Today: testStart.AddDate(0, 0, 19)}

	result, err := Run(points, 5, opts)
	require.NoError(t, err)

	require.Len(t, result.Predictions, DefaultHorizon)
	total := 0
	for _, p := range result.Predictions {
		assert.GreaterOrEqual(t, p.Quantity, 0, "predicted units are never negative")
		total += p.Quantity
	}
	assert.Equal(t, total, result.TotalQuantity)
	assert.Equal(t, shortfall(total, 5), result.RestockQuantity)
	assert.GreaterOrEqual(t, result.MaxRestockQuantity, result.RestockQuantity)
	assert.LessOrEqual(t, result.MinRestockQuantity, result.RestockQuantity)
}

func TestRunDeterministic(t *testing.T) {
	points := seriesFrom(4, 2, 7, 3, 5, 8, 2, 6, 4, 9, 1, 5, 7, 3, 6, 8, 2, 4, 5, 7)
	opts := Options{Today: testStart.AddDate(0, 0, 19)}

	r1, err := Run(points, 3, opts)
	require.NoError(t, err)
	r2, err := Run(points, 3, opts)
	require.NoError(t, err)

	assert.Equal(t, r1.Predictions, r2.Predictions, "identical input and seed must reproduce the forecast")
	assert.Equal(t, r1.RestockQuantity, r2.RestockQuantity)
}

func TestRunCustomHorizon(t *testing.T) {
	points := seriesFrom(4, 2, 7, 3, 5, 8, 2, 6, 4, 9, 1, 5, 7, 3, 6, 8, 2, 4, 5, 7)
	opts := Options{Horizon: 14, Today: testStart.AddDate(0, 0, 19)}

	result, err := Run(points, 0, opts)
	require.NoError(t, err)
	assert.Len(t, result.Predictions, 14)
}

func TestRunInvalidParameters(t *testing.T) {
	points := seriesFrom(4, 2, 7, 3, 5, 8, 2, 6)

	_, err := Run(points, 5, Options{Horizon: -1, Today: testStart.AddDate(0, 0, 7)})
	assert.True(t, errors.Is(err, ErrInvalidParameters))

	_, err = Run(points, -3, Options{Today: testStart.AddDate(0, 0, 7)})
	assert.True(t, errors.Is(err, ErrInvalidParameters))
}

func TestRunInsufficientSpan(t *testing.T) {
	points := seriesFrom(1, 2, 3, 4, 5, 6)
	_, err := Run(points, 5, Options{Today: testStart.AddDate(0, 0, 5)})
	assert.True(t, errors.Is(err, ErrInsufficientHistory))
}

func TestRunMinimalViableHistory(t *testing.T) {
	// Exactly seven days of span with enough usable rows must fit.
	points := seriesFrom(3, 1, 4, 2, 5, 1, 6)
	result, err := Run(points, 2, Options{Today: testStart.AddDate(0, 0, 6)})
	require.NoError(t, err)
	assert.Len(t, result.Predictions, DefaultHorizon)
}

func TestRunConstantDemand(t *testing.T) {
	// A perfectly flat history is a degenerate fit and must not fail.
	points := seriesFrom(5, 5, 5, 5, 5, 5, 5, 5, 5, 5)
	result, err := Run(points, 0, Options{Today: testStart.AddDate(0, 0, 9)})
	require.NoError(t, err)
	for _, p := range result.Predictions {
		assert.Equal(t, 5, p.Quantity)
	}
	assert.Equal(t, 35, result.RestockQuantity)
}

func TestRunConfigurableMinimums(t *testing.T) {
	points := seriesFrom(1, 2, 3, 4, 5)

	_, err := Run(points, 0, Options{Today: testStart.AddDate(0, 0, 4)})
	assert.True(t, errors.Is(err, ErrInsufficientHistory))

	// Loosening the span minimum lets the same history through.
	_, err = Run(points, 0, Options{Today: testStart.AddDate(0, 0, 4), MinSpanDays: 5, MinTrainRows: 2})
	assert.NoError(t, err)
}
