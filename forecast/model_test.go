package forecast

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func trainingData() ([][]float64, []float64) {
	series := dailySeries(4, 2, 7, 3, 5, 8, 2, 6, 4, 9, 1, 5, 7, 3, 6, 8, 2, 4, 5, 7)
	return buildMatrix(series, recipeFor(len(series)))
}

func TestFitModelDeterministic(t *testing.T) {
	x, y := trainingData()
	p := defaultModelParams()

	m1, err := fitModel(x, y, p)
	require.NoError(t, err)
	m2, err := fitModel(x, y, p)
	require.NoError(t, err)

	probe := x[len(x)-1]
	assert.Equal(t, m1.predict(probe), m2.predict(probe), "same rows and seed must fit the same model")
}

func TestFitModelSeedChangesFit(t *testing.T) {
	x, y := trainingData()

	p1 := defaultModelParams()
	p2 := defaultModelParams()
	p2.seed = 7

	m1, err := fitModel(x, y, p1)
	require.NoError(t, err)
	m2, err := fitModel(x, y, p2)
	require.NoError(t, err)

	// Different subsampling almost surely lands on a different ensemble.
	assert.NotEqual(t, m1.predict(x[0]), m2.predict(x[0]))
}

func TestFitModelDegenerateTargets(t *testing.T) {
	x, _ := trainingData()
	y := make([]float64, len(x))
	for i := range y {
		y[i] = 5
	}

	m, err := fitModel(x, y, defaultModelParams())
	require.NoError(t, err, "a constant target is a degenerate fit, not an error")
	assert.Empty(t, m.trees, "zero residuals leave nothing to boost")
	assert.Equal(t, 5.0, m.predict(x[0]))
}

func TestFitModelNoRows(t *testing.T) {
	_, err := fitModel(nil, nil, defaultModelParams())
	assert.True(t, errors.Is(err, ErrModelFit))
}

func TestFitModelLearnsConstantShift(t *testing.T) {
	// A strongly autocorrelated target: the ensemble should land well inside
	// the target range rather than exploding.
	x, y := trainingData()
	m, err := fitModel(x, y, defaultModelParams())
	require.NoError(t, err)

	for _, row := range x {
		pred := m.predict(row)
		assert.GreaterOrEqual(t, pred, -5.0)
		assert.LessOrEqual(t, pred, 15.0)
	}
}

func TestHoldoutMAETooFewRows(t *testing.T) {
	series := dailySeries(1, 2, 3, 4, 5, 6, 7, 8)
	x, y := buildMatrix(series, recipeFor(len(series)))
	assert.Equal(t, 0, holdoutMAE(x, y, defaultModelParams(), 3))
}

func TestHoldoutMAENonNegative(t *testing.T) {
	series := dailySeries(4, 2, 7, 3, 5, 8, 2, 6, 4, 9, 1, 5, 7, 3, 6, 8, 2, 4, 5, 7, 3, 6, 2, 8)
	x, y := buildMatrix(series, recipeFor(len(series)))
	mae := holdoutMAE(x, y, defaultModelParams(), 3)
	assert.GreaterOrEqual(t, mae, 0)
}

func TestFitModelProducesTrees(t *testing.T) {
	x, y := trainingData()
	m, err := fitModel(x, y, defaultModelParams())
	require.NoError(t, err)
	assert.NotEmpty(t, m.trees)
}
