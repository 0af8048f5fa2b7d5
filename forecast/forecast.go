// Package forecast turns an item's sparse sales history into a short-horizon
// unit-demand prediction and a restock recommendation.
//
// Pipeline: sales ledger rows → contiguous daily series → feature matrix →
// per-request gradient-boosted model → recursive horizon prediction →
// restock aggregation. The package owns no persisted state; every call fits a
// fresh model on one item's rows and discards it.
package forecast

import (
	"fmt"
	"time"
)

// Defaults for Options. The history minimums are model limits observed in
// practice, not laws; callers may tune them.
const (
	DefaultHorizon      = 7
	DefaultMinSpanDays  = 7
	DefaultMinTrainRows = 3
)

// Options control a single forecast run. The zero value is usable.
type Options struct {
	Horizon      int       // days to predict; DefaultHorizon when 0
	Today        time.Time // end of the observed range; time.Now() when zero
	MinSpanDays  int       // minimum real calendar span between first and last sale
	MinTrainRows int       // minimum usable feature rows to fit a model
	Seed         int64     // model subsampling seed; fixed default when 0
}

func (o Options) withDefaults() Options {
	if o.Horizon == 0 {
		o.Horizon = DefaultHorizon
	}
	if o.Today.IsZero() {
		o.Today = time.Now()
	}
	if o.MinSpanDays == 0 {
		o.MinSpanDays = DefaultMinSpanDays
	}
	if o.MinTrainRows == 0 {
		o.MinTrainRows = DefaultMinTrainRows
	}
	return o
}

// Result is the forecast for one item: the day-by-day predictions plus the
// aggregated restock recommendation.
type Result struct {
	Predictions        []Point `json:"predictions"`
	TotalQuantity      int     `json:"total_sales"`
	MaxRestockQuantity int     `json:"max_restock_quantity"`
	MinRestockQuantity int     `json:"min_restock_quantity"`
	RestockQuantity    int     `json:"restock_quantity"`
	MAE                int     `json:"goods_mae"`
}

// Run executes the full pipeline for one item. points are the item's raw
// per-day sales rows (gaps allowed, any order); stock is its current on-hand
// quantity. Given identical inputs and seed, Run is fully deterministic.
func Run(points []DailyPoint, stock int, opts Options) (*Result, error) {
	opts = opts.withDefaults()
	if opts.Horizon < 0 {
		return nil, fmt.Errorf("%w: horizon must be positive, got %d", ErrInvalidParameters, opts.Horizon)
	}
	if stock < 0 {
		return nil, fmt.Errorf("%w: stock cannot be negative, got %d", ErrInvalidParameters, stock)
	}

	series, err := BuildDailySeries(points, opts.Today, opts.MinSpanDays)
	if err != nil {
		return nil, err
	}

	rec := recipeFor(len(series))
	x, y := buildMatrix(series, rec)
	if len(x) < opts.MinTrainRows {
		return nil, fmt.Errorf("%w: %d usable feature rows, need at least %d", ErrInsufficientHistory, len(x), opts.MinTrainRows)
	}

	params := defaultModelParams()
	if opts.Seed != 0 {
		params.seed = opts.Seed
	}

	mae := holdoutMAE(x, y, params, opts.MinTrainRows)

	model, err := fitModel(x, y, params)
	if err != nil {
		return nil, err
	}

	preds := predictHorizon(model, series, rec, opts.Horizon, mae)

	total := 0
	for _, p := range preds {
		total += p.Quantity
	}

	return &Result{
		Predictions:        preds,
		TotalQuantity:      total,
		RestockQuantity:    shortfall(total, stock),
		MaxRestockQuantity: shortfall(total+mae, stock),
		MinRestockQuantity: shortfall(total-mae, stock),
		MAE:                mae,
	}, nil
}

// shortfall is predicted demand beyond what is on hand, never negative.
func shortfall(demand, stock int) int {
	if demand <= stock {
		return 0
	}
	return demand - stock
}
