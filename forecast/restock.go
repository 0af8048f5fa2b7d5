package forecast

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// batchWorkers bounds how many item pipelines run at once in candidate mode.
// Items are fully independent, so no locking is needed beyond the slice slots.
const batchWorkers = 4

// CandidateItem is one low-stock item queued for a batch forecast.
type CandidateItem struct {
	ID    string
	Name  string
	Stock int
	Sales []DailyPoint
}

// CandidateForecast pairs a candidate with its finished forecast.
type CandidateForecast struct {
	Item   CandidateItem
	Result *Result
}

// SkippedItem names a candidate the batch could not forecast and why.
type SkippedItem struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// ForecastCandidates runs the pipeline independently for every candidate.
// Items are expected in ascending-stock order (most urgent first) and come
// back in that same order. A failing item never aborts the batch: it is
// reported in the skipped list and the rest continue.
func ForecastCandidates(ctx context.Context, items []CandidateItem, opts Options) ([]CandidateForecast, []SkippedItem) {
	results := make([]*Result, len(items))
	errs := make([]error, len(items))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(batchWorkers)
	for i, item := range items {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return nil
			}
			results[i], errs[i] = Run(item.Sales, item.Stock, opts)
			return nil
		})
	}
	// Workers never return errors; per-item failures land in errs.
	_ = g.Wait()

	forecasts := make([]CandidateForecast, 0, len(items))
	var skipped []SkippedItem
	for i, item := range items {
		if errs[i] != nil {
			skipped = append(skipped, SkippedItem{ID: item.ID, Name: item.Name, Reason: Reason(errs[i])})
			continue
		}
		forecasts = append(forecasts, CandidateForecast{Item: item, Result: results[i]})
	}
	return forecasts, skipped
}
