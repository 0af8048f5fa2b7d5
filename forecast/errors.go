package forecast

import "errors"

// Pipeline failures are deterministic: the same ledger state reproduces the
// same error, so nothing here is ever retried.
var (
	// ErrInsufficientHistory means the item's real sales span or usable
	// feature-row count is below the configured minimum.
	ErrInsufficientHistory = errors.New("insufficient sales history")

	// ErrModelFit means the demand model could not be fit on the rows.
	ErrModelFit = errors.New("model fit failed")

	// ErrInvalidParameters means the caller supplied an unusable horizon or
	// stock value.
	ErrInvalidParameters = errors.New("invalid forecast parameters")
)

// Reason maps a pipeline error to a stable machine-readable label, used when
// batch mode reports skipped items.
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrInsufficientHistory):
		return "insufficient_history"
	case errors.Is(err, ErrModelFit):
		return "model_fit_error"
	case errors.Is(err, ErrInvalidParameters):
		return "invalid_parameters"
	}
	return "internal_error"
}
