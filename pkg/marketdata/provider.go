package marketdata

import (
	"context"
	"riskbatch/internal/domain"
	"time"
)

// Provider returns daily close prices for one symbol over a range.
// Implementations must be safe for concurrent use; calls are
// idempotent and retryable.
type Provider interface {
	Name() string
	GetDailyPrices(ctx context.Context, symbol string, start, end time.Time) ([]domain.AssetPrice, error)
}
