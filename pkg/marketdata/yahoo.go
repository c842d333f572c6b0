package marketdata

import (
	"context"
	"fmt"
	"riskbatch/internal/domain"
	"riskbatch/internal/util"
	"time"

	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
)

type yahooProvider struct{}

func NewYahooProvider() Provider {
	return yahooProvider{}
}

func (yahooProvider) Name() string {
	return "yahoo"
}

func (yahooProvider) GetDailyPrices(ctx context.Context, symbol string, start, end time.Time) ([]domain.AssetPrice, error) {
	params := &chart.Params{
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Symbol:   symbol,
		Interval: datetime.OneDay,
	}
	iter := chart.Get(params)

	// yahoo sometimes tacks a partial bar for the current session onto
	// the response, so drop anything outside the requested span
	requested := domain.DateRange{Start: util.TruncateToDay(start), End: end}

	out := []domain.AssetPrice{}
	for iter.Next() {
		date := time.Unix(int64(iter.Bar().Timestamp), 0).UTC()
		if !requested.Contains(util.TruncateToDay(date)) {
			continue
		}
		out = append(out, domain.AssetPrice{
			Symbol: symbol,
			Date:   date,
			Price:  iter.Bar().AdjClose.InexactFloat64(),
		})
	}
	if err := iter.Err(); err != nil {
		// the upstream client doesn't distinguish network failures
		// from bad symbols, so treat everything as retryable and let
		// the chain's breaker decide when to stop
		return nil, domain.NewTransientProviderError("yahoo", fmt.Errorf("failed to get prices for %s: %w", symbol, err))
	}

	return out, nil
}
