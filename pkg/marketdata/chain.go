package marketdata

import (
	"context"
	"fmt"
	"riskbatch/internal/domain"
	"riskbatch/internal/logger"
	"time"

	"github.com/sony/gobreaker"
)

// Chain tries providers in priority order, each behind its own
// circuit breaker so a flapping primary stops eating the retry
// budget and the fallback takes over.
type Chain struct {
	providers []Provider
	breakers  map[string]*gobreaker.CircuitBreaker
}

func NewChain(providers ...Provider) *Chain {
	breakers := map[string]*gobreaker.CircuitBreaker{}
	for _, p := range providers {
		st := gobreaker.Settings{Name: p.Name()}
		st.Interval = 60 * time.Second
		st.Timeout = 60 * time.Second
		st.ReadyToTrip = func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		}
		breakers[p.Name()] = gobreaker.NewCircuitBreaker(st)
	}
	return &Chain{
		providers: providers,
		breakers:  breakers,
	}
}

func (c *Chain) Name() string {
	return "chain"
}

func (c *Chain) GetDailyPrices(ctx context.Context, symbol string, start, end time.Time) ([]domain.AssetPrice, error) {
	log := logger.FromContext(ctx)

	var lastErr error
	for _, p := range c.providers {
		breaker := c.breakers[p.Name()]
		out, err := breaker.Execute(func() (interface{}, error) {
			return p.GetDailyPrices(ctx, symbol, start, end)
		})
		if err == nil {
			return out.([]domain.AssetPrice), nil
		}

		lastErr = err
		log.Warnw("price provider failed, trying next",
			"provider", p.Name(),
			"symbol", symbol,
			"error", err,
		)
	}

	if lastErr == nil {
		return nil, domain.ErrProviderExhausted
	}
	// keep the transient classification of the last failure so the
	// orchestrator's retry policy still applies
	return nil, fmt.Errorf("all providers failed for %s: %w", symbol, lastErr)
}
