package marketdata

import (
	"context"
	"errors"
	"riskbatch/internal/domain"
	"riskbatch/internal/util"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	name   string
	prices []domain.AssetPrice
	err    error
	calls  int
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) GetDailyPrices(ctx context.Context, symbol string, start, end time.Time) ([]domain.AssetPrice, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.prices, nil
}

func Test_Chain_GetDailyPrices(t *testing.T) {
	date := util.NewDate(2024, 1, 15)

	t.Run("primary succeeds, fallback untouched", func(t *testing.T) {
		primary := &stubProvider{name: "primary", prices: []domain.AssetPrice{{Symbol: "AAPL", Date: date, Price: 185.5}}}
		fallback := &stubProvider{name: "fallback"}
		chain := NewChain(primary, fallback)

		out, err := chain.GetDailyPrices(context.Background(), "AAPL", date, date)
		require.NoError(t, err)
		require.Len(t, out, 1)
		require.Equal(t, 0, fallback.calls)
	})

	t.Run("falls back when primary fails", func(t *testing.T) {
		primary := &stubProvider{name: "primary", err: domain.NewTransientProviderError("primary", errors.New("timeout"))}
		fallback := &stubProvider{name: "fallback", prices: []domain.AssetPrice{{Symbol: "AAPL", Date: date, Price: 185.5}}}
		chain := NewChain(primary, fallback)

		out, err := chain.GetDailyPrices(context.Background(), "AAPL", date, date)
		require.NoError(t, err)
		require.Len(t, out, 1)
		require.Equal(t, 1, primary.calls)
	})

	t.Run("all providers fail preserves transient classification", func(t *testing.T) {
		primary := &stubProvider{name: "primary", err: domain.NewTransientProviderError("primary", errors.New("timeout"))}
		chain := NewChain(primary)

		_, err := chain.GetDailyPrices(context.Background(), "AAPL", date, date)
		require.Error(t, err)
		require.True(t, domain.IsTransient(err))
	})

	t.Run("breaker opens after consecutive failures", func(t *testing.T) {
		primary := &stubProvider{name: "primary", err: errors.New("down")}
		chain := NewChain(primary)

		for i := 0; i < 5; i++ {
			_, _ = chain.GetDailyPrices(context.Background(), "AAPL", date, date)
		}

		// breaker trips at 3 consecutive failures; later calls
		// short-circuit without touching the provider
		require.Equal(t, 3, primary.calls)
	})
}
