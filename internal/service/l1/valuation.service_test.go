package l1_service

import (
	"context"
	"riskbatch/internal/domain"
	"riskbatch/internal/util"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func Test_ValuePosition(t *testing.T) {
	t.Run("long equity", func(t *testing.T) {
		vp := ValuePosition(domain.Position{
			Symbol:       "AAPL",
			Quantity:     10,
			PositionType: domain.PositionTypeLong,
		}, 195)

		require.True(t, decimal.NewFromInt(1950).Equal(vp.MarketValue))
		require.True(t, decimal.NewFromInt(1950).Equal(vp.SignedExposure))
		require.True(t, decimal.NewFromInt(1950).Equal(vp.UnsignedExposure))
	})

	t.Run("short carries negative sign", func(t *testing.T) {
		vp := ValuePosition(domain.Position{
			Symbol:       "TSLA",
			Quantity:     5,
			PositionType: domain.PositionTypeShort,
		}, 200)

		require.True(t, decimal.NewFromInt(-1000).Equal(vp.SignedExposure))
		require.True(t, decimal.NewFromInt(-1000).Equal(vp.MarketValue))
		require.True(t, decimal.NewFromInt(1000).Equal(vp.UnsignedExposure))
	})

	t.Run("derivative contracts scale by 100", func(t *testing.T) {
		vp := ValuePosition(domain.Position{
			Symbol:       "SPY",
			Quantity:     2,
			PositionType: domain.PositionTypeDerivativeLong,
		}, 450)

		require.True(t, decimal.NewFromInt(90000).Equal(vp.SignedExposure))
	})

	t.Run("short derivative is both scaled and negated", func(t *testing.T) {
		vp := ValuePosition(domain.Position{
			Symbol:       "QQQ",
			Quantity:     1,
			PositionType: domain.PositionTypeDerivativeShort,
		}, 380)

		require.True(t, decimal.NewFromInt(-38000).Equal(vp.SignedExposure))
		require.True(t, decimal.NewFromInt(38000).Equal(vp.UnsignedExposure))
	})
}

func Test_PreparePositionsForAggregation(t *testing.T) {
	repo := januaryCacheFixture()
	h := NewPriceService(repo, nil)
	cache, err := h.LoadCache(nil, []string{"AAPL"}, domain.DateRange{
		Start: util.NewDate(2024, 1, 1),
		End:   util.NewDate(2024, 1, 31),
	})
	require.NoError(t, err)

	positions := []domain.Position{
		{Symbol: "AAPL", Quantity: 10, PositionType: domain.PositionTypeLong},
		{Symbol: "NOPE", Quantity: 3, PositionType: domain.PositionTypeLong},
	}

	valued, missing := PreparePositionsForAggregation(context.Background(), positions, cache, util.NewDate(2024, 1, 15))

	require.Len(t, valued, 1)
	require.Equal(t, "AAPL", valued[0].Position.Symbol)
	require.True(t, decimal.NewFromInt(1950).Equal(valued[0].MarketValue))
	require.Equal(t, []string{"NOPE"}, missing)
}
