package repository

import (
	"testing"
	"time"

	"riskbatch/internal"
	"riskbatch/internal/db/models/postgres/public/model"
	"riskbatch/internal/util"

	"github.com/stretchr/testify/require"
)

// The orchestrator calls every repository method with a nil tx outside
// of transactions, so each one must fall back to the db handle instead
// of dereferencing the tx.
func Test_AdjustedPriceRepository_NilTx(t *testing.T) {
	db, err := internal.NewTestDb()
	require.NoError(t, err)
	defer db.Close()

	repo := NewAdjustedPriceRepository(db)
	start := util.NewDate(2024, 1, 1)
	end := util.NewDate(2024, 1, 31)

	t.Run("Add", func(t *testing.T) {
		require.NotPanics(t, func() {
			_ = repo.Add(nil, []model.AdjustedPrice{{
				Symbol:    "AAPL",
				Date:      start,
				Price:     180,
				CreatedAt: time.Now().UTC(),
			}})
		})
	})

	t.Run("Get", func(t *testing.T) {
		require.NotPanics(t, func() {
			_, _ = repo.Get(nil, "AAPL", start)
		})
	})

	t.Run("ListFromRange", func(t *testing.T) {
		require.NotPanics(t, func() {
			_, _ = repo.ListFromRange(nil, []string{"AAPL"}, start, end)
		})
	})

	t.Run("ListTradingDays", func(t *testing.T) {
		require.NotPanics(t, func() {
			_, _ = repo.ListTradingDays(nil, start, end)
		})
	})

	t.Run("LatestPrices", func(t *testing.T) {
		require.NotPanics(t, func() {
			_, _ = repo.LatestPrices(nil, []string{"AAPL"})
		})
	})
}
