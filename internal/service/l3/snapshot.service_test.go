package l3_service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"riskbatch/internal/db/models/postgres/public/model"
	"riskbatch/internal/domain"
	l1_service "riskbatch/internal/service/l1"
	"riskbatch/internal/util"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type fakeSnapshotRepository struct {
	rows map[string]model.PortfolioSnapshot
}

func newFakeSnapshotRepository() *fakeSnapshotRepository {
	return &fakeSnapshotRepository{rows: map[string]model.PortfolioSnapshot{}}
}

func snapshotKey(portfolioID uuid.UUID, date time.Time) string {
	return portfolioID.String() + "|" + date.Format(time.DateOnly)
}

func (f *fakeSnapshotRepository) Upsert(tx *sql.Tx, snapshot model.PortfolioSnapshot) (*model.PortfolioSnapshot, error) {
	key := snapshotKey(snapshot.PortfolioID, snapshot.Date)
	if existing, ok := f.rows[key]; ok {
		snapshot.PortfolioSnapshotID = existing.PortfolioSnapshotID
	} else {
		snapshot.PortfolioSnapshotID = uuid.New()
	}
	f.rows[key] = snapshot
	return &snapshot, nil
}

func (f *fakeSnapshotRepository) Get(portfolioID uuid.UUID, date time.Time) (*model.PortfolioSnapshot, error) {
	if row, ok := f.rows[snapshotKey(portfolioID, date)]; ok {
		return &row, nil
	}
	return nil, nil
}

func (f *fakeSnapshotRepository) GetLatestBefore(portfolioID uuid.UUID, date time.Time) (*model.PortfolioSnapshot, error) {
	var latest *model.PortfolioSnapshot
	for _, row := range f.rows {
		row := row
		if row.PortfolioID != portfolioID || !row.Date.Before(date) {
			continue
		}
		if latest == nil || row.Date.After(latest.Date) {
			latest = &row
		}
	}
	return latest, nil
}

type fakePortfolioRepository struct {
	equity map[uuid.UUID]decimal.Decimal
}

func (f *fakePortfolioRepository) Get(id uuid.UUID) (*domain.Portfolio, error) { return nil, nil }
func (f *fakePortfolioRepository) List() ([]domain.Portfolio, error)           { return nil, nil }
func (f *fakePortfolioRepository) UpdateEquity(tx *sql.Tx, id uuid.UUID, equity decimal.Decimal) error {
	f.equity[id] = equity
	return nil
}

func snapshotCache(days []time.Time, prices map[string][]float64) *l1_service.PriceCache {
	assetPrices := []domain.AssetPrice{}
	for symbol, series := range prices {
		for i, day := range days {
			assetPrices = append(assetPrices, domain.AssetPrice{Symbol: symbol, Date: day, Price: series[i]})
		}
	}
	return l1_service.NewPriceCache(assetPrices, days)
}

func Test_BuildSnapshot(t *testing.T) {
	day1 := util.NewDate(2024, 1, 15)
	day2 := util.NewDate(2024, 1, 16)
	days := []time.Time{day1, day2}

	newPortfolio := func() domain.Portfolio {
		return domain.Portfolio{
			PortfolioID: uuid.New(),
			Name:        "test",
			Equity:      decimal.NewFromInt(10000),
			Positions: []domain.Position{{
				PositionID:   uuid.New(),
				Symbol:       "AAPL",
				Quantity:     10,
				EntryPrice:   100,
				PositionType: domain.PositionTypeLong,
			}},
		}
	}

	cache := snapshotCache(days, map[string][]float64{
		"AAPL": {110, 115},
	})

	t.Run("first day baselines against entry price", func(t *testing.T) {
		snapshots := newFakeSnapshotRepository()
		portfolios := &fakePortfolioRepository{equity: map[uuid.UUID]decimal.Decimal{}}
		svc := NewSnapshotService(snapshots, portfolios)
		portfolio := newPortfolio()

		snapshot, err := svc.BuildSnapshot(context.Background(), nil, portfolio, cache, day1)
		require.NoError(t, err)

		require.InDelta(t, 100, snapshot.DailyPnl, 1e-9)
		require.InDelta(t, 10100, snapshot.Equity, 1e-9)
		require.InDelta(t, 1100, snapshot.LongExposure, 1e-9)
		require.InDelta(t, 0, snapshot.ShortExposure, 1e-9)
		require.InDelta(t, 1100, snapshot.GrossExposure, 1e-9)
		require.True(t, decimal.NewFromInt(10100).Equal(portfolios.equity[portfolio.PortfolioID]))
	})

	t.Run("re-running the same day is idempotent", func(t *testing.T) {
		snapshots := newFakeSnapshotRepository()
		portfolios := &fakePortfolioRepository{equity: map[uuid.UUID]decimal.Decimal{}}
		svc := NewSnapshotService(snapshots, portfolios)
		portfolio := newPortfolio()

		first, err := svc.BuildSnapshot(context.Background(), nil, portfolio, cache, day1)
		require.NoError(t, err)
		second, err := svc.BuildSnapshot(context.Background(), nil, portfolio, cache, day1)
		require.NoError(t, err)

		require.Len(t, snapshots.rows, 1)
		require.Equal(t, first.PortfolioSnapshotID, second.PortfolioSnapshotID)
		require.InDelta(t, first.Equity, second.Equity, 1e-9)
		require.InDelta(t, first.DailyPnl, second.DailyPnl, 1e-9)
	})

	t.Run("first day re-run ignores rolled-forward equity", func(t *testing.T) {
		snapshots := newFakeSnapshotRepository()
		portfolios := &fakePortfolioRepository{equity: map[uuid.UUID]decimal.Decimal{}}
		svc := NewSnapshotService(snapshots, portfolios)
		portfolio := newPortfolio()

		first, err := svc.BuildSnapshot(context.Background(), nil, portfolio, cache, day1)
		require.NoError(t, err)
		require.InDelta(t, 10100, first.Equity, 1e-9)

		// a fresh batch re-reads the portfolio row, which now carries
		// the updated equity
		portfolio.Equity = portfolios.equity[portfolio.PortfolioID]
		second, err := svc.BuildSnapshot(context.Background(), nil, portfolio, cache, day1)
		require.NoError(t, err)

		require.InDelta(t, first.Equity, second.Equity, 1e-9)
		require.InDelta(t, first.DailyPnl, second.DailyPnl, 1e-9)
		require.True(t, decimal.NewFromInt(10100).Equal(portfolios.equity[portfolio.PortfolioID]))
	})

	t.Run("subsequent day rolls forward from prior close", func(t *testing.T) {
		snapshots := newFakeSnapshotRepository()
		portfolios := &fakePortfolioRepository{equity: map[uuid.UUID]decimal.Decimal{}}
		svc := NewSnapshotService(snapshots, portfolios)
		portfolio := newPortfolio()

		_, err := svc.BuildSnapshot(context.Background(), nil, portfolio, cache, day1)
		require.NoError(t, err)

		snapshot, err := svc.BuildSnapshot(context.Background(), nil, portfolio, cache, day2)
		require.NoError(t, err)

		// price moved 110 -> 115 on 10 shares
		require.InDelta(t, 50, snapshot.DailyPnl, 1e-9)
		require.InDelta(t, 10150, snapshot.Equity, 1e-9)
	})

	t.Run("short position loses when price rises", func(t *testing.T) {
		snapshots := newFakeSnapshotRepository()
		portfolios := &fakePortfolioRepository{equity: map[uuid.UUID]decimal.Decimal{}}
		svc := NewSnapshotService(snapshots, portfolios)

		portfolio := newPortfolio()
		portfolio.Positions[0].PositionType = domain.PositionTypeShort

		snapshot, err := svc.BuildSnapshot(context.Background(), nil, portfolio, cache, day1)
		require.NoError(t, err)

		require.InDelta(t, -100, snapshot.DailyPnl, 1e-9)
		require.InDelta(t, 9900, snapshot.Equity, 1e-9)
		require.InDelta(t, 1100, snapshot.ShortExposure, 1e-9)
		require.InDelta(t, -1100, snapshot.NetExposure, 1e-9)
	})
}
