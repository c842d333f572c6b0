package l3_service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"riskbatch/internal/db/models/postgres/public/model"
	"riskbatch/internal/domain"
	"riskbatch/internal/logger"
	"riskbatch/internal/repository"
	l1_service "riskbatch/internal/service/l1"

	"github.com/shopspring/decimal"
)

// SnapshotState tracks a snapshot build for one (portfolio, date)
// through its phases. Transitions only move forward.
type SnapshotState string

const (
	SnapshotStateNotStarted          SnapshotState = "not_started"
	SnapshotStatePositionsValued     SnapshotState = "positions_valued"
	SnapshotStateEquityRolledForward SnapshotState = "equity_rolled_forward"
	SnapshotStatePersisted           SnapshotState = "persisted"
)

type SnapshotService interface {
	// BuildSnapshot assembles and persists the daily snapshot for one
	// portfolio. Re-running for the same (portfolio, date) updates the
	// existing row in place and leaves equity unchanged.
	BuildSnapshot(ctx context.Context, tx *sql.Tx, portfolio domain.Portfolio, cache *l1_service.PriceCache, date time.Time) (*model.PortfolioSnapshot, error)
}

type snapshotServiceHandler struct {
	SnapshotRepository  repository.PortfolioSnapshotRepository
	PortfolioRepository repository.PortfolioRepository
}

func NewSnapshotService(
	snapshotRepository repository.PortfolioSnapshotRepository,
	portfolioRepository repository.PortfolioRepository,
) SnapshotService {
	return snapshotServiceHandler{
		SnapshotRepository:  snapshotRepository,
		PortfolioRepository: portfolioRepository,
	}
}

func (h snapshotServiceHandler) BuildSnapshot(ctx context.Context, tx *sql.Tx, portfolio domain.Portfolio, cache *l1_service.PriceCache, date time.Time) (*model.PortfolioSnapshot, error) {
	log := logger.FromContext(ctx)
	state := SnapshotStateNotStarted

	valued, missing := l1_service.PreparePositionsForAggregation(ctx, portfolio.Positions, cache, date)
	if len(missing) > 0 {
		log.Warnw("snapshot built without prices for some positions",
			"portfolioId", portfolio.PortfolioID,
			"missing", missing,
		)
	}
	state = SnapshotStatePositionsValued

	prior, err := h.SnapshotRepository.GetLatestBefore(portfolio.PortfolioID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load prior snapshot: %w", err)
	}

	dailyPnl := h.dailyPnl(ctx, valued, cache, prior)

	priorEquity := portfolio.Equity
	if prior != nil {
		priorEquity = decimal.NewFromFloat(prior.Equity)
	} else {
		// re-running the portfolio's first calculation day: the live
		// equity was already rolled forward once, so rebuild the
		// baseline from the persisted snapshot instead of booking the
		// day-one move twice
		existing, err := h.SnapshotRepository.Get(portfolio.PortfolioID, date)
		if err != nil {
			return nil, fmt.Errorf("failed to check for existing snapshot: %w", err)
		}
		if existing != nil {
			priorEquity = decimal.NewFromFloat(existing.Equity - existing.DailyPnl)
		}
	}
	equity := priorEquity.Add(dailyPnl)
	state = SnapshotStateEquityRolledForward

	long, short := decimal.Zero, decimal.Zero
	for _, vp := range valued {
		if vp.SignedExposure.IsNegative() {
			short = short.Add(vp.SignedExposure.Abs())
		} else {
			long = long.Add(vp.SignedExposure)
		}
	}

	snapshot, err := h.SnapshotRepository.Upsert(tx, model.PortfolioSnapshot{
		PortfolioID:   portfolio.PortfolioID,
		Date:          date,
		Equity:        equity.InexactFloat64(),
		LongExposure:  long.InexactFloat64(),
		ShortExposure: short.InexactFloat64(),
		NetExposure:   long.Sub(short).InexactFloat64(),
		GrossExposure: long.Add(short).InexactFloat64(),
		DailyPnl:      dailyPnl.InexactFloat64(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to persist snapshot: %w", err)
	}

	if err := h.PortfolioRepository.UpdateEquity(tx, portfolio.PortfolioID, equity); err != nil {
		return nil, fmt.Errorf("failed to update portfolio equity: %w", err)
	}
	state = SnapshotStatePersisted

	log.Infow("snapshot persisted",
		"portfolioId", portfolio.PortfolioID,
		"date", date.Format(time.DateOnly),
		"state", state,
		"dailyPnl", dailyPnl.InexactFloat64(),
	)
	return snapshot, nil
}

// dailyPnl totals per-position P&L against the prior snapshot date's
// close. On the first calculation day there is no prior snapshot, so
// the baseline is each position's entry price. That books the
// entry-to-first-close gap as day-one unrealized P&L instead of zero,
// which keeps rolled-forward equity consistent with market value.
func (h snapshotServiceHandler) dailyPnl(ctx context.Context, valued []domain.ValuedPosition, cache *l1_service.PriceCache, prior *model.PortfolioSnapshot) decimal.Decimal {
	log := logger.FromContext(ctx)

	total := decimal.Zero
	for _, vp := range valued {
		baseline := vp.Position.EntryPrice
		if prior != nil {
			price, err := cache.Get(vp.Position.Symbol, prior.Date)
			if err != nil {
				if !errors.Is(err, domain.ErrPriceNotFound) {
					log.Errorw("baseline price lookup failed", "symbol", vp.Position.Symbol, "error", err)
				}
				// position likely opened since the prior snapshot
				price = vp.Position.EntryPrice
			}
			baseline = price
		}

		move := decimal.NewFromFloat(vp.Price - baseline).
			Mul(decimal.NewFromFloat(vp.Position.Quantity)).
			Mul(decimal.NewFromFloat(vp.Position.PositionType.Multiplier()))
		if vp.Position.PositionType.IsShort() {
			move = move.Neg()
		}
		total = total.Add(move)
	}
	return total
}
