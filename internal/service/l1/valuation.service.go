package l1_service

import (
	"context"
	"errors"
	"riskbatch/internal/domain"
	"riskbatch/internal/logger"
	"time"

	"github.com/shopspring/decimal"
)

// PreparePositionsForAggregation values every position against the
// price cache, applying multiplier and sign conventions. The snapshot
// builder and the analytics engines both consume this output, so
// displayed equity and computed exposures come from the same numbers.
//
// Positions without a usable price are skipped with a warning rather
// than failing the batch; the missing symbols are returned so callers
// can flag result quality.
func PreparePositionsForAggregation(ctx context.Context, positions []domain.Position, cache *PriceCache, date time.Time) ([]domain.ValuedPosition, []string) {
	log := logger.FromContext(ctx)

	out := []domain.ValuedPosition{}
	missing := []string{}
	for _, position := range positions {
		price, err := cache.Get(position.Symbol, date)
		if err != nil {
			if errors.Is(err, domain.ErrPriceNotFound) {
				log.Warnw("skipping position with no price",
					"symbol", position.Symbol,
					"date", date.Format(time.DateOnly),
				)
				missing = append(missing, position.Symbol)
				continue
			}
			log.Errorw("unexpected price lookup failure", "symbol", position.Symbol, "error", err)
			missing = append(missing, position.Symbol)
			continue
		}

		out = append(out, ValuePosition(position, price))
	}

	return out, missing
}

// ValuePosition computes market value and exposures for one position
// at a known price.
func ValuePosition(position domain.Position, price float64) domain.ValuedPosition {
	multiplier := position.PositionType.Multiplier()
	quantity := decimal.NewFromFloat(position.Quantity)
	exposure := quantity.
		Mul(decimal.NewFromFloat(price)).
		Mul(decimal.NewFromFloat(multiplier))

	signed := exposure
	if position.PositionType.IsShort() {
		signed = exposure.Neg()
	}

	return domain.ValuedPosition{
		Position:         position,
		Price:            price,
		MarketValue:      signed,
		SignedExposure:   signed,
		UnsignedExposure: exposure.Abs(),
	}
}
