package l1_service

import (
	"context"
	"database/sql"
	"fmt"
	"riskbatch/internal/db/models/postgres/public/model"
	"riskbatch/internal/domain"
	"riskbatch/internal/logger"
	"riskbatch/internal/repository"
	"riskbatch/pkg/marketdata"
	"sort"
	"time"
)

/**

behavior - once the cache is loaded for a run, every price lookup is
answered from memory. a miss never triggers a repository or provider
call; that per-position query storm is exactly what this cache exists
to remove.

weekends and holidays resolve to the most recent prior trading day.

*/

type PriceService interface {
	LoadCache(tx *sql.Tx, symbols []string, dateRange domain.DateRange) (*PriceCache, error)
	SyncPrices(ctx context.Context, tx *sql.Tx, symbols []string, through time.Time) error
}

type priceServiceHandler struct {
	AdjPriceRepository repository.AdjustedPriceRepository
	Provider           marketdata.Provider
}

func NewPriceService(adjPriceRepository repository.AdjustedPriceRepository, provider marketdata.Provider) PriceService {
	return &priceServiceHandler{
		AdjPriceRepository: adjPriceRepository,
		Provider:           provider,
	}
}

type PriceCache struct {
	cache       map[string]map[string]float64
	tradingDays []time.Time
	loadCount   int
}

// NewPriceCache builds a cache directly from price rows. LoadCache is
// the production path; this is for callers that already hold the data.
func NewPriceCache(prices []domain.AssetPrice, tradingDays []time.Time) *PriceCache {
	cache := make(map[string]map[string]float64)
	for _, p := range prices {
		if _, ok := cache[p.Symbol]; !ok {
			cache[p.Symbol] = make(map[string]float64)
		}
		cache[p.Symbol][p.Date.Format(time.DateOnly)] = p.Price
	}
	return &PriceCache{
		cache:       cache,
		tradingDays: tradingDays,
		loadCount:   1,
	}
}

// Get returns the close price for symbol on date, falling back to the
// most recent prior trading day. It is read-only and safe for
// concurrent readers; it never reaches back to the repository.
func (pr *PriceCache) Get(symbol string, date time.Time) (float64, error) {
	prices, ok := pr.cache[symbol]
	if !ok {
		return 0, domain.PriceMissingError{Symbol: symbol, Date: date}
	}

	day := pr.priorTradingDay(date)
	for i := 0; i < 5; i++ {
		if price, ok := prices[day.Format(time.DateOnly)]; ok {
			return price, nil
		}
		day = day.AddDate(0, 0, -1)
	}

	return 0, domain.PriceMissingError{Symbol: symbol, Date: date}
}

// priorTradingDay resolves date to the latest trading day <= date. If
// the trading calendar doesn't cover the date, the date is returned
// unchanged and the lookup walk handles weekends.
func (pr *PriceCache) priorTradingDay(date time.Time) time.Time {
	n := len(pr.tradingDays)
	if n == 0 || pr.tradingDays[0].After(date) || pr.tradingDays[n-1].Before(date) {
		return date
	}
	idx := sort.Search(n, func(i int) bool {
		return pr.tradingDays[i].After(date)
	})
	return pr.tradingDays[idx-1]
}

func (pr *PriceCache) TradingDays() []time.Time {
	return pr.tradingDays
}

// LoadCount reports how many bulk fetches built this cache. Lookup
// paths never increment it.
func (pr *PriceCache) LoadCount() int {
	return pr.loadCount
}

func (h priceServiceHandler) LoadCache(tx *sql.Tx, symbols []string, dateRange domain.DateRange) (*PriceCache, error) {
	prices, err := h.AdjPriceRepository.ListFromRange(tx, symbols, dateRange.Start, dateRange.End)
	if err != nil {
		return nil, fmt.Errorf("failed to load price cache: %w", err)
	}

	tradingDays, err := h.AdjPriceRepository.ListTradingDays(tx, dateRange.Start, dateRange.End)
	if err != nil {
		return nil, fmt.Errorf("failed to load trading days: %w", err)
	}

	return NewPriceCache(prices, tradingDays), nil
}

// SyncPrices ingests missing daily closes from the provider chain for
// every symbol whose stored history lags the through date.
func (h priceServiceHandler) SyncPrices(ctx context.Context, tx *sql.Tx, symbols []string, through time.Time) error {
	log := logger.FromContext(ctx)

	latestPrices, err := h.AdjPriceRepository.LatestPrices(tx, symbols)
	if err != nil {
		return fmt.Errorf("failed to get latest prices: %w", err)
	}

	latestBySymbol := map[string]time.Time{}
	for _, p := range latestPrices {
		latestBySymbol[p.Symbol] = p.Date
	}

	defaultStart := through.AddDate(-5, 0, 0)
	for _, symbol := range symbols {
		start := defaultStart
		if latest, ok := latestBySymbol[symbol]; ok {
			if !latest.Before(through) {
				continue
			}
			start = latest.AddDate(0, 0, 1)
		}

		prices, err := h.Provider.GetDailyPrices(ctx, symbol, start, through)
		if err != nil {
			return fmt.Errorf("failed to ingest prices for %s: %w", symbol, err)
		}

		models := []model.AdjustedPrice{}
		for _, p := range prices {
			models = append(models, model.AdjustedPrice{
				Symbol:    p.Symbol,
				Date:      p.Date,
				Price:     p.Price,
				CreatedAt: time.Now().UTC(),
			})
		}

		err = h.AdjPriceRepository.Add(tx, models)
		if err != nil {
			return err
		}

		log.Infow("synced prices", "symbol", symbol, "count", len(models))
	}

	return nil
}
