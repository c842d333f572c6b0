package l2_service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"riskbatch/internal/calculator"
	"riskbatch/internal/db/models/postgres/public/model"
	"riskbatch/internal/domain"
	l1_service "riskbatch/internal/service/l1"
)

const DefaultLookbackDays = 252

// CalculationEngine is the closed set of daily analytics calculators.
// Every engine reads the shared price cache and the canonical
// regression implementation; none of them fetches data on its own.
type CalculationEngine interface {
	Name() string
	Calculate(ctx context.Context, input EngineInput) (*EngineResult, error)
}

// SpreadProxy defines a long-short pair whose return spread proxies a
// style factor.
type SpreadProxy struct {
	Long  string
	Short string
}

// RatePoint is one day's yield level for the rate regression tenor.
type RatePoint struct {
	Date  time.Time
	Level float64
}

// EngineInput is assembled once per (portfolio, date) by the
// orchestrator and handed to every engine in the analytics phase.
type EngineInput struct {
	Portfolio       domain.Portfolio
	ValuedPositions []domain.ValuedPosition
	Date            time.Time
	Cache           *l1_service.PriceCache
	LookbackDays    int

	MarketProxy   string
	FactorProxies map[string]string
	SpreadProxies map[string]SpreadProxy
	SectorMap     map[string]string

	// RateLevels are yield levels (10y point) for the lookback window,
	// loaded once per run. Days without a published curve are simply
	// absent; the rate engine matches points to trading days by date.
	RateLevels []RatePoint

	// PortfolioBetas are the factor betas already committed for this
	// (portfolio, date). Only the stress engine reads them.
	PortfolioBetas []model.FactorBeta
	Scenarios      []Scenario
}

func (in EngineInput) lookback() int {
	if in.LookbackDays > 0 {
		return in.LookbackDays
	}
	return DefaultLookbackDays
}

// EngineResult carries everything an engine wants persisted. Engines
// never write to the database themselves; the orchestrator commits
// each group so dependency ordering stays in one place.
type EngineResult struct {
	Engine        string
	Quality       string
	FactorBetas   []*model.FactorBeta
	RiskMeasures  []*model.RiskMeasure
	StressResults []*model.StressResult
}

func degradedResult(engine, quality string) *EngineResult {
	return &EngineResult{Engine: engine, Quality: quality}
}

// DefaultFactorProxies maps the six non-market style factors to their
// ETF proxy symbols.
var DefaultFactorProxies = map[string]string{
	"value":    "VTV",
	"growth":   "VUG",
	"momentum": "MTUM",
	"quality":  "QUAL",
	"size":     "IWM",
	"low_vol":  "USMV",
}

// DefaultSpreadProxies defines the long-short pairs for the spread
// factor engine.
var DefaultSpreadProxies = map[string]SpreadProxy{
	"value_spread":  {Long: "VTV", Short: "VUG"},
	"size_spread":   {Long: "IWM", Short: "IVV"},
	"credit_spread": {Long: "HYG", Short: "IEF"},
}

const DefaultMarketProxy = "SPY"

// tradingWindow returns the last lookback+1 trading days ending at or
// before date, so that the derived return series has lookback points.
func tradingWindow(cache *l1_service.PriceCache, date time.Time, lookback int) []time.Time {
	days := cache.TradingDays()
	idx := sort.Search(len(days), func(i int) bool {
		return days[i].After(date)
	})
	days = days[:idx]
	if len(days) > lookback+1 {
		days = days[len(days)-lookback-1:]
	}
	return days
}

func priceSeries(cache *l1_service.PriceCache, symbol string, days []time.Time) ([]float64, error) {
	prices := make([]float64, 0, len(days))
	for _, day := range days {
		price, err := cache.Get(symbol, day)
		if err != nil {
			return nil, fmt.Errorf("price series for %s: %w", symbol, err)
		}
		prices = append(prices, price)
	}
	return prices, nil
}

func returnSeries(cache *l1_service.PriceCache, symbol string, days []time.Time) ([]float64, error) {
	prices, err := priceSeries(cache, symbol, days)
	if err != nil {
		return nil, err
	}
	return calculator.DailyReturns(prices), nil
}

// portfolioReturnSeries builds the portfolio's daily return series as
// the signed-exposure-weighted sum of per-symbol returns. Weights are
// taken from today's valuations and held fixed across the window.
func portfolioReturnSeries(input EngineInput, days []time.Time) ([]float64, error) {
	if len(days) < 2 {
		return nil, fmt.Errorf("window has %d trading days: %w", len(days), domain.ErrInsufficientData)
	}

	gross := 0.0
	for _, vp := range input.ValuedPositions {
		gross += vp.UnsignedExposure.InexactFloat64()
	}
	if gross == 0 {
		return nil, fmt.Errorf("portfolio %s has no exposure: %w", input.Portfolio.PortfolioID, domain.ErrInsufficientData)
	}

	symbolReturns := map[string][]float64{}
	out := make([]float64, len(days)-1)
	for _, vp := range input.ValuedPositions {
		returns, ok := symbolReturns[vp.Position.Symbol]
		if !ok {
			var err error
			returns, err = returnSeries(input.Cache, vp.Position.Symbol, days)
			if err != nil {
				return nil, err
			}
			symbolReturns[vp.Position.Symbol] = returns
		}
		weight := vp.SignedExposure.InexactFloat64() / gross
		for i := range out {
			out[i] += weight * returns[i]
		}
	}
	return out, nil
}

func factorBetaFromRegression(entityType, entityID, factor string, date time.Time, reg *calculator.RegressionResult) *model.FactorBeta {
	return &model.FactorBeta{
		EntityType:    entityType,
		EntityID:      entityID,
		Factor:        factor,
		Date:          date,
		Beta:          reg.Beta,
		Alpha:         reg.Alpha,
		RSquared:      reg.RSquared,
		StdError:      reg.StdError,
		PValue:        reg.PValue,
		IsSignificant: reg.IsSignificant,
		WasCapped:     reg.WasCapped,
		OriginalBeta:  reg.OriginalBeta,
		Quality:       domain.QualityOk,
	}
}

// degradedFactorBeta records that a beta could not be computed for the
// given entity so downstream consumers see the gap instead of a
// silently absent row.
func degradedFactorBeta(entityType, entityID, factor string, date time.Time, quality string) *model.FactorBeta {
	return &model.FactorBeta{
		EntityType: entityType,
		EntityID:   entityID,
		Factor:     factor,
		Date:       date,
		Quality:    quality,
	}
}

// qualityForError classifies a calculation failure into a result
// quality flag, or returns ok=false when the error is not a known
// degradation and should surface to the orchestrator.
func qualityForError(err error) (string, bool) {
	switch {
	case errors.Is(err, domain.ErrInsufficientData):
		return domain.QualityInsufficientData, true
	case errors.Is(err, domain.ErrPriceNotFound):
		return domain.QualityMissingData, true
	}
	return "", false
}
