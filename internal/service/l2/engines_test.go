package l2_service

import (
	"context"
	"math/rand"
	"os"
	"path/filepath"
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

func weekdays(start time.Time, n int) []time.Time {
	days := []time.Time{}
	d := start
	for len(days) < n {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			days = append(days, d)
		}
		d = d.AddDate(0, 0, 1)
	}
	return days
}

func pricesFromReturns(start float64, returns []float64) []float64 {
	prices := []float64{start}
	for _, r := range returns {
		prices = append(prices, prices[len(prices)-1]*(1+r))
	}
	return prices
}

func buildCache(days []time.Time, prices map[string][]float64) *l1_service.PriceCache {
	assetPrices := []domain.AssetPrice{}
	for symbol, series := range prices {
		for i, day := range days {
			assetPrices = append(assetPrices, domain.AssetPrice{
				Symbol: symbol,
				Date:   day,
				Price:  series[i],
			})
		}
	}
	return l1_service.NewPriceCache(assetPrices, days)
}

func singlePositionInput(cache *l1_service.PriceCache, symbol string, quantity float64, date time.Time) EngineInput {
	price, _ := cache.Get(symbol, date)
	position := domain.Position{
		PositionID:   uuid.New(),
		Symbol:       symbol,
		Quantity:     quantity,
		EntryPrice:   price,
		PositionType: domain.PositionTypeLong,
	}
	portfolio := domain.Portfolio{
		PortfolioID: uuid.New(),
		Name:        "test",
		Equity:      decimal.NewFromInt(100000),
		Positions:   []domain.Position{position},
	}
	return EngineInput{
		Portfolio:       portfolio,
		ValuedPositions: []domain.ValuedPosition{l1_service.ValuePosition(position, price)},
		Date:            date,
		Cache:           cache,
		MarketProxy:     DefaultMarketProxy,
	}
}

func Test_MarketBetaEngine(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	n := 300
	days := weekdays(util.NewDate(2023, 1, 2), n)

	marketReturns := make([]float64, n-1)
	leveredReturns := make([]float64, n-1)
	for i := range marketReturns {
		r := rng.NormFloat64() * 0.01
		marketReturns[i] = r
		leveredReturns[i] = 2*r + rng.NormFloat64()*0.0005
	}
	cache := buildCache(days, map[string][]float64{
		"SPY": pricesFromReturns(400, marketReturns),
		"LEV": pricesFromReturns(100, leveredReturns),
	})

	t.Run("recovers levered beta for symbol and portfolio", func(t *testing.T) {
		input := singlePositionInput(cache, "LEV", 10, days[n-1])
		result, err := NewMarketBetaEngine().Calculate(context.Background(), input)
		require.NoError(t, err)
		require.Len(t, result.FactorBetas, 2)

		symbolBeta := result.FactorBetas[0]
		require.Equal(t, domain.EntityTypeSymbol, symbolBeta.EntityType)
		require.Equal(t, "LEV", symbolBeta.EntityID)
		require.InDelta(t, 2.0, symbolBeta.Beta, 0.05)
		require.True(t, symbolBeta.IsSignificant)
		require.False(t, symbolBeta.WasCapped)
		require.Greater(t, symbolBeta.RSquared, 0.9)

		portfolioBeta := result.FactorBetas[1]
		require.Equal(t, domain.EntityTypePortfolio, portfolioBeta.EntityType)
		require.InDelta(t, 2.0, portfolioBeta.Beta, 0.05)
	})

	t.Run("short history degrades instead of failing", func(t *testing.T) {
		shortDays := days[:10]
		shortCache := buildCache(shortDays, map[string][]float64{
			"SPY": pricesFromReturns(400, marketReturns)[:10],
			"LEV": pricesFromReturns(100, leveredReturns)[:10],
		})
		input := singlePositionInput(shortCache, "LEV", 10, shortDays[9])

		result, err := NewMarketBetaEngine().Calculate(context.Background(), input)
		require.NoError(t, err)
		for _, beta := range result.FactorBetas {
			require.Equal(t, domain.QualityInsufficientData, beta.Quality)
		}
	})

	t.Run("empty trading calendar degrades every beta", func(t *testing.T) {
		// prices exist for the exact date but the calendar itself is
		// empty, as happens when too few symbols trade on any day
		date := util.NewDate(2024, 1, 15)
		sparse := l1_service.NewPriceCache([]domain.AssetPrice{
			{Symbol: "LEV", Date: date, Price: 100},
			{Symbol: DefaultMarketProxy, Date: date, Price: 400},
		}, nil)
		input := singlePositionInput(sparse, "LEV", 10, date)

		result, err := NewMarketBetaEngine().Calculate(context.Background(), input)
		require.NoError(t, err)
		require.Len(t, result.FactorBetas, 2)
		for _, beta := range result.FactorBetas {
			require.Equal(t, domain.QualityInsufficientData, beta.Quality)
		}
	})

	t.Run("missing proxy degrades whole engine", func(t *testing.T) {
		noProxy := buildCache(days, map[string][]float64{
			"LEV": pricesFromReturns(100, leveredReturns),
		})
		input := singlePositionInput(noProxy, "LEV", 10, days[n-1])

		result, err := NewMarketBetaEngine().Calculate(context.Background(), input)
		require.NoError(t, err)
		require.Equal(t, domain.QualityMissingData, result.Quality)
		require.Empty(t, result.FactorBetas)
	})
}

func Test_RateBetaEngine(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	n := 300
	days := weekdays(util.NewDate(2023, 1, 2), n)

	levels := make([]float64, n)
	levels[0] = 4.0
	portfolioReturns := make([]float64, n-1)
	for i := 0; i < n-1; i++ {
		change := rng.NormFloat64() * 0.05
		levels[i+1] = levels[i] + change
		portfolioReturns[i] = -0.3*change + rng.NormFloat64()*0.0005
	}
	rateLevels := make([]RatePoint, n)
	for i := range levels {
		rateLevels[i] = RatePoint{Date: days[i], Level: levels[i]}
	}
	cache := buildCache(days, map[string][]float64{
		"BOND": pricesFromReturns(100, portfolioReturns),
	})

	t.Run("recovers negative rate sensitivity", func(t *testing.T) {
		input := singlePositionInput(cache, "BOND", 100, days[n-1])
		input.RateLevels = rateLevels

		result, err := NewRateBetaEngine().Calculate(context.Background(), input)
		require.NoError(t, err)
		require.Len(t, result.FactorBetas, 1)

		beta := result.FactorBetas[0]
		require.Equal(t, rateFactorName, beta.Factor)
		require.InDelta(t, -0.3, beta.Beta, 0.05)
		require.True(t, beta.IsSignificant)
	})

	t.Run("mid-series curve gaps stay aligned", func(t *testing.T) {
		// drop a handful of curve dates from the middle; only those
		// days should fall out of the regression
		gapped := make([]RatePoint, 0, n)
		for i, rp := range rateLevels {
			if i == 100 || i == 150 || i == 200 {
				continue
			}
			gapped = append(gapped, rp)
		}

		input := singlePositionInput(cache, "BOND", 100, days[n-1])
		input.RateLevels = gapped

		result, err := NewRateBetaEngine().Calculate(context.Background(), input)
		require.NoError(t, err)
		require.Len(t, result.FactorBetas, 1)
		require.InDelta(t, -0.3, result.FactorBetas[0].Beta, 0.05)
	})

	t.Run("no rate series degrades", func(t *testing.T) {
		input := singlePositionInput(cache, "BOND", 100, days[n-1])

		result, err := NewRateBetaEngine().Calculate(context.Background(), input)
		require.NoError(t, err)
		require.Equal(t, domain.QualityInsufficientData, result.Quality)
	})
}

func Test_MultiFactorEngine(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	n := 300
	days := weekdays(util.NewDate(2023, 1, 2), n)

	proxyReturns := map[string][]float64{}
	for _, symbol := range DefaultFactorProxies {
		returns := make([]float64, n-1)
		for i := range returns {
			returns[i] = rng.NormFloat64() * 0.01
		}
		proxyReturns[symbol] = returns
	}

	prices := map[string][]float64{}
	for symbol, returns := range proxyReturns {
		prices[symbol] = pricesFromReturns(100, returns)
	}
	// the portfolio holding tracks the value proxy exactly
	prices["FUND"] = pricesFromReturns(50, proxyReturns[DefaultFactorProxies["value"]])
	cache := buildCache(days, prices)

	input := singlePositionInput(cache, "FUND", 100, days[n-1])
	input.FactorProxies = DefaultFactorProxies

	result, err := NewMultiFactorEngine().Calculate(context.Background(), input)
	require.NoError(t, err)
	require.Len(t, result.FactorBetas, len(DefaultFactorProxies))

	var valueBeta float64
	maxBeta := -1.0
	maxFactor := ""
	for _, beta := range result.FactorBetas {
		require.Equal(t, domain.EntityTypePortfolio, beta.EntityType)
		if beta.Factor == "value" {
			valueBeta = beta.Beta
		}
		if beta.Beta > maxBeta {
			maxBeta = beta.Beta
			maxFactor = beta.Factor
		}
	}
	require.Greater(t, valueBeta, 0.0)
	require.Equal(t, "value", maxFactor)
}

func Test_CorrelationEngine(t *testing.T) {
	rng := rand.New(rand.NewSource(19))
	n := 300
	days := weekdays(util.NewDate(2023, 1, 2), n)

	baseReturns := make([]float64, n-1)
	otherReturns := make([]float64, n-1)
	for i := range baseReturns {
		baseReturns[i] = rng.NormFloat64() * 0.01
		otherReturns[i] = rng.NormFloat64() * 0.01
	}
	cache := buildCache(days, map[string][]float64{
		"AAA": pricesFromReturns(100, baseReturns),
		"BBB": pricesFromReturns(200, baseReturns),
		"CCC": pricesFromReturns(300, otherReturns),
	})

	portfolio := domain.Portfolio{PortfolioID: uuid.New(), Equity: decimal.NewFromInt(100000)}
	quantities := map[string]float64{"AAA": 10, "BBB": 10, "CCC": 500}
	valued := []domain.ValuedPosition{}
	for _, symbol := range []string{"AAA", "BBB", "CCC"} {
		position := domain.Position{Symbol: symbol, Quantity: quantities[symbol], PositionType: domain.PositionTypeLong}
		portfolio.Positions = append(portfolio.Positions, position)
		price, err := cache.Get(symbol, days[n-1])
		require.NoError(t, err)
		valued = append(valued, l1_service.ValuePosition(position, price))
	}

	input := EngineInput{
		Portfolio:       portfolio,
		ValuedPositions: valued,
		Date:            days[n-1],
		Cache:           cache,
	}

	result, err := NewCorrelationEngine().Calculate(context.Background(), input)
	require.NoError(t, err)
	require.Len(t, result.RiskMeasures, 1)

	measure := result.RiskMeasures[0]
	require.Equal(t, "correlation", measure.Measure)
	require.NotNil(t, measure.Detail)
	require.Contains(t, *measure.Detail, "AAA")

	t.Run("ceiling keeps largest exposures", func(t *testing.T) {
		top := topSymbolsByExposure(valued, 2)
		require.Len(t, top, 2)
		require.Contains(t, top, "CCC")
	})

	t.Run("single position is degraded", func(t *testing.T) {
		solo := input
		solo.ValuedPositions = valued[:1]
		result, err := NewCorrelationEngine().Calculate(context.Background(), solo)
		require.NoError(t, err)
		require.Equal(t, domain.QualityInsufficientData, result.Quality)
		require.Empty(t, result.RiskMeasures)
	})
}

func Test_SectorExposureEngine(t *testing.T) {
	aapl := domain.Position{Symbol: "AAPL", Quantity: 10, PositionType: domain.PositionTypeLong}
	xom := domain.Position{Symbol: "XOM", Quantity: 10, PositionType: domain.PositionTypeLong}
	input := EngineInput{
		Portfolio: domain.Portfolio{PortfolioID: uuid.New(), Equity: decimal.NewFromInt(4000)},
		ValuedPositions: []domain.ValuedPosition{
			l1_service.ValuePosition(aapl, 300),
			l1_service.ValuePosition(xom, 100),
		},
		Date:      util.NewDate(2024, 1, 15),
		SectorMap: map[string]string{"AAPL": "technology"},
	}

	result, err := NewSectorExposureEngine().Calculate(context.Background(), input)
	require.NoError(t, err)
	require.Len(t, result.RiskMeasures, 1)

	measure := result.RiskMeasures[0]
	require.Equal(t, "sector_exposure", measure.Measure)
	require.InDelta(t, 0.75, measure.Value, 1e-9)
	require.NotNil(t, measure.Detail)
	require.Contains(t, *measure.Detail, "technology")
	require.Contains(t, *measure.Detail, unknownSector)
}

func Test_StressTestEngine(t *testing.T) {
	date := util.NewDate(2024, 1, 15)
	portfolio := domain.Portfolio{PortfolioID: uuid.New(), Equity: decimal.NewFromInt(100000)}

	betas := []model.FactorBeta{
		{Factor: marketFactorName, Beta: 1.5, Quality: domain.QualityOk},
		{Factor: rateFactorName, Beta: -0.8, Quality: domain.QualityOk},
	}
	scenarios := []Scenario{
		{Name: "equity_selloff", Shocks: map[string]float64{marketFactorName: -0.20}},
		{Name: "mixed", Shocks: map[string]float64{marketFactorName: -0.10, "momentum": -0.25}},
	}

	input := EngineInput{
		Portfolio:      portfolio,
		Date:           date,
		PortfolioBetas: betas,
		Scenarios:      scenarios,
	}

	result, err := NewStressTestEngine().Calculate(context.Background(), input)
	require.NoError(t, err)
	require.Len(t, result.StressResults, 2)

	selloff := result.StressResults[0]
	require.Equal(t, "equity_selloff", selloff.Scenario)
	require.InDelta(t, -0.30, selloff.ImpactPct, 1e-9)
	require.InDelta(t, -30000, selloff.ImpactAmount, 1e-6)
	require.Equal(t, domain.QualityOk, selloff.Quality)

	mixed := result.StressResults[1]
	require.Equal(t, domain.QualityMissingData, mixed.Quality)
	require.InDelta(t, -0.15, mixed.ImpactPct, 1e-9)

	t.Run("no committed betas degrades", func(t *testing.T) {
		empty := input
		empty.PortfolioBetas = nil
		result, err := NewStressTestEngine().Calculate(context.Background(), empty)
		require.NoError(t, err)
		require.Equal(t, domain.QualityInsufficientData, result.Quality)
	})
}

func Test_LoadScenarios(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenarios.csv")
	csv := "scenario,factor,shock\n" +
		"selloff,market,-0.20\n" +
		"selloff,low_vol,0.05\n" +
		"rates_up,interest_rate,1.00\n"
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o644))

	scenarios, err := LoadScenarios(path)
	require.NoError(t, err)
	require.Len(t, scenarios, 2)
	require.Equal(t, "selloff", scenarios[0].Name)
	require.InDelta(t, -0.20, scenarios[0].Shocks["market"], 1e-9)
	require.Len(t, scenarios[0].Shocks, 2)
	require.Equal(t, "rates_up", scenarios[1].Name)

	t.Run("validation accepts known factors", func(t *testing.T) {
		require.NoError(t, ValidateScenarios(scenarios, DefaultFactorProxies))
	})

	t.Run("validation rejects unknown factors", func(t *testing.T) {
		bad := []Scenario{{Name: "typo", Shocks: map[string]float64{"marktet": -0.1}}}
		err := ValidateScenarios(bad, DefaultFactorProxies)
		require.ErrorContains(t, err, "marktet")
	})

	t.Run("validation rejects empty scenario set", func(t *testing.T) {
		require.Error(t, ValidateScenarios(nil, DefaultFactorProxies))
	})
}

func Test_VolatilityEngine(t *testing.T) {
	rng := rand.New(rand.NewSource(23))
	n := 300
	days := weekdays(util.NewDate(2023, 1, 2), n)

	returns := make([]float64, n-1)
	for i := range returns {
		returns[i] = rng.NormFloat64() * 0.01
	}
	cache := buildCache(days, map[string][]float64{
		"AAPL": pricesFromReturns(150, returns),
	})

	input := singlePositionInput(cache, "AAPL", 10, days[n-1])
	result, err := NewVolatilityEngine().Calculate(context.Background(), input)
	require.NoError(t, err)

	// one row for the symbol, one for the portfolio
	require.Len(t, result.RiskMeasures, 2)
	for _, measure := range result.RiskMeasures {
		require.Equal(t, "volatility", measure.Measure)
		require.Equal(t, domain.QualityOk, measure.Quality)
		require.Greater(t, measure.Value, 0.0)
		// daily sigma 1% annualizes to roughly 16%
		require.InDelta(t, 0.16, measure.Value, 0.05)
	}
}
