package l2_service

import (
	"context"
	"fmt"
	"time"

	"riskbatch/internal/calculator"
	"riskbatch/internal/db/models/postgres/public/model"
	"riskbatch/internal/domain"
	"riskbatch/internal/logger"
)

const (
	marketBetaCap        = 5.0
	marketBetaConfidence = 0.05
	marketFactorName     = "market"
)

// marketBetaEngine regresses each held symbol, and the portfolio as a
// whole, against the broad-market proxy. It uses the strict
// significance tier.
type marketBetaEngine struct{}

func NewMarketBetaEngine() CalculationEngine {
	return marketBetaEngine{}
}

func (marketBetaEngine) Name() string {
	return "market_beta"
}

func (e marketBetaEngine) Calculate(ctx context.Context, input EngineInput) (*EngineResult, error) {
	log := logger.FromContext(ctx)

	days := tradingWindow(input.Cache, input.Date, input.lookback())
	marketReturns, err := returnSeries(input.Cache, input.MarketProxy, days)
	if err != nil {
		if quality, ok := qualityForError(err); ok {
			return degradedResult(e.Name(), quality), nil
		}
		return nil, fmt.Errorf("market proxy series: %w", err)
	}

	opts := calculator.RegressionOptions{
		Cap:        marketBetaCap,
		Confidence: marketBetaConfidence,
	}

	result := &EngineResult{Engine: e.Name(), Quality: domain.QualityOk}
	for _, symbol := range input.Portfolio.HeldSymbols() {
		beta, err := e.symbolBeta(input, symbol, days, marketReturns, opts)
		if err != nil {
			return nil, err
		}
		if beta.Quality != domain.QualityOk {
			log.Warnw("market beta degraded",
				"symbol", symbol,
				"quality", beta.Quality,
			)
		}
		result.FactorBetas = append(result.FactorBetas, beta)
	}

	portfolioReturns, err := portfolioReturnSeries(input, days)
	if err != nil {
		if quality, ok := qualityForError(err); ok {
			result.FactorBetas = append(result.FactorBetas, degradedFactorBeta(
				domain.EntityTypePortfolio, input.Portfolio.PortfolioID.String(), marketFactorName, input.Date, quality,
			))
			return result, nil
		}
		return nil, err
	}

	reg, err := calculator.RunSingleFactorRegression(portfolioReturns, marketReturns, opts)
	if err != nil {
		if quality, ok := qualityForError(err); ok {
			result.FactorBetas = append(result.FactorBetas, degradedFactorBeta(
				domain.EntityTypePortfolio, input.Portfolio.PortfolioID.String(), marketFactorName, input.Date, quality,
			))
			return result, nil
		}
		return nil, fmt.Errorf("portfolio market regression: %w", err)
	}
	result.FactorBetas = append(result.FactorBetas, factorBetaFromRegression(
		domain.EntityTypePortfolio, input.Portfolio.PortfolioID.String(), marketFactorName, input.Date, reg,
	))

	return result, nil
}

func (e marketBetaEngine) symbolBeta(input EngineInput, symbol string, days []time.Time, marketReturns []float64, opts calculator.RegressionOptions) (*model.FactorBeta, error) {
	returns, err := returnSeries(input.Cache, symbol, days)
	if err != nil {
		if quality, ok := qualityForError(err); ok {
			return degradedFactorBeta(domain.EntityTypeSymbol, symbol, marketFactorName, input.Date, quality), nil
		}
		return nil, err
	}

	reg, err := calculator.RunSingleFactorRegression(returns, marketReturns, opts)
	if err != nil {
		if quality, ok := qualityForError(err); ok {
			return degradedFactorBeta(domain.EntityTypeSymbol, symbol, marketFactorName, input.Date, quality), nil
		}
		return nil, fmt.Errorf("market regression for %s: %w", symbol, err)
	}

	return factorBetaFromRegression(domain.EntityTypeSymbol, symbol, marketFactorName, input.Date, reg), nil
}
