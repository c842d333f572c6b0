package l2_service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"riskbatch/internal/calculator"
	"riskbatch/internal/domain"
)

const (
	spreadFactorCap        = 3.0
	spreadFactorConfidence = 0.10
	spreadLookbackDays     = 180
)

// spreadFactorsEngine regresses portfolio returns against long-short
// proxy spreads over a rolling 180-day window, shorter than the other
// engines so the exposures track recent positioning.
type spreadFactorsEngine struct{}

func NewSpreadFactorsEngine() CalculationEngine {
	return spreadFactorsEngine{}
}

func (spreadFactorsEngine) Name() string {
	return "spread_factors"
}

func (e spreadFactorsEngine) Calculate(ctx context.Context, input EngineInput) (*EngineResult, error) {
	days := tradingWindow(input.Cache, input.Date, spreadLookbackDays)

	portfolioReturns, err := portfolioReturnSeries(input, days)
	if err != nil {
		if quality, ok := qualityForError(err); ok {
			return degradedResult(e.Name(), quality), nil
		}
		return nil, err
	}

	factors := make([]string, 0, len(input.SpreadProxies))
	for factor := range input.SpreadProxies {
		factors = append(factors, factor)
	}
	sort.Strings(factors)

	opts := calculator.RegressionOptions{
		Cap:        spreadFactorCap,
		Confidence: spreadFactorConfidence,
	}

	result := &EngineResult{Engine: e.Name(), Quality: domain.QualityOk}
	for _, factor := range factors {
		proxy := input.SpreadProxies[factor]
		spread, err := e.spreadSeries(input, proxy, days)
		if err != nil {
			if quality, ok := qualityForError(err); ok {
				result.FactorBetas = append(result.FactorBetas, degradedFactorBeta(
					domain.EntityTypePortfolio, input.Portfolio.PortfolioID.String(), factor, input.Date, quality,
				))
				continue
			}
			return nil, err
		}

		reg, err := calculator.RunSingleFactorRegression(portfolioReturns, spread, opts)
		if err != nil {
			if quality, ok := qualityForError(err); ok {
				result.FactorBetas = append(result.FactorBetas, degradedFactorBeta(
					domain.EntityTypePortfolio, input.Portfolio.PortfolioID.String(), factor, input.Date, quality,
				))
				continue
			}
			return nil, fmt.Errorf("spread regression for %s: %w", factor, err)
		}

		result.FactorBetas = append(result.FactorBetas, factorBetaFromRegression(
			domain.EntityTypePortfolio, input.Portfolio.PortfolioID.String(), factor, input.Date, reg,
		))
	}
	return result, nil
}

func (e spreadFactorsEngine) spreadSeries(input EngineInput, proxy SpreadProxy, days []time.Time) ([]float64, error) {
	longReturns, err := returnSeries(input.Cache, proxy.Long, days)
	if err != nil {
		return nil, err
	}
	shortReturns, err := returnSeries(input.Cache, proxy.Short, days)
	if err != nil {
		return nil, err
	}
	spread := make([]float64, len(longReturns))
	for i := range longReturns {
		spread[i] = longReturns[i] - shortReturns[i]
	}
	return spread, nil
}
