package l2_service

import (
	"context"
	"fmt"
	"sort"

	"riskbatch/internal/calculator"
	"riskbatch/internal/db/models/postgres/public/model"
	"riskbatch/internal/domain"
)

const multiFactorLambda = 1.0

// multiFactorEngine estimates the portfolio's joint exposure to the
// six non-market style factors. The proxies are correlated ETFs, so a
// plain OLS fit is unstable; ridge regression shrinks the coefficients
// toward zero and keeps them jointly interpretable.
type multiFactorEngine struct{}

func NewMultiFactorEngine() CalculationEngine {
	return multiFactorEngine{}
}

func (multiFactorEngine) Name() string {
	return "multifactor"
}

func (e multiFactorEngine) Calculate(ctx context.Context, input EngineInput) (*EngineResult, error) {
	days := tradingWindow(input.Cache, input.Date, input.lookback())

	portfolioReturns, err := portfolioReturnSeries(input, days)
	if err != nil {
		if quality, ok := qualityForError(err); ok {
			return degradedResult(e.Name(), quality), nil
		}
		return nil, err
	}
	if len(portfolioReturns) < calculator.DefaultMinObservations {
		return degradedResult(e.Name(), domain.QualityInsufficientData), nil
	}

	factors := make([]string, 0, len(input.FactorProxies))
	for factor := range input.FactorProxies {
		factors = append(factors, factor)
	}
	sort.Strings(factors)

	features := make([][]float64, 0, len(factors))
	for _, factor := range factors {
		series, err := returnSeries(input.Cache, input.FactorProxies[factor], days)
		if err != nil {
			if quality, ok := qualityForError(err); ok {
				return degradedResult(e.Name(), quality), nil
			}
			return nil, fmt.Errorf("factor proxy series for %s: %w", factor, err)
		}
		features = append(features, series)
	}

	coefficients, err := calculator.RunRidgeRegression(portfolioReturns, features, multiFactorLambda)
	if err != nil {
		if quality, ok := qualityForError(err); ok {
			return degradedResult(e.Name(), quality), nil
		}
		return nil, fmt.Errorf("ridge regression: %w", err)
	}

	result := &EngineResult{Engine: e.Name(), Quality: domain.QualityOk}
	for i, factor := range factors {
		result.FactorBetas = append(result.FactorBetas, &model.FactorBeta{
			EntityType:   domain.EntityTypePortfolio,
			EntityID:     input.Portfolio.PortfolioID.String(),
			Factor:       factor,
			Date:         input.Date,
			Beta:         coefficients[i],
			OriginalBeta: coefficients[i],
			Quality:      domain.QualityOk,
		})
	}
	return result, nil
}
