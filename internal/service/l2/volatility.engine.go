package l2_service

import (
	"context"

	"riskbatch/internal/calculator"
	"riskbatch/internal/db/models/postgres/public/model"
	"riskbatch/internal/domain"
	"riskbatch/internal/logger"
)

// volatilityEngine computes annualized return volatility per held
// symbol and for the portfolio as a whole.
type volatilityEngine struct{}

func NewVolatilityEngine() CalculationEngine {
	return volatilityEngine{}
}

func (volatilityEngine) Name() string {
	return "volatility"
}

func (e volatilityEngine) Calculate(ctx context.Context, input EngineInput) (*EngineResult, error) {
	log := logger.FromContext(ctx)

	days := tradingWindow(input.Cache, input.Date, input.lookback())
	result := &EngineResult{Engine: e.Name(), Quality: domain.QualityOk}

	for _, symbol := range input.Portfolio.HeldSymbols() {
		returns, err := returnSeries(input.Cache, symbol, days)
		if err != nil {
			if quality, ok := qualityForError(err); ok {
				log.Warnw("volatility degraded", "symbol", symbol, "quality", quality)
				result.RiskMeasures = append(result.RiskMeasures, e.degraded(symbol, input, quality))
				continue
			}
			return nil, err
		}
		vol, err := e.annualized(returns)
		if err != nil {
			result.RiskMeasures = append(result.RiskMeasures, e.degraded(symbol, input, domain.QualityInsufficientData))
			continue
		}
		result.RiskMeasures = append(result.RiskMeasures, &model.RiskMeasure{
			EntityID: symbol,
			Measure:  "volatility",
			Date:     input.Date,
			Value:    vol,
			Quality:  domain.QualityOk,
		})
	}

	portfolioReturns, err := portfolioReturnSeries(input, days)
	if err != nil {
		if quality, ok := qualityForError(err); ok {
			result.RiskMeasures = append(result.RiskMeasures, e.degraded(input.Portfolio.PortfolioID.String(), input, quality))
			return result, nil
		}
		return nil, err
	}
	vol, err := e.annualized(portfolioReturns)
	if err != nil {
		result.RiskMeasures = append(result.RiskMeasures, e.degraded(input.Portfolio.PortfolioID.String(), input, domain.QualityInsufficientData))
		return result, nil
	}
	result.RiskMeasures = append(result.RiskMeasures, &model.RiskMeasure{
		EntityID: input.Portfolio.PortfolioID.String(),
		Measure:  "volatility",
		Date:     input.Date,
		Value:    vol,
		Quality:  domain.QualityOk,
	})
	return result, nil
}

func (volatilityEngine) annualized(returns []float64) (float64, error) {
	if len(returns) < calculator.DefaultMinObservations {
		return 0, domain.ErrInsufficientData
	}
	return calculator.AnnualizedVolatility(returns)
}

func (volatilityEngine) degraded(entityID string, input EngineInput, quality string) *model.RiskMeasure {
	return &model.RiskMeasure{
		EntityID: entityID,
		Measure:  "volatility",
		Date:     input.Date,
		Quality:  quality,
	}
}
