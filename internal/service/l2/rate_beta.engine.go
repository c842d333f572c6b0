package l2_service

import (
	"context"
	"fmt"
	"time"

	"riskbatch/internal/calculator"
	"riskbatch/internal/domain"
	"riskbatch/internal/util"
)

const (
	rateBetaCap        = 2.0
	rateBetaConfidence = 0.10
	rateFactorName     = "interest_rate"
)

// rateBetaEngine regresses portfolio returns against daily changes in
// the 10-year treasury yield. Rate sensitivities are noisier than
// market betas, so it uses the relaxed significance tier.
type rateBetaEngine struct{}

func NewRateBetaEngine() CalculationEngine {
	return rateBetaEngine{}
}

func (rateBetaEngine) Name() string {
	return "interest_rate_beta"
}

func (e rateBetaEngine) Calculate(ctx context.Context, input EngineInput) (*EngineResult, error) {
	if len(input.RateLevels) < 2 {
		return degradedResult(e.Name(), domain.QualityInsufficientData), nil
	}

	days := tradingWindow(input.Cache, input.Date, input.lookback())
	portfolioReturns, err := portfolioReturnSeries(input, days)
	if err != nil {
		if quality, ok := qualityForError(err); ok {
			return degradedResult(e.Name(), quality), nil
		}
		return nil, err
	}

	levelByDay := make(map[time.Time]float64, len(input.RateLevels))
	for _, rp := range input.RateLevels {
		levelByDay[util.TruncateToDay(rp.Date)] = rp.Level
	}

	// The regressor is the day-over-day yield change. Pairs are matched
	// by date so a day without a published curve drops out instead of
	// shifting every earlier change onto the wrong return.
	rateChanges := []float64{}
	alignedReturns := []float64{}
	for i := 1; i < len(days); i++ {
		prev, okPrev := levelByDay[util.TruncateToDay(days[i-1])]
		cur, okCur := levelByDay[util.TruncateToDay(days[i])]
		if !okPrev || !okCur {
			continue
		}
		rateChanges = append(rateChanges, cur-prev)
		alignedReturns = append(alignedReturns, portfolioReturns[i-1])
	}

	reg, err := calculator.RunSingleFactorRegression(alignedReturns, rateChanges, calculator.RegressionOptions{
		Cap:        rateBetaCap,
		Confidence: rateBetaConfidence,
	})
	if err != nil {
		if quality, ok := qualityForError(err); ok {
			return degradedResult(e.Name(), quality), nil
		}
		return nil, fmt.Errorf("rate regression: %w", err)
	}

	result := &EngineResult{Engine: e.Name(), Quality: domain.QualityOk}
	result.FactorBetas = append(result.FactorBetas, factorBetaFromRegression(
		domain.EntityTypePortfolio, input.Portfolio.PortfolioID.String(), rateFactorName, input.Date, reg,
	))
	return result, nil
}
