package l2_service

import (
	"context"

	"riskbatch/internal/db/models/postgres/public/model"
	"riskbatch/internal/domain"
	"riskbatch/internal/logger"
)

// stressTestEngine composes committed factor betas with scenario
// shock vectors. It must run only after the beta engines' results are
// committed for the same date; the orchestrator enforces that
// ordering and loads PortfolioBetas from the store.
type stressTestEngine struct{}

func NewStressTestEngine() CalculationEngine {
	return stressTestEngine{}
}

func (stressTestEngine) Name() string {
	return "stress_test"
}

func (e stressTestEngine) Calculate(ctx context.Context, input EngineInput) (*EngineResult, error) {
	log := logger.FromContext(ctx)

	if len(input.PortfolioBetas) == 0 {
		return degradedResult(e.Name(), domain.QualityInsufficientData), nil
	}

	betaByFactor := map[string]float64{}
	for _, beta := range input.PortfolioBetas {
		if beta.Quality != domain.QualityOk {
			continue
		}
		betaByFactor[beta.Factor] = beta.Beta
	}

	equity := input.Portfolio.Equity.InexactFloat64()

	result := &EngineResult{Engine: e.Name(), Quality: domain.QualityOk}
	for _, scenario := range input.Scenarios {
		impactPct := 0.0
		quality := domain.QualityOk
		for factor, shock := range scenario.Shocks {
			beta, ok := betaByFactor[factor]
			if !ok {
				log.Warnw("stress scenario missing factor beta",
					"portfolioId", input.Portfolio.PortfolioID,
					"scenario", scenario.Name,
					"factor", factor,
				)
				quality = domain.QualityMissingData
				continue
			}
			impactPct += beta * shock
		}

		result.StressResults = append(result.StressResults, &model.StressResult{
			PortfolioID:  input.Portfolio.PortfolioID,
			Scenario:     scenario.Name,
			Date:         input.Date,
			ImpactPct:    impactPct,
			ImpactAmount: impactPct * equity,
			Quality:      quality,
		})
	}
	return result, nil
}
