package l2_service

import (
	"context"
	"encoding/json"

	"riskbatch/internal/db/models/postgres/public/model"
	"riskbatch/internal/domain"
	"riskbatch/internal/logger"
)

const unknownSector = "unknown"

// sectorExposureEngine aggregates unsigned exposure by sector and
// persists the weight distribution. Symbols with no sector mapping
// land in an explicit unknown bucket rather than vanishing from the
// totals.
type sectorExposureEngine struct{}

func NewSectorExposureEngine() CalculationEngine {
	return sectorExposureEngine{}
}

func (sectorExposureEngine) Name() string {
	return "sector_exposure"
}

func (e sectorExposureEngine) Calculate(ctx context.Context, input EngineInput) (*EngineResult, error) {
	log := logger.FromContext(ctx)

	gross := 0.0
	bySector := map[string]float64{}
	for _, vp := range input.ValuedPositions {
		sector, ok := input.SectorMap[vp.Position.Symbol]
		if !ok {
			log.Warnw("no sector mapping", "symbol", vp.Position.Symbol)
			sector = unknownSector
		}
		amount := vp.UnsignedExposure.InexactFloat64()
		bySector[sector] += amount
		gross += amount
	}
	if gross == 0 {
		return degradedResult(e.Name(), domain.QualityInsufficientData), nil
	}

	weights := map[string]float64{}
	largest := 0.0
	for sector, amount := range bySector {
		weights[sector] = amount / gross
		if weights[sector] > largest {
			largest = weights[sector]
		}
	}

	detail, err := json.Marshal(weights)
	if err != nil {
		return nil, err
	}
	detailStr := string(detail)

	return &EngineResult{
		Engine:  e.Name(),
		Quality: domain.QualityOk,
		RiskMeasures: []*model.RiskMeasure{{
			EntityID: input.Portfolio.PortfolioID.String(),
			Measure:  "sector_exposure",
			Date:     input.Date,
			// the headline value is the largest single-sector weight,
			// a quick concentration read for dashboards
			Value:   largest,
			Quality: domain.QualityOk,
			Detail:  &detailStr,
		}},
	}, nil
}
