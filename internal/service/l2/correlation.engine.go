package l2_service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"riskbatch/internal/calculator"
	"riskbatch/internal/db/models/postgres/public/model"
	"riskbatch/internal/domain"
	"riskbatch/internal/logger"
)

const correlationPositionCeiling = 25

// correlationEngine computes the pairwise return correlation matrix
// for the portfolio's largest positions. The position count is capped
// so the matrix stays tractable for wide portfolios; smaller holdings
// contribute little to concentration risk anyway.
type correlationEngine struct{}

func NewCorrelationEngine() CalculationEngine {
	return correlationEngine{}
}

func (correlationEngine) Name() string {
	return "correlation"
}

type correlationDetail struct {
	Symbols []string    `json:"symbols"`
	Matrix  [][]float64 `json:"matrix"`
}

func (e correlationEngine) Calculate(ctx context.Context, input EngineInput) (*EngineResult, error) {
	log := logger.FromContext(ctx)

	symbols := topSymbolsByExposure(input.ValuedPositions, correlationPositionCeiling)
	if len(symbols) < 2 {
		return degradedResult(e.Name(), domain.QualityInsufficientData), nil
	}

	days := tradingWindow(input.Cache, input.Date, input.lookback())
	series := map[string][]float64{}
	kept := []string{}
	for _, symbol := range symbols {
		returns, err := returnSeries(input.Cache, symbol, days)
		if err != nil {
			if _, ok := qualityForError(err); ok {
				log.Warnw("excluding symbol from correlation matrix", "symbol", symbol, "error", err)
				continue
			}
			return nil, err
		}
		if len(returns) < calculator.DefaultMinObservations {
			continue
		}
		series[symbol] = returns
		kept = append(kept, symbol)
	}
	if len(kept) < 2 {
		return degradedResult(e.Name(), domain.QualityInsufficientData), nil
	}

	matrix := make([][]float64, len(kept))
	sum, pairs := 0.0, 0
	for i := range kept {
		matrix[i] = make([]float64, len(kept))
		matrix[i][i] = 1
		for j := 0; j < i; j++ {
			corr, err := calculator.PearsonCorrelation(series[kept[i]], series[kept[j]])
			if err != nil {
				return nil, fmt.Errorf("correlation %s/%s: %w", kept[i], kept[j], err)
			}
			matrix[i][j] = corr
			matrix[j][i] = corr
			sum += corr
			pairs++
		}
	}

	detail, err := json.Marshal(correlationDetail{Symbols: kept, Matrix: matrix})
	if err != nil {
		return nil, err
	}
	detailStr := string(detail)

	return &EngineResult{
		Engine:  e.Name(),
		Quality: domain.QualityOk,
		RiskMeasures: []*model.RiskMeasure{{
			EntityID: input.Portfolio.PortfolioID.String(),
			Measure:  "correlation",
			Date:     input.Date,
			Value:    sum / float64(pairs),
			Quality:  domain.QualityOk,
			Detail:   &detailStr,
		}},
	}, nil
}

// topSymbolsByExposure ranks distinct held symbols by total unsigned
// exposure and keeps the largest n.
func topSymbolsByExposure(positions []domain.ValuedPosition, n int) []string {
	exposure := map[string]float64{}
	for _, vp := range positions {
		exposure[vp.Position.Symbol] += vp.UnsignedExposure.InexactFloat64()
	}
	symbols := make([]string, 0, len(exposure))
	for symbol := range exposure {
		symbols = append(symbols, symbol)
	}
	sort.Slice(symbols, func(i, j int) bool {
		if exposure[symbols[i]] != exposure[symbols[j]] {
			return exposure[symbols[i]] > exposure[symbols[j]]
		}
		return symbols[i] < symbols[j]
	})
	if len(symbols) > n {
		symbols = symbols[:n]
	}
	return symbols
}
