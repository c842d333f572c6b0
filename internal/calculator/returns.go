package calculator

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
)

// DailyReturns converts a price series into simple percent returns.
// Output length is len(prices)-1.
func DailyReturns(prices []float64) []float64 {
	if len(prices) < 2 {
		return []float64{}
	}
	returns := make([]float64, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		if prices[i-1] == 0 {
			returns = append(returns, 0)
			continue
		}
		returns = append(returns, (prices[i]-prices[i-1])/prices[i-1])
	}
	return returns
}

// AnnualizedVolatility scales sample stdev of daily returns by
// sqrt(252 trading days).
func AnnualizedVolatility(dailyReturns []float64) (float64, error) {
	if len(dailyReturns) < 2 {
		return 0, fmt.Errorf("cannot compute volatility on %d returns", len(dailyReturns))
	}
	stdev, err := stats.StandardDeviationSample(dailyReturns)
	if err != nil {
		return 0, err
	}
	return stdev * math.Sqrt(252), nil
}

// PearsonCorrelation of two equal-length return series.
func PearsonCorrelation(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("mismatched series lengths: %d vs %d", len(a), len(b))
	}
	return stats.Correlation(a, b)
}
