package rates

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_interestRateMonthsFromApi(t *testing.T) {
	t.Run("months", func(t *testing.T) {
		out, err := interestRateMonthsFromApi("yield_3m")
		require.NoError(t, err)
		require.Equal(t, 3, out)
	})

	t.Run("years convert to months", func(t *testing.T) {
		out, err := interestRateMonthsFromApi("yield_10y")
		require.NoError(t, err)
		require.Equal(t, 120, out)
	})

	t.Run("garbage input", func(t *testing.T) {
		_, err := interestRateMonthsFromApi("yield_xy")
		require.Error(t, err)
	})
}

func Test_InterestRateMap_GetRate(t *testing.T) {
	im := InterestRateMap{Rates: map[int]float64{
		3:   5.2,
		12:  4.8,
		120: 4.1,
	}}

	t.Run("exact tenor", func(t *testing.T) {
		require.Equal(t, 4.8, im.GetRate(12))
	})

	t.Run("below shortest tenor", func(t *testing.T) {
		require.Equal(t, 5.2, im.GetRate(1))
	})

	t.Run("above longest tenor", func(t *testing.T) {
		require.Equal(t, 4.1, im.GetRate(360))
	})

	t.Run("interpolates between tenors", func(t *testing.T) {
		require.InDelta(t, 4.45, im.GetRate(60), 1e-9)
	})

	t.Run("empty curve", func(t *testing.T) {
		empty := InterestRateMap{Rates: map[int]float64{}}
		require.Equal(t, 0.0, empty.GetRate(12))
	})
}
