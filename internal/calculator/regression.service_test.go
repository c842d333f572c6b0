package calculator

import (
	"math"
	"math/rand"
	"riskbatch/internal/domain"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_RunSingleFactorRegression(t *testing.T) {
	t.Run("recovers beta on synthetic data", func(t *testing.T) {
		rng := rand.New(rand.NewSource(42))
		x := make([]float64, 100)
		y := make([]float64, 100)
		for i := range x {
			x[i] = rng.NormFloat64() * 0.01
			y[i] = 2*x[i] + rng.NormFloat64()*0.0005
		}

		out, err := RunSingleFactorRegression(y, x, RegressionOptions{
			Cap:        5.0,
			Confidence: 0.05,
		})
		require.NoError(t, err)

		require.InDelta(t, 2.0, out.Beta, 0.05)
		require.Greater(t, out.RSquared, 0.9)
		require.True(t, out.IsSignificant)
		require.False(t, out.WasCapped)
		require.Equal(t, 100, out.Observations)
	})

	t.Run("caps pathological beta and keeps original", func(t *testing.T) {
		rng := rand.New(rand.NewSource(7))
		x := make([]float64, 60)
		y := make([]float64, 60)
		for i := range x {
			x[i] = rng.NormFloat64() * 0.01
			y[i] = 12*x[i] + rng.NormFloat64()*0.0001
		}

		out, err := RunSingleFactorRegression(y, x, RegressionOptions{
			Cap:        5.0,
			Confidence: 0.05,
		})
		require.NoError(t, err)

		require.Equal(t, 5.0, out.Beta)
		require.True(t, out.WasCapped)
		require.InDelta(t, 12.0, out.OriginalBeta, 0.05)
	})

	t.Run("negative beta caps symmetrically", func(t *testing.T) {
		rng := rand.New(rand.NewSource(7))
		x := make([]float64, 60)
		y := make([]float64, 60)
		for i := range x {
			x[i] = rng.NormFloat64() * 0.01
			y[i] = -12 * x[i]
		}

		out, err := RunSingleFactorRegression(y, x, RegressionOptions{
			Cap:        5.0,
			Confidence: 0.05,
		})
		require.NoError(t, err)

		require.Equal(t, -5.0, out.Beta)
		require.True(t, out.WasCapped)
	})

	t.Run("insufficient observations", func(t *testing.T) {
		x := make([]float64, 10)
		y := make([]float64, 10)
		_, err := RunSingleFactorRegression(y, x, RegressionOptions{Confidence: 0.05})
		require.ErrorIs(t, err, domain.ErrInsufficientData)
	})

	t.Run("mismatched lengths", func(t *testing.T) {
		_, err := RunSingleFactorRegression(make([]float64, 40), make([]float64, 39), RegressionOptions{Confidence: 0.05})
		require.Error(t, err)
	})

	t.Run("rejects NaN input", func(t *testing.T) {
		x := make([]float64, 40)
		y := make([]float64, 40)
		for i := range x {
			x[i] = float64(i)
			y[i] = float64(i)
		}
		y[5] = math.NaN()
		_, err := RunSingleFactorRegression(y, x, RegressionOptions{Confidence: 0.05})
		require.Error(t, err)
	})

	t.Run("noise is not significant", func(t *testing.T) {
		rng := rand.New(rand.NewSource(99))
		x := make([]float64, 200)
		y := make([]float64, 200)
		for i := range x {
			x[i] = rng.NormFloat64()
			y[i] = rng.NormFloat64()
		}

		out, err := RunSingleFactorRegression(y, x, RegressionOptions{
			Cap:        5.0,
			Confidence: 0.05,
		})
		require.NoError(t, err)
		require.False(t, out.IsSignificant)
	})
}

func Test_RunRidgeRegression(t *testing.T) {
	t.Run("recovers coefficients with small lambda", func(t *testing.T) {
		rng := rand.New(rand.NewSource(3))
		n := 250
		f1 := make([]float64, n)
		f2 := make([]float64, n)
		y := make([]float64, n)
		for i := 0; i < n; i++ {
			f1[i] = rng.NormFloat64() * 0.01
			f2[i] = rng.NormFloat64() * 0.01
			y[i] = 1.5*f1[i] - 0.5*f2[i] + rng.NormFloat64()*0.0005
		}

		coefs, err := RunRidgeRegression(y, [][]float64{f1, f2}, 0.0001)
		require.NoError(t, err)
		require.Len(t, coefs, 2)
		require.InDelta(t, 1.5, coefs[0], 0.1)
		require.InDelta(t, -0.5, coefs[1], 0.1)
	})

	t.Run("lambda shrinks coefficients", func(t *testing.T) {
		rng := rand.New(rand.NewSource(3))
		n := 250
		f1 := make([]float64, n)
		y := make([]float64, n)
		for i := 0; i < n; i++ {
			f1[i] = rng.NormFloat64() * 0.01
			y[i] = 2 * f1[i]
		}

		loose, err := RunRidgeRegression(y, [][]float64{f1}, 0.0001)
		require.NoError(t, err)
		tight, err := RunRidgeRegression(y, [][]float64{f1}, 10)
		require.NoError(t, err)

		require.Less(t, math.Abs(tight[0]), math.Abs(loose[0]))
	})

	t.Run("insufficient observations", func(t *testing.T) {
		_, err := RunRidgeRegression(make([]float64, 5), [][]float64{make([]float64, 5)}, 1)
		require.ErrorIs(t, err, domain.ErrInsufficientData)
	})

	t.Run("mismatched factor lengths", func(t *testing.T) {
		_, err := RunRidgeRegression(make([]float64, 40), [][]float64{make([]float64, 39)}, 1)
		require.Error(t, err)
	})
}
