package calculator

import (
	"fmt"
	"math"
	"riskbatch/internal/domain"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

const DefaultMinObservations = 30

type RegressionOptions struct {
	// Cap bounds |beta| symmetrically. Zero disables capping.
	Cap float64
	// Confidence is the p-value threshold for significance
	// classification. Callers use 0.05 (strict) or 0.10 (relaxed).
	Confidence float64
	// MinObservations below which the regression refuses to run.
	// Zero means DefaultMinObservations.
	MinObservations int
}

type RegressionResult struct {
	Beta          float64
	Alpha         float64
	RSquared      float64
	StdError      float64
	PValue        float64
	IsSignificant bool
	WasCapped     bool
	OriginalBeta  float64
	Observations  int
}

// RunSingleFactorRegression fits y = alpha + beta*x by ordinary least
// squares. This is the only regression implementation in the codebase;
// every beta-style calculation goes through here so capping and
// significance policy never diverge between engines.
func RunSingleFactorRegression(y, x []float64, opts RegressionOptions) (*RegressionResult, error) {
	if len(y) != len(x) {
		return nil, fmt.Errorf("mismatched series lengths: y has %d, x has %d", len(y), len(x))
	}

	minObs := opts.MinObservations
	if minObs <= 0 {
		minObs = DefaultMinObservations
	}
	if len(y) < minObs {
		return nil, fmt.Errorf("%w: %d observations, need %d", domain.ErrInsufficientData, len(y), minObs)
	}

	for i := range x {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) || math.IsInf(x[i], 0) || math.IsInf(y[i], 0) {
			return nil, fmt.Errorf("non-finite value at observation %d", i)
		}
	}

	alpha, beta := stat.LinearRegression(x, y, nil, false)
	rSquared := stat.RSquared(x, y, nil, alpha, beta)

	n := len(x)
	xMean := stat.Mean(x, nil)
	var rss, ssx float64
	for i := range x {
		resid := y[i] - (alpha + beta*x[i])
		rss += resid * resid
		ssx += (x[i] - xMean) * (x[i] - xMean)
	}
	if ssx == 0 {
		return nil, fmt.Errorf("%w: factor series has no variance", domain.ErrInsufficientData)
	}

	degreesOfFreedom := float64(n - 2)
	stdError := math.Sqrt(rss / degreesOfFreedom / ssx)

	pValue := 1.0
	if stdError > 0 {
		tStat := math.Abs(beta / stdError)
		tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: degreesOfFreedom}
		pValue = 2 * tDist.Survival(tStat)
	} else if beta != 0 {
		// perfect fit
		pValue = 0
	}

	out := &RegressionResult{
		Beta:          beta,
		Alpha:         alpha,
		RSquared:      rSquared,
		StdError:      stdError,
		PValue:        pValue,
		IsSignificant: pValue < opts.Confidence,
		OriginalBeta:  beta,
		Observations:  n,
	}

	if opts.Cap > 0 && math.Abs(beta) > opts.Cap {
		out.Beta = math.Copysign(opts.Cap, beta)
		out.WasCapped = true
	}

	return out, nil
}

// RunRidgeRegression solves a multi-factor fit with an L2 penalty to
// keep correlated factor proxies from blowing up individual
// coefficients. Inputs are demeaned, so no intercept is returned.
// features is column-major: one slice per factor.
func RunRidgeRegression(y []float64, features [][]float64, lambda float64) ([]float64, error) {
	n := len(y)
	k := len(features)
	if k == 0 {
		return nil, fmt.Errorf("ridge regression requires at least one factor series")
	}
	if n < DefaultMinObservations {
		return nil, fmt.Errorf("%w: %d observations, need %d", domain.ErrInsufficientData, n, DefaultMinObservations)
	}
	for i, f := range features {
		if len(f) != n {
			return nil, fmt.Errorf("factor series %d has %d observations, want %d", i, len(f), n)
		}
	}
	if lambda < 0 {
		return nil, fmt.Errorf("ridge lambda must be non-negative, got %f", lambda)
	}

	yc := demean(y)
	x := mat.NewDense(n, k, nil)
	for j, f := range features {
		fc := demean(f)
		for i := 0; i < n; i++ {
			x.Set(i, j, fc[i])
		}
	}

	var xtx mat.Dense
	xtx.Mul(x.T(), x)
	for i := 0; i < k; i++ {
		xtx.Set(i, i, xtx.At(i, i)+lambda)
	}

	var xty mat.VecDense
	xty.MulVec(x.T(), mat.NewVecDense(n, yc))

	var coef mat.VecDense
	if err := coef.SolveVec(&xtx, &xty); err != nil {
		return nil, fmt.Errorf("failed to solve ridge system: %w", err)
	}

	out := make([]float64, k)
	for i := 0; i < k; i++ {
		out[i] = coef.AtVec(i)
	}

	return out, nil
}

func demean(in []float64) []float64 {
	mean := stat.Mean(in, nil)
	out := make([]float64, len(in))
	for i, v := range in {
		out[i] = v - mean
	}
	return out
}
