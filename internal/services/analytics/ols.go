package analytics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"FactorLab/internal/domain/models"
)

// rcond is the relative singular value cutoff for the effective rank,
// matching the conventional machine-epsilon based tolerance.
const rcond = 1e-15

// FitOLS solves the unweighted least-squares problem min ‖y − [1|X]·c‖² by
// singular value decomposition, which stays stable when factor columns are
// collinear or nearly so. Coefs[0] is the intercept, Coefs[1..k] follow the
// column order of x. R2 is NaN when the total sum of squares is zero.
func FitOLS(y []float64, x [][]float64) (*models.OLSFit, error) {
	n := len(y)
	if n == 0 {
		return nil, fmt.Errorf("empty sample")
	}
	if len(x) != n {
		return nil, fmt.Errorf("design matrix rows %d != observations %d", len(x), n)
	}
	k := len(x[0])
	for i, row := range x {
		if len(row) != k {
			return nil, fmt.Errorf("ragged design matrix at row %d", i)
		}
	}

	// augmented design matrix with a leading intercept column
	a := mat.NewDense(n, k+1, nil)
	for i := 0; i < n; i++ {
		a.Set(i, 0, 1)
		for j := 0; j < k; j++ {
			a.Set(i, j+1, x[i][j])
		}
	}

	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDThin); !ok {
		return nil, fmt.Errorf("svd factorization failed")
	}
	rank := svd.Rank(rcond)
	if rank == 0 {
		return nil, fmt.Errorf("design matrix has rank zero")
	}

	b := mat.NewVecDense(n, y)
	var coef mat.VecDense
	svd.SolveVecTo(&coef, b, rank)

	var yhat mat.VecDense
	yhat.MulVec(a, &coef)

	mean := 0.0
	for _, v := range y {
		mean += v
	}
	mean /= float64(n)

	ssRes, ssTot := 0.0, 0.0
	for i, v := range y {
		r := v - yhat.AtVec(i)
		ssRes += r * r
		d := v - mean
		ssTot += d * d
	}

	r2 := math.NaN()
	if ssTot > 0 {
		r2 = 1.0 - ssRes/ssTot
	}

	coefs := make([]float64, k+1)
	for i := range coefs {
		coefs[i] = coef.AtVec(i)
	}

	return &models.OLSFit{Coefs: coefs, R2: r2, N: n}, nil
}
