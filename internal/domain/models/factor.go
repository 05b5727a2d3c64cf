package models

import (
	"fmt"
	"math"
)

// FactorRecord is one canonical monthly factor observation. All values are
// decimal fractions, never percentage points. Mom is nil for months the
// momentum series does not cover.
type FactorRecord struct {
	YM    string
	MktRF float64
	SMB   float64
	HML   float64
	RF    float64
	Mom   *float64
}

// FactorTable is the canonical deduplicated monthly factor table, ordered by
// ascending month key.
type FactorTable struct {
	Rows        []FactorRecord
	HasMomentum bool
}

// Empty reports whether the table holds no rows.
func (t *FactorTable) Empty() bool {
	return t == nil || len(t.Rows) == 0
}

// ReturnRecord is one asset-month total return, produced upstream.
type ReturnRecord struct {
	Ticker string
	YM     string
	Mret   float64
}

// AlignedSample holds an asset's return series joined with the factor table
// on the month key, with incomplete rows dropped. Mom is populated only when
// HasMomentum is set.
type AlignedSample struct {
	YM          []string
	Mret        []float64
	MktRF       []float64
	SMB         []float64
	HML         []float64
	RF          []float64
	Mom         []float64
	HasMomentum bool
}

// N returns the number of aligned observations.
func (s *AlignedSample) N() int {
	return len(s.YM)
}

// StartYM returns the first observed month key.
func (s *AlignedSample) StartYM() string {
	if len(s.YM) == 0 {
		return ""
	}
	return s.YM[0]
}

// EndYM returns the last observed month key.
func (s *AlignedSample) EndYM() string {
	if len(s.YM) == 0 {
		return ""
	}
	return s.YM[len(s.YM)-1]
}

// ExcessReturns computes mret - rf per observation.
func (s *AlignedSample) ExcessReturns() []float64 {
	y := make([]float64, len(s.Mret))
	for i := range s.Mret {
		y[i] = s.Mret[i] - s.RF[i]
	}
	return y
}

// RegressionResult is one persisted regression summary row. BetaMom is nil
// when the 3-factor model was fitted. R2 may be NaN for degenerate series.
type RegressionResult struct {
	Ticker  string
	StartYM string
	EndYM   string
	Nobs    int
	R2      float64
	Alpha   float64
	BetaMkt float64
	BetaSMB float64
	BetaHML float64
	BetaMom *float64
}

// Model names the fitted model.
func (r *RegressionResult) Model() string {
	if r.BetaMom != nil {
		return "carhart"
	}
	return "ff3"
}

// Summary renders the one-line human-readable report for this result.
func (r *RegressionResult) Summary() string {
	s := fmt.Sprintf("%s: alpha=%+.4f, MKT=%+.2f, SMB=%+.2f, HML=%+.2f",
		r.Ticker, r.Alpha, r.BetaMkt, r.BetaSMB, r.BetaHML)
	if r.BetaMom != nil {
		s += fmt.Sprintf(", MOM=%+.2f", *r.BetaMom)
	}
	return s
}

// OLSFit carries the outcome of a least-squares fit. Coefs[0] is the
// intercept; the rest follow the design matrix column order.
type OLSFit struct {
	Coefs []float64
	R2    float64
	N     int
}

// R2Defined reports whether R2 is a real number.
func (f *OLSFit) R2Defined() bool {
	return !math.IsNaN(f.R2)
}
