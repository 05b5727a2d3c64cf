package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"sync"
	"time"

	"FactorLab/internal/domain/models"
	drepo "FactorLab/internal/domain/repository"
	"FactorLab/internal/services/analytics"
	applogger "FactorLab/pkg/logger"
)

// RunParams are the per-run regression parameters. StartYM is already
// truncated to a month key and bounds both the returns and factors queries.
type RunParams struct {
	Tickers []string
	StartYM string
	Carhart bool
	Workers int
}

// Runner drives one batch regression run: provision factors, load returns,
// then align/fit/persist per asset in sorted ticker order.
type Runner struct {
	prov    *FactorProvisioner
	factors drepo.FactorStore
	returns drepo.ReturnStore
	results drepo.ResultStore
	pub     drepo.ResultPublisher
	metrics drepo.Metrics
	l       *applogger.Logger
	out     io.Writer
}

func NewRunner(
	prov *FactorProvisioner,
	factors drepo.FactorStore,
	returns drepo.ReturnStore,
	results drepo.ResultStore,
	pub drepo.ResultPublisher,
	metrics drepo.Metrics,
	l *applogger.Logger,
) *Runner {
	return &Runner{
		prov:    prov,
		factors: factors,
		returns: returns,
		results: results,
		pub:     pub,
		metrics: metrics,
		l:       l,
		out:     os.Stdout,
	}
}

// SetOutput redirects the per-asset report lines (used by tests).
func (r *Runner) SetOutput(w io.Writer) { r.out = w }

// Run executes the whole batch and returns the persisted results in
// processing order. Fatal errors abort the run; a per-asset empty overlap
// only skips that asset.
func (r *Runner) Run(ctx context.Context, p RunParams) ([]models.RegressionResult, error) {
	start := time.Now()

	if err := r.prov.Ensure(ctx, p.StartYM); err != nil {
		return nil, err
	}

	rets, err := r.returns.MonthlyReturns(ctx, p.StartYM, p.Tickers)
	if err != nil {
		return nil, fmt.Errorf("load returns: %w", err)
	}
	if len(rets) == 0 {
		return nil, drepo.ErrNoReturns
	}

	table, err := r.factors.Load(ctx, p.StartYM)
	if err != nil {
		return nil, fmt.Errorf("load factors: %w", err)
	}
	if table.Empty() {
		return nil, drepo.ErrNoFactors
	}

	if err := r.results.Init(ctx); err != nil {
		return nil, fmt.Errorf("init result table: %w", err)
	}

	byTicker := make(map[string][]models.ReturnRecord)
	for _, rec := range rets {
		byTicker[rec.Ticker] = append(byTicker[rec.Ticker], rec)
	}
	tickers := make([]string, 0, len(byTicker))
	for t := range byTicker {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)

	fits := r.fitAll(tickers, byTicker, table, p)

	// Persistence and reporting stay sequential in sorted ticker order so
	// output is deterministic and the store sees a single writer.
	out := make([]models.RegressionResult, 0, len(tickers))
	for _, t := range tickers {
		res, ok := fits[t]
		if !ok {
			fmt.Fprintf(r.out, "[INFO] skipping %s (no overlap)\n", t)
			r.metrics.RecordSkip("no_overlap")
			continue
		}

		if err := r.results.Append(ctx, res); err != nil {
			return out, fmt.Errorf("persist result for %s: %w", t, err)
		}
		if r.pub != nil {
			if err := r.pub.Publish(ctx, res); err != nil {
				r.l.Warn("result publish failed", applogger.String("ticker", t), applogger.Error(err))
			}
		}

		r.metrics.RecordRegression(res.Model())
		if !math.IsNaN(res.R2) {
			r.metrics.RecordR2(t, res.R2)
		}
		fmt.Fprintln(r.out, res.Summary())
		out = append(out, *res)
	}

	r.metrics.RecordLatency("run", time.Since(start).Seconds())
	r.l.Info("regression run complete",
		applogger.Int("assets", len(tickers)),
		applogger.Int("fitted", len(out)),
		applogger.Duration("duration_ms", time.Since(start)),
	)
	return out, nil
}

// fitAll fits every ticker, optionally across a bounded worker pool. Tickers
// with an empty aligned sample are absent from the returned map.
func (r *Runner) fitAll(tickers []string, byTicker map[string][]models.ReturnRecord, table *models.FactorTable, p RunParams) map[string]*models.RegressionResult {
	fits := make(map[string]*models.RegressionResult, len(tickers))

	workers := p.Workers
	if workers <= 1 || len(tickers) <= 1 {
		for _, t := range tickers {
			if res := r.fitOne(t, byTicker[t], table, p.Carhart); res != nil {
				fits[t] = res
			}
		}
		return fits
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, workers)
	for _, t := range tickers {
		wg.Add(1)
		go func(t string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			res := r.fitOne(t, byTicker[t], table, p.Carhart)
			if res == nil {
				return
			}
			mu.Lock()
			fits[t] = res
			mu.Unlock()
		}(t)
	}
	wg.Wait()
	return fits
}

// fitOne aligns and fits a single asset. Returns nil when the asset has no
// usable overlap with the factor table.
func (r *Runner) fitOne(ticker string, returns []models.ReturnRecord, table *models.FactorTable, carhart bool) *models.RegressionResult {
	sample, err := AlignReturns(returns, table)
	if err != nil {
		if !errors.Is(err, drepo.ErrNoOverlap) {
			r.l.Error("align failed", applogger.String("ticker", ticker), applogger.Error(err))
		}
		return nil
	}

	useMom := carhart && sample.HasMomentum
	sample, y, x := buildDesign(sample, useMom)
	if sample.N() == 0 {
		return nil
	}

	fit, err := analytics.FitOLS(y, x)
	if err != nil {
		r.l.Error("ols fit failed", applogger.String("ticker", ticker), applogger.Error(err))
		return nil
	}

	res := &models.RegressionResult{
		Ticker:  ticker,
		StartYM: sample.StartYM(),
		EndYM:   sample.EndYM(),
		Nobs:    fit.N,
		R2:      fit.R2,
		Alpha:   fit.Coefs[0],
		BetaMkt: fit.Coefs[1],
		BetaSMB: fit.Coefs[2],
		BetaHML: fit.Coefs[3],
	}
	if useMom {
		mom := fit.Coefs[4]
		res.BetaMom = &mom
	}
	return res
}

// buildDesign selects factor columns in canonical order. Under the 4-factor
// model, months without a momentum value are dropped from the sample.
func buildDesign(sample *models.AlignedSample, useMom bool) (*models.AlignedSample, []float64, [][]float64) {
	if useMom {
		filtered := &models.AlignedSample{HasMomentum: true}
		for i := range sample.YM {
			if math.IsNaN(sample.Mom[i]) {
				continue
			}
			filtered.YM = append(filtered.YM, sample.YM[i])
			filtered.Mret = append(filtered.Mret, sample.Mret[i])
			filtered.MktRF = append(filtered.MktRF, sample.MktRF[i])
			filtered.SMB = append(filtered.SMB, sample.SMB[i])
			filtered.HML = append(filtered.HML, sample.HML[i])
			filtered.RF = append(filtered.RF, sample.RF[i])
			filtered.Mom = append(filtered.Mom, sample.Mom[i])
		}
		sample = filtered
	}

	y := sample.ExcessReturns()
	x := make([][]float64, sample.N())
	for i := range x {
		if useMom {
			x[i] = []float64{sample.MktRF[i], sample.SMB[i], sample.HML[i], sample.Mom[i]}
		} else {
			x[i] = []float64{sample.MktRF[i], sample.SMB[i], sample.HML[i]}
		}
	}
	return sample, y, x
}
