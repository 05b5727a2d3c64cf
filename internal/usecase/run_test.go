package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"FactorLab/internal/domain/models"
	drepo "FactorLab/internal/domain/repository"
	applogger "FactorLab/pkg/logger"
)

// --- fakes ---

type fakeSource struct {
	research    *models.RawSeries
	momentum    *models.RawSeries
	researchErr error
	momentumErr error
	fetches     int
}

func (f *fakeSource) Research(ctx context.Context) (*models.RawSeries, error) {
	f.fetches++
	return f.research, f.researchErr
}

func (f *fakeSource) Momentum(ctx context.Context) (*models.RawSeries, error) {
	if f.momentumErr != nil {
		return nil, f.momentumErr
	}
	return f.momentum, nil
}

type fakeFactorStore struct {
	table    *models.FactorTable
	replaces int
}

func (f *fakeFactorStore) Count(ctx context.Context) (int, error) {
	if f.table == nil {
		return 0, fmt.Errorf("no such table: factors_monthly")
	}
	return len(f.table.Rows), nil
}

func (f *fakeFactorStore) Replace(ctx context.Context, table *models.FactorTable) error {
	f.table = table
	f.replaces++
	return nil
}

func (f *fakeFactorStore) Load(ctx context.Context, startYM string) (*models.FactorTable, error) {
	if f.table == nil {
		return &models.FactorTable{}, nil
	}
	out := &models.FactorTable{HasMomentum: f.table.HasMomentum}
	for _, r := range f.table.Rows {
		if r.YM >= startYM {
			out.Rows = append(out.Rows, r)
		}
	}
	return out, nil
}

type fakeReturnStore struct {
	recs []models.ReturnRecord
}

func (f *fakeReturnStore) MonthlyReturns(ctx context.Context, startYM string, tickers []string) ([]models.ReturnRecord, error) {
	want := make(map[string]bool, len(tickers))
	for _, t := range tickers {
		want[t] = true
	}
	var out []models.ReturnRecord
	for _, r := range f.recs {
		if r.YM >= startYM && want[r.Ticker] {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeResultStore struct {
	rows []models.RegressionResult
}

func (f *fakeResultStore) Init(ctx context.Context) error { return nil }

func (f *fakeResultStore) Append(ctx context.Context, r *models.RegressionResult) error {
	f.rows = append(f.rows, *r)
	return nil
}

func (f *fakeResultStore) List(ctx context.Context, ticker string, limit int) ([]models.RegressionResult, error) {
	return f.rows, nil
}

type nopMetrics struct{}

func (nopMetrics) RecordFactorRows(int)       {}
func (nopMetrics) RecordRegression(string)    {}
func (nopMetrics) RecordSkip(string)          {}
func (nopMetrics) RecordR2(string, float64)   {}
func (nopMetrics) RecordLatency(string, float64) {}

// --- fixtures ---

func testLogger(t *testing.T) *applogger.Logger {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "console", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

func yearOfFactors(momentum bool) *models.FactorTable {
	table := &models.FactorTable{HasMomentum: momentum}
	for m := 1; m <= 12; m++ {
		rec := models.FactorRecord{
			YM:    fmt.Sprintf("2020-%02d", m),
			MktRF: 0.01 + float64(m)*0.001,
			SMB:   0.002 - float64(m)*0.0004,
			HML:   -0.001 + float64(m)*0.0002,
			RF:    0.0005,
		}
		if momentum {
			v := 0.005 + float64(m)*0.0003
			rec.Mom = &v
		}
		table.Rows = append(table.Rows, rec)
	}
	return table
}

func returnsFor(ticker string, fromMonth, toMonth int) []models.ReturnRecord {
	var out []models.ReturnRecord
	for m := fromMonth; m <= toMonth; m++ {
		out = append(out, models.ReturnRecord{
			Ticker: ticker,
			YM:     fmt.Sprintf("2020-%02d", m),
			Mret:   0.01 + float64(m)*0.002,
		})
	}
	return out
}

func newTestRunner(t *testing.T, factors *fakeFactorStore, returns *fakeReturnStore, results *fakeResultStore) (*Runner, *bytes.Buffer) {
	t.Helper()
	l := testLogger(t)
	prov := NewFactorProvisioner(&fakeSource{}, factors, nopMetrics{}, l)
	r := NewRunner(prov, factors, returns, results, nil, nopMetrics{}, l)
	var buf bytes.Buffer
	r.SetOutput(&buf)
	return r, &buf
}

// --- tests ---

func TestRunSampleScenario(t *testing.T) {
	// factors 2020-01..2020-12, returns only 2020-06..2020-12
	factors := &fakeFactorStore{table: yearOfFactors(false)}
	returns := &fakeReturnStore{recs: returnsFor("SPY", 6, 12)}
	results := &fakeResultStore{}
	r, _ := newTestRunner(t, factors, returns, results)

	out, err := r.Run(context.Background(), RunParams{Tickers: []string{"SPY"}, StartYM: "2020-01"})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 result, got %d", len(out))
	}
	res := out[0]
	if res.Nobs != 7 {
		t.Fatalf("nobs: got %d want 7", res.Nobs)
	}
	if res.StartYM != "2020-06" || res.EndYM != "2020-12" {
		t.Fatalf("observed range: got %s..%s", res.StartYM, res.EndYM)
	}
	if res.BetaMom != nil {
		t.Fatalf("expected nil beta_mom under 3-factor model")
	}
}

func TestRunOrderInvariance(t *testing.T) {
	factors := &fakeFactorStore{table: yearOfFactors(false)}
	recs := append(returnsFor("ZM", 1, 12), returnsFor("AAPL", 1, 12)...)
	recs = append(recs, returnsFor("MSFT", 1, 12)...)
	returns := &fakeReturnStore{recs: recs}
	results := &fakeResultStore{}
	r, _ := newTestRunner(t, factors, returns, results)

	out, err := r.Run(context.Background(), RunParams{Tickers: []string{"ZM", "MSFT", "AAPL"}, StartYM: "2020-01"})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	want := []string{"AAPL", "MSFT", "ZM"}
	if len(out) != len(want) {
		t.Fatalf("expected %d results, got %d", len(want), len(out))
	}
	for i, w := range want {
		if out[i].Ticker != w {
			t.Fatalf("position %d: got %s want %s", i, out[i].Ticker, w)
		}
	}
}

func TestRunSkipsNoOverlap(t *testing.T) {
	factors := &fakeFactorStore{table: yearOfFactors(false)}
	recs := append(returnsFor("SPY", 1, 12), models.ReturnRecord{Ticker: "GHOST", YM: "2021-05", Mret: 0.01})
	returns := &fakeReturnStore{recs: recs}
	results := &fakeResultStore{}
	r, buf := newTestRunner(t, factors, returns, results)

	out, err := r.Run(context.Background(), RunParams{Tickers: []string{"SPY", "GHOST"}, StartYM: "2020-01"})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(out) != 1 || out[0].Ticker != "SPY" {
		t.Fatalf("expected SPY only, got %v", out)
	}
	if len(results.rows) != 1 {
		t.Fatalf("skipped asset must not be persisted")
	}
	if !strings.Contains(buf.String(), "skipping GHOST") {
		t.Fatalf("expected skip notice, got %q", buf.String())
	}
}

func TestRunMomentumGating(t *testing.T) {
	cases := []struct {
		name     string
		momentum bool
		carhart  bool
		wantMom  bool
	}{
		{"carhart with momentum", true, true, true},
		{"carhart without momentum", false, true, false},
		{"ff3 with momentum present", true, false, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			factors := &fakeFactorStore{table: yearOfFactors(tc.momentum)}
			returns := &fakeReturnStore{recs: returnsFor("SPY", 1, 12)}
			results := &fakeResultStore{}
			r, _ := newTestRunner(t, factors, returns, results)

			out, err := r.Run(context.Background(), RunParams{Tickers: []string{"SPY"}, StartYM: "2020-01", Carhart: tc.carhart})
			if err != nil {
				t.Fatalf("run: %v", err)
			}
			got := out[0].BetaMom != nil
			if got != tc.wantMom {
				t.Fatalf("beta_mom presence: got %v want %v", got, tc.wantMom)
			}
		})
	}
}

func TestRunNoReturnsFatal(t *testing.T) {
	factors := &fakeFactorStore{table: yearOfFactors(false)}
	returns := &fakeReturnStore{}
	results := &fakeResultStore{}
	r, _ := newTestRunner(t, factors, returns, results)

	_, err := r.Run(context.Background(), RunParams{Tickers: []string{"SPY"}, StartYM: "2020-01"})
	if !errors.Is(err, drepo.ErrNoReturns) {
		t.Fatalf("expected ErrNoReturns, got %v", err)
	}
}

func TestRunParallelMatchesSequential(t *testing.T) {
	build := func(workers int) []models.RegressionResult {
		factors := &fakeFactorStore{table: yearOfFactors(true)}
		recs := append(returnsFor("AAA", 1, 12), returnsFor("BBB", 2, 11)...)
		recs = append(recs, returnsFor("CCC", 3, 12)...)
		returns := &fakeReturnStore{recs: recs}
		results := &fakeResultStore{}
		r, _ := newTestRunner(t, factors, returns, results)

		out, err := r.Run(context.Background(), RunParams{
			Tickers: []string{"CCC", "AAA", "BBB"},
			StartYM: "2020-01",
			Carhart: true,
			Workers: workers,
		})
		if err != nil {
			t.Fatalf("run workers=%d: %v", workers, err)
		}
		return out
	}

	seq := build(1)
	par := build(4)
	if len(seq) != len(par) {
		t.Fatalf("result count differs: %d vs %d", len(seq), len(par))
	}
	for i := range seq {
		if seq[i].Ticker != par[i].Ticker || seq[i].Nobs != par[i].Nobs || seq[i].Alpha != par[i].Alpha {
			t.Fatalf("result %d differs between sequential and parallel", i)
		}
	}
}

func TestRunSummaryFormatting(t *testing.T) {
	mom := 0.42
	res := models.RegressionResult{
		Ticker: "SPY", Alpha: 0.0012, BetaMkt: 0.98, BetaSMB: -0.12, BetaHML: 0.03, BetaMom: &mom,
	}
	want := "SPY: alpha=+0.0012, MKT=+0.98, SMB=-0.12, HML=+0.03, MOM=+0.42"
	if got := res.Summary(); got != want {
		t.Fatalf("summary: got %q want %q", got, want)
	}

	res.BetaMom = nil
	want = "SPY: alpha=+0.0012, MKT=+0.98, SMB=-0.12, HML=+0.03"
	if got := res.Summary(); got != want {
		t.Fatalf("summary: got %q want %q", got, want)
	}
}
