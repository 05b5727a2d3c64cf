package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"FactorLab/internal/domain/models"
	drepo "FactorLab/internal/domain/repository"
)

func rawResearch(months int) *models.RawSeries {
	s := &models.RawSeries{Columns: []string{"Mkt-RF", "SMB", "HML", "RF"}}
	for m := 1; m <= months; m++ {
		s.Rows = append(s.Rows, models.RawRow{
			Index:  fmt.Sprintf("2020%02d", m),
			Values: []float64{1.0 + float64(m)*0.1, 0.2, -0.1, 0.05},
		})
	}
	return s
}

func rawMomentum(months int) *models.RawSeries {
	s := &models.RawSeries{Columns: []string{"Mom"}}
	for m := 1; m <= months; m++ {
		s.Rows = append(s.Rows, models.RawRow{
			Index:  fmt.Sprintf("2020%02d", m),
			Values: []float64{0.5 + float64(m)*0.01},
		})
	}
	return s
}

func TestEnsureProvisionsOnce(t *testing.T) {
	src := &fakeSource{research: rawResearch(12), momentum: rawMomentum(12)}
	store := &fakeFactorStore{}
	prov := NewFactorProvisioner(src, store, nopMetrics{}, testLogger(t))

	if err := prov.Ensure(context.Background(), "2020-01"); err != nil {
		t.Fatalf("first ensure: %v", err)
	}
	if store.replaces != 1 {
		t.Fatalf("expected one replace, got %d", store.replaces)
	}
	if len(store.table.Rows) != 12 {
		t.Fatalf("row count: got %d want 12", len(store.table.Rows))
	}
	if !store.table.HasMomentum {
		t.Fatalf("expected momentum column to be present")
	}

	// Second call is a no-op: no fetch, no replace, even for a wider range.
	if err := prov.Ensure(context.Background(), "2010-01"); err != nil {
		t.Fatalf("second ensure: %v", err)
	}
	if src.fetches != 1 {
		t.Fatalf("expected no second fetch, got %d fetches", src.fetches)
	}
	if store.replaces != 1 {
		t.Fatalf("store must not be refreshed once populated")
	}
}

func TestEnsureMomentumDowngrade(t *testing.T) {
	src := &fakeSource{research: rawResearch(12), momentumErr: errors.New("404 not found")}
	store := &fakeFactorStore{}
	prov := NewFactorProvisioner(src, store, nopMetrics{}, testLogger(t))

	if err := prov.Ensure(context.Background(), "2020-01"); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if store.table.HasMomentum {
		t.Fatalf("expected 3-factor table after momentum fetch failure")
	}
	for _, r := range store.table.Rows {
		if r.Mom != nil {
			t.Fatalf("row %s carries momentum despite downgrade", r.YM)
		}
	}
}

func TestEnsureSourceUnavailable(t *testing.T) {
	src := &fakeSource{researchErr: errors.New("dial tcp: connection refused")}
	store := &fakeFactorStore{}
	prov := NewFactorProvisioner(src, store, nopMetrics{}, testLogger(t))

	err := prov.Ensure(context.Background(), "2020-01")
	if !errors.Is(err, drepo.ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
	if store.replaces != 0 {
		t.Fatalf("store must stay untouched on source failure")
	}
}

func TestEnsureEmptyNormalizedTable(t *testing.T) {
	// Everything before the requested start gets filtered away.
	src := &fakeSource{research: rawResearch(12)}
	store := &fakeFactorStore{}
	prov := NewFactorProvisioner(src, store, nopMetrics{}, testLogger(t))

	err := prov.Ensure(context.Background(), "2025-01")
	if !errors.Is(err, drepo.ErrNoFactors) {
		t.Fatalf("expected ErrNoFactors, got %v", err)
	}
}

func TestEnsureUnitConversion(t *testing.T) {
	src := &fakeSource{research: rawResearch(1)}
	store := &fakeFactorStore{}
	prov := NewFactorProvisioner(src, store, nopMetrics{}, testLogger(t))

	if err := prov.Ensure(context.Background(), "2020-01"); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	got := store.table.Rows[0].MktRF
	if math.Abs(got-0.011) > 1e-12 {
		t.Fatalf("mkt_rf: got %v want 0.011 (percent to decimal)", got)
	}
}
