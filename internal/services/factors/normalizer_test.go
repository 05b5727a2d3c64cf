package factors

import (
	"math"
	"testing"

	"FactorLab/internal/domain/models"
)

func researchSeries() *models.RawSeries {
	return &models.RawSeries{
		Columns: []string{"Mkt-RF", "SMB", "HML", "RF"},
		Rows: []models.RawRow{
			{Index: "201912", Values: []float64{2.77, 0.69, 1.77, 0.14}},
			{Index: "202001", Values: []float64{-0.11, -3.11, -6.27, 0.13}},
			{Index: "202002", Values: []float64{-8.13, 0.96, -4.01, 0.12}},
			{Index: "202003", Values: []float64{-13.39, math.NaN(), -14.12, 0.12}},
		},
	}
}

func TestNormalizeUnitConversion(t *testing.T) {
	table, err := Normalize(researchSeries(), nil, "2020-01")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if table.Rows[0].MktRF != -0.11/100.0 {
		t.Fatalf("expected decimal fraction, got %v", table.Rows[0].MktRF)
	}
	if table.Rows[0].RF != 0.13/100.0 {
		t.Fatalf("expected decimal fraction, got %v", table.Rows[0].RF)
	}
}

func TestNormalizeStartFilterAndDropna(t *testing.T) {
	table, err := Normalize(researchSeries(), nil, "2020-01")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	// 201912 is before the start, 202003 has a missing SMB
	if len(table.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(table.Rows))
	}
	if table.Rows[0].YM != "2020-01" || table.Rows[1].YM != "2020-02" {
		t.Fatalf("unexpected keys %q %q", table.Rows[0].YM, table.Rows[1].YM)
	}
}

func TestNormalizeWhitespaceColumns(t *testing.T) {
	s := researchSeries()
	s.Columns = []string{" Mkt-RF ", "SMB", "HML", "RF "}
	table, err := Normalize(s, nil, "2020-01")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if len(table.Rows) == 0 {
		t.Fatalf("expected rows with padded column names")
	}
}

func TestNormalizeMomentumJoin(t *testing.T) {
	mom := &models.RawSeries{
		Columns: []string{"Mom   "},
		Rows: []models.RawRow{
			{Index: "202001", Values: []float64{1.50}},
			// 202002 missing: left join leaves the row without momentum
		},
	}
	table, err := Normalize(researchSeries(), mom, "2020-01")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if !table.HasMomentum {
		t.Fatalf("expected momentum table")
	}
	if table.Rows[0].Mom == nil || *table.Rows[0].Mom != 0.015 {
		t.Fatalf("unexpected momentum %v", table.Rows[0].Mom)
	}
	if table.Rows[1].Mom != nil {
		t.Fatalf("expected missing momentum for 2020-02")
	}
}

func TestNormalizeWithoutMomentum(t *testing.T) {
	table, err := Normalize(researchSeries(), nil, "2020-01")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if table.HasMomentum {
		t.Fatalf("expected 3-factor table")
	}
}

func TestNormalizeDeduplicatesMonths(t *testing.T) {
	s := researchSeries()
	s.Rows = append(s.Rows, models.RawRow{Index: "202001", Values: []float64{9.99, 9.99, 9.99, 9.99}})
	table, err := Normalize(s, nil, "2020-01")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	count := 0
	for _, r := range table.Rows {
		if r.YM == "2020-01" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected unique month keys, got %d of 2020-01", count)
	}
}

func TestNormalizeUnparseableIndexDropped(t *testing.T) {
	s := researchSeries()
	s.Rows = append(s.Rows, models.RawRow{Index: "Copyright 2020", Values: []float64{1, 1, 1, 1}})
	table, err := Normalize(s, nil, "2020-01")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	for _, r := range table.Rows {
		if r.YM == "" {
			t.Fatalf("unparseable index leaked into table")
		}
	}
	if len(table.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(table.Rows))
	}
}

func TestNormalizeMissingRequiredColumn(t *testing.T) {
	s := &models.RawSeries{
		Columns: []string{"Mkt-RF", "SMB"},
		Rows:    []models.RawRow{{Index: "202001", Values: []float64{1, 1}}},
	}
	if _, err := Normalize(s, nil, "2020-01"); err == nil {
		t.Fatalf("expected error for missing required column")
	}
}
