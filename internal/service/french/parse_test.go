package french

import (
	"archive/zip"
	"bytes"
	"math"
	"testing"
)

const sampleCSV = `This file was created by CMPT_ME_BEME_RETS using the 202012 CRSP database.
The 1-month TBill return is from Ibbotson and Associates Inc.

,Mkt-RF,SMB,HML,RF
202001,-0.11,-3.11,-6.27,0.13
202002,-8.13,0.96,-4.01,0.12
202003,-13.39,-99.99,-14.12,0.12

 Annual Factors: January-December
,Mkt-RF,SMB,HML,RF
2020,23.66,13.18,-46.58,0.45
`

func TestParseCSVMonthlySection(t *testing.T) {
	s, err := ParseCSV(sampleCSV)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	want := []string{"Mkt-RF", "SMB", "HML", "RF"}
	if len(s.Columns) != len(want) {
		t.Fatalf("unexpected columns %v", s.Columns)
	}
	for i, c := range want {
		if s.Columns[i] != c {
			t.Fatalf("column %d: got %q want %q", i, s.Columns[i], c)
		}
	}

	// annual section must be excluded
	if len(s.Rows) != 3 {
		t.Fatalf("expected 3 monthly rows, got %d", len(s.Rows))
	}
	if s.Rows[0].Index != "202001" {
		t.Fatalf("unexpected index %q", s.Rows[0].Index)
	}
	if s.Rows[1].Values[0] != -8.13 {
		t.Fatalf("unexpected value %v", s.Rows[1].Values[0])
	}
}

func TestParseCSVMissingSentinel(t *testing.T) {
	s, err := ParseCSV(sampleCSV)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !math.IsNaN(s.Rows[2].Values[1]) {
		t.Fatalf("expected NaN for -99.99 sentinel, got %v", s.Rows[2].Values[1])
	}
}

func TestParseCSVNoHeader(t *testing.T) {
	if _, err := ParseCSV("just,some,noise\n1,2,3\n"); err == nil {
		t.Fatalf("expected error for headerless input")
	}
}

func TestParseArchive(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("F-F_Research_Data_Factors.CSV")
	if err != nil {
		t.Fatalf("create member: %v", err)
	}
	if _, err := w.Write([]byte(sampleCSV)); err != nil {
		t.Fatalf("write member: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}

	s, err := ParseArchive(buf.Bytes())
	if err != nil {
		t.Fatalf("parse archive: %v", err)
	}
	if len(s.Rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(s.Rows))
	}
}

func TestParseArchiveNotZip(t *testing.T) {
	if _, err := ParseArchive([]byte("not a zip")); err == nil {
		t.Fatalf("expected error for invalid archive")
	}
}
