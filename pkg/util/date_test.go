package util

import (
    "testing"
    "time"
)

func TestParseYMMonthKey(t *testing.T) {
    got, ok := ParseYM("2020-06")
    if !ok {
        t.Fatalf("expected ok")
    }
    if got != "2020-06" {
        t.Fatalf("unexpected ym %q", got)
    }
}

func TestParseYMCompactPeriod(t *testing.T) {
    got, ok := ParseYM("192607")
    if !ok {
        t.Fatalf("expected ok")
    }
    if got != "1926-07" {
        t.Fatalf("unexpected ym %q", got)
    }
}

func TestParseYMFullDate(t *testing.T) {
    got, ok := ParseYM("2015-01-31")
    if !ok {
        t.Fatalf("expected ok")
    }
    if got != "2015-01" {
        t.Fatalf("unexpected ym %q", got)
    }
}

func TestParseYMWhitespace(t *testing.T) {
    got, ok := ParseYM("  202012 ")
    if !ok {
        t.Fatalf("expected ok")
    }
    if got != "2020-12" {
        t.Fatalf("unexpected ym %q", got)
    }
}

func TestParseYMGarbage(t *testing.T) {
    for _, s := range []string{"", "copyright", "2020-13", "999901", "20-01"} {
        if _, ok := ParseYM(s); ok {
            t.Fatalf("expected failure for %q", s)
        }
    }
}

func TestTruncateYMDefault(t *testing.T) {
    if got := TruncateYM("not-a-date", "2010-01"); got != "2010-01" {
        t.Fatalf("expected default, got %q", got)
    }
    if got := TruncateYM("2015-01-01", ""); got != "2015-01" {
        t.Fatalf("expected truncation, got %q", got)
    }
}

func TestMonthKey(t *testing.T) {
    ts := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC)
    if got := MonthKey(ts); got != "2024-10" {
        t.Fatalf("unexpected key %q", got)
    }
}
