package factors

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"FactorLab/internal/domain/models"
	"FactorLab/pkg/util"
)

// canonical maps provider column names (whitespace already trimmed) to
// canonical factor names.
var canonical = map[string]string{
	"Mkt-RF": "mkt_rf",
	"SMB":    "smb",
	"HML":    "hml",
	"RF":     "rf",
	"Mom":    "mom",
}

// Normalize converts the raw research series (plus an optional momentum
// series; nil means unavailable) into the canonical monthly factor table:
// month keys in "YYYY-MM" form, percentage points divided by 100, momentum
// left-joined on the month key. Rows before startYM or with a missing
// required value are dropped; rows with an unparseable index are dropped.
func Normalize(research, momentum *models.RawSeries, startYM string) (*models.FactorTable, error) {
	if research == nil || len(research.Rows) == 0 {
		return nil, fmt.Errorf("research series is empty")
	}

	cols := canonicalColumns(research)
	required := []string{"mkt_rf", "smb", "hml", "rf"}
	for _, name := range required {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("research series lacks column %q", name)
		}
	}

	var mom map[string]float64
	if momentum != nil {
		mom = momentumByYM(momentum)
	}

	table := &models.FactorTable{HasMomentum: mom != nil}
	seen := make(map[string]bool, len(research.Rows))
	for _, row := range research.Rows {
		ym, ok := util.ParseYM(row.Index)
		if !ok || ym < startYM || seen[ym] {
			continue
		}

		rec := models.FactorRecord{
			YM:    ym,
			MktRF: fraction(row.Values, cols["mkt_rf"]),
			SMB:   fraction(row.Values, cols["smb"]),
			HML:   fraction(row.Values, cols["hml"]),
			RF:    fraction(row.Values, cols["rf"]),
		}
		if math.IsNaN(rec.MktRF) || math.IsNaN(rec.SMB) || math.IsNaN(rec.HML) || math.IsNaN(rec.RF) {
			continue
		}
		if mom != nil {
			if v, ok := mom[ym]; ok {
				m := v
				rec.Mom = &m
			}
		}

		seen[ym] = true
		table.Rows = append(table.Rows, rec)
	}

	sort.Slice(table.Rows, func(i, j int) bool {
		return table.Rows[i].YM < table.Rows[j].YM
	})
	return table, nil
}

func canonicalColumns(s *models.RawSeries) map[string]int {
	cols := make(map[string]int, len(s.Columns))
	for i, raw := range s.Columns {
		name := strings.TrimSpace(raw)
		if canon, ok := canonical[name]; ok {
			cols[canon] = i
		}
	}
	return cols
}

func momentumByYM(s *models.RawSeries) map[string]float64 {
	idx := -1
	for i, raw := range s.Columns {
		if strings.TrimSpace(raw) == "Mom" {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}

	out := make(map[string]float64, len(s.Rows))
	for _, row := range s.Rows {
		ym, ok := util.ParseYM(row.Index)
		if !ok {
			continue
		}
		v := fraction(row.Values, idx)
		if math.IsNaN(v) {
			continue
		}
		out[ym] = v
	}
	return out
}

// fraction converts a percentage-point cell to a decimal fraction.
func fraction(values []float64, i int) float64 {
	if i < 0 || i >= len(values) {
		return math.NaN()
	}
	return values[i] / 100.0
}
