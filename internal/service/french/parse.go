package french

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"fmt"
	"math"
	"strconv"
	"strings"

	"FactorLab/internal/domain/models"
)

// ParseArchive extracts the first CSV member of a data-library zip archive
// and parses its monthly section into a RawSeries.
func ParseArchive(b []byte) (*models.RawSeries, error) {
	zr, err := zip.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}

	for _, f := range zr.File {
		if !strings.HasSuffix(strings.ToLower(f.Name), ".csv") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", f.Name, err)
		}
		defer rc.Close()

		var buf bytes.Buffer
		if _, err := buf.ReadFrom(rc); err != nil {
			return nil, fmt.Errorf("read %s: %w", f.Name, err)
		}
		return ParseCSV(buf.String())
	}
	return nil, fmt.Errorf("archive holds no csv member")
}

// ParseCSV parses a data-library CSV dump. The layout is a free-text
// preamble, a header line whose first cell is blank, then monthly rows keyed
// by a compact YYYYMM period. Parsing stops at the end of the monthly
// section (the annual section restates the data at a coarser grain).
func ParseCSV(text string) (*models.RawSeries, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	s := &models.RawSeries{}
	inBody := false
	for _, rec := range records {
		if len(rec) < 2 {
			if inBody {
				break
			}
			continue
		}
		first := strings.TrimSpace(rec[0])

		if !inBody {
			if first == "" && strings.TrimSpace(rec[1]) != "" {
				for _, c := range rec[1:] {
					s.Columns = append(s.Columns, strings.TrimSpace(c))
				}
				inBody = true
			}
			continue
		}

		if !isMonthlyPeriod(first) {
			break
		}

		values := make([]float64, len(s.Columns))
		for i := range values {
			values[i] = math.NaN()
			if i+1 < len(rec) {
				values[i] = parseValue(rec[i+1])
			}
		}
		s.Rows = append(s.Rows, models.RawRow{Index: first, Values: values})
	}

	if len(s.Columns) == 0 {
		return nil, fmt.Errorf("no header row found")
	}
	return s, nil
}

func isMonthlyPeriod(s string) bool {
	if len(s) != 6 {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// parseValue converts one cell to a float, mapping the library's missing
// value sentinels (-99.99, -999) and unparsable cells to NaN.
func parseValue(cell string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil {
		return math.NaN()
	}
	if v == -99.99 || v == -999 || v == -9999 {
		return math.NaN()
	}
	return v
}
