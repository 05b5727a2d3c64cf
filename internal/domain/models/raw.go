package models

// RawSeries is a provider-shaped tabular series: named value columns over a
// date-like index whose format is not yet canonical. Missing values are NaN.
type RawSeries struct {
	Columns []string
	Rows    []RawRow
}

// RawRow is one raw observation.
type RawRow struct {
	Index  string
	Values []float64
}

// Column returns the position of a named column, or -1.
func (s *RawSeries) Column(name string) int {
	for i, c := range s.Columns {
		if c == name {
			return i
		}
	}
	return -1
}
