package util

import (
    "strconv"
    "strings"
    "time"
)

// ParseYM converts a date-like string to a canonical "YYYY-MM" month key.
// Accepts month keys ("2020-01"), compact periods ("202001"), and full
// dates in common layouts. Returns ("", false) when nothing parses.
func ParseYM(s string) (string, bool) {
    s = strings.TrimSpace(s)
    if s == "" {
        return "", false
    }

    // Already a month key.
    if len(s) == 7 && s[4] == '-' {
        if validYM(s[:4], s[5:]) {
            return s, true
        }
        return "", false
    }

    // Compact period, e.g. "192607".
    if len(s) == 6 {
        if validYM(s[:4], s[4:]) {
            return s[:4] + "-" + s[4:], true
        }
    }

    // Full dates.
    for _, layout := range []string{"2006-01-02", "2006/01/02", "20060102", time.RFC3339} {
        if t, err := time.Parse(layout, s); err == nil {
            return MonthKey(t), true
        }
    }
    return "", false
}

// TruncateYM reduces a requested start date to its month key, tolerating
// both full dates and bare month keys. Falls back to def when invalid.
func TruncateYM(s, def string) string {
    if ym, ok := ParseYM(s); ok {
        return ym
    }
    return def
}

// MonthKey formats a time as "YYYY-MM".
func MonthKey(t time.Time) string {
    return t.Format("2006-01")
}

func validYM(year, month string) bool {
    y, err := strconv.Atoi(year)
    if err != nil || y < 1900 || y > 2200 {
        return false
    }
    m, err := strconv.Atoi(month)
    return err == nil && m >= 1 && m <= 12
}
