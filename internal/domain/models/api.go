package models

import "math"

// ResultsRequest filters persisted regression rows.
type ResultsRequest struct {
	Ticker string `query:"ticker"`
	Limit  int    `query:"limit" default:"50" validate:"gte=0,lte=500"`
}

// FactorsRequest filters the canonical factor table.
type FactorsRequest struct {
	Start string `query:"start"`
}

// ResultRow is the JSON shape of one regression summary row. R2 is null when
// undefined, BetaMom is null under the 3-factor model.
type ResultRow struct {
	Ticker  string   `json:"ticker"`
	StartYM string   `json:"start_ym"`
	EndYM   string   `json:"end_ym"`
	Nobs    int      `json:"nobs"`
	R2      *float64 `json:"r2"`
	Alpha   float64  `json:"alpha"`
	BetaMkt float64  `json:"beta_mkt"`
	BetaSMB float64  `json:"beta_smb"`
	BetaHML float64  `json:"beta_hml"`
	BetaMom *float64 `json:"beta_mom"`
}

// ToResultRow converts a domain result into its JSON shape.
func ToResultRow(r *RegressionResult) ResultRow {
	row := ResultRow{
		Ticker:  r.Ticker,
		StartYM: r.StartYM,
		EndYM:   r.EndYM,
		Nobs:    r.Nobs,
		Alpha:   r.Alpha,
		BetaMkt: r.BetaMkt,
		BetaSMB: r.BetaSMB,
		BetaHML: r.BetaHML,
		BetaMom: r.BetaMom,
	}
	if !math.IsNaN(r.R2) {
		r2 := r.R2
		row.R2 = &r2
	}
	return row
}

// FactorRow is the JSON shape of one canonical factor record.
type FactorRow struct {
	YM    string   `json:"ym"`
	MktRF float64  `json:"mkt_rf"`
	SMB   float64  `json:"smb"`
	HML   float64  `json:"hml"`
	RF    float64  `json:"rf"`
	Mom   *float64 `json:"mom,omitempty"`
}
