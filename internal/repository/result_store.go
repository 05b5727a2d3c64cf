package repository

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	"FactorLab/internal/domain/models"
	applogger "FactorLab/pkg/logger"
)

const resultTable = "factor_reg_results"

// SQLResultStore appends regression summary rows.
type SQLResultStore struct {
	db      *sql.DB
	dialect Dialect
	l       *applogger.Logger
}

func NewSQLResultStore(db *sql.DB, dialect Dialect, l *applogger.Logger) *SQLResultStore {
	return &SQLResultStore{db: db, dialect: dialect, l: l}
}

func (s *SQLResultStore) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, resultDDL(s.dialect)); err != nil {
		return fmt.Errorf("create result table: %w", err)
	}
	return nil
}

func (s *SQLResultStore) Append(ctx context.Context, r *models.RegressionResult) error {
	q := fmt.Sprintf(`
        INSERT INTO %s (ticker, start_ym, end_ym, nobs, r2, alpha, beta_mkt, beta_smb, beta_hml, beta_mom)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `, resultTable)

	// An undefined fit quality is stored as NULL, not NaN.
	var r2 interface{}
	if !math.IsNaN(r.R2) {
		r2 = r.R2
	}

	if _, err := s.db.ExecContext(ctx, q,
		r.Ticker, r.StartYM, r.EndYM, r.Nobs, r2,
		r.Alpha, r.BetaMkt, r.BetaSMB, r.BetaHML, nullable(r.BetaMom),
	); err != nil {
		s.l.Error("result insert error",
			applogger.String("table", resultTable),
			applogger.String("ticker", r.Ticker),
			applogger.Error(err),
		)
		return fmt.Errorf("insert result: %w", err)
	}
	return nil
}

func (s *SQLResultStore) List(ctx context.Context, ticker string, limit int) ([]models.RegressionResult, error) {
	start := time.Now()
	q := fmt.Sprintf(
		"SELECT ticker, start_ym, end_ym, nobs, r2, alpha, beta_mkt, beta_smb, beta_hml, beta_mom FROM %s",
		resultTable)
	args := make([]interface{}, 0, 2)
	if ticker != "" {
		q += " WHERE ticker = ?"
		args = append(args, ticker)
	}
	q += " ORDER BY ticker ASC, start_ym ASC"
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	var out []models.RegressionResult
	for rows.Next() {
		var r models.RegressionResult
		var r2, mom sql.NullFloat64
		if err := rows.Scan(&r.Ticker, &r.StartYM, &r.EndYM, &r.Nobs, &r2,
			&r.Alpha, &r.BetaMkt, &r.BetaSMB, &r.BetaHML, &mom); err != nil {
			return nil, fmt.Errorf("scan result row: %w", err)
		}
		if r2.Valid {
			r.R2 = r2.Float64
		} else {
			r.R2 = math.NaN()
		}
		if mom.Valid {
			v := mom.Float64
			r.BetaMom = &v
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	s.l.Debug("results listed",
		applogger.Int("rows", len(out)),
		applogger.String("ticker", ticker),
		applogger.Duration("duration_ms", time.Since(start)),
	)
	return out, nil
}

func resultDDL(d Dialect) string {
	if d == DialectClickHouse {
		return fmt.Sprintf(`
        CREATE TABLE IF NOT EXISTS %s (
            ticker   String,
            start_ym String,
            end_ym   String,
            nobs     Int64,
            r2       Nullable(Float64),
            alpha    Float64,
            beta_mkt Float64,
            beta_smb Float64,
            beta_hml Float64,
            beta_mom Nullable(Float64)
        ) ENGINE = MergeTree ORDER BY (ticker, start_ym)
    `, resultTable)
	}
	return fmt.Sprintf(`
        CREATE TABLE IF NOT EXISTS %s (
            ticker   TEXT NOT NULL,
            start_ym TEXT NOT NULL,
            end_ym   TEXT NOT NULL,
            nobs     INTEGER NOT NULL,
            r2       REAL,
            alpha    REAL NOT NULL,
            beta_mkt REAL NOT NULL,
            beta_smb REAL NOT NULL,
            beta_hml REAL NOT NULL,
            beta_mom REAL
        )
    `, resultTable)
}
