package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"FactorLab/internal/domain/models"
	applogger "FactorLab/pkg/logger"
)

const returnView = "vw_monthly_returns"

// SQLReturnStore reads the monthly return view maintained by the upstream
// ingest pipeline. This side never writes to it.
type SQLReturnStore struct {
	db *sql.DB
	l  *applogger.Logger
}

func NewSQLReturnStore(db *sql.DB, l *applogger.Logger) *SQLReturnStore {
	return &SQLReturnStore{db: db, l: l}
}

func (s *SQLReturnStore) MonthlyReturns(ctx context.Context, startYM string, tickers []string) ([]models.ReturnRecord, error) {
	start := time.Now()
	if len(tickers) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?,", len(tickers))
	placeholders = placeholders[:len(placeholders)-1]
	q := fmt.Sprintf(
		"SELECT ticker, ym, mret FROM %s WHERE ym >= ? AND ticker IN (%s) ORDER BY ym ASC",
		returnView, placeholders)

	args := make([]interface{}, 0, len(tickers)+1)
	args = append(args, startYM)
	for _, t := range tickers {
		args = append(args, t)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		s.l.Error("return view query error",
			applogger.String("view", returnView),
			applogger.String("start_ym", startYM),
			applogger.Error(err),
		)
		return nil, fmt.Errorf("query monthly returns: %w", err)
	}
	defer rows.Close()

	var out []models.ReturnRecord
	for rows.Next() {
		var r models.ReturnRecord
		var mret sql.NullFloat64
		if err := rows.Scan(&r.Ticker, &r.YM, &mret); err != nil {
			return nil, fmt.Errorf("scan return row: %w", err)
		}
		if !mret.Valid {
			continue
		}
		r.Mret = mret.Float64
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	s.l.Debug("monthly returns loaded",
		applogger.Int("rows", len(out)),
		applogger.Int("tickers", len(tickers)),
		applogger.Duration("duration_ms", time.Since(start)),
	)
	return out, nil
}
