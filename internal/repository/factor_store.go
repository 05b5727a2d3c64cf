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

// Dialect selects the SQL flavor for DDL. Placeholders are `?` in both.
type Dialect string

const (
	DialectSQLite     Dialect = "sqlite"
	DialectClickHouse Dialect = "clickhouse"
)

const factorTable = "factors_monthly"

// SQLFactorStore owns the canonical monthly factor table.
type SQLFactorStore struct {
	db      *sql.DB
	dialect Dialect
	l       *applogger.Logger
}

func NewSQLFactorStore(db *sql.DB, dialect Dialect, l *applogger.Logger) *SQLFactorStore {
	return &SQLFactorStore{db: db, dialect: dialect, l: l}
}

func (s *SQLFactorStore) Count(ctx context.Context) (int, error) {
	var n int
	q := fmt.Sprintf("SELECT COUNT(*) FROM %s", factorTable)
	if err := s.db.QueryRowContext(ctx, q).Scan(&n); err != nil {
		return 0, fmt.Errorf("count factors: %w", err)
	}
	return n, nil
}

func (s *SQLFactorStore) Replace(ctx context.Context, table *models.FactorTable) error {
	start := time.Now()

	if _, err := s.db.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", factorTable)); err != nil {
		return fmt.Errorf("drop factor table: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, factorDDL(s.dialect)); err != nil {
		return fmt.Errorf("create factor table: %w", err)
	}

	// Multi-row VALUES inserts in chunks to reduce round-trips.
	const chunkSize = 500
	rows := table.Rows
	for lo := 0; lo < len(rows); lo += chunkSize {
		hi := lo + chunkSize
		if hi > len(rows) {
			hi = len(rows)
		}

		values := make([]string, 0, hi-lo)
		args := make([]interface{}, 0, (hi-lo)*6)
		for _, r := range rows[lo:hi] {
			values = append(values, "(?, ?, ?, ?, ?, ?)")
			args = append(args, r.YM, r.MktRF, r.SMB, r.HML, r.RF, nullable(r.Mom))
		}
		q := fmt.Sprintf("INSERT INTO %s (ym, mkt_rf, smb, hml, rf, mom) VALUES %s",
			factorTable, strings.Join(values, ","))
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			s.l.Error("factor insert error",
				applogger.String("table", factorTable),
				applogger.Int("offset", lo),
				applogger.Error(err),
			)
			return fmt.Errorf("insert factors: %w", err)
		}
	}

	s.l.Info("factor table replaced",
		applogger.String("table", factorTable),
		applogger.Int("rows", len(rows)),
		applogger.Bool("momentum", table.HasMomentum),
		applogger.Duration("duration_ms", time.Since(start)),
	)
	return nil
}

func (s *SQLFactorStore) Load(ctx context.Context, startYM string) (*models.FactorTable, error) {
	q := fmt.Sprintf(
		"SELECT ym, mkt_rf, smb, hml, rf, mom FROM %s WHERE ym >= ? ORDER BY ym ASC",
		factorTable)
	rows, err := s.db.QueryContext(ctx, q, startYM)
	if err != nil {
		return nil, fmt.Errorf("load factors: %w", err)
	}
	defer rows.Close()

	table := &models.FactorTable{}
	for rows.Next() {
		var r models.FactorRecord
		var mom sql.NullFloat64
		if err := rows.Scan(&r.YM, &r.MktRF, &r.SMB, &r.HML, &r.RF, &mom); err != nil {
			return nil, fmt.Errorf("scan factor row: %w", err)
		}
		if mom.Valid {
			v := mom.Float64
			r.Mom = &v
			table.HasMomentum = true
		}
		table.Rows = append(table.Rows, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return table, nil
}

func factorDDL(d Dialect) string {
	if d == DialectClickHouse {
		return fmt.Sprintf(`
        CREATE TABLE %s (
            ym     String,
            mkt_rf Float64,
            smb    Float64,
            hml    Float64,
            rf     Float64,
            mom    Nullable(Float64)
        ) ENGINE = MergeTree ORDER BY ym
    `, factorTable)
	}
	return fmt.Sprintf(`
        CREATE TABLE %s (
            ym     TEXT PRIMARY KEY,
            mkt_rf REAL NOT NULL,
            smb    REAL NOT NULL,
            hml    REAL NOT NULL,
            rf     REAL NOT NULL,
            mom    REAL
        )
    `, factorTable)
}

func nullable(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
