package repository

import (
	"context"

	"FactorLab/internal/domain/models"
)

// FactorSource fetches raw factor series from an external data provider.
type FactorSource interface {
	// Research fetches the primary 3-factor series. Failure is fatal to a run.
	Research(ctx context.Context) (*models.RawSeries, error)
	// Momentum fetches the momentum extension. Failure means "unavailable"
	// and downgrades the run to the 3-factor table.
	Momentum(ctx context.Context) (*models.RawSeries, error)
}

// FactorStore owns the canonical monthly factor table.
type FactorStore interface {
	Count(ctx context.Context) (int, error)
	// Replace drops any existing table and writes the full normalized table.
	Replace(ctx context.Context, table *models.FactorTable) error
	// Load reads rows with ym >= startYM, ordered by ym ascending.
	Load(ctx context.Context, startYM string) (*models.FactorTable, error)
}

// ReturnStore reads the upstream monthly return view. Read-only here.
type ReturnStore interface {
	// MonthlyReturns yields rows with ym >= startYM for the given tickers,
	// ordered by ym ascending.
	MonthlyReturns(ctx context.Context, startYM string, tickers []string) ([]models.ReturnRecord, error)
}

// ResultStore appends regression summary rows.
type ResultStore interface {
	Init(ctx context.Context) error
	Append(ctx context.Context, r *models.RegressionResult) error
	List(ctx context.Context, ticker string, limit int) ([]models.RegressionResult, error)
}

// ResultPublisher fans persisted results out to a message bus.
type ResultPublisher interface {
	Publish(ctx context.Context, r *models.RegressionResult) error
	Close() error
}

// Metrics records pipeline instrumentation.
type Metrics interface {
	RecordFactorRows(n int)
	RecordRegression(model string)
	RecordSkip(reason string)
	RecordR2(ticker string, r2 float64)
	RecordLatency(op string, seconds float64)
}
