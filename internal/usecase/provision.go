package usecase

import (
	"context"
	"fmt"
	"time"

	drepo "FactorLab/internal/domain/repository"
	"FactorLab/internal/services/factors"
	applogger "FactorLab/pkg/logger"
)

// FactorProvisioner idempotently ensures the canonical monthly factor table
// exists in the store. Once the table is non-empty it is never refreshed,
// even for a wider requested range.
type FactorProvisioner struct {
	source  drepo.FactorSource
	store   drepo.FactorStore
	metrics drepo.Metrics
	l       *applogger.Logger
}

func NewFactorProvisioner(source drepo.FactorSource, store drepo.FactorStore, metrics drepo.Metrics, l *applogger.Logger) *FactorProvisioner {
	return &FactorProvisioner{source: source, store: store, metrics: metrics, l: l}
}

// Ensure provisions the factor table if it is absent or empty.
func (p *FactorProvisioner) Ensure(ctx context.Context, startYM string) error {
	start := time.Now()

	n, err := p.store.Count(ctx)
	if err != nil {
		// table likely absent; provision from scratch
		n = 0
	}
	if n > 0 {
		p.l.Debug("factor table already provisioned", applogger.Int("rows", n))
		p.metrics.RecordFactorRows(n)
		return nil
	}

	research, err := p.source.Research(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", drepo.ErrSourceUnavailable, err)
	}

	momentum, err := p.source.Momentum(ctx)
	if err != nil {
		p.l.Warn("momentum series unavailable, using 3-factor table", applogger.Error(err))
		momentum = nil
	}

	table, err := factors.Normalize(research, momentum, startYM)
	if err != nil {
		return fmt.Errorf("normalize factors: %w", err)
	}
	if table.Empty() {
		return drepo.ErrNoFactors
	}

	if err := p.store.Replace(ctx, table); err != nil {
		return fmt.Errorf("write factor table: %w", err)
	}

	p.metrics.RecordFactorRows(len(table.Rows))
	p.metrics.RecordLatency("provision", time.Since(start).Seconds())
	p.l.Info("factor table provisioned",
		applogger.Int("rows", len(table.Rows)),
		applogger.Bool("momentum", table.HasMomentum),
		applogger.String("start_ym", startYM),
		applogger.Duration("duration_ms", time.Since(start)),
	)
	return nil
}
