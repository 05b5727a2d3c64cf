package di

import (
	"context"
	"fmt"
	"time"

	drepo "FactorLab/internal/domain/repository"
	"FactorLab/internal/handler/api"
	internalrepo "FactorLab/internal/repository"
	"FactorLab/internal/service/french"
	"FactorLab/internal/usecase"
	"FactorLab/pkg/cache"
	pkgch "FactorLab/pkg/clickhouse"
	"FactorLab/pkg/config"
	xhttp "FactorLab/pkg/http"
	pkgkafka "FactorLab/pkg/kafka"
	applogger "FactorLab/pkg/logger"
	"FactorLab/pkg/metrics"
	"FactorLab/pkg/server"
	"FactorLab/pkg/sqlite"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() drepo.Metrics {
	return metrics.New()
}

// ProvideStorage opens the storage backend selected by config.
func ProvideStorage(cfg *config.Config) (*internalrepo.Storage, error) {
	switch cfg.Storage.Driver {
	case "clickhouse":
		client, err := pkgch.NewClient(
			pkgch.WithHost(cfg.Storage.ClickHouse.Host),
			pkgch.WithPort(cfg.Storage.ClickHouse.Port),
			pkgch.WithDatabase(cfg.Storage.ClickHouse.Database),
			pkgch.WithCredentials(cfg.Storage.ClickHouse.User, cfg.Storage.ClickHouse.Password),
			pkgch.WithTimeouts(cfg.Storage.ClickHouse.DialTimeout, cfg.Storage.ClickHouse.ReadTimeout),
			pkgch.WithMaxExecutionTime(cfg.Storage.ClickHouse.MaxExecutionTime),
		)
		if err != nil {
			return nil, fmt.Errorf("clickhouse client: %w", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := client.InitSchema(ctx, []string{
			fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", cfg.Storage.ClickHouse.Database),
		}); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("clickhouse schema: %w", err)
		}
		return &internalrepo.Storage{Client: client, Dialect: internalrepo.DialectClickHouse}, nil

	default:
		client, err := sqlite.NewClient(
			sqlite.WithPath(cfg.Storage.SQLite.Path),
			sqlite.WithBusyTimeout(cfg.Storage.SQLite.BusyTimeout),
		)
		if err != nil {
			return nil, fmt.Errorf("sqlite client: %w", err)
		}
		return &internalrepo.Storage{Client: client, Dialect: internalrepo.DialectSQLite}, nil
	}
}

// ProvideCache builds the factor download cache. A local in-memory tier is
// always present; Redis adds a shared tier when enabled.
func ProvideCache(cfg *config.Config, l *applogger.Logger) (cache.Service, error) {
	local := cache.NewMemoryCache()
	if !cfg.DataSource.Cache.Redis.Enabled {
		return local, nil
	}

	shared, err := cache.NewRedisCache(
		cfg.DataSource.Cache.Redis.Addr,
		cfg.DataSource.Cache.Redis.Password,
		cfg.DataSource.Cache.Redis.DB,
	)
	if err != nil {
		l.Warn("redis unavailable, falling back to in-memory cache", applogger.Error(err))
		return local, nil
	}
	return cache.NewLayeredCache(local, shared), nil
}

// ProvideFactorSource creates the remote factor data client.
func ProvideFactorSource(cfg *config.Config, c cache.Service, l *applogger.Logger) drepo.FactorSource {
	return french.New(
		cfg.DataSource.BaseURL,
		cfg.DataSource.ResearchSeries,
		cfg.DataSource.MomentumSeries,
		cfg.DataSource.Timeout,
		cfg.DataSource.Cache.TTL,
		c, l,
	)
}

// ProvideFactorStore creates the canonical factor table repository.
func ProvideFactorStore(st *internalrepo.Storage, l *applogger.Logger) drepo.FactorStore {
	return internalrepo.NewSQLFactorStore(st.Client.DB(), st.Dialect, l)
}

// ProvideReturnStore creates the monthly return view reader.
func ProvideReturnStore(st *internalrepo.Storage, l *applogger.Logger) drepo.ReturnStore {
	return internalrepo.NewSQLReturnStore(st.Client.DB(), l)
}

// ProvideResultStore creates the regression result repository.
func ProvideResultStore(st *internalrepo.Storage, l *applogger.Logger) drepo.ResultStore {
	return internalrepo.NewSQLResultStore(st.Client.DB(), st.Dialect, l)
}

// ProvideResultPublisher creates the Kafka result publisher, or nil when
// publishing is disabled.
func ProvideResultPublisher(cfg *config.Config) (drepo.ResultPublisher, error) {
	if !cfg.Publish.Enabled {
		return nil, nil
	}

	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Publish.Kafka.Brokers),
		pkgkafka.WithRequiredAcks(cfg.Publish.Kafka.RequiredAcks),
		pkgkafka.WithCompression(cfg.Publish.Kafka.Compression),
		pkgkafka.WithWriteTimeout(cfg.Publish.Kafka.WriteTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return internalrepo.NewKafkaPublisher(producer, cfg.Publish.Kafka.Topic), nil
}

// ProvideProvisioner creates the factor provisioning use case.
func ProvideProvisioner(source drepo.FactorSource, store drepo.FactorStore, m drepo.Metrics, l *applogger.Logger) *usecase.FactorProvisioner {
	return usecase.NewFactorProvisioner(source, store, m, l)
}

// ProvideRunner creates the batch regression use case.
func ProvideRunner(
	prov *usecase.FactorProvisioner,
	factors drepo.FactorStore,
	returns drepo.ReturnStore,
	results drepo.ResultStore,
	pub drepo.ResultPublisher,
	m drepo.Metrics,
	l *applogger.Logger,
) *usecase.Runner {
	return usecase.NewRunner(prov, factors, returns, results, pub, m, l)
}

// ProvideHandler creates the HTTP API handler.
func ProvideHandler(l *applogger.Logger, results drepo.ResultStore, factors drepo.FactorStore, st *internalrepo.Storage) xhttp.Handler {
	return api.NewResultsHandler(l, results, factors, st.Client)
}

// ProvideApp assembles the application.
func ProvideApp(
	cfg *config.Config,
	runner *usecase.Runner,
	handler xhttp.Handler,
	st *internalrepo.Storage,
	c cache.Service,
	pub drepo.ResultPublisher,
	l *applogger.Logger,
) *server.App {
	return server.New(cfg, runner, handler, st, c, pub, l)
}
