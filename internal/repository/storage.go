package repository

import (
	"context"
	"database/sql"
)

// Client is the shared surface of the sqlite and clickhouse storage clients.
type Client interface {
	DB() *sql.DB
	Health(ctx context.Context) error
	InitSchema(ctx context.Context, stmts []string) error
	Close() error
}

// Storage bundles an open storage client with its SQL dialect.
type Storage struct {
	Client  Client
	Dialect Dialect
}
