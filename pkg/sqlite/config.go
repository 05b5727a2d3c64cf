package sqlite

import "time"

// ClientConfig holds SQLite connection settings.
type ClientConfig struct {
	Path        string
	BusyTimeout time.Duration
}

// ClientOption configures the client.
type ClientOption func(*ClientConfig)

// WithPath sets the database file path.
func WithPath(path string) ClientOption {
	return func(c *ClientConfig) {
		c.Path = path
	}
}

// WithBusyTimeout sets the lock wait timeout.
func WithBusyTimeout(d time.Duration) ClientOption {
	return func(c *ClientConfig) {
		if d > 0 {
			c.BusyTimeout = d
		}
	}
}
