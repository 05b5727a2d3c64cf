package french

import (
	"context"
	"fmt"
	"time"

	"FactorLab/internal/domain/models"
	drepo "FactorLab/internal/domain/repository"
	"FactorLab/pkg/cache"
	xhttp "FactorLab/pkg/http"
	applogger "FactorLab/pkg/logger"
)

// Client implements FactorSource against the Ken French data library, which
// serves each series as a zipped CSV archive.
type Client struct {
	baseURL        string
	researchSeries string
	momentumSeries string
	cacheTTL       time.Duration

	http  *xhttp.Client
	cache cache.Service
	l     *applogger.Logger
}

// New creates a data-library client. cache may be nil to disable caching.
func New(baseURL, researchSeries, momentumSeries string, timeout, cacheTTL time.Duration, c cache.Service, l *applogger.Logger) drepo.FactorSource {
	return &Client{
		baseURL:        baseURL,
		researchSeries: researchSeries,
		momentumSeries: momentumSeries,
		cacheTTL:       cacheTTL,
		http:           xhttp.NewClient(xhttp.WithTimeout(timeout)),
		cache:          c,
		l:              l,
	}
}

// Research fetches the primary 3-factor series.
func (c *Client) Research(ctx context.Context) (*models.RawSeries, error) {
	return c.series(ctx, c.researchSeries)
}

// Momentum fetches the momentum factor series.
func (c *Client) Momentum(ctx context.Context) (*models.RawSeries, error) {
	return c.series(ctx, c.momentumSeries)
}

func (c *Client) series(ctx context.Context, name string) (*models.RawSeries, error) {
	b, err := c.fetch(ctx, name)
	if err != nil {
		return nil, err
	}

	s, err := ParseArchive(b)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	if c.l != nil {
		c.l.Info("factor series fetched",
			applogger.String("series", name),
			applogger.Int("rows", len(s.Rows)),
			applogger.Strings("columns", s.Columns),
		)
	}
	return s, nil
}

func (c *Client) fetch(ctx context.Context, name string) ([]byte, error) {
	key := "french:" + name

	if c.cache != nil {
		if b, err := c.cache.Get(ctx, key); err == nil {
			return b, nil
		}
	}

	var body []byte
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    fmt.Sprintf("%s/%s_CSV.zip", c.baseURL, name),
	}, &body)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", name, err)
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, key, body, c.cacheTTL); err != nil && c.l != nil {
			c.l.Warn("cache write failed", applogger.String("series", name), applogger.Error(err))
		}
	}
	return body, nil
}
