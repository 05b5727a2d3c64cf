package api

import (
	"context"

	models "FactorLab/internal/domain/models"
	domrepo "FactorLab/internal/domain/repository"
	xhttp "FactorLab/pkg/http"
	xlogger "FactorLab/pkg/logger"

	"github.com/labstack/echo/v4"
)

// Health is implemented by every storage client worth pinging.
type Health interface {
	Health(ctx context.Context) error
}

// ResultsHandler serves persisted regression results and the canonical
// factor table over HTTP.
type ResultsHandler struct {
	logger  *xlogger.Logger
	results domrepo.ResultStore
	factors domrepo.FactorStore
	health  Health
}

func NewResultsHandler(logger *xlogger.Logger, results domrepo.ResultStore, factors domrepo.FactorStore, health Health) *ResultsHandler {
	return &ResultsHandler{logger: logger, results: results, factors: factors, health: health}
}

func (h *ResultsHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/results", h.Results)
	g.GET("/factors", h.Factors)
	g.GET("/health", h.HealthCheck)
}

func (h *ResultsHandler) Results(c echo.Context) error {
	req := &models.ResultsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	rows, err := h.results.List(c.Request().Context(), req.Ticker, req.Limit)
	if err != nil {
		h.logger.Error("results query error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}

	out := make([]models.ResultRow, 0, len(rows))
	for i := range rows {
		out = append(out, models.ToResultRow(&rows[i]))
	}
	return xhttp.ListResponse(c, out, int64(len(out)))
}

func (h *ResultsHandler) Factors(c echo.Context) error {
	req := &models.FactorsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	table, err := h.factors.Load(c.Request().Context(), req.Start)
	if err != nil {
		h.logger.Error("factors query error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}

	out := make([]models.FactorRow, 0, len(table.Rows))
	for _, r := range table.Rows {
		out = append(out, models.FactorRow{
			YM: r.YM, MktRF: r.MktRF, SMB: r.SMB, HML: r.HML, RF: r.RF, Mom: r.Mom,
		})
	}
	return xhttp.ListResponse(c, out, int64(len(out)))
}

func (h *ResultsHandler) HealthCheck(c echo.Context) error {
	if h.health != nil {
		if err := h.health.Health(c.Request().Context()); err != nil {
			h.logger.Error("storage health check failed", xlogger.Error(err))
			return xhttp.AppErrorResponse(c, xhttp.InternalError("storage unavailable"))
		}
	}
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}
