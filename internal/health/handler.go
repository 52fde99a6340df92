package health

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"
)

const (
	statusOK       = "ok"
	statusDegraded = "degraded"
	healthy        = "healthy"
	unhealthy      = "unhealthy"
)

// Checker defines the interface for checking a dependency's health.
type Checker interface {
	Ping(ctx context.Context) error
}

// Handler handles health check operations.
type Handler struct {
	store    Checker
	cache    Checker
	workerID int
	logger   *zap.Logger
}

// NewHandler creates a new health handler over the link store and the cache backend.
func NewHandler(store, cache Checker, workerID int, logger *zap.Logger) *Handler {
	return &Handler{store: store, cache: cache, workerID: workerID, logger: logger}
}

// Response is the response for health check endpoint.
type Response struct {
	Body struct {
		Status string `json:"status"`
		Store  string `json:"store"`
		Cache  string `json:"cache"`
		Worker int    `json:"worker"`
	}
}

// Check performs a health check of the worker and its dependencies.
// A failing cache degrades the worker but does not make it unavailable.
func (h *Handler) Check(ctx context.Context, _ *struct{}) (*Response, error) {
	resp := &Response{}
	resp.Body.Status = statusOK
	resp.Body.Worker = h.workerID
	resp.Body.Store = h.probe(ctx, "store", h.store)
	resp.Body.Cache = h.probe(ctx, "cache", h.cache)

	if resp.Body.Store != healthy || resp.Body.Cache != healthy {
		resp.Body.Status = statusDegraded
	}

	return resp, nil
}

func (h *Handler) probe(ctx context.Context, name string, checker Checker) string {
	if err := checker.Ping(ctx); err != nil {
		h.logger.Warn("health probe failed", zap.String("dependency", name), zap.Error(err))

		return unhealthy
	}

	return healthy
}

// RegisterRoutes registers health check routes.
func RegisterRoutes(api huma.API, h *Handler) {
	huma.Get(api, "/health", h.Check)
}
