package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pouchpalace/backend/internal/domain"
	"github.com/pouchpalace/backend/internal/usecase"
)

// reportCacheKey is the cache key of the latest dry-run report
const reportCacheKey = "report:dry-run"

// Handler holds dependencies for HTTP handlers
type Handler struct {
	reconciler       *usecase.ReconcileService
	importer         *usecase.ImportService
	cache            domain.ReportCache
	cacheTTL         time.Duration
	importCollection string
	logger           *zap.Logger
}

// HandlerConfig holds handler settings
type HandlerConfig struct {
	CacheTTL         time.Duration
	ImportCollection string
}

// NewHandler creates a new HTTP handler. Any service may be nil; its
// endpoints then answer 501.
func NewHandler(
	reconciler *usecase.ReconcileService,
	importer *usecase.ImportService,
	cache domain.ReportCache,
	logger *zap.Logger,
	config HandlerConfig,
) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	collection := config.ImportCollection
	if collection == "" {
		collection = "products"
	}
	return &Handler{
		reconciler:       reconciler,
		importer:         importer,
		cache:            cache,
		cacheTTL:         config.CacheTTL,
		importCollection: collection,
		logger:           logger,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "pouchpalace-backend",
		"version": "1.0.0",
	})
}

// reportResponse wraps a report with its counts
type reportResponse struct {
	*domain.Report
	Summary domain.ReportSummary `json:"summary"`
}

// GetReport returns a dry-run reconcile report, served from cache while fresh
func (h *Handler) GetReport(c *gin.Context) {
	if h.reconciler == nil {
		h.notConfigured(c, "reconciler")
		return
	}
	ctx := c.Request.Context()

	if h.cache != nil && c.Query("refresh") != "true" {
		if cached, err := h.cache.Get(ctx, reportCacheKey); err == nil {
			c.Header("X-Cache", "HIT")
			c.JSON(http.StatusOK, reportResponse{Report: cached, Summary: cached.Summary()})
			return
		}
	}

	report, err := h.reconciler.Run(ctx, domain.ModeDryRun)
	if err != nil {
		h.respondError(c, err)
		return
	}

	if h.cache != nil && h.cacheTTL > 0 {
		if err := h.cache.Set(ctx, reportCacheKey, report, h.cacheTTL); err != nil {
			h.logger.Warn("failed to cache report", zap.Error(err))
		}
	}

	c.Header("X-Cache", "MISS")
	c.JSON(http.StatusOK, reportResponse{Report: report, Summary: report.Summary()})
}

// ApplyFixes runs the reconciler in apply mode and drops the cached report
func (h *Handler) ApplyFixes(c *gin.Context) {
	if h.reconciler == nil {
		h.notConfigured(c, "reconciler")
		return
	}
	ctx := c.Request.Context()

	report, err := h.reconciler.Run(ctx, domain.ModeApply)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.invalidateReport(c)

	c.JSON(http.StatusOK, reportResponse{Report: report, Summary: report.Summary()})
}

// RebuildManifest reconstructs the manifest; ?apply=true persists it
func (h *Handler) RebuildManifest(c *gin.Context) {
	if h.reconciler == nil {
		h.notConfigured(c, "reconciler")
		return
	}

	apply := false
	if raw := c.Query("apply"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "apply must be true or false"})
			return
		}
		apply = parsed
	}

	rebuild, err := h.reconciler.RebuildManifest(c.Request.Context(), apply)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if rebuild.Persisted {
		h.invalidateReport(c)
	}

	c.JSON(http.StatusOK, rebuild)
}

// importRequest is the optional body of a catalog import
type importRequest struct {
	Collection string `json:"collection"`
	IDField    string `json:"idField"`
}

// ImportCatalog pushes the catalog into the document store
func (h *Handler) ImportCatalog(c *gin.Context) {
	if h.importer == nil {
		h.notConfigured(c, "catalog import")
		return
	}

	var req importRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
	}
	if req.Collection == "" {
		req.Collection = h.importCollection
	}

	idFunc, err := usecase.IDFuncByName(req.IDField)
	if err != nil {
		h.respondError(c, err)
		return
	}

	result, err := h.importer.ImportCatalog(c.Request.Context(), req.Collection, idFunc)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) invalidateReport(c *gin.Context) {
	if h.cache == nil {
		return
	}
	if err := h.cache.Delete(c.Request.Context(), reportCacheKey); err != nil {
		h.logger.Warn("failed to invalidate cached report", zap.Error(err))
	}
}

func (h *Handler) notConfigured(c *gin.Context, what string) {
	c.JSON(http.StatusNotImplemented, gin.H{
		"error": what + " not configured",
	})
}

// respondError maps domain errors to HTTP status codes
func (h *Handler) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrImageDirUnavailable):
		status = http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrCatalogUnavailable):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrManifestPersist), errors.Is(err, domain.ErrDocumentStoreFailure):
		status = http.StatusBadGateway
	}

	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
