package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kurihiro0119/repo-hub/internal/aggregator"
	"github.com/kurihiro0119/repo-hub/internal/config"
	"github.com/kurihiro0119/repo-hub/internal/domain"
	apperrors "github.com/kurihiro0119/repo-hub/internal/errors"
	"github.com/kurihiro0119/repo-hub/internal/storage"
)

const (
	defaultRunsLimit = 20
	maxRunsLimit     = 100
)

// Handler handles page and API requests
type Handler struct {
	aggregator aggregator.Aggregator
	storage    storage.Storage
	hub        *config.Hub
	creds      domain.Credentials
	logger     *slog.Logger
}

// NewHandler creates a new handler. store may be nil when run history is disabled.
func NewHandler(agg aggregator.Aggregator, store storage.Storage, hub *config.Hub, creds domain.Credentials, logger *slog.Logger) *Handler {
	return &Handler{
		aggregator: agg,
		storage:    store,
		hub:        hub,
		creds:      creds,
		logger:     logger,
	}
}

// Index renders the landing page
// GET /
func (h *Handler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.tmpl", gin.H{
		"name": h.hub.Name,
	})
}

// Me renders the aggregated repositories of the primary account and its organizations
// GET /me
func (h *Handler) Me(c *gin.Context) {
	repos, err := h.aggregator.Aggregate(c.Request.Context(), h.hub.Name, h.hub.Orgs)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.HTML(http.StatusOK, "me.tmpl", gin.H{
		"name":    h.hub.Name,
		"orgs":    h.hub.Orgs,
		"backend": h.aggregator.Backend().String(),
		"repos":   repos,
	})
}

// GetRepos returns the aggregated repositories as JSON
// GET /api/v1/repos
func (h *Handler) GetRepos(c *gin.Context) {
	repos, err := h.aggregator.Aggregate(c.Request.Context(), h.hub.Name, h.hub.Orgs)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": repos,
	})
}

// GetRuns returns the most recent aggregation runs
// GET /api/v1/runs?limit=N
func (h *Handler) GetRuns(c *gin.Context) {
	limit := parseIntQuery(c, "limit", defaultRunsLimit)
	if limit > maxRunsLimit {
		h.respondError(c, apperrors.NewBadRequestError("limit must be between 1 and 100"))
		return
	}

	if h.storage == nil {
		c.JSON(http.StatusOK, gin.H{
			"data": []*domain.AggregationRun{},
		})
		return
	}

	runs, err := h.storage.GetRuns(c.Request.Context(), limit)
	if err != nil {
		h.respondError(c, apperrors.NewInternalError("failed to load aggregation runs", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": runs,
	})
}

// Search builds a query against a backend. The results are not populated yet.
// GET /api/v1/search?backend=github&q=...
func (h *Handler) Search(c *gin.Context) {
	backend, err := domain.ParseBackend(c.DefaultQuery("backend", domain.GitHub.String()))
	if err != nil {
		h.respondError(c, apperrors.NewBadRequestError(err.Error()))
		return
	}

	search, err := domain.NewSearch(backend, h.creds)
	if err != nil {
		h.respondError(c, apperrors.NewConfigError("search backend has no access token configured", err))
		return
	}

	results := search.SetQ(c.Query("q")).Get()

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"query":       search.Query(),
			"backend":     results.Backend,
			"description": results.Description,
			"url":         results.URL,
		},
	})
}

// HealthCheck reports liveness
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

func parseIntQuery(c *gin.Context, key string, defaultValue int) int {
	valueStr := c.Query(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}

// statusFor maps an error to the HTTP status shown to the client
func statusFor(err error) int {
	switch apperrors.Code(err) {
	case apperrors.ErrCodeBadRequest:
		return http.StatusBadRequest
	case apperrors.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case apperrors.ErrCodeUpstream, apperrors.ErrCodeDecode:
		return http.StatusBadGateway
	case apperrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// respondError sends an error response
func (h *Handler) respondError(c *gin.Context, err error) {
	status := statusFor(err)
	h.logError(c, status, err)

	c.JSON(status, gin.H{
		"error": gin.H{
			"code":    apperrors.Code(err),
			"message": err.Error(),
		},
	})
}

// renderError renders the error page
func (h *Handler) renderError(c *gin.Context, err error) {
	status := statusFor(err)
	h.logError(c, status, err)

	c.HTML(status, "error.tmpl", gin.H{
		"status":  status,
		"title":   http.StatusText(status),
		"code":    apperrors.Code(err),
		"message": err.Error(),
	})
}

func (h *Handler) logError(c *gin.Context, status int, err error) {
	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	h.logger.Log(c.Request.Context(), level, "request failed",
		slog.String("path", c.Request.URL.Path),
		slog.Int("status", status),
		slog.String("error", err.Error()),
	)
}
