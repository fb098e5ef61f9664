package chartsController

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/admin/astro-match/internal/adapters/primary/http/middlewares"
	"github.com/admin/astro-match/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type chartWorkflow interface {
	Acquire(ctx context.Context, userID uuid.UUID, kind domain.ChartKind, refresh bool) (*domain.ChartResult, error)
	Retry(ctx context.Context, userID uuid.UUID, kind domain.ChartKind) (*domain.ChartResult, error)
	AcquireDivisional(ctx context.Context, userID uuid.UUID, kinds []domain.ChartKind, refresh bool) ([]*domain.ChartResult, error)
}

type Controller struct {
	Charts chartWorkflow
	Log    *slog.Logger
}

func New(charts chartWorkflow, log *slog.Logger) *Controller {
	return &Controller{
		Charts: charts,
		Log:    log,
	}
}

func (c *Controller) RegisterRoutes(router *gin.Engine) {
	router.GET("/api/charts/kinds", c.kinds)

	charts := router.Group("/api/charts", middlewares.RequireUserID())
	{
		charts.GET("/:kind", c.get)
		charts.POST("/:kind/retry", c.retry)
		charts.POST("/divisional", c.divisional)
	}
}

type kindURI struct {
	Kind string `uri:"kind" binding:"required,chart_kind"`
}

type divisionalRequest struct {
	Kinds   []string `json:"kinds" binding:"omitempty,dive,chart_kind"`
	Refresh bool     `json:"refresh"`
}

func (c *Controller) kinds(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"kinds": domain.AllChartKinds()})
}

func (c *Controller) get(ctx *gin.Context) {
	var uri kindURI
	if err := ctx.ShouldBindUri(&uri); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "unknown chart kind"})
		return
	}

	refresh, _ := strconv.ParseBool(ctx.Query("refresh"))
	userID := middlewares.MustUserID(ctx)

	result, err := c.Charts.Acquire(ctx.Request.Context(), userID, domain.ChartKind(uri.Kind), refresh)
	c.respond(ctx, result, err)
}

func (c *Controller) retry(ctx *gin.Context) {
	var uri kindURI
	if err := ctx.ShouldBindUri(&uri); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "unknown chart kind"})
		return
	}

	userID := middlewares.MustUserID(ctx)
	result, err := c.Charts.Retry(ctx.Request.Context(), userID, domain.ChartKind(uri.Kind))
	c.respond(ctx, result, err)
}

func (c *Controller) divisional(ctx *gin.Context) {
	var req divisionalRequest
	if ctx.Request.ContentLength != 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
			return
		}
	}

	kinds := make([]domain.ChartKind, 0, len(req.Kinds))
	for _, k := range req.Kinds {
		kinds = append(kinds, domain.ChartKind(k))
	}

	userID := middlewares.MustUserID(ctx)
	results, err := c.Charts.AcquireDivisional(ctx.Request.Context(), userID, kinds, req.Refresh)
	if err != nil {
		c.fail(ctx, err)
		return
	}

	status := http.StatusOK
	for _, r := range results {
		if r.State == domain.ChartStateError {
			status = http.StatusBadGateway
			break
		}
	}
	ctx.JSON(status, gin.H{"charts": results})
}

// respond incomplete отдаётся как 200, error как 502
func (c *Controller) respond(ctx *gin.Context, result *domain.ChartResult, err error) {
	if err != nil {
		c.fail(ctx, err)
		return
	}

	if result.State == domain.ChartStateError {
		ctx.JSON(http.StatusBadGateway, result)
		return
	}
	ctx.JSON(http.StatusOK, result)
}

func (c *Controller) fail(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
	case errors.Is(err, domain.ErrInvalidChartKind):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.Log.Error("chart workflow failed", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
