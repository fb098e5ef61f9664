package birthChartController

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/admin/astro-match/internal/domain"
	"github.com/admin/astro-match/internal/ports/service"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// Controller прокси к астро-API. Всегда отвечает 200, ошибка передаётся в теле
type Controller struct {
	AstroAPIService service.IAstroAPIService
	Log             *slog.Logger
}

func New(astroAPI service.IAstroAPIService, log *slog.Logger) *Controller {
	return &Controller{
		AstroAPIService: astroAPI,
		Log:             log,
	}
}

func (c *Controller) RegisterRoutes(router *gin.Engine) {
	router.POST("/api/birth-chart", c.fetch)
}

type birthChartRequest struct {
	Year      *int     `json:"year" binding:"required"`
	Month     *int     `json:"month" binding:"required"`
	Date      *int     `json:"date" binding:"required"`
	Hours     *int     `json:"hours" binding:"required"`
	Minutes   *int     `json:"minutes" binding:"required"`
	Seconds   *int     `json:"seconds" binding:"required"`
	Latitude  *float64 `json:"latitude" binding:"required"`
	Longitude *float64 `json:"longitude" binding:"required"`
	Timezone  *float64 `json:"timezone" binding:"required"`
	Endpoint  string   `json:"endpoint" binding:"omitempty,astro_endpoint"`
}

func (r *birthChartRequest) toDomain() domain.ChartRequest {
	return domain.ChartRequest{
		Year:      *r.Year,
		Month:     *r.Month,
		Date:      *r.Date,
		Hours:     *r.Hours,
		Minutes:   *r.Minutes,
		Seconds:   *r.Seconds,
		Latitude:  *r.Latitude,
		Longitude: *r.Longitude,
		Timezone:  *r.Timezone,
	}
}

func (c *Controller) fetch(ctx *gin.Context) {
	var req birthChartRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		var validationErrs validator.ValidationErrors
		if !errors.As(err, &validationErrs) {
			c.Log.Warn("failed to bind birth chart request", "error", err)
			ctx.JSON(http.StatusOK, gin.H{"error": "Invalid request body", "details": err.Error()})
			return
		}

		for _, fe := range validationErrs {
			if fe.Tag() == "astro_endpoint" {
				ctx.JSON(http.StatusOK, gin.H{"error": "Unsupported endpoint", "details": req.Endpoint})
				return
			}
		}

		c.Log.Warn("missing birth chart parameters", "error", err)
		ctx.JSON(http.StatusOK, gin.H{
			"error": "Missing required parameters",
			"params": gin.H{
				"year":      req.Year,
				"month":     req.Month,
				"date":      req.Date,
				"hours":     req.Hours,
				"minutes":   req.Minutes,
				"seconds":   req.Seconds,
				"latitude":  req.Latitude,
				"longitude": req.Longitude,
				"timezone":  req.Timezone,
			},
		})
		return
	}

	raw, err := c.AstroAPIService.FetchChart(ctx.Request.Context(), req.Endpoint, req.toDomain())
	if err != nil {
		if providerErr, ok := domain.AsProviderError(err); ok {
			body := gin.H{"error": providerErr.Message}
			if providerErr.Details != "" {
				body["details"] = providerErr.Details
			}
			ctx.JSON(http.StatusOK, body)
			return
		}

		c.Log.Error("birth chart proxy failed", "error", err, "endpoint", req.Endpoint)
		ctx.JSON(http.StatusOK, gin.H{"error": err.Error()})
		return
	}

	ctx.Data(http.StatusOK, "application/json; charset=utf-8", raw)
}
