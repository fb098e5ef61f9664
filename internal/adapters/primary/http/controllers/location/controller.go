package locationController

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/admin/astro-match/internal/domain"
	"github.com/gin-gonic/gin"
)

type locationService interface {
	Autocomplete(ctx context.Context, query string) ([]domain.Place, error)
}

// Controller прокси подсказок адреса. Ошибки отдаются с кодом 200 и пустым списком
type Controller struct {
	Locations locationService
	Log       *slog.Logger
}

func New(locations locationService, log *slog.Logger) *Controller {
	return &Controller{
		Locations: locations,
		Log:       log,
	}
}

func (c *Controller) RegisterRoutes(router *gin.Engine) {
	router.POST("/api/location-autocomplete", c.autocomplete)
}

type autocompleteRequest struct {
	Query string `json:"query"`
}

func (c *Controller) autocomplete(ctx *gin.Context) {
	var req autocompleteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusOK, gin.H{"error": "Invalid request body", "results": []domain.Place{}})
		return
	}

	places, err := c.Locations.Autocomplete(ctx.Request.Context(), req.Query)
	if err != nil {
		c.Log.Warn("location autocomplete failed", "error", err)
		message := err.Error()
		if inner := errors.Unwrap(err); inner != nil {
			message = inner.Error()
		}
		ctx.JSON(http.StatusOK, gin.H{"error": message, "results": []domain.Place{}})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"results": places})
}
