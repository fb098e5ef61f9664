package alerter

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/admin/astro-match/internal/ports/service"
	"github.com/gin-gonic/gin"
)

// Controller пересылает внешние алерты (мониторинг, деплой) в тот же чат, что и планировщик
type Controller struct {
	AlerterService service.IAlerterService
	Log            *slog.Logger
}

func New(alerterService service.IAlerterService, log *slog.Logger) *Controller {
	return &Controller{
		AlerterService: alerterService,
		Log:            log,
	}
}

func (c *Controller) RegisterRoutes(router *gin.Engine) {
	router.POST("/webhooks/alert", c.handleAlert)
}

type alertPayload struct {
	Message string `json:"message" binding:"required,max=3500"`
	Source  string `json:"source" binding:"omitempty,max=100"`
}

func (c *Controller) handleAlert(ctx *gin.Context) {
	var payload alertPayload
	if err := ctx.ShouldBindJSON(&payload); err != nil {
		c.Log.Warn("failed to bind alert request", "error", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	if c.AlerterService == nil {
		c.Log.Info("alerter service not configured, skipping alert", "source", payload.Source)
		ctx.JSON(http.StatusOK, gin.H{"ok": true, "message": "alerter not configured"})
		return
	}

	message := payload.Message
	if payload.Source != "" {
		message = fmt.Sprintf("🔔 Alert from %s\n\n%s", payload.Source, payload.Message)
	}

	if err := c.AlerterService.SendAlert(ctx.Request.Context(), message); err != nil {
		c.Log.Warn("failed to send alert", "error", err, "source", payload.Source)
		// 200, чтобы отправитель не повторял запрос
		ctx.JSON(http.StatusOK, gin.H{"ok": false, "error": "failed to send alert"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"ok": true})
}
