package chatController

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/admin/astro-match/internal/adapters/primary/http/middlewares"
	"github.com/admin/astro-match/internal/domain"
	"github.com/admin/astro-match/internal/pkg/ndjson"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type chatService interface {
	History(ctx context.Context, userID uuid.UUID) ([]domain.ChatMessage, error)
	Send(ctx context.Context, userID uuid.UUID, req domain.ChatRequest) (string, error)
	Stream(ctx context.Context, userID uuid.UUID, req domain.ChatRequest, emit func(domain.ChatFragment) error) error
}

type Controller struct {
	Chat chatService
	Log  *slog.Logger
}

func New(chat chatService, log *slog.Logger) *Controller {
	return &Controller{
		Chat: chat,
		Log:  log,
	}
}

func (c *Controller) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api", middlewares.RequireUserID())
	{
		api.GET("/chat/messages", c.history)
		api.POST("/chat-ai", c.send)
	}
}

func (c *Controller) history(ctx *gin.Context) {
	messages, err := c.Chat.History(ctx.Request.Context(), middlewares.MustUserID(ctx))
	if err != nil {
		c.Log.Error("failed to load chat history", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"messages": messages})
}

func (c *Controller) send(ctx *gin.Context) {
	var req domain.ChatRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	userID := middlewares.MustUserID(ctx)
	if wantsStream(ctx) {
		c.stream(ctx, userID, req)
		return
	}

	reply, err := c.Chat.Send(ctx.Request.Context(), userID, req)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyPrompt) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.Log.Error("chat completion failed", "error", err, "user_id", userID)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"response": reply})
}

// stream заголовки уходят с первым фрагментом, до него ещё можно ответить 400 или 500
func (c *Controller) stream(ctx *gin.Context, userID uuid.UUID, req domain.ChatRequest) {
	var writer *ndjson.Writer
	emit := func(fragment domain.ChatFragment) error {
		if writer == nil {
			ctx.Header("Content-Type", ndjson.ContentType)
			ctx.Header("Cache-Control", "no-cache")
			ctx.Header("X-Accel-Buffering", "no")
			ctx.Status(http.StatusOK)
			writer = ndjson.NewWriter(ctx.Writer)
		}
		return writer.Write(fragment)
	}

	err := c.Chat.Stream(ctx.Request.Context(), userID, req, emit)
	if err == nil {
		return
	}

	if writer == nil {
		if errors.Is(err, domain.ErrEmptyPrompt) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.Log.Error("chat stream failed before first fragment", "error", err, "user_id", userID)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Log.Warn("chat stream ended with error", "error", err, "user_id", userID)
}

func wantsStream(ctx *gin.Context) bool {
	if v, err := strconv.ParseBool(ctx.Query("stream")); err == nil && v {
		return true
	}
	return strings.Contains(ctx.GetHeader("Accept"), ndjson.ContentType)
}
