package profileController

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/admin/astro-match/internal/adapters/primary/http/middlewares"
	"github.com/admin/astro-match/internal/domain"
	avatarUsecase "github.com/admin/astro-match/internal/usecases/avatar"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type profileService interface {
	Get(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)
	Create(ctx context.Context, userID uuid.UUID, input domain.Profile) (*domain.Profile, bool, error)
	Update(ctx context.Context, userID uuid.UUID, input domain.Profile) (*domain.Profile, error)
}

type avatarService interface {
	Upload(ctx context.Context, userID uuid.UUID, filename string, size int64, body io.Reader) (string, error)
	Delete(ctx context.Context, userID uuid.UUID) error
}

type Controller struct {
	Profiles profileService
	Avatars  avatarService
	Log      *slog.Logger
}

func New(profiles profileService, avatars avatarService, log *slog.Logger) *Controller {
	return &Controller{
		Profiles: profiles,
		Avatars:  avatars,
		Log:      log,
	}
}

func (c *Controller) RegisterRoutes(router *gin.Engine) {
	profile := router.Group("/api/profile", middlewares.RequireUserID())
	{
		profile.GET("", c.get)
		profile.POST("", c.create)
		profile.PUT("", c.update)
		profile.POST("/avatar", c.uploadAvatar)
		profile.DELETE("/avatar", c.deleteAvatar)
	}
}

func (c *Controller) get(ctx *gin.Context) {
	p, err := c.Profiles.Get(ctx.Request.Context(), middlewares.MustUserID(ctx))
	if err != nil {
		c.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, toResponse(p))
}

func (c *Controller) create(ctx *gin.Context) {
	var req profileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	p, created, err := c.Profiles.Create(ctx.Request.Context(), middlewares.MustUserID(ctx), req.toDomain())
	if err != nil {
		c.fail(ctx, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	ctx.JSON(status, toResponse(p))
}

func (c *Controller) update(ctx *gin.Context) {
	var req profileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	p, err := c.Profiles.Update(ctx.Request.Context(), middlewares.MustUserID(ctx), req.toDomain())
	if err != nil {
		c.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, toResponse(p))
}

func (c *Controller) uploadAvatar(ctx *gin.Context) {
	header, err := ctx.FormFile("file")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	file, err := header.Open()
	if err != nil {
		c.Log.Error("failed to open uploaded avatar", "error", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "failed to read file"})
		return
	}
	defer file.Close()

	url, err := c.Avatars.Upload(ctx.Request.Context(), middlewares.MustUserID(ctx), header.Filename, header.Size, file)
	if err != nil {
		c.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"avatar_url": url})
}

func (c *Controller) deleteAvatar(ctx *gin.Context) {
	if err := c.Avatars.Delete(ctx.Request.Context(), middlewares.MustUserID(ctx)); err != nil {
		c.fail(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

func (c *Controller) fail(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
	case errors.Is(err, avatarUsecase.ErrUnsupportedFormat):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrStorageDisabled):
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		c.Log.Error("profile request failed", "error", err, "path", ctx.FullPath())
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
