package matchesController

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/admin/astro-match/internal/adapters/primary/http/middlewares"
	"github.com/admin/astro-match/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type matchService interface {
	Create(ctx context.Context, userID uuid.UUID, input domain.Match) (*domain.Match, error)
	List(ctx context.Context, userID uuid.UUID) ([]domain.Match, error)
	Get(ctx context.Context, userID, matchID uuid.UUID) (*domain.Match, error)
}

type Controller struct {
	Matches matchService
	Log     *slog.Logger
}

func New(matches matchService, log *slog.Logger) *Controller {
	return &Controller{
		Matches: matches,
		Log:     log,
	}
}

func (c *Controller) RegisterRoutes(router *gin.Engine) {
	matches := router.Group("/api/matches", middlewares.RequireUserID())
	{
		matches.POST("", c.create)
		matches.GET("", c.list)
		matches.GET("/:id", c.get)
	}
}

type matchRequest struct {
	PartnerName          string   `json:"partner_name" binding:"required,max=100"`
	PartnerBirthDate     *string  `json:"partner_birth_date" binding:"omitempty,datetime=2006-01-02"`
	PartnerBirthTime     *string  `json:"partner_birth_time" binding:"omitempty,clock"`
	PartnerBirthPlace    *string  `json:"partner_birth_place" binding:"omitempty,max=255"`
	PartnerBirthPlaceLat *float64 `json:"partner_birth_place_lat" binding:"omitempty,latitude"`
	PartnerBirthPlaceLng *float64 `json:"partner_birth_place_lng" binding:"omitempty,longitude"`
	CompatibilityScore   *int     `json:"compatibility_score" binding:"omitempty,min=0,max=36"`
}

func (r *matchRequest) toDomain() domain.Match {
	m := domain.Match{
		PartnerName:          r.PartnerName,
		PartnerBirthTime:     r.PartnerBirthTime,
		PartnerBirthPlace:    r.PartnerBirthPlace,
		PartnerBirthPlaceLat: r.PartnerBirthPlaceLat,
		PartnerBirthPlaceLng: r.PartnerBirthPlaceLng,
		CompatibilityScore:   r.CompatibilityScore,
	}
	if r.PartnerBirthDate != nil {
		if d, err := time.Parse("2006-01-02", *r.PartnerBirthDate); err == nil {
			m.PartnerBirthDate = &d
		}
	}
	return m
}

func (c *Controller) create(ctx *gin.Context) {
	var req matchRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	m, err := c.Matches.Create(ctx.Request.Context(), middlewares.MustUserID(ctx), req.toDomain())
	if err != nil {
		c.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, m)
}

func (c *Controller) list(ctx *gin.Context) {
	matches, err := c.Matches.List(ctx.Request.Context(), middlewares.MustUserID(ctx))
	if err != nil {
		c.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"matches": matches})
}

func (c *Controller) get(ctx *gin.Context) {
	matchID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "match not found"})
		return
	}

	m, err := c.Matches.Get(ctx.Request.Context(), middlewares.MustUserID(ctx), matchID)
	if err != nil {
		c.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, m)
}

func (c *Controller) fail(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, domain.ErrInvalidMatch):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.Log.Error("match request failed", "error", err, "path", ctx.FullPath())
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
