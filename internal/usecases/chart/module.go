package chart

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/admin/astro-match/internal/ports/cache"
	"github.com/admin/astro-match/internal/ports/repository"
	"github.com/admin/astro-match/internal/ports/service"
	"golang.org/x/sync/singleflight"
)

// Service получение карт: проверка данных, кэш, запрос к провайдеру, сохранение и свёртка
type Service struct {
	ProfileRepo     repository.IProfileRepo
	SavedChartRepo  repository.ISavedChartRepo
	AstroAPIService service.IAstroAPIService
	Cache           cache.Cache
	Log             *slog.Logger

	policy   TimezonePolicy
	cacheTTL time.Duration
	now      func() time.Time
	flights  singleflight.Group
}

func New(
	cfg *Config,
	profileRepo repository.IProfileRepo,
	savedChartRepo repository.ISavedChartRepo,
	astroAPIService service.IAstroAPIService,
	chartCache cache.Cache,
	log *slog.Logger,
) (*Service, error) {
	policy, err := ParseTimezonePolicy(cfg.TimezonePolicy)
	if err != nil {
		return nil, fmt.Errorf("failed to create chart service: %w", err)
	}

	return &Service{
		ProfileRepo:     profileRepo,
		SavedChartRepo:  savedChartRepo,
		AstroAPIService: astroAPIService,
		Cache:           chartCache,
		Log:             log,
		policy:          policy,
		cacheTTL:        cfg.CacheTTL,
		now:             time.Now,
	}, nil
}
