package match

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/admin/astro-match/internal/domain"
	"github.com/admin/astro-match/internal/ports/repository"
	"github.com/google/uuid"
)

type Service struct {
	MatchRepo   repository.IMatchRepo
	ProfileRepo repository.IProfileRepo
	Log         *slog.Logger

	now func() time.Time
}

func New(matchRepo repository.IMatchRepo, profileRepo repository.IProfileRepo, log *slog.Logger) *Service {
	return &Service{
		MatchRepo:   matchRepo,
		ProfileRepo: profileRepo,
		Log:         log,
		now:         time.Now,
	}
}

// Create сохраняет пару для пользователя с существующим профилем
func (s *Service) Create(ctx context.Context, userID uuid.UUID, input domain.Match) (*domain.Match, error) {
	if _, err := s.ProfileRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	input.PartnerName = strings.TrimSpace(input.PartnerName)
	if input.PartnerName == "" {
		return nil, fmt.Errorf("%w: partner name is required", domain.ErrInvalidMatch)
	}
	if score := input.CompatibilityScore; score != nil && (*score < 0 || *score > domain.MaxCompatibilityScore) {
		return nil, fmt.Errorf("%w: compatibility score must be between 0 and %d", domain.ErrInvalidMatch, domain.MaxCompatibilityScore)
	}

	input.ID = uuid.New()
	input.UserID = userID
	input.CreatedAt = s.now().UTC()

	if err := s.MatchRepo.Create(ctx, &input); err != nil {
		return nil, err
	}
	s.Log.Info("match created", "user_id", userID, "match_id", input.ID)
	return &input, nil
}

func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]domain.Match, error) {
	return s.MatchRepo.ListByUser(ctx, userID)
}

// Get чужие пары не видны: отдаём domain.ErrNotFound
func (s *Service) Get(ctx context.Context, userID, matchID uuid.UUID) (*domain.Match, error) {
	m, err := s.MatchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if m.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return m, nil
}
