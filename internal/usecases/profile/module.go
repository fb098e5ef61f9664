package profile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/admin/astro-match/internal/domain"
	"github.com/admin/astro-match/internal/ports/kafka"
	"github.com/admin/astro-match/internal/ports/repository"
	"github.com/google/uuid"
)

type chartInvalidator interface {
	Invalidate(ctx context.Context, userID uuid.UUID) (int64, error)
}

// Service профиль пользователя; смена данных рождения сбрасывает сохранённые карты
type Service struct {
	ProfileRepo    repository.IProfileRepo
	Charts         chartInvalidator
	WarmupProducer kafka.IChartWarmupProducer
	Log            *slog.Logger

	now func() time.Time
}

// New warmupProducer может быть nil, тогда прогрев карт не запускается
func New(
	profileRepo repository.IProfileRepo,
	charts chartInvalidator,
	warmupProducer kafka.IChartWarmupProducer,
	log *slog.Logger,
) *Service {
	return &Service{
		ProfileRepo:    profileRepo,
		Charts:         charts,
		WarmupProducer: warmupProducer,
		Log:            log,
		now:            time.Now,
	}
}

func (s *Service) Get(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	return s.ProfileRepo.GetByID(ctx, userID)
}

// Create регистрация; повторный вызов возвращает уже существующий профиль
func (s *Service) Create(ctx context.Context, userID uuid.UUID, input domain.Profile) (*domain.Profile, bool, error) {
	existing, err := s.ProfileRepo.GetByID(ctx, userID)
	switch {
	case err == nil:
		return existing, false, nil
	case !errors.Is(err, domain.ErrNotFound):
		return nil, false, err
	}

	now := s.now()
	profile := input
	profile.ID = userID
	profile.AvatarURL = nil
	profile.CreatedAt = now
	profile.UpdatedAt = now

	if err := s.ProfileRepo.Create(ctx, &profile); err != nil {
		return nil, false, err
	}

	s.Log.Info("profile created", "user_id", userID)
	s.publishWarmup(ctx, &profile)
	return &profile, true, nil
}

// Update заменяет имя, пол и данные рождения. Аватар меняется отдельно
func (s *Service) Update(ctx context.Context, userID uuid.UUID, input domain.Profile) (*domain.Profile, error) {
	current, err := s.ProfileRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	updated := input
	updated.ID = userID
	updated.AvatarURL = current.AvatarURL
	updated.CreatedAt = current.CreatedAt
	updated.UpdatedAt = s.now()

	changed := updated.BirthDataChanged(current)

	// сначала сброс карт: при его ошибке профиль не меняется
	if changed {
		deleted, err := s.Charts.Invalidate(ctx, userID)
		if err != nil {
			s.Log.Error("failed to invalidate charts before birth data change", "error", err, "user_id", userID)
			return nil, fmt.Errorf("failed to invalidate charts: %w", err)
		}
		s.Log.Info("birth data changing, charts invalidated", "user_id", userID, "deleted", deleted)
	}

	if err := s.ProfileRepo.Update(ctx, &updated); err != nil {
		return nil, err
	}

	if changed {
		s.publishWarmup(ctx, &updated)
	}
	return &updated, nil
}

func (s *Service) publishWarmup(ctx context.Context, profile *domain.Profile) {
	if s.WarmupProducer == nil || profile.BirthDate == nil {
		return
	}
	if err := s.WarmupProducer.SendChartWarmup(ctx, profile.ID); err != nil {
		s.Log.Warn("failed to publish chart warmup", "error", err, "user_id", profile.ID)
	}
}
