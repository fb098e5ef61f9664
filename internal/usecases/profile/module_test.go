package profile

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/admin/astro-match/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discardLog = slog.New(slog.NewTextHandler(io.Discard, nil))

type fakeProfiles struct {
	profiles  map[uuid.UUID]domain.Profile
	updateErr error
}

func (f *fakeProfiles) Create(_ context.Context, p *domain.Profile) error {
	f.profiles[p.ID] = *p
	return nil
}

func (f *fakeProfiles) GetByID(_ context.Context, id uuid.UUID) (*domain.Profile, error) {
	p, ok := f.profiles[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func (f *fakeProfiles) Update(_ context.Context, p *domain.Profile) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.profiles[p.ID] = *p
	return nil
}

func (f *fakeProfiles) SetAvatarURL(context.Context, uuid.UUID, *string) error { return nil }

func (f *fakeProfiles) ListAvatarURLs(context.Context) ([]string, error) { return nil, nil }

type fakeInvalidator struct {
	calls []uuid.UUID
	err   error
}

func (f *fakeInvalidator) Invalidate(_ context.Context, userID uuid.UUID) (int64, error) {
	f.calls = append(f.calls, userID)
	return 3, f.err
}

type fakeProducer struct {
	sent []uuid.UUID
	err  error
}

func (f *fakeProducer) SendChartWarmup(_ context.Context, userID uuid.UUID) error {
	f.sent = append(f.sent, userID)
	return f.err
}

func (f *fakeProducer) Close() error { return nil }

func strPtr(s string) *string { return &s }

func floatPtr(v float64) *float64 { return &v }

func birthProfile(place string, lat, lng float64) domain.Profile {
	date := time.Date(1992, 2, 29, 0, 0, 0, 0, time.UTC)
	return domain.Profile{
		Name:          "Ravi",
		Gender:        "male",
		BirthDate:     &date,
		BirthTime:     strPtr("05:10"),
		BirthPlace:    strPtr(place),
		BirthPlaceLat: floatPtr(lat),
		BirthPlaceLng: floatPtr(lng),
		BirthTZOffset: floatPtr(5.5),
	}
}

func setup(t *testing.T) (*Service, *fakeProfiles, *fakeInvalidator, *fakeProducer, uuid.UUID) {
	t.Helper()
	userID := uuid.New()
	existing := birthProfile("Chennai, India", 13.08, 80.27)
	existing.ID = userID
	existing.AvatarURL = strPtr("https://cdn.example.com/avatars/a.png")

	repo := &fakeProfiles{profiles: map[uuid.UUID]domain.Profile{userID: existing}}
	inv := &fakeInvalidator{}
	producer := &fakeProducer{}
	return New(repo, inv, producer, discardLog), repo, inv, producer, userID
}

func TestUpdateBirthPlaceInvalidatesCharts(t *testing.T) {
	s, repo, inv, producer, userID := setup(t)

	updated, err := s.Update(context.Background(), userID, birthProfile("Pune, India", 18.52, 73.85))
	require.NoError(t, err)

	assert.Equal(t, []uuid.UUID{userID}, inv.calls)
	assert.Equal(t, []uuid.UUID{userID}, producer.sent)
	assert.Equal(t, "Pune, India", *repo.profiles[userID].BirthPlace)
	require.NotNil(t, updated.AvatarURL)
	assert.Equal(t, "https://cdn.example.com/avatars/a.png", *updated.AvatarURL)
}

func TestUpdateNameOnlyKeepsCharts(t *testing.T) {
	s, _, inv, producer, userID := setup(t)

	input := birthProfile("Chennai, India", 13.08, 80.27)
	input.Name = "Ravi K."

	updated, err := s.Update(context.Background(), userID, input)
	require.NoError(t, err)
	assert.Equal(t, "Ravi K.", updated.Name)
	assert.Empty(t, inv.calls)
	assert.Empty(t, producer.sent)
}

func TestUpdateInvalidationFailure(t *testing.T) {
	s, repo, inv, _, userID := setup(t)
	inv.err = errors.New("redis down")

	_, err := s.Update(context.Background(), userID, birthProfile("Delhi, India", 28.61, 77.21))
	assert.ErrorContains(t, err, "redis down")
	assert.Equal(t, "Chennai, India", *repo.profiles[userID].BirthPlace)

	inv.err = nil
	_, err = s.Update(context.Background(), userID, birthProfile("Delhi, India", 28.61, 77.21))
	require.NoError(t, err)
	assert.Len(t, inv.calls, 2)
	assert.Equal(t, "Delhi, India", *repo.profiles[userID].BirthPlace)
}

func TestUpdateStoreFailureAfterInvalidation(t *testing.T) {
	s, repo, inv, producer, userID := setup(t)
	repo.updateErr = errors.New("db down")

	_, err := s.Update(context.Background(), userID, birthProfile("Delhi, India", 28.61, 77.21))
	assert.ErrorContains(t, err, "db down")
	assert.Equal(t, []uuid.UUID{userID}, inv.calls)
	assert.Empty(t, producer.sent)
	assert.Equal(t, "Chennai, India", *repo.profiles[userID].BirthPlace)
}

func TestUpdateWarmupFailureIsNotFatal(t *testing.T) {
	s, _, _, producer, userID := setup(t)
	producer.err = errors.New("kafka unavailable")

	_, err := s.Update(context.Background(), userID, birthProfile("Delhi, India", 28.61, 77.21))
	assert.NoError(t, err)
}

func TestUpdateWithoutProducer(t *testing.T) {
	s, _, inv, _, userID := setup(t)
	s.WarmupProducer = nil

	_, err := s.Update(context.Background(), userID, birthProfile("Delhi, India", 28.61, 77.21))
	require.NoError(t, err)
	assert.Len(t, inv.calls, 1)
}

func TestUpdateUnknownProfile(t *testing.T) {
	s, _, _, _, _ := setup(t)

	_, err := s.Update(context.Background(), uuid.New(), birthProfile("Delhi, India", 28.61, 77.21))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateIsIdempotent(t *testing.T) {
	s, repo, _, producer, _ := setup(t)
	newUser := uuid.New()

	created, isNew, err := s.Create(context.Background(), newUser, domain.Profile{Name: "Meera", AvatarURL: strPtr("ignored")})
	require.NoError(t, err)
	assert.True(t, isNew)
	assert.Equal(t, newUser, created.ID)
	assert.Nil(t, created.AvatarURL)
	assert.Empty(t, producer.sent)

	again, isNew, err := s.Create(context.Background(), newUser, domain.Profile{Name: "Other"})
	require.NoError(t, err)
	assert.False(t, isNew)
	assert.Equal(t, "Meera", again.Name)
	assert.Equal(t, "Meera", repo.profiles[newUser].Name)
}
