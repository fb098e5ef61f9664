package match

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/admin/astro-match/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProfiles struct {
	known map[uuid.UUID]bool
}

func (f *fakeProfiles) Create(context.Context, *domain.Profile) error { return nil }

func (f *fakeProfiles) GetByID(_ context.Context, id uuid.UUID) (*domain.Profile, error) {
	if !f.known[id] {
		return nil, domain.ErrNotFound
	}
	return &domain.Profile{ID: id}, nil
}

func (f *fakeProfiles) Update(context.Context, *domain.Profile) error { return nil }

func (f *fakeProfiles) SetAvatarURL(context.Context, uuid.UUID, *string) error { return nil }

func (f *fakeProfiles) ListAvatarURLs(context.Context) ([]string, error) { return nil, nil }

type fakeMatches struct {
	items []domain.Match
}

func (f *fakeMatches) Create(_ context.Context, m *domain.Match) error {
	f.items = append(f.items, *m)
	return nil
}

func (f *fakeMatches) ListByUser(_ context.Context, userID uuid.UUID) ([]domain.Match, error) {
	out := []domain.Match{}
	for _, m := range f.items {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMatches) GetByID(_ context.Context, id uuid.UUID) (*domain.Match, error) {
	for _, m := range f.items {
		if m.ID == id {
			cp := m
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func newService(users ...uuid.UUID) (*Service, *fakeMatches) {
	known := map[uuid.UUID]bool{}
	for _, u := range users {
		known[u] = true
	}
	matches := &fakeMatches{}
	s := New(matches, &fakeProfiles{known: known}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.now = func() time.Time { return time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC) }
	return s, matches
}

func score(v int) *int { return &v }

func TestCreate(t *testing.T) {
	userID := uuid.New()
	s, matches := newService(userID)

	m, err := s.Create(context.Background(), userID, domain.Match{
		UserID:             uuid.New(),
		PartnerName:        "  Priya ",
		CompatibilityScore: score(28),
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, m.ID)
	assert.Equal(t, userID, m.UserID)
	assert.Equal(t, "Priya", m.PartnerName)
	assert.Equal(t, time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC), m.CreatedAt)
	assert.Len(t, matches.items, 1)
}

func TestCreateValidation(t *testing.T) {
	userID := uuid.New()
	s, matches := newService(userID)

	tests := []struct {
		name  string
		input domain.Match
	}{
		{"empty partner name", domain.Match{PartnerName: " "}},
		{"negative score", domain.Match{PartnerName: "A", CompatibilityScore: score(-1)}},
		{"score above max", domain.Match{PartnerName: "A", CompatibilityScore: score(37)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Create(context.Background(), userID, tt.input)
			assert.ErrorIs(t, err, domain.ErrInvalidMatch)
		})
	}
	assert.Empty(t, matches.items)
}

func TestCreateWithoutProfile(t *testing.T) {
	s, _ := newService()

	_, err := s.Create(context.Background(), uuid.New(), domain.Match{PartnerName: "A"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetIsOwnerOnly(t *testing.T) {
	owner, stranger := uuid.New(), uuid.New()
	s, _ := newService(owner, stranger)

	m, err := s.Create(context.Background(), owner, domain.Match{PartnerName: "A"})
	require.NoError(t, err)

	got, err := s.Get(context.Background(), owner, m.ID)
	require.NoError(t, err)
	assert.Equal(t, m.ID, got.ID)

	_, err = s.Get(context.Background(), stranger, m.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := s.List(context.Background(), stranger)
	require.NoError(t, err)
	assert.Empty(t, list)
}
