package chart

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/admin/astro-match/internal/adapters/secondary/storage/inmemory"
	"github.com/admin/astro-match/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var discardLog = slog.New(slog.NewTextHandler(io.Discard, nil))

type fakeProfiles struct {
	mu       sync.Mutex
	profiles map[uuid.UUID]*domain.Profile
}

func (f *fakeProfiles) Create(_ context.Context, p *domain.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profiles[p.ID] = p
	return nil
}

func (f *fakeProfiles) GetByID(_ context.Context, id uuid.UUID) (*domain.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProfiles) Update(_ context.Context, p *domain.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profiles[p.ID] = p
	return nil
}

func (f *fakeProfiles) SetAvatarURL(context.Context, uuid.UUID, *string) error { return nil }

func (f *fakeProfiles) ListAvatarURLs(context.Context) ([]string, error) { return nil, nil }

type fakeSavedCharts struct {
	mu        sync.Mutex
	rows      map[string]json.RawMessage
	upserts   int
	upsertErr error
	getErr    error
}

func newFakeSavedCharts() *fakeSavedCharts {
	return &fakeSavedCharts{rows: make(map[string]json.RawMessage)}
}

func rowKey(userID uuid.UUID, kind domain.ChartKind) string {
	return userID.String() + "/" + string(kind)
}

func (f *fakeSavedCharts) GetLatest(_ context.Context, userID uuid.UUID, kind domain.ChartKind) (*domain.SavedChart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	data, ok := f.rows[rowKey(userID, kind)]
	if !ok {
		return nil, fmt.Errorf("saved chart: %w", domain.ErrNotFound)
	}
	return &domain.SavedChart{UserID: userID, ChartType: kind, ChartData: data}, nil
}

func (f *fakeSavedCharts) Upsert(_ context.Context, userID uuid.UUID, kind domain.ChartKind, payload json.RawMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserts++
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.rows[rowKey(userID, kind)] = append(json.RawMessage(nil), payload...)
	return nil
}

func (f *fakeSavedCharts) DeleteAllForUser(_ context.Context, userID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var deleted int64
	for _, info := range domain.AllChartKinds() {
		key := rowKey(userID, info.Kind)
		if _, ok := f.rows[key]; ok {
			delete(f.rows, key)
			deleted++
		}
	}
	return deleted, nil
}

type fakeAstroAPI struct {
	mu        sync.Mutex
	responses map[string]json.RawMessage
	errs      map[string]error
	calls     []string
	requests  []domain.ChartRequest
	gate      chan struct{}
	onFetch   func()
}

func newFakeAstroAPI() *fakeAstroAPI {
	return &fakeAstroAPI{
		responses: map[string]json.RawMessage{
			domain.EndpointPlanets: json.RawMessage(planetsJSON),
			domain.EndpointDashas:  json.RawMessage(dashasJSON),
		},
		errs: make(map[string]error),
	}
}

func (f *fakeAstroAPI) FetchChart(_ context.Context, endpoint string, req domain.ChartRequest) (json.RawMessage, error) {
	if f.gate != nil {
		<-f.gate
	}
	if f.onFetch != nil {
		f.onFetch()
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, endpoint)
	f.requests = append(f.requests, req)
	if err := f.errs[endpoint]; err != nil {
		return nil, err
	}
	if resp, ok := f.responses[endpoint]; ok {
		return resp, nil
	}
	return json.RawMessage(`{"statusCode":200,"output":{"Ascendant":{"zodiac_sign_name":"Leo"}}}`), nil
}

func (f *fakeAstroAPI) callCount(endpoint string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == endpoint {
			n++
		}
	}
	return n
}

const planetsJSON = `{"statusCode":200,"output":{
	"Ascendant":{"zodiac_sign_name":"Scorpio"},
	"Sun":{"zodiac_sign_name":"Gemini"},
	"Moon":{"zodiac_sign_name":"Pisces"}
}}`

const dashasJSON = `{"statusCode":200,"output":{
	"Saturn":{"Mercury":{"start_time":"2019-01-01 00:00:00","end_time":"2021-06-01 00:00:00"}},
	"Mercury":{
		"Mercury":{"start_time":"2021-06-01 00:00:00","end_time":"2024-01-01 00:00:00"},
		"Ketu":{"start_time":"2024-01-01 00:00:00","end_time":"2025-01-01 00:00:00"}
	}
}}`

var fixedNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

type fixture struct {
	service  *Service
	profiles *fakeProfiles
	saved    *fakeSavedCharts
	astro    *fakeAstroAPI
	cache    *inmemory.Cache
	userID   uuid.UUID
}

func completeProfile(id uuid.UUID) *domain.Profile {
	date := time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC)
	birthTime := "14:30"
	place := "Mumbai, India"
	lat, lng, tz := 19.076, 72.8777, 5.5
	return &domain.Profile{
		ID:            id,
		Name:          "Asha",
		BirthDate:     &date,
		BirthTime:     &birthTime,
		BirthPlace:    &place,
		BirthPlaceLat: &lat,
		BirthPlaceLng: &lng,
		BirthTZOffset: &tz,
	}
}

func newFixture(t *testing.T, policy string) *fixture {
	t.Helper()

	userID := uuid.New()
	f := &fixture{
		profiles: &fakeProfiles{profiles: map[uuid.UUID]*domain.Profile{userID: completeProfile(userID)}},
		saved:    newFakeSavedCharts(),
		astro:    newFakeAstroAPI(),
		cache:    inmemory.NewCache(),
		userID:   userID,
	}

	svc, err := New(&Config{TimezonePolicy: policy, CacheTTL: time.Hour}, f.profiles, f.saved, f.astro, f.cache, discardLog)
	require.NoError(t, err)
	svc.now = func() time.Time { return fixedNow }
	f.service = svc
	return f
}
