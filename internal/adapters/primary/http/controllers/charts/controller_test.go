package chartsController

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	server "github.com/admin/astro-match/internal/adapters/primary/http"
	"github.com/admin/astro-match/internal/adapters/primary/http/middlewares"
	"github.com/admin/astro-match/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWorkflow struct {
	result   *domain.ChartResult
	results  []*domain.ChartResult
	err      error
	refresh  bool
	retried  bool
	kinds    []domain.ChartKind
	lastUser uuid.UUID
	lastKind domain.ChartKind
}

func (f *fakeWorkflow) Acquire(_ context.Context, userID uuid.UUID, kind domain.ChartKind, refresh bool) (*domain.ChartResult, error) {
	f.lastUser, f.lastKind, f.refresh = userID, kind, refresh
	return f.result, f.err
}

func (f *fakeWorkflow) Retry(_ context.Context, userID uuid.UUID, kind domain.ChartKind) (*domain.ChartResult, error) {
	f.lastUser, f.lastKind, f.retried = userID, kind, true
	return f.result, f.err
}

func (f *fakeWorkflow) AcquireDivisional(_ context.Context, userID uuid.UUID, kinds []domain.ChartKind, refresh bool) ([]*domain.ChartResult, error) {
	f.lastUser, f.kinds, f.refresh = userID, kinds, refresh
	return f.results, f.err
}

func do(t *testing.T, wf *fakeWorkflow, method, path, body string, userID uuid.UUID) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, server.RegisterValidators())

	r := gin.New()
	New(wf, slog.New(slog.NewTextHandler(io.Discard, nil))).RegisterRoutes(r)

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != uuid.Nil {
		req.Header.Set(middlewares.UserIDHeader, userID.String())
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func doneResult(kind domain.ChartKind) *domain.ChartResult {
	r := domain.NewChartResult(kind)
	r.Advance(domain.ChartStateCheckingCache)
	r.Advance(domain.ChartStateDone)
	r.Source = domain.ChartSourceCache
	return r
}

func TestGetChart(t *testing.T) {
	userID := uuid.New()
	wf := &fakeWorkflow{result: doneResult(domain.ChartKindBirth)}

	w := do(t, wf, http.MethodGet, "/api/charts/birth_chart?refresh=true", "", userID)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, userID, wf.lastUser)
	assert.Equal(t, domain.ChartKindBirth, wf.lastKind)
	assert.True(t, wf.refresh)

	var got domain.ChartResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, domain.ChartStateDone, got.State)
	assert.Equal(t, []domain.ChartState{domain.ChartStateIdle, domain.ChartStateCheckingCache, domain.ChartStateDone}, got.Transitions)
}

func TestGetChartStates(t *testing.T) {
	incomplete := domain.NewChartResult(domain.ChartKindBirth)
	incomplete.Advance(domain.ChartStateIncomplete)

	failed := domain.NewChartResult(domain.ChartKindBirth)
	failed.Advance(domain.ChartStateError)
	failed.Error = "API error: 500"
	failed.Debug = &domain.DebugInfo{ResponseError: "API error: 500"}

	w := do(t, &fakeWorkflow{result: incomplete}, http.MethodGet, "/api/charts/birth_chart", "", uuid.New())
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"state":"incomplete"`)

	w = do(t, &fakeWorkflow{result: failed}, http.MethodGet, "/api/charts/birth_chart", "", uuid.New())
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), `"responseError":"API error: 500"`)
}

func TestGetChartErrors(t *testing.T) {
	w := do(t, &fakeWorkflow{}, http.MethodGet, "/api/charts/d99_chart", "", uuid.New())
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, &fakeWorkflow{}, http.MethodGet, "/api/charts/birth_chart", "", uuid.Nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, &fakeWorkflow{err: domain.ErrNotFound}, http.MethodGet, "/api/charts/birth_chart", "", uuid.New())
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, &fakeWorkflow{err: errors.New("db down")}, http.MethodGet, "/api/charts/birth_chart", "", uuid.New())
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRetry(t *testing.T) {
	wf := &fakeWorkflow{result: doneResult(domain.ChartKindDasha)}

	w := do(t, wf, http.MethodPost, "/api/charts/dasha_chart/retry", "", uuid.New())

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, wf.retried)
	assert.Equal(t, domain.ChartKindDasha, wf.lastKind)
}

func TestDivisional(t *testing.T) {
	wf := &fakeWorkflow{results: []*domain.ChartResult{doneResult(domain.ChartKindD9)}}

	w := do(t, wf, http.MethodPost, "/api/charts/divisional", `{"kinds":["d9_chart"]}`, uuid.New())
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []domain.ChartKind{domain.ChartKindD9}, wf.kinds)

	w = do(t, wf, http.MethodPost, "/api/charts/divisional", "", uuid.New())
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, wf.kinds)

	w = do(t, wf, http.MethodPost, "/api/charts/divisional", `{"kinds":["nope"]}`, uuid.New())
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestKinds(t *testing.T) {
	w := do(t, &fakeWorkflow{}, http.MethodGet, "/api/charts/kinds", "", uuid.Nil)

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Kinds []domain.ChartKindInfo `json:"kinds"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Kinds, len(domain.AllChartKinds()))
	assert.Equal(t, domain.ChartKindBirth, body.Kinds[0].Kind)
}
