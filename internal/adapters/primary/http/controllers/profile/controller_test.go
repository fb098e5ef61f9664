package profileController

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	server "github.com/admin/astro-match/internal/adapters/primary/http"
	"github.com/admin/astro-match/internal/adapters/primary/http/middlewares"
	"github.com/admin/astro-match/internal/domain"
	avatarUsecase "github.com/admin/astro-match/internal/usecases/avatar"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProfiles struct {
	profile *domain.Profile
	input   domain.Profile
	created bool
	err     error
}

func (f *fakeProfiles) Get(context.Context, uuid.UUID) (*domain.Profile, error) {
	return f.profile, f.err
}

func (f *fakeProfiles) Create(_ context.Context, userID uuid.UUID, input domain.Profile) (*domain.Profile, bool, error) {
	f.input = input
	if f.err != nil {
		return nil, false, f.err
	}
	input.ID = userID
	return &input, f.created, nil
}

func (f *fakeProfiles) Update(_ context.Context, userID uuid.UUID, input domain.Profile) (*domain.Profile, error) {
	f.input = input
	if f.err != nil {
		return nil, f.err
	}
	input.ID = userID
	return &input, nil
}

type fakeAvatars struct {
	filename string
	body     []byte
	url      string
	err      error
	deleted  bool
}

func (f *fakeAvatars) Upload(_ context.Context, _ uuid.UUID, filename string, _ int64, body io.Reader) (string, error) {
	f.filename = filename
	f.body, _ = io.ReadAll(body)
	return f.url, f.err
}

func (f *fakeAvatars) Delete(context.Context, uuid.UUID) error {
	f.deleted = true
	return f.err
}

func newRouter(t *testing.T, profiles *fakeProfiles, avatars *fakeAvatars) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, server.RegisterValidators())

	r := gin.New()
	New(profiles, avatars, slog.New(slog.NewTextHandler(io.Discard, nil))).RegisterRoutes(r)
	return r
}

func send(r *gin.Engine, req *http.Request, userID uuid.UUID) *httptest.ResponseRecorder {
	req.Header.Set(middlewares.UserIDHeader, userID.String())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func jsonRequest(method, body string) *http.Request {
	req := httptest.NewRequest(method, "/api/profile", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestGetProfile(t *testing.T) {
	userID := uuid.New()
	birth := time.Date(1990, 5, 14, 0, 0, 0, 0, time.UTC)
	profiles := &fakeProfiles{profile: &domain.Profile{ID: userID, Name: "Asha", BirthDate: &birth}}
	r := newRouter(t, profiles, &fakeAvatars{})

	w := send(r, httptest.NewRequest(http.MethodGet, "/api/profile", nil), userID)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "1990-05-14", body["birth_date"])
	assert.Equal(t, "Asha", body["name"])

	profiles.err = domain.ErrNotFound
	w = send(r, httptest.NewRequest(http.MethodGet, "/api/profile", nil), userID)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateProfile(t *testing.T) {
	profiles := &fakeProfiles{created: true}
	r := newRouter(t, profiles, &fakeAvatars{})

	w := send(r, jsonRequest(http.MethodPost, `{"name":"Asha","birth_date":"1990-05-14","birth_time":"08:30",
		"birth_place_lat":28.61,"birth_place_lng":77.2,"birth_tz_offset":5.5}`), uuid.New())

	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, profiles.input.BirthDate)
	assert.Equal(t, time.Date(1990, 5, 14, 0, 0, 0, 0, time.UTC), *profiles.input.BirthDate)
	assert.Equal(t, "08:30", *profiles.input.BirthTime)

	profiles.created = false
	w = send(r, jsonRequest(http.MethodPost, `{"name":"Asha"}`), uuid.New())
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProfileValidation(t *testing.T) {
	r := newRouter(t, &fakeProfiles{}, &fakeAvatars{})

	bodies := map[string]string{
		"missing name":  `{"gender":"f"}`,
		"bad date":      `{"name":"A","birth_date":"14.05.1990"}`,
		"bad time":      `{"name":"A","birth_time":"8h30"}`,
		"bad latitude":  `{"name":"A","birth_place_lat":123.4}`,
		"bad tz offset": `{"name":"A","birth_tz_offset":20}`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			w := send(r, jsonRequest(http.MethodPut, body), uuid.New())
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestUpdateProfile(t *testing.T) {
	profiles := &fakeProfiles{}
	r := newRouter(t, profiles, &fakeAvatars{})

	w := send(r, jsonRequest(http.MethodPut, `{"name":"Asha","birth_time":"08:30:15"}`), uuid.New())

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "08:30:15", *profiles.input.BirthTime)
}

func multipartRequest(t *testing.T, filename string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/profile/avatar", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadAvatar(t *testing.T) {
	avatars := &fakeAvatars{url: "https://cdn.example.com/avatars/u-1.png"}
	r := newRouter(t, &fakeProfiles{}, avatars)

	w := send(r, multipartRequest(t, "me.png", []byte("png")), uuid.New())

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"avatar_url":"https://cdn.example.com/avatars/u-1.png"}`, w.Body.String())
	assert.Equal(t, "me.png", avatars.filename)
	assert.Equal(t, []byte("png"), avatars.body)
}

func TestUploadAvatarErrors(t *testing.T) {
	avatars := &fakeAvatars{err: avatarUsecase.ErrUnsupportedFormat}
	r := newRouter(t, &fakeProfiles{}, avatars)

	w := send(r, multipartRequest(t, "me.bmp", []byte("bmp")), uuid.New())
	assert.Equal(t, http.StatusBadRequest, w.Code)

	avatars.err = domain.ErrStorageDisabled
	w = send(r, multipartRequest(t, "me.png", []byte("png")), uuid.New())
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = send(r, httptest.NewRequest(http.MethodPost, "/api/profile/avatar", nil), uuid.New())
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteAvatar(t *testing.T) {
	avatars := &fakeAvatars{}
	r := newRouter(t, &fakeProfiles{}, avatars)

	w := send(r, httptest.NewRequest(http.MethodDelete, "/api/profile/avatar", nil), uuid.New())

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.True(t, avatars.deleted)
}
