package birthChartController

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
	"github.com/admin/astro-match/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAstroAPI struct {
	raw      json.RawMessage
	err      error
	endpoint string
	req      domain.ChartRequest
	calls    int
}

func (f *fakeAstroAPI) FetchChart(_ context.Context, endpoint string, req domain.ChartRequest) (json.RawMessage, error) {
	f.calls++
	f.endpoint = endpoint
	f.req = req
	return f.raw, f.err
}

func post(t *testing.T, api *fakeAstroAPI, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, server.RegisterValidators())

	r := gin.New()
	New(api, slog.New(slog.NewTextHandler(io.Discard, nil))).RegisterRoutes(r)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/birth-chart", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

const validBody = `{"year":1990,"month":5,"date":14,"hours":8,"minutes":30,"seconds":0,
	"latitude":28.61,"longitude":77.2,"timezone":5.5}`

func TestProxyPassesThroughProviderJSON(t *testing.T) {
	api := &fakeAstroAPI{raw: json.RawMessage(`{"statusCode":200,"output":[]}`)}

	w := post(t, api, validBody)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"statusCode":200,"output":[]}`, w.Body.String())
	assert.Equal(t, "", api.endpoint)
	assert.Equal(t, domain.ChartRequest{
		Year: 1990, Month: 5, Date: 14, Hours: 8, Minutes: 30,
		Latitude: 28.61, Longitude: 77.2, Timezone: 5.5,
	}, api.req)
}

func TestProxyMissingParameters(t *testing.T) {
	api := &fakeAstroAPI{}

	w := post(t, api, `{"year":1990,"month":5,"date":14,"hours":8,"minutes":30,"seconds":0,"latitude":28.61}`)

	assert.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Error  string         `json:"error"`
		Params map[string]any `json:"params"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Missing required parameters", body.Error)
	assert.Nil(t, body.Params["longitude"])
	assert.Equal(t, float64(1990), body.Params["year"])
	assert.Zero(t, api.calls)
}

func TestProxyZeroCoordinatesAreValid(t *testing.T) {
	api := &fakeAstroAPI{raw: json.RawMessage(`{}`)}

	w := post(t, api, `{"year":2000,"month":1,"date":1,"hours":0,"minutes":0,"seconds":0,
		"latitude":0,"longitude":0,"timezone":0}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, api.calls)
}

func TestProxyProviderErrorInBand(t *testing.T) {
	api := &fakeAstroAPI{err: &domain.ProviderError{Message: "API error: 429", Details: "rate limited"}}

	w := post(t, api, validBody)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"error":"API error: 429","details":"rate limited"}`, w.Body.String())
}

func TestProxyTransportError(t *testing.T) {
	api := &fakeAstroAPI{err: errors.New("dial tcp: connection refused")}

	w := post(t, api, validBody)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"error":"dial tcp: connection refused"}`, w.Body.String())
}

func TestProxyEndpoint(t *testing.T) {
	api := &fakeAstroAPI{raw: json.RawMessage(`{}`)}

	w := post(t, api, strings.Replace(validBody, `"timezone":5.5`, `"timezone":5.5,"endpoint":"navamsa-chart-info"`, 1))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "navamsa-chart-info", api.endpoint)

	w = post(t, api, strings.Replace(validBody, `"timezone":5.5`, `"timezone":5.5,"endpoint":"../admin"`, 1))
	assert.JSONEq(t, `{"error":"Unsupported endpoint","details":"../admin"}`, w.Body.String())
}

func TestProxyMalformedBody(t *testing.T) {
	w := post(t, &fakeAstroAPI{}, `{"year":`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid request body")
}
