package chart

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/admin/astro-match/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func birthPayload(planets, dashas string) json.RawMessage {
	return json.RawMessage(`{"planets":` + planets + `,"dashas":` + dashas + `}`)
}

func TestReduceDashaSelection(t *testing.T) {
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		output string
		want   string
	}{
		{
			name:   "single interval containing now",
			output: `{"X":{"Y":{"start_time":"2024-01-01 00:00:00","end_time":"2024-12-31 00:00:00"}}}`,
			want:   "X - Y",
		},
		{
			name:   "no interval contains now",
			output: `{"X":{"Y":{"start_time":"2010-01-01 00:00:00","end_time":"2011-01-01 00:00:00"}}}`,
			want:   domain.Unknown,
		},
		{
			name:   "bounds are inclusive",
			output: `{"X":{"Y":{"start_time":"2024-03-01 00:00:00","end_time":"2024-03-01 00:00:00"}}}`,
			want:   "X - Y",
		},
		{
			name: "first match in document order wins",
			output: `{"Venus":{"Rahu":{"start_time":"2023-01-01","end_time":"2025-01-01"}},
				"Sun":{"Moon":{"start_time":"2023-06-01","end_time":"2024-06-01"}}}`,
			want: "Venus - Rahu",
		},
		{
			name:   "output as JSON string",
			output: `"{\"Moon\":{\"Mars\":{\"start_time\":\"2024-02-01T00:00:00Z\",\"end_time\":\"2024-04-01T00:00:00Z\"}}}"`,
			want:   "Moon - Mars",
		},
		{
			name:   "malformed intervals skipped",
			output: `{"A":"oops","B":{"C":{"start_time":"soon"},"D":{"start_time":"2024-01-01","end_time":"2024-05-01"}}}`,
			want:   "B - D",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := birthPayload(`null`, `{"statusCode":200,"output":`+tt.output+`}`)
			summary, err := Reduce(domain.ChartKindBirth, payload, now)
			require.NoError(t, err)
			assert.Equal(t, tt.want, summary.CurrentDasha)
		})
	}
}

func TestReduceIsIdempotent(t *testing.T) {
	payload := birthPayload(planetsJSON, `{"statusCode":200,"output":{
		"B":{"B1":{"start_time":"2024-01-01","end_time":"2025-01-01"}},
		"A":{"A1":{"start_time":"2024-01-01","end_time":"2025-01-01"}}}}`)

	first, err1 := Reduce(domain.ChartKindBirth, payload, fixedNow)
	second, err2 := Reduce(domain.ChartKindBirth, payload, fixedNow)

	assert.Equal(t, first, second)
	assert.Equal(t, err1, err2)
	assert.Equal(t, "B - B1", first.CurrentDasha)
}

func TestReduceFailsClosed(t *testing.T) {
	tests := []struct {
		name    string
		kind    domain.ChartKind
		payload string
		want    domain.ChartSummary
		wantErr bool
	}{
		{
			name:    "not JSON",
			kind:    domain.ChartKindBirth,
			payload: `<html>`,
			want:    domain.UnknownSummary(),
			wantErr: true,
		},
		{
			name:    "non-200 planets",
			kind:    domain.ChartKindBirth,
			payload: `{"planets":{"statusCode":400,"output":{"Sun":{"zodiac_sign_name":"Leo"}}},"dashas":null}`,
			want:    domain.UnknownSummary(),
		},
		{
			name:    "output array shape",
			kind:    domain.ChartKindBirth,
			payload: `{"planets":{"statusCode":200,"output":[{"name":"Sun"}]},"dashas":null}`,
			want:    domain.UnknownSummary(),
		},
		{
			name:    "partial signs with broken dasha string",
			kind:    domain.ChartKindBirth,
			payload: `{"planets":{"statusCode":200,"output":{"Moon":{"zodiac_sign_name":"Cancer"}}},"dashas":{"statusCode":200,"output":"{broken"}}`,
			want: domain.ChartSummary{
				Ascendant:    domain.Unknown,
				MoonSign:     "Cancer",
				SunSign:      domain.Unknown,
				CurrentDasha: domain.Unknown,
			},
			wantErr: true,
		},
		{
			name:    "divisional payload uses planet shape",
			kind:    domain.ChartKindD9,
			payload: `{"statusCode":200,"output":{"Ascendant":{"zodiac_sign_name":"Virgo"}}}`,
			want: domain.ChartSummary{
				Ascendant:    "Virgo",
				MoonSign:     domain.Unknown,
				SunSign:      domain.Unknown,
				CurrentDasha: domain.Unknown,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary, err := Reduce(tt.kind, json.RawMessage(tt.payload), fixedNow)
			assert.Equal(t, tt.want, summary)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestReduceDashaKind(t *testing.T) {
	summary, err := Reduce(domain.ChartKindDasha, json.RawMessage(dashasJSON), fixedNow)
	require.NoError(t, err)
	assert.Equal(t, "Mercury - Ketu", summary.CurrentDasha)
	assert.Equal(t, domain.Unknown, summary.Ascendant)
}
