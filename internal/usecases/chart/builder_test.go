package chart

import (
	"testing"
	"time"

	"github.com/admin/astro-match/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func birthData(clock string, tz *float64) domain.BirthData {
	date := time.Date(1985, 11, 3, 0, 0, 0, 0, time.UTC)
	return domain.BirthData{
		Date:      &date,
		Time:      &clock,
		Latitude:  ptr(28.61),
		Longitude: ptr(77.21),
		TZOffset:  tz,
	}
}

func TestBuildChartRequest(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	nowIST := time.Date(2024, 1, 1, 10, 0, 0, 0, ist)

	tests := []struct {
		name    string
		data    domain.BirthData
		policy  TimezonePolicy
		wantTZ  float64
		wantErr error
	}{
		{name: "explicit offset", data: birthData("06:45", ptr(-4.0)), policy: TimezoneExplicit, wantTZ: -4},
		{name: "explicit without offset", data: birthData("06:45", nil), policy: TimezoneExplicit, wantErr: domain.ErrTimezoneRequired},
		{name: "server clock ignores profile", data: birthData("06:45", ptr(-4.0)), policy: TimezoneServerClock, wantTZ: 5.5},
		{name: "utc", data: birthData("06:45", nil), policy: TimezoneUTC, wantTZ: 0},
		{name: "seconds dropped", data: birthData("06:45:59", ptr(1.0)), policy: TimezoneExplicit, wantTZ: 1},
		{name: "garbage time", data: birthData("quarter past six", ptr(1.0)), policy: TimezoneExplicit, wantErr: domain.ErrIncompleteBirthData},
		{name: "hour out of range", data: birthData("25:00", ptr(1.0)), policy: TimezoneExplicit, wantErr: domain.ErrIncompleteBirthData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := BuildChartRequest(tt.data, tt.policy, nowIST)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, domain.ChartRequest{
				Year: 1985, Month: 11, Date: 3, Hours: 6, Minutes: 45, Seconds: 0,
				Latitude: 28.61, Longitude: 77.21, Timezone: tt.wantTZ,
			}, req)
		})
	}
}

func TestValidateBirthData(t *testing.T) {
	assert.NoError(t, ValidateBirthData(birthData("10:00", nil)))

	blank := birthData("  ", nil)
	assert.ErrorIs(t, ValidateBirthData(blank), domain.ErrIncompleteBirthData)

	err := ValidateBirthData(domain.BirthData{})
	assert.ErrorIs(t, err, domain.ErrIncompleteBirthData)
	assert.ErrorContains(t, err, "birth date, birth time, latitude, longitude")
}

func TestParseTimezonePolicy(t *testing.T) {
	for in, want := range map[string]TimezonePolicy{
		"":             TimezoneExplicit,
		"explicit":     TimezoneExplicit,
		"SERVER_CLOCK": TimezoneServerClock,
		" utc ":        TimezoneUTC,
	} {
		got, err := ParseTimezonePolicy(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseTimezonePolicy("browser")
	assert.Error(t, err)
}
