package chart

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/admin/astro-match/internal/domain"
)

// TimezonePolicy откуда берётся смещение UTC для запроса к провайдеру
type TimezonePolicy string

const (
	// TimezoneExplicit смещение из профиля (birth_tz_offset), без него карта не считается
	TimezoneExplicit TimezonePolicy = "explicit"
	// TimezoneServerClock текущее смещение часов сервера, как делал старый клиент
	TimezoneServerClock TimezonePolicy = "server_clock"
	TimezoneUTC         TimezonePolicy = "utc"
)

func ParseTimezonePolicy(s string) (TimezonePolicy, error) {
	switch policy := TimezonePolicy(strings.ToLower(strings.TrimSpace(s))); policy {
	case TimezoneExplicit, TimezoneServerClock, TimezoneUTC:
		return policy, nil
	case "":
		return TimezoneExplicit, nil
	default:
		return "", fmt.Errorf("unknown timezone policy %q", s)
	}
}

// RequiresOffset политика explicit не может работать без смещения в профиле
func (p TimezonePolicy) RequiresOffset() bool {
	return p == TimezoneExplicit
}

// BuildChartRequest раскладывает дату и время рождения в плоский запрос; секунды всегда 0
func BuildChartRequest(bd domain.BirthData, policy TimezonePolicy, now time.Time) (domain.ChartRequest, error) {
	if err := ValidateBirthData(bd); err != nil {
		return domain.ChartRequest{}, err
	}

	hours, minutes, err := parseClock(*bd.Time)
	if err != nil {
		return domain.ChartRequest{}, fmt.Errorf("%w: %v", domain.ErrIncompleteBirthData, err)
	}

	timezone, err := resolveOffset(bd, policy, now)
	if err != nil {
		return domain.ChartRequest{}, err
	}

	year, month, day := bd.Date.Date()
	return domain.ChartRequest{
		Year:      year,
		Month:     int(month),
		Date:      day,
		Hours:     hours,
		Minutes:   minutes,
		Seconds:   0,
		Latitude:  *bd.Latitude,
		Longitude: *bd.Longitude,
		Timezone:  timezone,
	}, nil
}

func resolveOffset(bd domain.BirthData, policy TimezonePolicy, now time.Time) (float64, error) {
	switch policy {
	case TimezoneServerClock:
		_, offset := now.Zone()
		return float64(offset) / 3600, nil
	case TimezoneUTC:
		return 0, nil
	default:
		if bd.TZOffset == nil {
			return 0, domain.ErrTimezoneRequired
		}
		return *bd.TZOffset, nil
	}
}

// parseClock принимает "HH:MM" и "HH:MM:SS"
func parseClock(value string) (int, int, error) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, 0, fmt.Errorf("invalid birth time %q", value)
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 || hours > 23 {
		return 0, 0, fmt.Errorf("invalid birth time %q", value)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, 0, fmt.Errorf("invalid birth time %q", value)
	}
	return hours, minutes, nil
}
