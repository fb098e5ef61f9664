package domain

import (
	"time"

	"github.com/google/uuid"
)

// Profile данные пользователя и его рождения
type Profile struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	Name          string     `json:"name" db:"name"`
	Gender        string     `json:"gender" db:"gender"`
	BirthDate     *time.Time `json:"birth_date,omitempty" db:"birth_date"`
	BirthTime     *string    `json:"birth_time,omitempty" db:"birth_time"` // HH:MM
	BirthPlace    *string    `json:"birth_place,omitempty" db:"birth_place"`
	BirthPlaceLat *float64   `json:"birth_place_lat,omitempty" db:"birth_place_lat"`
	BirthPlaceLng *float64   `json:"birth_place_lng,omitempty" db:"birth_place_lng"`
	BirthTZOffset *float64   `json:"birth_tz_offset,omitempty" db:"birth_tz_offset"` // часы относительно UTC
	AvatarURL     *string    `json:"avatar_url,omitempty" db:"avatar_url"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}

// BirthData собирает данные рождения профиля для расчёта карты
func (p *Profile) BirthData() BirthData {
	return BirthData{
		Date:      p.BirthDate,
		Time:      p.BirthTime,
		Latitude:  p.BirthPlaceLat,
		Longitude: p.BirthPlaceLng,
		TZOffset:  p.BirthTZOffset,
	}
}

// BirthDataChanged сообщает, отличаются ли данные рождения двух версий профиля
func (p *Profile) BirthDataChanged(other *Profile) bool {
	if other == nil {
		return true
	}
	return !sameDate(p.BirthDate, other.BirthDate) ||
		!sameString(p.BirthTime, other.BirthTime) ||
		!sameString(p.BirthPlace, other.BirthPlace) ||
		!sameFloat(p.BirthPlaceLat, other.BirthPlaceLat) ||
		!sameFloat(p.BirthPlaceLng, other.BirthPlaceLng) ||
		!sameFloat(p.BirthTZOffset, other.BirthTZOffset)
}

func sameDate(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func sameString(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func sameFloat(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
