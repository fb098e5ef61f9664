package domain

import (
	"time"

	"github.com/google/uuid"
)

// Match пара для проверки совместимости, созданная пользователем
type Match struct {
	ID                   uuid.UUID  `json:"id" db:"id"`
	UserID               uuid.UUID  `json:"user_id" db:"user_id"`
	PartnerName          string     `json:"partner_name" db:"partner_name"`
	PartnerBirthDate     *time.Time `json:"partner_birth_date,omitempty" db:"partner_birth_date"`
	PartnerBirthTime     *string    `json:"partner_birth_time,omitempty" db:"partner_birth_time"`
	PartnerBirthPlace    *string    `json:"partner_birth_place,omitempty" db:"partner_birth_place"`
	PartnerBirthPlaceLat *float64   `json:"partner_birth_place_lat,omitempty" db:"partner_birth_place_lat"`
	PartnerBirthPlaceLng *float64   `json:"partner_birth_place_lng,omitempty" db:"partner_birth_place_lng"`
	CompatibilityScore   *int       `json:"compatibility_score" db:"compatibility_score"` // nil пока не посчитан
	CreatedAt            time.Time  `json:"created_at" db:"created_at"`
}

// MaxCompatibilityScore максимум по шкале гун (ашта-кута)
const MaxCompatibilityScore = 36
