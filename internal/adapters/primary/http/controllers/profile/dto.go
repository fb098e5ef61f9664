package profileController

import (
	"time"

	"github.com/admin/astro-match/internal/domain"
)

const dateLayout = "2006-01-02"

type profileRequest struct {
	Name          string   `json:"name" binding:"required,max=100"`
	Gender        string   `json:"gender" binding:"omitempty,max=32"`
	BirthDate     *string  `json:"birth_date" binding:"omitempty,datetime=2006-01-02"`
	BirthTime     *string  `json:"birth_time" binding:"omitempty,clock"`
	BirthPlace    *string  `json:"birth_place" binding:"omitempty,max=255"`
	BirthPlaceLat *float64 `json:"birth_place_lat" binding:"omitempty,latitude"`
	BirthPlaceLng *float64 `json:"birth_place_lng" binding:"omitempty,longitude"`
	BirthTZOffset *float64 `json:"birth_tz_offset" binding:"omitempty,min=-12,max=14"`
}

func (r *profileRequest) toDomain() domain.Profile {
	p := domain.Profile{
		Name:          r.Name,
		Gender:        r.Gender,
		BirthTime:     r.BirthTime,
		BirthPlace:    r.BirthPlace,
		BirthPlaceLat: r.BirthPlaceLat,
		BirthPlaceLng: r.BirthPlaceLng,
		BirthTZOffset: r.BirthTZOffset,
	}
	if r.BirthDate != nil {
		// формат уже проверен валидатором
		if d, err := time.Parse(dateLayout, *r.BirthDate); err == nil {
			p.BirthDate = &d
		}
	}
	return p
}

type profileResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Gender        string    `json:"gender"`
	BirthDate     *string   `json:"birth_date"`
	BirthTime     *string   `json:"birth_time"`
	BirthPlace    *string   `json:"birth_place"`
	BirthPlaceLat *float64  `json:"birth_place_lat"`
	BirthPlaceLng *float64  `json:"birth_place_lng"`
	BirthTZOffset *float64  `json:"birth_tz_offset"`
	AvatarURL     *string   `json:"avatar_url"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func toResponse(p *domain.Profile) profileResponse {
	resp := profileResponse{
		ID:            p.ID.String(),
		Name:          p.Name,
		Gender:        p.Gender,
		BirthTime:     p.BirthTime,
		BirthPlace:    p.BirthPlace,
		BirthPlaceLat: p.BirthPlaceLat,
		BirthPlaceLng: p.BirthPlaceLng,
		BirthTZOffset: p.BirthTZOffset,
		AvatarURL:     p.AvatarURL,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	if p.BirthDate != nil {
		d := p.BirthDate.Format(dateLayout)
		resp.BirthDate = &d
	}
	return resp
}
