package chart

import (
	"fmt"
	"strings"

	"github.com/admin/astro-match/internal/domain"
)

// ValidateBirthData готово к расчёту только при заполненных дате, времени, широте и долготе
func ValidateBirthData(bd domain.BirthData) error {
	var missing []string
	if bd.Date == nil {
		missing = append(missing, "birth date")
	}
	if bd.Time == nil || strings.TrimSpace(*bd.Time) == "" {
		missing = append(missing, "birth time")
	}
	if bd.Latitude == nil {
		missing = append(missing, "latitude")
	}
	if bd.Longitude == nil {
		missing = append(missing, "longitude")
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", domain.ErrIncompleteBirthData, strings.Join(missing, ", "))
	}
	return nil
}
