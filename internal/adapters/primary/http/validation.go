package server

import (
	"fmt"
	"time"

	"github.com/admin/astro-match/internal/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators добавляет в валидатор gin правила домена
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected gin validator engine %T", binding.Validator.Engine())
	}

	if err := v.RegisterValidation("chart_kind", validateChartKind); err != nil {
		return fmt.Errorf("failed to register chart_kind validation: %w", err)
	}
	if err := v.RegisterValidation("astro_endpoint", validateAstroEndpoint); err != nil {
		return fmt.Errorf("failed to register astro_endpoint validation: %w", err)
	}
	if err := v.RegisterValidation("clock", validateClock); err != nil {
		return fmt.Errorf("failed to register clock validation: %w", err)
	}
	return nil
}

func validateChartKind(fl validator.FieldLevel) bool {
	return domain.ChartKind(fl.Field().String()).IsValid()
}

func validateAstroEndpoint(fl validator.FieldLevel) bool {
	return domain.IsKnownEndpoint(fl.Field().String())
}

// validateClock время рождения HH:MM или HH:MM:SS
func validateClock(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	for _, layout := range []string{"15:04", "15:04:05"} {
		if _, err := time.Parse(layout, value); err == nil {
			return true
		}
	}
	return false
}
