package domain

import (
	"errors"
	"fmt"
)

// BusinessError ошибка бизнес-логики, которая уже залогирована в UseCase
type BusinessError struct {
	Err error
}

func (e *BusinessError) Error() string {
	return e.Err.Error()
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func WrapBusinessError(err error) error {
	if err == nil {
		return nil
	}
	return &BusinessError{Err: err}
}

func IsBusinessError(err error) bool {
	var businessErr *BusinessError
	return errors.As(err, &businessErr)
}

var (
	ErrNotFound            = errors.New("not found")
	ErrIncompleteBirthData = errors.New("birth data is incomplete")
	ErrTimezoneRequired    = errors.New("timezone offset required")
	ErrEmptyPrompt         = errors.New("Prompt is required")
	ErrStorageDisabled     = errors.New("file storage is not configured")
	ErrInvalidChartKind    = errors.New("invalid chart kind")
	ErrInvalidMatch        = errors.New("invalid match")
)

// ProviderError ошибка внешнего провайдера, пришедшая в теле ответа
type ProviderError struct {
	Message string
	Details string
}

func (e *ProviderError) Error() string {
	if e.Details == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Message, e.Details)
}

func AsProviderError(err error) (*ProviderError, bool) {
	var providerErr *ProviderError
	if errors.As(err, &providerErr) {
		return providerErr, true
	}
	return nil, false
}
