package astroApi

import (
	"bytes"
	"encoding/json"

	"github.com/admin/astro-match/internal/domain"
)

const genericInBandError = "Astrology API returned an error"

// inBandError ошибка в теле ответа с кодом 200.
// Ошибкой считается любое значение поля error, кроме null, false, 0 и пустой строки
func inBandError(body []byte) (*domain.ProviderError, bool) {
	var fields map[string]json.RawMessage
	// массив или скаляр, поля error нет
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, false
	}

	raw, ok := fields["error"]
	if !ok || !truthy(raw) {
		return nil, false
	}

	message := jsonText(raw)
	if message == "true" {
		message = genericInBandError
	}

	details := jsonText(fields["details"])
	if details == "" {
		details = jsonText(fields["rawResponse"])
	}

	return &domain.ProviderError{Message: message, Details: details}, true
}

func truthy(raw json.RawMessage) bool {
	switch string(bytes.TrimSpace(raw)) {
	case "", "null", "false", "0", `""`:
		return false
	default:
		return true
	}
}

// jsonText строка как есть, остальное компактным JSON
func jsonText(raw json.RawMessage) string {
	if len(raw) == 0 || string(bytes.TrimSpace(raw)) == "null" {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}
