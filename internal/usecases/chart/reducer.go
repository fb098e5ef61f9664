package chart

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/admin/astro-match/internal/domain"
)

var errNotObject = errors.New("not a JSON object")

// dashaTimeLayouts форматы start_time/end_time, которые встречались у провайдера; без зоны считаем UTC
var dashaTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

type providerEnvelope struct {
	StatusCode int             `json:"statusCode"`
	Output     json.RawMessage `json:"output"`
}

type planetPosition struct {
	ZodiacSignName string `json:"zodiac_sign_name"`
}

type dashaRange struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type member struct {
	key   string
	value json.RawMessage
}

// Reduce сворачивает сырой ответ провайдера в сводку. Функция чистая и не паникует:
// каждое поле независимо остаётся "Unknown", если его не удалось извлечь.
// Ошибка означает, что payload повреждён, сводка при этом всё равно валидна
func Reduce(kind domain.ChartKind, payload json.RawMessage, now time.Time) (domain.ChartSummary, error) {
	summary := domain.UnknownSummary()

	var planets, dashas json.RawMessage
	switch {
	case kind == domain.ChartKindBirth:
		var combined birthChartPayload
		if err := json.Unmarshal(payload, &combined); err != nil {
			return summary, fmt.Errorf("failed to parse birth chart payload: %w", err)
		}
		planets, dashas = combined.Planets, combined.Dashas
	case kind == domain.ChartKindDasha:
		dashas = payload
	default:
		planets = payload
	}

	var errs []error
	if err := reducePlanets(planets, &summary); err != nil {
		errs = append(errs, err)
	}
	if err := reduceDashas(dashas, now, &summary); err != nil {
		errs = append(errs, err)
	}
	return summary, errors.Join(errs...)
}

// okOutput output ответа со statusCode 200, иначе nil
func okOutput(raw json.RawMessage) (json.RawMessage, error) {
	if isNull(raw) {
		return nil, nil
	}

	var envelope providerEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, err
	}
	if envelope.StatusCode != 200 || isNull(envelope.Output) {
		return nil, nil
	}
	return envelope.Output, nil
}

func reducePlanets(raw json.RawMessage, summary *domain.ChartSummary) error {
	output, err := okOutput(raw)
	if err != nil {
		return fmt.Errorf("failed to parse planets: %w", err)
	}
	if output == nil || firstByte(output) != '{' {
		return nil
	}

	var positions map[string]json.RawMessage
	if err := json.Unmarshal(output, &positions); err != nil {
		return fmt.Errorf("failed to parse planets output: %w", err)
	}

	summary.Ascendant = signOf(positions["Ascendant"])
	summary.MoonSign = signOf(positions["Moon"])
	summary.SunSign = signOf(positions["Sun"])
	return nil
}

func signOf(raw json.RawMessage) string {
	var position planetPosition
	if isNull(raw) || json.Unmarshal(raw, &position) != nil || position.ZodiacSignName == "" {
		return domain.Unknown
	}
	return position.ZodiacSignName
}

// reduceDashas ищет первый антардаша-интервал, содержащий now, в порядке следования в документе
func reduceDashas(raw json.RawMessage, now time.Time, summary *domain.ChartSummary) error {
	output, err := okOutput(raw)
	if err != nil {
		return fmt.Errorf("failed to parse dashas: %w", err)
	}
	if output == nil {
		return nil
	}

	// output иногда приходит строкой с JSON внутри
	if firstByte(output) == '"' {
		var inner string
		if err := json.Unmarshal(output, &inner); err != nil {
			return fmt.Errorf("failed to parse dasha output string: %w", err)
		}
		output = json.RawMessage(inner)
	}

	mahas, err := orderedMembers(output)
	if err != nil {
		return fmt.Errorf("failed to parse dasha output: %w", err)
	}

	for _, maha := range mahas {
		antars, err := orderedMembers(maha.value)
		if err != nil {
			continue
		}
		for _, antar := range antars {
			var period dashaRange
			if json.Unmarshal(antar.value, &period) != nil {
				continue
			}
			start, okStart := parseDashaTime(period.StartTime)
			end, okEnd := parseDashaTime(period.EndTime)
			if !okStart || !okEnd {
				continue
			}
			if !now.Before(start) && !now.After(end) {
				summary.CurrentDasha = fmt.Sprintf("%s - %s", maha.key, antar.key)
				return nil
			}
		}
	}
	return nil
}

// orderedMembers пары ключ-значение объекта в исходном порядке (map его теряет)
func orderedMembers(raw json.RawMessage) ([]member, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errNotObject
	}

	var members []member
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := keyTok.(string)

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
		members = append(members, member{key: key, value: value})
	}

	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return members, nil
}

func parseDashaTime(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range dashaTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func firstByte(raw json.RawMessage) byte {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
