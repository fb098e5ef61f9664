package chat

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/admin/astro-match/internal/domain"
)

const systemPrompt = "You are an expert in Vedic astrology with deep knowledge of birth charts, compatibility matching, " +
	"and astrological predictions. Provide insightful, accurate information about astrological concepts, " +
	"planetary influences, and relationship compatibility. Your responses should reflect the depth and " +
	"complexity of Vedic astrological traditions while being accessible to beginners. " +
	"When discussing compatibility, consider factors like Mangal Dosha, Nakshatras, and planetary positions." +
	"\n\nThe current date and time is: "

const dashaGuidance = "\n\nYou have access to the user's Dasha periods information, which shows the planetary periods " +
	"that influence different phases of their life according to Vedic astrology. When asked about past, present, " +
	"or future phases, refer to the appropriate Dasha and Antardasha (sub-period) information."

// BuildMessages системное сообщение и вопрос пользователя с приклеенными данными карты и даш
func BuildMessages(req domain.ChatRequest, now time.Time) []domain.LLMMessage {
	currentDateTime := req.CurrentDateTime
	if currentDateTime == "" {
		currentDateTime = now.UTC().Format("2006-01-02T15:04:05.000Z")
	}
	system := systemPrompt + currentDateTime

	user := req.Prompt
	if chartData, ok := compactJSON(req.ChartData); ok {
		user = "My birth chart data: " + chartData + "\n\n" + user
	}
	if dashaData, ok := compactJSON(req.DashaData); ok {
		user = "My dasha data: " + dashaData + "\n\n" + user
		system += dashaGuidance
	}

	return []domain.LLMMessage{
		{Role: domain.LLMRoleSystem, Content: system},
		{Role: domain.LLMRoleUser, Content: user},
	}
}

func compactJSON(raw json.RawMessage) (string, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return "", false
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return string(trimmed), true
	}
	return buf.String(), true
}
