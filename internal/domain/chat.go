package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type ChatMessage struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Message   string    `json:"message" db:"message"`
	IsFromAI  bool      `json:"is_from_ai" db:"is_from_ai"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ChatRequest вопрос пользователя с необязательным контекстом карты
type ChatRequest struct {
	Prompt          string          `json:"prompt"`
	ChartData       json.RawMessage `json:"chartData,omitempty"`
	DashaData       json.RawMessage `json:"dashaData,omitempty"`
	CurrentDateTime string          `json:"currentDateTime,omitempty"`
	ChartType       string          `json:"chartType,omitempty"`
}

// ChatFragment одна строка NDJSON-потока ответа
type ChatFragment struct {
	Delta        string `json:"delta,omitempty"`
	FullResponse string `json:"fullResponse,omitempty"`
	Response     string `json:"response,omitempty"`
	Done         bool   `json:"done,omitempty"`
	Error        string `json:"error,omitempty"`
}

// LLMMessage сообщение для модели
type LLMMessage struct {
	Role    string
	Content string
}

const (
	LLMRoleSystem = "system"
	LLMRoleUser   = "user"
)
