package llm

import "time"

// Config подходит и для OpenAI, и для OpenAI-совместимых API (DeepSeek) через BASE_URL
type Config struct {
	BaseURL     string        `envconfig:"BASE_URL" default:"https://api.openai.com/v1"`
	ApiKey      string        `envconfig:"API_KEY"`
	Model       string        `envconfig:"MODEL" default:"gpt-4o-mini"`
	Temperature float32       `envconfig:"TEMPERATURE" default:"0.7"`
	MaxTokens   int           `envconfig:"MAX_TOKENS" default:"500"`
	Timeout     time.Duration `envconfig:"TIMEOUT" default:"120s"`
}
