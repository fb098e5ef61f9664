package alerter

import "time"

// Config чат (или топик форума), куда падают алерты джоб; пустой токен отключает алертер
type Config struct {
	BaseURL         string        `envconfig:"BASE_URL" default:"https://api.telegram.org"`
	BotToken        string        `envconfig:"BOT_TOKEN"`
	ChatID          int64         `envconfig:"CHAT_ID"`
	MessageThreadID *int64        `envconfig:"MESSAGE_THREAD_ID"`
	Timeout         time.Duration `envconfig:"TIMEOUT" default:"30s"`
}

func (c *Config) Enabled() bool {
	return c != nil && c.BotToken != "" && c.ChatID != 0
}
