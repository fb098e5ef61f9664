package astroApi

import "time"

type Config struct {
	BaseURL string        `envconfig:"BASE_URL" default:"https://json.apiastro.com"`
	ApiKey  string        `envconfig:"API_KEY"`
	SkipSSL string        `envconfig:"SKIP_SSL"` // Railway требует строки вместо bool
	Timeout time.Duration `envconfig:"TIMEOUT" default:"30s"`
}

func (c *Config) ShouldSkipSSL() bool {
	return c.SkipSSL == "true" || c.SkipSSL == "1" || c.SkipSSL == "True"
}
