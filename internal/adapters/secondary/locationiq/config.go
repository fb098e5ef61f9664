package locationiq

import "time"

type Config struct {
	BaseURL string        `envconfig:"BASE_URL" default:"https://us1.locationiq.com/v1"`
	ApiKey  string        `envconfig:"API_KEY"`
	Timeout time.Duration `envconfig:"TIMEOUT" default:"10s"`
	// бесплатный тариф LocationIQ: 2 запроса в секунду
	RatePerSecond float64 `envconfig:"RATE_PER_SECOND" default:"2"`
	Burst         int     `envconfig:"BURST" default:"2"`
}
