package chart

import "time"

type Config struct {
	TimezonePolicy string        `envconfig:"TIMEZONE_POLICY" default:"explicit"` // explicit | server_clock | utc
	CacheTTL       time.Duration `envconfig:"CACHE_TTL" default:"24h"`
}
