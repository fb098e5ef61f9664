package app

import (
	"testing"

	server "github.com/admin/astro-match/internal/adapters/primary/http"
	"github.com/admin/astro-match/internal/adapters/secondary/storage/pg"
	jobScheduler "github.com/admin/astro-match/internal/services/jobs"
	chartUsecase "github.com/admin/astro-match/internal/usecases/chart"
	"github.com/stretchr/testify/assert"
)

func TestConfigValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Postgres: &pg.Config{},
			Server:   &server.Config{},
			Chart:    &chartUsecase.Config{TimezonePolicy: "explicit"},
			Jobs:     &jobScheduler.Config{Enabled: true, AvatarSweepHour: 4},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "no postgres", mutate: func(c *Config) { c.Postgres = nil }, wantErr: "postgres config is required"},
		{name: "no server", mutate: func(c *Config) { c.Server = nil }, wantErr: "apiserver config is required"},
		{name: "unknown timezone policy", mutate: func(c *Config) { c.Chart.TimezonePolicy = "local" }, wantErr: "invalid chart config"},
		{name: "sweep hour out of range", mutate: func(c *Config) { c.Jobs.AvatarSweepHour = 24 }, wantErr: "avatar sweep hour 24"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)

			err := cfg.validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
