package app

import (
	"fmt"

	server "github.com/admin/astro-match/internal/adapters/primary/http"
	alerterAdapter "github.com/admin/astro-match/internal/adapters/secondary/alerter"
	astroApi "github.com/admin/astro-match/internal/adapters/secondary/astroApi"
	kafkaAdapter "github.com/admin/astro-match/internal/adapters/secondary/kafka"
	"github.com/admin/astro-match/internal/adapters/secondary/llm"
	"github.com/admin/astro-match/internal/adapters/secondary/locationiq"
	"github.com/admin/astro-match/internal/adapters/secondary/storage/pg"
	redisAdapter "github.com/admin/astro-match/internal/adapters/secondary/storage/redis"
	s3Adapter "github.com/admin/astro-match/internal/adapters/secondary/storage/s3"
	"github.com/admin/astro-match/internal/pkg/logger"
	jobScheduler "github.com/admin/astro-match/internal/services/jobs"
	chartUsecase "github.com/admin/astro-match/internal/usecases/chart"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Postgres   *pg.Config                `envconfig:"POSTGRES"`
	Log        *logger.Config            `envconfig:"LOG"`
	Server     *server.Config            `envconfig:"APISERVER"`
	AstroAPI   *astroApi.Config          `envconfig:"ASTRO_API"`
	LocationIQ *locationiq.Config        `envconfig:"LOCATIONIQ"`
	LLM        *llm.Config               `envconfig:"LLM"`
	Redis      *redisAdapter.Config      `envconfig:"REDIS"`
	S3         *s3Adapter.Config         `envconfig:"S3"`
	Kafka      kafkaAdapter.KafkaConfigs `envconfig:"KAFKA"`
	Alerter    *alerterAdapter.Config    `envconfig:"ALERTER"`
	Chart      *chartUsecase.Config      `envconfig:"CHART"`
	Jobs       *jobScheduler.Config      `envconfig:"JOBS"`
}

func NewEnvConfig(envPrefix string) (*Config, error) {
	cfg := &Config{}

	_ = godotenv.Load("deployments/local/.env")

	if err := envconfig.Process(envPrefix, cfg); err != nil {
		return nil, err
	}

	// envconfig не умеет определять размер слайса, список Kafka грузим вручную
	if err := cfg.Kafka.Load(envPrefix); err != nil {
		return nil, fmt.Errorf("failed to load kafka config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Postgres == nil {
		return fmt.Errorf("postgres config is required")
	}
	if c.Server == nil {
		return fmt.Errorf("apiserver config is required")
	}
	if c.Chart != nil {
		if _, err := chartUsecase.ParseTimezonePolicy(c.Chart.TimezonePolicy); err != nil {
			return fmt.Errorf("invalid chart config: %w", err)
		}
	}
	if c.Jobs != nil && (c.Jobs.AvatarSweepHour < 0 || c.Jobs.AvatarSweepHour > 23) {
		return fmt.Errorf("invalid jobs config: avatar sweep hour %d", c.Jobs.AvatarSweepHour)
	}
	return nil
}
