package jobs

type Config struct {
	Enabled         bool `envconfig:"ENABLED" default:"true"`
	AvatarSweepHour int  `envconfig:"AVATAR_SWEEP_HOUR" default:"4"` // UTC
}
