package scheduler

import (
	"time"

	appconfig "github.com/smallbiznis/mensa/internal/config"
)

// Config controls retrain cadence and bounds.
type Config struct {
	TrainOnStart bool
	RetrainEvery time.Duration
	TrainTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		TrainOnStart: true,
		RetrainEvery: time.Hour,
		TrainTimeout: 5 * time.Minute,
	}
}

func (c Config) withDefaults() Config {
	defaults := DefaultConfig()
	if c.RetrainEvery <= 0 {
		c.RetrainEvery = defaults.RetrainEvery
	}
	if c.TrainTimeout <= 0 {
		c.TrainTimeout = defaults.TrainTimeout
	}
	return c
}

// ProvideConfig derives scheduler settings from application config.
func ProvideConfig(cfg appconfig.Config) Config {
	return Config{
		TrainOnStart: cfg.Recommend.TrainOnStart,
		RetrainEvery: cfg.Recommend.RetrainEvery,
		TrainTimeout: cfg.Recommend.TrainTimeout,
	}
}
