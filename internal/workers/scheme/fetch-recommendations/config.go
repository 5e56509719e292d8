package fetchrecommendations

import (
	"time"

	"govscheme-workers/internal/common/config"
)

type Config struct {
	// Covers the 30s gateway call plus both session updates.
	Timeout time.Duration
}

func LoadConfig(wcfg config.WorkerConfig) *Config {
	c := &Config{Timeout: 35 * time.Second}
	if wcfg.Timeout > 0 {
		c.Timeout = config.GetDuration(wcfg.Timeout)
	}
	return c
}
