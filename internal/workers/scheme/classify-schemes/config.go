package classifyschemes

import (
	"time"

	"govscheme-workers/internal/common/config"
)

type Config struct {
	Timeout time.Duration
	// Details also returns the detail-view projection of every scheme.
	Details bool
}

func LoadConfig(wcfg config.WorkerConfig) *Config {
	c := &Config{Timeout: 5 * time.Second, Details: true}
	if wcfg.Timeout > 0 {
		c.Timeout = config.GetDuration(wcfg.Timeout)
	}
	return c
}
