package explorecatalog

import (
	"time"

	"govscheme-workers/internal/common/config"
	"govscheme-workers/internal/reference"
)

type Config struct {
	Timeout    time.Duration
	DefaultTab reference.ExplorerTab
}

func LoadConfig(wcfg config.WorkerConfig) *Config {
	c := &Config{
		Timeout:    2 * time.Second,
		DefaultTab: reference.TabCategories,
	}
	if wcfg.Timeout > 0 {
		c.Timeout = config.GetDuration(wcfg.Timeout)
	}
	return c
}
