package filterresults

import (
	"time"

	"govscheme-workers/internal/common/config"
	"govscheme-workers/internal/scheme"
)

type Config struct {
	Timeout       time.Duration
	DefaultFilter scheme.Filter
	DefaultSort   scheme.SortMode
}

func LoadConfig(wcfg config.WorkerConfig) *Config {
	c := &Config{
		Timeout:       5 * time.Second,
		DefaultFilter: scheme.FilterAll,
		DefaultSort:   scheme.SortDefault,
	}
	if wcfg.Timeout > 0 {
		c.Timeout = config.GetDuration(wcfg.Timeout)
	}
	return c
}
