package sendchatmessage

import (
	"time"

	"govscheme-workers/internal/common/config"
)

type Config struct {
	Timeout time.Duration
	// Transcript turns returned to the process; the session keeps more.
	TranscriptLimit int
}

func LoadConfig(wcfg config.WorkerConfig) *Config {
	c := &Config{Timeout: 35 * time.Second, TranscriptLimit: 20}
	if wcfg.Timeout > 0 {
		c.Timeout = config.GetDuration(wcfg.Timeout)
	}
	return c
}
