// internal/workers/assistant/manage-vip-visit/config.go
package managevipvisit

import (
	"fmt"
	"time"

	"assistant-console/internal/common/config"
)

type Config struct {
	Enabled       bool
	MaxJobsActive int
	Timeout       time.Duration
	Location      *time.Location
}

func LoadConfig(appConfig *config.Config) *Config {
	wc := config.GetWorkerConfig(appConfig, TaskType)
	return &Config{
		Enabled:       wc.Enabled,
		MaxJobsActive: wc.MaxJobsActive,
		Timeout:       config.GetDuration(wc.Timeout),
		Location:      appConfig.Assistant.Location(),
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxJobsActive <= 0 {
		return fmt.Errorf("max jobs active must be positive")
	}
	return nil
}
