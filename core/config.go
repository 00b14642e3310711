package core

import (
	"fmt"
	"strings"
	"time"
)

// FacebookConfig configures the Graph API collaborator. TimeCreatedFloor is
// the fixed unix-epoch threshold of the time_created filter; the filter is
// cumulative from this floor, not incremental per run, so a failed page is
// retried naturally on the next invocation.
type FacebookConfig struct {
	APIBaseURL       string        `koanf:"api_base_url" mapstructure:"api_base_url"`
	TimeCreatedFloor int64         `koanf:"time_created_floor" mapstructure:"time_created_floor"`
	RequestTimeout   time.Duration `koanf:"request_timeout" mapstructure:"request_timeout"`
}

// SyncConfig bounds a single sync invocation.
type SyncConfig struct {
	MaxPages int `koanf:"max_pages" mapstructure:"max_pages"`
}

type Config struct {
	ServiceName string         `koanf:"service_name" mapstructure:"service_name"`
	Facebook    FacebookConfig `koanf:"facebook" mapstructure:"facebook"`
	Sync        SyncConfig     `koanf:"sync" mapstructure:"sync"`
}

func DefaultConfig() Config {
	return Config{
		ServiceName: "leadgen",
		Facebook: FacebookConfig{
			APIBaseURL:       "https://graph.facebook.com/v6.0/",
			TimeCreatedFloor: 1537920000,
			RequestTimeout:   30 * time.Second,
		},
		Sync: SyncConfig{
			MaxPages: DefaultMaxPages,
		},
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.ServiceName) == "" {
		return fmt.Errorf("core: service_name is required")
	}
	if strings.TrimSpace(c.Facebook.APIBaseURL) == "" {
		return fmt.Errorf("core: facebook.api_base_url is required")
	}
	if c.Facebook.TimeCreatedFloor < 0 {
		return fmt.Errorf("core: facebook.time_created_floor must not be negative")
	}
	if c.Sync.MaxPages < 0 {
		return fmt.Errorf("core: sync.max_pages must not be negative")
	}
	return nil
}
