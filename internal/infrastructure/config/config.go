package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

// Config holds the client-side settings. The API origin and the workspace
// host are externally configurable; the administrative host allow-list is a
// fixed constant in the domain resolver.
type Config struct {
	// APIOrigin is the base URL of the Paquexpress backend.
	APIOrigin string `env:"PQX_API_ORIGIN, default=https://api.paquexpress.com"`
	// BaseDomain anchors subdomain-based tenant resolution.
	BaseDomain string `env:"PQX_BASE_DOMAIN, default=paquexpress.com"`
	// Host is the workspace host the client acts for, e.g.
	// "acme.paquexpress.com". It drives tenant resolution.
	Host     string `env:"PQX_HOST, default=paquexpress.com"`
	LogLevel string `env:"PQX_LOG_LEVEL, default=info"`
	// Store selects the credential store backend: file or redis.
	Store string `env:"PQX_STORE, default=file"`
	// StatePath overrides the file store location.
	StatePath string `env:"PQX_STATE_PATH"`

	Redis RedisConfig
}

type RedisConfig struct {
	Addr   string `env:"PQX_REDIS_ADDR,   default=localhost:6379"`
	DB     int    `env:"PQX_REDIS_DB,     default=0"`
	Prefix string `env:"PQX_REDIS_PREFIX, default=pqx"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
