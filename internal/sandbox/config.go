// Package sandbox implements a local development backend that mimics the
// production Paquexpress API: credential issuance and renewal, the current
// user endpoint, the empresa list and the per-empresa profile. It exists so
// the client core can be exercised end to end without the real platform.
package sandbox

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"SANDBOX_PORT,      default=8080"`
	Env       string `env:"SANDBOX_ENV,       default=development"`
	JWTSecret string `env:"SANDBOX_JWT_SECRET, default=sandbox-secret"`
	LogLevel  string `env:"SANDBOX_LOG_LEVEL, default=info"`
	// Backend selects the repository implementation: memory or mongo.
	Backend string `env:"SANDBOX_BACKEND, default=memory"`
	// Seed loads the fixture accounts and empresas at startup.
	Seed bool `env:"SANDBOX_SEED, default=true"`

	AccessTTL  time.Duration `env:"SANDBOX_ACCESS_TTL,  default=15m"`
	RefreshTTL time.Duration `env:"SANDBOX_REFRESH_TTL, default=720h"`

	Mongo MongoConfig
}

type MongoConfig struct {
	URI      string `env:"SANDBOX_MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"SANDBOX_MONGO_DB,  default=paquexpress_sandbox"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("sandbox config: %w", err)
	}
	return &cfg, nil
}
