package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/paquexpress/client-go/internal/core/domain"
	"github.com/paquexpress/client-go/internal/core/ports"
)

const (
	defaultTimeout = 5 * time.Second
	opTimeout      = 3 * time.Second

	keyAccessToken  = "session:access_token"
	keyRefreshToken = "session:refresh_token"
	keyTenantSlug   = "tenant:slug"
	keyTenantCache  = "tenant:cache"
	keyAuthSuccess  = "session:last_auth_success"
)

// RedisConfig captures the settings for establishing a Redis connection.
type RedisConfig struct {
	Addr    string
	DB      int
	Timeout time.Duration
}

// ConnectRedis initialises a Redis client and validates connectivity with a
// ping. A default timeout is applied when none is provided.
func ConnectRedis(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
		DB:   cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return client, nil
}

// RedisStore persists session and tenant state under a namespaced key
// prefix, so multiple workspaces can share one Redis instance.
type RedisStore struct {
	client *redis.Client
	prefix string
}

var _ ports.CredentialStore = (*RedisStore)(nil)

// NewRedisStore wraps client. prefix namespaces all keys; it defaults to
// "pqx".
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "pqx"
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) Credential() (domain.Credential, error) {
	ctx, cancel := s.opCtx()
	defer cancel()

	access, err := s.get(ctx, keyAccessToken)
	if err != nil {
		return domain.Credential{}, err
	}
	refresh, err := s.get(ctx, keyRefreshToken)
	if err != nil {
		return domain.Credential{}, err
	}
	return domain.Credential{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *RedisStore) SaveCredential(cred domain.Credential) error {
	ctx, cancel := s.opCtx()
	defer cancel()

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.key(keyAccessToken), cred.AccessToken, 0)
	pipe.Set(ctx, s.key(keyRefreshToken), cred.RefreshToken, 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save credential: %w", err)
	}
	return nil
}

func (s *RedisStore) ClearSession() error {
	ctx, cancel := s.opCtx()
	defer cancel()

	err := s.client.Del(ctx, s.key(keyAccessToken), s.key(keyRefreshToken), s.key(keyAuthSuccess)).Err()
	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (s *RedisStore) SelectedTenant() (string, *domain.Tenant, error) {
	ctx, cancel := s.opCtx()
	defer cancel()

	slug, err := s.get(ctx, keyTenantSlug)
	if err != nil {
		return "", nil, err
	}
	if slug == "" {
		return "", nil, nil
	}
	raw, err := s.get(ctx, keyTenantCache)
	if err != nil {
		return "", nil, err
	}
	if raw == "" {
		return slug, nil, nil
	}
	var tenant domain.Tenant
	if err := json.Unmarshal([]byte(raw), &tenant); err != nil {
		return "", nil, fmt.Errorf("decode cached tenant: %w", err)
	}
	return slug, &tenant, nil
}

func (s *RedisStore) SaveSelectedTenant(slug string, tenant *domain.Tenant) error {
	raw, err := json.Marshal(tenant)
	if err != nil {
		return fmt.Errorf("encode tenant: %w", err)
	}

	ctx, cancel := s.opCtx()
	defer cancel()

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.key(keyTenantSlug), slug, 0)
	pipe.Set(ctx, s.key(keyTenantCache), raw, 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save tenant selection: %w", err)
	}
	return nil
}

func (s *RedisStore) ClearTenant() error {
	ctx, cancel := s.opCtx()
	defer cancel()

	if err := s.client.Del(ctx, s.key(keyTenantSlug), s.key(keyTenantCache)).Err(); err != nil {
		return fmt.Errorf("clear tenant: %w", err)
	}
	return nil
}

func (s *RedisStore) MarkAuthSuccess(at time.Time) error {
	ctx, cancel := s.opCtx()
	defer cancel()
	return s.client.Set(ctx, s.key(keyAuthSuccess), at.UTC().Format(time.RFC3339), 0).Err()
}

func (s *RedisStore) LastAuthSuccess() (time.Time, bool) {
	ctx, cancel := s.opCtx()
	defer cancel()

	raw, err := s.get(ctx, keyAuthSuccess)
	if err != nil || raw == "" {
		return time.Time{}, false
	}
	at, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false
	}
	return at, true
}

func (s *RedisStore) key(suffix string) string {
	return s.prefix + ":" + suffix
}

func (s *RedisStore) get(ctx context.Context, suffix string) (string, error) {
	val, err := s.client.Get(ctx, s.key(suffix)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get %s: %w", suffix, err)
	}
	return val, nil
}

func (s *RedisStore) opCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), opTimeout)
}
