// Package store provides the durable key-value backends for session and
// tenant selection state: a JSON file for interactive use and Redis for
// headless deployments that share one session across processes.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/paquexpress/client-go/internal/core/domain"
	"github.com/paquexpress/client-go/internal/core/ports"
)

const credentialsFile = "credentials.json"

// FileStore persists state in a single JSON file, created 0600 under a
// 0700 directory.
type FileStore struct {
	path string
	mu   sync.Mutex
}

var _ ports.CredentialStore = (*FileStore)(nil)

// fileState is the on-disk layout. The cached tenant stays raw until read
// so a corrupted object surfaces as a deserialization error, not a silent
// zero value.
type fileState struct {
	AccessToken     string          `json:"access_token,omitempty"`
	RefreshToken    string          `json:"refresh_token,omitempty"`
	TenantSlug      string          `json:"tenant_slug,omitempty"`
	Tenant          json.RawMessage `json:"tenant,omitempty"`
	LastAuthSuccess *time.Time      `json:"last_auth_success,omitempty"`
}

// NewFileStore creates a FileStore at path. An empty path defaults to
// ~/.paquexpress/credentials.json.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		dir := filepath.Join(home, ".paquexpress")
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("create state directory: %w", err)
		}
		path = filepath.Join(dir, credentialsFile)
	}
	return &FileStore{path: path}, nil
}

func (s *FileStore) Credential() (domain.Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, err := s.read()
	if err != nil {
		return domain.Credential{}, err
	}
	return domain.Credential{AccessToken: st.AccessToken, RefreshToken: st.RefreshToken}, nil
}

func (s *FileStore) SaveCredential(cred domain.Credential) error {
	return s.update(func(st *fileState) {
		st.AccessToken = cred.AccessToken
		st.RefreshToken = cred.RefreshToken
	})
}

func (s *FileStore) ClearSession() error {
	return s.update(func(st *fileState) {
		st.AccessToken = ""
		st.RefreshToken = ""
		st.LastAuthSuccess = nil
	})
}

func (s *FileStore) SelectedTenant() (string, *domain.Tenant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, err := s.read()
	if err != nil {
		return "", nil, err
	}
	if st.TenantSlug == "" {
		return "", nil, nil
	}
	if len(st.Tenant) == 0 {
		return st.TenantSlug, nil, nil
	}
	var tenant domain.Tenant
	if err := json.Unmarshal(st.Tenant, &tenant); err != nil {
		return "", nil, fmt.Errorf("decode cached tenant: %w", err)
	}
	return st.TenantSlug, &tenant, nil
}

func (s *FileStore) SaveSelectedTenant(slug string, tenant *domain.Tenant) error {
	raw, err := json.Marshal(tenant)
	if err != nil {
		return fmt.Errorf("encode tenant: %w", err)
	}
	return s.update(func(st *fileState) {
		st.TenantSlug = slug
		st.Tenant = raw
	})
}

func (s *FileStore) ClearTenant() error {
	return s.update(func(st *fileState) {
		st.TenantSlug = ""
		st.Tenant = nil
	})
}

func (s *FileStore) MarkAuthSuccess(at time.Time) error {
	return s.update(func(st *fileState) {
		t := at.UTC()
		st.LastAuthSuccess = &t
	})
}

func (s *FileStore) LastAuthSuccess() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, err := s.read()
	if err != nil || st.LastAuthSuccess == nil {
		return time.Time{}, false
	}
	return *st.LastAuthSuccess, true
}

func (s *FileStore) update(mutate func(*fileState)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, err := s.read()
	if err != nil {
		// A corrupt file is rewritten from scratch rather than wedging
		// every later write.
		st = &fileState{}
	}
	mutate(st)
	return s.write(st)
}

func (s *FileStore) read() (*fileState, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &fileState{}, nil
		}
		return nil, fmt.Errorf("read state file: %w", err)
	}
	var st fileState
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("decode state file: %w", err)
	}
	return &st, nil
}

func (s *FileStore) write(st *fileState) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state file: %w", err)
	}
	return os.WriteFile(s.path, data, 0600)
}
