package keystore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	fileDirMode  = 0o700
	fileDataMode = 0o600
)

// FileStore keeps the credential in a small YAML file.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: filepath.Clean(os.ExpandEnv(path))}
}

func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Get(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, err := s.load()
	if err != nil {
		return "", err
	}

	key := strings.TrimSpace(v.GetString(CredentialKey))
	if key == "" {
		return "", ErrNotConfigured
	}
	return key, nil
}

func (s *FileStore) Set(_ context.Context, key string) error {
	key, err := normalize(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(key)
}

func (s *FileStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return s.write("")
}

func (s *FileStore) load() (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigFile(s.path)
	v.SetConfigType("yaml")

	if _, err := os.Stat(s.path); errors.Is(err, fs.ErrNotExist) {
		return v, nil
	}
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read credential file %s: %w", s.path, err)
	}
	return v, nil
}

func (s *FileStore) write(key string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), fileDirMode); err != nil {
		return fmt.Errorf("failed to create credential directory: %w", err)
	}

	// viper lowercases keys on write, so the file is encoded directly
	data, err := yaml.Marshal(map[string]string{CredentialKey: key})
	if err != nil {
		return fmt.Errorf("failed to encode credential file: %w", err)
	}
	if err := os.WriteFile(s.path, data, fileDataMode); err != nil {
		return fmt.Errorf("failed to write credential file %s: %w", s.path, err)
	}
	return os.Chmod(s.path, fileDataMode)
}
