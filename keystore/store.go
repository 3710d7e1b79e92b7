// Package keystore persists the single API credential the tool runs with.
package keystore

import (
	"context"
	"errors"
	"strings"
)

// CredentialKey is the fixed key the credential is stored under in every
// backend.
const CredentialKey = "apiKey"

var (
	ErrNotConfigured = errors.New("api key is not configured")
	ErrEmptyKey      = errors.New("api key must not be empty")
)

type Store interface {
	// Get returns ErrNotConfigured when no credential is stored.
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

func normalize(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", ErrEmptyKey
	}
	return key, nil
}
