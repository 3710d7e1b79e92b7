package keystore

import (
	"context"
	"fmt"

	"github.com/llmgate/promptimprover/internal/config"
)

// New builds the configured backend behind a read cache. The returned close
// function releases backend clients and is always non-nil.
func New(ctx context.Context, credentialsConfig config.CredentialsConfig) (Store, func() error, error) {
	noop := func() error { return nil }

	var backend Store
	closer := noop
	switch credentialsConfig.Backend {
	case "file", "":
		backend = NewFileStore(credentialsConfig.Path)
	case "memory":
		backend = NewMemoryStore()
	case "gcs":
		gcsStore, err := NewGCSStore(ctx, credentialsConfig.Bucket, credentialsConfig.Prefix, credentialsConfig.JsonKey)
		if err != nil {
			return nil, noop, err
		}
		backend = gcsStore
		closer = gcsStore.Close
	default:
		return nil, noop, fmt.Errorf("unsupported credentials backend %q", credentialsConfig.Backend)
	}

	if credentialsConfig.CacheTTL <= 0 {
		return backend, closer, nil
	}
	return NewCachedStore(backend, credentialsConfig.CacheTTL), closer, nil
}
