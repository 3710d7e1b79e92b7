package keystore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCSStore keeps the credential as a single object in a Cloud Storage bucket.
type GCSStore struct {
	client *storage.Client
	bucket string
	object string
}

func NewGCSStore(ctx context.Context, bucket, prefix, jsonCredentialsStr string) (*GCSStore, error) {
	var client *storage.Client
	var err error
	if jsonCredentialsStr == "" {
		// workload identity / application default credentials
		client, err = storage.NewClient(ctx)
	} else {
		client, err = storage.NewClient(ctx, option.WithCredentialsJSON([]byte(jsonCredentialsStr)))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	return &GCSStore{
		client: client,
		bucket: bucket,
		object: objectName(prefix),
	}, nil
}

func objectName(prefix string) string {
	return prefix + CredentialKey
}

func (s *GCSStore) Close() error {
	return s.client.Close()
}

func (s *GCSStore) Get(ctx context.Context) (string, error) {
	reader, err := s.client.Bucket(s.bucket).Object(s.object).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return "", ErrNotConfigured
	}
	if err != nil {
		return "", fmt.Errorf("failed to open gs://%s/%s: %w", s.bucket, s.object, err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("failed to read gs://%s/%s: %w", s.bucket, s.object, err)
	}

	key := strings.TrimSpace(string(data))
	if key == "" {
		return "", ErrNotConfigured
	}
	return key, nil
}

func (s *GCSStore) Set(ctx context.Context, key string) error {
	key, err := normalize(key)
	if err != nil {
		return err
	}

	writer := s.client.Bucket(s.bucket).Object(s.object).NewWriter(ctx)
	writer.ContentType = "text/plain"
	if _, err := io.WriteString(writer, key); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write gs://%s/%s: %w", s.bucket, s.object, err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to write gs://%s/%s: %w", s.bucket, s.object, err)
	}
	return nil
}

func (s *GCSStore) Clear(ctx context.Context) error {
	err := s.client.Bucket(s.bucket).Object(s.object).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("failed to delete gs://%s/%s: %w", s.bucket, s.object, err)
	}
	return nil
}
