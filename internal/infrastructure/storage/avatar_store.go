package storage

import (
	"context"
	"io"

	"cloud.google.com/go/storage"

	"github.com/oksasatya/go-posts-api/pkg/helpers"
)

// Avatar object paths embed a random id, so a long public cache is safe.
const avatarCacheControl = "public, max-age=86400"

// GCSStore uploads objects to one Google Cloud Storage bucket.
type GCSStore struct {
	client *storage.Client
	bucket string
}

func NewGCSStore(client *storage.Client, bucket string) *GCSStore {
	return &GCSStore{client: client, bucket: bucket}
}

func (s *GCSStore) Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error) {
	return helpers.UploadObject(ctx, s.client, s.bucket, objectPath, helpers.ObjectOptions{
		ContentType:  contentType,
		CacheControl: avatarCacheControl,
		Metadata:     map[string]string{"kind": "avatar"},
	}, r)
}
