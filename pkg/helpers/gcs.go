package helpers

import (
	"context"
	"io"
	"net/url"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// NewGCSClient creates a Google Cloud Storage client. An empty credsPath uses
// application default credentials.
func NewGCSClient(ctx context.Context, credsPath string) (*storage.Client, error) {
	if credsPath == "" {
		return storage.NewClient(ctx)
	}
	return storage.NewClient(ctx, option.WithCredentialsFile(credsPath))
}

// ObjectOptions are the attributes stamped on an uploaded object.
type ObjectOptions struct {
	ContentType  string
	CacheControl string
	Metadata     map[string]string
}

// UploadObject streams r into bucket/objectPath in one request and returns the
// object's public URL.
func UploadObject(ctx context.Context, client *storage.Client, bucket, objectPath string, opts ObjectOptions, r io.Reader) (string, error) {
	wc := client.Bucket(bucket).Object(objectPath).NewWriter(ctx)
	wc.ContentType = opts.ContentType
	wc.CacheControl = opts.CacheControl
	wc.Metadata = opts.Metadata
	wc.ChunkSize = 0
	if _, err := io.Copy(wc, r); err != nil {
		_ = wc.Close()
		return "", err
	}
	if err := wc.Close(); err != nil {
		return "", err
	}
	return PublicURL(bucket, objectPath), nil
}

// PublicURL assumes the bucket grants public read access. Each path segment
// is escaped, slashes are kept.
func PublicURL(bucket, objectPath string) string {
	segs := strings.Split(strings.TrimPrefix(objectPath, "/"), "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return "https://storage.googleapis.com/" + url.PathEscape(bucket) + "/" + strings.Join(segs, "/")
}
