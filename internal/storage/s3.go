package storage

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Store issues presigned upload URLs and public URLs for clip objects on any
// S3-compatible backend.
type Store struct {
	client     *minio.Client
	bucket     string
	publicBase string
	secure     bool
}

// Options configures the store.
type Options struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	Region        string
	UseSSL        bool
	PublicBaseURL string // CDN or bucket website base; endpoint-derived when empty
}

// New creates an S3 store.
func New(opts Options) (*Store, error) {
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
		Region: opts.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("s3 client: %w", err)
	}
	return &Store{
		client:     client,
		bucket:     opts.Bucket,
		publicBase: strings.TrimRight(opts.PublicBaseURL, "/"),
		secure:     opts.UseSSL,
	}, nil
}

// UploadTicket is a presigned PUT target.
type UploadTicket struct {
	URL       string
	Key       string
	ExpiresAt time.Time
}

// PresignUpload returns a presigned PUT URL bound to the given content type.
func (s *Store) PresignUpload(ctx context.Context, key, contentType string, ttl time.Duration) (*UploadTicket, error) {
	hdr := http.Header{}
	hdr.Set("Content-Type", contentType)
	u, err := s.client.PresignHeader(ctx, http.MethodPut, s.bucket, key, ttl, url.Values{}, hdr)
	if err != nil {
		return nil, fmt.Errorf("presign upload %s: %w", key, err)
	}
	return &UploadTicket{URL: u.String(), Key: key, ExpiresAt: time.Now().Add(ttl)}, nil
}

// PublicURL returns the public URL for an object key.
func (s *Store) PublicURL(key string) string {
	if s.publicBase != "" {
		return s.publicBase + "/" + key
	}
	scheme := "http"
	if s.secure {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.client.EndpointURL().Host, s.bucket, key)
}

// ObjectKey builds the per-user clip key: clips/{userId}/{filename}.
// The filename is reduced to its base to keep keys inside the namespace.
func ObjectKey(userID, filename string) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		name = "upload"
	}
	return fmt.Sprintf("clips/%s/%s", userID, name)
}
