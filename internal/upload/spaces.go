package upload

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// SpacesConfig points at an S3-compatible bucket such as DigitalOcean Spaces.
type SpacesConfig struct {
	Endpoint  string // host or URL, e.g. https://fra1.digitaloceanspaces.com
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	CDN       string // public host suffix, e.g. fra1.cdn.digitaloceanspaces.com
}

// Spaces is an ObjectStore on minio-go. Objects are written public-read.
type Spaces struct {
	client *minio.Client
	bucket string
	cdn    string
}

// NewSpaces builds the S3 client; no request is made until the first Put.
func NewSpaces(cfg SpacesConfig) (*Spaces, error) {
	host, secure := cfg.Endpoint, true
	if u, err := url.Parse(cfg.Endpoint); err == nil && u.Host != "" {
		host, secure = u.Host, u.Scheme != "http"
	}
	c, err := minio.New(host, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: secure,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("s3 client: %w", err)
	}
	return &Spaces{client: c, bucket: cfg.Bucket, cdn: strings.Trim(cfg.CDN, "/")}, nil
}

func (s *Spaces) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType:  contentType,
		UserMetadata: map[string]string{"x-amz-acl": "public-read"},
	})
	if err != nil {
		return "", fmt.Errorf("put %s: %w", key, err)
	}
	return s.URL(key), nil
}

// URL is the public address of key: the CDN host when configured, else the endpoint.
func (s *Spaces) URL(key string) string {
	if s.cdn != "" {
		return "https://" + s.bucket + "." + s.cdn + "/" + key
	}
	return s.client.EndpointURL().String() + "/" + s.bucket + "/" + key
}
