package storage

import (
	"context"
	"io"
	"net/url"
	"strings"
	"time"

	"document-manager/core/apperror"
)

// ObjectInfo is the subset of object metadata the service relies on.
type ObjectInfo struct {
	Key          string
	Size         int64
	ContentType  string
	ETag         string
	LastModified time.Time
}

// Client defines the low-level storage operations every backend implements.
// Errors are returned as produced by the backend; see IsNotFound.
type Client interface {
	// EndpointURL is the base URL of the service, without bucket.
	EndpointURL() *url.URL
	// BucketExists checks if a bucket exists.
	BucketExists(ctx context.Context, bucket string) (bool, error)
	// MakeBucket creates a new bucket.
	MakeBucket(ctx context.Context, bucket string) error
	// StatObject returns object metadata without downloading the content.
	StatObject(ctx context.Context, bucket, key string) (ObjectInfo, error)
	// GetObject downloads an object. The caller closes the reader.
	GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, ObjectInfo, error)
	// PutObject uploads an object, overwriting any existing one.
	// size may be -1 when unknown.
	PutObject(ctx context.Context, bucket, key string, r io.Reader, size int64, contentType string) (ObjectInfo, error)
	// RemoveObject deletes an object.
	RemoveObject(ctx context.Context, bucket, key string) error
}

// NewClient creates a storage client for the configured driver.
// No network call is made; remote drivers connect lazily.
func NewClient(cfg Config) (Client, error) {
	if err := cfg.ApplyConnectionString(); err != nil {
		return nil, err
	}

	switch strings.ToLower(cfg.Driver) {
	case DriverMemory:
		return NewMemoryClient(), nil
	case DriverMinio, "":
		if err := requireCredentials(cfg); err != nil {
			return nil, err
		}
		return newMinioClient(cfg)
	case DriverS3:
		if err := requireCredentials(cfg); err != nil {
			return nil, err
		}
		return newS3Client(cfg)
	default:
		return nil, apperror.Configuration("unknown storage driver \""+cfg.Driver+"\"", nil)
	}
}

func requireCredentials(cfg Config) error {
	var missing []string
	if strings.TrimSpace(cfg.AccessKey) == "" {
		missing = append(missing, "storage.access_key")
	}
	if strings.TrimSpace(cfg.SecretKey) == "" {
		missing = append(missing, "storage.secret_key")
	}
	if len(missing) > 0 {
		return apperror.Configuration("missing storage credentials: "+strings.Join(missing, ", "), nil)
	}
	return nil
}

func timeoutOf(cfg Config) time.Duration {
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}
	return time.Duration(timeout) * time.Second
}

// trimScheme strips the scheme and reports whether it was https.
func trimScheme(endpoint string) (string, bool) {
	switch {
	case strings.HasPrefix(endpoint, "https://"):
		return strings.TrimPrefix(endpoint, "https://"), true
	case strings.HasPrefix(endpoint, "http://"):
		return strings.TrimPrefix(endpoint, "http://"), false
	default:
		return endpoint, false
	}
}
