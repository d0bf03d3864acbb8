package storage

import (
	"strings"

	"document-manager/core/apperror"
)

// Supported storage drivers.
const (
	DriverMinio  = "minio"
	DriverS3     = "s3"
	DriverMemory = "memory"
)

const defaultEndpoint = "localhost:9000"

// Config holds configuration for the storage provider.
type Config struct {
	// Driver selects the backend (minio, s3, memory).
	Driver string `mapstructure:"driver" default:"minio" validate:"required,oneof=minio s3 memory"`
	// ConnectionString is an alternative credential source in the form
	// "Endpoint=...;AccountName=...;AccountKey=...". Explicit fields win.
	ConnectionString string `mapstructure:"connection_string" default:""`
	// Endpoint is the URL of the storage service.
	Endpoint string `mapstructure:"endpoint" default:"localhost:9000" validate:"required_if=Driver minio"`
	// AccessKey is the account name / access key ID used for authentication.
	AccessKey string `mapstructure:"access_key" default:"" validate:"required_unless=Driver memory"`
	// SecretKey is the account key / secret access key used for authentication.
	SecretKey string `mapstructure:"secret_key" default:"" validate:"required_unless=Driver memory"`
	// UseSSL indicates whether to use SSL/TLS for connections.
	UseSSL bool `mapstructure:"use_ssl" default:"false"`
	// Bucket is the name of the container holding all documents.
	Bucket string `mapstructure:"bucket" default:"documents" validate:"required"`
	// Region is the location of the bucket (e.g., us-east-1).
	Region string `mapstructure:"region" default:"us-east-1" validate:"required_if=Driver s3"`
	// TimeoutSeconds is the connection timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}

// ApplyConnectionString fills empty endpoint and credential fields from
// ConnectionString. It is a no-op when no connection string is configured.
func (c *Config) ApplyConnectionString() error {
	if strings.TrimSpace(c.ConnectionString) == "" {
		return nil
	}
	cs, err := ParseConnectionString(c.ConnectionString)
	if err != nil {
		return err
	}
	if cs.Endpoint != "" && (c.Endpoint == "" || c.Endpoint == defaultEndpoint) {
		c.Endpoint = cs.Endpoint
	}
	if c.AccessKey == "" {
		c.AccessKey = cs.AccountName
	}
	if c.SecretKey == "" {
		c.SecretKey = cs.AccountKey
	}
	if cs.Protocol == "https" || strings.HasPrefix(cs.Endpoint, "https://") {
		c.UseSSL = true
	}
	return nil
}

// ConnectionString is the parsed form of a "Key=Value;..." credential string.
type ConnectionString struct {
	Protocol    string
	AccountName string
	AccountKey  string
	Endpoint    string
}

// ParseConnectionString parses "Key=Value" pairs separated by semicolons.
// Keys are matched case-insensitively; BlobEndpoint is accepted as Endpoint.
func ParseConnectionString(s string) (ConnectionString, error) {
	var cs ConnectionString
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		k, v, ok := strings.Cut(part, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return ConnectionString{}, apperror.Configuration("malformed storage connection string segment "+quoteKey(k), nil)
		}
		v = strings.TrimSpace(v)
		switch strings.ToLower(strings.TrimSpace(k)) {
		case "defaultendpointsprotocol":
			cs.Protocol = strings.ToLower(v)
		case "accountname":
			cs.AccountName = v
		case "accountkey":
			cs.AccountKey = v
		case "endpoint", "blobendpoint":
			cs.Endpoint = v
		}
	}
	if cs.AccountName == "" || cs.AccountKey == "" {
		return ConnectionString{}, apperror.Configuration("storage connection string must contain AccountName and AccountKey", nil)
	}
	return cs, nil
}

func quoteKey(k string) string {
	return "\"" + strings.TrimSpace(k) + "\""
}
