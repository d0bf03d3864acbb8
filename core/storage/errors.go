package storage

import (
	"errors"
	"net/http"

	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/smithy-go"
	"github.com/minio/minio-go/v7"
)

// Errors returned by the in-memory backend. They mirror the S3 error codes.
var (
	ErrNoSuchKey    = errors.New("NoSuchKey: the specified key does not exist")
	ErrNoSuchBucket = errors.New("NoSuchBucket: the specified bucket does not exist")
)

var notFoundCodes = map[string]bool{
	"NoSuchKey":    true,
	"NotFound":     true,
	"NoSuchObject": true,
	"BlobNotFound": true,
}

// IsNotFound reports whether err is a backend's missing-object condition.
// Missing buckets are not treated as missing objects: they indicate a broken
// deployment, not an absent document.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrNoSuchKey) {
		return true
	}

	// MinIO
	var mErr minio.ErrorResponse
	if errors.As(err, &mErr) {
		if mErr.Code != "" {
			return notFoundCodes[mErr.Code]
		}
		return mErr.StatusCode == http.StatusNotFound
	}

	// AWS SDK: modeled errors carry a code, HEAD requests only carry a status.
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && notFoundCodes[apiErr.ErrorCode()] {
		return true
	}
	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) && respErr.HTTPStatusCode() == http.StatusNotFound {
		var code smithy.APIError
		if errors.As(err, &code) && code.ErrorCode() == "NoSuchBucket" {
			return false
		}
		return true
	}
	return false
}

// errorCode extracts the S3-style error code from a backend error.
func errorCode(err error) string {
	var mErr minio.ErrorResponse
	if errors.As(err, &mErr) {
		return mErr.Code
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}
