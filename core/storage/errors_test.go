package storage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	smithyhttp "github.com/aws/smithy-go/transport/http"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
)

func httpResponseError(status int, err error) error {
	return &awshttp.ResponseError{
		ResponseError: &smithyhttp.ResponseError{
			Response: &smithyhttp.Response{Response: &http.Response{StatusCode: status}},
			Err:      err,
		},
	}
}

func TestIsNotFound(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"Nil", nil, false},
		{"MemoryKey", ErrNoSuchKey, true},
		{"MemoryBucket", ErrNoSuchBucket, false},
		{"Wrapped", fmt.Errorf("get: %w", ErrNoSuchKey), true},
		{"MinioNoSuchKey", minio.ErrorResponse{Code: "NoSuchKey", StatusCode: 404}, true},
		{"MinioNoSuchBucket", minio.ErrorResponse{Code: "NoSuchBucket", StatusCode: 404}, false},
		{"MinioStatusOnly", minio.ErrorResponse{StatusCode: 404}, true},
		{"MinioAccessDenied", minio.ErrorResponse{Code: "AccessDenied", StatusCode: 403}, false},
		{"S3NoSuchKey", &s3types.NoSuchKey{}, true},
		{"S3NotFound", &s3types.NotFound{}, true},
		{"SmithyGeneric", &smithy.GenericAPIError{Code: "NoSuchKey"}, true},
		{"HTTP404", httpResponseError(404, errors.New("not found")), true},
		{"HTTP404Bucket", httpResponseError(404, &smithy.GenericAPIError{Code: "NoSuchBucket"}), false},
		{"HTTP500", httpResponseError(500, errors.New("internal")), false},
		{"Cancelled", context.Canceled, false},
		{"Other", errors.New("connection refused"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsNotFound(tt.err))
		})
	}
}
