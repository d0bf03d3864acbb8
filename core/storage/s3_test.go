package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	bucketMissing bool
	created       *s3.CreateBucketInput
	put           *s3.PutObjectInput
	putBody       string
	objects       map[string]string
}

func (f *fakeS3) HeadBucket(ctx context.Context, in *s3.HeadBucketInput, _ ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	if f.bucketMissing {
		return nil, &s3types.NotFound{}
	}
	return &s3.HeadBucketOutput{}, nil
}

func (f *fakeS3) CreateBucket(ctx context.Context, in *s3.CreateBucketInput, _ ...func(*s3.Options)) (*s3.CreateBucketOutput, error) {
	f.created = in
	return &s3.CreateBucketOutput{}, nil
}

func (f *fakeS3) HeadObject(ctx context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	body, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &s3types.NotFound{}
	}
	return &s3.HeadObjectOutput{ContentLength: aws.Int64(int64(len(body))), ContentType: aws.String("application/pdf")}, nil
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	body, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &s3types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{
		Body:          io.NopCloser(strings.NewReader(body)),
		ContentLength: aws.Int64(int64(len(body))),
		ContentType:   aws.String("application/pdf"),
	}, nil
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.put = in
	data, _ := io.ReadAll(in.Body)
	f.putBody = string(data)
	return &s3.PutObjectOutput{ETag: aws.String("etag")}, nil
}

func (f *fakeS3) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3Client(t *testing.T) {
	ctx := context.Background()

	t.Run("BucketExistsMapsNotFound", func(t *testing.T) {
		c := &s3Client{api: &fakeS3{bucketMissing: true}, region: "us-east-1"}
		exists, err := c.BucketExists(ctx, "documents")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("MakeBucketOutsideUSEast1", func(t *testing.T) {
		api := &fakeS3{}
		c := &s3Client{api: api, region: "eu-central-1"}
		require.NoError(t, c.MakeBucket(ctx, "documents"))
		require.NotNil(t, api.created.CreateBucketConfiguration)
		assert.Equal(t, s3types.BucketLocationConstraint("eu-central-1"), api.created.CreateBucketConfiguration.LocationConstraint)
	})

	t.Run("PutBuffersNonSeekableBody", func(t *testing.T) {
		api := &fakeS3{}
		c := &s3Client{api: api, region: "us-east-1"}
		body := io.MultiReader(strings.NewReader("%PDF-"), strings.NewReader("1.4"))

		info, err := c.PutObject(ctx, "documents", "a.pdf", body, -1, "application/pdf")
		require.NoError(t, err)
		assert.Equal(t, "%PDF-1.4", api.putBody)
		assert.Equal(t, int64(8), aws.ToInt64(api.put.ContentLength))
		assert.Equal(t, "application/pdf", aws.ToString(api.put.ContentType))
		assert.Equal(t, "etag", info.ETag)
	})

	t.Run("GetReturnsContentType", func(t *testing.T) {
		c := &s3Client{api: &fakeS3{objects: map[string]string{"a.pdf": "%PDF"}}}
		r, info, err := c.GetObject(ctx, "documents", "a.pdf")
		require.NoError(t, err)
		defer r.Close()
		assert.Equal(t, "application/pdf", info.ContentType)
		assert.Equal(t, int64(4), info.Size)
	})

	t.Run("MissingObjectIsNotFound", func(t *testing.T) {
		c := &s3Client{api: &fakeS3{objects: map[string]string{}}}
		_, _, err := c.GetObject(ctx, "documents", "nope.pdf")
		assert.True(t, IsNotFound(err))
		_, err = c.StatObject(ctx, "documents", "nope.pdf")
		assert.True(t, IsNotFound(err))
	})
}
