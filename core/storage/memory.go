package storage

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"net/url"
	"sync"
	"time"
)

type memoryObject struct {
	data        []byte
	contentType string
	etag        string
	modified    time.Time
}

// MemoryClient is an in-process Client used for local development and tests.
// It honours context cancellation and reproduces S3 overwrite semantics.
type MemoryClient struct {
	mu      sync.RWMutex
	buckets map[string]map[string]memoryObject
	now     func() time.Time
}

// NewMemoryClient creates an empty in-memory store.
func NewMemoryClient() *MemoryClient {
	return &MemoryClient{
		buckets: make(map[string]map[string]memoryObject),
		now:     time.Now,
	}
}

func (m *MemoryClient) EndpointURL() *url.URL {
	return &url.URL{Scheme: "memory", Host: "local"}
}

func (m *MemoryClient) BucketExists(ctx context.Context, bucket string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.buckets[bucket]
	return ok, nil
}

func (m *MemoryClient) MakeBucket(ctx context.Context, bucket string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.buckets[bucket]; !ok {
		m.buckets[bucket] = make(map[string]memoryObject)
	}
	return nil
}

func (m *MemoryClient) StatObject(ctx context.Context, bucket, key string) (ObjectInfo, error) {
	if err := ctx.Err(); err != nil {
		return ObjectInfo{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, err := m.lookup(bucket, key)
	if err != nil {
		return ObjectInfo{}, err
	}
	return obj.info(key), nil
}

func (m *MemoryClient) GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, ObjectInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, ObjectInfo{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, err := m.lookup(bucket, key)
	if err != nil {
		return nil, ObjectInfo{}, err
	}
	// Stored slices are never mutated, so readers can share them.
	return io.NopCloser(bytes.NewReader(obj.data)), obj.info(key), nil
}

func (m *MemoryClient) PutObject(ctx context.Context, bucket, key string, r io.Reader, size int64, contentType string) (ObjectInfo, error) {
	if err := ctx.Err(); err != nil {
		return ObjectInfo{}, err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("read upload body: %w", err)
	}
	if size >= 0 && int64(len(data)) != size {
		return ObjectInfo{}, fmt.Errorf("upload body is %d bytes, expected %d", len(data), size)
	}
	if err := ctx.Err(); err != nil {
		return ObjectInfo{}, err
	}

	sum := md5.Sum(data)
	obj := memoryObject{
		data:        data,
		contentType: contentType,
		etag:        hex.EncodeToString(sum[:]),
		modified:    m.now(),
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	objects, ok := m.buckets[bucket]
	if !ok {
		return ObjectInfo{}, ErrNoSuchBucket
	}
	objects[key] = obj
	return obj.info(key), nil
}

func (m *MemoryClient) RemoveObject(ctx context.Context, bucket, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	objects, ok := m.buckets[bucket]
	if !ok {
		return ErrNoSuchBucket
	}
	// Like S3, removing an absent key succeeds.
	delete(objects, key)
	return nil
}

// Len returns the number of objects in bucket.
func (m *MemoryClient) Len(bucket string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.buckets[bucket])
}

func (m *MemoryClient) lookup(bucket, key string) (memoryObject, error) {
	objects, ok := m.buckets[bucket]
	if !ok {
		return memoryObject{}, ErrNoSuchBucket
	}
	obj, ok := objects[key]
	if !ok {
		return memoryObject{}, ErrNoSuchKey
	}
	return obj, nil
}

func (o memoryObject) info(key string) ObjectInfo {
	return ObjectInfo{
		Key:          key,
		Size:         int64(len(o.data)),
		ContentType:  o.contentType,
		ETag:         o.etag,
		LastModified: o.modified,
	}
}
