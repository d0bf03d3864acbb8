package storage

import (
	"context"
	"io"
	"net/url"
	"strings"

	"document-manager/core/apperror"
)

// Object is a downloaded document body with the metadata recorded by the store.
type Object struct {
	Body        io.ReadCloser
	ContentType string
	Size        int64
}

// ObjectClient is a handle bound to one fully-qualified object.
// It performs no translation of backend errors.
type ObjectClient interface {
	// URL is the fully-qualified object URL the handle was built from.
	URL() string
	Stat(ctx context.Context) (ObjectInfo, error)
	Download(ctx context.Context) (*Object, error)
	Upload(ctx context.Context, r io.Reader, size int64, contentType string) error
	Delete(ctx context.Context) error
}

// ClientFactory constructs per-object handles from fully-qualified URLs.
type ClientFactory interface {
	NewObjectClient(objectURL string) (ObjectClient, error)
}

// Container is the bucket that holds every document of the service.
type Container struct {
	client Client
	name   string
	url    string
}

// NewContainer binds a bucket name to a client. No network call is made.
func NewContainer(client Client, name string) *Container {
	base := client.EndpointURL()
	u := strings.TrimRight(base.String(), "/") + "/" + url.PathEscape(name)
	return &Container{client: client, name: name, url: u}
}

// Name is the bucket name.
func (c *Container) Name() string { return c.name }

// URL is the container base URL; object URLs are URL() + "/" + escaped key.
func (c *Container) URL() string { return c.url }

// CreateIfNotExists creates the bucket when it is missing.
func (c *Container) CreateIfNotExists(ctx context.Context) error {
	exists, err := c.client.BucketExists(ctx, c.name)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	if err := c.client.MakeBucket(ctx, c.name); err != nil {
		// Another instance may have won the race.
		if code := errorCode(err); code == "BucketAlreadyOwnedByYou" || code == "BucketAlreadyExists" {
			return nil
		}
		return err
	}
	return nil
}

type factory struct {
	client    Client
	container *Container
}

// NewFactory returns a ClientFactory for objects inside container.
func NewFactory(client Client, container *Container) ClientFactory {
	return &factory{client: client, container: container}
}

func (f *factory) NewObjectClient(objectURL string) (ObjectClient, error) {
	prefix := f.container.URL() + "/"
	if !strings.HasPrefix(objectURL, prefix) {
		return nil, apperror.Configuration("object URL "+objectURL+" is outside container "+f.container.URL(), nil)
	}
	key, err := url.PathUnescape(strings.TrimPrefix(objectURL, prefix))
	if err != nil {
		return nil, apperror.Configuration("malformed object URL "+objectURL, err)
	}
	if key == "" {
		return nil, apperror.Configuration("object URL "+objectURL+" has no key", nil)
	}
	return &objectClient{client: f.client, bucket: f.container.name, key: key, url: objectURL}, nil
}

type objectClient struct {
	client Client
	bucket string
	key    string
	url    string
}

func (o *objectClient) URL() string { return o.url }

func (o *objectClient) Stat(ctx context.Context) (ObjectInfo, error) {
	return o.client.StatObject(ctx, o.bucket, o.key)
}

func (o *objectClient) Download(ctx context.Context) (*Object, error) {
	body, info, err := o.client.GetObject(ctx, o.bucket, o.key)
	if err != nil {
		return nil, err
	}
	return &Object{Body: body, ContentType: info.ContentType, Size: info.Size}, nil
}

func (o *objectClient) Upload(ctx context.Context, r io.Reader, size int64, contentType string) error {
	_, err := o.client.PutObject(ctx, o.bucket, o.key, r, size, contentType)
	return err
}

func (o *objectClient) Delete(ctx context.Context) error {
	return o.client.RemoveObject(ctx, o.bucket, o.key)
}
