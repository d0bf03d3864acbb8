// Package storage provides an abstraction layer for object storage services.
//
// It hides the concrete SDK behind a small provider-neutral Client interface and
// builds per-object handles on top of it. Three backends are available:
//
//   - minio: MinIO Go client, works against MinIO and any S3-compatible service.
//   - s3: AWS SDK v2 S3 client with static credentials and optional custom endpoint.
//   - memory: in-process map, for local development and tests.
//
// # Object handles
//
// A Container knows its base URL. Callers build a fully-qualified object URL
// (Container.URL() + "/" + key) and hand it to a ClientFactory, which returns an
// ObjectClient bound to that single object. Construction never touches the network.
//
// # Errors
//
// Backends return their native errors unchanged. IsNotFound classifies them so
// the document service can translate them into domain errors.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	container := storage.NewContainer(client, cfg.Storage.Bucket)
//	factory := storage.NewFactory(client, container)
//	obj, err := factory.NewObjectClient(container.URL() + "/report.pdf")
package storage
