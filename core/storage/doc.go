// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client behind the Client interface so callers can be
// tested with the mocks in core/storage/mocks. Both AWS S3 and self-hosted
// MinIO are supported.
//
// # Operations
//
//   - BucketExists / MakeBucket / EnsureBucket: bucket lifecycle.
//   - PutObject / GetObject / PutJSON / GetJSON: object transfer.
//   - ListObjects / RemoveObject / RemoveObjects: listing and pruning.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	created, err := storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region)
//	err = storage.PutJSON(ctx, client, cfg.Storage.Bucket, "decisions/petstore.json", decisions)
package storage
