// Package storage wraps the MinIO Go client behind a narrow interface so build
// sources and outputs can live in an S3-compatible bucket (AWS S3 or a
// self-hosted MinIO).
//
// The Client interface only carries what the pipeline needs: listing and
// downloading source objects, uploading output, and pruning stale output.
// core/storage/mocks provides a testify mock of it.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	if err := storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region); err != nil {
//	    return err
//	}
package storage
