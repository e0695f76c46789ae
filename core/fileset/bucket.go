package fileset

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"

	"data-loader/core/storage"

	"github.com/minio/minio-go/v7"
)

// ReadBucket loads every object under prefix into a new FileSet. Keys are
// stored relative to prefix; "folder" placeholder objects are skipped.
func ReadBucket(ctx context.Context, client storage.Client, bucket, prefix string) (*FileSet, error) {
	// stops the listing goroutine on early return
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	prefix = bucketPrefix(prefix)
	set := New()

	opts := minio.ListObjectsOptions{Prefix: prefix, Recursive: true}
	for obj := range client.ListObjects(ctx, bucket, opts) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list %s/%s: %w", bucket, prefix, obj.Err)
		}
		if strings.HasSuffix(obj.Key, "/") {
			continue
		}

		contents, err := readObject(ctx, client, bucket, obj.Key)
		if err != nil {
			return nil, err
		}

		set.Add(&File{
			Path:     strings.TrimPrefix(obj.Key, prefix),
			Contents: contents,
			ModTime:  obj.LastModified,
		})
	}
	return set, nil
}

func readObject(ctx context.Context, client storage.Client, bucket, key string) ([]byte, error) {
	rc, err := client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	defer rc.Close()

	contents, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return contents, nil
}

// WriteBucket uploads every file of set under prefix. When clean is set,
// objects already under prefix are removed first; cleaning an empty prefix
// would empty the whole bucket and fails with ErrUnsafeClean.
func WriteBucket(ctx context.Context, client storage.Client, bucket, prefix string, set *FileSet, clean bool) error {
	prefix = bucketPrefix(prefix)

	if clean {
		if prefix == "" {
			return fmt.Errorf("%w: bucket root of %s", ErrUnsafeClean, bucket)
		}
		if err := removePrefix(ctx, client, bucket, prefix); err != nil {
			return err
		}
	}

	for _, p := range set.Paths() {
		f, _ := set.Get(p)
		opts := minio.PutObjectOptions{ContentType: contentType(p)}
		_, err := client.PutObject(ctx, bucket, prefix+p, bytes.NewReader(f.Contents), int64(len(f.Contents)), opts)
		if err != nil {
			return fmt.Errorf("failed to upload %s: %w", p, err)
		}
	}
	return nil
}

func removePrefix(ctx context.Context, client storage.Client, bucket, prefix string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var stale []minio.ObjectInfo
	for obj := range client.ListObjects(ctx, bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return fmt.Errorf("failed to list %s/%s: %w", bucket, prefix, obj.Err)
		}
		stale = append(stale, obj)
	}
	if len(stale) == 0 {
		return nil
	}

	objects := make(chan minio.ObjectInfo, len(stale))
	for _, obj := range stale {
		objects <- obj
	}
	close(objects)

	for rerr := range client.RemoveObjects(ctx, bucket, objects, minio.RemoveObjectsOptions{}) {
		if rerr.Err != nil {
			return fmt.Errorf("failed to remove %s: %w", rerr.ObjectName, rerr.Err)
		}
	}
	return nil
}

func bucketPrefix(prefix string) string {
	prefix = Normalize(prefix)
	if prefix == "" {
		return ""
	}
	return prefix + "/"
}

func contentType(p string) string {
	if ct := mime.TypeByExtension(path.Ext(p)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
