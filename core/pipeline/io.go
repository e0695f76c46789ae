package pipeline

import (
	"context"

	"data-loader/core/fileset"
	"data-loader/core/storage"

	"github.com/spf13/afero"
)

// Source materialises the file set of a build.
type Source interface {
	Read(ctx context.Context) (*fileset.FileSet, error)
	String() string
}

// Sink receives the files left after every plugin ran.
type Sink interface {
	Write(ctx context.Context, files *fileset.FileSet) error
	String() string
}

// FsSource reads a directory tree of an afero filesystem.
type FsSource struct {
	Fs   afero.Fs
	Root string
}

func (s *FsSource) Read(_ context.Context) (*fileset.FileSet, error) {
	return fileset.ReadFs(s.Fs, s.Root)
}

func (s *FsSource) String() string {
	return "fs:" + s.Root
}

// FsSink writes into a directory of an afero filesystem.
type FsSink struct {
	Fs    afero.Fs
	Root  string
	Clean bool
}

func (s *FsSink) Write(_ context.Context, files *fileset.FileSet) error {
	return fileset.WriteFs(s.Fs, s.Root, files, s.Clean)
}

func (s *FsSink) String() string {
	return "fs:" + s.Root
}

// BucketSource reads every object under Prefix.
type BucketSource struct {
	Client storage.Client
	Bucket string
	Prefix string
}

func (s *BucketSource) Read(ctx context.Context) (*fileset.FileSet, error) {
	return fileset.ReadBucket(ctx, s.Client, s.Bucket, s.Prefix)
}

func (s *BucketSource) String() string {
	return "s3://" + s.Bucket + "/" + s.Prefix
}

// BucketSink uploads the output under Prefix, creating the bucket if needed.
type BucketSink struct {
	Client storage.Client
	Bucket string
	Region string
	Prefix string
	Clean  bool
}

func (s *BucketSink) Write(ctx context.Context, files *fileset.FileSet) error {
	if err := storage.EnsureBucket(ctx, s.Client, s.Bucket, s.Region); err != nil {
		return err
	}
	return fileset.WriteBucket(ctx, s.Client, s.Bucket, s.Prefix, files, s.Clean)
}

func (s *BucketSink) String() string {
	return "s3://" + s.Bucket + "/" + s.Prefix
}
