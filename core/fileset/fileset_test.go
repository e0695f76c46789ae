package fileset_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"
	"time"

	"data-loader/core/fileset"
	"data-loader/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"data/site.json", "data/site.json"},
		{"./data/site.json", "data/site.json"},
		{"/data//en/nav.yaml", "data/en/nav.yaml"},
		{filepath.Join("data", "en", "nav.yaml"), "data/en/nav.yaml"},
		{".", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, fileset.Normalize(tt.in), tt.in)
	}
}

func TestFileSet(t *testing.T) {
	s := fileset.New()
	s.AddBytes("b.md", []byte("b"))
	s.AddBytes("./a.md", []byte("a"))
	s.AddBytes("data/x.json", []byte("{}"))

	assert.Equal(t, 3, s.Len())
	assert.Equal(t, []string{"a.md", "b.md", "data/x.json"}, s.Paths())

	f, ok := s.Get("a.md")
	require.True(t, ok)
	assert.Equal(t, "a", string(f.Contents))
	assert.Equal(t, "a.md", f.Path)

	s.Delete("data/x.json")
	assert.False(t, s.Has("data/x.json"))
	s.Delete("missing")
	assert.Equal(t, 2, s.Len())
}

func TestReadWriteFs(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "src/index.md", []byte("# hi"), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "src/data/en/nav.yaml", []byte("home: /\n"), 0o644))

	set, err := fileset.ReadFs(fsys, "src")
	require.NoError(t, err)
	assert.Equal(t, []string{"data/en/nav.yaml", "index.md"}, set.Paths())

	set.Delete("data/en/nav.yaml")
	require.NoError(t, afero.WriteFile(fsys, "build/stale.html", []byte("old"), 0o644))
	require.NoError(t, fileset.WriteFs(fsys, "build", set, true))

	out, err := afero.ReadFile(fsys, "build/index.md")
	require.NoError(t, err)
	assert.Equal(t, "# hi", string(out))

	exists, _ := afero.Exists(fsys, "build/stale.html")
	assert.False(t, exists)
	exists, _ = afero.Exists(fsys, "build/data/en/nav.yaml")
	assert.False(t, exists)
}

func TestReadFs_MissingRoot(t *testing.T) {
	_, err := fileset.ReadFs(afero.NewMemMapFs(), "nope")
	assert.Error(t, err)
}

func objectChan(objs ...minio.ObjectInfo) <-chan minio.ObjectInfo {
	ch := make(chan minio.ObjectInfo, len(objs))
	for _, o := range objs {
		ch <- o
	}
	close(ch)
	return ch
}

func TestReadBucket(t *testing.T) {
	ctx := context.Background()
	modified := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	t.Run("LoadsObjects", func(t *testing.T) {
		m := new(mocks.Client)
		m.On("ListObjects", mock.Anything, "site", minio.ListObjectsOptions{Prefix: "src/", Recursive: true}).
			Return(objectChan(
				minio.ObjectInfo{Key: "src/data/"},
				minio.ObjectInfo{Key: "src/data/site.json", LastModified: modified},
			))
		m.On("GetObject", mock.Anything, "site", "src/data/site.json", mock.Anything).
			Return(io.NopCloser(bytes.NewReader([]byte(`{"title":"Hi"}`))), nil)

		set, err := fileset.ReadBucket(ctx, m, "site", "src")
		require.NoError(t, err)
		assert.Equal(t, []string{"data/site.json"}, set.Paths())

		f, _ := set.Get("data/site.json")
		assert.Equal(t, modified, f.ModTime)
	})

	t.Run("ListError", func(t *testing.T) {
		m := new(mocks.Client)
		m.On("ListObjects", mock.Anything, "site", mock.Anything).
			Return(objectChan(minio.ObjectInfo{Err: errors.New("denied")}))

		_, err := fileset.ReadBucket(ctx, m, "site", "")
		assert.ErrorContains(t, err, "denied")
	})

	t.Run("GetError", func(t *testing.T) {
		m := new(mocks.Client)
		m.On("ListObjects", mock.Anything, "site", mock.Anything).
			Return(objectChan(minio.ObjectInfo{Key: "a.md"}))
		m.On("GetObject", mock.Anything, "site", "a.md", mock.Anything).
			Return(nil, errors.New("gone"))

		_, err := fileset.ReadBucket(ctx, m, "site", "")
		assert.ErrorContains(t, err, "gone")
	})

	t.Run("GetErrorCancelsListing", func(t *testing.T) {
		// the listing channel is never closed, like a producer still sending
		pending := make(chan minio.ObjectInfo, 1)
		pending <- minio.ObjectInfo{Key: "a.md"}

		var listCtx context.Context
		m := new(mocks.Client)
		m.On("ListObjects", mock.Anything, "site", mock.Anything).
			Run(func(args mock.Arguments) { listCtx = args.Get(0).(context.Context) }).
			Return((<-chan minio.ObjectInfo)(pending))
		m.On("GetObject", mock.Anything, "site", "a.md", mock.Anything).
			Return(nil, errors.New("gone"))

		_, err := fileset.ReadBucket(ctx, m, "site", "")
		assert.ErrorContains(t, err, "gone")
		require.NotNil(t, listCtx)
		assert.ErrorIs(t, listCtx.Err(), context.Canceled)
	})
}

func TestWriteBucket(t *testing.T) {
	ctx := context.Background()
	set := fileset.New()
	set.AddBytes("index.html", []byte("<p>hi</p>"))

	t.Run("Uploads", func(t *testing.T) {
		m := new(mocks.Client)
		m.On("PutObject", mock.Anything, "site", "build/index.html", mock.Anything, int64(9),
			mock.MatchedBy(func(o minio.PutObjectOptions) bool {
				return o.ContentType == "text/html; charset=utf-8"
			})).Return(minio.UploadInfo{}, nil)

		require.NoError(t, fileset.WriteBucket(ctx, m, "site", "build", set, false))
		m.AssertExpectations(t)
	})

	t.Run("CleansPrefix", func(t *testing.T) {
		m := new(mocks.Client)
		m.On("ListObjects", mock.Anything, "site", minio.ListObjectsOptions{Prefix: "build/", Recursive: true}).
			Return(objectChan(minio.ObjectInfo{Key: "build/old.html"}))
		done := make(chan minio.RemoveObjectError)
		close(done)
		m.On("RemoveObjects", mock.Anything, "site", mock.Anything, mock.Anything).
			Return((<-chan minio.RemoveObjectError)(done))
		m.On("PutObject", mock.Anything, "site", "build/index.html", mock.Anything, mock.Anything, mock.Anything).
			Return(minio.UploadInfo{}, nil)

		require.NoError(t, fileset.WriteBucket(ctx, m, "site", "build", set, true))
		m.AssertCalled(t, "RemoveObjects", mock.Anything, "site", mock.Anything, mock.Anything)
	})

	t.Run("UploadError", func(t *testing.T) {
		m := new(mocks.Client)
		m.On("PutObject", mock.Anything, "site", "index.html", mock.Anything, mock.Anything, mock.Anything).
			Return(minio.UploadInfo{}, errors.New("quota"))

		err := fileset.WriteBucket(ctx, m, "site", "", set, false)
		assert.ErrorContains(t, err, "quota")
	})

	t.Run("RefusesBucketRoot", func(t *testing.T) {
		for _, prefix := range []string{"", ".", "/"} {
			m := new(mocks.Client)
			err := fileset.WriteBucket(ctx, m, "site", prefix, set, true)
			assert.ErrorIs(t, err, fileset.ErrUnsafeClean, prefix)
			m.AssertNotCalled(t, "ListObjects", mock.Anything, mock.Anything, mock.Anything)
			m.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		}
	})

	t.Run("ListErrorCancelsListing", func(t *testing.T) {
		pending := make(chan minio.ObjectInfo, 1)
		pending <- minio.ObjectInfo{Err: errors.New("denied")}

		var listCtx context.Context
		m := new(mocks.Client)
		m.On("ListObjects", mock.Anything, "site", mock.Anything).
			Run(func(args mock.Arguments) { listCtx = args.Get(0).(context.Context) }).
			Return((<-chan minio.ObjectInfo)(pending))

		err := fileset.WriteBucket(ctx, m, "site", "build", set, true)
		assert.ErrorContains(t, err, "denied")
		require.NotNil(t, listCtx)
		assert.ErrorIs(t, listCtx.Err(), context.Canceled)
		m.AssertNotCalled(t, "RemoveObjects", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestWriteFs_RefusesUnsafeClean(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "src/index.md", []byte("# hi"), 0o644))

	for _, root := range []string{"", ".", "/", "./"} {
		err := fileset.WriteFs(fsys, root, fileset.New(), true)
		assert.ErrorIs(t, err, fileset.ErrUnsafeClean, root)
	}

	exists, _ := afero.Exists(fsys, "src/index.md")
	assert.True(t, exists)
}
