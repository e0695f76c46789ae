package snapshot

import (
	"context"
	"testing"
	"time"

	"data-loader/core/database"
	"data-loader/core/fileset"
	"data-loader/core/metadata"
	"data-loader/core/pipeline"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupStore(t *testing.T) (*Store, *gorm.DB) {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)

	store := NewStore(db)
	require.NoError(t, store.Migrate(context.Background()))
	return store, db
}

func setupMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)
	return NewStore(db), mock
}

func TestStore_SaveAndGet(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	files := fileset.New()
	files.AddBytes("index.html", []byte("<p>"))
	result := &pipeline.Result{
		BuildID: "11111111-1111-1111-1111-111111111111",
		Files:   files,
		Metadata: metadata.Map{
			"site": map[string]any{"title": "Hi"},
			"en":   metadata.Map{"nav": []any{"home"}},
		},
	}

	saved, err := store.Save(ctx, result, "fs:src")
	require.NoError(t, err)
	assert.Equal(t, 1, saved.Files)

	got, err := store.Get(ctx, result.BuildID)
	require.NoError(t, err)
	assert.Equal(t, "fs:src", got.Source)
	assert.Equal(t, 1, got.Files)

	tree, err := got.Tree()
	require.NoError(t, err)
	assert.Equal(t, metadata.Map{
		"site": map[string]any{"title": "Hi"},
		"en":   map[string]any{"nav": []any{"home"}},
	}, tree)

	_, err = store.Save(ctx, result, "fs:src")
	assert.Error(t, err, "build ids are unique")
}

func TestStore_GetMissing(t *testing.T) {
	store, _ := setupStore(t)

	_, err := store.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.Latest(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_ListAndLatest(t *testing.T) {
	store, db := setupStore(t)
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, db.Create(&Snapshot{
			ID:        id,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
			Metadata:  `{"n":` + string(rune('1'+i)) + `}`,
		}).Error)
	}

	snaps, err := store.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, snaps, 3)
	assert.Equal(t, "c", snaps[0].ID)
	assert.Equal(t, "a", snaps[2].ID)
	assert.Empty(t, snaps[0].Metadata, "list omits metadata")

	snaps, err = store.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, snaps, 2)

	latest, err := store.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "c", latest.ID)
	tree, err := latest.Tree()
	require.NoError(t, err)
	assert.Equal(t, float64(3), tree["n"])
}

func TestStore_MySQL(t *testing.T) {
	t.Run("Get not found", func(t *testing.T) {
		store, mock := setupMockStore(t)
		mock.ExpectQuery("SELECT (.+) FROM `snapshots` WHERE id = (.+)").
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "source", "files", "metadata"}))

		_, err := store.Get(context.Background(), "x")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Get", func(t *testing.T) {
		store, mock := setupMockStore(t)
		rows := sqlmock.NewRows([]string{"id", "created_at", "source", "files", "metadata"}).
			AddRow("x", time.Now(), "s3://site/src", 4, `{"a":true}`)
		mock.ExpectQuery("SELECT (.+) FROM `snapshots`").WillReturnRows(rows)

		snap, err := store.Get(context.Background(), "x")
		require.NoError(t, err)
		assert.Equal(t, 4, snap.Files)
		tree, err := snap.Tree()
		require.NoError(t, err)
		assert.Equal(t, true, tree["a"])
	})

	t.Run("Save", func(t *testing.T) {
		store, mock := setupMockStore(t)
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO `snapshots`").WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		result := &pipeline.Result{BuildID: "y", Metadata: metadata.New()}
		snap, err := store.Save(context.Background(), result, "fs:src")
		require.NoError(t, err)
		assert.Equal(t, "{}", snap.Metadata)
		assert.Equal(t, 0, snap.Files)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

}

func TestSnapshot_TreeCorrupt(t *testing.T) {
	snap := &Snapshot{ID: "z", Metadata: "{"}
	_, err := snap.Tree()
	assert.ErrorContains(t, err, "corrupt metadata")

	tree, err := (&Snapshot{}).Tree()
	require.NoError(t, err)
	assert.Empty(t, tree)
}
