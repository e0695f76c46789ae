package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"data-loader/core/database"
	"data-loader/core/pipeline"

	"gorm.io/gorm"
)

// ErrNotFound is returned when no snapshot matches.
var ErrNotFound = errors.New("snapshot not found")

// Store persists snapshots through gorm.
type Store struct {
	db *gorm.DB
}

// NewStore creates a store on db.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate creates or updates the snapshots table and checks the result.
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&Snapshot{}); err != nil {
		return fmt.Errorf("failed to migrate snapshots: %w", err)
	}
	missing, err := database.MissingColumns(s.db.WithContext(ctx), Snapshot{}.TableName(), columns)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return fmt.Errorf("snapshots table is missing columns: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Save records the metadata of a finished build.
func (s *Store) Save(ctx context.Context, result *pipeline.Result, source string) (*Snapshot, error) {
	body, err := json.Marshal(result.Metadata)
	if err != nil {
		return nil, fmt.Errorf("failed to encode metadata: %w", err)
	}

	snap := &Snapshot{
		ID:        result.BuildID,
		CreatedAt: time.Now().UTC(),
		Source:    source,
		Metadata:  string(body),
	}
	if result.Files != nil {
		snap.Files = result.Files.Len()
	}

	if err := s.db.WithContext(ctx).Create(snap).Error; err != nil {
		return nil, fmt.Errorf("failed to save snapshot %s: %w", snap.ID, err)
	}
	return snap, nil
}

// Get loads a snapshot with its metadata.
func (s *Store) Get(ctx context.Context, id string) (*Snapshot, error) {
	var snap Snapshot
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&snap).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot %s: %w", id, err)
	}
	return &snap, nil
}

// List returns the newest snapshots first, without their metadata. A
// non-positive limit returns all of them.
func (s *Store) List(ctx context.Context, limit int) ([]Snapshot, error) {
	var snaps []Snapshot
	q := s.db.WithContext(ctx).
		Select("id", "created_at", "source", "files").
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&snaps).Error; err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	return snaps, nil
}

// Latest loads the most recent snapshot.
func (s *Store) Latest(ctx context.Context) (*Snapshot, error) {
	var snap Snapshot
	err := s.db.WithContext(ctx).Order("created_at DESC").First(&snap).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load latest snapshot: %w", err)
	}
	return &snap, nil
}
