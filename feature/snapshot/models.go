package snapshot

import (
	"encoding/json"
	"fmt"
	"time"

	"data-loader/core/metadata"
)

// Snapshot is the persisted metadata tree of one build.
type Snapshot struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	Source    string    `gorm:"size:255" json:"source"`
	Files     int       `json:"files"`
	Metadata  string    `gorm:"type:text" json:"-"`
}

// TableName overrides the table name used by Snapshot.
func (Snapshot) TableName() string {
	return "snapshots"
}

// columns lists the columns a migrated table must have.
var columns = []string{"id", "created_at", "source", "files", "metadata"}

// Tree decodes the stored metadata.
func (s *Snapshot) Tree() (metadata.Map, error) {
	tree := metadata.New()
	if s.Metadata == "" {
		return tree, nil
	}
	if err := json.Unmarshal([]byte(s.Metadata), &tree); err != nil {
		return nil, fmt.Errorf("snapshot %s: corrupt metadata: %w", s.ID, err)
	}
	return tree, nil
}
