package schema

import "time"

// Artifact represents the artifacts table - per-artifact aggregate mirrored from the ledger
type Artifact struct {
	// Collection is the checksummed collection contract address
	Collection string `gorm:"column:collection;primaryKey;type:text;index:idx_artifacts_collection"`
	// TokenID is the token id within the collection (stored as string to support up to 78 digits)
	TokenID string `gorm:"column:token_id;primaryKey;type:numeric(78,0)"`
	// Count is the number of observations ever recorded on the artifact
	Count uint64 `gorm:"column:count;not null;type:bigint"`
	// FirstBlock is the block of the artifact's first observation
	FirstBlock uint64 `gorm:"column:first_block;not null;type:bigint"`
	// LastBlock is the block of the artifact's latest observation
	LastBlock uint64 `gorm:"column:last_block;not null;type:bigint"`
	// CreatedAt is the timestamp when this record was indexed
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is the timestamp when this record was last updated
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the Artifact model
func (Artifact) TableName() string {
	return "artifacts"
}
