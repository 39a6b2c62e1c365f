package schema

import (
	"time"

	"github.com/feral-file/ff-observations/internal/domain"
)

// ProcessedEvent represents the processed_events table - one row per applied log record,
// used to make projection idempotent under redelivery
type ProcessedEvent struct {
	// DedupID is chain:tx_hash:log_index
	DedupID     string           `gorm:"column:dedup_id;primaryKey;type:text"`
	Chain       domain.Chain     `gorm:"column:chain;not null;type:text"`
	EventType   domain.EventType `gorm:"column:event_type;not null;type:text"`
	BlockNumber uint64           `gorm:"column:block_number;not null;type:bigint"`
	CreatedAt   time.Time        `gorm:"column:created_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the ProcessedEvent model
func (ProcessedEvent) TableName() string {
	return "processed_events"
}
