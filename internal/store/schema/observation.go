package schema

import (
	"time"

	"gorm.io/datatypes"

	"github.com/feral-file/ff-observations/internal/domain"
)

// Observation represents the observations table - every log record stored verbatim
type Observation struct {
	// Collection is the checksummed collection contract address
	Collection string `gorm:"column:collection;primaryKey;type:text;index:idx_observations_collection"`
	// TokenID is the token id within the collection
	TokenID string `gorm:"column:token_id;primaryKey;type:numeric(78,0)"`
	// ObservationID is the per-artifact sequence number assigned by the ledger
	ObservationID uint64 `gorm:"column:observation_id;primaryKey;type:bigint"`
	// Observer is the address that recorded the observation
	Observer string `gorm:"column:observer;not null;type:text;index:idx_observations_observer"`
	// Parent is the id replied to or amended, 0 for roots
	Parent uint64 `gorm:"column:parent;not null;type:bigint"`
	// IsUpdate marks records that amend their parent
	IsUpdate bool `gorm:"column:is_update;not null"`
	// TargetID is the entry an update was resolved against (0 when not an update or unresolvable)
	TargetID uint64 `gorm:"column:target_id;not null;default:0;type:bigint"`
	// Note is the free-text content
	Note string `gorm:"column:note;not null;type:text"`
	// Located tells whether X and Y apply
	Located bool `gorm:"column:located;not null"`
	X       int32 `gorm:"column:x;not null;type:integer"`
	Y       int32 `gorm:"column:y;not null;type:integer"`
	// ViewType is the view the observation was made against
	ViewType domain.ViewType `gorm:"column:view_type;not null;type:smallint"`
	// MediaTime is the optional playback time of the observation
	MediaTime uint32 `gorm:"column:media_time;not null;type:bigint"`
	// Tip is the value attached to the observation
	Tip string `gorm:"column:tip;not null;type:numeric(78,0)"`
	// TipRecipient is the address credited with Tip
	TipRecipient string `gorm:"column:tip_recipient;not null;type:text"`
	// Chain identifies the network the record was emitted on
	Chain domain.Chain `gorm:"column:chain;not null;type:text"`
	// TxHash is the transaction hash that emitted the record
	TxHash string `gorm:"column:tx_hash;not null;type:text"`
	// BlockNumber is the block where the record was emitted
	BlockNumber uint64 `gorm:"column:block_number;not null;type:bigint"`
	// BlockHash is the hash of the block, if known
	BlockHash *string `gorm:"column:block_hash;type:text"`
	// LogIndex is the position of the record within its block
	LogIndex uint `gorm:"column:log_index;not null;type:integer"`
	// Timestamp is the block timestamp
	Timestamp time.Time `gorm:"column:timestamp;not null;type:timestamptz"`
	// Raw contains the complete ledger event as JSON
	Raw datatypes.JSON `gorm:"column:raw;type:jsonb"`
	// CreatedAt is the timestamp when this record was indexed
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the Observation model
func (Observation) TableName() string {
	return "observations"
}
