package schema

import "time"

// ObservationView represents the observation_views table - the live state of every
// non-update observation after folding authorized updates onto it
type ObservationView struct {
	Collection    string `gorm:"column:collection;primaryKey;type:text"`
	TokenID       string `gorm:"column:token_id;primaryKey;type:numeric(78,0)"`
	ObservationID uint64 `gorm:"column:observation_id;primaryKey;type:bigint"`
	Observer      string `gorm:"column:observer;not null;type:text"`
	Parent        uint64 `gorm:"column:parent;not null;type:bigint"`
	Note          string `gorm:"column:note;not null;type:text"`
	Located       bool   `gorm:"column:located;not null"`
	X             int32  `gorm:"column:x;not null;type:integer"`
	Y             int32  `gorm:"column:y;not null;type:integer"`
	ViewType      uint8  `gorm:"column:view_type;not null;type:smallint"`
	MediaTime     uint32 `gorm:"column:media_time;not null;type:bigint"`
	Tip           string `gorm:"column:tip;not null;type:numeric(78,0)"`
	TipRecipient  string `gorm:"column:tip_recipient;not null;type:text"`
	// Deleted is set when the author soft-deleted the entry
	Deleted bool `gorm:"column:deleted;not null;default:false"`
	// UpdatedBy is the id of the last applied update, 0 when never updated
	UpdatedBy uint64 `gorm:"column:updated_by;not null;default:0;type:bigint"`
	// UpdatedBlock is the block of the last applied update
	UpdatedBlock *uint64   `gorm:"column:updated_block;type:bigint"`
	BlockNumber  uint64    `gorm:"column:block_number;not null;type:bigint"`
	TxHash       string    `gorm:"column:tx_hash;not null;type:text"`
	Timestamp    time.Time `gorm:"column:timestamp;not null;type:timestamptz"`
	CreatedAt    time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	UpdatedAt    time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the ObservationView model
func (ObservationView) TableName() string {
	return "observation_views"
}
