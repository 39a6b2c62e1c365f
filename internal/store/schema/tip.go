package schema

import "time"

// Tip represents the tips table - per-recipient escrow mirrored from the ledger log
type Tip struct {
	// Recipient is the tip recipient address
	Recipient string `gorm:"column:recipient;primaryKey;type:text"`
	// Balance is the amount currently escrowed
	Balance string `gorm:"column:balance;not null;type:numeric(78,0)"`
	// UnclaimedSince is the unix time of the first credit since the last claim, 0 when empty
	UnclaimedSince uint64 `gorm:"column:unclaimed_since;not null;type:bigint"`
	// TotalTipped is the lifetime amount credited
	TotalTipped string `gorm:"column:total_tipped;not null;type:numeric(78,0)"`
	// TotalClaimed is the lifetime amount claimed
	TotalClaimed string `gorm:"column:total_claimed;not null;type:numeric(78,0)"`
	// LastClaimant is the account paid by the latest claim
	LastClaimant *string `gorm:"column:last_claimant;type:text"`
	// LastClaimBlock and LastClaimLogIndex locate the latest claim in the log;
	// only credits after it are escrowed
	LastClaimBlock    *uint64   `gorm:"column:last_claim_block;type:bigint"`
	LastClaimLogIndex *uint     `gorm:"column:last_claim_log_index;type:integer"`
	CreatedAt         time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	UpdatedAt         time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the Tip model
func (Tip) TableName() string {
	return "tips"
}

// CollectionTip represents the collection_tips table - tips addressed to a collection contract
type CollectionTip struct {
	Collection   string    `gorm:"column:collection;primaryKey;type:text"`
	TotalTipped  string    `gorm:"column:total_tipped;not null;type:numeric(78,0)"`
	TotalClaimed string    `gorm:"column:total_claimed;not null;type:numeric(78,0)"`
	Balance      string    `gorm:"column:balance;not null;type:numeric(78,0)"`
	CreatedAt    time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	UpdatedAt    time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the CollectionTip model
func (CollectionTip) TableName() string {
	return "collection_tips"
}
