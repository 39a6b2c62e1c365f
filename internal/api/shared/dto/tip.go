package dto

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/feral-file/ff-observations/internal/domain"
	"github.com/feral-file/ff-observations/internal/ledger"
	"github.com/feral-file/ff-observations/internal/store/schema"
)

// TipResponse represents the escrow state of a tip recipient
type TipResponse struct {
	Recipient      string  `json:"recipient"`
	Balance        string  `json:"balance"`
	UnclaimedSince uint64  `json:"unclaimed_since"`
	State          string  `json:"state"`
	TotalTipped    *string `json:"total_tipped,omitempty"`
	TotalClaimed   *string `json:"total_claimed,omitempty"`
	LastClaimant   *string `json:"last_claimant,omitempty"`
}

// CollectionTipResponse represents the tips addressed to a collection contract
type CollectionTipResponse struct {
	Collection   string `json:"collection"`
	Balance      string `json:"balance"`
	TotalTipped  string `json:"total_tipped"`
	TotalClaimed string `json:"total_claimed"`
}

// MapTipBalanceToDTO maps a ledger balance, deriving its claim state at now
func MapTipBalanceToDTO(recipient common.Address, b domain.TipBalance, now time.Time) TipResponse {
	balance := "0"
	if b.Balance != nil {
		balance = b.Balance.String()
	}
	return TipResponse{
		Recipient:      recipient.Hex(),
		Balance:        balance,
		UnclaimedSince: b.UnclaimedSince,
		State:          ledger.StateOf(b, now).String(),
	}
}

// MapTipToDTO maps a projected balance, deriving its claim state at now
func MapTipToDTO(t *schema.Tip, now time.Time) TipResponse {
	balance, ok := new(big.Int).SetString(t.Balance, 10)
	if !ok {
		balance = new(big.Int)
	}
	resp := MapTipBalanceToDTO(common.HexToAddress(t.Recipient), domain.TipBalance{
		Balance:        balance,
		UnclaimedSince: t.UnclaimedSince,
	}, now)

	totalTipped, totalClaimed := t.TotalTipped, t.TotalClaimed
	resp.TotalTipped = &totalTipped
	resp.TotalClaimed = &totalClaimed
	resp.LastClaimant = t.LastClaimant
	return resp
}

// MapCollectionTipToDTO maps a projected collection tip row
func MapCollectionTipToDTO(t *schema.CollectionTip) CollectionTipResponse {
	return CollectionTipResponse{
		Collection:   t.Collection,
		Balance:      t.Balance,
		TotalTipped:  t.TotalTipped,
		TotalClaimed: t.TotalClaimed,
	}
}
