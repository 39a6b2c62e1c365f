package dto

import (
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/feral-file/ff-observations/internal/api/shared/constants"
	apierrors "github.com/feral-file/ff-observations/internal/api/shared/errors"
	"github.com/feral-file/ff-observations/internal/domain"
	"github.com/feral-file/ff-observations/internal/ledger"
)

// ObserveRequest represents the request body for recording an observation.
// Sending both x and y records a located observation.
type ObserveRequest struct {
	Collection   string `json:"collection"`
	TokenID      string `json:"token_id"`
	Parent       uint64 `json:"parent"`
	Update       bool   `json:"update"`
	Note         string `json:"note"`
	ViewType     uint8  `json:"view_type"`
	Time         uint32 `json:"time"`
	TipRecipient string `json:"tip_recipient,omitempty"`
	// Value is the attached tip in wei, as a decimal string
	Value string `json:"value,omitempty"`
	X     *int32 `json:"x,omitempty"`
	Y     *int32 `json:"y,omitempty"`
}

// Validate validates the request body
func (r *ObserveRequest) Validate() error {
	if !common.IsHexAddress(r.Collection) {
		return apierrors.NewValidationError(fmt.Sprintf("invalid collection address: %s", r.Collection))
	}
	if !domain.ValidTokenNumber(r.TokenID) {
		return apierrors.NewValidationError(fmt.Sprintf("invalid token_id: %s", r.TokenID))
	}
	if len(r.Note) > domain.MaxNoteLength {
		return apierrors.NewValidationError(fmt.Sprintf("note exceeds %d bytes", domain.MaxNoteLength))
	}
	if !domain.ViewType(r.ViewType).Valid() {
		return apierrors.NewValidationError(fmt.Sprintf("invalid view_type: %d", r.ViewType))
	}
	if r.TipRecipient != "" && !common.IsHexAddress(r.TipRecipient) {
		return apierrors.NewValidationError(fmt.Sprintf("invalid tip_recipient address: %s", r.TipRecipient))
	}
	if (r.X == nil) != (r.Y == nil) {
		return apierrors.NewValidationError("x and y must be given together")
	}
	if _, err := ParseAmount(r.Value); err != nil {
		return err
	}
	return nil
}

// Located reports whether the request carries a location
func (r *ObserveRequest) Located() bool {
	return r.X != nil && r.Y != nil
}

// ToInput converts a validated request into ledger call input and the attached value
func (r *ObserveRequest) ToInput() (ledger.ObserveInput, *big.Int) {
	tokenID, _ := new(big.Int).SetString(r.TokenID, 10)
	value, _ := ParseAmount(r.Value)

	in := ledger.ObserveInput{
		Collection: common.HexToAddress(r.Collection),
		TokenID:    tokenID,
		Parent:     r.Parent,
		Update:     r.Update,
		Note:       r.Note,
		ViewType:   domain.ViewType(r.ViewType),
		Time:       r.Time,
	}
	if r.TipRecipient != "" {
		in.TipRecipient = common.HexToAddress(r.TipRecipient)
	}
	return in, value
}

// FundRequest represents the request body for crediting a devnet account
type FundRequest struct {
	Amount string `json:"amount"`
}

// Validate validates the request body
func (r *FundRequest) Validate() error {
	if r.Amount == "" {
		return apierrors.NewValidationError("amount is required")
	}
	amount, err := ParseAmount(r.Amount)
	if err != nil {
		return err
	}
	if amount.Sign() == 0 {
		return apierrors.NewValidationError("amount must be positive")
	}
	return nil
}

// ParseAmount parses a non-negative decimal wei amount; empty means zero
func ParseAmount(s string) (*big.Int, error) {
	if s == "" {
		return new(big.Int), nil
	}
	if len(s) > constants.MAX_AMOUNT_DIGITS || !domain.ValidTokenNumber(s) {
		return nil, apierrors.NewValidationError(fmt.Sprintf("invalid amount: %s", s))
	}
	amount, _ := new(big.Int).SetString(s, 10)
	return amount, nil
}

// ReceiptResponse represents a committed ledger call
type ReceiptResponse struct {
	TxHash      string    `json:"tx_hash"`
	BlockNumber uint64    `json:"block_number"`
	Timestamp   time.Time `json:"timestamp"`
	// ObservationID is set for observations
	ObservationID *uint64 `json:"observation_id,omitempty"`
	// Amount is set for claims
	Amount *string               `json:"amount,omitempty"`
	Events []domain.LedgerEvent `json:"events"`
}

// MapReceiptToDTO maps a ledger receipt, surfacing the id or amount of its record
func MapReceiptToDTO(r *ledger.Receipt) ReceiptResponse {
	resp := ReceiptResponse{
		TxHash:      r.TxHash.Hex(),
		BlockNumber: r.BlockNumber,
		Timestamp:   r.Timestamp,
		Events:      r.Events,
	}
	for i := range r.Events {
		switch {
		case r.Events[i].Observation != nil && resp.ObservationID == nil:
			id := r.Events[i].Observation.ID
			resp.ObservationID = &id
		case r.Events[i].TipsClaimed != nil && resp.Amount == nil:
			amount := r.Events[i].TipsClaimed.Amount.String()
			resp.Amount = &amount
		}
	}
	return resp
}

// BalanceResponse represents the native balance of an account
type BalanceResponse struct {
	Account string `json:"account"`
	Balance string `json:"balance"`
}
