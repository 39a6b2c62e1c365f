package ledger

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/feral-file/ff-observations/internal/domain"
)

// TipState is the claimability of a tip balance at a point in time
type TipState int

const (
	// TipUnclaimable means nothing is escrowed
	TipUnclaimable TipState = iota
	// TipClaimableByOwner means the recipient or its owner of record may claim
	TipClaimableByOwner
	// TipSweepEligible means the sweep recipient may claim as well
	TipSweepEligible
)

func (s TipState) String() string {
	switch s {
	case TipUnclaimable:
		return "unclaimable"
	case TipClaimableByOwner:
		return "claimable_by_owner"
	case TipSweepEligible:
		return "sweep_eligible"
	default:
		return "unknown"
	}
}

// StateOf derives the claim state from the stored balance fields
func StateOf(b domain.TipBalance, now time.Time) TipState {
	if b.IsZero() {
		return TipUnclaimable
	}
	since := time.Unix(int64(b.UnclaimedSince), 0) //nolint:gosec,G115
	if now.Sub(since) >= domain.SweepDelay {
		return TipSweepEligible
	}
	return TipClaimableByOwner
}

// claim zeroes the recipient's balance, then pays it to the caller.
// A failed payment reverts the zeroing.
func (l *ledger) claim(ctx context.Context, tx *txContext, caller, recipient common.Address) (*big.Int, error) {
	balance := l.world.tip(recipient)
	if balance.IsZero() {
		return nil, domain.ErrNoTipsToClaim
	}
	if err := l.authorize(ctx, tx, caller, recipient, balance); err != nil {
		return nil, err
	}

	snapshot := l.world.snapshot()
	amount := balance.Balance
	l.world.zeroTip(recipient)

	if err := l.transfer(ctx, tx, l.cfg.Contract, caller, amount); err != nil {
		l.world.revertTo(snapshot)
		return nil, fmt.Errorf("%w: %v", domain.ErrTransferFailed, err)
	}

	l.world.emit(pendingLog{
		eventType: domain.EventTypeTipsClaimed,
		tipsClaimed: &domain.TipsClaimed{
			Recipient: recipient,
			Claimant:  caller,
			Amount:    new(big.Int).Set(amount),
		},
	})
	return amount, nil
}

// authorize applies the claim rules in order: the recipient itself, the
// recipient's owner of record, then the sweep recipient once the balance is old enough
func (l *ledger) authorize(ctx context.Context, tx *txContext, caller, recipient common.Address, balance domain.TipBalance) error {
	if caller == recipient {
		return nil
	}

	if res := l.owners.OwnerOf(ctx, recipient); res.OK && res.Owner == caller {
		return nil
	}

	if l.cfg.SweepRecipient != (common.Address{}) && caller == l.cfg.SweepRecipient {
		if StateOf(balance, tx.time) == TipSweepEligible {
			return nil
		}
		return domain.ErrTipsNotYetClaimable
	}

	return domain.ErrNotAuthorized
}
