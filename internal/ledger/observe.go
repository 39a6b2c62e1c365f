package ledger

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/feral-file/ff-observations/internal/domain"
)

// record validates and appends one observation to its artifact's log.
// Validation order: update without parent, parent out of range, tip without recipient.
func (l *ledger) record(ctx context.Context, tx *txContext, call Call, in ObserveInput, located bool, x, y int32) (uint64, error) {
	value := call.value()
	if in.TokenID == nil || in.TokenID.Sign() < 0 || value.Sign() < 0 {
		return 0, fmt.Errorf("%w: token id and value must be non-negative", domain.ErrInvalidInput)
	}
	if !located {
		x, y = 0, 0
	}

	key := domain.NewArtifactKey(in.Collection, in.TokenID)
	count := l.world.artifactCount(key)

	if in.Update && in.Parent == 0 {
		return 0, domain.ErrUpdateRequiresParent
	}
	if in.Parent != 0 && in.Parent > count {
		return 0, fmt.Errorf("%w: parent %d, artifact %s has %d entries", domain.ErrInvalidParent, in.Parent, key, count)
	}
	if value.Sign() > 0 && in.TipRecipient == (common.Address{}) {
		return 0, domain.ErrInvalidRecipient
	}

	snapshot := l.world.snapshot()

	// payment is escrowed in the ledger's own account
	if err := l.world.move(call.Caller, l.cfg.Contract, value); err != nil {
		l.world.revertTo(snapshot)
		return 0, err
	}

	rec := l.world.appendObservation(key, domain.ObservationRecorded{
		Collection:   key.Collection,
		TokenID:      new(big.Int).Set(key.TokenID),
		Observer:     call.Caller,
		Parent:       in.Parent,
		Update:       in.Update,
		Note:         in.Note,
		X:            x,
		Y:            y,
		Located:      located,
		ViewType:     in.ViewType,
		Time:         in.Time,
		Tip:          new(big.Int).Set(value),
		TipRecipient: in.TipRecipient,
	}, tx.block)

	if value.Sign() > 0 {
		l.world.creditTip(in.TipRecipient, value, tx.unix())
	}

	l.world.emit(pendingLog{eventType: domain.EventTypeObservation, observation: &rec})
	return rec.ID, nil
}
