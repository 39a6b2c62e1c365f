package ledger

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/feral-file/ff-observations/internal/domain"
)

// Receiver is code attached to an account that runs whenever the account
// receives value from the ledger. Returning an error rejects the payment.
type Receiver interface {
	Receive(ctx context.Context, host Host, from common.Address, amount *big.Int) error
}

// ReceiverFunc adapts a function into a Receiver
type ReceiverFunc func(ctx context.Context, host Host, from common.Address, amount *big.Int) error

func (f ReceiverFunc) Receive(ctx context.Context, host Host, from common.Address, amount *big.Int) error {
	return f(ctx, host, from, amount)
}

// Host lets a receiver call back into the ledger while a payment is in flight.
// Calls run inside the current transaction with the receiver's account as caller;
// a failing call reverts only its own changes.
type Host interface {
	Self() common.Address
	Observe(ctx context.Context, value *big.Int, in ObserveInput) (uint64, error)
	ObserveAt(ctx context.Context, value *big.Int, in ObserveInput, x, y int32) (uint64, error)
	ClaimTips(ctx context.Context, recipient common.Address) (*big.Int, error)
	GetArtifact(collection common.Address, tokenID *big.Int) domain.Artifact
	GetTipBalance(recipient common.Address) domain.TipBalance
	BalanceOf(account common.Address) *big.Int
}

type host struct {
	ledger *ledger
	tx     *txContext
	self   common.Address
}

func (h *host) Self() common.Address {
	return h.self
}

func (h *host) Observe(ctx context.Context, value *big.Int, in ObserveInput) (uint64, error) {
	return h.ledger.record(ctx, h.tx, Call{Caller: h.self, Value: value}, in, false, 0, 0)
}

func (h *host) ObserveAt(ctx context.Context, value *big.Int, in ObserveInput, x, y int32) (uint64, error) {
	return h.ledger.record(ctx, h.tx, Call{Caller: h.self, Value: value}, in, true, x, y)
}

func (h *host) ClaimTips(ctx context.Context, recipient common.Address) (*big.Int, error) {
	return h.ledger.claim(ctx, h.tx, h.self, recipient)
}

func (h *host) GetArtifact(collection common.Address, tokenID *big.Int) domain.Artifact {
	return h.ledger.artifact(domain.NewArtifactKey(collection, tokenID))
}

func (h *host) GetTipBalance(recipient common.Address) domain.TipBalance {
	return h.ledger.world.tip(recipient)
}

func (h *host) BalanceOf(account common.Address) *big.Int {
	return h.ledger.world.balanceOf(account)
}
