package ledger

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/feral-file/ff-observations/internal/domain"
)

// artifactState is the aggregate and raw log of a single artifact
type artifactState struct {
	key        domain.ArtifactKey
	count      uint64
	firstBlock uint64
	records    []domain.ObservationRecorded
}

// pendingLog is a log record emitted by a call that has not committed yet
type pendingLog struct {
	eventType   domain.EventType
	observation *domain.ObservationRecorded
	tipsClaimed *domain.TipsClaimed
}

// world is the journaled ledger state.
// Every mutation pushes an undo entry so a call frame can be reverted to a snapshot.
type world struct {
	artifacts map[string]*artifactState
	tips      map[common.Address]domain.TipBalance
	accounts  map[common.Address]*big.Int
	logs      []pendingLog
	journal   []func()
}

func newWorld() *world {
	return &world{
		artifacts: make(map[string]*artifactState),
		tips:      make(map[common.Address]domain.TipBalance),
		accounts:  make(map[common.Address]*big.Int),
	}
}

// snapshot returns an identifier for the current journal position
func (w *world) snapshot() int {
	return len(w.journal)
}

// revertTo undoes every mutation made after the snapshot
func (w *world) revertTo(snapshot int) {
	for len(w.journal) > snapshot {
		last := len(w.journal) - 1
		w.journal[last]()
		w.journal = w.journal[:last]
	}
}

// commit forgets the journal and hands out the pending logs
func (w *world) commit() []pendingLog {
	logs := w.logs
	w.logs = nil
	w.journal = w.journal[:0]
	return logs
}

func (w *world) artifact(key domain.ArtifactKey) *artifactState {
	return w.artifacts[key.String()]
}

func (w *world) artifactCount(key domain.ArtifactKey) uint64 {
	if a := w.artifact(key); a != nil {
		return a.count
	}
	return 0
}

// appendObservation assigns the next id of the artifact, records firstBlock on
// the first entry and stores the record
func (w *world) appendObservation(key domain.ArtifactKey, rec domain.ObservationRecorded, block uint64) domain.ObservationRecorded {
	id := key.String()
	a, ok := w.artifacts[id]
	if !ok {
		a = &artifactState{key: key}
		w.artifacts[id] = a
	}

	prevCount, prevFirstBlock := a.count, a.firstBlock
	a.count++
	rec.ID = a.count
	if prevCount == 0 {
		a.firstBlock = block
	}
	a.records = append(a.records, rec)

	w.journal = append(w.journal, func() {
		a.records = a.records[:len(a.records)-1]
		a.count = prevCount
		a.firstBlock = prevFirstBlock
		if !ok {
			delete(w.artifacts, id)
		}
	})
	return rec
}

func (w *world) tip(recipient common.Address) domain.TipBalance {
	b, ok := w.tips[recipient]
	if !ok {
		return domain.TipBalance{Balance: new(big.Int)}
	}
	return domain.TipBalance{Balance: new(big.Int).Set(b.Balance), UnclaimedSince: b.UnclaimedSince}
}

func (w *world) setTip(recipient common.Address, next domain.TipBalance) {
	prev, existed := w.tips[recipient]
	if next.IsZero() {
		delete(w.tips, recipient)
	} else {
		w.tips[recipient] = next
	}
	w.journal = append(w.journal, func() {
		if existed {
			w.tips[recipient] = prev
		} else {
			delete(w.tips, recipient)
		}
	})
}

// creditTip adds amount to the recipient's escrow. unclaimedSince is only set
// on the zero to nonzero transition.
func (w *world) creditTip(recipient common.Address, amount *big.Int, now uint64) {
	cur := w.tip(recipient)
	next := domain.TipBalance{
		Balance:        new(big.Int).Add(cur.Balance, amount),
		UnclaimedSince: cur.UnclaimedSince,
	}
	if cur.IsZero() {
		next.UnclaimedSince = now
	}
	w.setTip(recipient, next)
}

func (w *world) zeroTip(recipient common.Address) {
	w.setTip(recipient, domain.TipBalance{Balance: new(big.Int)})
}

func (w *world) balanceOf(account common.Address) *big.Int {
	if b, ok := w.accounts[account]; ok {
		return new(big.Int).Set(b)
	}
	return new(big.Int)
}

func (w *world) setBalance(account common.Address, amount *big.Int) {
	prev, existed := w.accounts[account]
	w.accounts[account] = amount
	w.journal = append(w.journal, func() {
		if existed {
			w.accounts[account] = prev
		} else {
			delete(w.accounts, account)
		}
	})
}

// mint credits native value out of thin air (devnet faucet)
func (w *world) mint(account common.Address, amount *big.Int) {
	w.setBalance(account, new(big.Int).Add(w.balanceOf(account), amount))
}

// move transfers native value between accounts
func (w *world) move(from, to common.Address, amount *big.Int) error {
	if amount.Sign() == 0 {
		return nil
	}
	fromBalance := w.balanceOf(from)
	if fromBalance.Cmp(amount) < 0 {
		return fmt.Errorf("%w: %s has %s, needs %s", domain.ErrInsufficientFunds, from.Hex(), fromBalance, amount)
	}
	w.setBalance(from, fromBalance.Sub(fromBalance, amount))
	w.setBalance(to, new(big.Int).Add(w.balanceOf(to), amount))
	return nil
}

func (w *world) emit(l pendingLog) {
	w.logs = append(w.logs, l)
	w.journal = append(w.journal, func() {
		w.logs = w.logs[:len(w.logs)-1]
	})
}
