package ledger

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"

	"github.com/feral-file/ff-observations/internal/adapter"
	"github.com/feral-file/ff-observations/internal/domain"
	"github.com/feral-file/ff-observations/internal/logger"
	"github.com/feral-file/ff-observations/internal/ownership"
)

// maxCallDepth bounds nested calls made by receivers
const maxCallDepth = 64

var errCallDepth = errors.New("max call depth exceeded")

// Config holds the immutable deployment parameters of a ledger
type Config struct {
	// Chain is the chain identifier stamped on emitted records
	Chain domain.Chain
	// Contract is the ledger's own account, which holds escrowed tips
	Contract common.Address
	// SweepRecipient may claim any balance left unclaimed for domain.SweepDelay
	SweepRecipient common.Address
}

// Call is the caller context of a ledger call
type Call struct {
	Caller common.Address
	Value  *big.Int
}

func (c Call) value() *big.Int {
	if c.Value == nil {
		return new(big.Int)
	}
	return c.Value
}

// ObserveInput holds the arguments of an observation
type ObserveInput struct {
	Collection   common.Address  `json:"collection"`
	TokenID      *big.Int        `json:"token_id"`
	Parent       uint64          `json:"parent"`
	Update       bool            `json:"update"`
	Note         string          `json:"note"`
	ViewType     domain.ViewType `json:"view_type"`
	Time         uint32          `json:"time"`
	TipRecipient common.Address  `json:"tip_recipient"`
}

// args returns the call arguments with every integer wider than 32 bits as a
// decimal string, so canonical JSON encoding keeps full precision
func (in ObserveInput) args() map[string]any {
	tokenID := "0"
	if in.TokenID != nil {
		tokenID = in.TokenID.String()
	}
	return map[string]any{
		"collection":   in.Collection.Hex(),
		"tokenId":      tokenID,
		"parent":       strconv.FormatUint(in.Parent, 10),
		"update":       in.Update,
		"note":         in.Note,
		"viewType":     in.ViewType,
		"time":         in.Time,
		"tipRecipient": in.TipRecipient.Hex(),
	}
}

// Receipt is the result of a committed call
type Receipt struct {
	TxHash      common.Hash          `json:"tx_hash"`
	BlockNumber uint64               `json:"block_number"`
	Timestamp   time.Time            `json:"timestamp"`
	Events      []domain.LedgerEvent `json:"events"`
}

// Ledger is the observation ledger and tip accounting state machine.
// Calls are serialized: each committed call produces exactly one block.
//
//go:generate mockgen -source=ledger.go -destination=../mocks/ledger.go -package=mocks -mock_names=Ledger=MockLedger
type Ledger interface {
	// Observe records an unlocated observation
	Observe(ctx context.Context, call Call, in ObserveInput) (*Receipt, error)

	// ObserveAt records an observation located at (x, y)
	ObserveAt(ctx context.Context, call Call, in ObserveInput, x, y int32) (*Receipt, error)

	// ClaimTips pays the escrowed balance of recipient to the caller
	ClaimTips(ctx context.Context, caller common.Address, recipient common.Address) (*Receipt, error)

	// GetArtifact returns the aggregate of an artifact
	GetArtifact(collection common.Address, tokenID *big.Int) domain.Artifact

	// GetTipBalance returns the escrow state of a recipient
	GetTipBalance(recipient common.Address) domain.TipBalance

	// Observations returns the raw log of an artifact in id order
	Observations(collection common.Address, tokenID *big.Int) []domain.ObservationRecorded

	// Events returns up to limit committed records starting at sequence from (1-based)
	Events(from uint64, limit int) []domain.LedgerEvent

	// Head returns the latest committed block number
	Head() uint64

	// Fund credits native value to an account
	Fund(ctx context.Context, account common.Address, amount *big.Int) error

	// BalanceOf returns the native balance of an account
	BalanceOf(account common.Address) *big.Int

	// RegisterReceiver attaches code that runs when account receives value
	RegisterReceiver(account common.Address, r Receiver)

	// Config returns the deployment parameters
	Config() Config
}

type ledger struct {
	mu        sync.Mutex
	cfg       Config
	clock     adapter.Clock
	owners    ownership.Resolver
	world     *world
	receivers map[common.Address]Receiver
	head      uint64
	headTime  time.Time
	events    []domain.LedgerEvent
}

// New creates a ledger with an empty state.
// owners answers owner-of-record queries for delegated claims and may be nil.
func New(cfg Config, clock adapter.Clock, owners ownership.Resolver) Ledger {
	return &ledger{
		cfg:       cfg,
		clock:     clock,
		owners:    ownership.Safe(owners),
		world:     newWorld(),
		receivers: make(map[common.Address]Receiver),
	}
}

// txContext carries the block a call executes in
type txContext struct {
	block uint64
	time  time.Time
	depth int
}

func (tx *txContext) unix() uint64 {
	return uint64(tx.time.Unix())
}

func (l *ledger) Config() Config {
	return l.cfg
}

func (l *ledger) Observe(ctx context.Context, call Call, in ObserveInput) (*Receipt, error) {
	return l.execute(ctx, "observe", call, in.args(), func(tx *txContext) error {
		_, err := l.record(ctx, tx, call, in, false, 0, 0)
		return err
	})
}

func (l *ledger) ObserveAt(ctx context.Context, call Call, in ObserveInput, x, y int32) (*Receipt, error) {
	args := in.args()
	args["x"], args["y"] = x, y
	return l.execute(ctx, "observeAt", call, args, func(tx *txContext) error {
		_, err := l.record(ctx, tx, call, in, true, x, y)
		return err
	})
}

func (l *ledger) ClaimTips(ctx context.Context, caller common.Address, recipient common.Address) (*Receipt, error) {
	call := Call{Caller: caller}
	args := map[string]string{"recipient": recipient.Hex()}
	return l.execute(ctx, "claimTips", call, args, func(tx *txContext) error {
		_, err := l.claim(ctx, tx, caller, recipient)
		return err
	})
}

func (l *ledger) GetArtifact(collection common.Address, tokenID *big.Int) domain.Artifact {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.artifact(domain.NewArtifactKey(collection, tokenID))
}

func (l *ledger) artifact(key domain.ArtifactKey) domain.Artifact {
	a := l.world.artifact(key)
	if a == nil {
		return domain.Artifact{}
	}
	return domain.Artifact{Count: a.count, FirstBlock: a.firstBlock}
}

func (l *ledger) GetTipBalance(recipient common.Address) domain.TipBalance {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.world.tip(recipient)
}

func (l *ledger) Observations(collection common.Address, tokenID *big.Int) []domain.ObservationRecorded {
	l.mu.Lock()
	defer l.mu.Unlock()
	a := l.world.artifact(domain.NewArtifactKey(collection, tokenID))
	if a == nil {
		return nil
	}
	return append([]domain.ObservationRecorded(nil), a.records...)
}

func (l *ledger) Events(from uint64, limit int) []domain.LedgerEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	if from == 0 {
		from = 1
	}
	if from > uint64(len(l.events)) || limit <= 0 {
		return nil
	}
	end := min(from-1+uint64(limit), uint64(len(l.events)))
	return append([]domain.LedgerEvent(nil), l.events[from-1:end]...)
}

func (l *ledger) Head() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.head
}

func (l *ledger) Fund(ctx context.Context, account common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return fmt.Errorf("%w: fund amount must be positive", domain.ErrInvalidInput)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.world.mint(account, amount)
	l.world.commit()
	logger.DebugCtx(ctx, "Funded account", zap.String("account", account.Hex()), zap.String("amount", amount.String()))
	return nil
}

func (l *ledger) BalanceOf(account common.Address) *big.Int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.world.balanceOf(account)
}

func (l *ledger) RegisterReceiver(account common.Address, r Receiver) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if r == nil {
		delete(l.receivers, account)
		return
	}
	l.receivers[account] = r
}

// execute runs fn as one transaction: on success the pending logs are sealed
// into a new block, on failure every state change is reverted
func (l *ledger) execute(ctx context.Context, method string, call Call, args any, fn func(tx *txContext) error) (*Receipt, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now().UTC().Truncate(time.Second)
	if now.Before(l.headTime) {
		now = l.headTime
	}
	tx := &txContext{block: l.head + 1, time: now}

	snapshot := l.world.snapshot()
	if err := fn(tx); err != nil {
		l.world.revertTo(snapshot)
		logger.DebugCtx(ctx, "Call reverted",
			zap.String("method", method),
			zap.String("caller", call.Caller.Hex()),
			zap.Error(err))
		return nil, err
	}

	txHash, err := transactionHash(method, call, args, tx.block)
	if err != nil {
		l.world.revertTo(snapshot)
		return nil, fmt.Errorf("failed to hash transaction: %w", err)
	}

	logs := l.world.commit()
	l.head = tx.block
	l.headTime = tx.time

	receipt := &Receipt{
		TxHash:      txHash,
		BlockNumber: tx.block,
		Timestamp:   tx.time,
		Events:      make([]domain.LedgerEvent, 0, len(logs)),
	}
	for i, pl := range logs {
		receipt.Events = append(receipt.Events, domain.LedgerEvent{
			Chain:       l.cfg.Chain,
			Type:        pl.eventType,
			Contract:    l.cfg.Contract.Hex(),
			TxHash:      txHash.Hex(),
			BlockNumber: tx.block,
			LogIndex:    uint(i),
			Timestamp:   tx.time,
			Observation: pl.observation,
			TipsClaimed: pl.tipsClaimed,
		})
	}
	l.events = append(l.events, receipt.Events...)

	logger.DebugCtx(ctx, "Call committed",
		zap.String("method", method),
		zap.String("caller", call.Caller.Hex()),
		zap.Uint64("block", tx.block),
		zap.String("txHash", txHash.Hex()),
		zap.Int("logs", len(logs)))

	return receipt, nil
}

// transactionHash derives a deterministic hash from the canonical JSON of the call
func transactionHash(method string, call Call, args any, block uint64) (common.Hash, error) {
	canonical, err := adapter.MarshalCanonical(map[string]any{
		"method": method,
		"caller": call.Caller.Hex(),
		"value":  call.value().String(),
		"args":   args,
		"block":  strconv.FormatUint(block, 10),
	})
	if err != nil {
		return common.Hash{}, err
	}
	return crypto.Keccak256Hash(canonical), nil
}

// transfer moves value and runs the destination's receiver, if any
func (l *ledger) transfer(ctx context.Context, tx *txContext, from, to common.Address, amount *big.Int) error {
	if err := l.world.move(from, to, amount); err != nil {
		return err
	}

	r, ok := l.receivers[to]
	if !ok {
		return nil
	}
	if tx.depth >= maxCallDepth {
		return errCallDepth
	}
	tx.depth++
	defer func() { tx.depth-- }()

	return r.Receive(ctx, &host{ledger: l, tx: tx, self: to}, from, new(big.Int).Set(amount))
}
