package ethereum

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sort"
	"strings"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/feral-file/ff-observations/internal/adapter"
	"github.com/feral-file/ff-observations/internal/block"
	"github.com/feral-file/ff-observations/internal/domain"
	"github.com/feral-file/ff-observations/internal/logger"
	"github.com/feral-file/ff-observations/internal/ownership"
)

const (
	// DEFAULT_LOG_RANGE is the block span of one eth_getLogs request during backfill
	DEFAULT_LOG_RANGE = uint64(5000)
	// DEFAULT_FETCH_CONCURRENCY is the number of concurrent eth_getLogs requests during backfill
	DEFAULT_FETCH_CONCURRENCY = 4
)

// ErrChainMismatch is returned when the RPC node serves a different chain than configured
var ErrChainMismatch = errors.New("chain mismatch")

// ClientConfig holds the deployment the client reads from
type ClientConfig struct {
	ChainID          domain.Chain
	ContractAddress  common.Address
	LogRange         uint64
	FetchConcurrency int
}

// EthereumClient reads the observation ledger contract
//
//go:generate mockgen -source=client.go -destination=../../mocks/ethereum_client.go -package=mocks -mock_names=EthereumClient=MockEthereumClient
type EthereumClient interface {
	ownership.Resolver

	// ParseEventLog parses a contract log into a ledger event, nil for unrelated logs
	ParseEventLog(ctx context.Context, vLog types.Log) (*domain.LedgerEvent, error)

	// SubscribeFilterLogs subscribes to filter logs
	SubscribeFilterLogs(ctx context.Context, query ethereum.FilterQuery, ch chan<- types.Log) (ethereum.Subscription, error)

	// FetchLogs fetches the contract's logs in [fromBlock, toBlock] ordered by block and log index
	FetchLogs(ctx context.Context, fromBlock, toBlock uint64) ([]types.Log, error)

	// HeaderByNumber returns a header by number
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)

	// GetArtifact reads the artifacts(collection, tokenId) view
	GetArtifact(ctx context.Context, collection common.Address, tokenID *big.Int) (domain.Artifact, error)

	// GetTipBalance reads the tips(recipient) view
	GetTipBalance(ctx context.Context, recipient common.Address) (domain.TipBalance, error)

	// ContractAddress returns the ledger contract address
	ContractAddress() common.Address

	// VerifyChain fails with ErrChainMismatch unless the node serves the configured chain
	VerifyChain(ctx context.Context) error

	// Close closes the connection
	Close()
}

type ethereumClient struct {
	cfg           ClientConfig
	client        adapter.EthClient
	blockProvider block.BlockProvider
}

func NewClient(cfg ClientConfig, client adapter.EthClient, blockProvider block.BlockProvider) EthereumClient {
	if cfg.LogRange == 0 {
		cfg.LogRange = DEFAULT_LOG_RANGE
	}
	if cfg.FetchConcurrency <= 0 {
		cfg.FetchConcurrency = DEFAULT_FETCH_CONCURRENCY
	}
	return &ethereumClient{cfg: cfg, client: client, blockProvider: blockProvider}
}

func (c *ethereumClient) ContractAddress() common.Address {
	return c.cfg.ContractAddress
}

func (c *ethereumClient) VerifyChain(ctx context.Context) error {
	id, err := c.client.ChainID(ctx)
	if err != nil {
		return fmt.Errorf("failed to get chain id: %w", err)
	}
	if served := domain.Chain("eip155:" + id.String()); served != c.cfg.ChainID {
		return fmt.Errorf("%w: node serves %s, configured %s", ErrChainMismatch, served, c.cfg.ChainID)
	}
	return nil
}

// SubscribeFilterLogs subscribes to filter logs
func (c *ethereumClient) SubscribeFilterLogs(ctx context.Context, query ethereum.FilterQuery, ch chan<- types.Log) (ethereum.Subscription, error) {
	return c.client.SubscribeFilterLogs(ctx, query, ch)
}

// HeaderByNumber returns a header by number
func (c *ethereumClient) HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error) {
	return c.client.HeaderByNumber(ctx, number)
}

// contractFilterQuery returns the query matching every record the contract emits
func contractFilterQuery(contract common.Address) ethereum.FilterQuery {
	return ethereum.FilterQuery{
		Addresses: []common.Address{contract},
		Topics: [][]common.Hash{
			{observationEventSignature, tipsClaimedEventSignature},
		},
	}
}

// FetchLogs splits the range into LogRange-sized windows fetched concurrently,
// then merges them back into log order
func (c *ethereumClient) FetchLogs(ctx context.Context, fromBlock, toBlock uint64) ([]types.Log, error) {
	if fromBlock > toBlock {
		return nil, nil
	}

	pool := pond.NewResultPool[[]types.Log](c.cfg.FetchConcurrency, pond.WithContext(ctx))
	defer pool.StopAndWait()

	group := pool.NewGroup()
	for start := fromBlock; start <= toBlock; start += c.cfg.LogRange {
		end := min(start+c.cfg.LogRange-1, toBlock)
		query := contractFilterQuery(c.cfg.ContractAddress)
		query.FromBlock = new(big.Int).SetUint64(start)
		query.ToBlock = new(big.Int).SetUint64(end)

		group.SubmitErr(func() ([]types.Log, error) {
			logs, err := c.getLogsWithRetry(ctx, query, end-start+1)
			if err != nil {
				return nil, fmt.Errorf("failed to get logs for range %d-%d: %w", start, end, err)
			}
			return logs, nil
		})

		if end == toBlock {
			break
		}
	}

	results, err := group.Wait()
	if err != nil {
		return nil, err
	}

	var allLogs []types.Log
	for _, logs := range results {
		allLogs = append(allLogs, logs...)
	}
	sort.SliceStable(allLogs, func(i, j int) bool {
		if allLogs[i].BlockNumber != allLogs[j].BlockNumber {
			return allLogs[i].BlockNumber < allLogs[j].BlockNumber
		}
		return allLogs[i].Index < allLogs[j].Index
	})

	return allLogs, nil
}

// getLogsWithRetry attempts to get logs with retry logic and step size reduction
// It processes the entire range from query.FromBlock to query.ToBlock in chunks
func (c *ethereumClient) getLogsWithRetry(ctx context.Context, query ethereum.FilterQuery, stepSize uint64) ([]types.Log, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	currentStepSize := stepSize

	var allLogs []types.Log
	currentFrom := new(big.Int).Set(query.FromBlock)

	for currentFrom.Cmp(query.ToBlock) <= 0 {
		currentTo := new(big.Int).Add(currentFrom, new(big.Int).SetUint64(currentStepSize-1))
		if currentTo.Cmp(query.ToBlock) > 0 {
			currentTo.Set(query.ToBlock)
		}

		queryCopy := query
		queryCopy.FromBlock = new(big.Int).Set(currentFrom)
		queryCopy.ToBlock = new(big.Int).Set(currentTo)

		logs, err := c.client.FilterLogs(timeoutCtx, queryCopy)
		if err == nil {
			allLogs = append(allLogs, logs...)
			currentFrom.SetUint64(currentTo.Uint64() + 1)
			continue
		}

		if !isTooManyResultsError(err) || currentStepSize == 1 {
			return nil, err
		}

		// Provider refused the window: halve it and try again
		currentStepSize = currentStepSize / 2

		logger.WarnCtx(ctx, "Too many results, reducing step size",
			zap.Uint64("oldStepSize", currentStepSize*2),
			zap.Uint64("newStepSize", currentStepSize),
			zap.Uint64("fromBlock", currentFrom.Uint64()),
			zap.Uint64("toBlock", currentTo.Uint64()))
	}

	return allLogs, nil
}

// isTooManyResultsError checks if the error is related to too many results
func isTooManyResultsError(err error) bool {
	if err == nil {
		return false
	}

	errStr := err.Error()
	return strings.Contains(errStr, "query returned more than 10000 results") ||
		strings.Contains(errStr, "query timeout exceeded") ||
		strings.Contains(errStr, "too many results") ||
		strings.Contains(errStr, "exceeded maximum")
}

// observationData holds the non-indexed fields of the Observation event
type observationData struct {
	Id           uint64 //nolint:revive
	Parent       uint64
	Update       bool
	Note         string
	Located      bool
	X            int32
	Y            int32
	ViewType     uint8
	Time         uint32
	Tip          *big.Int
	TipRecipient common.Address
}

// ParseEventLog parses a contract log into a ledger event
func (c *ethereumClient) ParseEventLog(ctx context.Context, vLog types.Log) (*domain.LedgerEvent, error) {
	if len(vLog.Topics) == 0 || vLog.Address != c.cfg.ContractAddress {
		return nil, nil
	}
	if vLog.Removed {
		logger.WarnCtx(ctx, "Skipping removed log",
			zap.String("txHash", vLog.TxHash.Hex()),
			zap.Uint("logIndex", vLog.Index))
		return nil, nil
	}

	event := &domain.LedgerEvent{
		Chain:       c.cfg.ChainID,
		Contract:    vLog.Address.Hex(),
		TxHash:      vLog.TxHash.Hex(),
		BlockNumber: vLog.BlockNumber,
		LogIndex:    vLog.Index,
	}
	if vLog.BlockHash != (common.Hash{}) {
		blockHash := vLog.BlockHash.Hex()
		event.BlockHash = &blockHash
	}

	switch vLog.Topics[0] {
	case observationEventSignature:
		// Observation(address indexed collection, uint256 indexed tokenId, address indexed observer, ...)
		if len(vLog.Topics) != 4 {
			return nil, fmt.Errorf("invalid Observation event: expected 4 topics, got %d", len(vLog.Topics))
		}
		var data observationData
		if err := contractABI.UnpackIntoInterface(&data, "Observation", vLog.Data); err != nil {
			return nil, fmt.Errorf("failed to unpack Observation event: %w", err)
		}

		event.Type = domain.EventTypeObservation
		event.Observation = &domain.ObservationRecorded{
			Collection:   common.BytesToAddress(vLog.Topics[1].Bytes()),
			TokenID:      new(big.Int).SetBytes(vLog.Topics[2].Bytes()),
			Observer:     common.BytesToAddress(vLog.Topics[3].Bytes()),
			ID:           data.Id,
			Parent:       data.Parent,
			Update:       data.Update,
			Note:         data.Note,
			Located:      data.Located,
			X:            data.X,
			Y:            data.Y,
			ViewType:     domain.ViewType(data.ViewType),
			Time:         data.Time,
			Tip:          data.Tip,
			TipRecipient: data.TipRecipient,
		}

	case tipsClaimedEventSignature:
		// TipsClaimed(address indexed recipient, address indexed claimant, uint256 amount)
		if len(vLog.Topics) != 3 {
			return nil, fmt.Errorf("invalid TipsClaimed event: expected 3 topics, got %d", len(vLog.Topics))
		}
		values, err := contractABI.Unpack("TipsClaimed", vLog.Data)
		if err != nil {
			return nil, fmt.Errorf("failed to unpack TipsClaimed event: %w", err)
		}
		amount, ok := values[0].(*big.Int)
		if !ok {
			return nil, fmt.Errorf("invalid TipsClaimed event: unexpected amount type %T", values[0])
		}

		event.Type = domain.EventTypeTipsClaimed
		event.TipsClaimed = &domain.TipsClaimed{
			Recipient: common.BytesToAddress(vLog.Topics[1].Bytes()),
			Claimant:  common.BytesToAddress(vLog.Topics[2].Bytes()),
			Amount:    amount,
		}

	default:
		return nil, nil
	}

	timestamp, err := c.blockProvider.GetBlockTimestamp(ctx, vLog.BlockNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to get block timestamp: %w", err)
	}
	event.Timestamp = timestamp

	if !event.Valid() {
		return nil, fmt.Errorf("%w: malformed %s record in tx %s", domain.ErrInvalidInput, event.Type, event.TxHash)
	}

	return event, nil
}

// call packs and executes a view call on the ledger contract
func (c *ethereumClient) call(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
	data, err := contractABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack data: %w", err)
	}

	contract := c.cfg.ContractAddress
	result, err := c.client.CallContract(ctx, ethereum.CallMsg{
		To:   &contract,
		Data: data,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to call contract: %w", err)
	}

	values, err := contractABI.Unpack(method, result)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack result: %w", err)
	}

	return values, nil
}

// GetArtifact reads the on-chain aggregate of an artifact
func (c *ethereumClient) GetArtifact(ctx context.Context, collection common.Address, tokenID *big.Int) (domain.Artifact, error) {
	values, err := c.call(ctx, "artifacts", collection, tokenID)
	if err != nil {
		return domain.Artifact{}, err
	}

	count, ok1 := values[0].(uint64)
	firstBlock, ok2 := values[1].(uint64)
	if !ok1 || !ok2 {
		return domain.Artifact{}, fmt.Errorf("unexpected artifacts() output")
	}

	return domain.Artifact{Count: count, FirstBlock: firstBlock}, nil
}

// GetTipBalance reads the on-chain escrow of a recipient
func (c *ethereumClient) GetTipBalance(ctx context.Context, recipient common.Address) (domain.TipBalance, error) {
	values, err := c.call(ctx, "tips", recipient)
	if err != nil {
		return domain.TipBalance{}, err
	}

	balance, ok1 := values[0].(*big.Int)
	unclaimedSince, ok2 := values[1].(uint64)
	if !ok1 || !ok2 {
		return domain.TipBalance{}, fmt.Errorf("unexpected tips() output")
	}

	return domain.TipBalance{Balance: balance, UnclaimedSince: unclaimedSince}, nil
}

// OwnerOf queries owner() on account. Accounts without code, reverts and
// malformed return data all report Absent.
func (c *ethereumClient) OwnerOf(ctx context.Context, account common.Address) ownership.Result {
	data, err := ownerABI.Pack("owner")
	if err != nil {
		return ownership.Absent
	}

	result, err := c.client.CallContract(ctx, ethereum.CallMsg{
		To:   &account,
		Data: data,
	}, nil)
	if err != nil {
		logger.DebugCtx(ctx, "owner() call failed",
			zap.String("account", account.Hex()),
			zap.Error(err))
		return ownership.Absent
	}

	// an address word must be zero above its low 20 bytes; the decoder would drop them
	if len(result) < 32 || new(big.Int).SetBytes(result[:32]).BitLen() > common.AddressLength*8 {
		logger.DebugCtx(ctx, "owner() returned a malformed address",
			zap.String("account", account.Hex()))
		return ownership.Absent
	}

	var owner common.Address
	if err := ownerABI.UnpackIntoInterface(&owner, "owner", result); err != nil {
		return ownership.Absent
	}
	if owner == (common.Address{}) {
		return ownership.Absent
	}

	return ownership.Result{Owner: owner, OK: true}
}

// Close closes the connection
func (c *ethereumClient) Close() {
	c.client.Close()
}
