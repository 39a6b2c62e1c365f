package ethereum

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/feral-file/ff-observations/internal/domain"
	"github.com/feral-file/ff-observations/internal/logger"
	"github.com/feral-file/ff-observations/internal/messaging"
)

// Config holds the configuration for Ethereum subscription
type Config struct {
	WebSocketURL string       // WebSocket URL (e.g., wss://mainnet.infura.io/ws/v3/YOUR_PROJECT_ID)
	ChainID      domain.Chain // e.g., "eip155:1" for Ethereum mainnet
}

type ethSubscriber struct {
	client  EthereumClient
	chainID domain.Chain
}

// NewSubscriber creates a new subscriber for the ledger contract's records
func NewSubscriber(cfg Config, ethereumClient EthereumClient) messaging.Subscriber {
	return &ethSubscriber{
		client:  ethereumClient,
		chainID: cfg.ChainID,
	}
}

// SubscribeEvents subscribes to Observation and TipsClaimed logs of the ledger contract
func (s *ethSubscriber) SubscribeEvents(ctx context.Context, fromBlock uint64, handler messaging.EventHandler) error {
	query := contractFilterQuery(s.client.ContractAddress())
	if fromBlock > 0 {
		query.FromBlock = new(big.Int).SetUint64(fromBlock)
	}

	logs := make(chan types.Log)
	sub, err := s.client.SubscribeFilterLogs(ctx, query, logs)
	if err != nil {
		return fmt.Errorf("failed to subscribe to filter logs: %w", err)
	}
	defer func() {
		logger.InfoCtx(ctx, "Unsubscribing from ledger contract logs")
		sub.Unsubscribe()
		logger.InfoCtx(ctx, "Unsubscribed from ledger contract logs")
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-sub.Err():
			return fmt.Errorf("subscription error: %w", err)
		case vLog := <-logs:
			if err := s.dispatch(ctx, vLog, handler); err != nil {
				return err
			}
		}
	}
}

// Backfill replays the contract's logs in [fromBlock, toBlock] through handler in log order
func (s *ethSubscriber) Backfill(ctx context.Context, fromBlock, toBlock uint64, handler messaging.EventHandler) error {
	logs, err := s.client.FetchLogs(ctx, fromBlock, toBlock)
	if err != nil {
		return fmt.Errorf("failed to fetch logs: %w", err)
	}

	logger.InfoCtx(ctx, "Backfilling ledger contract logs",
		zap.Uint64("fromBlock", fromBlock),
		zap.Uint64("toBlock", toBlock),
		zap.Int("logs", len(logs)))

	for _, vLog := range logs {
		if err := s.dispatch(ctx, vLog, handler); err != nil {
			return err
		}
	}

	return nil
}

// dispatch parses a log and hands it to handler. Malformed logs are skipped;
// handler errors stop the stream so the cursor never moves past an unpublished record.
func (s *ethSubscriber) dispatch(ctx context.Context, vLog types.Log, handler messaging.EventHandler) error {
	event, err := s.client.ParseEventLog(ctx, vLog)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		logger.ErrorCtx(ctx, err, zap.String("message", "Error parsing log"),
			zap.String("txHash", vLog.TxHash.Hex()),
			zap.Uint("logIndex", vLog.Index))
		return nil
	}

	if event == nil {
		return nil
	}

	if err := handler(event); err != nil {
		return fmt.Errorf("failed to handle event %s: %w", event.DedupID(), err)
	}

	return nil
}

// GetLatestBlock returns the latest block number
func (s *ethSubscriber) GetLatestBlock(ctx context.Context) (uint64, error) {
	header, err := s.client.HeaderByNumber(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to get latest block: %w", err)
	}
	return header.Number.Uint64(), nil
}

// Close closes the connection
func (s *ethSubscriber) Close() {
	if s.client == nil {
		return
	}

	s.client.Close()
	logger.Info("Ethereum WebSocket connection closed")
}
