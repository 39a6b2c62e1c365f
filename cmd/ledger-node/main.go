package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/feral-file/ff-observations/internal/adapter"
	"github.com/feral-file/ff-observations/internal/api/middleware"
	"github.com/feral-file/ff-observations/internal/api/rest"
	"github.com/feral-file/ff-observations/internal/api/server"
	"github.com/feral-file/ff-observations/internal/block"
	"github.com/feral-file/ff-observations/internal/config"
	"github.com/feral-file/ff-observations/internal/ledger"
	"github.com/feral-file/ff-observations/internal/logger"
	"github.com/feral-file/ff-observations/internal/ownership"
	"github.com/feral-file/ff-observations/internal/providers/ethereum"
	"github.com/feral-file/ff-observations/internal/providers/jetstream"
	"github.com/feral-file/ff-observations/internal/relay"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadLedgerNodeConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "ledger-node",
			"chain":   string(cfg.Ledger.Chain),
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting Observation Ledger Node")

	// Addresses were validated by the config loader
	contract := common.HexToAddress(cfg.Ledger.ContractAddress)
	sweepRecipient := common.HexToAddress(cfg.Ledger.SweepRecipient)
	owners, err := cfg.Ledger.ParseOwners()
	if err != nil {
		logger.FatalCtx(ctx, "Invalid owner registry", zap.Error(err))
	}

	// Owner-of-record lookups: the static registry first, then owner() on chain when an RPC is configured
	resolvers := []ownership.Resolver{ownership.NewRegistry(owners)}
	if cfg.Ethereum.RPCURL != "" {
		ethClient, err := adapter.NewEthClientDialer().Dial(ctx, cfg.Ethereum.RPCURL)
		if err != nil {
			logger.FatalCtx(ctx, "Failed to dial Ethereum RPC", zap.Error(err), zap.String("rpc_url", cfg.Ethereum.RPCURL))
		}
		defer ethClient.Close()

		blockProvider, err := block.NewBlockProvider(ethereum.NewEthereumBlockFetcher(ethClient), block.Config{CacheSize: cfg.Ethereum.BlockCacheSize})
		if err != nil {
			logger.FatalCtx(ctx, "Failed to create block provider", zap.Error(err))
		}
		ownerClient := ethereum.NewClient(ethereum.ClientConfig{
			ChainID:         cfg.Ethereum.ChainID,
			ContractAddress: contract,
		}, ethClient, blockProvider)
		if err := ownerClient.VerifyChain(ctx); err != nil {
			logger.FatalCtx(ctx, "Ethereum RPC does not serve the configured chain", zap.Error(err))
		}
		resolvers = append(resolvers, ownerClient)
		logger.InfoCtx(ctx, "Resolving owners on chain", zap.String("rpc_url", cfg.Ethereum.RPCURL))
	}

	clockAdapter := adapter.NewClock()
	l := ledger.New(ledger.Config{
		Chain:          cfg.Ledger.Chain,
		Contract:       contract,
		SweepRecipient: sweepRecipient,
	}, clockAdapter, ownership.First(resolvers...))
	logger.InfoCtx(ctx, "Ledger initialized",
		zap.String("contract", contract.Hex()),
		zap.String("sweepRecipient", sweepRecipient.Hex()),
		zap.Int("owners", len(owners)))

	// Initialize NATS publisher and relay
	natsPublisher, err := jetstream.NewPublisher(
		ctx,
		jetstream.Config{
			URL:             cfg.NATS.URL,
			StreamName:      cfg.NATS.StreamName,
			MaxReconnects:   cfg.NATS.MaxReconnects,
			ReconnectWait:   cfg.NATS.ReconnectWait,
			ConnectionName:  cfg.NATS.ConnectionName,
			DuplicateWindow: cfg.NATS.DuplicateWindow,
		}, adapter.NewNatsJetStream(), adapter.NewJSON())
	if err != nil {
		logger.FatalCtx(ctx, "Failed to create NATS publisher", zap.Error(err), zap.String("url", cfg.NATS.URL))
	}
	logger.InfoCtx(ctx, "Connected to NATS JetStream")

	ledgerRelay := relay.NewRelay(l, natsPublisher, relay.Config{
		PollInterval:         cfg.Relay.PollInterval,
		BatchSize:            cfg.Relay.BatchSize,
		RetryInitialInterval: cfg.Relay.RetryInitialInterval,
		RetryMaxElapsedTime:  cfg.Relay.RetryMaxElapsedTime,
	}, clockAdapter)
	defer ledgerRelay.Close()

	// Create server
	handler := rest.NewLedgerHandler(l, ledgerRelay, clockAdapter)
	authCfg := middleware.AuthConfig{
		JWTPublicKey: cfg.Auth.JWTPublicKey,
		APIKeys:      cfg.Auth.APIKeys,
	}
	srv := server.New(server.Config{
		Debug:        cfg.Debug,
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
		CORSOrigins:  cfg.Server.CORSOrigins,
	}, func(router *gin.Engine) {
		rest.SetupLedgerRoutes(router, handler, authCfg)
	})

	errCh := make(chan error, 2)
	go func() {
		if err := ledgerRelay.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errCh <- fmt.Errorf("relay stopped: %w", err)
		}
	}()
	go func() {
		if err := srv.Start(); err != nil {
			errCh <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the node
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errCh:
		logger.ErrorCtx(ctx, err, zap.String("component", "ledger-node"))
	}

	// Stop accepting calls before the relay stops forwarding
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.ErrorCtx(shutdownCtx, err, zap.String("message", "Server forced to shutdown"))
	}
	cancel()

	logger.Info("Ledger node stopped",
		zap.Uint64("head", l.Head()),
		zap.Uint64("published", ledgerRelay.Published()))
}
