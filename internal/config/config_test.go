package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-observations/internal/domain"
)

// writeConfig writes content to a config.yaml in a temp dir, or returns a missing path when empty
func writeConfig(t *testing.T, content string) string {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "config.yaml")
	if content == "" {
		return filepath.Join(tmpDir, "nonexistent.yaml")
	}
	err := os.WriteFile(configFile, []byte(content), 0600)
	require.NoError(t, err)
	return configFile
}

func TestLoadLedgerNodeConfig(t *testing.T) {
	tests := []struct {
		name        string
		configFile  string
		expectError bool
		validate    func(*testing.T, *LedgerNodeConfig)
	}{
		{
			name: "valid config file",
			configFile: `
debug: true
server:
  port: 9091
  cors_origins:
    - "https://observations.example.com"
auth:
  jwt_public_key: "test-public-key"
  api_keys:
    - "faucet-key"
nats:
  url: "nats://localhost:4222"
  stream_name: "TEST_STREAM"
ledger:
  chain: "eip155:31337"
  contract_address: "0x00000000000000000000000000000000000000c0"
  sweep_recipient: "0x00000000000000000000000000000000000000ff"
  owners:
    "0x00000000000000000000000000000000000000a1": "0x00000000000000000000000000000000000000b1"
relay:
  poll_interval: "500ms"
  batch_size: 10
ethereum:
  rpc_url: "http://localhost:8545"
`,
			validate: func(t *testing.T, cfg *LedgerNodeConfig) {
				assert.True(t, cfg.Debug)
				assert.Equal(t, 9091, cfg.Server.Port)
				assert.Equal(t, []string{"https://observations.example.com"}, cfg.Server.CORSOrigins)
				assert.Equal(t, []string{"faucet-key"}, cfg.Auth.APIKeys)
				assert.Equal(t, "TEST_STREAM", cfg.NATS.StreamName)
				assert.Equal(t, domain.ChainLedgerDevnet, cfg.Ledger.Chain)
				assert.Equal(t, 500*time.Millisecond, cfg.Relay.PollInterval)
				assert.Equal(t, 10, cfg.Relay.BatchSize)
				assert.Equal(t, "http://localhost:8545", cfg.Ethereum.RPCURL)

				owners, err := cfg.Ledger.ParseOwners()
				require.NoError(t, err)
				assert.Equal(t, common.HexToAddress("0xb1"), owners[common.HexToAddress("0xa1")])
			},
		},
		{
			name: "config with defaults",
			configFile: `
ledger:
  contract_address: "0x00000000000000000000000000000000000000c0"
  sweep_recipient: "0x00000000000000000000000000000000000000ff"
`,
			validate: func(t *testing.T, cfg *LedgerNodeConfig) {
				assert.Equal(t, "0.0.0.0", cfg.Server.Host)
				assert.Equal(t, 8081, cfg.Server.Port)
				assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
				assert.Equal(t, "OBSERVATIONS", cfg.NATS.StreamName)
				assert.Equal(t, "ledger-node", cfg.NATS.ConnectionName)
				assert.Equal(t, 2*time.Hour, cfg.NATS.DuplicateWindow)
				assert.Equal(t, domain.ChainLedgerDevnet, cfg.Ledger.Chain)
				assert.Equal(t, 2*time.Second, cfg.Relay.PollInterval)
				assert.Equal(t, 100, cfg.Relay.BatchSize)
				assert.Equal(t, 500*time.Millisecond, cfg.Relay.RetryInitialInterval)
				assert.Equal(t, time.Minute, cfg.Relay.RetryMaxElapsedTime)
				assert.Empty(t, cfg.Ledger.Owners)
				assert.Empty(t, cfg.Ethereum.RPCURL)
				assert.Equal(t, domain.ChainLedgerDevnet, cfg.Ethereum.ChainID)
				assert.Equal(t, 4096, cfg.Ethereum.BlockCacheSize)
			},
		},
		{
			name: "missing contract address",
			configFile: `
ledger:
  sweep_recipient: "0x00000000000000000000000000000000000000ff"
`,
			expectError: true,
		},
		{
			name: "invalid sweep recipient",
			configFile: `
ledger:
  contract_address: "0x00000000000000000000000000000000000000c0"
  sweep_recipient: "treasury"
`,
			expectError: true,
		},
		{
			name: "unsupported chain",
			configFile: `
ledger:
  chain: "tezos:mainnet"
  contract_address: "0x00000000000000000000000000000000000000c0"
  sweep_recipient: "0x00000000000000000000000000000000000000ff"
`,
			expectError: true,
		},
		{
			name: "rpc with unsupported chain id",
			configFile: `
ledger:
  contract_address: "0x00000000000000000000000000000000000000c0"
  sweep_recipient: "0x00000000000000000000000000000000000000ff"
ethereum:
  rpc_url: "http://localhost:8545"
  chain_id: "eip155:137"
`,
			expectError: true,
		},
		{
			name: "invalid owner",
			configFile: `
ledger:
  contract_address: "0x00000000000000000000000000000000000000c0"
  sweep_recipient: "0x00000000000000000000000000000000000000ff"
  owners:
    "0x00000000000000000000000000000000000000a1": "nobody"
`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadLedgerNodeConfig(writeConfig(t, tt.configFile), "")

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, cfg)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, cfg)
			tt.validate(t, cfg)
		})
	}
}

func TestLoadEthereumEmitterConfig(t *testing.T) {
	tests := []struct {
		name        string
		configFile  string
		expectError bool
		validate    func(*testing.T, *EthereumEmitterConfig)
	}{
		{
			name: "valid config file",
			configFile: `
debug: true
sentry_dsn: "https://sentry.example.com"
database:
  host: localhost
  port: 5432
  user: testuser
  password: testpass
  dbname: testdb
  sslmode: require
nats:
  url: "nats://localhost:4222"
  stream_name: "TEST_STREAM"
  max_reconnects: 5
  reconnect_wait: "5s"
  connection_name: "test-connection"
ethereum:
  websocket_url: "ws://localhost:8545"
  rpc_url: "http://localhost:8545"
  chain_id: "eip155:11155111"
  contract_address: "0x00000000000000000000000000000000000000c0"
  start_block: 1000
  log_range: 2000
  fetch_concurrency: 8
  backfill: false
emitter:
  cursor_save_freq: 10
  cursor_save_delay: "1m"
`,
			validate: func(t *testing.T, cfg *EthereumEmitterConfig) {
				assert.True(t, cfg.Debug)
				assert.Equal(t, "https://sentry.example.com", cfg.SentryDSN)
				assert.Equal(t, "localhost", cfg.Database.Host)
				assert.Equal(t, "testuser", cfg.Database.User)
				assert.Equal(t, "testpass", cfg.Database.Password)
				assert.Equal(t, "testdb", cfg.Database.DBName)
				assert.Equal(t, "require", cfg.Database.SSLMode)
				assert.Equal(t, "nats://localhost:4222", cfg.NATS.URL)
				assert.Equal(t, "TEST_STREAM", cfg.NATS.StreamName)
				assert.Equal(t, 5, cfg.NATS.MaxReconnects)
				assert.Equal(t, "test-connection", cfg.NATS.ConnectionName)
				assert.Equal(t, "ws://localhost:8545", cfg.Ethereum.WebSocketURL)
				assert.Equal(t, domain.ChainEthereumSepolia, cfg.Ethereum.ChainID)
				assert.Equal(t, uint64(1000), cfg.Ethereum.StartBlock)
				assert.Equal(t, uint64(2000), cfg.Ethereum.LogRange)
				assert.Equal(t, 8, cfg.Ethereum.FetchConcurrency)
				assert.False(t, cfg.Ethereum.Backfill)
				assert.Equal(t, uint64(10), cfg.Emitter.CursorSaveFreq)
				assert.Equal(t, time.Minute, cfg.Emitter.CursorSaveDelay)
			},
		},
		{
			name: "config with defaults",
			configFile: `
database:
  host: localhost
  user: testuser
  password: testpass
  dbname: testdb
nats:
  url: "nats://localhost:4222"
ethereum:
  websocket_url: "ws://localhost:8545"
  contract_address: "0x00000000000000000000000000000000000000c0"
`,
			validate: func(t *testing.T, cfg *EthereumEmitterConfig) {
				assert.Equal(t, 5432, cfg.Database.Port)
				assert.Equal(t, "disable", cfg.Database.SSLMode)
				assert.Equal(t, 10, cfg.NATS.MaxReconnects)
				assert.Equal(t, "2s", cfg.NATS.ReconnectWait.String())
				assert.Equal(t, "OBSERVATIONS", cfg.NATS.StreamName)
				assert.Equal(t, domain.ChainEthereumMainnet, cfg.Ethereum.ChainID)
				assert.Equal(t, uint64(5000), cfg.Ethereum.LogRange)
				assert.Equal(t, 4, cfg.Ethereum.FetchConcurrency)
				assert.Equal(t, 4096, cfg.Ethereum.BlockCacheSize)
				assert.True(t, cfg.Ethereum.Backfill)
				assert.Equal(t, uint64(2), cfg.Emitter.CursorSaveFreq)
				assert.Equal(t, 30*time.Second, cfg.Emitter.CursorSaveDelay)
			},
		},
		{
			name:        "missing config file",
			configFile:  "",
			expectError: true,
		},
		{
			name: "unsupported chain",
			configFile: `
ethereum:
  chain_id: "tezos:mainnet"
`,
			expectError: true,
		},
		{
			name: "invalid yaml",
			configFile: `
database:
  host: localhost
  port: invalid
`,
			expectError: true, // Invalid port should cause unmarshal error
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadEthereumEmitterConfig(writeConfig(t, tt.configFile), "")

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, cfg)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, cfg)
			tt.validate(t, cfg)
		})
	}
}

func TestLoadProjectorConfig(t *testing.T) {
	tests := []struct {
		name        string
		configFile  string
		expectError bool
		validate    func(*testing.T, *ProjectorConfig)
	}{
		{
			name: "valid config file",
			configFile: `
database:
  host: localhost
  read_host: replica
  read_port: 5433
  user: testuser
  password: testpass
  dbname: testdb
nats:
  url: "nats://localhost:4222"
  consumer_name: "projector-test"
  filter_subject: "observations.devnet.>"
  ack_wait: "1m"
  max_deliver: 3
projection:
  retry_initial_interval: "250ms"
  retry_max_elapsed_time: "10m"
`,
			validate: func(t *testing.T, cfg *ProjectorConfig) {
				assert.Equal(t, "replica", cfg.Database.ReadHost)
				assert.Equal(t, 5433, cfg.Database.ReadPort)
				assert.Equal(t, "projector-test", cfg.NATS.ConsumerName)
				assert.Equal(t, "observations.devnet.>", cfg.NATS.FilterSubject)
				assert.Equal(t, time.Minute, cfg.NATS.AckWait)
				assert.Equal(t, 3, cfg.NATS.MaxDeliver)
				assert.Equal(t, 250*time.Millisecond, cfg.Projection.RetryInitialInterval)
				assert.Equal(t, 10*time.Minute, cfg.Projection.RetryMaxElapsedTime)
			},
		},
		{
			name: "config with defaults",
			configFile: `
database:
  host: localhost
`,
			validate: func(t *testing.T, cfg *ProjectorConfig) {
				assert.Equal(t, 5432, cfg.Database.Port)
				assert.Equal(t, "projector", cfg.NATS.ConsumerName)
				assert.Equal(t, "observations.>", cfg.NATS.FilterSubject)
				assert.Equal(t, 30*time.Second, cfg.NATS.AckWait)
				assert.Equal(t, -1, cfg.NATS.MaxDeliver)
				assert.Equal(t, time.Second, cfg.Projection.RetryInitialInterval)
				assert.Equal(t, 5*time.Minute, cfg.Projection.RetryMaxElapsedTime)
				assert.Equal(t, "OBSERVATIONS", cfg.NATS.StreamName)
			},
		},
		{
			name: "invalid yaml",
			configFile: `
nats:
  max_deliver: many
`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadProjectorConfig(writeConfig(t, tt.configFile), "")

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, cfg)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, cfg)
			tt.validate(t, cfg)
		})
	}
}

func TestLoadAPIConfig(t *testing.T) {
	tests := []struct {
		name        string
		configFile  string
		expectError bool
		validate    func(*testing.T, *APIConfig)
	}{
		{
			name: "valid config file",
			configFile: `
debug: true
sentry_dsn: "https://sentry.example.com"
server:
  host: "127.0.0.1"
  port: 9090
  read_timeout: 20
  write_timeout: 20
  idle_timeout: 180
database:
  host: localhost
  port: 5432
  user: testuser
  password: testpass
  dbname: testdb
`,
			validate: func(t *testing.T, cfg *APIConfig) {
				assert.True(t, cfg.Debug)
				assert.Equal(t, "127.0.0.1", cfg.Server.Host)
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, 20, cfg.Server.ReadTimeout)
				assert.Equal(t, 180, cfg.Server.IdleTimeout)
				assert.Equal(t, "testdb", cfg.Database.DBName)
			},
		},
		{
			name:       "missing config file - should work with env vars",
			configFile: "",
			validate: func(t *testing.T, cfg *APIConfig) {
				assert.NotNil(t, cfg)
				assert.False(t, cfg.Debug)                  // default
				assert.Equal(t, "0.0.0.0", cfg.Server.Host) // default
				assert.Equal(t, 8080, cfg.Server.Port)      // default
			},
		},
		{
			name: "config with defaults",
			configFile: `
database:
  host: localhost
  user: testuser
  password: testpass
  dbname: testdb
`,
			validate: func(t *testing.T, cfg *APIConfig) {
				assert.False(t, cfg.Debug)                   // default
				assert.Equal(t, "0.0.0.0", cfg.Server.Host)  // default
				assert.Equal(t, 8080, cfg.Server.Port)       // default
				assert.Equal(t, 10, cfg.Server.ReadTimeout)  // default
				assert.Equal(t, 10, cfg.Server.WriteTimeout) // default
				assert.Equal(t, 120, cfg.Server.IdleTimeout) // default
				assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var configFile string
			if tt.configFile != "" {
				configFile = writeConfig(t, tt.configFile)
			}
			// An empty path lets viper search its default locations, none of which exist here

			cfg, err := LoadAPIConfig(configFile, "")

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, cfg)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, cfg)
			tt.validate(t, cfg)
		})
	}
}

func TestParseAddress(t *testing.T) {
	addr, err := ParseAddress("ledger.contract_address", "0x00000000000000000000000000000000000000C0")
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0xc0"), addr)

	_, err = ParseAddress("ledger.contract_address", "")
	assert.ErrorContains(t, err, "ledger.contract_address")

	_, err = ParseAddress("ledger.contract_address", "0x1234")
	assert.Error(t, err)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	tests := []struct {
		name     string
		config   DatabaseConfig
		expected string
	}{
		{
			name: "complete config",
			config: DatabaseConfig{
				Host:     "localhost",
				Port:     5432,
				User:     "testuser",
				Password: "testpass",
				DBName:   "testdb",
				SSLMode:  "require",
			},
			expected: "host=localhost port=5432 user=testuser password=testpass dbname=testdb sslmode=require",
		},
		{
			name: "with special characters in password",
			config: DatabaseConfig{
				Host:     "localhost",
				Port:     5432,
				User:     "testuser",
				Password: "p@ssw0rd!",
				DBName:   "testdb",
				SSLMode:  "disable",
			},
			expected: "host=localhost port=5432 user=testuser password=p@ssw0rd! dbname=testdb sslmode=disable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.config.DSN())
		})
	}
}

func TestDatabaseConfig_ReadDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "primary",
		Port:     5432,
		ReadHost: "replica",
		User:     "user",
		Password: "pass",
		DBName:   "db",
		SSLMode:  "disable",
	}
	assert.Equal(t, "host=replica port=5432 user=user password=pass dbname=db sslmode=disable", cfg.ReadDSN())

	cfg.ReadPort = 6432
	assert.Equal(t, "host=replica port=6432 user=user password=pass dbname=db sslmode=disable", cfg.ReadDSN())
}

func TestConfigWithEnvironmentVariables(t *testing.T) {
	tmpDir := t.TempDir()

	// Create temporary directory for env files
	envDir := filepath.Join(tmpDir, "env")
	err := os.MkdirAll(envDir, 0750)
	require.NoError(t, err)

	// Viper uses the FF_OBSERVATIONS_ prefix
	envFile := filepath.Join(envDir, ".env")
	envContent := `FF_OBSERVATIONS_DEBUG=true
FF_OBSERVATIONS_DATABASE_HOST=env-host
FF_OBSERVATIONS_DATABASE_PORT=3306
FF_OBSERVATIONS_DATABASE_USER=env-user
FF_OBSERVATIONS_DATABASE_PASSWORD=env-pass
FF_OBSERVATIONS_DATABASE_DBNAME=env-db
FF_OBSERVATIONS_DATABASE_SSLMODE=require
`
	err = os.WriteFile(envFile, []byte(envContent), 0600)
	require.NoError(t, err)
	t.Cleanup(func() {
		for _, key := range []string{"DEBUG", "DATABASE_HOST", "DATABASE_PORT", "DATABASE_USER", "DATABASE_PASSWORD", "DATABASE_DBNAME", "DATABASE_SSLMODE"} {
			_ = os.Unsetenv("FF_OBSERVATIONS_" + key)
		}
	})

	// Create config file with different values to verify env vars override
	configPath := filepath.Join(tmpDir, "config.yaml")
	configFile := `
debug: false
database:
  host: file-host
  port: 5432
  user: file-user
  password: file-pass
  dbname: file-db
  sslmode: disable
`

	err = os.WriteFile(configPath, []byte(configFile), 0600)
	require.NoError(t, err)

	cfg, err := LoadAPIConfig(configPath, envDir)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	// The .env file is loaded via godotenv.Overload, which sets actual environment variables
	assert.True(t, cfg.Debug)
	assert.Equal(t, "env-host", cfg.Database.Host)
	assert.Equal(t, 3306, cfg.Database.Port)
	assert.Equal(t, "env-user", cfg.Database.User)
	assert.Equal(t, "env-pass", cfg.Database.Password)
	assert.Equal(t, "env-db", cfg.Database.DBName)
	assert.Equal(t, "require", cfg.Database.SSLMode)
}
