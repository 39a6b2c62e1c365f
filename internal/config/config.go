package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/feral-file/ff-observations/internal/domain"
)

// BaseConfig holds base configuration
type BaseConfig struct {
	Debug     bool   `mapstructure:"debug"`
	SentryDSN string `mapstructure:"sentry_dsn"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadHost        string        `mapstructure:"read_host"`
	ReadPort        int           `mapstructure:"read_port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`     // Maximum number of open connections to the database
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`     // Maximum number of idle connections in the pool
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`  // Maximum amount of time a connection may be reused (e.g., "5m", "1h")
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"` // Maximum amount of time a connection may be idle (e.g., "10m", "30m")
}

// NATSConfig holds NATS JetStream configuration
type NATSConfig struct {
	URL            string        `mapstructure:"url"`
	StreamName     string        `mapstructure:"stream_name"`
	ConsumerName   string        `mapstructure:"consumer_name"`
	FilterSubject  string        `mapstructure:"filter_subject"`
	MaxReconnects  int           `mapstructure:"max_reconnects"`
	ReconnectWait  time.Duration `mapstructure:"reconnect_wait"`
	ConnectionName string        `mapstructure:"connection_name"`
	AckWait        time.Duration `mapstructure:"ack_wait"`
	MaxDeliver     int           `mapstructure:"max_deliver"`
	// DuplicateWindow is how long the stream remembers message ids for deduplication
	DuplicateWindow time.Duration `mapstructure:"duplicate_window"`
}

// EthereumConfig holds Ethereum-specific configuration
type EthereumConfig struct {
	WebSocketURL     string       `mapstructure:"websocket_url"`
	RPCURL           string       `mapstructure:"rpc_url"`
	ChainID          domain.Chain `mapstructure:"chain_id"`
	ContractAddress  string       `mapstructure:"contract_address"`
	StartBlock       uint64       `mapstructure:"start_block"`
	LogRange         uint64       `mapstructure:"log_range"`         // Blocks per eth_getLogs request during backfill
	FetchConcurrency int          `mapstructure:"fetch_concurrency"` // Concurrent eth_getLogs requests during backfill
	BlockCacheSize   int          `mapstructure:"block_cache_size"`
	Backfill         bool         `mapstructure:"backfill"`
}

// EmitterConfig holds block cursor persistence settings
type EmitterConfig struct {
	CursorSaveFreq  uint64        `mapstructure:"cursor_save_freq"`  // Save cursor every N blocks
	CursorSaveDelay time.Duration `mapstructure:"cursor_save_delay"` // Or every N seconds
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string   `mapstructure:"host"`
	Port         int      `mapstructure:"port"`
	ReadTimeout  int      `mapstructure:"read_timeout"`  // in seconds
	WriteTimeout int      `mapstructure:"write_timeout"` // in seconds
	IdleTimeout  int      `mapstructure:"idle_timeout"`  // in seconds
	CORSOrigins  []string `mapstructure:"cors_origins"`
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	JWTPublicKey string   `mapstructure:"jwt_public_key"`
	APIKeys      []string `mapstructure:"api_keys"`
}

// LedgerConfig holds the deployment of an in-process ledger
type LedgerConfig struct {
	Chain           domain.Chain `mapstructure:"chain"`
	ContractAddress string       `mapstructure:"contract_address"`
	SweepRecipient  string       `mapstructure:"sweep_recipient"`
	// Owners seeds the owner-of-record registry (account -> owner)
	Owners map[string]string `mapstructure:"owners"`
}

// RelayConfig holds the ledger-to-NATS relay configuration
type RelayConfig struct {
	PollInterval         time.Duration `mapstructure:"poll_interval"`
	BatchSize            int           `mapstructure:"batch_size"`
	RetryInitialInterval time.Duration `mapstructure:"retry_initial_interval"`
	RetryMaxElapsedTime  time.Duration `mapstructure:"retry_max_elapsed_time"`
}

// LedgerNodeConfig holds configuration for ledger-node
type LedgerNodeConfig struct {
	BaseConfig `mapstructure:",squash"`
	Server     ServerConfig   `mapstructure:"server"`
	Auth       AuthConfig     `mapstructure:"auth"`
	NATS       NATSConfig     `mapstructure:"nats"`
	Ledger     LedgerConfig   `mapstructure:"ledger"`
	Relay      RelayConfig    `mapstructure:"relay"`
	Ethereum   EthereumConfig `mapstructure:"ethereum"` // Optional, used for owner() lookups
}

// EthereumEmitterConfig holds configuration for ethereum-event-emitter
type EthereumEmitterConfig struct {
	BaseConfig `mapstructure:",squash"`
	Database   DatabaseConfig `mapstructure:"database"`
	NATS       NATSConfig     `mapstructure:"nats"`
	Ethereum   EthereumConfig `mapstructure:"ethereum"`
	Emitter    EmitterConfig  `mapstructure:"emitter"`
}

// ProjectionConfig shapes how long a failing record is retried before the projector halts
type ProjectionConfig struct {
	RetryInitialInterval time.Duration `mapstructure:"retry_initial_interval"`
	RetryMaxElapsedTime  time.Duration `mapstructure:"retry_max_elapsed_time"`
}

// ProjectorConfig holds configuration for projector
type ProjectorConfig struct {
	BaseConfig `mapstructure:",squash"`
	Database   DatabaseConfig   `mapstructure:"database"`
	NATS       NATSConfig       `mapstructure:"nats"`
	Projection ProjectionConfig `mapstructure:"projection"`
}

// APIConfig holds configuration for API server
type APIConfig struct {
	BaseConfig `mapstructure:",squash"`
	Server     ServerConfig   `mapstructure:"server"`
	Database   DatabaseConfig `mapstructure:"database"`
}

// setServerDefaults sets the defaults shared by the HTTP services
func setServerDefaults(v *viper.Viper, port int) {
	v.SetDefault("debug", false)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", port)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 10)
	v.SetDefault("server.idle_timeout", 120)
	v.SetDefault("server.cors_origins", []string{"*"})
}

// setNATSDefaults sets the NATS defaults shared by every service
func setNATSDefaults(v *viper.Viper, connectionName string) {
	v.SetDefault("nats.max_reconnects", 10)
	v.SetDefault("nats.reconnect_wait", "2s")
	v.SetDefault("nats.stream_name", "OBSERVATIONS")
	v.SetDefault("nats.connection_name", connectionName)
	v.SetDefault("nats.duplicate_window", "2h")
}

// readConfig reads the config file; a missing file leaves env vars and defaults in effect
func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

// LoadLedgerNodeConfig loads configuration for ledger-node
func LoadLedgerNodeConfig(configFile string, envPath string) (*LedgerNodeConfig, error) {
	v := configureViper("ledger-node", configFile, envPath)

	// Set defaults
	setServerDefaults(v, 8081)
	setNATSDefaults(v, "ledger-node")
	v.SetDefault("ledger.chain", string(domain.ChainLedgerDevnet))
	v.SetDefault("relay.poll_interval", "2s")
	v.SetDefault("relay.batch_size", 100)
	v.SetDefault("relay.retry_initial_interval", "500ms")
	v.SetDefault("relay.retry_max_elapsed_time", "1m")
	v.SetDefault("ethereum.chain_id", string(domain.ChainLedgerDevnet))
	v.SetDefault("ethereum.block_cache_size", 4096)

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var config LedgerNodeConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if !domain.IsValidChain(config.Ledger.Chain) {
		return nil, fmt.Errorf("unsupported ledger.chain: %s", config.Ledger.Chain)
	}
	if _, err := ParseAddress("ledger.contract_address", config.Ledger.ContractAddress); err != nil {
		return nil, err
	}
	if _, err := ParseAddress("ledger.sweep_recipient", config.Ledger.SweepRecipient); err != nil {
		return nil, err
	}
	if _, err := config.Ledger.ParseOwners(); err != nil {
		return nil, err
	}
	if config.Ethereum.RPCURL != "" && !domain.IsValidChain(config.Ethereum.ChainID) {
		return nil, fmt.Errorf("unsupported ethereum.chain_id: %s", config.Ethereum.ChainID)
	}

	return &config, nil
}

// LoadEthereumEmitterConfig loads configuration for ethereum-event-emitter
func LoadEthereumEmitterConfig(configFile string, envPath string) (*EthereumEmitterConfig, error) {
	v := configureViper("ethereum-event-emitter", configFile, envPath)

	// Set defaults
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	setNATSDefaults(v, "ethereum-event-emitter")
	v.SetDefault("ethereum.chain_id", string(domain.ChainEthereumMainnet))
	v.SetDefault("ethereum.log_range", 5000)
	v.SetDefault("ethereum.fetch_concurrency", 4)
	v.SetDefault("ethereum.block_cache_size", 4096)
	v.SetDefault("ethereum.backfill", true)
	v.SetDefault("emitter.cursor_save_freq", 2)
	v.SetDefault("emitter.cursor_save_delay", "30s")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config EthereumEmitterConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if !domain.IsValidChain(config.Ethereum.ChainID) {
		return nil, fmt.Errorf("unsupported ethereum.chain_id: %s", config.Ethereum.ChainID)
	}
	if _, err := ParseAddress("ethereum.contract_address", config.Ethereum.ContractAddress); err != nil {
		return nil, err
	}

	return &config, nil
}

// LoadProjectorConfig loads configuration for projector
func LoadProjectorConfig(configFile string, envPath string) (*ProjectorConfig, error) {
	v := configureViper("projector", configFile, envPath)

	// Set defaults
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	setNATSDefaults(v, "projector")
	v.SetDefault("nats.consumer_name", "projector")
	v.SetDefault("nats.filter_subject", "observations.>")
	v.SetDefault("nats.ack_wait", "30s")
	// unlimited: a record that keeps failing halts the projector instead of being dropped
	v.SetDefault("nats.max_deliver", -1)
	v.SetDefault("projection.retry_initial_interval", "1s")
	v.SetDefault("projection.retry_max_elapsed_time", "5m")

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var config ProjectorConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

// LoadAPIConfig loads configuration for API server
func LoadAPIConfig(configFile string, envPath string) (*APIConfig, error) {
	v := configureViper("api", configFile, envPath)

	// Set defaults
	setServerDefaults(v, 8080)
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var config APIConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

// ParseAddress parses a required hex account address
func ParseAddress(key string, value string) (common.Address, error) {
	if !common.IsHexAddress(value) {
		return common.Address{}, fmt.Errorf("%s must be a hex address, got %q", key, value)
	}
	return common.HexToAddress(value), nil
}

// ParseOwners parses the owner-of-record seed table
func (c *LedgerConfig) ParseOwners() (map[common.Address]common.Address, error) {
	owners := make(map[common.Address]common.Address, len(c.Owners))
	for account, owner := range c.Owners {
		a, err := ParseAddress("ledger.owners key", account)
		if err != nil {
			return nil, err
		}
		o, err := ParseAddress("ledger.owners["+account+"]", owner)
		if err != nil {
			return nil, err
		}
		owners[a] = o
	}
	return owners, nil
}

// configureViper returns a viper instance with the config file and environment variables set
func configureViper(service string, configFile string, envPath string) *viper.Viper {
	v := viper.New()

	// Load environment variables
	loadEnv(envPath, service)

	// Set config file
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// Search for config.yaml in multiple locations:
		// 1. Current directory
		v.AddConfigPath(".")
		// 2. Service-specific directory (e.g., cmd/ledger-node/, cmd/api/)
		v.AddConfigPath(fmt.Sprintf("cmd/%s/", service))
		// 3. Config directory
		v.AddConfigPath("config/")
	}

	// Set environment variables
	v.SetEnvPrefix("FF_OBSERVATIONS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Explicitly bind all environment variables
	bindAllEnvVars(v)
	return v
}

// bindAllEnvVars explicitly binds all possible environment variables
// This is required for viper to map env vars to config struct fields when no config file exists
func bindAllEnvVars(v *viper.Viper) {
	commonKeys := []string{
		"debug",
		"sentry_dsn",
		// Database
		"database.host",
		"database.port",
		"database.read_host",
		"database.read_port",
		"database.user",
		"database.password",
		"database.dbname",
		"database.sslmode",
		"database.max_open_conns",
		"database.max_idle_conns",
		"database.conn_max_lifetime",
		"database.conn_max_idle_time",
		// NATS
		"nats.url",
		"nats.stream_name",
		"nats.consumer_name",
		"nats.filter_subject",
		"nats.max_reconnects",
		"nats.reconnect_wait",
		"nats.connection_name",
		"nats.ack_wait",
		"nats.max_deliver",
		"nats.duplicate_window",
		// Ethereum
		"ethereum.websocket_url",
		"ethereum.rpc_url",
		"ethereum.chain_id",
		"ethereum.contract_address",
		"ethereum.start_block",
		"ethereum.log_range",
		"ethereum.fetch_concurrency",
		"ethereum.block_cache_size",
		"ethereum.backfill",
		// Emitter
		"emitter.cursor_save_freq",
		"emitter.cursor_save_delay",
		// Server
		"server.host",
		"server.port",
		"server.read_timeout",
		"server.write_timeout",
		"server.idle_timeout",
		"server.cors_origins",
		// Auth
		"auth.jwt_public_key",
		"auth.api_keys",
		// Ledger
		"ledger.chain",
		"ledger.contract_address",
		"ledger.sweep_recipient",
		// Relay
		"relay.poll_interval",
		"relay.batch_size",
		"relay.retry_initial_interval",
		"relay.retry_max_elapsed_time",
		// Projection
		"projection.retry_initial_interval",
		"projection.retry_max_elapsed_time",
	}

	for _, key := range commonKeys {
		_ = v.BindEnv(key)
	}
}

// loadEnv loads environment variables from the config directory
func loadEnv(envPath string, service string) {
	// Always try shared base first, then local, then optional per-service local.
	envFiles := []string{".env", ".env.local"}
	if service != "" {
		envFiles = append(envFiles, ".env."+service+".local")
	}

	// Default to config directory
	if envPath == "" {
		envPath = "config/"
	}

	for _, envFile := range envFiles {
		candidate := filepath.Join(envPath, envFile)
		_ = godotenv.Overload(candidate) // Overload lets later files override earlier ones
	}
}

// ChdirRepoRoot changes the current working directory to the repository root
func ChdirRepoRoot() {
	cwd, _ := os.Getwd()
	for range 5 {
		if _, err := os.Stat(filepath.Join(cwd, "config")); err == nil {
			_ = os.Chdir(cwd)
			return
		}
		cwd = filepath.Dir(cwd)
	}
}

// DSN returns the database connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// ReadDSN returns the read-replica database connection string.
// If ReadPort is not configured, it falls back to Port.
func (c *DatabaseConfig) ReadDSN() string {
	port := c.ReadPort
	if port == 0 {
		port = c.Port
	}

	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.ReadHost, port, c.User, c.Password, c.DBName, c.SSLMode)
}
