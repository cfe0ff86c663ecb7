package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultNameTimeout      = 3 * time.Second
	DefaultBatchConcurrency = 8
	DefaultEventWindow      = 5
	DefaultDebounce         = 500 * time.Millisecond
	DefaultPollInterval     = 15 * time.Second
	DefaultENSRegistry      = "0x00000000000C2E074eC69A0dFb2997BA6C7d2e1e"
)

// Environment variables read by ApplyEnv. Flags set on the command line
// always win over these.
const (
	EnvContract         = "CHAINLENS_CONTRACT"
	EnvABIFile          = "CHAINLENS_ABI"
	EnvIndexer          = "CHAINLENS_INDEXER"
	EnvEventKinds       = "CHAINLENS_EVENT_KINDS"
	EnvNameTimeout      = "CHAINLENS_NAME_TIMEOUT"
	EnvBatchConcurrency = "CHAINLENS_BATCH_CONCURRENCY"
	EnvENSRegistry      = "CHAINLENS_ENS_REGISTRY"
	EnvLogLevel         = "CHAINLENS_LOG_LEVEL"
	EnvOtelEndpoint     = "CHAINLENS_OTEL_ENDPOINT"
	EnvWalletFeed       = "CHAINLENS_WALLET_FEED"
	EnvKeystore         = "CHAINLENS_KEYSTORE"
)

var (
	ContractAddress  string
	ABIFile          string
	IndexerEndpoint  string
	EventKinds       string
	EventWindow      int
	NameTimeout      time.Duration
	BatchConcurrency int
	ENSRegistry      string
	PollInterval     time.Duration
	Debounce         time.Duration

	LogLevel     string
	LogJSON      bool
	OtelEndpoint string

	WalletFeed        string
	KeystoreDir       string
	From              string
	To                string
	Value             string
	DontWaitToBeMined bool
	YesToAll          bool

	FullDetail     bool
	Watch          bool
	JSONOutputFile string
)

// LoadDotEnv loads .env from the working directory when it exists.
// Variables already present in the environment are not overwritten.
func LoadDotEnv() error {
	if _, err := os.Stat(".env"); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(".env")
}

// ApplyEnv fills every setting the user did not pass as a flag from the
// environment. changed reports whether a flag was explicitly set.
func ApplyEnv(changed func(flag string) bool) error {
	setString(changed, "contract", &ContractAddress, EnvContract)
	setString(changed, "abi", &ABIFile, EnvABIFile)
	setString(changed, "indexer", &IndexerEndpoint, EnvIndexer)
	setString(changed, "event-kinds", &EventKinds, EnvEventKinds)
	setString(changed, "ens-registry", &ENSRegistry, EnvENSRegistry)
	setString(changed, "log-level", &LogLevel, EnvLogLevel)
	setString(changed, "otel-endpoint", &OtelEndpoint, EnvOtelEndpoint)
	setString(changed, "wallet-feed", &WalletFeed, EnvWalletFeed)
	setString(changed, "keystore", &KeystoreDir, EnvKeystore)

	if v := env(EnvNameTimeout); v != "" && !changed("name-timeout") {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvNameTimeout, err)
		}
		NameTimeout = d
	}
	if v := env(EnvBatchConcurrency); v != "" && !changed("batch-concurrency") {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvBatchConcurrency, err)
		}
		BatchConcurrency = n
	}
	return nil
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func setString(changed func(string) bool, flag string, target *string, key string) {
	if changed(flag) {
		return
	}
	if v := env(key); v != "" {
		*target = v
	}
}
