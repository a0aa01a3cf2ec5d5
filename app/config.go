package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	dbm "github.com/cosmos/cosmos-db"
	"github.com/spf13/viper"

	clmmkeeper "github.com/paw-chain/paw-clmm/x/clmm/keeper"
)

// Configuration keys, shared by app.toml, CLMM_* environment variables and
// command line flags.
const (
	FlagHome         = "home"
	FlagDBBackend    = "db-backend"
	FlagLogLevel     = "log-level"
	FlagLogFormat    = "log-format"
	FlagMetrics      = "metrics"
	FlagMetricsPort  = "metrics-port"
	FlagMaxSwapSteps = "max-swap-steps"
	FlagTracing      = "tracing"
	FlagOTLPEndpoint = "otlp-endpoint"

	// EnvPrefix prefixes every environment override, e.g. CLMM_LOG_LEVEL.
	EnvPrefix = "CLMM"

	defaultMetricsPort = 36660
)

// Log formats
const (
	LogFormatPlain = "plain"
	LogFormatJSON  = "json"
)

// DefaultNodeHome is the default home directory for the application.
var DefaultNodeHome string

func init() {
	userHomeDir, err := os.UserHomeDir()
	if err != nil {
		panic(err)
	}
	DefaultNodeHome = filepath.Join(userHomeDir, "."+AppName)
}

// Config holds the runtime settings of the application.
type Config struct {
	Home         string
	DBBackend    string
	LogLevel     string
	LogFormat    string
	Metrics      bool
	MetricsPort  int
	MaxSwapSteps uint32
	Tracing      bool
	OTLPEndpoint string
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Home:         DefaultNodeHome,
		DBBackend:    string(dbm.GoLevelDBBackend),
		LogLevel:     "info",
		LogFormat:    LogFormatPlain,
		Metrics:      false,
		MetricsPort:  defaultMetricsPort,
		MaxSwapSteps: clmmkeeper.DefaultMaxSwapSteps,
		Tracing:      false,
		OTLPEndpoint: "localhost:4318",
	}
}

// SetDefaults registers the defaults of every key with v.
func SetDefaults(v *viper.Viper) {
	def := DefaultConfig()
	v.SetDefault(FlagHome, def.Home)
	v.SetDefault(FlagDBBackend, def.DBBackend)
	v.SetDefault(FlagLogLevel, def.LogLevel)
	v.SetDefault(FlagLogFormat, def.LogFormat)
	v.SetDefault(FlagMetrics, def.Metrics)
	v.SetDefault(FlagMetricsPort, def.MetricsPort)
	v.SetDefault(FlagMaxSwapSteps, def.MaxSwapSteps)
	v.SetDefault(FlagTracing, def.Tracing)
	v.SetDefault(FlagOTLPEndpoint, def.OTLPEndpoint)
}

// ReadConfig layers $HOME/config/app.toml (its [clmm] table) and the CLMM_*
// environment under whatever is already bound to v, and returns the result.
// A missing config file is not an error.
func ReadConfig(v *viper.Viper) (Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	path := filepath.Join(v.GetString(FlagHome), "config", "app.toml")
	if err := readConfigFile(v, path); err != nil {
		return Config{}, err
	}

	cfg := Config{
		Home:         v.GetString(FlagHome),
		DBBackend:    v.GetString(FlagDBBackend),
		LogLevel:     v.GetString(FlagLogLevel),
		LogFormat:    v.GetString(FlagLogFormat),
		Metrics:      v.GetBool(FlagMetrics),
		MetricsPort:  v.GetInt(FlagMetricsPort),
		MaxSwapSteps: v.GetUint32(FlagMaxSwapSteps),
		Tracing:      v.GetBool(FlagTracing),
		OTLPEndpoint: v.GetString(FlagOTLPEndpoint),
	}
	return cfg, cfg.Validate()
}

func readConfigFile(v *viper.Viper, path string) error {
	file := viper.New()
	file.SetConfigType("toml")
	file.SetConfigFile(path)
	if err := file.ReadInConfig(); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading %s: %w", path, err)
	}

	// file values sit below flags and environment
	for key, value := range file.GetStringMap("clmm") {
		v.SetDefault(key, value)
	}
	return nil
}

// Validate checks the settings.
func (c Config) Validate() error {
	if c.Home == "" {
		return errors.New("home directory cannot be empty")
	}
	switch dbm.BackendType(c.DBBackend) {
	case dbm.GoLevelDBBackend, dbm.MemDBBackend:
	default:
		return fmt.Errorf("unsupported db backend %q", c.DBBackend)
	}
	if c.LogFormat != LogFormatPlain && c.LogFormat != LogFormatJSON {
		return fmt.Errorf("unsupported log format %q", c.LogFormat)
	}
	if c.MetricsPort <= 0 || c.MetricsPort > 65535 {
		return fmt.Errorf("invalid metrics port %d", c.MetricsPort)
	}
	if c.MaxSwapSteps == 0 {
		return errors.New("max swap steps must be positive")
	}
	return nil
}

// DataDir is where the database lives.
func (c Config) DataDir() string {
	return filepath.Join(c.Home, "data")
}
