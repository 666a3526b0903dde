package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Supported storage drivers.
const (
	DriverMemory   = "memory"
	DriverBolt     = "bolt"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

// Config holds application configuration.
type Config struct {
	IsProduction bool
	LogLevel     string

	StoreDriver   string
	BoltPath      string
	SQLitePath    string
	DatabaseURL   string
	EnableDBCheck bool
	PgMaxConns    int32

	RedisURL       string
	RedisKeyPrefix string
	RedisLockTTL   time.Duration

	// StrictWrites rejects ledger writes that fail integrity validation instead of only warning.
	StrictWrites bool

	ChartFile          string
	AccountMappingFile string
	KeywordFallback    bool

	ActorID   string
	ActorName string
}

// LoadConfig loads configuration from environment variables and .env file if present.
// Extra env files (e.g. from a --config flag) are loaded before the default .env.
func LoadConfig(envFiles ...string) (*Config, error) {
	for _, f := range envFiles {
		if f == "" {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return nil, fmt.Errorf("failed to load env file %s: %w", f, err)
		}
	}
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LEDGER_STORE_DRIVER", DriverBolt)
	viper.SetDefault("LEDGER_BOLT_PATH", "ledger.db")
	viper.SetDefault("LEDGER_SQLITE_PATH", "ledger.sqlite")
	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("ENABLE_DB_CHECK", true)
	viper.SetDefault("PGSQL_MAX_CONNS", 4)
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("REDIS_KEY_PREFIX", "mma_ledger")
	viper.SetDefault("REDIS_LOCK_TTL", "10s")
	viper.SetDefault("LEDGER_STRICT_WRITES", false)
	viper.SetDefault("LEDGER_CHART_FILE", "")
	viper.SetDefault("LEDGER_ACCOUNT_MAPPING_FILE", "")
	viper.SetDefault("LEDGER_KEYWORD_FALLBACK", true)
	viper.SetDefault("LEDGER_ACTOR_ID", "")
	viper.SetDefault("LEDGER_ACTOR_NAME", "")

	viper.AutomaticEnv()

	cfg := &Config{
		IsProduction:       viper.GetBool("IS_PRODUCTION"),
		LogLevel:           viper.GetString("LOG_LEVEL"),
		StoreDriver:        strings.ToLower(strings.TrimSpace(viper.GetString("LEDGER_STORE_DRIVER"))),
		BoltPath:           viper.GetString("LEDGER_BOLT_PATH"),
		SQLitePath:         viper.GetString("LEDGER_SQLITE_PATH"),
		DatabaseURL:        viper.GetString("PGSQL_URL"),
		EnableDBCheck:      viper.GetBool("ENABLE_DB_CHECK"),
		RedisURL:           viper.GetString("REDIS_URL"),
		RedisKeyPrefix:     viper.GetString("REDIS_KEY_PREFIX"),
		StrictWrites:       viper.GetBool("LEDGER_STRICT_WRITES"),
		ChartFile:          viper.GetString("LEDGER_CHART_FILE"),
		AccountMappingFile: viper.GetString("LEDGER_ACCOUNT_MAPPING_FILE"),
		KeywordFallback:    viper.GetBool("LEDGER_KEYWORD_FALLBACK"),
		ActorID:            viper.GetString("LEDGER_ACTOR_ID"),
		ActorName:          viper.GetString("LEDGER_ACTOR_NAME"),
	}

	maxConns := viper.GetInt("PGSQL_MAX_CONNS")
	if maxConns <= 0 {
		maxConns = 4
		log.Printf("Warning: Invalid value for PGSQL_MAX_CONNS. Defaulting to %d.\n", maxConns)
	}
	cfg.PgMaxConns = int32(maxConns)

	lockTTLStr := viper.GetString("REDIS_LOCK_TTL")
	lockTTL, err := time.ParseDuration(lockTTLStr)
	if err != nil || lockTTL <= 0 {
		lockTTL = 10 * time.Second
		log.Printf("Warning: Invalid value for REDIS_LOCK_TTL ('%s'). Defaulting to %s.\n", lockTTLStr, lockTTL.String())
	}
	cfg.RedisLockTTL = lockTTL

	switch cfg.StoreDriver {
	case DriverMemory:
		log.Println("Warning: LEDGER_STORE_DRIVER is memory. The ledger will not survive the process.")
	case DriverBolt:
		if cfg.BoltPath == "" {
			return nil, fmt.Errorf("LEDGER_BOLT_PATH must be set for the %s driver", DriverBolt)
		}
	case DriverSQLite:
		if cfg.SQLitePath == "" {
			return nil, fmt.Errorf("LEDGER_SQLITE_PATH must be set for the %s driver", DriverSQLite)
		}
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("PGSQL_URL must be set for the %s driver", DriverPostgres)
		}
	case DriverRedis:
		if cfg.RedisURL == "" {
			return nil, fmt.Errorf("REDIS_URL must be set for the %s driver", DriverRedis)
		}
	default:
		return nil, fmt.Errorf("unsupported LEDGER_STORE_DRIVER %q", cfg.StoreDriver)
	}

	if cfg.AccountMappingFile == "" && !cfg.KeywordFallback {
		log.Println("Warning: LEDGER_ACCOUNT_MAPPING_FILE not set and keyword fallback disabled. Conversions will fail.")
	}

	return cfg, nil
}
