package cfg

import (
	"fmt"
	"strconv"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	if Version != "" {
		return Version
	}
	return "unknown"
}

type rawCfg struct {
	// Database configuration
	DBHost     string `long:"db-host" env:"DB_HOST" default:"localhost" description:"Database host"`
	DBPort     string `long:"db-port" env:"DB_PORT" default:"5432" description:"Database port"`
	DBUser     string `long:"db-user" env:"DB_USER" default:"feedden" description:"Database user"`
	DBPassword string `long:"db-password" env:"DB_PASSWORD" default:"feedden" description:"Database password (required)" required:"true"`
	DBName     string `long:"db-name" env:"DB_NAME" default:"feedden" description:"Database name"`

	// Cache configuration
	RedisAddr      string `long:"redis-addr" env:"REDIS_ADDR" default:"localhost:6379" description:"Redis address for the query cache"`
	CachingEnabled string `long:"caching-enabled" env:"CACHING_ENABLED" default:"true" description:"Enable the query result cache (true/false)"`

	// Retention and query limits
	AgeLimit     string `long:"age-limit" env:"AGE_LIMIT" default:"8760h" description:"Posts older than the oldest refresh date minus this duration are pruned"`
	SubPostLimit int    `long:"sub-post-limit" env:"SUB_POST_LIMIT" default:"50" description:"Maximum retained/listed posts per subscription"`
	PageLimit    int    `long:"page-limit" env:"PAGE_LIMIT" default:"10" description:"Posts per page in listings"`

	// Background refresh
	RefreshInterval int `long:"refresh-interval" env:"REFRESH_INTERVAL" default:"0" description:"Background folder refresh interval in seconds (0 disables)"`
	WorkerCount     int `long:"worker-count" env:"WORKER_COUNT" default:"5" description:"Number of background workers for feed processing"`

	// HTTP server
	Port      string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"feedden/1.0" description:"User agent string for feed requests"`

	Debug bool `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg, err := buildCfg(raw)
	if err != nil {
		return nil, err
	}

	globalCfg = cfg

	return cfg, nil
}

// buildCfg converts and validates raw option values.
func buildCfg(raw rawCfg) (*Cfg, error) {
	ageLimit, err := time.ParseDuration(raw.AgeLimit)
	if err != nil {
		return nil, fmt.Errorf("invalid age limit %q: %w", raw.AgeLimit, err)
	}

	cachingEnabled, err := strconv.ParseBool(raw.CachingEnabled)
	if err != nil {
		return nil, fmt.Errorf("invalid caching-enabled value %q: %w", raw.CachingEnabled, err)
	}

	if raw.SubPostLimit <= 0 {
		return nil, fmt.Errorf("sub post limit must be positive, got %d", raw.SubPostLimit)
	}
	if raw.PageLimit <= 0 {
		return nil, fmt.Errorf("page limit must be positive, got %d", raw.PageLimit)
	}

	return &Cfg{
		DBHost:          raw.DBHost,
		DBPort:          raw.DBPort,
		DBUser:          raw.DBUser,
		DBPassword:      raw.DBPassword,
		DBName:          raw.DBName,
		RedisAddr:       raw.RedisAddr,
		CachingEnabled:  cachingEnabled,
		AgeLimit:        ageLimit,
		SubPostLimit:    raw.SubPostLimit,
		PageLimit:       raw.PageLimit,
		RefreshInterval: time.Duration(raw.RefreshInterval) * time.Second,
		WorkerCount:     raw.WorkerCount,
		Port:            raw.Port,
		UserAgent:       raw.UserAgent,
		Debug:           raw.Debug,
		Version:         GetVersion(),
	}, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}
