package cfg

import "time"

type Cfg struct {
	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Cache configuration
	RedisAddr      string
	CachingEnabled bool

	// Retention and query limits
	AgeLimit     time.Duration
	SubPostLimit int
	PageLimit    int

	// Background refresh
	RefreshInterval time.Duration
	WorkerCount     int

	// HTTP server
	Port      string
	UserAgent string

	// Application metadata
	Debug   bool
	Version string
}
