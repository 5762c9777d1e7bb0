package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the register's environment configuration.
type Config struct {
	ListenAddr string `env:"POS_LISTEN_ADDR" envDefault:":8080"`
	APIBaseURL string `env:"POS_API_BASE_URL" envDefault:"http://localhost:8081"`

	// StoreDriver selects the durable store backing the request cache:
	// memory, bolt, redis or mysql.
	StoreDriver string `env:"POS_STORE_DRIVER" envDefault:"bolt"`
	BoltPath    string `env:"POS_BOLT_PATH" envDefault:"register-cache.db"`
	RedisAddr   string `env:"POS_REDIS_ADDR" envDefault:"localhost:6379"`
	MySQLDSN    string `env:"POS_MYSQL_DSN" envDefault:"root:root@tcp(localhost:3306)/pos?parseTime=true"`

	CacheTTL      time.Duration `env:"POS_CACHE_TTL" envDefault:"24h"`
	ProbeInterval time.Duration `env:"POS_PROBE_INTERVAL" envDefault:"30s"`
}

// Parse loads configuration from environment variables.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
