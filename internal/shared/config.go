package shared

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

const (
	BackendRedis = "redis"
	BackendMySQL = "mysql"
)

type Config struct {
	AppEnv        string
	LogLevel      string
	HTTPAddr      string
	MetricsAddr   string
	DatabaseURL   string // remote restaurant/review service
	RemoteRPS     int
	StoreBackend  string
	MySQLDSN      string
	RedisAddr     string
	RedisDB       int
	RedisPass     string
	CORSOrigins   []string
	NotifyHistory int
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			log.Warn().Str("key", k).Str("value", v).Msg("ignoring non-numeric env value")
		}
		return def
	}
	c := Config{
		AppEnv:        env("APP_ENV", "prod"),
		LogLevel:      strings.ToLower(env("LOG_LEVEL", "info")),
		HTTPAddr:      env("HTTP_ADDR", ":8080"),
		MetricsAddr:   env("METRICS_ADDR", ""),
		DatabaseURL:   env("DATABASE_URL", "https://frest.glitch.me"),
		RemoteRPS:     atoi("REMOTE_RPS", 5),
		StoreBackend:  strings.ToLower(env("STORE_BACKEND", BackendRedis)),
		MySQLDSN:      env("MYSQL_DSN", "root:root@tcp(localhost:3306)/restaurants?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:     env("REDIS_ADDR", "localhost:6379"),
		RedisPass:     env("REDIS_PASSWORD", ""),
		RedisDB:       atoi("REDIS_DB", 0),
		CORSOrigins:   list(env("CORS_ORIGINS", "")),
		NotifyHistory: atoi("NOTIFY_HISTORY", 50),
	}
	return c
}

// Validate rejects configurations the binaries cannot start with.
func (c Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	switch c.StoreBackend {
	case BackendRedis, BackendMySQL:
	default:
		return fmt.Errorf("invalid STORE_BACKEND %q (must be %s or %s)", c.StoreBackend, BackendRedis, BackendMySQL)
	}
	if c.RemoteRPS <= 0 {
		return fmt.Errorf("REMOTE_RPS must be positive")
	}
	return nil
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func list(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
