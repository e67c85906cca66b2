package shared

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	redisad "restaurant_reviews/internal/adapters/redis"
	"restaurant_reviews/internal/domain"
	mysqlrepo "restaurant_reviews/internal/storage/mysql"
)

// OpenStore connects the configured local store and checks it answers.
// The returned close func releases the connection.
func OpenStore(ctx context.Context, c Config) (domain.LocalStore, func() error, error) {
	switch c.StoreBackend {
	case BackendMySQL:
		db, err := sql.Open("mysql", c.MySQLDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("sql.Open: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("db.Ping: %w", err)
		}
		log.Info().Str("backend", c.StoreBackend).Msg("store connection ok")
		return mysqlrepo.New(db), db.Close, nil

	case BackendRedis:
		s := redisad.New(c.RedisAddr, c.RedisPass, c.RedisDB)
		if err := s.Ping(ctx); err != nil {
			_ = s.Close()
			return nil, nil, fmt.Errorf("redis ping: %w", err)
		}
		log.Info().Str("backend", c.StoreBackend).Str("addr", c.RedisAddr).Msg("store connection ok")
		return s, s.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown store backend %q", c.StoreBackend)
}
