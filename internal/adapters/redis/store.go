package redisad

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"restaurant_reviews/internal/adapters/observability"
	"restaurant_reviews/internal/domain"
)

// restaurantsKey is a hash of restaurant id -> raw record.
const restaurantsKey = "restaurants"

type Store struct{ c *redis.Client }

var _ domain.LocalStore = (*Store)(nil)

func New(addr, pass string, db int) *Store {
	return NewWithClient(redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}))
}

func NewWithClient(c *redis.Client) *Store { return &Store{c: c} }

func (r *Store) Ping(ctx context.Context) error { return r.c.Ping(ctx).Err() }

func (r *Store) Close() error { return r.c.Close() }

// ---- restaurants ----

func (r *Store) Insert(ctx context.Context, rs []domain.Restaurant) error {
	if len(rs) == 0 {
		return nil
	}
	fields := make([]any, 0, len(rs)*2)
	for _, rest := range rs {
		raw, err := rest.Raw()
		if err != nil {
			return fmt.Errorf("encode restaurant %s: %w", rest.ID, err)
		}
		fields = append(fields, rest.ID.String(), raw)
	}
	observability.ObserveCache("redis", "set")
	return r.c.HSet(ctx, restaurantsKey, fields...).Err()
}

func (r *Store) SelectAll(ctx context.Context) ([]domain.Restaurant, error) {
	all, err := r.c.HGetAll(ctx, restaurantsKey).Result()
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		observability.ObserveCache("redis", "miss")
		return nil, nil
	}
	observability.ObserveCache("redis", "hit")
	out := make([]domain.Restaurant, 0, len(all))
	for id, raw := range all {
		rest, err := domain.DecodeRestaurant([]byte(raw))
		if err != nil {
			return nil, fmt.Errorf("cached restaurant %s: %w", id, err)
		}
		out = append(out, rest)
	}
	domain.SortByID(out)
	return out, nil
}

// ---- pending review slot ----

func (r *Store) PutPending(ctx context.Context, review json.RawMessage) error {
	observability.ObserveCache("redis", "set")
	return r.c.Set(ctx, domain.PendingSlot, []byte(review), 0).Err()
}

func (r *Store) GetPending(ctx context.Context) (json.RawMessage, error) {
	var out json.RawMessage
	ok, err := r.Get(ctx, domain.PendingSlot, &out)
	if err != nil || !ok {
		return nil, err
	}
	return out, nil
}

// RemoveKey clears the pending slot, or drops one cached restaurant by id.
func (r *Store) RemoveKey(ctx context.Context, key string) error {
	if key == domain.PendingSlot {
		return r.Del(ctx, key)
	}
	observability.ObserveCache("redis", "del")
	return r.c.HDel(ctx, restaurantsKey, key).Err()
}

// ---- generic JSON values ----

func (r *Store) Get(ctx context.Context, key string, dst any) (bool, error) {
	v, err := r.c.Get(ctx, key).Bytes()
	if err == redis.Nil {
		observability.ObserveCache("redis", "miss")
		return false, nil
	}
	if err != nil {
		return false, err
	}
	observability.ObserveCache("redis", "hit")
	return true, json.Unmarshal(v, dst)
}

func (r *Store) Del(ctx context.Context, key string) error {
	observability.ObserveCache("redis", "del")
	return r.c.Del(ctx, key).Err()
}
