package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"restaurant_reviews/internal/domain"
)

// ---- fakes ----

type fakeStore struct {
	mu          sync.Mutex
	restaurants []domain.Restaurant
	pending     json.RawMessage
	removed     []string

	insertErr error
	selectErr error
}

func (f *fakeStore) Insert(ctx context.Context, rs []domain.Restaurant) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return f.insertErr
	}
	for _, r := range rs {
		replaced := false
		for i := range f.restaurants {
			if f.restaurants[i].ID == r.ID {
				f.restaurants[i] = r
				replaced = true
			}
		}
		if !replaced {
			f.restaurants = append(f.restaurants, r)
		}
	}
	domain.SortByID(f.restaurants)
	return nil
}

func (f *fakeStore) SelectAll(ctx context.Context) ([]domain.Restaurant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.selectErr != nil {
		return nil, f.selectErr
	}
	return append([]domain.Restaurant(nil), f.restaurants...), nil
}

func (f *fakeStore) PutPending(ctx context.Context, review json.RawMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pending = append(json.RawMessage(nil), review...)
	return nil
}

func (f *fakeStore) GetPending(ctx context.Context) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pending, nil
}

func (f *fakeStore) RemoveKey(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, key)
	if key == domain.PendingSlot {
		f.pending = nil
	}
	return nil
}

var errOffline = errors.New("dial tcp: connection refused")

type fakeRemote struct {
	restaurants []json.RawMessage
	fetchErr    error

	postErr  error
	postResp json.RawMessage
	posted   []json.RawMessage
}

func (f *fakeRemote) GetRestaurants(ctx context.Context) ([]json.RawMessage, error) {
	return f.restaurants, f.fetchErr
}

func (f *fakeRemote) PostReview(ctx context.Context, review json.RawMessage) (json.RawMessage, error) {
	f.posted = append(f.posted, review)
	if f.postErr != nil {
		return nil, f.postErr
	}
	return f.postResp, nil
}

type note struct{ level, msg string }

type fakeNotifier struct{ notes []note }

func (n *fakeNotifier) Error(msg string)   { n.notes = append(n.notes, note{"error", msg}) }
func (n *fakeNotifier) Warning(msg string) { n.notes = append(n.notes, note{"warning", msg}) }
func (n *fakeNotifier) Success(msg string) { n.notes = append(n.notes, note{"success", msg}) }

func restaurant(t *testing.T, raw string) domain.Restaurant {
	t.Helper()
	r, err := domain.DecodeRestaurant([]byte(raw))
	if err != nil {
		t.Fatalf("decode %s: %v", raw, err)
	}
	return r
}

func ids(rs []domain.Restaurant) []string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.ID.String())
	}
	return out
}
