package app

import (
	"context"

	"restaurant_reviews/internal/domain"
)

// All is the filter value meaning "no filter on this dimension".
const All = "all"

// QueryService answers every read from the locally cached snapshot.
type QueryService struct {
	store domain.LocalStore
}

func NewQueryService(s domain.LocalStore) *QueryService {
	return &QueryService{store: s}
}

func (s *QueryService) All(ctx context.Context) ([]domain.Restaurant, error) {
	return s.store.SelectAll(ctx)
}

// ByID returns the first restaurant whose id loosely equals id, or nil when there is none.
// A missing restaurant is not an error.
func (s *QueryService) ByID(ctx context.Context, id string) (*domain.Restaurant, error) {
	rs, err := s.store.SelectAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range rs {
		if rs[i].ID.LooseEquals(id) {
			return &rs[i], nil
		}
	}
	return nil, nil
}

func (s *QueryService) ByCuisine(ctx context.Context, cuisine string) ([]domain.Restaurant, error) {
	rs, err := s.store.SelectAll(ctx)
	if err != nil {
		return nil, err
	}
	return filter(rs, func(r domain.Restaurant) bool { return r.CuisineType == cuisine }), nil
}

func (s *QueryService) ByNeighborhood(ctx context.Context, neighborhood string) ([]domain.Restaurant, error) {
	rs, err := s.store.SelectAll(ctx)
	if err != nil {
		return nil, err
	}
	return filter(rs, func(r domain.Restaurant) bool { return r.Neighborhood == neighborhood }), nil
}

// ByCuisineAndNeighborhood applies each filter unless its argument is All.
func (s *QueryService) ByCuisineAndNeighborhood(ctx context.Context, cuisine, neighborhood string) ([]domain.Restaurant, error) {
	rs, err := s.store.SelectAll(ctx)
	if err != nil {
		return nil, err
	}
	if cuisine != All {
		rs = filter(rs, func(r domain.Restaurant) bool { return r.CuisineType == cuisine })
	}
	if neighborhood != All {
		rs = filter(rs, func(r domain.Restaurant) bool { return r.Neighborhood == neighborhood })
	}
	return rs, nil
}

// Neighborhoods lists each neighborhood once, in order of first appearance.
func (s *QueryService) Neighborhoods(ctx context.Context) ([]string, error) {
	rs, err := s.store.SelectAll(ctx)
	if err != nil {
		return nil, err
	}
	return distinct(rs, func(r domain.Restaurant) string { return r.Neighborhood }), nil
}

// Cuisines lists each cuisine type once, in order of first appearance.
func (s *QueryService) Cuisines(ctx context.Context) ([]string, error) {
	rs, err := s.store.SelectAll(ctx)
	if err != nil {
		return nil, err
	}
	return distinct(rs, func(r domain.Restaurant) string { return r.CuisineType }), nil
}

func filter(rs []domain.Restaurant, keep func(domain.Restaurant) bool) []domain.Restaurant {
	out := make([]domain.Restaurant, 0, len(rs))
	for _, r := range rs {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

func distinct(rs []domain.Restaurant, field func(domain.Restaurant) string) []string {
	seen := make(map[string]struct{}, len(rs))
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		v := field(r)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
