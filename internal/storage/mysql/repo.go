package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"restaurant_reviews/internal/domain"
)

type Repo struct{ db *sql.DB }

var _ domain.LocalStore = (*Repo)(nil)

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) Insert(ctx context.Context, rs []domain.Restaurant) error {
	if len(rs) == 0 {
		return nil
	}
	values := make([]string, 0, len(rs))
	args := make([]any, 0, len(rs)*5)
	for _, rest := range rs {
		raw, err := rest.Raw()
		if err != nil {
			return fmt.Errorf("encode restaurant %s: %w", rest.ID, err)
		}
		values = append(values, "(?,?,?,?,?)")
		args = append(args,
			rest.ID.String(),
			rest.Name,
			rest.CuisineType,
			rest.Neighborhood,
			string(raw),
		)
	}
	sqlStr := insertRestaurantsPrefix + strings.Join(values, ",") + insertRestaurantsOnDup
	_, err := r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *Repo) SelectAll(ctx context.Context) ([]domain.Restaurant, error) {
	rows, err := r.db.QueryContext(ctx, selectRestaurantsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Restaurant
	for rows.Next() {
		var id string
		var raw []byte
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, err
		}
		rest, err := domain.DecodeRestaurant(raw)
		if err != nil {
			return nil, fmt.Errorf("cached restaurant %s: %w", id, err)
		}
		out = append(out, rest)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	domain.SortByID(out)
	return out, nil
}

func (r *Repo) PutPending(ctx context.Context, review json.RawMessage) error {
	_, err := r.db.ExecContext(ctx, upsertPendingSQL, domain.PendingSlot, string(review))
	return err
}

func (r *Repo) GetPending(ctx context.Context) (json.RawMessage, error) {
	var payload []byte
	err := r.db.QueryRowContext(ctx, selectPendingSQL, domain.PendingSlot).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return json.RawMessage(payload), nil
}

// RemoveKey clears the pending slot, or drops one cached restaurant by id.
func (r *Repo) RemoveKey(ctx context.Context, key string) error {
	q := deleteRestaurantSQL
	if key == domain.PendingSlot {
		q = deletePendingSQL
	}
	_, err := r.db.ExecContext(ctx, q, key)
	return err
}
