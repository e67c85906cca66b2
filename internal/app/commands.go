package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"restaurant_reviews/internal/adapters/observability"
	"restaurant_reviews/internal/domain"
)

const (
	msgOffline       = "You seem to be offline, we will try post the review later"
	msgPendingPosted = "Pending offline review posted"
	msgPendingDenied = "Pending offline review was rejected by the server"
)

// SyncService moves data between the remote service and the local store.
// Failures reach the user through the notifier; the returned errors are for Go callers.
type SyncService struct {
	remote domain.RemoteClient
	store  domain.LocalStore
	notify domain.Notifier
}

func NewSyncService(r domain.RemoteClient, s domain.LocalStore, n domain.Notifier) *SyncService {
	return &SyncService{remote: r, store: s, notify: n}
}

// FetchRestaurants refreshes the local snapshot from the remote list and then runs every
// callback once, in order. On failure the cache is left untouched and no callback runs.
func (s *SyncService) FetchRestaurants(ctx context.Context, then ...func()) error {
	raws, err := s.remote.GetRestaurants(ctx)
	if err != nil {
		return s.fetchFailed(err)
	}
	rs := make([]domain.Restaurant, 0, len(raws))
	for i, raw := range raws {
		r, err := domain.DecodeRestaurant(raw)
		if err != nil {
			// nothing to key it by; the rest of the list is still cached
			log.Warn().Err(err).Int("index", i).Msg("skipping restaurant record")
			continue
		}
		rs = append(rs, r)
	}

	if err := s.store.Insert(ctx, rs); err != nil {
		log.Error().Err(err).Int("count", len(rs)).Msg("cache restaurants failed")
		s.notify.Error(fmt.Sprintf("Error getting the list of restaurants %v", err))
		return fmt.Errorf("cache restaurants: %w", err)
	}
	log.Info().Int("count", len(rs)).Msg("restaurants cached")

	for _, fn := range then {
		fn()
	}
	return nil
}

func (s *SyncService) fetchFailed(err error) error {
	log.Warn().Err(err).Str("err_type", observability.LabelErr(err)).Msg("fetch restaurants failed")
	s.notify.Error(fmt.Sprintf("Error getting the list of restaurants %v", err))
	return fmt.Errorf("%w: fetch restaurants: %v", domain.ErrNetworkFailure, err)
}

// InsertReview posts the review and returns the server's answer verbatim. When the post fails
// the review replaces whatever sat in the pending slot, to be replayed by CheckPendingRequests.
// A review the server rejects is not kept: its answer comes back with the *domain.RejectedError.
func (s *SyncService) InsertReview(ctx context.Context, review json.RawMessage) (json.RawMessage, error) {
	resp, err := s.remote.PostReview(ctx, review)
	if err == nil {
		return resp, nil
	}
	var rej *domain.RejectedError
	if errors.As(err, &rej) {
		log.Warn().Int("status", rej.Status).Msg("review rejected by remote")
		return rej.Body, err
	}

	log.Error().Err(err).Str("err_type", observability.LabelErr(err)).Msg("post review failed")
	s.notify.Warning(msgOffline)
	if perr := s.store.PutPending(ctx, review); perr != nil {
		log.Error().Err(perr).Msg("save pending review failed")
	} else {
		observability.ObservePending("saved")
	}
	return nil, fmt.Errorf("%w: post review: %v", domain.ErrNetworkFailure, err)
}

// CheckPendingRequests makes one attempt to post the pending review, if there is one, and
// clears the slot when it goes through.
func (s *SyncService) CheckPendingRequests(ctx context.Context) error {
	pending, err := s.store.GetPending(ctx)
	if err != nil {
		return fmt.Errorf("read pending review: %w", err)
	}
	if pending == nil {
		return nil
	}
	log.Info().RawJSON("pending_review", pending).Msg("replaying pending review")

	if _, err := s.InsertReview(ctx, pending); err != nil {
		var rej *domain.RejectedError
		if !errors.As(err, &rej) {
			observability.ObservePending("replay_failed")
			return err
		}
		// replaying it again would be rejected again
		s.notify.Error(msgPendingDenied)
		observability.ObservePending("rejected")
		if err := s.store.RemoveKey(ctx, domain.PendingSlot); err != nil {
			return fmt.Errorf("clear pending review: %w", err)
		}
		return nil
	}
	s.notify.Success(msgPendingPosted)
	observability.ObservePending("replayed")
	if err := s.store.RemoveKey(ctx, domain.PendingSlot); err != nil {
		return fmt.Errorf("clear pending review: %w", err)
	}
	return nil
}
