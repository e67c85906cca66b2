package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant_reviews/internal/app"
	"restaurant_reviews/internal/domain"
)

func TestFetchRestaurants_CachesThenRunsCallbacks(t *testing.T) {
	store := &fakeStore{}
	remote := &fakeRemote{restaurants: []json.RawMessage{
		json.RawMessage(`{"id":2,"name":"Emily","cuisine_type":"Pizza","neighborhood":"Brooklyn"}`),
		json.RawMessage(`{"id":1,"name":"Mission Chinese Food","cuisine_type":"Asian","neighborhood":"Manhattan"}`),
	}}
	notes := &fakeNotifier{}
	svc := app.NewSyncService(remote, store, notes)

	var order []string
	err := svc.FetchRestaurants(context.Background(),
		func() {
			// the cache is already filled when callbacks run
			all, _ := store.SelectAll(context.Background())
			order = append(order, "first:"+ids(all)[0])
		},
		func() { order = append(order, "second") },
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"first:1", "second"}, order)
	assert.Empty(t, notes.notes)
	assert.Equal(t, []string{"1", "2"}, ids(store.restaurants))
}

func TestFetchRestaurants_NetworkFailureLeavesCache(t *testing.T) {
	store := seeded(t)
	before := ids(store.restaurants)
	notes := &fakeNotifier{}
	svc := app.NewSyncService(&fakeRemote{fetchErr: errOffline}, store, notes)

	called := false
	err := svc.FetchRestaurants(context.Background(), func() { called = true })

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNetworkFailure))
	assert.False(t, called)
	assert.Equal(t, before, ids(store.restaurants))
	require.Len(t, notes.notes, 1)
	assert.Equal(t, "error", notes.notes[0].level)
	assert.Contains(t, notes.notes[0].msg, "Error getting the list of restaurants")
}

func TestFetchRestaurants_UnexpectedRecordShapeStillCaches(t *testing.T) {
	store := &fakeStore{}
	notes := &fakeNotifier{}
	odd := `{"id":2,"name":"Emily","operating_hours":{"Monday":["5:30 pm - 11:00 pm"]}}`
	remote := &fakeRemote{restaurants: []json.RawMessage{
		json.RawMessage(`{"id":1,"name":"Mission Chinese Food"}`),
		json.RawMessage(odd),
		json.RawMessage(`{"name":"no id"}`),
	}}
	svc := app.NewSyncService(remote, store, notes)

	called := false
	err := svc.FetchRestaurants(context.Background(), func() { called = true })
	require.NoError(t, err)
	assert.True(t, called)
	assert.Empty(t, notes.notes)
	require.Equal(t, []string{"1", "2"}, ids(store.restaurants))
	assert.Equal(t, odd, string(store.restaurants[1].RawJSON))
}

func TestFetchRestaurants_StoreFailure(t *testing.T) {
	store := &fakeStore{insertErr: errors.New("quota exceeded")}
	notes := &fakeNotifier{}
	remote := &fakeRemote{restaurants: []json.RawMessage{json.RawMessage(`{"id":1}`)}}
	svc := app.NewSyncService(remote, store, notes)

	called := false
	err := svc.FetchRestaurants(context.Background(), func() { called = true })
	assert.Error(t, err)
	assert.False(t, called)
	require.Len(t, notes.notes, 1)
	assert.Equal(t, "error", notes.notes[0].level)
}

func TestInsertReview_SuccessPassesResponseThrough(t *testing.T) {
	store := &fakeStore{}
	notes := &fakeNotifier{}
	remote := &fakeRemote{postResp: json.RawMessage(`{"id":31,"restaurant_id":1}`)}
	svc := app.NewSyncService(remote, store, notes)

	resp, err := svc.InsertReview(context.Background(), json.RawMessage(`{"restaurant_id":1}`))
	require.NoError(t, err)
	assert.Equal(t, `{"id":31,"restaurant_id":1}`, string(resp))
	assert.Nil(t, store.pending)
	assert.Empty(t, notes.notes)
}

func TestInsertReview_FailureSavesPendingThenReplay(t *testing.T) {
	store := &fakeStore{}
	notes := &fakeNotifier{}
	remote := &fakeRemote{postErr: errOffline}
	svc := app.NewSyncService(remote, store, notes)
	ctx := context.Background()

	payload, err := domain.ReviewForm{RestaurantID: "1", Name: "Ana", Rating: 5, Comments: "Lovely"}.Payload()
	require.NoError(t, err)

	_, err = svc.InsertReview(ctx, payload)
	require.ErrorIs(t, err, domain.ErrNetworkFailure)
	assert.Equal(t, string(payload), string(store.pending))
	require.Len(t, notes.notes, 1)
	assert.Equal(t, note{"warning", "You seem to be offline, we will try post the review later"}, notes.notes[0])

	// back online
	remote.postErr = nil
	remote.postResp = json.RawMessage(`{"id":1}`)
	require.NoError(t, svc.CheckPendingRequests(ctx))

	assert.Nil(t, store.pending)
	assert.Equal(t, []string{domain.PendingSlot}, store.removed)
	require.Len(t, remote.posted, 2)
	assert.Equal(t, string(payload), string(remote.posted[1]))
	assert.Equal(t, note{"success", "Pending offline review posted"}, notes.notes[len(notes.notes)-1])
}

func TestInsertReview_SecondFailureOverwritesSlot(t *testing.T) {
	store := &fakeStore{}
	svc := app.NewSyncService(&fakeRemote{postErr: errOffline}, store, &fakeNotifier{})
	ctx := context.Background()

	_, _ = svc.InsertReview(ctx, json.RawMessage(`{"comments":"first"}`))
	_, _ = svc.InsertReview(ctx, json.RawMessage(`{"comments":"second"}`))

	assert.Equal(t, `{"comments":"second"}`, string(store.pending))
}

func TestCheckPendingRequests_EmptySlotIsNoop(t *testing.T) {
	remote := &fakeRemote{}
	notes := &fakeNotifier{}
	svc := app.NewSyncService(remote, &fakeStore{}, notes)

	require.NoError(t, svc.CheckPendingRequests(context.Background()))
	assert.Empty(t, remote.posted)
	assert.Empty(t, notes.notes)
}

func TestCheckPendingRequests_StillOfflineKeepsReview(t *testing.T) {
	store := &fakeStore{pending: json.RawMessage(`{"comments":"queued"}`)}
	notes := &fakeNotifier{}
	svc := app.NewSyncService(&fakeRemote{postErr: errOffline}, store, notes)

	err := svc.CheckPendingRequests(context.Background())
	assert.ErrorIs(t, err, domain.ErrNetworkFailure)
	assert.Equal(t, `{"comments":"queued"}`, string(store.pending))
	assert.Empty(t, store.removed)
	require.Len(t, notes.notes, 1)
	assert.Equal(t, "warning", notes.notes[0].level)
}

func TestInsertReview_RejectedIsNotKept(t *testing.T) {
	store := &fakeStore{}
	notes := &fakeNotifier{}
	rej := &domain.RejectedError{Status: 422, Body: json.RawMessage(`{"error":"rating"}`)}
	svc := app.NewSyncService(&fakeRemote{postErr: rej}, store, notes)

	body, err := svc.InsertReview(context.Background(), json.RawMessage(`{"rating":9}`))
	assert.ErrorAs(t, err, &rej)
	assert.NotErrorIs(t, err, domain.ErrNetworkFailure)
	assert.Equal(t, `{"error":"rating"}`, string(body))
	assert.Nil(t, store.pending)
	assert.Empty(t, notes.notes)
}

func TestCheckPendingRequests_RejectedReplayClearsSlot(t *testing.T) {
	store := &fakeStore{pending: json.RawMessage(`{"rating":9}`)}
	notes := &fakeNotifier{}
	svc := app.NewSyncService(&fakeRemote{postErr: &domain.RejectedError{Status: 400}}, store, notes)

	require.NoError(t, svc.CheckPendingRequests(context.Background()))
	assert.Nil(t, store.pending)
	assert.Equal(t, []string{domain.PendingSlot}, store.removed)
	require.Len(t, notes.notes, 1)
	assert.Equal(t, "error", notes.notes[0].level)
}
