package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"cuponera_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type erroringContactStore struct{}

func (erroringContactStore) LastContactedAt(ctx context.Context, recipientID string) (time.Time, bool, error) {
	return time.Time{}, false, errors.New("connection refused")
}

func (erroringContactStore) RecordContact(ctx context.Context, recipientID, attemptID string, at time.Time) error {
	return errors.New("connection refused")
}

func TestCanContactCooldownBoundary(t *testing.T) {
	start := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	clk := newFakeClock(start)
	store := newFakeContactStore()
	svc := NewThrottleService(store, clk)
	ctx := context.Background()

	assert.True(t, svc.CanContact(ctx, "client-1"), "never contacted")

	require.NoError(t, svc.RecordContact(ctx, "client-1", "attempt-1"))
	assert.False(t, svc.CanContact(ctx, "client-1"), "just contacted")

	clk.Set(start.Add(ContactThrottlePeriod - time.Minute))
	assert.False(t, svc.CanContact(ctx, "client-1"), "one minute short of the window")

	clk.Set(start.Add(ContactThrottlePeriod))
	assert.True(t, svc.CanContact(ctx, "client-1"), "exactly one period later is eligible")
}

func TestRecordContactIdempotentPerAttempt(t *testing.T) {
	start := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	clk := newFakeClock(start)
	store := newFakeContactStore()
	svc := NewThrottleService(store, clk)
	ctx := context.Background()

	require.NoError(t, svc.RecordContact(ctx, "client-1", "attempt-1"))

	// A retry of the same attempt must not push the cooldown forward.
	clk.Advance(2 * time.Hour)
	require.NoError(t, svc.RecordContact(ctx, "client-1", "attempt-1"))

	last, ok, err := store.LastContactedAt(ctx, "client-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, start, last)

	// A new attempt does.
	require.NoError(t, svc.RecordContact(ctx, "client-1", "attempt-2"))
	last, _, err = store.LastContactedAt(ctx, "client-1")
	require.NoError(t, err)
	assert.Equal(t, start.Add(2*time.Hour), last)
}

func TestFilterEligible(t *testing.T) {
	start := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	clk := newFakeClock(start)
	store := newFakeContactStore()
	svc := NewThrottleService(store, clk)
	ctx := context.Background()

	fresh := models.Client{BaseModel: models.BaseModel{ID: "fresh"}}
	cooling := models.Client{BaseModel: models.BaseModel{ID: "cooling"}}
	expired := models.Client{BaseModel: models.BaseModel{ID: "expired"}}

	require.NoError(t, store.RecordContact(ctx, "cooling", "a1", start.Add(-time.Hour)))
	require.NoError(t, store.RecordContact(ctx, "expired", "a1", start.Add(-25*time.Hour)))

	out := svc.FilterEligible(ctx, []models.Client{fresh, cooling, expired})
	require.Len(t, out, 2)
	assert.Equal(t, "fresh", out[0].ID)
	assert.Equal(t, "expired", out[1].ID)
}

func TestThrottleDegradesOpenOnStoreFailure(t *testing.T) {
	clk := newFakeClock(time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC))
	svc := NewThrottleService(erroringContactStore{}, clk)

	assert.True(t, svc.CanContact(context.Background(), "client-1"),
		"store trouble must never block a send")
}
