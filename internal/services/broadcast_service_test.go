package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"cuponera_backend/internal/dispatch"
	"cuponera_backend/internal/models"
	"cuponera_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type broadcastFixture struct {
	svc        *BroadcastService
	broadcasts *fakeBroadcastStore
	clients    *fakeClientStore
	contacts   *fakeContactStore
	throttle   *ThrottleService
	dispatcher *dispatch.MockDispatcher
	clk        *fakeClock
}

func newBroadcastFixture(t *testing.T) *broadcastFixture {
	t.Helper()
	clk := newFakeClock(time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC))
	broadcasts := newFakeBroadcastStore()
	clients := newFakeClientStore(clk.Now)
	contacts := newFakeContactStore()
	throttle := NewThrottleService(contacts, clk)
	dispatcher := dispatch.NewMockDispatcher()
	svc := NewBroadcastService(broadcasts, clients, NewSegmentService(clients, clk), throttle, dispatcher, clk)
	t.Cleanup(svc.Shutdown)
	return &broadcastFixture{
		svc:        svc,
		broadcasts: broadcasts,
		clients:    clients,
		contacts:   contacts,
		throttle:   throttle,
		dispatcher: dispatcher,
		clk:        clk,
	}
}

func (f *broadcastFixture) seedClient(t *testing.T, name, phone string) *models.Client {
	t.Helper()
	now := f.clk.Now()
	c := &models.Client{
		BusinessID:   "biz-1",
		Name:         name,
		Phone:        phone,
		Visits:       1,
		LastVisitAt:  now,
		RegisteredAt: now.AddDate(0, 0, -90),
	}
	require.NoError(t, f.clients.Create(context.Background(), c))
	return c
}

func TestSendToFullBaseFiltersThrottled(t *testing.T) {
	f := newBroadcastFixture(t)
	ctx := context.Background()
	a := f.seedClient(t, "a", "+521")
	b := f.seedClient(t, "b", "+522")
	c := f.seedClient(t, "c", "+523")

	// b was contacted an hour ago and sits inside the cooldown.
	require.NoError(t, f.contacts.RecordContact(ctx, b.ID, "earlier", f.clk.Now().Add(-time.Hour)))

	plan, err := f.svc.PlanSend(ctx, &SendRequest{BusinessID: "biz-1", Message: "hola"})
	require.NoError(t, err)
	assert.Equal(t, ScopeBroadcast, plan.Scope)
	assert.Equal(t, 1, plan.Suppressed)
	assert.Len(t, plan.Audience, 2)

	sent, err := f.svc.Send(ctx, &SendRequest{BusinessID: "biz-1", Message: "hola"})
	require.NoError(t, err)
	assert.Equal(t, models.BroadcastStatusSent, sent.Status)
	assert.Equal(t, 2, sent.Recipients)
	assert.Equal(t, 0, sent.FailedCount)
	require.NotNil(t, sent.SentAt)

	assert.False(t, f.throttle.CanContact(ctx, a.ID))
	assert.False(t, f.throttle.CanContact(ctx, c.ID))
}

func TestSendToSegment(t *testing.T) {
	f := newBroadcastFixture(t)
	ctx := context.Background()
	f.seedClient(t, "regular", "+521")

	vip := f.seedClient(t, "vip", "+522")
	vip.Visits = 12
	require.NoError(t, f.clients.Create(ctx, vip))

	sent, err := f.svc.Send(ctx, &SendRequest{
		BusinessID: "biz-1",
		Message:    "solo para vip",
		Segment:    models.SegmentVIP,
	})
	require.NoError(t, err)
	assert.Equal(t, ScopeSegment, sent.Scope)
	assert.Equal(t, models.SegmentVIP, sent.Segment)
	assert.Equal(t, 1, sent.Recipients)

	require.Len(t, f.dispatcher.Sent, 1)
	assert.Equal(t, "+522", f.dispatcher.Sent[0].Phone)
}

func TestExplicitRecipientsBypassThrottle(t *testing.T) {
	f := newBroadcastFixture(t)
	ctx := context.Background()
	a := f.seedClient(t, "a", "+521")

	require.NoError(t, f.contacts.RecordContact(ctx, a.ID, "earlier", f.clk.Now().Add(-time.Hour)))

	sent, err := f.svc.Send(ctx, &SendRequest{
		BusinessID: "biz-1",
		Message:    "tu pedido esta listo",
		ClientIDs:  []string{a.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, ScopeExplicit, sent.Scope)
	assert.Equal(t, 1, sent.Recipients)
}

func TestExplicitScopeWinsOverSegment(t *testing.T) {
	f := newBroadcastFixture(t)
	a := f.seedClient(t, "a", "+521")

	plan, err := f.svc.PlanSend(context.Background(), &SendRequest{
		BusinessID: "biz-1",
		Message:    "hola",
		ClientIDs:  []string{a.ID},
		Segment:    models.SegmentVIP,
	})
	require.NoError(t, err)
	assert.Equal(t, ScopeExplicit, plan.Scope)
	assert.Len(t, plan.Audience, 1)
}

func TestSendValidation(t *testing.T) {
	f := newBroadcastFixture(t)
	ctx := context.Background()

	_, err := f.svc.Send(ctx, &SendRequest{BusinessID: "biz-1"})
	assert.True(t, apperrors.Is(err, apperrors.ErrEmptyMessage))

	// Attachment alone is a valid payload, but there is nobody to reach.
	_, err = f.svc.Send(ctx, &SendRequest{BusinessID: "biz-1", AttachmentPath: "uploads/menu.jpg"})
	assert.True(t, apperrors.Is(err, apperrors.ErrEmptyAudience))
}

func TestSendAbortsWhenThrottleEmptiesAudience(t *testing.T) {
	f := newBroadcastFixture(t)
	ctx := context.Background()
	a := f.seedClient(t, "a", "+521")

	require.NoError(t, f.contacts.RecordContact(ctx, a.ID, "earlier", f.clk.Now().Add(-time.Hour)))

	_, err := f.svc.Send(ctx, &SendRequest{BusinessID: "biz-1", Message: "hola"})
	assert.True(t, apperrors.Is(err, apperrors.ErrEmptyAudience))
}

func TestPartialDeliveryKeepsFailedEligible(t *testing.T) {
	f := newBroadcastFixture(t)
	ctx := context.Background()
	ok := f.seedClient(t, "ok", "+521")
	bad := f.seedClient(t, "bad", "+522")

	f.dispatcher.FailPhones["+522"] = true

	sent, err := f.svc.Send(ctx, &SendRequest{BusinessID: "biz-1", Message: "hola"})
	require.NoError(t, err)
	assert.Equal(t, models.BroadcastStatusPartial, sent.Status)
	assert.Equal(t, 2, sent.Recipients)
	assert.Equal(t, 1, sent.FailedCount)

	var details map[string]string
	require.NoError(t, json.Unmarshal(sent.FailureDetails, &details))
	assert.Contains(t, details, bad.ID)

	assert.False(t, f.throttle.CanContact(ctx, ok.ID), "delivered recipient enters cooldown")
	assert.True(t, f.throttle.CanContact(ctx, bad.ID), "failed recipient stays eligible")
}

func TestScheduleValidation(t *testing.T) {
	f := newBroadcastFixture(t)
	ctx := context.Background()
	a := f.seedClient(t, "a", "+521")

	past := f.clk.Now().Add(-time.Minute)
	_, err := f.svc.Send(ctx, &SendRequest{BusinessID: "biz-1", Message: "hola", ScheduledFor: &past})
	assert.True(t, apperrors.Is(err, apperrors.ErrScheduleInPast))

	exactly := f.clk.Now()
	_, err = f.svc.Send(ctx, &SendRequest{
		BusinessID:   "biz-1",
		Message:      "hola",
		ClientIDs:    []string{a.ID},
		ScheduledFor: &exactly,
	})
	assert.True(t, apperrors.Is(err, apperrors.ErrScheduleInPast), "fire time must be strictly in the future")
}

func TestExplicitRecipientsScopedToTenant(t *testing.T) {
	f := newBroadcastFixture(t)
	ctx := context.Background()
	own := f.seedClient(t, "own", "+521")

	foreign := &models.Client{
		BusinessID:   "biz-2",
		Name:         "stranger",
		Phone:        "+529",
		Visits:       1,
		LastVisitAt:  f.clk.Now(),
		RegisteredAt: f.clk.Now().AddDate(0, 0, -90),
	}
	require.NoError(t, f.clients.Create(ctx, foreign))

	plan, err := f.svc.PlanSend(ctx, &SendRequest{
		BusinessID: "biz-1",
		Message:    "hola",
		ClientIDs:  []string{own.ID, foreign.ID},
	})
	require.NoError(t, err)
	require.Len(t, plan.Audience, 1)
	assert.Equal(t, own.ID, plan.Audience[0].ID)
}

func TestScheduledExplicitRecipients(t *testing.T) {
	f := newBroadcastFixture(t)
	ctx := context.Background()
	a := f.seedClient(t, "a", "+521")
	b := f.seedClient(t, "b", "+522")
	f.seedClient(t, "uninvited", "+523")

	// a sits inside the cooldown; hand-picked lists ignore it.
	require.NoError(t, f.contacts.RecordContact(ctx, a.ID, "earlier", f.clk.Now().Add(-time.Hour)))

	fireAt := f.clk.Now().Add(30 * time.Millisecond)
	scheduled, err := f.svc.Send(ctx, &SendRequest{
		BusinessID:   "biz-1",
		Message:      "solo para ustedes",
		ClientIDs:    []string{a.ID, b.ID},
		ScheduledFor: &fireAt,
	})
	require.NoError(t, err)
	assert.Equal(t, models.BroadcastStatusScheduled, scheduled.Status)
	assert.Equal(t, ScopeExplicit, scheduled.Scope)

	var storedIDs []string
	require.NoError(t, json.Unmarshal(scheduled.ExplicitIDs, &storedIDs))
	assert.ElementsMatch(t, []string{a.ID, b.ID}, storedIDs)

	require.Eventually(t, func() bool {
		stored, err := f.broadcasts.GetByID(ctx, scheduled.ID)
		return err == nil && stored.Status == models.BroadcastStatusSent
	}, 2*time.Second, 10*time.Millisecond)

	stored, err := f.broadcasts.GetByID(ctx, scheduled.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.Recipients, "only the stored list is reached, throttle bypassed")
}

func TestScheduleAndCancel(t *testing.T) {
	f := newBroadcastFixture(t)
	ctx := context.Background()
	f.seedClient(t, "a", "+521")

	fireAt := f.clk.Now().Add(time.Hour)
	b, err := f.svc.Send(ctx, &SendRequest{BusinessID: "biz-1", Message: "manana", ScheduledFor: &fireAt})
	require.NoError(t, err)
	assert.Equal(t, models.BroadcastStatusScheduled, b.Status)
	require.NotNil(t, b.ScheduledFor)
	assert.True(t, fireAt.Equal(*b.ScheduledFor))

	require.NoError(t, f.svc.Cancel(ctx, b.ID))
	stored, err := f.broadcasts.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BroadcastStatusCancelled, stored.Status)

	assert.Error(t, f.svc.Cancel(ctx, b.ID), "a cancelled broadcast cannot be cancelled again")
}

func TestScheduledFireResolvesAudienceFresh(t *testing.T) {
	f := newBroadcastFixture(t)
	ctx := context.Background()
	f.seedClient(t, "early", "+521")

	fireAt := f.clk.Now().Add(30 * time.Millisecond)
	b, err := f.svc.Send(ctx, &SendRequest{BusinessID: "biz-1", Message: "hola", ScheduledFor: &fireAt})
	require.NoError(t, err)

	// Joined after scheduling; must still be reached at fire time.
	f.seedClient(t, "late", "+522")

	require.Eventually(t, func() bool {
		stored, err := f.broadcasts.GetByID(ctx, b.ID)
		return err == nil && stored.Status == models.BroadcastStatusSent
	}, 2*time.Second, 10*time.Millisecond)

	stored, err := f.broadcasts.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.Recipients)
}

func TestScheduledFireCancelsOnEmptyAudience(t *testing.T) {
	f := newBroadcastFixture(t)
	ctx := context.Background()

	fireAt := f.clk.Now().Add(30 * time.Millisecond)
	b, err := f.svc.Send(ctx, &SendRequest{BusinessID: "biz-1", Message: "hola", ScheduledFor: &fireAt})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		stored, err := f.broadcasts.GetByID(ctx, b.ID)
		return err == nil && stored.Status == models.BroadcastStatusCancelled
	}, 2*time.Second, 10*time.Millisecond)

	assert.Empty(t, f.dispatcher.Sent)
}

func TestRearmScheduledFiresOverduePending(t *testing.T) {
	f := newBroadcastFixture(t)
	ctx := context.Background()
	f.seedClient(t, "a", "+521")

	overdue := f.clk.Now().Add(-time.Hour)
	b := &models.Broadcast{
		BusinessID:   "biz-1",
		Message:      "mientras dormias",
		Scope:        ScopeBroadcast,
		Segment:      models.SegmentAll,
		Status:       models.BroadcastStatusScheduled,
		ScheduledFor: &overdue,
	}
	require.NoError(t, f.broadcasts.Create(ctx, b))

	require.NoError(t, f.svc.RearmScheduled(ctx))

	require.Eventually(t, func() bool {
		stored, err := f.broadcasts.GetByID(ctx, b.ID)
		return err == nil && stored.Status == models.BroadcastStatusSent
	}, 2*time.Second, 10*time.Millisecond)
}
