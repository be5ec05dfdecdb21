package services

import (
	"context"
	"testing"
	"time"

	"cuponera_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clientAt(lastVisitDaysAgo, registeredDaysAgo, visits int, now time.Time) *models.Client {
	return &models.Client{
		Visits:       visits,
		LastVisitAt:  now.AddDate(0, 0, -lastVisitDaysAgo),
		RegisteredAt: now.AddDate(0, 0, -registeredDaysAgo),
	}
}

func TestMatchesBoundaries(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name    string
		client  *models.Client
		segment models.AudienceSegment
		want    bool
	}{
		{"active at 30 day edge", clientAt(30, 90, 3, now), models.SegmentActive, true},
		{"not active at 31 days", clientAt(31, 90, 3, now), models.SegmentActive, false},
		{"recoverable starts past 30", clientAt(31, 90, 3, now), models.SegmentRecoverable, true},
		{"recoverable at 60 day edge", clientAt(60, 90, 3, now), models.SegmentRecoverable, true},
		{"lost past 60 days", clientAt(61, 90, 3, now), models.SegmentRecoverable, false},
		{"recent visitor is not recoverable", clientAt(10, 90, 3, now), models.SegmentRecoverable, false},
		{"vip needs more than five visits", clientAt(2, 90, 5, now), models.SegmentVIP, false},
		{"six visits is vip", clientAt(2, 90, 6, now), models.SegmentVIP, true},
		{"new at 7 day edge", clientAt(1, 7, 1, now), models.SegmentNew, true},
		{"not new at 8 days", clientAt(1, 8, 1, now), models.SegmentNew, false},
		{"all matches everyone", clientAt(400, 400, 0, now), models.SegmentAll, true},
		{"unknown segment matches nobody", clientAt(1, 1, 1, now), models.AudienceSegment("bogus"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Matches(tc.client, tc.segment, now))
		})
	}
}

func TestSegmentsOverlap(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	// Registered five days ago, visited yesterday, seven visits.
	c := clientAt(1, 5, 7, now)
	assert.True(t, Matches(c, models.SegmentActive, now))
	assert.True(t, Matches(c, models.SegmentVIP, now))
	assert.True(t, Matches(c, models.SegmentNew, now))
	assert.False(t, Matches(c, models.SegmentRecoverable, now))
}

func TestFilterAndSegmentCounts(t *testing.T) {
	clk := newFakeClock(time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC))
	clients := newFakeClientStore(clk.Now)
	svc := NewSegmentService(clients, clk)
	ctx := context.Background()
	now := clk.Now()

	seed := func(name string, c *models.Client) {
		c.BusinessID = "biz-1"
		c.Name = name
		c.Phone = "+52" + name
		require.NoError(t, clients.Create(ctx, c))
	}
	seed("regular", clientAt(3, 120, 4, now))
	seed("fading", clientAt(45, 120, 2, now))
	seed("champion", clientAt(5, 300, 12, now))
	seed("fresh", clientAt(0, 2, 1, now))
	seed("gone", clientAt(200, 400, 1, now))

	// Another tenant's client never leaks into the filter.
	other := clientAt(1, 1, 9, now)
	other.BusinessID = "biz-2"
	other.Name = "stranger"
	require.NoError(t, clients.Create(ctx, other))

	active, err := svc.Filter(ctx, "biz-1", models.SegmentActive)
	require.NoError(t, err)
	assert.Len(t, active, 3)

	recoverable, err := svc.Filter(ctx, "biz-1", models.SegmentRecoverable)
	require.NoError(t, err)
	require.Len(t, recoverable, 1)
	assert.Equal(t, "fading", recoverable[0].Name)

	counts, err := svc.SegmentCounts(ctx, "biz-1")
	require.NoError(t, err)
	assert.Equal(t, 5, counts[models.SegmentAll])
	assert.Equal(t, 3, counts[models.SegmentActive])
	assert.Equal(t, 1, counts[models.SegmentRecoverable])
	assert.Equal(t, 1, counts[models.SegmentVIP])
	assert.Equal(t, 1, counts[models.SegmentNew])
}
