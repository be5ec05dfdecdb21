package services

import (
	"context"
	"time"

	"cuponera_backend/internal/clock"
	"cuponera_backend/internal/models"
	"cuponera_backend/pkg/apperrors"
)

// Audience classification windows, in days.
const (
	activeWindowDays  = 30
	recoverWindowDays = 60
	newClientDays     = 7
	vipVisitThreshold = 5
)

// SegmentService classifies a business's clients into marketing segments.
// Membership is computed at read time from visit recency, visit count and
// registration age; nothing is stored.
type SegmentService struct {
	clients ClientStore
	clock   clock.Clock
}

func NewSegmentService(clients ClientStore, clk clock.Clock) *SegmentService {
	return &SegmentService{clients: clients, clock: clk}
}

// Matches reports whether a client belongs to the given segment at time now.
// Segments overlap: a client can be both "active" and "vip".
func Matches(c *models.Client, segment models.AudienceSegment, now time.Time) bool {
	switch segment {
	case models.SegmentAll:
		return true
	case models.SegmentActive:
		return c.LastVisitDays(now) <= activeWindowDays
	case models.SegmentRecoverable:
		d := c.LastVisitDays(now)
		return d > activeWindowDays && d <= recoverWindowDays
	case models.SegmentVIP:
		return c.Visits > vipVisitThreshold
	case models.SegmentNew:
		return c.DaysSinceRegistration(now) <= newClientDays
	default:
		return false
	}
}

// Filter returns the members of a segment among the business's clients.
func (s *SegmentService) Filter(ctx context.Context, businessID string, segment models.AudienceSegment) ([]models.Client, error) {
	clients, err := s.clients.GetByBusiness(ctx, businessID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	now := s.clock.Now()
	out := make([]models.Client, 0, len(clients))
	for _, c := range clients {
		if Matches(&c, segment, now) {
			out = append(out, c)
		}
	}
	return out, nil
}

// SegmentCounts sizes every segment in one pass, for the audience picker.
func (s *SegmentService) SegmentCounts(ctx context.Context, businessID string) (map[models.AudienceSegment]int, error) {
	clients, err := s.clients.GetByBusiness(ctx, businessID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	now := s.clock.Now()
	counts := map[models.AudienceSegment]int{
		models.SegmentAll:         len(clients),
		models.SegmentActive:      0,
		models.SegmentRecoverable: 0,
		models.SegmentVIP:         0,
		models.SegmentNew:         0,
	}
	for _, c := range clients {
		for _, seg := range []models.AudienceSegment{
			models.SegmentActive, models.SegmentRecoverable, models.SegmentVIP, models.SegmentNew,
		} {
			if Matches(&c, seg, now) {
				counts[seg]++
			}
		}
	}
	return counts, nil
}
