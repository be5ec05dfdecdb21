package services

import (
	"context"
	"time"

	"cuponera_backend/internal/clock"
	"cuponera_backend/internal/logger"
	"cuponera_backend/internal/models"
)

// ContactThrottlePeriod is the minimum gap between automated contacts to
// the same recipient. A recipient contacted exactly one period ago is
// eligible again (the boundary is inclusive).
const ContactThrottlePeriod = 24 * time.Hour

// ContactStore is implemented by repositories.RedisContactStore.
type ContactStore interface {
	LastContactedAt(ctx context.Context, recipientID string) (time.Time, bool, error)
	RecordContact(ctx context.Context, recipientID, attemptID string, at time.Time) error
}

// ThrottleService enforces the per-recipient contact cooldown for
// segment and full-audience sends. Explicitly picked recipients bypass it;
// that decision belongs to the caller, not here.
type ThrottleService struct {
	contacts ContactStore
	clock    clock.Clock
}

func NewThrottleService(contacts ContactStore, clk clock.Clock) *ThrottleService {
	return &ThrottleService{contacts: contacts, clock: clk}
}

// CanContact reports whether the recipient is outside the cooldown window.
// A store read error counts as contactable: the throttle degrades open
// rather than blocking sends on Redis trouble.
func (s *ThrottleService) CanContact(ctx context.Context, recipientID string) bool {
	last, ok, err := s.contacts.LastContactedAt(ctx, recipientID)
	if err != nil {
		logger.CtxWithError(ctx, "contact store read failed, treating recipient as eligible", err,
			"recipient_id", recipientID)
		return true
	}
	if !ok {
		return true
	}
	return !s.clock.Now().Before(last.Add(ContactThrottlePeriod))
}

// FilterEligible drops clients still inside the cooldown window.
func (s *ThrottleService) FilterEligible(ctx context.Context, clients []models.Client) []models.Client {
	out := make([]models.Client, 0, len(clients))
	for _, c := range clients {
		if s.CanContact(ctx, c.ID) {
			out = append(out, c)
		}
	}
	return out
}

// RecordContact marks the recipient as contacted by the given attempt.
// Only call it for confirmed deliveries; failed recipients stay eligible.
func (s *ThrottleService) RecordContact(ctx context.Context, recipientID, attemptID string) error {
	return s.contacts.RecordContact(ctx, recipientID, attemptID, s.clock.Now())
}
