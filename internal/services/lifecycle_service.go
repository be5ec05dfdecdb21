package services

import (
	"context"
	"time"

	"cuponera_backend/internal/clock"
	"cuponera_backend/internal/logger"
	"cuponera_backend/internal/models"
	"cuponera_backend/pkg/apperrors"
	"cuponera_backend/pkg/keymutex"

	"github.com/shopspring/decimal"
)

// BusinessStore is the persistence contract the lifecycle machine needs.
// Implemented by repositories.BusinessRepository.
type BusinessStore interface {
	Create(ctx context.Context, b *models.Business) error
	GetByID(ctx context.Context, id string) (*models.Business, error)
	Update(ctx context.Context, b *models.Business) error
	GetAll(ctx context.Context, status *models.BusinessStatus) ([]models.Business, error)
	GetExpiring(ctx context.Context) ([]models.Business, error)
	CountByStatus(ctx context.Context) (map[models.BusinessStatus]int64, error)
}

type PaymentStore interface {
	Create(ctx context.Context, p *models.PaymentTransaction) error
}

// ExpiryNotifier is told about businesses the sweep just expired. Optional:
// a nil notifier disables notices.
type ExpiryNotifier interface {
	NotifyExpired(ctx context.Context, b *models.Business)
}

type ProgressBand string

const (
	BandGreen  ProgressBand = "green"
	BandYellow ProgressBand = "yellow"
	BandRed    ProgressBand = "red"
)

// LifecycleService owns the business subscription state machine:
// TRIAL -> ACTIVE / EXPIRED, trial extension and the expiry sweep.
// SUSPENDED is operator-only and never entered automatically.
type LifecycleService struct {
	businesses BusinessStore
	payments   PaymentStore
	clock      clock.Clock
	notifier   ExpiryNotifier
	locks      *keymutex.KeyMutex
}

func NewLifecycleService(businesses BusinessStore, payments PaymentStore, clk clock.Clock, notifier ExpiryNotifier) *LifecycleService {
	return &LifecycleService{
		businesses: businesses,
		payments:   payments,
		clock:      clk,
		notifier:   notifier,
		locks:      keymutex.New(),
	}
}

// CreateDemo registers a new business on a fresh 15-day trial.
func (s *LifecycleService) CreateDemo(ctx context.Context, name, owner, phone string, plan models.PlanType) (*models.Business, error) {
	now := s.clock.Now()
	trialEnd := now.Add(models.TrialDays * 24 * time.Hour)

	b := &models.Business{
		Name:           name,
		OwnerName:      owner,
		Phone:          phone,
		Plan:           plan,
		Status:         models.BusinessStatusTrial,
		JoinedAt:       now,
		TrialEndsAt:    &trialEnd,
		OnboardingStep: 0,
	}
	if err := s.businesses.Create(ctx, b); err != nil {
		return nil, apperrors.InternalError(err)
	}
	logger.CtxInfo(ctx, "business created on trial", "business_id", b.ID, "trial_ends_at", trialEnd)
	return b, nil
}

// ExtendTrial grants 15 more days on top of the later of (current trial end,
// now) and forces the business back to TRIAL. Only legal from TRIAL or from
// an EXPIRED business that expired out of a trial.
func (s *LifecycleService) ExtendTrial(ctx context.Context, businessID string) (*models.Business, error) {
	s.locks.Lock(businessID)
	defer s.locks.Unlock(businessID)

	b, err := s.businesses.GetByID(ctx, businessID)
	if err != nil {
		return nil, apperrors.ErrBusinessNotFound.WithError(err)
	}

	switch b.Status {
	case models.BusinessStatusTrial:
		// always extendable
	case models.BusinessStatusExpired:
		if !b.HadTrial() {
			return nil, apperrors.ErrTrialNotAllowed
		}
	default:
		return nil, apperrors.ErrTrialNotAllowed
	}

	now := s.clock.Now()
	base := now
	if b.TrialEndsAt != nil && b.TrialEndsAt.After(now) {
		base = *b.TrialEndsAt
	}
	newEnd := base.Add(models.TrialDays * 24 * time.Hour)

	b.Status = models.BusinessStatusTrial
	b.TrialEndsAt = &newEnd

	if err := s.businesses.Update(ctx, b); err != nil {
		return nil, apperrors.InternalError(err)
	}
	logger.CtxInfo(ctx, "trial extended", "business_id", b.ID, "trial_ends_at", newEnd)
	return b, nil
}

// PurchaseSubscription converts the business to ACTIVE on the given plan
// for durationMonths, recording the payment. Valid from any status.
func (s *LifecycleService) PurchaseSubscription(ctx context.Context, businessID string, plan models.PlanType, durationMonths int, method models.PaymentMethod, paidAt time.Time) (*models.Business, error) {
	if durationMonths <= 0 {
		return nil, apperrors.ErrInvalidDuration
	}

	s.locks.Lock(businessID)
	defer s.locks.Unlock(businessID)

	b, err := s.businesses.GetByID(ctx, businessID)
	if err != nil {
		return nil, apperrors.ErrBusinessNotFound.WithError(err)
	}

	now := s.clock.Now()
	subEnd := now.AddDate(0, durationMonths, 0)

	b.Status = models.BusinessStatusActive
	b.Plan = plan
	b.Term = models.TermFromMonths(durationMonths)
	b.SubscriptionEndsAt = &subEnd
	b.TrialEndsAt = nil
	b.LastPaymentAt = &paidAt
	b.OnboardingStep = models.OnboardingCompleted

	if err := s.businesses.Update(ctx, b); err != nil {
		return nil, apperrors.InternalError(err)
	}

	amount := models.BasePrices[plan].Mul(decimal.NewFromInt(int64(durationMonths)))
	payment := &models.PaymentTransaction{
		BusinessID: b.ID,
		Plan:       plan,
		Months:     durationMonths,
		Amount:     amount,
		Method:     method,
		PaidAt:     paidAt,
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		// The subscription is already active; a failed payment record is
		// logged and surfaced, not rolled back silently.
		logger.CtxWithError(ctx, "failed to record payment", err, "business_id", b.ID)
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "subscription purchased",
		"business_id", b.ID, "plan", plan, "months", durationMonths, "ends_at", subEnd)
	return b, nil
}

// SweepExpiry expires every TRIAL/ACTIVE business whose governing end date
// is strictly in the past. Returns the number of transitions.
func (s *LifecycleService) SweepExpiry(ctx context.Context) (int, error) {
	candidates, err := s.businesses.GetExpiring(ctx)
	if err != nil {
		return 0, apperrors.InternalError(err)
	}

	now := s.clock.Now()
	expired := 0
	for i := range candidates {
		b := &candidates[i]
		if !expiredAt(b, now) {
			continue
		}

		s.locks.Lock(b.ID)
		// Re-read under the lock; a renewal may have landed meanwhile.
		fresh, err := s.businesses.GetByID(ctx, b.ID)
		if err != nil {
			s.locks.Unlock(b.ID)
			continue
		}
		if expiredAt(fresh, now) {
			fresh.Status = models.BusinessStatusExpired
			if err := s.businesses.Update(ctx, fresh); err == nil {
				expired++
				logger.CtxInfo(ctx, "business expired", "business_id", fresh.ID)
				if s.notifier != nil {
					s.notifier.NotifyExpired(ctx, fresh)
				}
			}
		}
		s.locks.Unlock(b.ID)
	}
	return expired, nil
}

// expiredAt is the pure sweep predicate: running status and end date
// strictly before now. The boundary instant itself is not yet expired.
func expiredAt(b *models.Business, now time.Time) bool {
	if b.Status != models.BusinessStatusTrial && b.Status != models.BusinessStatusActive {
		return false
	}
	ref := b.ExpiryReference()
	return ref != nil && now.After(*ref)
}

// DaysRemaining returns ceil days until endsAt, floored at zero.
func DaysRemaining(endsAt *time.Time, now time.Time) int {
	if endsAt == nil {
		return 0
	}
	diff := endsAt.Sub(now)
	if diff <= 0 {
		return 0
	}
	days := int(diff / (24 * time.Hour))
	if diff%(24*time.Hour) > 0 {
		days++
	}
	return days
}

// BandFor classifies remaining runway for the funnel progress bar.
func BandFor(daysLeft, totalDays int) ProgressBand {
	if totalDays <= 0 {
		return BandRed
	}
	pct := float64(daysLeft) / float64(totalDays) * 100
	switch {
	case pct > 50:
		return BandGreen
	case pct > 20:
		return BandYellow
	default:
		return BandRed
	}
}

// TotalRunwayDays is the full length of the current period: the fixed trial
// length while on trial, the purchased term otherwise.
func TotalRunwayDays(b *models.Business) int {
	if b.Status == models.BusinessStatusTrial || (b.Status == models.BusinessStatusExpired && b.SubscriptionEndsAt == nil) {
		return models.TrialDays
	}
	switch b.Term {
	case models.Term12Months:
		return 365
	case models.Term6Months:
		return 182
	case models.Term3Months:
		return 91
	default:
		return 30
	}
}

// Stats returns the funnel counters for the admin dashboard.
func (s *LifecycleService) Stats(ctx context.Context) (map[models.BusinessStatus]int64, error) {
	counts, err := s.businesses.CountByStatus(ctx)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return counts, nil
}

func (s *LifecycleService) GetBusiness(ctx context.Context, id string) (*models.Business, error) {
	b, err := s.businesses.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.ErrBusinessNotFound.WithError(err)
	}
	return b, nil
}

func (s *LifecycleService) ListBusinesses(ctx context.Context, status *models.BusinessStatus) ([]models.Business, error) {
	out, err := s.businesses.GetAll(ctx, status)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return out, nil
}
