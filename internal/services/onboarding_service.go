package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"cuponera_backend/internal/clock"
	"cuponera_backend/internal/models"
	"cuponera_backend/pkg/apperrors"
)

// OnboardingStepStore is implemented by repositories.OnboardingStepRepository.
type OnboardingStepStore interface {
	Create(ctx context.Context, step *models.OnboardingStep) error
	GetByID(ctx context.Context, id string) (*models.OnboardingStep, error)
	Update(ctx context.Context, step *models.OnboardingStep) error
	Delete(ctx context.Context, id string) error
	GetAll(ctx context.Context) ([]models.OnboardingStep, error)
}

type StepState string

const (
	StepPast     StepState = "PAST"
	StepToday    StepState = "TODAY"
	StepUpcoming StepState = "UPCOMING"
)

// ResolvedStep is a template step made concrete against one business.
type ResolvedStep struct {
	Step  models.OnboardingStep
	DueAt time.Time
	State StepState
}

// OnboardingService owns the trial message sequence: template CRUD and
// resolution of due times against a business's registration instant.
// Editing the template never touches stored businesses; only future
// resolutions change.
type OnboardingService struct {
	steps OnboardingStepStore
	clock clock.Clock
}

func NewOnboardingService(steps OnboardingStepStore, clk clock.Clock) *OnboardingService {
	return &OnboardingService{steps: steps, clock: clk}
}

// Sequence returns the template in canonical order: registration steps by
// delay, then scheduled steps by (day, time), ids breaking ties.
func (s *OnboardingService) Sequence(ctx context.Context) ([]models.OnboardingStep, error) {
	all, err := s.steps.GetAll(ctx)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	sortSequence(all)
	return all, nil
}

func sortSequence(steps []models.OnboardingStep) {
	sort.SliceStable(steps, func(i, j int) bool {
		return steps[i].Less(&steps[j])
	})
}

// CreateStep validates and stores a new template step.
func (s *OnboardingService) CreateStep(ctx context.Context, step *models.OnboardingStep) (*models.OnboardingStep, error) {
	if err := validateStep(step); err != nil {
		return nil, err
	}
	if err := s.steps.Create(ctx, step); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return step, nil
}

func (s *OnboardingService) UpdateStep(ctx context.Context, step *models.OnboardingStep) (*models.OnboardingStep, error) {
	if err := validateStep(step); err != nil {
		return nil, err
	}
	if _, err := s.steps.GetByID(ctx, step.ID); err != nil {
		return nil, apperrors.ErrStepNotFound.WithError(err)
	}
	if err := s.steps.Update(ctx, step); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return step, nil
}

func (s *OnboardingService) DeleteStep(ctx context.Context, id string) error {
	if _, err := s.steps.GetByID(ctx, id); err != nil {
		return apperrors.ErrStepNotFound.WithError(err)
	}
	if err := s.steps.Delete(ctx, id); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

// validateStep enforces trigger shape at edit time. A scheduled step with
// dayOffset < 1 is rejected, not clamped.
func validateStep(step *models.OnboardingStep) error {
	switch step.Trigger {
	case models.TriggerRegistration:
		if step.DelayMinutes < 0 {
			return apperrors.NewBadRequestError("delay_minutes must be >= 0")
		}
	case models.TriggerScheduled:
		if step.DayOffset < 1 {
			return apperrors.NewBadRequestError("day_offset must be >= 1")
		}
		if _, _, err := parseTimeOfDay(step.TimeOfDay); err != nil {
			return apperrors.NewBadRequestError("time_of_day must be in HH:MM format")
		}
	default:
		return apperrors.NewBadRequestError("trigger must be 'registration' or 'scheduled'")
	}
	return nil
}

// Resolve computes the concrete due time of a step for a business that
// joined at joinedAt.
//
// Registration triggers fire delayMinutes after the join instant, calendar
// boundaries notwithstanding. Scheduled triggers fire on the dayOffset-th
// day after the join date at timeOfDay, regardless of the join time of day.
func Resolve(step *models.OnboardingStep, joinedAt time.Time) time.Time {
	if step.Trigger == models.TriggerRegistration {
		return joinedAt.Add(time.Duration(step.DelayMinutes) * time.Minute)
	}

	hh, mm, err := parseTimeOfDay(step.TimeOfDay)
	if err != nil {
		// Invalid times cannot be stored (edit-time validation); default
		// to 09:00 for anything that predates the rule.
		hh, mm = 9, 0
	}
	base := joinedAt.AddDate(0, 0, step.DayOffset)
	return time.Date(base.Year(), base.Month(), base.Day(), hh, mm, 0, 0, joinedAt.Location())
}

func parseTimeOfDay(v string) (int, int, error) {
	var hh, mm int
	if _, err := fmt.Sscanf(v, "%d:%d", &hh, &mm); err != nil {
		return 0, 0, err
	}
	if hh < 0 || hh > 23 || mm < 0 || mm > 59 {
		return 0, 0, fmt.Errorf("time of day out of range: %s", v)
	}
	return hh, mm, nil
}

// StateAt classifies a due time against now: PAST once due has arrived,
// TODAY for a pending step due later the same calendar day, UPCOMING
// otherwise.
func StateAt(dueAt, now time.Time) StepState {
	if !dueAt.After(now) {
		return StepPast
	}
	dy, dm, dd := dueAt.Date()
	ny, nm, nd := now.Date()
	if dy == ny && dm == nm && dd == nd {
		return StepToday
	}
	return StepUpcoming
}

// Timeline resolves the full sequence for one business.
func (s *OnboardingService) Timeline(ctx context.Context, b *models.Business) ([]ResolvedStep, error) {
	seq, err := s.Sequence(ctx)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	out := make([]ResolvedStep, 0, len(seq))
	for i := range seq {
		due := Resolve(&seq[i], b.JoinedAt)
		out = append(out, ResolvedStep{
			Step:  seq[i],
			DueAt: due,
			State: StateAt(due, now),
		})
	}
	return out, nil
}

// CurrentStepIndex is the count of steps already past for the business:
// the funnel position surfaced in the admin UI. Recomputed on demand,
// never persisted apart from joinedAt and the template version.
func (s *OnboardingService) CurrentStepIndex(ctx context.Context, b *models.Business) (int, error) {
	if b.OnboardingStep == models.OnboardingCompleted {
		return models.OnboardingCompleted, nil
	}

	timeline, err := s.Timeline(ctx, b)
	if err != nil {
		return 0, err
	}
	past := 0
	for _, rs := range timeline {
		if rs.State == StepPast {
			past++
		}
	}
	return past, nil
}
