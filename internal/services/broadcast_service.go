package services

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"cuponera_backend/internal/clock"
	"cuponera_backend/internal/dispatch"
	"cuponera_backend/internal/logger"
	"cuponera_backend/internal/models"
	"cuponera_backend/pkg/apperrors"

	"gorm.io/datatypes"
)

// BroadcastStore is implemented by repositories.BroadcastRepository.
type BroadcastStore interface {
	Create(ctx context.Context, b *models.Broadcast) error
	GetByID(ctx context.Context, id string) (*models.Broadcast, error)
	Update(ctx context.Context, b *models.Broadcast) error
	History(ctx context.Context, businessID string) ([]models.Broadcast, error)
	GetPendingScheduled(ctx context.Context) ([]models.Broadcast, error)
}

// Broadcast scopes, in precedence order when a request names several.
const (
	ScopeExplicit  = "explicit"  // hand-picked client ids, throttle bypassed
	ScopeSegment   = "segment"   // one audience segment, throttled
	ScopeBroadcast = "broadcast" // whole client base, throttled
)

// SendRequest describes one campaign send, immediate or scheduled.
type SendRequest struct {
	BusinessID     string
	Message        string
	AttachmentType models.ContentType
	AttachmentPath string
	ClientIDs      []string
	Segment        models.AudienceSegment
	ScheduledFor   *time.Time
	SourceLabel    string
}

// Plan is the resolved audience before anything is sent.
type Plan struct {
	Scope      string
	Segment    models.AudienceSegment
	Audience   []models.Client
	Suppressed int // clients removed by the contact throttle
}

// BroadcastService resolves audiences, enforces the contact throttle and
// pushes messages through the configured dispatcher. Scheduled sends live
// as in-process timers keyed by broadcast id; segment audiences are
// resolved again at fire time, hand-picked lists are stored on the record.
type BroadcastService struct {
	broadcasts BroadcastStore
	clients    ClientStore
	segments   *SegmentService
	throttle   *ThrottleService
	dispatcher dispatch.Dispatcher
	clock      clock.Clock

	mu     sync.Mutex
	timers map[string]*time.Timer
}

func NewBroadcastService(
	broadcasts BroadcastStore,
	clients ClientStore,
	segments *SegmentService,
	throttle *ThrottleService,
	dispatcher dispatch.Dispatcher,
	clk clock.Clock,
) *BroadcastService {
	return &BroadcastService{
		broadcasts: broadcasts,
		clients:    clients,
		segments:   segments,
		throttle:   throttle,
		dispatcher: dispatcher,
		clock:      clk,
		timers:     make(map[string]*time.Timer),
	}
}

// resolveScope picks the effective scope: explicit ids win over a segment,
// a segment wins over the full base.
func resolveScope(req *SendRequest) (string, models.AudienceSegment) {
	if len(req.ClientIDs) > 0 {
		return ScopeExplicit, ""
	}
	if req.Segment != "" && req.Segment != models.SegmentAll {
		return ScopeSegment, req.Segment
	}
	return ScopeBroadcast, models.SegmentAll
}

// PlanSend resolves the audience a request would reach right now. Explicit
// recipients skip the throttle; segment and full-base audiences are
// filtered through it.
func (s *BroadcastService) PlanSend(ctx context.Context, req *SendRequest) (*Plan, error) {
	scope, segment := resolveScope(req)

	var audience []models.Client
	var err error
	switch scope {
	case ScopeExplicit:
		audience, err = s.clients.GetByIDs(ctx, req.BusinessID, req.ClientIDs)
	default:
		audience, err = s.segments.Filter(ctx, req.BusinessID, segment)
	}
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	plan := &Plan{Scope: scope, Segment: segment, Audience: audience}
	if scope != ScopeExplicit {
		eligible := s.throttle.FilterEligible(ctx, audience)
		plan.Suppressed = len(audience) - len(eligible)
		plan.Audience = eligible
	}
	return plan, nil
}

// Send validates, plans and dispatches in one step, or arms a timer when
// ScheduledFor is set. An audience that is empty after throttling aborts
// the whole send; nothing partial ever goes out.
func (s *BroadcastService) Send(ctx context.Context, req *SendRequest) (*models.Broadcast, error) {
	if req.Message == "" && req.AttachmentPath == "" {
		return nil, apperrors.ErrEmptyMessage
	}
	if req.ScheduledFor != nil {
		return s.schedule(ctx, req)
	}

	plan, err := s.PlanSend(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(plan.Audience) == 0 {
		return nil, apperrors.ErrEmptyAudience
	}

	b := broadcastFromRequest(req, plan)
	if err := s.broadcasts.Create(ctx, b); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return s.deliver(ctx, b, plan.Audience)
}

// schedule persists the broadcast and arms its timer. The stored record is
// the source of truth; the timer is rebuilt from it after a restart.
func (s *BroadcastService) schedule(ctx context.Context, req *SendRequest) (*models.Broadcast, error) {
	if !req.ScheduledFor.After(s.clock.Now()) {
		return nil, apperrors.ErrScheduleInPast
	}

	// Validate the request resolves at all; the real audience is computed
	// again when the timer fires.
	if _, err := s.PlanSend(ctx, req); err != nil {
		return nil, err
	}

	b := broadcastFromRequest(req, nil)
	b.Status = models.BroadcastStatusScheduled
	b.ScheduledFor = req.ScheduledFor
	if len(req.ClientIDs) > 0 {
		// Hand-picked recipients are persisted with the record so the same
		// list is used at fire time.
		ids, merr := json.Marshal(req.ClientIDs)
		if merr != nil {
			return nil, apperrors.InternalError(merr)
		}
		b.ExplicitIDs = datatypes.JSON(ids)
	}
	if err := s.broadcasts.Create(ctx, b); err != nil {
		return nil, apperrors.InternalError(err)
	}
	s.armTimer(b.ID, *req.ScheduledFor)
	logger.CtxInfo(ctx, "broadcast scheduled",
		"broadcast_id", b.ID, "business_id", b.BusinessID, "fire_at", req.ScheduledFor)
	return b, nil
}

func broadcastFromRequest(req *SendRequest, plan *Plan) *models.Broadcast {
	b := &models.Broadcast{
		BusinessID:     req.BusinessID,
		Message:        req.Message,
		AttachmentType: req.AttachmentType,
		AttachmentPath: req.AttachmentPath,
		SourceLabel:    req.SourceLabel,
	}
	if plan != nil {
		b.Scope = plan.Scope
		b.Segment = plan.Segment
		b.Recipients = len(plan.Audience)
	} else {
		b.Scope, b.Segment = resolveScope(req)
	}
	return b
}

// deliver pushes to the dispatcher and records the outcome. Throttle
// bookkeeping covers confirmed recipients only: a failed recipient stays
// eligible for the next send.
func (s *BroadcastService) deliver(ctx context.Context, b *models.Broadcast, audience []models.Client) (*models.Broadcast, error) {
	messages := make([]dispatch.Message, 0, len(audience))
	for _, c := range audience {
		messages = append(messages, dispatch.Message{
			RecipientID:    c.ID,
			Phone:          c.Phone,
			Body:           b.Message,
			AttachmentType: b.AttachmentType,
			AttachmentURL:  b.AttachmentPath,
		})
	}

	result, err := s.dispatcher.Dispatch(ctx, messages)
	if err != nil {
		b.Status = models.BroadcastStatusPartial
		b.FailedCount = len(audience)
		if uerr := s.broadcasts.Update(ctx, b); uerr != nil {
			logger.CtxWithError(ctx, "failed to persist broadcast failure", uerr, "broadcast_id", b.ID)
		}
		return b, apperrors.ErrDispatch(err, recipientIDs(audience))
	}

	for _, id := range result.Sent {
		if rerr := s.throttle.RecordContact(ctx, id, b.ID); rerr != nil {
			logger.CtxWithError(ctx, "failed to record contact", rerr,
				"recipient_id", id, "broadcast_id", b.ID)
		}
	}

	now := s.clock.Now()
	b.SentAt = &now
	b.Recipients = len(audience)
	b.FailedCount = len(result.Failed)
	if len(result.Failed) > 0 {
		b.Status = models.BroadcastStatusPartial
		if details, merr := json.Marshal(result.Failed); merr == nil {
			b.FailureDetails = datatypes.JSON(details)
		}
	} else {
		b.Status = models.BroadcastStatusSent
	}
	if err := s.broadcasts.Update(ctx, b); err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "broadcast delivered",
		"broadcast_id", b.ID, "channel", s.dispatcher.Name(),
		"sent", len(result.Sent), "failed", len(result.Failed))
	return b, nil
}

func recipientIDs(clients []models.Client) []string {
	ids := make([]string, 0, len(clients))
	for _, c := range clients {
		ids = append(ids, c.ID)
	}
	return ids
}

// Cancel stops a scheduled broadcast before it fires.
func (s *BroadcastService) Cancel(ctx context.Context, broadcastID string) error {
	b, err := s.broadcasts.GetByID(ctx, broadcastID)
	if err != nil {
		return apperrors.ErrBroadcastNotFound.WithError(err)
	}
	if b.Status != models.BroadcastStatusScheduled {
		return apperrors.ErrConflict("broadcast", "only scheduled broadcasts can be cancelled")
	}

	s.disarmTimer(broadcastID)
	b.Status = models.BroadcastStatusCancelled
	if err := s.broadcasts.Update(ctx, b); err != nil {
		return apperrors.InternalError(err)
	}
	logger.CtxInfo(ctx, "broadcast cancelled", "broadcast_id", broadcastID)
	return nil
}

// History lists the business's broadcasts, newest first.
func (s *BroadcastService) History(ctx context.Context, businessID string) ([]models.Broadcast, error) {
	items, err := s.broadcasts.History(ctx, businessID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return items, nil
}

// RearmScheduled rebuilds timers for pending scheduled broadcasts, for use
// at startup. Broadcasts whose fire time passed while the process was down
// fire immediately.
func (s *BroadcastService) RearmScheduled(ctx context.Context) error {
	pending, err := s.broadcasts.GetPendingScheduled(ctx)
	if err != nil {
		return apperrors.InternalError(err)
	}
	for _, b := range pending {
		if b.ScheduledFor == nil {
			continue
		}
		s.armTimer(b.ID, *b.ScheduledFor)
	}
	logger.Info("scheduled broadcasts re-armed", "count", len(pending))
	return nil
}

func (s *BroadcastService) armTimer(broadcastID string, fireAt time.Time) {
	delay := fireAt.Sub(s.clock.Now())
	if delay < 0 {
		delay = 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.timers[broadcastID]; ok {
		t.Stop()
	}
	s.timers[broadcastID] = time.AfterFunc(delay, func() {
		s.fire(broadcastID)
	})
}

func (s *BroadcastService) disarmTimer(broadcastID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.timers[broadcastID]; ok {
		t.Stop()
		delete(s.timers, broadcastID)
	}
}

// fire executes a scheduled broadcast when its timer goes off. The audience
// is resolved fresh; an audience that emptied out since scheduling cancels
// the broadcast instead of erroring into the void.
func (s *BroadcastService) fire(broadcastID string) {
	ctx := context.Background()

	s.mu.Lock()
	delete(s.timers, broadcastID)
	s.mu.Unlock()

	b, err := s.broadcasts.GetByID(ctx, broadcastID)
	if err != nil {
		logger.WithError("scheduled broadcast vanished before firing", err, "broadcast_id", broadcastID)
		return
	}
	if b.Status != models.BroadcastStatusScheduled {
		return
	}

	req := &SendRequest{
		BusinessID: b.BusinessID,
		Message:    b.Message,
		Segment:    b.Segment,
	}
	if len(b.ExplicitIDs) > 0 {
		if uerr := json.Unmarshal(b.ExplicitIDs, &req.ClientIDs); uerr != nil {
			logger.WithError("scheduled broadcast has unreadable recipient list", uerr, "broadcast_id", broadcastID)
			return
		}
	}
	plan, err := s.PlanSend(ctx, req)
	if err != nil {
		logger.WithError("scheduled broadcast audience resolution failed", err, "broadcast_id", broadcastID)
		return
	}
	if len(plan.Audience) == 0 {
		b.Status = models.BroadcastStatusCancelled
		if uerr := s.broadcasts.Update(ctx, b); uerr != nil {
			logger.WithError("failed to cancel empty scheduled broadcast", uerr, "broadcast_id", broadcastID)
		}
		logger.Info("scheduled broadcast skipped, audience empty", "broadcast_id", broadcastID)
		return
	}

	if _, err := s.deliver(ctx, b, plan.Audience); err != nil {
		logger.WithError("scheduled broadcast delivery failed", err, "broadcast_id", broadcastID)
	}
}

// Shutdown stops all armed timers without touching stored state; the
// records stay scheduled and are re-armed on the next start.
func (s *BroadcastService) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
}
