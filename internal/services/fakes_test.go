package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"cuponera_backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// fakeClock is a settable clock for deterministic tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// ---------------------------------------------------------------------------

type fakeBusinessStore struct {
	mu    sync.Mutex
	items map[string]*models.Business
}

func newFakeBusinessStore() *fakeBusinessStore {
	return &fakeBusinessStore{items: make(map[string]*models.Business)}
}

func (s *fakeBusinessStore) Create(ctx context.Context, b *models.Business) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	cp := *b
	s.items[b.ID] = &cp
	return nil
}

func (s *fakeBusinessStore) GetByID(ctx context.Context, id string) (*models.Business, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *b
	return &cp, nil
}

func (s *fakeBusinessStore) Update(ctx context.Context, b *models.Business) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[b.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *b
	s.items[b.ID] = &cp
	return nil
}

func (s *fakeBusinessStore) GetAll(ctx context.Context, status *models.BusinessStatus) ([]models.Business, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Business, 0, len(s.items))
	for _, b := range s.items {
		if status != nil && b.Status != *status {
			continue
		}
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *fakeBusinessStore) GetExpiring(ctx context.Context) ([]models.Business, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Business, 0)
	for _, b := range s.items {
		if b.Status == models.BusinessStatusTrial || b.Status == models.BusinessStatusActive {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *fakeBusinessStore) CountByStatus(ctx context.Context) (map[models.BusinessStatus]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[models.BusinessStatus]int64)
	for _, b := range s.items {
		out[b.Status]++
	}
	return out, nil
}

// ---------------------------------------------------------------------------

type fakePaymentStore struct {
	mu       sync.Mutex
	payments []models.PaymentTransaction
}

func (s *fakePaymentStore) Create(ctx context.Context, p *models.PaymentTransaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	s.payments = append(s.payments, *p)
	return nil
}

func (s *fakePaymentStore) GetByBusiness(ctx context.Context, businessID string) ([]models.PaymentTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.PaymentTransaction, 0)
	for _, p := range s.payments {
		if p.BusinessID == businessID {
			out = append(out, p)
		}
	}
	return out, nil
}

// ---------------------------------------------------------------------------

type fakeStepStore struct {
	mu    sync.Mutex
	items map[string]*models.OnboardingStep
}

func newFakeStepStore() *fakeStepStore {
	return &fakeStepStore{items: make(map[string]*models.OnboardingStep)}
}

func (s *fakeStepStore) Create(ctx context.Context, step *models.OnboardingStep) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if step.ID == "" {
		step.ID = uuid.NewString()
	}
	cp := *step
	s.items[step.ID] = &cp
	return nil
}

func (s *fakeStepStore) GetByID(ctx context.Context, id string) (*models.OnboardingStep, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	step, ok := s.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *step
	return &cp, nil
}

func (s *fakeStepStore) Update(ctx context.Context, step *models.OnboardingStep) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[step.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *step
	s.items[step.ID] = &cp
	return nil
}

func (s *fakeStepStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
	return nil
}

func (s *fakeStepStore) GetAll(ctx context.Context) ([]models.OnboardingStep, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.OnboardingStep, 0, len(s.items))
	for _, step := range s.items {
		out = append(out, *step)
	}
	return out, nil
}

// ---------------------------------------------------------------------------

type fakeWalletStore struct {
	mu    sync.Mutex
	items map[string]*models.ClientWalletItem
}

func newFakeWalletStore() *fakeWalletStore {
	return &fakeWalletStore{items: make(map[string]*models.ClientWalletItem)}
}

func (s *fakeWalletStore) Create(ctx context.Context, item *models.ClientWalletItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	cp := *item
	s.items[item.ID] = &cp
	return nil
}

func (s *fakeWalletStore) GetByID(ctx context.Context, id string) (*models.ClientWalletItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *item
	return &cp, nil
}

func (s *fakeWalletStore) Update(ctx context.Context, item *models.ClientWalletItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[item.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *item
	s.items[item.ID] = &cp
	return nil
}

func (s *fakeWalletStore) FindActive(ctx context.Context, clientID, campaignID string) (*models.ClientWalletItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.items {
		if item.ClientID == clientID && item.CampaignID == campaignID && item.Status == models.WalletStatusActive {
			cp := *item
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *fakeWalletStore) GetByClient(ctx context.Context, clientID string) ([]models.ClientWalletItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ClientWalletItem, 0)
	for _, item := range s.items {
		if item.ClientID == clientID {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (s *fakeWalletStore) GetByCampaign(ctx context.Context, campaignID string) ([]models.ClientWalletItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ClientWalletItem, 0)
	for _, item := range s.items {
		if item.CampaignID == campaignID {
			out = append(out, *item)
		}
	}
	return out, nil
}

// ---------------------------------------------------------------------------

type fakeCampaignStore struct {
	mu    sync.Mutex
	items map[string]*models.Campaign
}

func newFakeCampaignStore() *fakeCampaignStore {
	return &fakeCampaignStore{items: make(map[string]*models.Campaign)}
}

func (s *fakeCampaignStore) Create(ctx context.Context, c *models.Campaign) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	cp := *c
	s.items[c.ID] = &cp
	return nil
}

func (s *fakeCampaignStore) GetByID(ctx context.Context, id string) (*models.Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *fakeCampaignStore) GetByBusiness(ctx context.Context, businessID string) ([]models.Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Campaign, 0)
	for _, c := range s.items {
		if c.BusinessID == businessID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *fakeCampaignStore) UpdateMeta(ctx context.Context, id, title, subtitle, color string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.items[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.Title, c.Subtitle, c.Color = title, subtitle, color
	return nil
}

// ---------------------------------------------------------------------------

type fakeClientStore struct {
	mu    sync.Mutex
	now   func() time.Time
	items map[string]*models.Client
}

func newFakeClientStore(now func() time.Time) *fakeClientStore {
	return &fakeClientStore{now: now, items: make(map[string]*models.Client)}
}

func (s *fakeClientStore) Create(ctx context.Context, c *models.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	cp := *c
	s.items[c.ID] = &cp
	return nil
}

func (s *fakeClientStore) GetByID(ctx context.Context, id string) (*models.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *fakeClientStore) FindByPhone(ctx context.Context, businessID, phone string) (*models.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.items {
		if c.BusinessID == businessID && c.Phone == phone {
			cp := *c
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *fakeClientStore) GetByBusiness(ctx context.Context, businessID string) ([]models.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Client, 0)
	for _, c := range s.items {
		if c.BusinessID == businessID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *fakeClientStore) GetByIDs(ctx context.Context, businessID string, ids []string) ([]models.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Client, 0, len(ids))
	for _, id := range ids {
		if c, ok := s.items[id]; ok && c.BusinessID == businessID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (s *fakeClientStore) RecordVisit(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.items[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.Visits++
	c.LastVisitAt = s.now()
	return nil
}

// ---------------------------------------------------------------------------

type fakeContactStore struct {
	mu       sync.Mutex
	last     map[string]time.Time
	attempts map[string]string
}

func newFakeContactStore() *fakeContactStore {
	return &fakeContactStore{last: make(map[string]time.Time), attempts: make(map[string]string)}
}

func (s *fakeContactStore) LastContactedAt(ctx context.Context, recipientID string) (time.Time, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.last[recipientID]
	return t, ok, nil
}

func (s *fakeContactStore) RecordContact(ctx context.Context, recipientID, attemptID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.attempts[recipientID] == attemptID {
		return nil
	}
	s.last[recipientID] = at
	s.attempts[recipientID] = attemptID
	return nil
}

// ---------------------------------------------------------------------------

type fakeBroadcastStore struct {
	mu    sync.Mutex
	items map[string]*models.Broadcast
}

func newFakeBroadcastStore() *fakeBroadcastStore {
	return &fakeBroadcastStore{items: make(map[string]*models.Broadcast)}
}

func (s *fakeBroadcastStore) Create(ctx context.Context, b *models.Broadcast) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	cp := *b
	s.items[b.ID] = &cp
	return nil
}

func (s *fakeBroadcastStore) GetByID(ctx context.Context, id string) (*models.Broadcast, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *b
	return &cp, nil
}

func (s *fakeBroadcastStore) Update(ctx context.Context, b *models.Broadcast) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[b.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *b
	s.items[b.ID] = &cp
	return nil
}

func (s *fakeBroadcastStore) History(ctx context.Context, businessID string) ([]models.Broadcast, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Broadcast, 0)
	for _, b := range s.items {
		if b.BusinessID == businessID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (s *fakeBroadcastStore) GetPendingScheduled(ctx context.Context) ([]models.Broadcast, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Broadcast, 0)
	for _, b := range s.items {
		if b.Status == models.BroadcastStatusScheduled {
			out = append(out, *b)
		}
	}
	return out, nil
}

// ---------------------------------------------------------------------------

type recordingNotifier struct {
	mu       sync.Mutex
	notified []string
}

func (n *recordingNotifier) NotifyExpired(ctx context.Context, b *models.Business) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notified = append(n.notified, b.ID)
}
