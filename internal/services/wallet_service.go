package services

import (
	"context"

	"cuponera_backend/internal/clock"
	"cuponera_backend/internal/logger"
	"cuponera_backend/internal/models"
	"cuponera_backend/pkg/apperrors"
	"cuponera_backend/pkg/keymutex"

	"gorm.io/gorm"
)

// WalletStore is implemented by repositories.WalletRepository.
type WalletStore interface {
	Create(ctx context.Context, item *models.ClientWalletItem) error
	GetByID(ctx context.Context, id string) (*models.ClientWalletItem, error)
	Update(ctx context.Context, item *models.ClientWalletItem) error
	FindActive(ctx context.Context, clientID, campaignID string) (*models.ClientWalletItem, error)
	GetByClient(ctx context.Context, clientID string) ([]models.ClientWalletItem, error)
	GetByCampaign(ctx context.Context, campaignID string) ([]models.ClientWalletItem, error)
}

// CampaignStore is implemented by repositories.CampaignRepository.
type CampaignStore interface {
	Create(ctx context.Context, c *models.Campaign) error
	GetByID(ctx context.Context, id string) (*models.Campaign, error)
	GetByBusiness(ctx context.Context, businessID string) ([]models.Campaign, error)
	UpdateMeta(ctx context.Context, id, title, subtitle, color string) error
}

// ClientStore is implemented by repositories.ClientRepository.
type ClientStore interface {
	Create(ctx context.Context, c *models.Client) error
	GetByID(ctx context.Context, id string) (*models.Client, error)
	FindByPhone(ctx context.Context, businessID, phone string) (*models.Client, error)
	GetByBusiness(ctx context.Context, businessID string) ([]models.Client, error)
	GetByIDs(ctx context.Context, businessID string, ids []string) ([]models.Client, error)
	RecordVisit(ctx context.Context, id string) error
}

// WalletService runs the per-client loyalty state machine:
// activate -> stamp* -> (complete) -> redeem. Coupons are the degenerate
// case target=1 where validate collapses activate+redeem.
type WalletService struct {
	wallets   WalletStore
	campaigns CampaignStore
	clients   ClientStore
	clock     clock.Clock
	locks     *keymutex.KeyMutex
}

func NewWalletService(wallets WalletStore, campaigns CampaignStore, clients ClientStore, clk clock.Clock) *WalletService {
	return &WalletService{
		wallets:   wallets,
		campaigns: campaigns,
		clients:   clients,
		clock:     clk,
		locks:     keymutex.New(),
	}
}

// Activate creates a fresh card for (client, campaign). The activating
// visit counts: stamps start at 1. Fails with AlreadyActive when an ACTIVE
// instance exists; a REDEEMED one does not block a new activation.
func (s *WalletService) Activate(ctx context.Context, clientID, campaignID string) (*models.ClientWalletItem, error) {
	campaign, err := s.campaigns.GetByID(ctx, campaignID)
	if err != nil {
		return nil, apperrors.ErrCampaignNotFound.WithError(err)
	}
	if _, err := s.clients.GetByID(ctx, clientID); err != nil {
		return nil, apperrors.ErrClientNotFound.WithError(err)
	}

	lockKey := clientID + ":" + campaignID
	s.locks.Lock(lockKey)
	defer s.locks.Unlock(lockKey)

	if _, err := s.wallets.FindActive(ctx, clientID, campaignID); err == nil {
		return nil, apperrors.ErrAlreadyActive
	} else if err != gorm.ErrRecordNotFound {
		return nil, apperrors.InternalError(err)
	}

	item := &models.ClientWalletItem{
		ClientID:   clientID,
		CampaignID: campaignID,
		Stamps:     1,
		Status:     models.WalletStatusActive,
	}
	if err := s.wallets.Create(ctx, item); err != nil {
		return nil, apperrors.InternalError(err)
	}
	if err := s.clients.RecordVisit(ctx, clientID); err != nil {
		logger.CtxWithError(ctx, "failed to record visit on activation", err, "client_id", clientID)
	}

	logger.CtxInfo(ctx, "wallet item activated",
		"client_id", clientID, "campaign_id", campaign.ID, "type", campaign.Type)
	return item, nil
}

// AddStamp advances an ACTIVE card by one. At or past the campaign target
// the call is a silent no-op: the card stays complete and waiting for
// redemption.
func (s *WalletService) AddStamp(ctx context.Context, itemID string) (*models.ClientWalletItem, error) {
	s.locks.Lock(itemID)
	defer s.locks.Unlock(itemID)

	item, err := s.wallets.GetByID(ctx, itemID)
	if err != nil {
		return nil, apperrors.ErrWalletNotFound.WithError(err)
	}
	if item.Status != models.WalletStatusActive {
		return nil, apperrors.ErrNotActive
	}

	campaign, err := s.campaigns.GetByID(ctx, item.CampaignID)
	if err != nil {
		return nil, apperrors.ErrCampaignNotFound.WithError(err)
	}

	if item.Complete(campaign.Target) {
		// Target reached: extra taps at the register are harmless.
		return item, nil
	}

	item.Stamps++
	if err := s.wallets.Update(ctx, item); err != nil {
		return nil, apperrors.InternalError(err)
	}
	if err := s.clients.RecordVisit(ctx, item.ClientID); err != nil {
		logger.CtxWithError(ctx, "failed to record visit on stamp", err, "client_id", item.ClientID)
	}
	return item, nil
}

// Redeem closes a complete card. One-way: stamps freeze, a second redeem
// returns AlreadyRedeemed, and a new activation is needed to start over.
func (s *WalletService) Redeem(ctx context.Context, itemID string) (*models.ClientWalletItem, error) {
	s.locks.Lock(itemID)
	defer s.locks.Unlock(itemID)

	item, err := s.wallets.GetByID(ctx, itemID)
	if err != nil {
		return nil, apperrors.ErrWalletNotFound.WithError(err)
	}
	if item.Status == models.WalletStatusRedeemed {
		return nil, apperrors.ErrAlreadyRedeemed
	}

	campaign, err := s.campaigns.GetByID(ctx, item.CampaignID)
	if err != nil {
		return nil, apperrors.ErrCampaignNotFound.WithError(err)
	}
	if !item.Complete(campaign.Target) {
		return nil, apperrors.ErrNotComplete
	}

	now := s.clock.Now()
	item.Status = models.WalletStatusRedeemed
	item.RedeemedAt = &now

	if err := s.wallets.Update(ctx, item); err != nil {
		return nil, apperrors.InternalError(err)
	}
	logger.CtxInfo(ctx, "wallet item redeemed",
		"item_id", item.ID, "client_id", item.ClientID, "campaign_id", item.CampaignID)
	return item, nil
}

// ValidateCoupon is the coupon shortcut: activate and immediately redeem.
func (s *WalletService) ValidateCoupon(ctx context.Context, clientID, campaignID string) (*models.ClientWalletItem, error) {
	campaign, err := s.campaigns.GetByID(ctx, campaignID)
	if err != nil {
		return nil, apperrors.ErrCampaignNotFound.WithError(err)
	}
	if campaign.Type != models.CampaignCoupon {
		return nil, apperrors.ErrConflict("wallet", "campaign is not a coupon")
	}
	if campaign.Limit > 0 {
		redeemed, err := s.redeemedCount(ctx, campaignID)
		if err != nil {
			return nil, err
		}
		if redeemed >= campaign.Limit {
			return nil, apperrors.ErrCouponExhausted
		}
	}

	item, err := s.Activate(ctx, clientID, campaignID)
	if err != nil {
		return nil, err
	}
	return s.Redeem(ctx, item.ID)
}

func (s *WalletService) redeemedCount(ctx context.Context, campaignID string) (int, error) {
	items, err := s.wallets.GetByCampaign(ctx, campaignID)
	if err != nil {
		return 0, apperrors.InternalError(err)
	}
	n := 0
	for _, item := range items {
		if item.Status == models.WalletStatusRedeemed {
			n++
		}
	}
	return n, nil
}

// ParticipantSegment classifies a wallet item within its campaign.
type ParticipantSegment string

const (
	// ParticipantWinner has hit the stamp target but not yet claimed the
	// reward. Winners are the natural audience for a "come pick it up" send.
	ParticipantWinner ParticipantSegment = "WINNER"
	// ParticipantInProgress is still collecting stamps.
	ParticipantInProgress ParticipantSegment = "IN_PROGRESS"
	// ParticipantRedeemed already claimed the reward.
	ParticipantRedeemed ParticipantSegment = "REDEEMED_HISTORY"
)

// ClassifyParticipant places one wallet item into exactly one of the three
// participant segments. Redemption wins over completeness: a redeemed card
// is history even though its stamps still meet the target.
func ClassifyParticipant(item *models.ClientWalletItem, target int) ParticipantSegment {
	if item.Status == models.WalletStatusRedeemed {
		return ParticipantRedeemed
	}
	if item.Complete(target) {
		return ParticipantWinner
	}
	return ParticipantInProgress
}

// CampaignParticipants buckets every card of a campaign into the three
// participant segments. Segments are disjoint and cover all cards.
func (s *WalletService) CampaignParticipants(ctx context.Context, campaignID string) (map[ParticipantSegment][]models.ClientWalletItem, error) {
	campaign, err := s.campaigns.GetByID(ctx, campaignID)
	if err != nil {
		return nil, apperrors.ErrCampaignNotFound.WithError(err)
	}
	items, err := s.wallets.GetByCampaign(ctx, campaignID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	buckets := map[ParticipantSegment][]models.ClientWalletItem{
		ParticipantWinner:     {},
		ParticipantInProgress: {},
		ParticipantRedeemed:   {},
	}
	for _, item := range items {
		seg := ClassifyParticipant(&item, campaign.Target)
		buckets[seg] = append(buckets[seg], item)
	}
	return buckets, nil
}

func (s *WalletService) Wallet(ctx context.Context, clientID string) ([]models.ClientWalletItem, error) {
	if _, err := s.clients.GetByID(ctx, clientID); err != nil {
		return nil, apperrors.ErrClientNotFound.WithError(err)
	}
	items, err := s.wallets.GetByClient(ctx, clientID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return items, nil
}

// RegisterClient signs up an end-customer of a business. Phones are unique
// within a tenant.
func (s *WalletService) RegisterClient(ctx context.Context, businessID, name, phone string) (*models.Client, error) {
	if _, err := s.clients.FindByPhone(ctx, businessID, phone); err == nil {
		return nil, apperrors.ErrConflict("client", "phone already registered for this business")
	} else if err != gorm.ErrRecordNotFound {
		return nil, apperrors.InternalError(err)
	}

	now := s.clock.Now()
	client := &models.Client{
		BusinessID:   businessID,
		Name:         name,
		Phone:        phone,
		RegisteredAt: now,
		LastVisitAt:  now,
	}
	if err := s.clients.Create(ctx, client); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return client, nil
}

// ListClients returns the tenant's client base.
func (s *WalletService) ListClients(ctx context.Context, businessID string) ([]models.Client, error) {
	clients, err := s.clients.GetByBusiness(ctx, businessID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return clients, nil
}

// ListCampaigns returns the tenant's campaign templates.
func (s *WalletService) ListCampaigns(ctx context.Context, businessID string) ([]models.Campaign, error) {
	campaigns, err := s.campaigns.GetByBusiness(ctx, businessID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return campaigns, nil
}

// UpdateCampaign changes presentation fields only. Target and reward are
// frozen once cards exist against the campaign.
func (s *WalletService) UpdateCampaign(ctx context.Context, id, title, subtitle, color string) (*models.Campaign, error) {
	if _, err := s.campaigns.GetByID(ctx, id); err != nil {
		return nil, apperrors.ErrCampaignNotFound.WithError(err)
	}
	if err := s.campaigns.UpdateMeta(ctx, id, title, subtitle, color); err != nil {
		return nil, apperrors.InternalError(err)
	}
	campaign, err := s.campaigns.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return campaign, nil
}

// CreateCampaign stores a new campaign template. Coupons always carry
// target 1 so the wallet machine treats them uniformly.
func (s *WalletService) CreateCampaign(ctx context.Context, c *models.Campaign) (*models.Campaign, error) {
	if c.Type == models.CampaignCoupon {
		c.Target = 1
	}
	if c.Type == models.CampaignLoyalty && c.Target < 2 {
		return nil, apperrors.NewBadRequestError("loyalty target must be at least 2")
	}
	if err := s.campaigns.Create(ctx, c); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return c, nil
}
