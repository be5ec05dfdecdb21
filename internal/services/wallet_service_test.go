package services

import (
	"context"
	"testing"
	"time"

	"cuponera_backend/internal/models"
	"cuponera_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type walletFixture struct {
	svc       *WalletService
	wallets   *fakeWalletStore
	campaigns *fakeCampaignStore
	clients   *fakeClientStore
	clk       *fakeClock
}

func newWalletFixture(t *testing.T) *walletFixture {
	t.Helper()
	clk := newFakeClock(time.Date(2026, 4, 10, 14, 0, 0, 0, time.UTC))
	wallets := newFakeWalletStore()
	campaigns := newFakeCampaignStore()
	clients := newFakeClientStore(clk.Now)
	return &walletFixture{
		svc:       NewWalletService(wallets, campaigns, clients, clk),
		wallets:   wallets,
		campaigns: campaigns,
		clients:   clients,
		clk:       clk,
	}
}

func (f *walletFixture) seedClient(t *testing.T) *models.Client {
	t.Helper()
	c, err := f.svc.RegisterClient(context.Background(), "biz-1", "Ana", "+5215512345678")
	require.NoError(t, err)
	return c
}

func (f *walletFixture) seedLoyalty(t *testing.T, target int) *models.Campaign {
	t.Helper()
	c, err := f.svc.CreateCampaign(context.Background(), &models.Campaign{
		BusinessID: "biz-1",
		Type:       models.CampaignLoyalty,
		Title:      "10 coffees",
		Target:     target,
		Reward:     "free coffee",
		IsActive:   true,
	})
	require.NoError(t, err)
	return c
}

func TestLoyaltyCardFullCycle(t *testing.T) {
	f := newWalletFixture(t)
	ctx := context.Background()
	client := f.seedClient(t)
	campaign := f.seedLoyalty(t, 10)

	item, err := f.svc.Activate(ctx, client.ID, campaign.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, item.Stamps, "the activating visit counts")
	assert.Equal(t, models.WalletStatusActive, item.Status)

	// Redemption before the target is reached is refused.
	_, err = f.svc.Redeem(ctx, item.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotComplete))

	for i := 2; i <= 10; i++ {
		item, err = f.svc.AddStamp(ctx, item.ID)
		require.NoError(t, err)
		assert.Equal(t, i, item.Stamps)
	}

	// An extra tap at the register past the target changes nothing.
	item, err = f.svc.AddStamp(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, item.Stamps)
	assert.Equal(t, models.WalletStatusActive, item.Status)

	item, err = f.svc.Redeem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, models.WalletStatusRedeemed, item.Status)
	require.NotNil(t, item.RedeemedAt)
	assert.Equal(t, f.clk.Now(), *item.RedeemedAt)
	assert.Equal(t, 10, item.Stamps, "stamps freeze at redemption")

	_, err = f.svc.AddStamp(ctx, item.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotActive))

	_, err = f.svc.Redeem(ctx, item.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrAlreadyRedeemed))
}

func TestActivateRejectsSecondActiveCard(t *testing.T) {
	f := newWalletFixture(t)
	ctx := context.Background()
	client := f.seedClient(t)
	campaign := f.seedLoyalty(t, 5)

	_, err := f.svc.Activate(ctx, client.ID, campaign.ID)
	require.NoError(t, err)

	_, err = f.svc.Activate(ctx, client.ID, campaign.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrAlreadyActive))
}

func TestRedeemedCardAllowsFreshActivation(t *testing.T) {
	f := newWalletFixture(t)
	ctx := context.Background()
	client := f.seedClient(t)
	campaign := f.seedLoyalty(t, 2)

	first, err := f.svc.Activate(ctx, client.ID, campaign.ID)
	require.NoError(t, err)
	_, err = f.svc.AddStamp(ctx, first.ID)
	require.NoError(t, err)
	_, err = f.svc.Redeem(ctx, first.ID)
	require.NoError(t, err)

	second, err := f.svc.Activate(ctx, client.ID, campaign.ID)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, 1, second.Stamps)

	wallet, err := f.svc.Wallet(ctx, client.ID)
	require.NoError(t, err)
	assert.Len(t, wallet, 2)
}

func TestActivationAndStampsRecordVisits(t *testing.T) {
	f := newWalletFixture(t)
	ctx := context.Background()
	client := f.seedClient(t)
	campaign := f.seedLoyalty(t, 5)

	item, err := f.svc.Activate(ctx, client.ID, campaign.ID)
	require.NoError(t, err)
	_, err = f.svc.AddStamp(ctx, item.ID)
	require.NoError(t, err)

	got, err := f.clients.GetByID(ctx, client.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Visits)
}

func TestValidateCoupon(t *testing.T) {
	f := newWalletFixture(t)
	ctx := context.Background()
	client := f.seedClient(t)

	coupon, err := f.svc.CreateCampaign(ctx, &models.Campaign{
		BusinessID: "biz-1",
		Type:       models.CampaignCoupon,
		Title:      "2x1 Tuesday",
		Target:     7, // overridden: coupons are always single-use
		IsActive:   true,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, coupon.Target)

	item, err := f.svc.ValidateCoupon(ctx, client.ID, coupon.ID)
	require.NoError(t, err)
	assert.Equal(t, models.WalletStatusRedeemed, item.Status)

	// A coupon burns on first validation.
	_, err = f.svc.ValidateCoupon(ctx, client.ID, coupon.ID)
	assert.Error(t, err)

	loyalty := f.seedLoyalty(t, 5)
	_, err = f.svc.ValidateCoupon(ctx, client.ID, loyalty.ID)
	assert.Error(t, err, "loyalty campaigns cannot be validated as coupons")
}

func TestValidateCouponRespectsLimit(t *testing.T) {
	f := newWalletFixture(t)
	ctx := context.Background()
	first := f.seedClient(t)
	second, err := f.svc.RegisterClient(ctx, "biz-1", "Beto", "+5215587654321")
	require.NoError(t, err)

	coupon, err := f.svc.CreateCampaign(ctx, &models.Campaign{
		BusinessID: "biz-1",
		Type:       models.CampaignCoupon,
		Title:      "first 1 only",
		Limit:      1,
		IsActive:   true,
	})
	require.NoError(t, err)

	_, err = f.svc.ValidateCoupon(ctx, first.ID, coupon.ID)
	require.NoError(t, err)

	_, err = f.svc.ValidateCoupon(ctx, second.ID, coupon.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrCouponExhausted))
}

func TestCampaignParticipants(t *testing.T) {
	f := newWalletFixture(t)
	ctx := context.Background()
	campaign := f.seedLoyalty(t, 10)

	winner := &models.ClientWalletItem{
		CampaignID: campaign.ID, ClientID: "cl-1",
		Status: models.WalletStatusActive, Stamps: 10,
	}
	collecting := &models.ClientWalletItem{
		CampaignID: campaign.ID, ClientID: "cl-2",
		Status: models.WalletStatusActive, Stamps: 3,
	}
	history := &models.ClientWalletItem{
		CampaignID: campaign.ID, ClientID: "cl-3",
		Status: models.WalletStatusRedeemed, Stamps: 10,
	}
	for _, item := range []*models.ClientWalletItem{winner, collecting, history} {
		require.NoError(t, f.wallets.Create(ctx, item))
	}

	buckets, err := f.svc.CampaignParticipants(ctx, campaign.ID)
	require.NoError(t, err)

	require.Len(t, buckets[ParticipantWinner], 1)
	assert.Equal(t, winner.ID, buckets[ParticipantWinner][0].ID)
	require.Len(t, buckets[ParticipantInProgress], 1)
	assert.Equal(t, collecting.ID, buckets[ParticipantInProgress][0].ID)
	require.Len(t, buckets[ParticipantRedeemed], 1)
	assert.Equal(t, history.ID, buckets[ParticipantRedeemed][0].ID)

	_, err = f.svc.CampaignParticipants(ctx, "missing")
	assert.True(t, apperrors.Is(err, apperrors.ErrCampaignNotFound))
}

func TestCreateCampaignRejectsTrivialLoyaltyTarget(t *testing.T) {
	f := newWalletFixture(t)
	_, err := f.svc.CreateCampaign(context.Background(), &models.Campaign{
		BusinessID: "biz-1",
		Type:       models.CampaignLoyalty,
		Title:      "broken",
		Target:     1,
	})
	assert.Error(t, err)
}

func TestRegisterClientPhoneUniquePerBusiness(t *testing.T) {
	f := newWalletFixture(t)
	ctx := context.Background()

	first, err := f.svc.RegisterClient(ctx, "biz-1", "Ana", "+5215512345678")
	require.NoError(t, err)
	assert.Equal(t, f.clk.Now(), first.RegisteredAt)
	assert.Equal(t, f.clk.Now(), first.LastVisitAt)

	_, err = f.svc.RegisterClient(ctx, "biz-1", "Ana B", "+5215512345678")
	assert.Error(t, err)

	// The same phone is fine under another tenant.
	_, err = f.svc.RegisterClient(ctx, "biz-2", "Ana", "+5215512345678")
	assert.NoError(t, err)
}

func TestUpdateCampaignTouchesDisplayFieldsOnly(t *testing.T) {
	f := newWalletFixture(t)
	ctx := context.Background()
	campaign := f.seedLoyalty(t, 8)

	updated, err := f.svc.UpdateCampaign(ctx, campaign.ID, "New title", "New subtitle", "red")
	require.NoError(t, err)
	assert.Equal(t, "New title", updated.Title)
	assert.Equal(t, "New subtitle", updated.Subtitle)
	assert.Equal(t, "red", updated.Color)
	assert.Equal(t, 8, updated.Target)
	assert.Equal(t, "free coffee", updated.Reward)
}
