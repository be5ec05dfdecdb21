package models

type BusinessStatus string
type PlanType string
type SubscriptionTerm string
type ContentType string
type TriggerKind string
type CampaignType string
type WalletStatus string
type BroadcastStatus string
type PaymentMethod string
type UserRole string
type AudienceSegment string

const (
	BusinessStatusTrial     BusinessStatus = "TRIAL"
	BusinessStatusActive    BusinessStatus = "ACTIVE"
	BusinessStatusExpired   BusinessStatus = "EXPIRED"
	BusinessStatusSuspended BusinessStatus = "SUSPENDED"

	PlanBasic        PlanType = "BASIC"
	PlanIntermediate PlanType = "INTERMEDIATE"
	PlanPremium      PlanType = "PREMIUM"

	Term1Month   SubscriptionTerm = "1_MONTH"
	Term3Months  SubscriptionTerm = "3_MONTHS"
	Term6Months  SubscriptionTerm = "6_MONTHS"
	Term12Months SubscriptionTerm = "12_MONTHS"

	ContentText  ContentType = "text"
	ContentImage ContentType = "image"
	ContentVideo ContentType = "video"
	ContentAudio ContentType = "audio"
	ContentPDF   ContentType = "pdf"

	TriggerRegistration TriggerKind = "registration"
	TriggerScheduled    TriggerKind = "scheduled"

	CampaignLoyalty CampaignType = "loyalty"
	CampaignCoupon  CampaignType = "coupon"

	WalletStatusActive   WalletStatus = "ACTIVE"
	WalletStatusRedeemed WalletStatus = "REDEEMED"

	BroadcastStatusSent      BroadcastStatus = "sent"
	BroadcastStatusScheduled BroadcastStatus = "scheduled"
	BroadcastStatusPartial   BroadcastStatus = "partial"
	BroadcastStatusCancelled BroadcastStatus = "cancelled"

	PaymentMethodCash     PaymentMethod = "CASH"
	PaymentMethodCard     PaymentMethod = "CARD"
	PaymentMethodTransfer PaymentMethod = "TRANSFER"

	UserRoleSuperadmin    UserRole = "SUPERADMIN"
	UserRoleBusinessOwner UserRole = "BUSINESS_OWNER"
	UserRoleStaff         UserRole = "STAFF"

	SegmentAll         AudienceSegment = "all"
	SegmentActive      AudienceSegment = "active"
	SegmentRecoverable AudienceSegment = "recover"
	SegmentVIP         AudienceSegment = "vip"
	SegmentNew         AudienceSegment = "new"
)

// TermFromMonths maps a purchased duration to its term class.
func TermFromMonths(months int) SubscriptionTerm {
	switch {
	case months >= 12:
		return Term12Months
	case months >= 6:
		return Term6Months
	case months >= 3:
		return Term3Months
	default:
		return Term1Month
	}
}
