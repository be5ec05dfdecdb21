package services

import "cuponera_backend/internal/clock"

// ServiceContainer holds every application service. Built once in app
// wiring and handed to the handlers. The clock travels with it so handlers
// read time from the same source as the services.
type ServiceContainer struct {
	Clock             clock.Clock
	AuthService       *AuthService
	LifecycleService  *LifecycleService
	OnboardingService *OnboardingService
	WalletService     *WalletService
	SegmentService    *SegmentService
	ThrottleService   *ThrottleService
	BroadcastService  *BroadcastService
	MarketingAI       *MarketingAIService
	ReportService     *ReportService
}
