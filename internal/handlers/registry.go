package handlers

// AppHandlers holds every HTTP handler in the application.
type AppHandlers struct {
	AuthHandler       *AuthHandler
	BusinessHandler   *BusinessHandler
	OnboardingHandler *OnboardingHandler
	CampaignHandler   *CampaignHandler
	BroadcastHandler  *BroadcastHandler
	MarketingHandler  *MarketingHandler
	ReportHandler     *ReportHandler
}
