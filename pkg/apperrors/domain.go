package apperrors

import "net/http"

// Predeclared domain errors.
//
// StateConflict errors (AlreadyActive, AlreadyRedeemed, NotComplete,
// NotActive, InvalidDuration) are surfaced to the caller for correction and
// never retried automatically. EmptyAudience is a warning-grade outcome,
// distinct from validation: the operation is aborted with no partial send.

var (
	// Auth
	ErrInvalidCredentials = New(CodeInvalidCredentials, "auth", "Invalid phone or password", http.StatusUnauthorized)
	ErrInvalidToken       = New(CodeInvalidToken, "auth", "Invalid or expired token", http.StatusUnauthorized)
	ErrInsufficientRole   = New(CodeForbidden, "auth", "Insufficient permissions", http.StatusForbidden)

	// Businesses / lifecycle
	ErrBusinessNotFound = New(CodeNotFound, "business", "Business not found", http.StatusNotFound)
	ErrInvalidDuration  = New(CodeInvalidDuration, "lifecycle", "Subscription duration must be positive", http.StatusBadRequest)
	ErrTrialNotAllowed  = New(CodeTrialNotAllowed, "lifecycle", "Trial can only be extended from a trial or an expired trial", http.StatusConflict)

	// Onboarding
	ErrStepNotFound = New(CodeNotFound, "onboarding", "Onboarding step not found", http.StatusNotFound)

	// Campaigns / wallet
	ErrCampaignNotFound = New(CodeNotFound, "campaign", "Campaign not found", http.StatusNotFound)
	ErrClientNotFound   = New(CodeNotFound, "client", "Client not found", http.StatusNotFound)
	ErrWalletNotFound   = New(CodeNotFound, "wallet", "Wallet item not found", http.StatusNotFound)
	ErrAlreadyActive    = New(CodeAlreadyActive, "wallet", "Client already has an active card for this campaign", http.StatusConflict)
	ErrAlreadyRedeemed  = New(CodeAlreadyRedeemed, "wallet", "Card has already been redeemed", http.StatusConflict)
	ErrNotComplete      = New(CodeNotComplete, "wallet", "Card has not reached its stamp target", http.StatusConflict)
	ErrNotActive        = New(CodeNotActive, "wallet", "Card is not active", http.StatusConflict)
	ErrCouponExhausted  = New(CodeConflict, "wallet", "Coupon redemption limit has been reached", http.StatusConflict)

	// Broadcasts
	ErrEmptyAudience  = New(CodeEmptyAudience, "broadcast", "Resolved audience is empty", http.StatusUnprocessableEntity)
	ErrBroadcastNotFound = New(CodeNotFound, "broadcast", "Broadcast not found", http.StatusNotFound)
	ErrScheduleInPast = New(CodeValidationFailed, "broadcast", "Scheduled send time must be in the future", http.StatusBadRequest)
	ErrEmptyMessage   = New(CodeValidationFailed, "broadcast", "Message or attachment is required", http.StatusBadRequest)

	// Plan gating
	ErrFeatureLocked = New(CodeFeatureLocked, "plan", "Feature is not included in the current plan", http.StatusForbidden)
)

// ErrNotFoundWrap converts a repository miss (e.g. gorm.ErrRecordNotFound)
// into a 404 AppError.
func ErrNotFoundWrap(err error, domain, message string) *AppError {
	return Wrap(err, CodeNotFound, domain, message, http.StatusNotFound)
}

// ErrConflict builds a 409 for state machine violations not covered by the
// predeclared variables.
func ErrConflict(domain, message string) *AppError {
	return New(CodeConflict, domain, message, http.StatusConflict)
}

// ErrDispatch records a partial or total dispatch failure. Not fatal: the
// broadcast is marked partially sent and unconfirmed recipients stay
// unthrottled so a retry is possible.
func ErrDispatch(err error, failed []string) *AppError {
	return Wrap(err, CodeDispatchFailure, "broadcast", "Some recipients could not be reached", http.StatusBadGateway).
		WithDetails(map[string]interface{}{"failed_recipients": failed})
}
