package apperrors

// ErrorCode identifies an error class across the API surface.
type ErrorCode string

const (
	// System
	CodeInternalError        ErrorCode = "INTERNAL_ERROR"
	CodeDatabaseError        ErrorCode = "DATABASE_ERROR"
	CodeExternalServiceError ErrorCode = "EXTERNAL_SERVICE_ERROR"

	// Generic resource / validation
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeAlreadyExists    ErrorCode = "ALREADY_EXISTS"
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeConflict         ErrorCode = "CONFLICT"
	CodeInvalidOperation ErrorCode = "INVALID_OPERATION"

	// Auth
	CodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	CodeForbidden          ErrorCode = "FORBIDDEN"
	CodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	CodeInvalidToken       ErrorCode = "INVALID_TOKEN"

	// Lifecycle
	CodeInvalidDuration ErrorCode = "INVALID_DURATION"
	CodeTrialNotAllowed ErrorCode = "TRIAL_NOT_ALLOWED"

	// Loyalty wallet
	CodeAlreadyActive   ErrorCode = "ALREADY_ACTIVE"
	CodeAlreadyRedeemed ErrorCode = "ALREADY_REDEEMED"
	CodeNotComplete     ErrorCode = "NOT_COMPLETE"
	CodeNotActive       ErrorCode = "NOT_ACTIVE"

	// Broadcast
	CodeEmptyAudience   ErrorCode = "EMPTY_AUDIENCE"
	CodeDispatchFailure ErrorCode = "DISPATCH_FAILURE"
	CodeFeatureLocked   ErrorCode = "FEATURE_LOCKED"
)
