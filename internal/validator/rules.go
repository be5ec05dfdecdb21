package validator

import (
	"log"
	"regexp"

	"cuponera_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

var timeOfDayRe = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// registerCustomRules installs the enum rules backed by models/statuses.go.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			// A rule that fails to register is a startup misconfiguration.
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	mustRegister("is-plan-type", validatePlanType)
	mustRegister("is-business-status", validateBusinessStatus)
	mustRegister("is-content-type", validateContentType)
	mustRegister("is-trigger", validateTrigger)
	mustRegister("is-term", validateTerm)
	mustRegister("is-segment", validateSegment)
	mustRegister("is-timeofday", validateTimeOfDay)
	mustRegister("is-payment-method", validatePaymentMethod)
}

// Empty values pass: 'required' owns presence checks.

func validatePlanType(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.PlanType(value) {
	case models.PlanBasic, models.PlanIntermediate, models.PlanPremium:
		return true
	}
	return false
}

func validateBusinessStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.BusinessStatus(value) {
	case models.BusinessStatusTrial, models.BusinessStatusActive,
		models.BusinessStatusExpired, models.BusinessStatusSuspended:
		return true
	}
	return false
}

func validateContentType(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.ContentType(value) {
	case models.ContentText, models.ContentImage, models.ContentVideo,
		models.ContentAudio, models.ContentPDF:
		return true
	}
	return false
}

func validateTrigger(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.TriggerKind(value) {
	case models.TriggerRegistration, models.TriggerScheduled:
		return true
	}
	return false
}

func validateTerm(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.SubscriptionTerm(value) {
	case models.Term1Month, models.Term3Months, models.Term6Months, models.Term12Months:
		return true
	}
	return false
}

func validateSegment(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.AudienceSegment(value) {
	case models.SegmentAll, models.SegmentActive, models.SegmentRecoverable,
		models.SegmentVIP, models.SegmentNew:
		return true
	}
	return false
}

func validateTimeOfDay(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return timeOfDayRe.MatchString(value)
}

func validatePaymentMethod(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.PaymentMethod(value) {
	case models.PaymentMethodCash, models.PaymentMethodCard, models.PaymentMethodTransfer:
		return true
	}
	return false
}
