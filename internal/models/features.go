package models

import "github.com/shopspring/decimal"

type FeatureKey string

const (
	FeatureMassMessages  FeatureKey = "mass_messages"
	FeatureAI            FeatureKey = "ai"
	FeatureCRM           FeatureKey = "crm"
	FeatureMenu          FeatureKey = "menu"
	FeatureSalesTracking FeatureKey = "sales_tracking"
)

// PlanFeatures maps each feature to the plans that include it.
var PlanFeatures = map[FeatureKey][]PlanType{
	FeatureMassMessages:  {PlanBasic, PlanIntermediate, PlanPremium},
	FeatureAI:            {PlanIntermediate, PlanPremium},
	FeatureCRM:           {PlanPremium},
	FeatureMenu:          {PlanPremium},
	FeatureSalesTracking: {PlanPremium},
}

// PlanIncludes reports whether a plan unlocks the given feature.
func PlanIncludes(plan PlanType, feature FeatureKey) bool {
	for _, p := range PlanFeatures[feature] {
		if p == plan {
			return true
		}
	}
	return false
}

// BasePrices is the monthly list price per plan.
var BasePrices = map[PlanType]decimal.Decimal{
	PlanBasic:        decimal.NewFromInt(299),
	PlanIntermediate: decimal.NewFromInt(599),
	PlanPremium:      decimal.NewFromInt(999),
}
