package models

// OnboardingStep is a tenant-agnostic template: the sequence every new
// business receives during its trial. Resolution against a concrete
// business happens in the onboarding service; nothing here is per-tenant.
//
// Registration-triggered steps fire DelayMinutes after signup. Scheduled
// steps fire on day DayOffset (1 = the day after signup) at TimeOfDay.
type OnboardingStep struct {
	BaseModel
	Title       string      `gorm:"not null" json:"title"`
	Content     string      `gorm:"not null" json:"content"`
	ContentType ContentType `gorm:"not null;default:'text'" json:"content_type"`

	Trigger      TriggerKind `gorm:"not null" json:"trigger"`
	DelayMinutes int         `gorm:"not null;default:0" json:"delay_minutes"`
	DayOffset    int         `gorm:"not null;default:0" json:"day_offset"`
	TimeOfDay    string      `gorm:"not null;default:''" json:"time_of_day"` // "HH:MM"
}

// Less defines the total order of the sequence: registration steps first
// (by delay), then scheduled steps (by day, then time of day); the id
// breaks ties so the sequence is stable under edits.
func (s *OnboardingStep) Less(other *OnboardingStep) bool {
	if s.Trigger != other.Trigger {
		return s.Trigger == TriggerRegistration
	}
	if s.Trigger == TriggerRegistration {
		if s.DelayMinutes != other.DelayMinutes {
			return s.DelayMinutes < other.DelayMinutes
		}
		return s.ID < other.ID
	}
	if s.DayOffset != other.DayOffset {
		return s.DayOffset < other.DayOffset
	}
	if s.TimeOfDay != other.TimeOfDay {
		return s.TimeOfDay < other.TimeOfDay
	}
	return s.ID < other.ID
}
