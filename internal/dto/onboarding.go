package dto

import (
	"time"

	"cuponera_backend/internal/models"
)

type StepRequest struct {
	Title        string             `json:"title" validate:"required"`
	Content      string             `json:"content" validate:"required"`
	ContentType  models.ContentType `json:"content_type" validate:"required,is-content-type"`
	Trigger      models.TriggerKind `json:"trigger" validate:"required,is-trigger"`
	DelayMinutes int                `json:"delay_minutes" validate:"gte=0"`
	DayOffset    int                `json:"day_offset" validate:"gte=0"`
	TimeOfDay    string             `json:"time_of_day" validate:"omitempty,is-timeofday"`
}

func (r *StepRequest) ToModel() *models.OnboardingStep {
	return &models.OnboardingStep{
		Title:        r.Title,
		Content:      r.Content,
		ContentType:  r.ContentType,
		Trigger:      r.Trigger,
		DelayMinutes: r.DelayMinutes,
		DayOffset:    r.DayOffset,
		TimeOfDay:    r.TimeOfDay,
	}
}

type TimelineEntry struct {
	Step  models.OnboardingStep `json:"step"`
	DueAt time.Time             `json:"due_at"`
	State string                `json:"state"`
}
