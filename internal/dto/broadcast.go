package dto

import (
	"time"

	"cuponera_backend/internal/models"
)

type SendBroadcastRequest struct {
	Message        string                 `json:"message"`
	AttachmentType models.ContentType     `json:"attachment_type" validate:"omitempty,is-content-type"`
	AttachmentPath string                 `json:"attachment_path"`
	ClientIDs      []string               `json:"client_ids" validate:"omitempty,dive,uuid"`
	Segment        models.AudienceSegment `json:"segment" validate:"omitempty,is-segment"`
	ScheduledFor   *time.Time             `json:"scheduled_for,omitempty"`
	SourceLabel    string                 `json:"source_label"`
}

type PlanResponse struct {
	Scope      string                 `json:"scope"`
	Segment    models.AudienceSegment `json:"segment,omitempty"`
	Recipients int                    `json:"recipients"`
	Suppressed int                    `json:"suppressed"`
}

type GenerateCopyRequest struct {
	CampaignID string                 `json:"campaign_id" validate:"required,uuid"`
	Segment    models.AudienceSegment `json:"segment" validate:"omitempty,is-segment"`
	Tone       string                 `json:"tone"`
}

type GeneratedCopyResponse struct {
	Text string `json:"text"`
}
