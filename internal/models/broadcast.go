package models

import (
	"time"

	"gorm.io/datatypes"
)

// Broadcast is a persisted mass-message campaign: what was (or will be)
// sent, to how many recipients, and how the send ended.
type Broadcast struct {
	BaseModel
	BusinessID     string          `gorm:"index" json:"business_id"` // empty for superadmin broadcasts
	Message        string          `json:"message"`
	AttachmentType ContentType     `gorm:"default:''" json:"attachment_type,omitempty"`
	AttachmentPath string          `json:"attachment_path,omitempty"`
	Scope          string          `gorm:"not null" json:"scope"` // explicit, segment, broadcast
	Segment        AudienceSegment `json:"segment,omitempty"`
	ExplicitIDs    datatypes.JSON  `gorm:"type:jsonb" json:"explicit_ids,omitempty"` // hand-picked recipient ids for scheduled sends
	Recipients     int             `gorm:"not null;default:0" json:"recipients"`
	FailedCount    int             `gorm:"not null;default:0" json:"failed_count"`
	FailureDetails datatypes.JSON  `gorm:"type:jsonb" json:"failure_details,omitempty"` // recipient id -> reason
	Status         BroadcastStatus `gorm:"not null" json:"status"`
	ScheduledFor   *time.Time      `json:"scheduled_for,omitempty"`
	SentAt         *time.Time      `json:"sent_at,omitempty"`
	SourceLabel    string          `json:"source_label,omitempty"` // e.g. originating campaign title
}
