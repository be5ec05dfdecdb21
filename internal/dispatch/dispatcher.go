package dispatch

import (
	"context"

	"cuponera_backend/internal/models"
)

// Message is one outbound message to one recipient.
type Message struct {
	RecipientID    string
	Phone          string
	Body           string
	AttachmentType models.ContentType
	AttachmentURL  string
}

// Result reports the per-recipient outcome of a dispatch. Only recipients
// in Sent are confirmed delivered to the gateway; everyone in Failed stays
// unthrottled so a retry is possible.
type Result struct {
	Sent   []string
	Failed map[string]string // recipient id -> reason
}

// PartialFailure reports whether some (but not all) messages failed.
func (r *Result) PartialFailure() bool {
	return len(r.Failed) > 0 && len(r.Sent) > 0
}

// Dispatcher hands a batch of messages to the external sending channel.
type Dispatcher interface {
	Dispatch(ctx context.Context, messages []Message) (*Result, error)
	Name() string
}
