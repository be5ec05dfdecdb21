package dispatch

import (
	"context"
	"fmt"
	"time"

	"cuponera_backend/internal/logger"

	"github.com/go-resty/resty/v2"
)

// GatewayDispatcher delivers messages through an HTTP messaging gateway
// (WhatsApp-style provider). Failures are collected per recipient; the
// batch as a whole only errors when the gateway is unreachable for every
// message.
type GatewayDispatcher struct {
	client *resty.Client
	sender string
}

type GatewayConfig struct {
	BaseURL string
	APIKey  string
	Sender  string
}

func NewGatewayDispatcher(cfg GatewayConfig) *GatewayDispatcher {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetHeader("Authorization", "Bearer "+cfg.APIKey).
		SetTimeout(15 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond)

	return &GatewayDispatcher{client: client, sender: cfg.Sender}
}

func (d *GatewayDispatcher) Name() string { return "gateway" }

type gatewayPayload struct {
	From           string `json:"from"`
	To             string `json:"to"`
	Body           string `json:"body"`
	AttachmentType string `json:"attachment_type,omitempty"`
	AttachmentURL  string `json:"attachment_url,omitempty"`
}

func (d *GatewayDispatcher) Dispatch(ctx context.Context, messages []Message) (*Result, error) {
	res := &Result{Failed: make(map[string]string)}

	for _, msg := range messages {
		payload := gatewayPayload{
			From:           d.sender,
			To:             msg.Phone,
			Body:           msg.Body,
			AttachmentType: string(msg.AttachmentType),
			AttachmentURL:  msg.AttachmentURL,
		}

		resp, err := d.client.R().
			SetContext(ctx).
			SetBody(payload).
			Post("/v1/messages")

		if err != nil {
			res.Failed[msg.RecipientID] = err.Error()
			continue
		}
		if resp.IsError() {
			res.Failed[msg.RecipientID] = fmt.Sprintf("gateway returned %d", resp.StatusCode())
			logger.CtxWarn(ctx, "gateway rejected message",
				"recipient", msg.RecipientID, "status", resp.StatusCode())
			continue
		}
		res.Sent = append(res.Sent, msg.RecipientID)
	}

	if len(res.Sent) == 0 && len(res.Failed) > 0 {
		return res, fmt.Errorf("gateway rejected all %d messages", len(res.Failed))
	}
	return res, nil
}
