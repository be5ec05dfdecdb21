package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cuponera_backend/internal/config"
	"cuponera_backend/internal/logger"
	"cuponera_backend/internal/models"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// MarketingAIService drafts promotional copy for campaigns and broadcasts
// with Gemini. Degrades to a template: any client or generation failure
// yields placeholder copy instead of an error, so the compose flow never
// blocks on the AI being down.
type MarketingAIService struct {
	client *genai.Client
	model  string
}

// NewMarketingAIService builds the service. A missing API key or a client
// construction failure is logged and leaves the service in fallback mode.
func NewMarketingAIService(ctx context.Context, cfg config.AIConfig) *MarketingAIService {
	svc := &MarketingAIService{model: cfg.Model}
	if cfg.APIKey == "" {
		logger.Warn("AI API key not configured, using placeholder copy")
		return svc
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		logger.WithError("failed to create AI client, using placeholder copy", err)
		return svc
	}
	svc.client = client
	return svc
}

// CopyRequest describes the campaign the copy should promote.
type CopyRequest struct {
	BusinessName string
	CampaignType models.CampaignType
	Title        string
	Reward       string
	Segment      models.AudienceSegment
	Tone         string
}

// GenerateCopy produces a short promotional message for the request.
func (s *MarketingAIService) GenerateCopy(ctx context.Context, req *CopyRequest) string {
	if s.client == nil {
		return s.placeholder(req)
	}

	ctx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	model := s.client.GenerativeModel(s.model)
	resp, err := model.GenerateContent(ctx, genai.Text(s.prompt(req)))
	if err != nil {
		logger.CtxWithError(ctx, "AI copy generation failed, using placeholder", err,
			"campaign", req.Title)
		return s.placeholder(req)
	}

	var b strings.Builder
	for _, c := range resp.Candidates {
		if c == nil || c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				b.WriteString(string(t))
			}
		}
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return s.placeholder(req)
	}
	return text
}

func (s *MarketingAIService) prompt(req *CopyRequest) string {
	tone := req.Tone
	if tone == "" {
		tone = "friendly and concise"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Write a short WhatsApp promotional message (max 3 sentences, no hashtags) for %q, a local business.\n", req.BusinessName)
	fmt.Fprintf(&b, "Campaign: %s (%s). Reward: %s.\n", req.Title, req.CampaignType, req.Reward)
	if req.Segment != "" && req.Segment != models.SegmentAll {
		fmt.Fprintf(&b, "Audience: %s clients.\n", req.Segment)
	}
	fmt.Fprintf(&b, "Tone: %s. Reply with the message text only.", tone)
	return b.String()
}

func (s *MarketingAIService) placeholder(req *CopyRequest) string {
	switch req.CampaignType {
	case models.CampaignCoupon:
		return fmt.Sprintf("%s has a treat for you: %s. Show this message to claim your %s!",
			req.BusinessName, req.Title, req.Reward)
	default:
		return fmt.Sprintf("Visit %s and join %s. Collect your stamps and earn %s!",
			req.BusinessName, req.Title, req.Reward)
	}
}

// Close releases the underlying client, if one was created.
func (s *MarketingAIService) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}
