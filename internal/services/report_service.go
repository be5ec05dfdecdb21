package services

import (
	"bytes"
	"context"
	"strings"
	"time"

	"cuponera_backend/internal/clock"
	"cuponera_backend/internal/models"
	"cuponera_backend/pkg/apperrors"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// PaymentHistoryStore extends PaymentStore with reads, for revenue reports.
type PaymentHistoryStore interface {
	PaymentStore
	GetByBusiness(ctx context.Context, businessID string) ([]models.PaymentTransaction, error)
}

// FunnelStats is the operator-facing conversion snapshot.
type FunnelStats struct {
	Total          int64 `json:"total"`
	Trial          int64 `json:"trial"`
	Active         int64 `json:"active"`
	Expired        int64 `json:"expired"`
	Suspended      int64 `json:"suspended"`
	ConversionPct  int   `json:"conversion_pct"`  // active / (active+expired)
	OnboardingDone int64 `json:"onboarding_done"` // businesses past the sequence
}

// CampaignPerformance aggregates one campaign's wallet activity. Winners,
// in-progress and redeemed counts are disjoint and sum to the card total.
type CampaignPerformance struct {
	CampaignID string              `json:"campaign_id"`
	Title      string              `json:"title"`
	Type       models.CampaignType `json:"type"`
	Winners    int                 `json:"winners"` // complete but unredeemed
	InProgress int                 `json:"in_progress"`
	Redeemed   int                 `json:"redeemed"`
}

// ReportService builds operator reports: the conversion funnel, campaign
// performance and the client base export.
type ReportService struct {
	businesses BusinessStore
	clients    ClientStore
	campaigns  CampaignStore
	wallets    WalletStore
	payments   PaymentHistoryStore
	clock      clock.Clock
}

func NewReportService(businesses BusinessStore, clients ClientStore, campaigns CampaignStore, wallets WalletStore, payments PaymentHistoryStore, clk clock.Clock) *ReportService {
	return &ReportService{
		businesses: businesses,
		clients:    clients,
		campaigns:  campaigns,
		wallets:    wallets,
		payments:   payments,
		clock:      clk,
	}
}

// Funnel computes the operator conversion snapshot across all businesses.
func (s *ReportService) Funnel(ctx context.Context) (*FunnelStats, error) {
	counts, err := s.businesses.CountByStatus(ctx)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	stats := &FunnelStats{
		Trial:     counts[models.BusinessStatusTrial],
		Active:    counts[models.BusinessStatusActive],
		Expired:   counts[models.BusinessStatusExpired],
		Suspended: counts[models.BusinessStatusSuspended],
	}
	stats.Total = stats.Trial + stats.Active + stats.Expired + stats.Suspended
	if decided := stats.Active + stats.Expired; decided > 0 {
		stats.ConversionPct = int(stats.Active * 100 / decided)
	}

	all, err := s.businesses.GetAll(ctx, nil)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	for _, b := range all {
		if b.OnboardingStep == models.OnboardingCompleted {
			stats.OnboardingDone++
		}
	}
	return stats, nil
}

// Performance aggregates wallet activity for each of the business's
// campaigns.
func (s *ReportService) Performance(ctx context.Context, businessID string) ([]CampaignPerformance, error) {
	campaigns, err := s.campaigns.GetByBusiness(ctx, businessID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	out := make([]CampaignPerformance, 0, len(campaigns))
	for _, c := range campaigns {
		items, err := s.wallets.GetByCampaign(ctx, c.ID)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		perf := CampaignPerformance{CampaignID: c.ID, Title: c.Title, Type: c.Type}
		for _, item := range items {
			switch ClassifyParticipant(&item, c.Target) {
			case ParticipantRedeemed:
				perf.Redeemed++
			case ParticipantWinner:
				perf.Winners++
			default:
				perf.InProgress++
			}
		}
		out = append(out, perf)
	}
	return out, nil
}

// RevenueSummary totals a business's recorded payments.
type RevenueSummary struct {
	BusinessID string                      `json:"business_id"`
	Payments   []models.PaymentTransaction `json:"payments"`
	Total      decimal.Decimal             `json:"total"`
}

// Revenue lists a business's payment history with its running total.
func (s *ReportService) Revenue(ctx context.Context, businessID string) (*RevenueSummary, error) {
	if _, err := s.businesses.GetByID(ctx, businessID); err != nil {
		return nil, apperrors.ErrBusinessNotFound.WithError(err)
	}
	payments, err := s.payments.GetByBusiness(ctx, businessID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	total := decimal.Zero
	for _, p := range payments {
		total = total.Add(p.Amount)
	}
	return &RevenueSummary{BusinessID: businessID, Payments: payments, Total: total}, nil
}

var clientExportHeaders = []string{"Name", "Phone", "Visits", "Points", "Last Visit", "Registered", "Segments"}

// ExportClients renders the business's client base as an xlsx workbook.
func (s *ReportService) ExportClients(ctx context.Context, businessID string) (*bytes.Buffer, error) {
	clients, err := s.clients.GetByBusiness(ctx, businessID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Clients"
	f.SetSheetName("Sheet1", sheet)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	for col, h := range clientExportHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, apperrors.InternalError(err)
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return nil, apperrors.InternalError(err)
		}
	}

	now := s.clock.Now()
	for row, c := range clients {
		values := []interface{}{
			c.Name,
			c.Phone,
			c.Visits,
			c.Points,
			c.LastVisitAt.Format("2006-01-02"),
			c.RegisteredAt.Format("2006-01-02"),
			segmentLabels(&c, now),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, apperrors.InternalError(err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return buf, nil
}

// segmentLabels renders the overlapping segment memberships as a
// comma-separated cell value.
func segmentLabels(c *models.Client, now time.Time) string {
	var labels []string
	for _, seg := range []models.AudienceSegment{
		models.SegmentActive, models.SegmentRecoverable, models.SegmentVIP, models.SegmentNew,
	} {
		if Matches(c, seg, now) {
			labels = append(labels, string(seg))
		}
	}
	return strings.Join(labels, ", ")
}
