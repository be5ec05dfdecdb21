package email

import (
	"context"
	"fmt"

	"cuponera_backend/internal/logger"
	"cuponera_backend/internal/models"
)

// ExpiryNotifier mails the operator when the lifecycle sweep expires a
// business. Send failures are logged and swallowed; the sweep result does
// not depend on email working.
type ExpiryNotifier struct {
	provider Provider
	to       string
}

func NewExpiryNotifier(provider Provider, operatorTo string) *ExpiryNotifier {
	return &ExpiryNotifier{provider: provider, to: operatorTo}
}

func (n *ExpiryNotifier) NotifyExpired(ctx context.Context, b *models.Business) {
	if n.provider == nil || n.to == "" {
		return
	}

	body := fmt.Sprintf(
		"Business %q (%s) moved to EXPIRED.\n\nPlan: %s\nClients: %d\nOwner phone: %s\n",
		b.Name, b.ID, b.Plan, b.RegisteredClients, b.Phone,
	)
	err := n.provider.Send(&Email{
		To:      []string{n.to},
		Subject: fmt.Sprintf("Subscription expired: %s", b.Name),
		Body:    body,
	})
	if err != nil {
		logger.CtxWithError(ctx, "failed to send expiry notice", err, "business_id", b.ID)
	}
}
