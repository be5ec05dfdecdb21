package dispatch

import (
	"context"
	"sync"

	"cuponera_backend/internal/logger"
)

// MockDispatcher logs messages instead of sending them. Used in development
// and in tests; FailPhones simulates per-recipient gateway failures.
type MockDispatcher struct {
	mu         sync.Mutex
	FailPhones map[string]bool
	Sent       []Message
}

func NewMockDispatcher() *MockDispatcher {
	return &MockDispatcher{FailPhones: make(map[string]bool)}
}

func (d *MockDispatcher) Name() string { return "mock" }

func (d *MockDispatcher) Dispatch(ctx context.Context, messages []Message) (*Result, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	res := &Result{Failed: make(map[string]string)}
	for _, msg := range messages {
		if d.FailPhones[msg.Phone] {
			res.Failed[msg.RecipientID] = "simulated gateway failure"
			continue
		}
		d.Sent = append(d.Sent, msg)
		res.Sent = append(res.Sent, msg.RecipientID)
		logger.CtxInfo(ctx, "mock dispatch", "recipient", msg.RecipientID, "phone", msg.Phone)
	}
	return res, nil
}
