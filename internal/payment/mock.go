package payment

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// MockGateway is the in-process gateway used in dev mode and tests. It
// honors idempotency keys: replaying a key returns the first outcome
// instead of creating a second transaction.
type MockGateway struct {
	mu         sync.Mutex
	byKey      map[string]Result
	authorized map[string]int64 // transaction id -> held cents

	// Failure switches for exercising decline paths.
	FailAuthorize bool
	FailCapture   bool
	FailRefund    bool
}

func NewMockGateway() *MockGateway {
	return &MockGateway{
		byKey:      make(map[string]Result),
		authorized: make(map[string]int64),
	}
}

func (g *MockGateway) Authorize(ctx context.Context, amountCents int64, currency, payerRef, idempotencyKey string) (Result, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if prior, ok := g.byKey[idempotencyKey]; ok {
		return prior, nil
	}
	if g.FailAuthorize {
		res := Result{Success: false, Message: "mock authorization declined"}
		g.byKey[idempotencyKey] = res
		return res, nil
	}

	txID := uuid.NewString()
	g.authorized[txID] = amountCents
	res := Result{Success: true, TransactionID: txID, Message: "mock authorized"}
	g.byKey[idempotencyKey] = res
	return res, nil
}

func (g *MockGateway) Capture(ctx context.Context, transactionID string, amountCents int64, idempotencyKey string) (Result, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if prior, ok := g.byKey[idempotencyKey]; ok {
		return prior, nil
	}
	if g.FailCapture {
		res := Result{Success: false, TransactionID: transactionID, Message: "mock capture declined"}
		g.byKey[idempotencyKey] = res
		return res, nil
	}
	if _, ok := g.authorized[transactionID]; !ok {
		return Result{}, fmt.Errorf("mock gateway: unknown transaction %s", transactionID)
	}

	res := Result{Success: true, TransactionID: transactionID, Message: "mock captured"}
	g.byKey[idempotencyKey] = res
	return res, nil
}

func (g *MockGateway) Refund(ctx context.Context, transactionID string, amountCents int64, idempotencyKey string) (Result, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if prior, ok := g.byKey[idempotencyKey]; ok {
		return prior, nil
	}
	if g.FailRefund {
		res := Result{Success: false, TransactionID: transactionID, Message: "mock refund declined"}
		g.byKey[idempotencyKey] = res
		return res, nil
	}

	res := Result{Success: true, TransactionID: uuid.NewString(), Message: "mock refunded"}
	g.byKey[idempotencyKey] = res
	return res, nil
}
