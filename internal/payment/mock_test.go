package payment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockGateway_AuthorizeCaptureRefund(t *testing.T) {
	g := NewMockGateway()
	ctx := context.Background()

	auth, err := g.Authorize(ctx, 15000, "USD", "renter-5@rentwheels.internal", "key-auth")
	require.NoError(t, err)
	assert.True(t, auth.Success)
	assert.NotEmpty(t, auth.TransactionID)

	cap, err := g.Capture(ctx, auth.TransactionID, 15000, "key-cap")
	require.NoError(t, err)
	assert.True(t, cap.Success)
	assert.Equal(t, auth.TransactionID, cap.TransactionID)

	ref, err := g.Refund(ctx, auth.TransactionID, 15000, "key-ref")
	require.NoError(t, err)
	assert.True(t, ref.Success)
}

// Replaying an idempotency key returns the original outcome rather than
// moving money twice, even after the failure switch flips.
func TestMockGateway_IdempotencyKeyReplay(t *testing.T) {
	g := NewMockGateway()
	ctx := context.Background()

	first, err := g.Authorize(ctx, 15000, "USD", "payer", "key-1")
	require.NoError(t, err)

	g.FailAuthorize = true
	second, err := g.Authorize(ctx, 15000, "USD", "payer", "key-1")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// A fresh key sees the current behavior.
	third, err := g.Authorize(ctx, 15000, "USD", "payer", "key-2")
	require.NoError(t, err)
	assert.False(t, third.Success)
}

func TestMockGateway_CaptureUnknownTransaction(t *testing.T) {
	g := NewMockGateway()

	_, err := g.Capture(context.Background(), "no-such-tx", 100, "key-x")
	assert.Error(t, err)
}

func TestMockGateway_FailureSwitches(t *testing.T) {
	g := NewMockGateway()
	ctx := context.Background()

	g.FailCapture = true
	auth, err := g.Authorize(ctx, 100, "USD", "payer", "k1")
	require.NoError(t, err)
	cap, err := g.Capture(ctx, auth.TransactionID, 100, "k2")
	require.NoError(t, err)
	assert.False(t, cap.Success)

	g.FailRefund = true
	ref, err := g.Refund(ctx, auth.TransactionID, 100, "k3")
	require.NoError(t, err)
	assert.False(t, ref.Success)
}
