package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	mpconfig "github.com/mercadopago/sdk-go/pkg/config"
	mppayment "github.com/mercadopago/sdk-go/pkg/payment"
	mprefund "github.com/mercadopago/sdk-go/pkg/refund"

	"rentwheels-backend/internal/logger"
)

// MercadoPagoGateway adapts the Mercado Pago SDK to the Gateway interface.
// Authorize creates a payment with capture=false; Capture settles the hold;
// Refund goes through the refund client (partial when below the captured
// amount). The idempotency key travels as the external reference.
type MercadoPagoGateway struct {
	payments mppayment.Client
	refunds  mprefund.Client
}

func NewMercadoPagoGateway(accessToken string) (*MercadoPagoGateway, error) {
	if accessToken == "" {
		return nil, fmt.Errorf("mercado pago access token is required")
	}
	cfg, err := mpconfig.New(accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to configure mercado pago sdk: %w", err)
	}
	return &MercadoPagoGateway{
		payments: mppayment.NewClient(cfg),
		refunds:  mprefund.NewClient(cfg),
	}, nil
}

func (g *MercadoPagoGateway) Authorize(ctx context.Context, amountCents int64, currency, payerRef, idempotencyKey string) (Result, error) {
	logger.ExternalServiceCall("mercadopago", "authorize", "amount_cents", amountCents, "idempotency_key", idempotencyKey)

	payload := map[string]any{
		"transaction_amount": float64(amountCents) / 100.0,
		"description":        "car rental hold",
		"capture":            false,
		"external_reference": idempotencyKey,
		"payer":              map[string]any{"email": payerRef},
	}
	var req mppayment.Request
	if err := remarshal(payload, &req); err != nil {
		return Result{}, err
	}

	resp, err := g.payments.Create(ctx, req)
	logger.ExternalServiceResult("mercadopago", "authorize", err)
	if err != nil {
		return Result{}, fmt.Errorf("mercado pago authorize failed: %w", err)
	}

	if resp.Status != "authorized" && resp.Status != "approved" {
		return Result{Success: false, Message: fmt.Sprintf("authorization declined: %s", resp.StatusDetail)}, nil
	}
	return Result{Success: true, TransactionID: strconv.Itoa(resp.ID), Message: resp.StatusDetail}, nil
}

func (g *MercadoPagoGateway) Capture(ctx context.Context, transactionID string, amountCents int64, idempotencyKey string) (Result, error) {
	logger.ExternalServiceCall("mercadopago", "capture", "transaction_id", transactionID, "amount_cents", amountCents)

	id, err := strconv.Atoi(transactionID)
	if err != nil {
		return Result{}, fmt.Errorf("malformed mercado pago transaction id %q: %w", transactionID, err)
	}

	resp, err := g.payments.Capture(ctx, id)
	logger.ExternalServiceResult("mercadopago", "capture", err)
	if err != nil {
		return Result{}, fmt.Errorf("mercado pago capture failed: %w", err)
	}

	if resp.Status != "approved" {
		return Result{Success: false, TransactionID: transactionID, Message: fmt.Sprintf("capture declined: %s", resp.StatusDetail)}, nil
	}
	return Result{Success: true, TransactionID: transactionID, Message: resp.StatusDetail}, nil
}

func (g *MercadoPagoGateway) Refund(ctx context.Context, transactionID string, amountCents int64, idempotencyKey string) (Result, error) {
	logger.ExternalServiceCall("mercadopago", "refund", "transaction_id", transactionID, "amount_cents", amountCents)

	id, err := strconv.Atoi(transactionID)
	if err != nil {
		return Result{}, fmt.Errorf("malformed mercado pago transaction id %q: %w", transactionID, err)
	}

	resp, err := g.refunds.CreatePartialRefund(ctx, id, float64(amountCents)/100.0)
	logger.ExternalServiceResult("mercadopago", "refund", err)
	if err != nil {
		return Result{}, fmt.Errorf("mercado pago refund failed: %w", err)
	}

	return Result{Success: true, TransactionID: strconv.Itoa(resp.ID), Message: resp.Status}, nil
}

// remarshal moves a payload map into the SDK request type through its JSON
// tags, the same way the raw-payload integration path feeds the SDK.
func remarshal(payload map[string]any, out any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to build gateway payload: %w", err)
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("failed to map gateway payload: %w", err)
	}
	return nil
}
