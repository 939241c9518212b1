package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"rentwheels-backend/internal/domain"
	"rentwheels-backend/internal/logger"
	"rentwheels-backend/internal/payment"
	"rentwheels-backend/internal/repository"
)

// waiverService is the administrative penalty adjustment path. Waivers are
// append-only; when the penalty was already collected, the waived share is
// refunded through the gateway before anything is persisted (all-or-nothing).
type waiverService struct {
	rentalRepo  repository.RentalRepository
	paymentRepo repository.PaymentRepository
	waiverRepo  repository.WaiverRepository
	gateway     payment.Gateway
}

func NewWaiverService(
	rentalRepo repository.RentalRepository,
	paymentRepo repository.PaymentRepository,
	waiverRepo repository.WaiverRepository,
	gateway payment.Gateway,
) WaiverService {
	return &waiverService{
		rentalRepo:  rentalRepo,
		paymentRepo: paymentRepo,
		waiverRepo:  waiverRepo,
		gateway:     gateway,
	}
}

func (s *waiverService) WaiveFullPenalty(ctx context.Context, rentalID int64, reason string, adminID int64) (*domain.PenaltyWaiver, error) {
	rt, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	return s.waive(ctx, rt, rt.PenaltyCents, reason, adminID)
}

func (s *waiverService) WaivePartialPenalty(ctx context.Context, rentalID, amountCents int64, reason string, adminID int64) (*domain.PenaltyWaiver, error) {
	rt, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	return s.waive(ctx, rt, amountCents, reason, adminID)
}

func (s *waiverService) waive(ctx context.Context, rt *domain.Rental, amountCents int64, reason string, adminID int64) (*domain.PenaltyWaiver, error) {
	if rt.PenaltyCents <= 0 {
		return nil, domain.NewValidation("rental has no outstanding penalty to waive")
	}
	if strings.TrimSpace(reason) == "" {
		return nil, domain.NewValidation("waiver reason must not be blank")
	}
	if amountCents <= 0 {
		return nil, domain.NewValidation("waiver amount must be positive")
	}
	if amountCents > rt.PenaltyCents {
		return nil, domain.NewValidation(fmt.Sprintf("waiver amount %d exceeds outstanding penalty %d", amountCents, rt.PenaltyCents))
	}

	w := &domain.PenaltyWaiver{
		RentalID:       rt.ID,
		OriginalCents:  rt.PenaltyCents,
		WaivedCents:    amountCents,
		RemainingCents: rt.PenaltyCents - amountCents,
		AdminID:        adminID,
		Reason:         strings.TrimSpace(reason),
	}

	// Refund reconciliation: only when the penalty was actually collected.
	// RefundInitiated guards against ever issuing a second refund for the
	// same waiver.
	if rt.PenaltyPaid && rt.PenaltyPaymentID != nil && !w.RefundInitiated {
		pay, err := s.paymentRepo.GetByID(ctx, *rt.PenaltyPaymentID)
		if err != nil {
			return nil, err
		}
		if pay.Status == domain.PaymentStatusCaptured {
			res, err := s.gateway.Refund(ctx, pay.TransactionID, amountCents, uuid.NewString())
			if err != nil {
				return nil, domain.NewInternal("penalty refund did not complete", err)
			}
			if !res.Success {
				return nil, domain.NewPaymentFailed("refund", res.Message)
			}
			w.RefundInitiated = true
			w.RefundTxID = res.TransactionID

			pay.RefundedCents += amountCents
			if pay.RefundedCents >= pay.AmountCents {
				pay.Status = domain.PaymentStatusRefunded
			}
			if err := s.paymentRepo.Update(ctx, pay); err != nil {
				logger.Error("failed to record penalty refund on payment", "payment_id", pay.ID, "error", err)
			}
		}
	}

	rt.PenaltyCents = w.RemainingCents
	evt := &domain.Event{
		RentalID: rt.ID,
		Type:     domain.EventPenaltyWaived,
		Payload: map[string]string{
			"rental_id":       fmt.Sprintf("%d", rt.ID),
			"waived_cents":    fmt.Sprintf("%d", w.WaivedCents),
			"remaining_cents": fmt.Sprintf("%d", w.RemainingCents),
			"admin_id":        fmt.Sprintf("%d", adminID),
			"reason":          w.Reason,
		},
	}
	if err := s.waiverRepo.CreateWithRentalAdjustment(ctx, w, rt, evt); err != nil {
		return nil, err
	}

	logger.Info("penalty waived", "rental_id", rt.ID, "waived_cents", w.WaivedCents, "remaining_cents", w.RemainingCents, "admin_id", adminID)
	return w, nil
}

func (s *waiverService) GetPenaltyHistory(ctx context.Context, rentalID int64) ([]domain.PenaltyWaiver, error) {
	if _, err := s.rentalRepo.GetByID(ctx, rentalID); err != nil {
		return nil, err
	}
	return s.waiverRepo.ListByRental(ctx, rentalID)
}
