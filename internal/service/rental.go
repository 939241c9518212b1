package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"rentwheels-backend/internal/domain"
	"rentwheels-backend/internal/logger"
	"rentwheels-backend/internal/payment"
	"rentwheels-backend/internal/penalty"
	"rentwheels-backend/internal/pricing"
	"rentwheels-backend/internal/repository"
)

const dateLayout = "2006-01-02"

// rentalService is the lifecycle orchestrator: it owns the state machine,
// prices at request time, moves money at confirm/pickup/cancel and assesses
// penalties at return time. Gateway calls happen outside any store
// transaction; local state advances only after the gateway outcome is known.
type rentalService struct {
	rentalRepo  repository.RentalRepository
	carRepo     repository.CarRepository
	paymentRepo repository.PaymentRepository
	outboxRepo  repository.OutboxRepository
	gateway     payment.Gateway
	pricer      *pricing.Engine
	penalties   *penalty.Calculator
}

func NewRentalService(
	rentalRepo repository.RentalRepository,
	carRepo repository.CarRepository,
	paymentRepo repository.PaymentRepository,
	outboxRepo repository.OutboxRepository,
	gateway payment.Gateway,
	pricer *pricing.Engine,
	penalties *penalty.Calculator,
) RentalService {
	return &rentalService{
		rentalRepo:  rentalRepo,
		carRepo:     carRepo,
		paymentRepo: paymentRepo,
		outboxRepo:  outboxRepo,
		gateway:     gateway,
		pricer:      pricer,
		penalties:   penalties,
	}
}

func (s *rentalService) RequestRental(ctx context.Context, renterID, carID int64, startDateStr, endDateStr string) (*domain.Rental, error) {
	start, err := time.Parse(dateLayout, startDateStr)
	if err != nil {
		return nil, domain.NewValidation("invalid start date: " + startDateStr)
	}
	end, err := time.Parse(dateLayout, endDateStr)
	if err != nil {
		return nil, domain.NewValidation("invalid end date: " + endDateStr)
	}
	if !end.After(start) {
		return nil, domain.NewValidation("end date must be after start date")
	}
	today := time.Now().Truncate(24 * time.Hour)
	if start.Before(today) {
		return nil, domain.NewValidation("start date must not be in the past")
	}

	car, err := s.carRepo.GetByID(ctx, carID)
	if err != nil {
		return nil, err
	}
	if !car.IsAvailable() {
		return nil, domain.NewValidation(fmt.Sprintf("car %d is not available", carID))
	}

	// Existing REQUESTED rentals may overlap freely; only CONFIRMED/IN_USE
	// bookings block a new request.
	overlapping, err := s.rentalRepo.FindOverlapping(ctx, carID, start, end, 0)
	if err != nil {
		return nil, err
	}
	if len(overlapping) > 0 {
		return nil, domain.NewDateOverlap(carID, start, end)
	}

	quote, err := s.pricer.ComputePrice(car, start, end, time.Now())
	if err != nil {
		return nil, err
	}
	for _, m := range quote.Modifiers {
		logger.Debug("price modifier applied", "car_id", carID, "name", m.Name, "multiplier", m.Multiplier, "description", m.Description)
	}

	rt := &domain.Rental{
		CarID:           carID,
		RenterID:        renterID,
		StartDate:       start,
		EndDate:         end,
		Currency:        car.Currency,
		Status:          domain.RentalStatusRequested,
		DailyPriceCents: car.DailyRateCents,
		TotalPriceCents: quote.FinalCents,
		LateStatus:      domain.LateStatusNone,
	}
	if err := s.rentalRepo.Create(ctx, rt); err != nil {
		return nil, err
	}

	logger.Info("rental requested", "rental_id", rt.ID, "car_id", carID, "renter_id", renterID, "total_cents", rt.TotalPriceCents)
	return rt, nil
}

func (s *rentalService) ConfirmRental(ctx context.Context, rentalID int64) (*domain.Rental, error) {
	rt, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if rt.Status != domain.RentalStatusRequested {
		return nil, domain.NewInvalidState(rt.Status, domain.RentalStatusRequested)
	}

	// Fast-path overlap check before touching the gateway; the binding
	// check happens again inside ConfirmExclusive.
	overlapping, err := s.rentalRepo.FindOverlapping(ctx, rt.CarID, rt.StartDate, rt.EndDate, rt.ID)
	if err != nil {
		return nil, err
	}
	if len(overlapping) > 0 {
		return nil, domain.NewDateOverlap(rt.CarID, rt.StartDate, rt.EndDate)
	}

	res, err := s.gateway.Authorize(ctx, rt.TotalPriceCents, rt.Currency, payerRef(rt.RenterID), uuid.NewString())
	if err != nil {
		return nil, domain.NewInternal("payment authorization did not complete", err)
	}
	if !res.Success {
		return nil, domain.NewPaymentFailed("authorize", res.Message)
	}

	pay := &domain.Payment{
		RentalID:      rt.ID,
		Purpose:       domain.PaymentPurposeRental,
		AmountCents:   rt.TotalPriceCents,
		Currency:      rt.Currency,
		Status:        domain.PaymentStatusAuthorized,
		TransactionID: res.TransactionID,
	}
	if err := s.paymentRepo.Create(ctx, pay); err != nil {
		return nil, err
	}

	rt.Status = domain.RentalStatusConfirmed
	rt.PaymentID = &pay.ID
	evt := s.lifecycleEvent(rt, domain.EventRentalConfirmed, nil)

	if err := s.rentalRepo.ConfirmExclusive(ctx, rt, evt); err != nil {
		// The lost race leaves a dangling authorization: AUTHORIZED and
		// never captured, so it is voided locally without a gateway call.
		pay.Status = domain.PaymentStatusRefunded
		pay.FailureReason = "authorization voided: " + err.Error()
		if uerr := s.paymentRepo.Update(ctx, pay); uerr != nil {
			logger.Error("failed to void authorization after confirm failure", "payment_id", pay.ID, "error", uerr)
		}
		return nil, err
	}

	logger.Info("rental confirmed", "rental_id", rt.ID, "payment_id", pay.ID)
	return rt, nil
}

func (s *rentalService) PickupRental(ctx context.Context, rentalID int64, notes string) (*domain.Rental, error) {
	rt, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if rt.Status != domain.RentalStatusConfirmed {
		return nil, domain.NewInvalidState(rt.Status, domain.RentalStatusConfirmed)
	}
	if rt.PaymentID == nil {
		return nil, domain.NewPaymentFailed("capture", "rental has no payment record")
	}

	pay, err := s.paymentRepo.GetByID(ctx, *rt.PaymentID)
	if err != nil {
		return nil, err
	}
	if pay.Status != domain.PaymentStatusAuthorized {
		return nil, domain.NewPaymentFailed("capture", fmt.Sprintf("payment is %s, not AUTHORIZED", pay.Status))
	}

	res, err := s.gateway.Capture(ctx, pay.TransactionID, pay.AmountCents, uuid.NewString())
	if err != nil {
		return nil, domain.NewInternal("payment capture did not complete", err)
	}
	if !res.Success {
		pay.FailureReason = res.Message
		if uerr := s.paymentRepo.Update(ctx, pay); uerr != nil {
			logger.Error("failed to record capture decline", "payment_id", pay.ID, "error", uerr)
		}
		return nil, domain.NewPaymentFailed("capture", res.Message)
	}

	pay.Status = domain.PaymentStatusCaptured
	pay.FailureReason = ""
	if err := s.paymentRepo.Update(ctx, pay); err != nil {
		return nil, err
	}

	rt.Status = domain.RentalStatusInUse
	rt.PickupNote = notes
	evt := s.lifecycleEvent(rt, domain.EventRentalPickedUp, nil)
	if err := s.rentalRepo.UpdateWithEvent(ctx, rt, evt); err != nil {
		return nil, err
	}

	logger.Info("rental picked up", "rental_id", rt.ID)
	return rt, nil
}

func (s *rentalService) ReturnRental(ctx context.Context, rentalID int64, notes string) (*domain.Rental, error) {
	rt, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if rt.Status != domain.RentalStatusInUse {
		return nil, domain.NewInvalidState(rt.Status, domain.RentalStatusInUse)
	}

	now := time.Now()
	rt.ActualReturn = &now
	rt.ReturnNote = notes
	rt.LateStatus = domain.LateStatusOnTime

	var penaltyEvt *domain.Event
	if now.After(rt.EndDate) {
		result := s.penalties.Assess(rt.EndDate, now)
		rt.LateStatus = domain.LateStatusLate
		rt.LateHours = result.LateHours
		rt.PenaltyCents = result.PenaltyCents
		logger.Info("late return assessed", "rental_id", rt.ID, "late_hours", result.LateHours, "penalty_cents", result.PenaltyCents, "breakdown", result.Breakdown)

		// Penalty charging must never block the return. Any failure is
		// swallowed into penalty_paid=false for manual follow-up.
		s.chargePenalty(ctx, rt, result)
		penaltyEvt = s.lifecycleEvent(rt, domain.EventPenaltyAssessed, map[string]string{
			"penalty_cents": fmt.Sprintf("%d", result.PenaltyCents),
			"late_hours":    fmt.Sprintf("%d", result.LateHours),
			"breakdown":     result.Breakdown,
			"penalty_paid":  fmt.Sprintf("%t", rt.PenaltyPaid),
		})
	}

	rt.Status = domain.RentalStatusReturned
	evt := s.lifecycleEvent(rt, domain.EventRentalReturned, map[string]string{
		"late_status": string(rt.LateStatus),
	})
	if err := s.rentalRepo.FinishWithRelease(ctx, rt, domain.CarStatusAvailable, evt); err != nil {
		return nil, err
	}

	if penaltyEvt != nil {
		if err := s.outboxRepo.Append(ctx, penaltyEvt); err != nil {
			logger.Error("failed to queue penalty event", "rental_id", rt.ID, "error", err)
		}
	}

	logger.Info("rental returned", "rental_id", rt.ID, "late_status", rt.LateStatus)
	return rt, nil
}

// chargePenalty runs the authorize+capture saga for a late penalty. It
// records the outcome on the rental and never returns an error.
func (s *rentalService) chargePenalty(ctx context.Context, rt *domain.Rental, result penalty.Result) {
	pay := &domain.Payment{
		RentalID:    rt.ID,
		Purpose:     domain.PaymentPurposePenalty,
		AmountCents: result.PenaltyCents,
		Currency:    rt.Currency,
		Status:      domain.PaymentStatusPending,
	}
	if err := s.paymentRepo.Create(ctx, pay); err != nil {
		rt.PenaltyPaid = false
		rt.PenaltyFailReason = "failed to create penalty payment: " + err.Error()
		logger.Error("penalty payment record creation failed", "rental_id", rt.ID, "error", err)
		return
	}
	rt.PenaltyPaymentID = &pay.ID

	authRes, err := s.gateway.Authorize(ctx, result.PenaltyCents, rt.Currency, payerRef(rt.RenterID), uuid.NewString())
	if err != nil || !authRes.Success {
		s.recordPenaltyFailure(ctx, rt, pay, "authorize", authRes, err)
		return
	}
	pay.Status = domain.PaymentStatusAuthorized
	pay.TransactionID = authRes.TransactionID

	capRes, err := s.gateway.Capture(ctx, pay.TransactionID, pay.AmountCents, uuid.NewString())
	if err != nil || !capRes.Success {
		s.recordPenaltyFailure(ctx, rt, pay, "capture", capRes, err)
		return
	}

	pay.Status = domain.PaymentStatusCaptured
	if err := s.paymentRepo.Update(ctx, pay); err != nil {
		logger.Error("failed to persist penalty capture", "payment_id", pay.ID, "error", err)
	}
	rt.PenaltyPaid = true
	rt.PenaltyFailReason = ""
}

func (s *rentalService) recordPenaltyFailure(ctx context.Context, rt *domain.Rental, pay *domain.Payment, op string, res payment.Result, err error) {
	reason := res.Message
	if err != nil {
		reason = err.Error()
	}
	rt.PenaltyPaid = false
	rt.PenaltyFailReason = fmt.Sprintf("penalty %s failed: %s", op, reason)

	pay.Status = domain.PaymentStatusFailed
	pay.FailureReason = reason
	if uerr := s.paymentRepo.Update(ctx, pay); uerr != nil {
		logger.Error("failed to persist penalty payment failure", "payment_id", pay.ID, "error", uerr)
	}
	logger.Warn("penalty charge failed, return proceeds", "rental_id", rt.ID, "operation", op, "reason", reason)
}

func (s *rentalService) CancelRental(ctx context.Context, rentalID, callerID int64, isAdmin bool) (*domain.Rental, error) {
	rt, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if rt.IsTerminal() {
		return nil, domain.NewTerminalState(rt.Status)
	}
	if !isAdmin && rt.RenterID != callerID {
		return nil, domain.NewForbidden("only the renter or an administrator may cancel this rental")
	}

	payload := map[string]string{"cancelled_by": fmt.Sprintf("%d", callerID)}

	switch rt.Status {
	case domain.RentalStatusRequested:
		// No payment exists yet and the car was never reserved.
		rt.Status = domain.RentalStatusCancelled
		evt := s.lifecycleEvent(rt, domain.EventRentalCancelled, payload)
		if err := s.rentalRepo.UpdateWithEvent(ctx, rt, evt); err != nil {
			return nil, err
		}

	case domain.RentalStatusConfirmed:
		refunded, err := s.refundOnCancel(ctx, rt, rt.TotalPriceCents)
		if err != nil {
			return nil, err
		}
		payload["refund_cents"] = fmt.Sprintf("%d", refunded)
		rt.Status = domain.RentalStatusCancelled
		evt := s.lifecycleEvent(rt, domain.EventRentalCancelled, payload)
		if err := s.rentalRepo.FinishWithRelease(ctx, rt, domain.CarStatusAvailable, evt); err != nil {
			return nil, err
		}

	case domain.RentalStatusInUse:
		refundCents := s.prorateRefund(rt, time.Now())
		refunded, err := s.refundOnCancel(ctx, rt, refundCents)
		if err != nil {
			return nil, err
		}
		payload["refund_cents"] = fmt.Sprintf("%d", refunded)
		rt.Status = domain.RentalStatusCancelled
		evt := s.lifecycleEvent(rt, domain.EventRentalCancelled, payload)
		if err := s.rentalRepo.FinishWithRelease(ctx, rt, domain.CarStatusAvailable, evt); err != nil {
			return nil, err
		}
	}

	logger.Info("rental cancelled", "rental_id", rt.ID, "caller_id", callerID)
	return rt, nil
}

// refundOnCancel settles the rental payment for a cancellation. A captured
// payment is refunded through the gateway (hard failure blocks the cancel);
// a merely authorized one is voided locally.
func (s *rentalService) refundOnCancel(ctx context.Context, rt *domain.Rental, refundCents int64) (int64, error) {
	if rt.PaymentID == nil {
		return 0, nil
	}
	pay, err := s.paymentRepo.GetByID(ctx, *rt.PaymentID)
	if err != nil {
		return 0, err
	}

	switch pay.Status {
	case domain.PaymentStatusCaptured:
		if refundCents > pay.AmountCents {
			refundCents = pay.AmountCents
		}
		if refundCents == 0 {
			// No days remain, so the capture stands and the record
			// keeps saying exactly what happened.
			return 0, nil
		}
		res, err := s.gateway.Refund(ctx, pay.TransactionID, refundCents, uuid.NewString())
		if err != nil {
			return 0, domain.NewInternal("refund did not complete", err)
		}
		if !res.Success {
			return 0, domain.NewPaymentFailed("refund", res.Message)
		}
		pay.RefundedCents += refundCents
		pay.Status = domain.PaymentStatusRefunded
		if err := s.paymentRepo.Update(ctx, pay); err != nil {
			return 0, err
		}
		return refundCents, nil

	case domain.PaymentStatusAuthorized:
		// Never captured, so no money moved; void locally.
		pay.Status = domain.PaymentStatusRefunded
		if err := s.paymentRepo.Update(ctx, pay); err != nil {
			return 0, err
		}
		return 0, nil
	}
	return 0, nil
}

// prorateRefund computes capturedAmount x remainingWholeDays/totalBookedDays
// rounded half-up, where remaining days are counted from today to the
// scheduled end and floored at zero.
func (s *rentalService) prorateRefund(rt *domain.Rental, now time.Time) int64 {
	total := rt.Days()
	today := now.Truncate(24 * time.Hour)
	remaining := int(rt.EndDate.Sub(today).Hours() / 24)
	if remaining < 0 {
		remaining = 0
	}
	if remaining > total {
		remaining = total
	}
	return domain.CentsRoundHalfUp(float64(rt.TotalPriceCents) * float64(remaining) / float64(total))
}

func (s *rentalService) GetRental(ctx context.Context, rentalID int64) (*domain.Rental, error) {
	return s.rentalRepo.GetByID(ctx, rentalID)
}

func (s *rentalService) ListRentals(ctx context.Context, renterID int64, page, pageSize int32) ([]domain.Rental, int32, error) {
	return s.rentalRepo.ListByRenter(ctx, renterID, page, pageSize)
}

func (s *rentalService) ListCarRentals(ctx context.Context, carID int64, page, pageSize int32) ([]domain.Rental, int32, error) {
	return s.rentalRepo.ListByCar(ctx, carID, page, pageSize)
}

func (s *rentalService) lifecycleEvent(rt *domain.Rental, typ domain.EventType, extra map[string]string) *domain.Event {
	payload := map[string]string{
		"rental_id": fmt.Sprintf("%d", rt.ID),
		"car_id":    fmt.Sprintf("%d", rt.CarID),
		"renter_id": fmt.Sprintf("%d", rt.RenterID),
		"status":    string(rt.Status),
	}
	for k, v := range extra {
		payload[k] = v
	}
	return &domain.Event{RentalID: rt.ID, Type: typ, Payload: payload}
}

func payerRef(renterID int64) string {
	return fmt.Sprintf("renter-%d@rentwheels.internal", renterID)
}
