package jobs

import (
	"context"
	"fmt"
	"time"

	"rentwheels-backend/internal/domain"
	"rentwheels-backend/internal/logger"
)

// MarkOverdueRentals flags IN_USE rentals past their scheduled end as late
// and queues a reminder event. The sweep is idempotent: rentals already
// flagged LATE are excluded from the candidate query, so a rerun is a no-op.
func (jr *JobRunner) MarkOverdueRentals() {
	jr.runWithRecovery("MarkOverdueRentals", func() {
		ctx := context.Background()

		overdue, err := jr.store.RentalRepository.ListInUsePastEnd(ctx, time.Now())
		if err != nil {
			logger.Error("Failed to list overdue rentals", "error", err)
			return
		}

		count := 0
		for i := range overdue {
			rt := &overdue[i]
			rt.LateStatus = domain.LateStatusLate
			evt := &domain.Event{
				RentalID: rt.ID,
				Type:     domain.EventRentalOverdue,
				Payload: map[string]string{
					"rental_id": fmt.Sprintf("%d", rt.ID),
					"car_id":    fmt.Sprintf("%d", rt.CarID),
					"renter_id": fmt.Sprintf("%d", rt.RenterID),
					"end_date":  rt.EndDate.Format("2006-01-02"),
				},
			}
			if err := jr.store.RentalRepository.UpdateWithEvent(ctx, rt, evt); err != nil {
				logger.Error("Failed to mark rental overdue", "rental_id", rt.ID, "error", err)
				continue
			}
			count++
			logger.Debug("Marked rental overdue", "rental_id", rt.ID, "end_date", rt.EndDate.Format("2006-01-02"))
		}

		logger.Info("Marked rentals as overdue", "count", count)
	})
}

// ReconcileUnpaidPenalties reports returned rentals whose penalty charge
// failed so operators can follow up manually.
func (jr *JobRunner) ReconcileUnpaidPenalties() {
	jr.runWithRecovery("ReconcileUnpaidPenalties", func() {
		ctx := context.Background()

		unpaid, err := jr.store.RentalRepository.ListUnpaidPenalties(ctx)
		if err != nil {
			logger.Error("Failed to list unpaid penalties", "error", err)
			return
		}

		for _, rt := range unpaid {
			chargeState := "never_attempted"
			if pay, perr := jr.store.PaymentRepository.GetLatestByRental(ctx, rt.ID, domain.PaymentPurposePenalty); perr == nil {
				chargeState = string(pay.Status)
			}
			logger.Warn("Unpaid penalty awaiting follow-up",
				"rental_id", rt.ID,
				"renter_id", rt.RenterID,
				"penalty_cents", rt.PenaltyCents,
				"charge_state", chargeState,
				"reason", rt.PenaltyFailReason)
		}

		logger.Info("Unpaid penalty reconciliation finished", "count", len(unpaid))
	})
}
