package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"rentwheels-backend/internal/domain"
	"rentwheels-backend/internal/logger"
	"rentwheels-backend/internal/repository"
)

// EmailSink renders a lifecycle event into an operator notice.
type EmailSink struct {
	email EmailService
}

func NewEmailSink(email EmailService) *EmailSink {
	return &EmailSink{email: email}
}

func (s *EmailSink) Name() string { return "email" }

func (s *EmailSink) Deliver(ctx context.Context, evt *domain.Event) error {
	subject := fmt.Sprintf("[rentwheels] %s - rental %d", evt.Type, evt.RentalID)

	var b strings.Builder
	fmt.Fprintf(&b, "Lifecycle event %s for rental %d.\n\n", evt.Type, evt.RentalID)
	for k, v := range evt.Payload {
		fmt.Fprintf(&b, "%s: %s\n", k, v)
	}

	return s.email.SendLifecycleNotice(ctx, subject, b.String())
}

// Notifier drains the outbox and fans events out to the configured sinks.
// Delivery is at-least-once: an event is marked DELIVERED only after every
// sink accepted it, and retried on the next dispatch run otherwise until
// the attempt budget is spent.
type Notifier struct {
	outboxRepo  repository.OutboxRepository
	sinks       []EventSink
	retry       RetryConfig
	maxAttempts int32
	batchSize   int32
}

func NewNotifier(outboxRepo repository.OutboxRepository, sinks []EventSink, retry RetryConfig, maxAttempts, batchSize int32) *Notifier {
	return &Notifier{
		outboxRepo:  outboxRepo,
		sinks:       sinks,
		retry:       retry,
		maxAttempts: maxAttempts,
		batchSize:   batchSize,
	}
}

// Dispatch delivers one batch of pending events. Errors are absorbed into
// the outbox rows; the caller (a cron job) never fails on them.
func (n *Notifier) Dispatch(ctx context.Context) {
	events, err := n.outboxRepo.ListPending(ctx, n.batchSize)
	if err != nil {
		logger.Error("failed to list pending events", "error", err)
		return
	}

	for i := range events {
		evt := &events[i]
		if err := n.deliver(ctx, evt); err != nil {
			attempts := evt.Attempts + 1
			terminal := attempts >= n.maxAttempts
			if markErr := n.outboxRepo.MarkFailed(ctx, evt.ID, attempts, err.Error(), terminal); markErr != nil {
				logger.Error("failed to record event delivery failure", "event_id", evt.ID, "error", markErr)
			}
			if terminal {
				logger.Error("event delivery abandoned", "event_id", evt.ID, "type", evt.Type, "attempts", attempts, "error", err)
			}
			continue
		}
		if err := n.outboxRepo.MarkDelivered(ctx, evt.ID); err != nil {
			logger.Error("failed to mark event delivered", "event_id", evt.ID, "error", err)
		}
	}
}

func (n *Notifier) deliver(ctx context.Context, evt *domain.Event) error {
	for _, sink := range n.sinks {
		sink := sink
		err := WithRetry(ctx, n.retry, "deliver_"+sink.Name(), func() error {
			return sink.Deliver(ctx, evt)
		})
		if err != nil {
			return fmt.Errorf("sink %s: %w", sink.Name(), err)
		}
		logger.Debug("event delivered", "event_id", evt.ID, "sink", sink.Name(), "type", evt.Type)
	}
	return nil
}

// DispatchLoop runs Dispatch on a fixed cadence until the context ends.
// Used by the standalone cronjob binary; the server relies on the cron
// scheduler instead.
func (n *Notifier) DispatchLoop(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n.Dispatch(ctx)
		}
	}
}
