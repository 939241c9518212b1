package service

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"

	"rentwheels-backend/internal/domain"
	"rentwheels-backend/internal/logger"
)

// PushService publishes lifecycle events to an FCM topic consumed by the
// dashboard clients.
type PushService struct {
	client *messaging.Client
	topic  string
}

func NewPushService(ctx context.Context, credentialsFile, topic string) (*PushService, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize fcm client: %w", err)
	}
	return &PushService{client: client, topic: topic}, nil
}

func (p *PushService) Name() string { return "fcm" }

func (p *PushService) Deliver(ctx context.Context, evt *domain.Event) error {
	data := map[string]string{"event_type": string(evt.Type)}
	for k, v := range evt.Payload {
		data[k] = v
	}

	logger.ExternalServiceCall("fcm", "send", "event_id", evt.ID, "type", evt.Type)
	_, err := p.client.Send(ctx, &messaging.Message{
		Topic: p.topic,
		Data:  data,
	})
	logger.ExternalServiceResult("fcm", "send", err)
	if err != nil {
		return fmt.Errorf("failed to publish event to fcm: %w", err)
	}
	return nil
}
