package service

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"

	"volunteer-hub-backend/internal/domain"
	"volunteer-hub-backend/internal/logger"
)

// messageSender is the part of *messaging.Client the push service needs.
type messageSender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

type firebasePushService struct {
	client messageSender
}

// NewFirebasePushService connects to Firebase Cloud Messaging. Application
// default credentials are used when credentialsFile is empty.
func NewFirebasePushService(ctx context.Context, projectID, credentialsFile string) (PushService, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create messaging client: %w", err)
	}
	return &firebasePushService{client: client}, nil
}

// AccountTopic is the FCM topic a client subscribes to for its feed.
func AccountTopic(accountID string) string {
	return "account_" + accountID
}

func (s *firebasePushService) Push(ctx context.Context, n *domain.Notification) error {
	msg := &messaging.Message{
		Topic: AccountTopic(n.AccountID),
		Notification: &messaging.Notification{
			Title: n.Title,
			Body:  n.Message,
		},
		Data: map[string]string{
			"notificationId": n.ID,
			"type":           string(n.Type),
		},
	}

	logger.ExternalServiceCall("fcm", "Send", "topic", msg.Topic)
	id, err := s.client.Send(ctx, msg)
	logger.ExternalServiceResult("fcm", "Send", err, "message_id", id)
	if err != nil {
		return fmt.Errorf("failed to send push message: %w", err)
	}
	return nil
}
