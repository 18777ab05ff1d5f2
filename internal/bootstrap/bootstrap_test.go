package bootstrap

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"volunteer-hub-backend/internal/config"
)

func TestNewEmailService(t *testing.T) {
	for _, provider := range []string{"smtp", "sendgrid", "log"} {
		t.Run(provider, func(t *testing.T) {
			cfg := &config.Config{Email: config.EmailConfig{
				Provider:       provider,
				From:           "no-reply@example.com",
				SMTP:           config.SMTPConfig{Host: "smtp.example.com", Port: 587},
				SendGridAPIKey: "key",
			}}
			assert.NotNil(t, NewEmailService(cfg))
		})
	}
}

func TestNewPushServiceDisabled(t *testing.T) {
	assert.Nil(t, NewPushService(context.Background(), &config.Config{}))
}

func TestOpenStoreUnknownDriver(t *testing.T) {
	_, err := OpenStore(context.Background(), &config.Config{Database: config.DatabaseConfig{Driver: "sqlite"}})
	assert.Error(t, err)
}
