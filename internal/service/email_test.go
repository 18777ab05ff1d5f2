package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	sent []emailMessage
	err  error
}

func (r *recordingSender) send(ctx context.Context, msg emailMessage) error {
	r.sent = append(r.sent, msg)
	return r.err
}

func TestEmailService_PasswordReset(t *testing.T) {
	sender := &recordingSender{}
	svc := &emailService{sender: sender, provider: "test"}

	err := svc.SendPasswordReset(context.Background(), "ann@example.com", "http://localhost:3000/reset-password?token=abc")
	require.NoError(t, err)
	require.Len(t, sender.sent, 1)

	msg := sender.sent[0]
	assert.Equal(t, "ann@example.com", msg.To)
	assert.Contains(t, msg.Text, "reset-password?token=abc")
	assert.Contains(t, msg.HTML, `href="http://localhost:3000/reset-password?token=abc"`)
}

func TestEmailService_AttendanceReminder(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		sender := &recordingSender{}
		svc := &emailService{sender: sender, provider: "test"}

		err := svc.SendAttendanceReminder(context.Background(), "org@example.com", "Green Earth", "Beach cleanup", 3)
		require.NoError(t, err)
		assert.Equal(t, "Confirm attendance for Beach cleanup", sender.sent[0].Subject)
		assert.Contains(t, sender.sent[0].Text, "3 confirmed volunteer(s)")
	})

	t.Run("Provider Failure", func(t *testing.T) {
		sender := &recordingSender{err: errors.New("relay down")}
		svc := &emailService{sender: sender, provider: "test"}

		err := svc.SendAttendanceReminder(context.Background(), "org@example.com", "Green Earth", "Beach cleanup", 1)
		assert.EqualError(t, err, "relay down")
	})
}

func TestLogEmailService(t *testing.T) {
	svc := NewLogEmailService()
	assert.NoError(t, svc.SendPasswordReset(context.Background(), "ann@example.com", "link"))
}
