package service

import (
	"context"
	"fmt"

	mail "github.com/go-mail/mail/v2"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"volunteer-hub-backend/internal/logger"
)

// emailMessage is a rendered message ready for a provider.
type emailMessage struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// mailSender delivers a rendered message.
type mailSender interface {
	send(ctx context.Context, msg emailMessage) error
}

type emailService struct {
	sender   mailSender
	provider string
}

func (s *emailService) SendPasswordReset(ctx context.Context, email, resetLink string) error {
	return s.deliver(ctx, passwordResetMessage(email, resetLink))
}

func (s *emailService) SendAttendanceReminder(ctx context.Context, email, organizationName, opportunityTitle string, unmarked int) error {
	return s.deliver(ctx, attendanceReminderMessage(email, organizationName, opportunityTitle, unmarked))
}

func (s *emailService) deliver(ctx context.Context, msg emailMessage) error {
	logger.ExternalServiceCall(s.provider, "Send", "subject", msg.Subject)
	err := s.sender.send(ctx, msg)
	logger.ExternalServiceResult(s.provider, "Send", err)
	return err
}

func passwordResetMessage(to, link string) emailMessage {
	return emailMessage{
		To:      to,
		Subject: "Reset your Volunteer Hub password",
		Text: fmt.Sprintf("Hello,\n\nWe received a request to reset your password. Open the link below within one hour to choose a new one:\n\n%s\n\n"+
			"If you did not request this, you can ignore this email.\n\nThe Volunteer Hub Team", link),
		HTML: fmt.Sprintf("<p>Hello,</p><p>We received a request to reset your password. "+
			"Open the link below within one hour to choose a new one:</p><p><a href=\"%s\">Reset password</a></p>"+
			"<p>If you did not request this, you can ignore this email.</p><p>The Volunteer Hub Team</p>", link),
	}
}

func attendanceReminderMessage(to, organizationName, opportunityTitle string, unmarked int) emailMessage {
	return emailMessage{
		To:      to,
		Subject: fmt.Sprintf("Confirm attendance for %s", opportunityTitle),
		Text: fmt.Sprintf("Hello %s,\n\n%q has ended and %d confirmed volunteer(s) are still waiting for their attendance to be marked. "+
			"Marking attendance credits their volunteer hours.\n\nThe Volunteer Hub Team", organizationName, opportunityTitle, unmarked),
		HTML: fmt.Sprintf("<p>Hello %s,</p><p><strong>%s</strong> has ended and %d confirmed volunteer(s) are still waiting for their attendance to be marked. "+
			"Marking attendance credits their volunteer hours.</p><p>The Volunteer Hub Team</p>", organizationName, opportunityTitle, unmarked),
	}
}

// SMTP

type smtpSender struct {
	dialer *mail.Dialer
	from   string
}

func NewSMTPEmailService(host string, port int, username, password, from string) EmailService {
	d := mail.NewDialer(host, port, username, password)
	d.StartTLSPolicy = mail.MandatoryStartTLS
	return &emailService{sender: &smtpSender{dialer: d, from: from}, provider: "smtp"}
}

func (s *smtpSender) send(ctx context.Context, msg emailMessage) error {
	m := mail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Text)
	m.AddAlternative("text/html", msg.HTML)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email via smtp: %w", err)
	}
	return nil
}

// SendGrid

type sendGridSender struct {
	client   *sendgrid.Client
	from     string
	fromName string
}

func NewSendGridEmailService(apiKey, from, fromName string) EmailService {
	return &emailService{
		sender:   &sendGridSender{client: sendgrid.NewSendClient(apiKey), from: from, fromName: fromName},
		provider: "sendgrid",
	}
}

func (s *sendGridSender) send(ctx context.Context, msg emailMessage) error {
	from := sgmail.NewEmail(s.fromName, s.from)
	to := sgmail.NewEmail("", msg.To)
	message := sgmail.NewSingleEmail(from, msg.Subject, to, msg.Text, msg.HTML)

	resp, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send email via sendgrid: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

// Log

type logSender struct{}

// NewLogEmailService writes emails to the log instead of sending them. Used in development.
func NewLogEmailService() EmailService {
	return &emailService{sender: logSender{}, provider: "log"}
}

func (logSender) send(ctx context.Context, msg emailMessage) error {
	logger.InfoContext(ctx, "Email not sent (log provider)", "to", msg.To, "subject", msg.Subject, "body", msg.Text)
	return nil
}
