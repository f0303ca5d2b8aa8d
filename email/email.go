// Package email delivers club communications.
package email

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

// Message is a single email to one recipient
type Message struct {
	ToEmail   string
	ToName    string
	Subject   string
	PlainText string
	HTML      string
}

// Sender delivers a message
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SendGrid sends mail through the SendGrid v3 API
type SendGrid struct {
	apiKey    string
	fromEmail string
	fromName  string
	host      string
}

// NewSendGrid returns a SendGrid sender
func NewSendGrid(apiKey, fromEmail, fromName string) *SendGrid {
	return &SendGrid{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
		host:      "https://api.sendgrid.com",
	}
}

// Send delivers msg and treats any 4xx or 5xx reply as a failure
func (s *SendGrid) Send(ctx context.Context, msg Message) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail(msg.ToName, msg.ToEmail)
	message := mail.NewSingleEmail(from, msg.Subject, to, msg.PlainText, msg.HTML)

	request := sendgrid.GetRequest(s.apiKey, "/v3/mail/send", s.host)
	request.Method = "POST"
	client := &sendgrid.Client{Request: request}

	response, err := client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}

// LogSender only logs messages. It is used when no SendGrid key is configured.
type LogSender struct{}

// Send logs msg
func (LogSender) Send(_ context.Context, msg Message) error {
	zap.S().Infow("email not sent, no provider configured",
		"to", msg.ToEmail,
		"subject", msg.Subject,
	)
	return nil
}

// New returns a SendGrid sender when apiKey is set and a LogSender otherwise
func New(apiKey, fromEmail, fromName string) Sender {
	if apiKey == "" {
		return LogSender{}
	}
	return NewSendGrid(apiKey, fromEmail, fromName)
}
