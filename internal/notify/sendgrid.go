package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/fyrsmithlabs/mailtriage/internal/triage"
)

// SendGridConfig configures the SendGrid v3 transport.
type SendGridConfig struct {
	APIKey string
	From   string
	To     string
	CC     []string
}

type sendGridClient interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// SendGridSender posts alerts through the SendGrid v3 mail API.
type SendGridSender struct {
	cfg    SendGridConfig
	client sendGridClient
}

// NewSendGridSender validates cfg and returns a sender.
func NewSendGridSender(cfg SendGridConfig) (*SendGridSender, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("sendgrid api key is required")
	}
	if cfg.From == "" || cfg.To == "" {
		return nil, errors.New("sendgrid from and to addresses are required")
	}
	return &SendGridSender{cfg: cfg, client: sendgrid.NewSendClient(cfg.APIKey)}, nil
}

// SendAlert implements triage.AlertSender.
func (s *SendGridSender) SendAlert(ctx context.Context, alert triage.Alert) error {
	resp, err := s.client.SendWithContext(ctx, s.message(alert))
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid send: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

func (s *SendGridSender) message(alert triage.Alert) *mail.SGMailV3 {
	p := mail.NewPersonalization()
	p.AddTos(mail.NewEmail("", s.cfg.To))
	for _, cc := range s.cfg.CC {
		p.AddCCs(mail.NewEmail("", cc))
	}

	m := mail.NewV3Mail()
	m.SetFrom(mail.NewEmail("", s.cfg.From))
	m.Subject = alert.Subject
	m.AddPersonalizations(p)
	m.AddContent(mail.NewContent("text/plain", alert.Body))
	return m
}
