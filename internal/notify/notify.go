package notify

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/mailtriage/internal/config"
	"github.com/fyrsmithlabs/mailtriage/internal/logging"
	"github.com/fyrsmithlabs/mailtriage/internal/triage"
)

// ErrNotConfigured is returned by Disabled.
var ErrNotConfigured = errors.New("alert transport not configured")

// Disabled rejects every alert.
type Disabled struct{}

// SendAlert implements triage.AlertSender.
func (Disabled) SendAlert(context.Context, triage.Alert) error {
	return ErrNotConfigured
}

// New returns the sender selected by cfg.Alert.Transport.
func New(cfg *config.Config, logger *logging.Logger) (triage.AlertSender, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	if !cfg.AlertsConfigured() {
		logger.Warn(context.Background(), "alert transport has no credentials, complaint alerts are disabled",
			zap.String("transport", cfg.Alert.Transport))
		return Disabled{}, nil
	}

	a := cfg.Alert
	switch a.Transport {
	case "smtp":
		return NewSMTPSender(SMTPConfig{
			Host:     a.SMTPHost,
			Port:     a.SMTPPort,
			Username: a.Username,
			Password: a.Password.Value(),
			From:     a.From,
			To:       a.To,
			CC:       a.CC,
			Timeout:  a.Timeout.Duration(),
		})
	case "sendgrid":
		return NewSendGridSender(SendGridConfig{
			APIKey: a.SendGridAPIKey.Value(),
			From:   a.From,
			To:     a.To,
			CC:     a.CC,
		})
	}
	return nil, fmt.Errorf("unknown alert transport %q", a.Transport)
}
