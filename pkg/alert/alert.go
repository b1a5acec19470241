// Package alert notifies operators of engine-level incidents, currently
// circuit-breaker trips on the identity provider. Alerts are best-effort:
// a failed send is logged, never propagated into the search path.
package alert

import (
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"github.com/loomworks/scout/pkg/config"
)

// subjectPrefix marks every outgoing alert so operator inboxes can filter
// on the service.
const subjectPrefix = "[scout]"

// Alerter defines an interface for sending alerts
type Alerter interface {
	Alert(subject, message string) error
}

// EmailAlerter implements Alerter using SMTP
type EmailAlerter struct {
	cfg    config.AlertConfig
	logger *slog.Logger
}

// NewEmailAlerter creates a new email alerter. A nil logger falls back to
// slog.Default().
func NewEmailAlerter(cfg config.AlertConfig, logger *slog.Logger) *EmailAlerter {
	if logger == nil {
		logger = slog.Default()
	}
	return &EmailAlerter{
		cfg:    cfg,
		logger: logger,
	}
}

// Alert sends an email with the given subject and message
func (a *EmailAlerter) Alert(subject, message string) error {
	if !a.cfg.Enabled {
		return nil
	}

	auth := smtp.PlainAuth("", a.cfg.Username, a.cfg.Password, a.cfg.SMTPHost)
	addr := fmt.Sprintf("%s:%d", a.cfg.SMTPHost, a.cfg.SMTPPort)

	err := smtp.SendMail(addr, auth, a.cfg.From, a.cfg.To, buildMessage(a.cfg.To, subject, message))
	if err != nil {
		a.logger.Error("Failed to send alert email", "subject", subject, "error", err)
		return fmt.Errorf("failed to send alert email: %w", err)
	}

	a.logger.Info("Alert email sent", "subject", subject, "recipients", len(a.cfg.To))
	return nil
}

// buildMessage assembles the raw SMTP payload with the service subject
// prefix applied.
func buildMessage(to []string, subject, message string) []byte {
	if !strings.HasPrefix(subject, subjectPrefix) {
		subject = subjectPrefix + " " + subject
	}
	return []byte(fmt.Sprintf("To: %s\r\n"+
		"Subject: %s\r\n"+
		"\r\n"+
		"%s\r\n", strings.Join(to, ","), subject, message))
}

// NoOpAlerter is a dummy alerter for when alerting is disabled
type NoOpAlerter struct{}

func (n *NoOpAlerter) Alert(subject, message string) error {
	return nil
}
