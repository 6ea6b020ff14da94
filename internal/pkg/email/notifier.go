package email

import (
	"github.com/rs/zerolog"
)

// Notifier sends workflow notifications without blocking the caller.
// Delivery failures are logged and never surfaced to the request path.
type Notifier struct {
	emails EmailService
	logger zerolog.Logger
}

// NewNotifier creates a Notifier backed by the given EmailService.
func NewNotifier(emails EmailService, logger zerolog.Logger) *Notifier {
	return &Notifier{emails: emails, logger: logger}
}

// NotifySubmitted dispatches an application received email in the background.
func (n *Notifier) NotifySubmitted(toEmail, studentName string) {
	n.dispatch("application_submitted", toEmail, func() error {
		return n.emails.SendApplicationSubmitted(toEmail, studentName)
	})
}

// NotifyApproved dispatches a stage approval email in the background.
func (n *Notifier) NotifyApproved(toEmail, studentName, stageName string) {
	n.dispatch("application_approved", toEmail, func() error {
		return n.emails.SendApplicationApproved(toEmail, studentName, stageName)
	})
}

// NotifyRejected dispatches a stage rejection email in the background.
func (n *Notifier) NotifyRejected(toEmail, studentName, stageName string) {
	n.dispatch("application_rejected", toEmail, func() error {
		return n.emails.SendApplicationRejected(toEmail, studentName, stageName)
	})
}

// NotifyWelcome dispatches a new account welcome email in the background.
func (n *Notifier) NotifyWelcome(toEmail, toName, username string) {
	n.dispatch("welcome", toEmail, func() error {
		return n.emails.SendWelcomeEmail(toEmail, toName, username)
	})
}

func (n *Notifier) dispatch(kind, toEmail string, send func() error) {
	go func() {
		if err := send(); err != nil {
			n.logger.Error().
				Err(err).
				Str("kind", kind).
				Str("toEmail", toEmail).
				Msg("Failed to send notification email")
		}
	}()
}
