package email

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

// failingEmailService always errors and signals each attempt.
type failingEmailService struct {
	attempts chan string
}

func (f *failingEmailService) SendApplicationSubmitted(toEmail, _ string) error {
	f.attempts <- toEmail
	return errors.New("smtp connection refused")
}

func (f *failingEmailService) SendApplicationApproved(toEmail, _, _ string) error {
	f.attempts <- toEmail
	return errors.New("smtp connection refused")
}

func (f *failingEmailService) SendApplicationRejected(toEmail, _, _ string) error {
	f.attempts <- toEmail
	return errors.New("smtp connection refused")
}

func (f *failingEmailService) SendWelcomeEmail(toEmail, _, _ string) error {
	f.attempts <- toEmail
	return errors.New("smtp connection refused")
}

func waitForAttempt(t *testing.T, ch chan string) string {
	t.Helper()
	select {
	case got := <-ch:
		return got
	case <-time.After(2 * time.Second):
		t.Fatal("notification was never attempted")
		return ""
	}
}

// Delivery failures must never reach the caller; the notify methods return
// immediately and the error is only logged.
func TestNotifierSwallowsDeliveryFailures(t *testing.T) {
	fake := &failingEmailService{attempts: make(chan string, 1)}
	notifier := NewNotifier(fake, zerolog.Nop())

	notifier.NotifySubmitted("jane@example.com", "Jane Smith")
	assert.Equal(t, "jane@example.com", waitForAttempt(t, fake.attempts))

	notifier.NotifyApproved("jane@example.com", "Jane Smith", "accessor")
	assert.Equal(t, "jane@example.com", waitForAttempt(t, fake.attempts))

	notifier.NotifyRejected("jane@example.com", "Jane Smith", "accessor")
	assert.Equal(t, "jane@example.com", waitForAttempt(t, fake.attempts))

	notifier.NotifyWelcome("ada@riverside.example", "Ada Bell", "ada.bell")
	assert.Equal(t, "ada@riverside.example", waitForAttempt(t, fake.attempts))
}
