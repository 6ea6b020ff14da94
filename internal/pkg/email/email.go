package email

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strconv"

	"github.com/rs/zerolog"
)

// EmailService defines the interface for email operations
type EmailService interface {
	SendApplicationSubmitted(toEmail, studentName string) error
	SendApplicationApproved(toEmail, studentName, stageName string) error
	SendApplicationRejected(toEmail, studentName, stageName string) error
	SendWelcomeEmail(toEmail, toName, username string) error
}

// SMTPConfig holds configuration for SMTP server
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
	UseTLS    bool
	BaseURL   string // Base URL for the application
}

// EmailServiceImpl implements EmailService
type EmailServiceImpl struct {
	config SMTPConfig
	logger zerolog.Logger
}

// NewEmailService creates a new EmailService
func NewEmailService(config SMTPConfig, logger zerolog.Logger) EmailService {
	return &EmailServiceImpl{
		config: config,
		logger: logger,
	}
}

// SendApplicationSubmitted notifies a prospective student that their
// application has been recorded and forwarded for review.
func (s *EmailServiceImpl) SendApplicationSubmitted(toEmail, studentName string) error {
	if !s.configured() {
		s.logger.Warn().
			Str("toEmail", toEmail).
			Str("student", studentName).
			Msg("SMTP credentials not configured - application submitted email not sent.")
		return nil
	}
	subject := "Your Application Has Been Received - Audease"

	body := fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h2 style="color: #333;">Application Received</h2>
				<p>Hello %s,</p>
				<p>Thank you for your application. It has been received and forwarded to our admissions team for review.</p>

				<p>We will contact you as soon as the review is complete. No further action is needed from you at this stage.</p>

				<p>Best regards,<br>The Admissions Team</p>
			</div>
		</body>
		</html>
	`, studentName)

	return s.sendHTMLEmail(toEmail, subject, body)
}

// SendApplicationApproved notifies a prospective student that a review
// stage approved their application.
func (s *EmailServiceImpl) SendApplicationApproved(toEmail, studentName, stageName string) error {
	if !s.configured() {
		s.logger.Warn().
			Str("toEmail", toEmail).
			Str("student", studentName).
			Str("stage", stageName).
			Msg("SMTP credentials not configured - approval email not sent.")
		return nil
	}
	subject := "Good News About Your Application - Audease"

	body := fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h2 style="color: #333;">Application Approved</h2>
				<p>Hello %s,</p>
				<p>Your application has passed the %s review stage. It will now move on to the next step of the enrolment process.</p>

				<p>We will be in touch with details about what happens next.</p>

				<p>Best regards,<br>The Admissions Team</p>
			</div>
		</body>
		</html>
	`, studentName, stageName)

	return s.sendHTMLEmail(toEmail, subject, body)
}

// SendApplicationRejected notifies a prospective student that a review
// stage rejected their application.
func (s *EmailServiceImpl) SendApplicationRejected(toEmail, studentName, stageName string) error {
	if !s.configured() {
		s.logger.Warn().
			Str("toEmail", toEmail).
			Str("student", studentName).
			Str("stage", stageName).
			Msg("SMTP credentials not configured - rejection email not sent.")
		return nil
	}
	subject := "An Update on Your Application - Audease"

	body := fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h2 style="color: #333;">Application Update</h2>
				<p>Hello %s,</p>
				<p>We are sorry to let you know that your application was not successful at the %s review stage.</p>

				<p>If you believe this decision was made in error, or you would like feedback, please contact the admissions office.</p>

				<p>Best regards,<br>The Admissions Team</p>
			</div>
		</body>
		</html>
	`, studentName, stageName)

	return s.sendHTMLEmail(toEmail, subject, body)
}

// SendWelcomeEmail sends login details to a newly created staff account
func (s *EmailServiceImpl) SendWelcomeEmail(toEmail, toName, username string) error {
	if !s.configured() {
		s.logger.Warn().
			Str("toEmail", toEmail).
			Str("toName", toName).
			Msg("SMTP credentials not configured - welcome email not sent.")
		return nil
	}
	subject := "Welcome to Audease - Your Account is Ready"

	body := fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h2 style="color: #333;">Welcome to Audease!</h2>
				<p>Hello %s,</p>
				<p>An account has been created for you. You can sign in with the username <strong>%s</strong> at the address below:</p>

				<div style="text-align: center; margin: 30px 0;">
					<a href="%s" style="background-color: #4a86e8; color: white; padding: 12px 24px; text-decoration: none; border-radius: 4px; font-weight: bold;">Sign In</a>
				</div>

				<p>Please change your password after your first login.</p>

				<p>Best regards,<br>The Audease Team</p>
			</div>
		</body>
		</html>
	`, toName, username, s.config.BaseURL)

	return s.sendHTMLEmail(toEmail, subject, body)
}

func (s *EmailServiceImpl) configured() bool {
	return s.config.Username != "" && s.config.Password != ""
}

// sendHTMLEmail sends an HTML email
func (s *EmailServiceImpl) sendHTMLEmail(toEmail, subject, htmlBody string) error {
	// Set up authentication information
	auth := smtp.PlainAuth(
		"",
		s.config.Username,
		s.config.Password,
		s.config.Host,
	)

	// Set up email headers
	headers := make(map[string]string)
	headers["From"] = fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromEmail)
	headers["To"] = toEmail
	headers["Subject"] = subject
	headers["MIME-Version"] = "1.0"
	headers["Content-Type"] = "text/html; charset=UTF-8"

	// Construct message
	message := ""
	for key, value := range headers {
		message += fmt.Sprintf("%s: %s\r\n", key, value)
	}
	message += "\r\n" + htmlBody

	serverAddress := s.config.Host + ":" + strconv.Itoa(s.config.Port)

	// Use TLS if configured
	if s.config.UseTLS {
		tlsConfig := &tls.Config{
			InsecureSkipVerify: true,
			ServerName:         s.config.Host,
		}

		conn, err := tls.Dial("tcp", serverAddress, tlsConfig)
		if err != nil {
			s.logger.Error().Err(err).Str("server", serverAddress).Msg("Failed to connect to SMTP server")
			return fmt.Errorf("failed to connect to SMTP server: %w", err)
		}
		defer conn.Close()

		client, err := smtp.NewClient(conn, s.config.Host)
		if err != nil {
			s.logger.Error().Err(err).Msg("Failed to create SMTP client")
			return fmt.Errorf("failed to create SMTP client: %w", err)
		}
		defer client.Quit()

		if err = client.Auth(auth); err != nil {
			s.logger.Error().Err(err).Msg("SMTP authentication failed")
			return fmt.Errorf("SMTP authentication failed: %w", err)
		}

		if err = client.Mail(s.config.FromEmail); err != nil {
			return fmt.Errorf("failed to set sender: %w", err)
		}
		if err = client.Rcpt(toEmail); err != nil {
			return fmt.Errorf("failed to set recipient: %w", err)
		}

		w, err := client.Data()
		if err != nil {
			return fmt.Errorf("failed to get data writer: %w", err)
		}
		_, err = w.Write([]byte(message))
		if err != nil {
			return fmt.Errorf("failed to write email message: %w", err)
		}
		err = w.Close()
		if err != nil {
			return fmt.Errorf("failed to close data writer: %w", err)
		}

		return nil
	}

	// Simple SMTP without TLS
	err := smtp.SendMail(
		serverAddress,
		auth,
		s.config.FromEmail,
		[]string{toEmail},
		[]byte(message),
	)
	if err != nil {
		s.logger.Error().Err(err).Str("server", serverAddress).Msg("Failed to send email")
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
