package email

import (
	"fmt"

	gomail "github.com/go-mail/mail"

	"github.com/dailymd-dev/dailymd/internal/config"
)

// Mailer is the outbound mail boundary consumed by the services. Whether a
// send failure aborts the enclosing operation is decided by the caller, not
// here: registration and reset issuance gate on it, everything else logs and
// moves on.
type Mailer interface {
	SendVerification(to, fullName, verifyId string) error
	SendResetRequest(to, fullName, code, linkId string) error
	SendPasswordChanged(to, fullName string) error
}

type Email struct {
	cfg     *config.Email
	siteURL string
	dialer  *gomail.Dialer
}

func New(cfg *config.Email, siteURL string) *Email {
	d := gomail.NewDialer(cfg.SMTPServer, cfg.SMTPPort, cfg.Username, cfg.Password)
	return &Email{cfg: cfg, siteURL: siteURL, dialer: d}
}

func (e *Email) send(to, toName, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", e.cfg.Username, e.cfg.SenderName)
	m.SetAddressHeader("To", to, toName)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)
	return e.dialer.DialAndSend(m)
}

func (e *Email) SendVerification(to, fullName, verifyId string) error {
	url := fmt.Sprintf("%s/user/verify/%s", e.siteURL, verifyId)
	return e.send(to, fullName,
		"The Daily Markdown: Verify your Account",
		verificationBody(fullName, url, e.cfg.SenderName))
}

func (e *Email) SendResetRequest(to, fullName, code, linkId string) error {
	url := fmt.Sprintf("%s/user/authenticatePasswordReset/%s", e.siteURL, linkId)
	return e.send(to, fullName,
		"The Daily Markdown: Password Reset Requested",
		resetRequestBody(fullName, code, url, e.cfg.SenderName))
}

func (e *Email) SendPasswordChanged(to, fullName string) error {
	return e.send(to, fullName,
		"The Daily Markdown: Password Changed",
		passwordChangedBody(fullName, e.cfg.SenderName))
}
