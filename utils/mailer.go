package utils

import (
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/alphaingen/medboard/config"
)

// Mailer delivers transactional mail. Registration treats delivery as
// fire-and-forget: a failed send is logged and never fails the request.
type Mailer interface {
	Send(to, subject, htmlBody string) error
}

// SMTPMailer sends mail through the SMTP relay from configuration.
type SMTPMailer struct{}

// NewSMTPMailer returns a Mailer backed by the configured SMTP relay.
func NewSMTPMailer() *SMTPMailer {
	return &SMTPMailer{}
}

// Send delivers a single HTML email.
func (m *SMTPMailer) Send(to, subject, htmlBody string) error {
	cfg := config.Get()
	if cfg.SMTPHost == "" || cfg.SMTPFrom == "" {
		return fmt.Errorf("smtp not configured")
	}
	addr := net.JoinHostPort(cfg.SMTPHost, strconv.Itoa(cfg.SMTPPort))
	auth := smtp.PlainAuth("", cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPHost)

	fromName := cfg.SMTPFromName
	if fromName == "" {
		fromName = "Alphaingen Medical Coding"
	}
	headers := map[string]string{
		"From":         fmt.Sprintf("%s <%s>", encodeRFC2047(fromName), cfg.SMTPFrom),
		"To":           to,
		"Subject":      encodeRFC2047(subject),
		"MIME-Version": "1.0",
		"Content-Type": "text/html; charset=UTF-8",
	}
	var msg strings.Builder
	for k, v := range headers {
		msg.WriteString(fmt.Sprintf("%s: %s\r\n", k, v))
	}
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)

	if cfg.SMTPTLS {
		return m.sendSTARTTLS(addr, auth, to, msg.String())
	}
	return smtp.SendMail(addr, auth, cfg.SMTPFrom, []string{to}, []byte(msg.String()))
}

// sendSTARTTLS dials with timeouts and upgrades the connection when the relay supports it.
func (m *SMTPMailer) sendSTARTTLS(addr string, auth smtp.Auth, to, msg string) error {
	cfg := config.Get()
	d := net.Dialer{Timeout: 5 * time.Second}
	conn, err := d.Dial("tcp", addr)
	if err != nil {
		return err
	}
	_ = conn.SetDeadline(time.Now().Add(15 * time.Second))
	host, _, _ := net.SplitHostPort(addr)
	c, err := smtp.NewClient(conn, host)
	if err != nil {
		_ = conn.Close()
		return err
	}
	defer c.Close()
	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: host}); err != nil {
			return err
		}
	}
	if cfg.SMTPUsername != "" {
		if err := c.Auth(auth); err != nil {
			return err
		}
	}
	if err := c.Mail(cfg.SMTPFrom); err != nil {
		return err
	}
	if err := c.Rcpt(to); err != nil {
		return err
	}
	wc, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := wc.Write([]byte(msg)); err != nil {
		_ = wc.Close()
		return err
	}
	return wc.Close()
}

// WelcomeSubject is the subject line of the registration mail.
const WelcomeSubject = "Thank You for Registering with [Alphaingen Medical Coding]"

// WelcomeBody renders the registration mail body for the given display name.
func WelcomeBody(username string) string {
	return fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 450px; margin: auto; padding: 20px; border: 1px solid #e0e0e0; border-radius: 15px;">
  <h2 style="color: orange;">Thank You for Registering!</h2>
  <p>Dear <b>%s</b>,</p>
  <p>Thank you for registering with us! We're excited to have you here.</p>
  <p>Best regards,<br>[Team Alphaingen Medical Coding]</p>
</div>`, username)
}

// encodeRFC2047 encodes a string for non-ASCII mail headers.
func encodeRFC2047(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] >= 128 {
			return fmt.Sprintf("=?UTF-8?B?%s?=", base64.StdEncoding.EncodeToString([]byte(s)))
		}
	}
	return s
}
