package email

import (
	"fmt"
	"net/smtp"

	"github.com/rs/zerolog"
)

// Sender delivers transactional e-mail
type Sender interface {
	SendVerificationCode(to, code string) error
}

// SMTPConfig holds SMTP connection settings
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type smtpSender struct {
	cfg SMTPConfig
}

// NewSMTPSender creates a Sender backed by plain SMTP auth
func NewSMTPSender(cfg SMTPConfig) Sender {
	return &smtpSender{cfg: cfg}
}

func (s *smtpSender) SendVerificationCode(to, code string) error {
	subject := "Your EchoRoom verification code"
	body := fmt.Sprintf(
		"Hi,\r\n\r\nYour verification code is: %s\r\n\r\nIt expires in 10 minutes.\r\n\r\nThe EchoRoom team\r\n",
		code,
	)
	msg := []byte(fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s", s.cfg.From, to, subject, body))

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	return smtp.SendMail(addr, auth, s.cfg.From, []string{to}, msg)
}

type logSender struct {
	log *zerolog.Logger
}

// NewLogSender creates a Sender that only logs the code (development mode)
func NewLogSender(log *zerolog.Logger) Sender {
	return &logSender{log: log}
}

func (s *logSender) SendVerificationCode(to, code string) error {
	s.log.Info().Str("to", to).Str("code", code).Msg("verification code (dev mode, not sent)")
	return nil
}
