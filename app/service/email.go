package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/space2study/ms-go-api/config"
)

const (
	EmailSubjectConfirmEmail    = "confirm-email"
	EmailSubjectResetPassword   = "reset-password"
	EmailSubjectPasswordChanged = "password-changed"
)

var ErrTemplateNotFound = errors.New("email template not found")

// MailSender delivers a rendered message. The production implementation is
// an SMTP transport; tests inject a recorder.
type MailSender interface {
	SendMail(from, to, subject, htmlBody string) error
}

type smtpSender struct {
	dialer *gomail.Dialer
}

func NewSMTPSender(cfg config.SMTPConfig) MailSender {
	return &smtpSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
	}
}

func (s *smtpSender) SendMail(from, to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)
	return s.dialer.DialAndSend(m)
}

// EmailService renders a template selected by subject and language and hands
// it to the configured sender.
type EmailService struct {
	sender MailSender
	from   string
}

func NewEmailService(sender MailSender, cfg config.SMTPConfig) *EmailService {
	return &EmailService{sender: sender, from: cfg.From}
}

func (s *EmailService) Send(ctx context.Context, to, subject, lang string, data map[string]string) error {
	template, ok := emailTemplates[subject]
	if !ok {
		return fmt.Errorf("%w: %s", ErrTemplateNotFound, subject)
	}

	localized, ok := template[lang]
	if !ok {
		localized, ok = template[defaultLanguage]
		if !ok {
			return fmt.Errorf("%w: %s (%s)", ErrTemplateNotFound, subject, lang)
		}
	}

	var body bytes.Buffer
	if err := localized.Body.Execute(&body, data); err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	return s.sender.SendMail(s.from, to, localized.Subject, body.String())
}
