package mail

import (
	"Inkwell/internal/api/config"
	"context"
	"crypto/tls"
	"errors"
	log "log/slog"

	gomail "github.com/go-mail/mail/v2"
)

var ErrNotConfigured = errors.New("smtp not configured")

// Mailer SMTP 发信
type Mailer struct {
	cfg config.MailConfig
}

func NewMailer(cfg config.MailConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

// Enabled 未配置 SMTP 时只写站内信
func (s *Mailer) Enabled() bool {
	return s.cfg.Host != "" && s.cfg.From != ""
}

// Send 发送 HTML 邮件，587 端口强制 STARTTLS
func (s *Mailer) Send(ctx context.Context, to []string, subject, html string) error {
	if len(to) == 0 {
		return nil
	}
	if !s.Enabled() {
		return ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	d := s.dialer()
	if err := d.DialAndSend(s.buildMessage(to, subject, html)); err != nil {
		log.WarnContext(ctx, "邮件发送失败", "to", to, "subject", subject, "err", err)
		return err
	}
	return nil
}

func (s *Mailer) buildMessage(to []string, subject, html string) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", html)
	return m
}

func (s *Mailer) dialer() *gomail.Dialer {
	port := s.cfg.Port
	if port == 0 {
		port = 587
	}
	d := gomail.NewDialer(s.cfg.Host, port, s.cfg.Username, s.cfg.Password)
	d.StartTLSPolicy = gomail.MandatoryStartTLS
	d.TLSConfig = &tls.Config{
		ServerName:         s.cfg.Host,
		InsecureSkipVerify: s.cfg.SkipTLSVerify,
	}
	return d
}
