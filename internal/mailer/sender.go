package mailer

import (
	"context"
	"log/slog"

	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal"
	"gopkg.in/gomail.v2"
)

type Message struct {
	To      string
	Subject string
	Body    string
	HTML    bool
}

// Sender delivers one message to one recipient. Each call is a single attempt.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPSender(cfg internal.MailConfig) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	if msg.HTML {
		m.SetBody("text/html", msg.Body)
	} else {
		m.SetBody("text/plain", msg.Body)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.dialer.DialAndSend(m)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return internal.NewExternalError("email delivery failed", internal.ErrCodeTransportFailure, err)
		}
		return nil
	case <-ctx.Done():
		return internal.NewExternalError("email delivery cancelled", internal.ErrCodeTransportFailure, ctx.Err())
	}
}

// LogSender writes messages to the log instead of an SMTP server.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(ctx context.Context, msg Message) error {
	s.logger.InfoContext(ctx, "email (log sender)",
		"to", msg.To,
		"subject", msg.Subject,
		"html", msg.HTML,
		"body_length", len(msg.Body))
	return nil
}

// NewSender picks SMTP when a host is configured.
func NewSender(cfg internal.MailConfig, logger *slog.Logger) Sender {
	if cfg.Host == "" {
		logger.Warn("mail host not configured, emails will only be logged")
		return NewLogSender(logger)
	}
	return NewSMTPSender(cfg)
}
