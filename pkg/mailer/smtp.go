package mailer

import (
	"bytes"
	"context"
	"fmt"

	"github.com/wneessen/go-mail"
)

// SMTPSender sends messages over SMTPS (implicit TLS) with PLAIN auth.
type SMTPSender struct {
	config Config
}

// NewSMTPSender creates a sender for the configured relay.
func NewSMTPSender(config Config) *SMTPSender {
	return &SMTPSender{config: config}
}

// Send implements Sender. One connection is opened per message.
func (s *SMTPSender) Send(ctx context.Context, m *Message) error {
	msg, err := s.build(m)
	if err != nil {
		return err
	}

	client, err := mail.NewClient(s.config.Host,
		mail.WithPort(s.config.Port),
		mail.WithSSL(),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.config.Username),
		mail.WithPassword(s.config.Password),
	)
	if err != nil {
		return fmt.Errorf("failed to create smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func (s *SMTPSender) build(m *Message) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if m.FromName != "" {
		if err := msg.FromFormat(m.FromName, m.From); err != nil {
			return nil, fmt.Errorf("invalid from address: %w", err)
		}
	} else if err := msg.From(m.From); err != nil {
		return nil, fmt.Errorf("invalid from address: %w", err)
	}
	if err := msg.To(m.To); err != nil {
		return nil, fmt.Errorf("invalid recipient: %w", err)
	}
	if len(m.Bcc) > 0 {
		if err := msg.Bcc(m.Bcc...); err != nil {
			return nil, fmt.Errorf("invalid bcc: %w", err)
		}
	}
	msg.Subject(m.Subject)
	msg.SetBodyString(mail.TypeTextPlain, m.Body)
	for _, a := range m.Attachments {
		if err := msg.AttachReader(a.Filename, bytes.NewReader(a.Content)); err != nil {
			return nil, fmt.Errorf("failed to attach %s: %w", a.Filename, err)
		}
	}
	return msg, nil
}
