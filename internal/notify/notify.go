// Copyright (c) 2026 Identra. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package notify implements the best-effort welcome notification.

The welcome mail is a side effect of signup, never part of its outcome: the
auth service spawns it on its own goroutine and does not await it. A delivery
failure is recorded on the audit/log channel and nothing else.

When SMTP credentials are absent from the configuration, the notifier is
replaced by [NopNotifier] and the side effect is silently disabled.
*/
package notify

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"
)

// Welcome mail content.
const (
	welcomeSubject = "Welcome to Our App!"
	welcomeBody    = "Thanks for signing up! We are excited to have you with us."
)

// Notifier sends account lifecycle notifications.
type Notifier interface {
	// SendWelcome delivers the post-signup greeting to a new account.
	SendWelcome(ctx context.Context, email, name string) error
}

// NopNotifier is a Notifier that does nothing. Installed when mail
// credentials are not configured.
type NopNotifier struct{}

// SendWelcome implements [Notifier] by doing nothing.
func (NopNotifier) SendWelcome(context.Context, string, string) error { return nil }

// SMTPNotifier delivers notifications through an SMTP relay.
type SMTPNotifier struct {
	host     string
	port     int
	username string
	password string
	from     string
}

// SMTPConfig holds the relay settings for an [SMTPNotifier].
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// NewSMTPNotifier constructs an SMTP-backed [Notifier].
func NewSMTPNotifier(cfg SMTPConfig) *SMTPNotifier {
	return &SMTPNotifier{
		host:     cfg.Host,
		port:     cfg.Port,
		username: cfg.Username,
		password: cfg.Password,
		from:     cfg.From,
	}
}

/*
SendWelcome delivers the welcome greeting to a freshly created account.

Description: Builds and sends a plain-text message over an authenticated
STARTTLS session. The connection is created per call — signup volume does not
justify a persistent SMTP session.

Parameters:
  - ctx: context.Context
  - email: string (recipient address)
  - name: string (recipient display name)

Returns:
  - error: Connection, authentication, or delivery failures
*/
func (notifier *SMTPNotifier) SendWelcome(ctx context.Context, email, name string) error {
	message := mail.NewMsg()
	if err := message.From(notifier.from); err != nil {
		return fmt.Errorf("notify: invalid from address: %w", err)
	}
	if err := message.AddToFormat(name, email); err != nil {
		return fmt.Errorf("notify: invalid recipient address: %w", err)
	}

	message.Subject(welcomeSubject)
	message.SetBodyString(mail.TypeTextPlain, welcomeBody)

	client, err := mail.NewClient(notifier.host,
		mail.WithPort(notifier.port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(notifier.username),
		mail.WithPassword(notifier.password),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return fmt.Errorf("notify: failed to create smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, message); err != nil {
		return fmt.Errorf("notify: failed to send welcome mail: %w", err)
	}

	return nil
}
