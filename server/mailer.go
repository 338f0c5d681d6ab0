package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/wneessen/go-mail"
)

// Mailer delivers a contact-form submission to the site owner.
type Mailer interface {
	SendContact(ctx context.Context, replyTo, subject, message string) error
}

type smtpMailer struct {
	host     string
	port     int
	username string
	password string
	from     string
	to       string
}

func newSMTPMailer() *smtpMailer {
	port := 587
	if v := getenv("SMTP_PORT", ""); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			port = p
		}
	}
	user := getenv("SMTP_USER", "")
	return &smtpMailer{
		host:     getenv("SMTP_HOST", ""),
		port:     port,
		username: user,
		password: getenv("SMTP_PASS", ""),
		from:     getenv("SMTP_FROM", user),
		to:       getenv("CONTACT_TO", user),
	}
}

func (m *smtpMailer) SendContact(ctx context.Context, replyTo, subject, message string) error {
	if m.host == "" {
		return errors.New("smtp not configured")
	}
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return err
	}
	if err := msg.To(m.to); err != nil {
		return err
	}
	if err := msg.ReplyTo(replyTo); err != nil {
		return err
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, fmt.Sprintf("From: %s\n\n%s", replyTo, message))

	client, err := mail.NewClient(m.host,
		mail.WithPort(m.port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.username),
		mail.WithPassword(m.password),
	)
	if err != nil {
		return err
	}
	return client.DialAndSendWithContext(ctx, msg)
}
