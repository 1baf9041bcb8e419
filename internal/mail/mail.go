// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package mail sends transactional email over SMTP. It currently carries a
// single message type, the temporary-password reset.
package mail

import (
	"fmt"
	"mime"
	"net/smtp"
	"strings"
)

// Mailer sends plain-text mail through a configured SMTP relay.
type Mailer struct {
	addr string // host:port
	auth smtp.Auth
	from string
}

// New creates a Mailer for the given SMTP relay. When host or from is
// empty, mail is considered unconfigured and (nil, nil) is returned;
// callers treat a nil Mailer as "feature off".
func New(host, port, username, password, from string) (*Mailer, error) {
	if host == "" || from == "" {
		return nil, nil
	}
	if port == "" {
		port = "587"
	}

	var auth smtp.Auth
	if username != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}

	return &Mailer{
		addr: fmt.Sprintf("%s:%s", host, port),
		auth: auth,
		from: from,
	}, nil
}

// Send delivers one plain-text message. Subjects may contain non-ASCII
// text and are MIME-encoded.
func (m *Mailer) Send(to, subject, body string) error {
	msg := buildMessage(m.from, to, subject, body)
	if err := smtp.SendMail(m.addr, m.auth, m.from, []string{to}, msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", subject) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}
