package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Mailer sends a plain-text message.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// FileMailer writes every message as an .eml file; used in development.
type FileMailer struct {
	dir  string
	from string
	now  func() time.Time
}

func NewFileMailer(dir, from string) *FileMailer {
	return &FileMailer{dir: dir, from: from, now: time.Now}
}

func (m *FileMailer) Send(_ context.Context, to, subject, body string) error {
	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return fmt.Errorf("mail dir: %w", err)
	}
	now := m.now().UTC()
	name := now.Format("20060102-150405") + "-" + uuid.NewString()[:8] + ".eml"
	msg := message(m.from, to, subject, body, now)
	if err := os.WriteFile(filepath.Join(m.dir, name), msg, 0o644); err != nil {
		return fmt.Errorf("write mail: %w", err)
	}
	return nil
}

// SMTPMailer delivers through an SMTP relay with PLAIN auth when a user is set.
type SMTPMailer struct {
	addr string
	host string
	auth smtp.Auth
	from string
	now  func() time.Time
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPMailer(host string, port int, user, password, from string) *SMTPMailer {
	m := &SMTPMailer{
		addr: host + ":" + strconv.Itoa(port),
		host: host,
		from: from,
		now:  time.Now,
		send: smtp.SendMail,
	}
	if user != "" {
		m.auth = smtp.PlainAuth("", user, password, host)
	}
	return m
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := message(m.from, to, subject, body, m.now().UTC())
	if err := m.send(m.addr, m.auth, m.from, []string{to}, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func message(from, to, subject, body string, at time.Time) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("Date: " + at.Format(time.RFC1123Z) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	b.WriteString(body)
	b.WriteString("\r\n")
	return []byte(b.String())
}
