// Package mailer delivers outgoing mail with attachments.
package mailer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"gopkg.in/gomail.v2"

	"github.com/jobscout/jobscout/backend/go-services/pkg/logger"
)

var log = logger.For("mailer")

// ErrNotConfigured is returned by SMTPMailer when no SMTP host is set.
var ErrNotConfigured = errors.New("mailer: smtp is not configured")

// Attachment is a file carried by a Message.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Message is one plain-text email.
type Message struct {
	To          string
	Subject     string
	Body        string
	Attachments []Attachment
}

// Mailer sends messages.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// Config holds the SMTP account used for outgoing mail.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	FromName string
}

// SMTPMailer sends through an SMTP relay, dialing once per message.
// Port 465 uses implicit TLS, other ports STARTTLS when offered.
type SMTPMailer struct {
	from     string
	fromName string
	dial     func() (gomail.SendCloser, error)
}

// NewSMTPMailer builds a mailer from cfg. The sender address is the SMTP
// username.
func NewSMTPMailer(cfg Config) *SMTPMailer {
	m := &SMTPMailer{from: cfg.Username, fromName: cfg.FromName}
	if cfg.Host == "" {
		m.dial = func() (gomail.SendCloser, error) { return nil, ErrNotConfigured }
		return m
	}
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.SSL = cfg.Port == 465
	m.dial = d.Dial
	return m
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	gm := m.compose(msg)
	s, err := m.dial()
	if err != nil {
		return fmt.Errorf("dial smtp: %w", err)
	}
	defer s.Close()
	if err := gomail.Send(s, gm); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	log.Infof("sent %q to %s (%d attachments)", msg.Subject, logger.MaskEmail(msg.To), len(msg.Attachments))
	return nil
}

func (m *SMTPMailer) compose(msg Message) *gomail.Message {
	gm := gomail.NewMessage()
	gm.SetAddressHeader("From", m.from, m.fromName)
	gm.SetHeader("To", msg.To)
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/plain", msg.Body)
	for _, a := range msg.Attachments {
		data := a.Data
		gm.Attach(a.Filename,
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := io.Copy(w, bytes.NewReader(data))
				return err
			}),
			gomail.SetHeader(map[string][]string{"Content-Type": {a.ContentType}}),
		)
	}
	return gm
}

// Recorder keeps sent messages in memory. Set Err to make Send fail.
type Recorder struct {
	mu   sync.Mutex
	sent []Message
	Err  error
}

func (r *Recorder) Send(_ context.Context, msg Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.sent = append(r.sent, msg)
	return nil
}

// Sent returns the messages delivered so far.
func (r *Recorder) Sent() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message(nil), r.sent...)
}
