package mailer

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type captureSender struct {
	from   string
	to     []string
	raw    bytes.Buffer
	closed bool
	err    error
}

func (c *captureSender) Send(from string, to []string, msg io.WriterTo) error {
	if c.err != nil {
		return c.err
	}
	c.from, c.to = from, to
	_, err := msg.WriteTo(&c.raw)
	return err
}

func (c *captureSender) Close() error {
	c.closed = true
	return nil
}

func testMailer(s *captureSender) *SMTPMailer {
	m := NewSMTPMailer(Config{Host: "smtp.test", Port: 587, Username: "cv@jobscout.test", FromName: "CV Builder"})
	m.dial = func() (gomail.SendCloser, error) { return s, nil }
	return m
}

func TestSMTPMailer_Send(t *testing.T) {
	s := &captureSender{}
	m := testMailer(s)
	err := m.Send(context.Background(), Message{
		To:      "hr@corp.test",
		Subject: "Your CV - Ann Lee",
		Body:    "Attached is your CV generated from CV Builder.",
		Attachments: []Attachment{{
			Filename: "Ann_Lee_CV.pdf", ContentType: "application/pdf", Data: []byte("%PDF-1.3 fake"),
		}},
	})
	require.NoError(t, err)
	assert.True(t, s.closed)
	assert.Equal(t, "cv@jobscout.test", s.from)
	assert.Equal(t, []string{"hr@corp.test"}, s.to)

	raw := s.raw.String()
	assert.Contains(t, raw, `From: "CV Builder" <cv@jobscout.test>`)
	assert.Contains(t, raw, "Subject: Your CV - Ann Lee")
	assert.Contains(t, raw, `filename="Ann_Lee_CV.pdf"`)
	assert.Contains(t, raw, "Content-Type: application/pdf")
	assert.Contains(t, raw, "Attached is your CV generated from CV Builder.")
}

func TestSMTPMailer_Errors(t *testing.T) {
	s := &captureSender{err: errors.New("550 rejected")}
	err := testMailer(s).Send(context.Background(), Message{To: "a@b.c", Subject: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "550 rejected")

	err = NewSMTPMailer(Config{}).Send(context.Background(), Message{To: "a@b.c"})
	require.ErrorIs(t, err, ErrNotConfigured)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = testMailer(&captureSender{}).Send(ctx, Message{To: "a@b.c"})
	require.ErrorIs(t, err, context.Canceled)
}

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	require.NoError(t, r.Send(context.Background(), Message{To: "a@b.c"}))
	require.Len(t, r.Sent(), 1)

	r.Err = errors.New("down")
	require.Error(t, r.Send(context.Background(), Message{To: "x@y.z"}))
	require.Len(t, r.Sent(), 1)
}
