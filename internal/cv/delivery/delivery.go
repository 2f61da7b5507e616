// Package delivery turns a CV into a downloadable PDF or an email.
package delivery

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jobscout/jobscout/backend/go-services/internal/cv"
	"github.com/jobscout/jobscout/backend/go-services/internal/cv/render"
	"github.com/jobscout/jobscout/backend/go-services/internal/mailer"
	"github.com/jobscout/jobscout/backend/go-services/pkg/logger"
	"github.com/jobscout/jobscout/backend/go-services/pkg/metrics"
)

var log = logger.For("delivery")

// ErrInvalidRecipient is returned by Send for a blank or malformed address.
var ErrInvalidRecipient = errors.New("a valid recipient email is required")

const mailBody = "Attached is your CV generated from CV Builder."

// Renderer lays out a document.
type Renderer interface {
	Render(doc cv.Document) (*render.Result, error)
}

// Output is a rendered CV ready to be served.
type Output struct {
	PDF         []byte
	Filename    string
	ContentType string
	Pages       int
}

type Service struct {
	renderer Renderer
	mailer   mailer.Mailer
	validate *validator.Validate
}

// NewService wires the renderer and mailer. A nil renderer uses the
// default A4 layout.
func NewService(r Renderer, m mailer.Mailer) *Service {
	if r == nil {
		r = render.Default
	}
	return &Service{renderer: r, mailer: m, validate: validator.New()}
}

// Generate validates and renders doc. Validation runs before any layout
// work.
func (s *Service) Generate(doc cv.Document) (*Output, error) {
	if err := doc.ValidateForRender(); err != nil {
		metrics.CVRenders.WithLabelValues("invalid").Inc()
		return nil, err
	}
	start := time.Now()
	res, err := s.renderer.Render(doc)
	metrics.CVRenderDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.CVRenders.WithLabelValues("error").Inc()
		var re *cv.RenderError
		if !errors.As(err, &re) {
			err = &cv.RenderError{Cause: err}
		}
		log.Errorf("render failed: %v", err)
		return nil, err
	}
	metrics.CVRenders.WithLabelValues("ok").Inc()
	metrics.CVPages.Observe(float64(res.PageCount()))
	return &Output{
		PDF:         res.PDF,
		Filename:    cv.SuggestedFilename(doc.PersonalInfo.FullName),
		ContentType: cv.PDFContentType,
		Pages:       res.PageCount(),
	}, nil
}

// Send renders doc and mails it to recipient as an attachment. Mail
// failures come back as *cv.TransportError.
func (s *Service) Send(ctx context.Context, recipient string, doc cv.Document) error {
	recipient = strings.TrimSpace(recipient)
	if err := s.validate.Var(recipient, "required,email"); err != nil {
		return ErrInvalidRecipient
	}
	out, err := s.Generate(doc)
	if err != nil {
		return err
	}
	msg := mailer.Message{
		To:      recipient,
		Subject: "Your CV - " + doc.PersonalInfo.FullName,
		Body:    mailBody,
		Attachments: []mailer.Attachment{{
			Filename:    out.Filename,
			ContentType: out.ContentType,
			Data:        out.PDF,
		}},
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		metrics.MailDeliveries.WithLabelValues("error").Inc()
		log.Errorf("mail to %s failed: %v", logger.MaskEmail(recipient), err)
		return &cv.TransportError{Op: "send cv", Cause: err}
	}
	metrics.MailDeliveries.WithLabelValues("ok").Inc()
	return nil
}

// String helps logging of outputs without dumping bytes.
func (o *Output) String() string {
	return fmt.Sprintf("%s (%d pages, %d bytes)", o.Filename, o.Pages, len(o.PDF))
}
