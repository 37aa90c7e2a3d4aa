package mailer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	mailtpl "github.com/oksasatya/go-posts-api/pkg/mailer/templates"
)

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Either Template (with Data) or an explicit Subject and Text/HTML body is set.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"` // e.g. "welcome", "account_deleted"
	Data     map[string]any `json:"data,omitempty"`
}

// Sender delivers one rendered message.
type Sender interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

var (
	ErrEmptyRecipient = errors.New("email job has no recipient")
	ErrTemplate       = errors.New("email template")
)

// Permanent reports whether err can never succeed on retry.
func Permanent(err error) bool {
	return errors.Is(err, ErrEmptyRecipient) || errors.Is(err, ErrTemplate)
}

// Deliver renders the job's template, if any, and hands the message to s.
func Deliver(ctx context.Context, s Sender, job EmailJob) error {
	if strings.TrimSpace(job.To) == "" {
		return ErrEmptyRecipient
	}
	subject, text, html := job.Subject, job.Text, job.HTML
	if job.Template != "" {
		if job.Data == nil {
			job.Data = map[string]any{}
		}
		if v, ok := job.Data["Email"]; !ok || fmt.Sprintf("%v", v) == "" {
			job.Data["Email"] = job.To
		}
		var err error
		subject, text, html, err = mailtpl.Render(job.Template, job.Data)
		if err != nil {
			return fmt.Errorf("%w %s: %v", ErrTemplate, job.Template, err)
		}
	}
	return s.Send(ctx, job.To, strings.TrimSpace(subject), text, html)
}
