package mailer

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type recordingSender struct {
	to, subject, text, html string
	calls                   int
}

func (s *recordingSender) Send(_ context.Context, to, subject, text, html string) error {
	s.calls++
	s.to, s.subject, s.text, s.html = to, subject, text, html
	return nil
}

func TestDeliverRendersTemplate(t *testing.T) {
	s := &recordingSender{}
	job := EmailJob{
		To:       "a@x.com",
		Template: "welcome",
		Data:     map[string]any{"AppName": "Posts API"},
	}
	if err := Deliver(context.Background(), s, job); err != nil {
		t.Fatalf("Deliver: %v", err)
	}
	if s.subject != "Welcome to Posts API" {
		t.Fatalf("unexpected subject %q", s.subject)
	}
	if !strings.Contains(s.text, "Hi a@x.com") || !strings.Contains(s.html, "a@x.com") {
		t.Fatalf("recipient missing from body: %q", s.text)
	}
}

func TestDeliverPlainMessage(t *testing.T) {
	s := &recordingSender{}
	job := EmailJob{To: "a@x.com", Subject: "hello", Text: "body"}
	if err := Deliver(context.Background(), s, job); err != nil {
		t.Fatalf("Deliver: %v", err)
	}
	if s.subject != "hello" || s.text != "body" || s.html != "" {
		t.Fatalf("unexpected message %#v", s)
	}
}

func TestDeliverRejectsEmptyRecipient(t *testing.T) {
	s := &recordingSender{}
	if err := Deliver(context.Background(), s, EmailJob{Subject: "x"}); !errors.Is(err, ErrEmptyRecipient) {
		t.Fatalf("expected ErrEmptyRecipient, got %v", err)
	}
	if s.calls != 0 {
		t.Fatal("sender should not be called")
	}
}

func TestDeliverUnknownTemplate(t *testing.T) {
	s := &recordingSender{}
	if err := Deliver(context.Background(), s, EmailJob{To: "a@x.com", Template: "nope"}); !Permanent(err) {
		t.Fatalf("expected permanent template error, got %v", err)
	}
}
