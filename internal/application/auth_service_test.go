package application

import (
	"context"
	"errors"
	"testing"

	"github.com/oksasatya/go-posts-api/pkg/apperror"
)

func TestLoginRoundTrip(t *testing.T) {
	s := newServices(t)
	u := s.signup(t, "a@x.com")

	tok, err := s.auth.Login(context.Background(), "a@x.com", "pw12345678")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if tok.TokenType != "bearer" || tok.ExpireIn != 60 {
		t.Fatalf("unexpected token %#v", tok)
	}
	caller, err := s.auth.ResolveCaller(tok.AccessToken)
	if err != nil {
		t.Fatalf("ResolveCaller: %v", err)
	}
	if caller.UserID != u.ID || caller.Email != "a@x.com" {
		t.Fatalf("unexpected caller %#v", caller)
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	s := newServices(t)
	s.signup(t, "a@x.com")

	_, wrongPassword := s.auth.Login(context.Background(), "a@x.com", "nope-nope")
	_, unknownEmail := s.auth.Login(context.Background(), "b@x.com", "pw12345678")

	for _, err := range []error{wrongPassword, unknownEmail} {
		if !errors.Is(err, apperror.ErrInvalidCredentials) {
			t.Fatalf("expected invalid credentials, got %v", err)
		}
	}
	if apperror.Message(wrongPassword) != apperror.Message(unknownEmail) {
		t.Fatalf("messages differ: %q vs %q", apperror.Message(wrongPassword), apperror.Message(unknownEmail))
	}
}

func TestResolveCallerRejectsGarbage(t *testing.T) {
	s := newServices(t)
	for _, tok := range []string{"", "not.a.token"} {
		if _, err := s.auth.ResolveCaller(tok); !errors.Is(err, apperror.ErrUnauthenticated) {
			t.Fatalf("%q: expected unauthenticated, got %v", tok, err)
		}
	}
}

func TestCurrentUserRejectsDeletedUser(t *testing.T) {
	s := newServices(t)
	u := s.signup(t, "a@x.com")
	tok, err := s.auth.IssueToken(u.ID, u.Email)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	if _, err := s.auth.CurrentUser(context.Background(), tok.AccessToken); err != nil {
		t.Fatalf("CurrentUser: %v", err)
	}
	if err := s.users.Delete(context.Background(), u.ID, u.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.auth.CurrentUser(context.Background(), tok.AccessToken); !errors.Is(err, apperror.ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
}
