package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestIsMatchesByKind(t *testing.T) {
	err := NotFound("post not found")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected errors.Is to match ErrNotFound")
	}
	if errors.Is(err, ErrForbidden) {
		t.Fatalf("did not expect match with ErrForbidden")
	}

	wrapped := fmt.Errorf("load: %w", err)
	if !errors.Is(wrapped, ErrNotFound) {
		t.Fatalf("expected wrapped error to match ErrNotFound")
	}
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{InvalidIdentifier("invalid post id"), http.StatusBadRequest},
		{NotFound("x"), http.StatusNotFound},
		{Validation("x"), http.StatusBadRequest},
		{Forbidden("x"), http.StatusForbidden},
		{Unauthenticated("x"), http.StatusUnauthorized},
		{ErrInvalidCredentials, http.StatusUnauthorized},
		{ErrAlreadyVoted, http.StatusBadRequest},
		{ErrVoteNotFound, http.StatusNotFound},
		{Query("x"), http.StatusBadRequest},
		{Unavailable("x"), http.StatusServiceUnavailable},
		{New(KindRateLimited, "slow down"), http.StatusTooManyRequests},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := HTTPStatus(tc.err); got != tc.want {
			t.Fatalf("HTTPStatus(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestMessageHidesInternalCause(t *testing.T) {
	err := Wrap(KindInternal, "pq: connection reset", errors.New("io"))
	if got := Message(err); got != "internal server error" {
		t.Fatalf("unexpected message %q", got)
	}
	if got := Message(errors.New("raw driver text")); got != "internal server error" {
		t.Fatalf("unexpected message %q", got)
	}
	if got := Message(Validation("invalid value for field title")); got != "invalid value for field title" {
		t.Fatalf("unexpected message %q", got)
	}
}
