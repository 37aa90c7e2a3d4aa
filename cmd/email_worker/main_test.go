package main

import (
	"context"
	"errors"
	"testing"
)

type stubSender struct {
	err   error
	calls int
}

func (s *stubSender) Send(_ context.Context, _, _, _, _ string) error {
	s.calls++
	return s.err
}

func TestProcess(t *testing.T) {
	cases := []struct {
		name    string
		body    string
		sendErr error
		want    outcome
	}{
		{"sent", `{"to":"a@x.com","template":"welcome","data":{"AppName":"Posts"}}`, nil, outcomeAck},
		{"malformed json", `{`, nil, outcomeDrop},
		{"no recipient", `{"subject":"hi","text":"body"}`, nil, outcomeDrop},
		{"unknown template", `{"to":"a@x.com","template":"nope"}`, nil, outcomeDrop},
		{"send failure", `{"to":"a@x.com","subject":"hi","text":"body"}`, errors.New("mailgun down"), outcomeRetry},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := &stubSender{err: tc.sendErr}
			got := process(context.Background(), s, []byte(tc.body))
			if got.outcome != tc.want {
				t.Fatalf("outcome = %d, want %d (err %v)", got.outcome, tc.want, got.err)
			}
		})
	}
}
