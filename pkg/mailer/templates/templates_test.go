package templates

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/oksasatya/go-posts-api/config"
)

func TestRenderAllTemplates(t *testing.T) {
	cfg := &config.Config{AppName: "Posts API", SupportURL: "https://example.com/help"}
	at := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)
	cases := map[string]map[string]any{
		Welcome:        Data(cfg, Welcome, "a@x.com"),
		AccountDeleted: Data(cfg, AccountDeleted, "a@x.com", WithTime(at)),
	}
	for name, data := range cases {
		subject, text, html, err := Render(name, data)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if !strings.Contains(subject, "Posts API") {
			t.Fatalf("%s: subject %q lacks app name", name, subject)
		}
		if !strings.Contains(text, "a@x.com") || !strings.Contains(html, "a@x.com") {
			t.Fatalf("%s: body lacks recipient", name)
		}
	}
}

func TestRenderAccountDeletedTime(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 30, 0, 0, time.FixedZone("WIB", 7*3600))
	_, text, _, err := Render(AccountDeleted, Data(nil, AccountDeleted, "a@x.com", WithTime(at)))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(text, "01 May 2024, 05:30 UTC") {
		t.Fatalf("expected UTC time in body, got %q", text)
	}
}

func TestRenderUnknown(t *testing.T) {
	if Known("nope") {
		t.Fatal("nope should be unknown")
	}
	_, _, _, err := Render("nope", nil)
	if !errors.Is(err, ErrUnknown) {
		t.Fatalf("expected ErrUnknown, got %v", err)
	}
}

func TestDefaultFn(t *testing.T) {
	cases := []struct {
		value, want any
	}{
		{"", "x"},
		{"  ", "x"},
		{nil, "x"},
		{0, "x"},
		{"y", "y"},
		{3, 3},
	}
	for _, tc := range cases {
		if got := defaultFn("x", tc.value); got != tc.want {
			t.Errorf("defaultFn(x, %v) = %v, want %v", tc.value, got, tc.want)
		}
	}
}
