package templates

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	htmpl "html/template"
	"reflect"
	"strings"
	texttpl "text/template"
	"time"
)

//go:embed *.tmpl
var FS embed.FS

const (
	Welcome        = "welcome"
	AccountDeleted = "account_deleted"
)

// ErrUnknown is returned by Render for a name without a full template triple.
var ErrUnknown = errors.New("unknown email template")

// Every message is a triple of <name>.subject.tmpl, <name>.text.tmpl and
// <name>.html.tmpl, parsed once at startup.
var (
	textSet = texttpl.Must(texttpl.New("").Funcs(texttpl.FuncMap(funcs())).ParseFS(FS, "*.subject.tmpl", "*.text.tmpl"))
	htmlSet = htmpl.Must(htmpl.New("").Funcs(htmpl.FuncMap(funcs())).ParseFS(FS, "*.html.tmpl"))
)

func funcs() map[string]any {
	return map[string]any{
		"now":     func() time.Time { return time.Now().UTC() },
		"upper":   strings.ToUpper,
		"default": defaultFn,
	}
}

// defaultFn supports pipe usage: {{ .Value | default "Fallback" }}
func defaultFn(fallback, value any) any {
	if s, ok := value.(string); ok {
		if strings.TrimSpace(s) == "" {
			return fallback
		}
		return s
	}
	rv := reflect.ValueOf(value)
	if !rv.IsValid() || rv.IsZero() {
		return fallback
	}
	return value
}

// Known reports whether name has all three parts.
func Known(name string) bool {
	return textSet.Lookup(name+".subject.tmpl") != nil &&
		textSet.Lookup(name+".text.tmpl") != nil &&
		htmlSet.Lookup(name+".html.tmpl") != nil
}

// Render executes the subject, text and html parts of name against data.
func Render(name string, data any) (subject, text, html string, err error) {
	if !Known(name) {
		return "", "", "", fmt.Errorf("%w: %q", ErrUnknown, name)
	}
	var buf bytes.Buffer
	exec := func(part string, run func() error) (string, error) {
		buf.Reset()
		if err := run(); err != nil {
			return "", fmt.Errorf("exec %s.%s: %w", name, part, err)
		}
		return buf.String(), nil
	}
	if subject, err = exec("subject", func() error {
		return textSet.ExecuteTemplate(&buf, name+".subject.tmpl", data)
	}); err != nil {
		return "", "", "", err
	}
	if text, err = exec("text", func() error {
		return textSet.ExecuteTemplate(&buf, name+".text.tmpl", data)
	}); err != nil {
		return "", "", "", err
	}
	if html, err = exec("html", func() error {
		return htmlSet.ExecuteTemplate(&buf, name+".html.tmpl", data)
	}); err != nil {
		return "", "", "", err
	}
	return subject, text, html, nil
}
