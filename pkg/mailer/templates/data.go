package templates

import (
	"time"

	"github.com/oksasatya/go-posts-api/config"
)

// Option adjusts the data of one message.
type Option func(map[string]any)

// WithTime stamps the event time, rendered in UTC.
func WithTime(t time.Time) Option {
	return func(m map[string]any) {
		m["Time"] = t.UTC().Format("02 January 2006, 15:04")
	}
}

// Data builds the template data for a message of type typ sent to email. The
// map survives the JSON trip through the queue unchanged.
func Data(cfg *config.Config, typ, email string, opts ...Option) map[string]any {
	m := map[string]any{
		"Email": email,
		"Type":  typ,
	}
	if cfg != nil {
		m["AppName"] = cfg.AppName
		m["CompanyName"] = cfg.CompanyName
		m["SupportURL"] = cfg.SupportURL
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}
