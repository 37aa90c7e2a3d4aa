package helpers

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNewLoggerStampsAppFields(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "posts", "production")
	LogError(logger, "boom", errors.New("db down"), logrus.Fields{"post_id": "p1"})

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("expected one JSON line, got %q: %v", buf.String(), err)
	}
	for k, want := range map[string]string{"app": "posts", "env": "production", "msg": "boom", "error": "db down", "post_id": "p1", "level": "error"} {
		if line[k] != want {
			t.Fatalf("%s = %v, want %s", k, line[k], want)
		}
	}
}

func TestNewLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	if lvl := newLogger(&buf, "posts", "production").GetLevel(); lvl != logrus.InfoLevel {
		t.Fatalf("default level = %s", lvl)
	}
	if lvl := newLogger(&buf, "posts", "development").GetLevel(); lvl != logrus.DebugLevel {
		t.Fatalf("development level = %s", lvl)
	}
	if lvl := newLogger(&buf, "posts", "production", "warn").GetLevel(); lvl != logrus.WarnLevel {
		t.Fatalf("explicit level = %s", lvl)
	}
	if lvl := newLogger(&buf, "posts", "production", "loud").GetLevel(); lvl != logrus.InfoLevel {
		t.Fatalf("unknown level should keep default, got %s", lvl)
	}
}
