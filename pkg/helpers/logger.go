package helpers

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger creates a configured Logrus logger writing to stdout. Development
// uses the text formatter at debug level, everything else JSON at info level.
// A non-empty level overrides the default.
func NewLogger(appName, env string, level ...string) *logrus.Logger {
	return newLogger(os.Stdout, appName, env, level...)
}

func newLogger(w io.Writer, appName, env string, level ...string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	if env == "development" {
		logger.SetLevel(logrus.DebugLevel)
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetLevel(logrus.InfoLevel)
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	if len(level) > 0 && level[0] != "" {
		if lvl, err := logrus.ParseLevel(level[0]); err == nil {
			logger.SetLevel(lvl)
		} else {
			logger.WithField("level", level[0]).Warn("unknown log level, keeping default")
		}
	}
	logger.AddHook(appHook{fields: logrus.Fields{"app": appName, "env": env}})
	logger.Debug("logger initialized")
	return logger
}

// appHook stamps every entry with the service identity.
type appHook struct {
	fields logrus.Fields
}

func (h appHook) Levels() []logrus.Level { return logrus.AllLevels }

func (h appHook) Fire(e *logrus.Entry) error {
	for k, v := range h.fields {
		if _, ok := e.Data[k]; !ok {
			e.Data[k] = v
		}
	}
	return nil
}

// LogError logs msg at error level with err attached to fields.
func LogError(logger logrus.FieldLogger, msg string, err error, fields logrus.Fields) {
	entry := logger.WithFields(fields)
	if err != nil {
		entry = entry.WithError(err)
	}
	entry.Error(msg)
}

func LogInfo(logger logrus.FieldLogger, msg string, fields logrus.Fields) {
	logger.WithFields(fields).Info(msg)
}
