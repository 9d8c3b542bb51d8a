package logger

import (
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ContextKey is the gin context key under which the request-scoped log entry
// is stored by the RequestID middleware.
const ContextKey = "logger"

var log = logrus.New()

func init() {
	log.SetOutput(os.Stdout)
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(parseLevel(os.Getenv("LOG_LEVEL")))
}

func parseLevel(s string) logrus.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return logrus.DebugLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

// Get returns the shared application logger.
func Get() *logrus.Logger {
	return log
}

// WithField returns an entry with a single field attached.
func WithField(key string, value interface{}) *logrus.Entry {
	return log.WithField(key, value)
}

// WithFields returns an entry with the given fields attached.
func WithFields(fields map[string]interface{}) *logrus.Entry {
	return log.WithFields(fields)
}

// FromGinContext returns the request-scoped log entry stored by the
// middleware chain, falling back to the shared logger when absent.
func FromGinContext(c *gin.Context) *logrus.Entry {
	if c == nil {
		return logrus.NewEntry(log)
	}
	if v, ok := c.Get(ContextKey); ok {
		if entry, ok := v.(*logrus.Entry); ok {
			return entry
		}
	}
	return logrus.NewEntry(log)
}
