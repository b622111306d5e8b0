package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Logger wraps logrus.Logger with additional functionality
type Logger struct {
	*logrus.Logger
}

// New creates a new logger instance
func New(level string) *Logger {
	log := logrus.New()

	// Set log level
	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	log.SetLevel(logLevel)

	// Set output format
	log.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "level",
			logrus.FieldKeyMsg:   "message",
		},
	})

	// Set output destination
	log.SetOutput(os.Stderr)

	return &Logger{Logger: log}
}

// WithComponent creates a new logger entry with component name field
func (l *Logger) WithComponent(component string) *logrus.Entry {
	return l.Logger.WithField("component", component)
}

// WithUser creates a new logger entry with username field
func (l *Logger) WithUser(username string) *logrus.Entry {
	return l.Logger.WithField("username", username)
}

// WithRequestID creates a new logger entry with request ID field
func (l *Logger) WithRequestID(requestID string) *logrus.Entry {
	return l.Logger.WithField("request_id", requestID)
}

// HTTPRequest logs an outbound API call
func (l *Logger) HTTPRequest(method, path string, statusCode int, durationMs int64) {
	entry := l.Logger.WithFields(logrus.Fields{
		"http_request": true,
		"method":       method,
		"path":         path,
		"status_code":  statusCode,
		"duration_ms":  durationMs,
	})

	if statusCode >= 400 {
		entry.Warn("API request completed with error")
	} else {
		entry.Debug("API request completed")
	}
}

// SessionEvent logs session lifecycle events (login, logout, eviction,
// refresh) with structured format.
func (l *Logger) SessionEvent(event, username string, details map[string]interface{}) {
	l.Logger.WithFields(logrus.Fields{
		"session":  true,
		"event":    event,
		"username": username,
		"details":  details,
	}).Info("Session event")
}

// AccessDenied logs a route guard denial
func (l *Logger) AccessDenied(path, userRole string, requiredRoles []string) {
	l.Logger.WithFields(logrus.Fields{
		"access_denied":  true,
		"path":           path,
		"user_role":      userRole,
		"required_roles": requiredRoles,
	}).Warn("Access denied")
}
