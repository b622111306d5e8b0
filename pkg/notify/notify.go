// Package notify provides the fire-and-forget user notification surface
// consumed by the session core and the domain stores. Implementations
// must never block or fail the caller.
package notify

import "github.com/AQUACY/AGHIMS/pkg/logger"

// Type represents the visual kind of a notification
type Type string

const (
	TypePositive Type = "positive"
	TypeNegative Type = "negative"
)

// Notification represents a single toast message
type Notification struct {
	Type    Type   `json:"type"`
	Message string `json:"message"`
}

// Notifier is the notification surface presented to the user
type Notifier interface {
	Notify(n Notification)
}

// Positive emits a success toast
func Positive(n Notifier, message string) {
	n.Notify(Notification{Type: TypePositive, Message: message})
}

// Negative emits a failure toast
func Negative(n Notifier, message string) {
	n.Notify(Notification{Type: TypeNegative, Message: message})
}

// LogNotifier surfaces notifications through the structured logger; the
// desktop shell replaces it with a real toast implementation.
type LogNotifier struct {
	Logger *logger.Logger
}

// Notify implements Notifier
func (l *LogNotifier) Notify(n Notification) {
	entry := l.Logger.WithComponent("notify").WithField("type", string(n.Type))
	if n.Type == TypeNegative {
		entry.Warn(n.Message)
		return
	}
	entry.Info(n.Message)
}

// NopNotifier discards all notifications
type NopNotifier struct{}

// Notify implements Notifier
func (NopNotifier) Notify(Notification) {}
