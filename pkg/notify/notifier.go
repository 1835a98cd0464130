package notify

import (
	"log/slog"
)

// Notifier displays a transient error notice. Key identifies the notice for
// deduplication; an empty key means the notice is never collapsed.
type Notifier interface {
	Notify(message, key string)
}

// NotifierFunc adapts a plain function to the Notifier interface.
type NotifierFunc func(message, key string)

func (f NotifierFunc) Notify(message, key string) { f(message, key) }

// Discard drops every notification.
var Discard Notifier = NotifierFunc(func(string, string) {})

// LogNotifier renders notifications as structured log records.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(message, key string) {
	n.logger.Error(message, "notification", key)
}
