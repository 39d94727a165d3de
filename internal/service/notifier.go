package service

import "go.uber.org/zap"

// NotificationLevel grades caller-visible outcome notifications.
type NotificationLevel string

const (
	NotifySuccess NotificationLevel = "success"
	NotifyWarning NotificationLevel = "warning"
	NotifyError   NotificationLevel = "error"
)

// Notifier delivers outcome notifications to the caller-facing surface.
type Notifier interface {
	Notify(level NotificationLevel, title, message string)
}

// LogNotifier is a Notifier that writes notifications to the process log.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier constructs a LogNotifier.
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotifier{logger: logger}
}

// Notify implements Notifier.
func (n *LogNotifier) Notify(level NotificationLevel, title, message string) {
	fields := []zap.Field{zap.String("title", title), zap.String("message", message)}
	switch level {
	case NotifyError:
		n.logger.Error("notification", fields...)
	case NotifyWarning:
		n.logger.Warn("notification", fields...)
	default:
		n.logger.Info("notification", fields...)
	}
}
