package reader

import (
	"context"

	"pagereader-api/core/interfaces"
)

// LogNotifier reports notifications through the logger
type LogNotifier struct {
	Logger interfaces.Logger
}

// Notify logs the message at a level matching the notification
func (n LogNotifier) Notify(_ context.Context, level interfaces.NotificationLevel, message string) {
	fields := map[string]interface{}{"notification": message}
	switch level {
	case interfaces.NotifyError:
		n.Logger.Error("Reader notification", fields)
	case interfaces.NotifyWarning:
		n.Logger.Warn("Reader notification", fields)
	default:
		n.Logger.Info("Reader notification", fields)
	}
}
