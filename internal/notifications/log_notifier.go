package notifications

import (
	"context"
	"log/slog"
)

type LogNotifier struct {
	log *slog.Logger
}

func NewLogNotifier(log *slog.Logger) *LogNotifier {
	if log == nil {
		log = slog.Default()
	}
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(ctx context.Context, in Notification) error {
	level := slog.LevelInfo
	if in.Level == LevelError {
		level = slog.LevelWarn
	}

	n.log.Log(ctx, level, "notification",
		"level", in.Level,
		"action", in.Action,
		"message", in.Message,
	)
	return nil
}
