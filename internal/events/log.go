package events

import (
	"context"
	"log/slog"
)

// LogPublisher writes events to structured logs. It is the default sink when
// no broker is configured.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, ev Event) error {
	p.logger.InfoContext(ctx, "registry event",
		"event_id", ev.ID,
		"event_type", string(ev.Type),
		"token_id", ev.TokenID,
	)
	return nil
}
