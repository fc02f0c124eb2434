// Package archive persists the ingested event stream for after-action
// review. Both sinks are optional; an exercise can run with neither.
package archive

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/rvbops/warroom/go/internal/events"
	"github.com/rvbops/warroom/go/internal/models"
)

// Publisher forwards accepted events, alerts, and score snapshots to a
// downstream sink.
type Publisher interface {
	Publish(ctx context.Context, ev events.Event) error
	PublishAlert(ctx context.Context, a models.Alert) error
	PublishScore(ctx context.Context, sc models.Score) error
	Close() error
}

// BatchPublisher is implemented by sinks that can archive a slice of
// events in one shot, used when backfilling history.
type BatchPublisher interface {
	PublishBatch(ctx context.Context, evs []events.Event) error
}

// Pruner is implemented by sinks with bounded retention.
type Pruner interface {
	Prune(ctx context.Context, olderThan time.Duration) (int64, error)
}

// LogPublisher writes accepted events to the log. Used as the default
// sink when no archive is configured.
type LogPublisher struct{}

func NewLogPublisher() *LogPublisher {
	return &LogPublisher{}
}

func (p *LogPublisher) Publish(ctx context.Context, ev events.Event) error {
	log.Info().
		Str("event_id", ev.ID).
		Str("kind", string(ev.Kind)).
		Msg("event archived to log")
	return nil
}

func (p *LogPublisher) PublishAlert(ctx context.Context, a models.Alert) error {
	log.Info().
		Str("alert_id", a.ID).
		Str("severity", a.Severity).
		Msg("alert archived to log")
	return nil
}

func (p *LogPublisher) PublishScore(ctx context.Context, sc models.Score) error {
	log.Info().
		Int("red", sc.Red).
		Int("blue", sc.Blue).
		Msg("score snapshot archived to log")
	return nil
}

func (p *LogPublisher) Close() error {
	return nil
}
