// Package app composes the client: the poll loop, the event stream, the
// countdown clocks, the viewer gateway, and the optional archive, all
// feeding or fed by one situation store.
package app

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/rvbops/warroom/go/clients/exercise_api_client"
	"github.com/rvbops/warroom/go/internal/archive"
	"github.com/rvbops/warroom/go/internal/config"
	"github.com/rvbops/warroom/go/internal/countdown"
	"github.com/rvbops/warroom/go/internal/gateway"
	"github.com/rvbops/warroom/go/internal/models"
	"github.com/rvbops/warroom/go/internal/realtime"
	"github.com/rvbops/warroom/go/internal/situation"
)

// App owns the long-running pieces of a client session.
type App struct {
	config  config.Config
	store   *situation.Store
	api     *exercise_api_client.ExerciseApiClient
	stream  *realtime.Client
	wall    clockwork.Clock
	sink    archive.Publisher
	viewers *gateway.Service

	gameClock *countdown.Clock
	turnClock *countdown.Clock
	ticker    *countdown.Ticker
}

// New assembles an App. sink may be nil to disable archiving; viewers may
// be nil when no local gateway is wanted.
func New(
	cfg config.Config,
	store *situation.Store,
	api *exercise_api_client.ExerciseApiClient,
	stream *realtime.Client,
	wall clockwork.Clock,
	sink archive.Publisher,
	viewers *gateway.Service,
) *App {
	a := &App{
		config:  cfg,
		store:   store,
		api:     api,
		stream:  stream,
		wall:    wall,
		sink:    sink,
		viewers: viewers,
	}

	a.gameClock = countdown.NewClock(wall, countdown.GameDurationLimit, func(remaining int) {
		log.Debug().Int("remaining", remaining).Msg("game clock")
	})
	a.turnClock = countdown.NewClock(wall, countdown.DefaultTurnLimit, func(remaining int) {
		log.Debug().Int("remaining", remaining).Msg("turn clock")
	})
	a.ticker = countdown.NewTicker(wall)
	a.ticker.Register(a.gameClock.Tick)
	a.ticker.Register(a.turnClock.Tick)

	return a
}

// GameRemaining reports the derived seconds left in the round.
func (a *App) GameRemaining() int { return a.gameClock.Remaining() }

// TurnRemaining reports the derived seconds left in the current turn.
func (a *App) TurnRemaining() int { return a.turnClock.Remaining() }

// Run starts every loop and blocks until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	var wg sync.WaitGroup

	run := func(name string, fn func(context.Context)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn(ctx)
			log.Info().Str("loop", name).Msg("loop stopped")
		}()
	}

	run("ticker", func(ctx context.Context) { a.ticker.Run(ctx) })
	run("poll", a.pollLoop)
	run("clocks", a.clockLoop)
	run("catalog", a.logCatalog)

	if a.stream != nil {
		// Without server snapshot frames a reconnect leaves the view
		// stale until the next scheduled poll; resync immediately.
		if !a.config.Features.WSSnapshot {
			a.stream.OnConnect(func() { a.pollOnce(ctx) })
		}
		run("stream", func(ctx context.Context) {
			if err := a.stream.Run(ctx); err != nil && ctx.Err() == nil {
				log.Error().Err(err).Msg("event stream terminated")
			}
		})
	}
	if a.sink != nil {
		run("archive", a.archiveLoop)
		if a.config.Features.TimelineSLA {
			run("backfill", a.backfillTimeline)
		}
		if pruner, ok := a.sink.(archive.Pruner); ok && a.config.Archive.RetentionDays > 0 {
			retention := time.Duration(a.config.Archive.RetentionDays) * 24 * time.Hour
			run("prune", func(ctx context.Context) { a.pruneLoop(ctx, pruner, retention) })
		}
	}
	if a.viewers != nil {
		run("viewers", a.viewers.Run)
		run("viewer-broadcast", a.viewers.Manager().Start)
	}

	<-ctx.Done()
	wg.Wait()
	return ctx.Err()
}

// pollLoop fetches the authoritative snapshot on a fixed cadence. Polling
// continues even while the stream is healthy; the store's merge makes the
// overlap safe and the poll covers any events the stream dropped.
func (a *App) pollLoop(ctx context.Context) {
	ticker := a.wall.NewTicker(a.config.PollInterval)
	defer ticker.Stop()

	a.pollOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			a.pollOnce(ctx)
		}
	}
}

func (a *App) pollOnce(ctx context.Context) {
	state, err := a.api.GetGameState(ctx)
	if err != nil {
		// Consecutive failures degrade the view, they never clear it.
		log.Warn().Err(err).Msg("state poll failed")
		return
	}
	a.store.SetGameState(state)

	score, err := a.api.GetScore(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("score poll failed")
		return
	}
	a.store.MergeScore(*score)

	if a.config.Role == models.RoleRed || a.config.Role == models.RoleBlue {
		voting, err := a.api.GetVotingStatus(ctx, a.config.Role.Room())
		if err != nil {
			log.Warn().Err(err).Msg("voting poll failed")
			return
		}
		a.store.SetVotingStatus(voting)
	}
}

// clockLoop re-arms the countdown clocks whenever a state update lands.
// The store is re-read after the channel receive so the clocks always see
// the newest merge result, not the update that happened to wake the loop.
func (a *App) clockLoop(ctx context.Context) {
	sub := a.store.Subscribe(16)
	defer sub.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-sub.C:
			if !ok {
				return
			}
			state := a.store.GameState()
			a.armClocks(&state)
		}
	}
}

func (a *App) armClocks(state *models.GameState) {
	if state.Status != models.StatusRunning {
		return
	}
	a.gameClock.Arm(state.StartTime.Time.UTC(), countdown.GameDurationLimit, state.Timer)

	turnLimit := state.TurnTimeLimit
	if turnLimit <= 0 {
		turnLimit = countdown.DefaultTurnLimit
	}
	a.turnClock.Arm(state.TurnStartTime.Time.UTC(), turnLimit, nil)
}

// archiveLoop forwards accepted events, new alerts, and score movements
// to the configured sink.
func (a *App) archiveLoop(ctx context.Context) {
	sub := a.store.Subscribe(64)
	defer sub.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-sub.C:
			if !ok {
				return
			}
			switch {
			case update.Event != nil:
				if err := a.sink.Publish(ctx, *update.Event); err != nil {
					log.Warn().Err(err).Str("event_id", update.Event.ID).Msg("archive publish failed")
				}
			case update.Alert != nil:
				if err := a.sink.PublishAlert(ctx, *update.Alert); err != nil {
					log.Warn().Err(err).Str("alert_id", update.Alert.ID).Msg("archive alert failed")
				}
			case update.Score != nil:
				if err := a.sink.PublishScore(ctx, *update.Score); err != nil {
					log.Warn().Err(err).Msg("archive score failed")
				}
			}
		}
	}
}

// pruneLoop enforces the archive retention window on sinks that have one.
func (a *App) pruneLoop(ctx context.Context, pruner archive.Pruner, retention time.Duration) {
	ticker := a.wall.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			n, err := pruner.Prune(ctx, retention)
			if err != nil {
				log.Warn().Err(err).Msg("archive prune failed")
				continue
			}
			if n > 0 {
				log.Info().Int64("rows", n).Msg("archive pruned")
			}
		}
	}
}

// backfillTimeline seeds the event feed and the archive from the server's
// persisted timeline. Only meaningful when the backend keeps one.
func (a *App) backfillTimeline(ctx context.Context) {
	history, err := a.api.GetTimeline(ctx, 100)
	if err != nil {
		log.Warn().Err(err).Msg("timeline backfill failed")
		return
	}
	if batch, ok := a.sink.(archive.BatchPublisher); ok {
		if err := batch.PublishBatch(ctx, history); err != nil {
			log.Warn().Err(err).Msg("timeline archive backfill failed")
		}
	}
	added := 0
	for _, ev := range history {
		if a.store.AddEvent(ev) {
			added++
		}
	}
	log.Info().Int("fetched", len(history)).Int("added", added).Msg("timeline backfilled")
}

// logCatalog reports the scenario catalogue the backend is serving, using
// the v2 playbook listing when the backend has it enabled.
func (a *App) logCatalog(ctx context.Context) {
	if a.config.Features.AdvScenarios {
		scenarios, err := a.api.ListScenariosV2(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("scenario catalogue unavailable")
			return
		}
		log.Info().Int("scenarios", len(scenarios)).Msg("threat actor playbooks loaded")
		return
	}
	scenarios, err := a.api.ListScenarios(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("scenario catalogue unavailable")
		return
	}
	log.Info().Int("scenarios", len(scenarios)).Msg("scenario catalogue loaded")
}
