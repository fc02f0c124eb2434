package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/rvbops/warroom/go/clients/exercise_api_client"
	"github.com/rvbops/warroom/go/internal/config"
	"github.com/rvbops/warroom/go/internal/events"
	"github.com/rvbops/warroom/go/internal/models"
	"github.com/rvbops/warroom/go/internal/situation"
)

func newTestApp(t *testing.T, backend http.Handler, wall clockwork.Clock) (*App, *situation.Store) {
	t.Helper()
	server := httptest.NewServer(backend)
	t.Cleanup(server.Close)

	cfg := config.Config{
		BackendURL:   server.URL,
		Role:         models.RoleBlue,
		PollInterval: 5 * time.Second,
	}
	store := situation.NewStore()
	api := exercise_api_client.NewExerciseApiClient(server.URL)
	return New(cfg, store, api, nil, wall, nil, nil), store
}

func TestPollOnceFoldsStateAndScore(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/game/state", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"default","status":"running","round":2,"current_scenario_id":"s1"}`))
	})
	mux.HandleFunc("/api/score", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"red":3,"blue":1}`))
	})
	mux.HandleFunc("/api/voting/status", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("role"); got != "blue" {
			t.Errorf("voting role = %q, want blue", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"role":"blue","player_choices":[{"player_name":"ana","role":"blue"}],"votes":{}}`))
	})

	app, store := newTestApp(t, mux, clockwork.NewFakeClock())
	app.pollOnce(context.Background())

	state := store.GameState()
	if state.Status != models.StatusRunning || state.Round != 2 {
		t.Fatalf("state = %+v, want running round 2", state)
	}
	if score := store.Score(); score.Red != 3 || score.Blue != 1 {
		t.Fatalf("score = %+v, want red 3 blue 1", score)
	}
	voting := store.VotingStatus()
	if voting == nil || len(voting.PlayerChoices) != 1 {
		t.Fatalf("voting = %+v, want one recorded choice", voting)
	}
}

func TestPollOnceFailureKeepsState(t *testing.T) {
	healthy := true
	mux := http.NewServeMux()
	mux.HandleFunc("/api/game/state", func(w http.ResponseWriter, r *http.Request) {
		if !healthy {
			http.Error(w, `{"detail":"boom"}`, http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"default","status":"running","round":2,"current_scenario_id":"s1"}`))
	})
	mux.HandleFunc("/api/score", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"red":0,"blue":0}`))
	})

	app, store := newTestApp(t, mux, clockwork.NewFakeClock())
	app.pollOnce(context.Background())

	healthy = false
	app.pollOnce(context.Background())

	// A failed poll degrades freshness; it never clears the view.
	if state := store.GameState(); state.Status != models.StatusRunning || state.Round != 2 {
		t.Fatalf("state = %+v, want previous running round 2", state)
	}
}

func TestArmClocksDerivesRemaining(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 10, 0, 0, time.UTC)
	wall := clockwork.NewFakeClockAt(now)
	app, _ := newTestApp(t, http.NewServeMux(), wall)

	state := &models.GameState{
		Status:        models.StatusRunning,
		Round:         1,
		StartTime:     models.NewTimestamp(now.Add(-300 * time.Second)),
		TurnStartTime: models.NewTimestamp(now.Add(-60 * time.Second)),
		TurnTimeLimit: 300,
	}
	app.armClocks(state)

	if got := app.GameRemaining(); got != 1500 {
		t.Fatalf("game remaining = %d, want 1500", got)
	}
	if got := app.TurnRemaining(); got != 240 {
		t.Fatalf("turn remaining = %d, want 240", got)
	}
}

func TestArmClocksDefaultsTurnLimit(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 10, 0, 0, time.UTC)
	wall := clockwork.NewFakeClockAt(now)
	app, _ := newTestApp(t, http.NewServeMux(), wall)

	state := &models.GameState{
		Status:        models.StatusRunning,
		Round:         1,
		StartTime:     models.NewTimestamp(now.Add(-60 * time.Second)),
		TurnStartTime: models.NewTimestamp(now.Add(-60 * time.Second)),
	}
	app.armClocks(state)

	if got := app.TurnRemaining(); got != 240 {
		t.Fatalf("turn remaining = %d, want 240 from the default limit", got)
	}
}

func TestArmClocksSkipsNonRunning(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 10, 0, 0, time.UTC)
	wall := clockwork.NewFakeClockAt(now)
	app, _ := newTestApp(t, http.NewServeMux(), wall)

	app.armClocks(&models.GameState{Status: models.StatusLobby})

	if got := app.GameRemaining(); got != 1800 {
		t.Fatalf("game remaining = %d, want untouched 1800", got)
	}
}

type recordingSink struct {
	mu      sync.Mutex
	events  []events.Event
	alerts  []models.Alert
	scores  []models.Score
	batches [][]events.Event
}

func (r *recordingSink) Publish(ctx context.Context, ev events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *recordingSink) PublishAlert(ctx context.Context, a models.Alert) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alerts = append(r.alerts, a)
	return nil
}

func (r *recordingSink) PublishScore(ctx context.Context, sc models.Score) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scores = append(r.scores, sc)
	return nil
}

func (r *recordingSink) PublishBatch(ctx context.Context, evs []events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches = append(r.batches, evs)
	return nil
}

func (r *recordingSink) Close() error { return nil }

func (r *recordingSink) counts() (int, int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events), len(r.alerts), len(r.scores)
}

func TestArchiveLoopForwardsEventsAlertsAndScores(t *testing.T) {
	store := situation.NewStore()
	sink := &recordingSink{}
	app := &App{store: store, sink: sink}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		app.archiveLoop(ctx)
	}()

	store.AddEvent(events.Event{ID: "ev-1", Kind: events.KindGMInject})
	store.AddAlert(models.Alert{ID: "alert-1", Summary: "beacon detected"})
	store.MergeScore(models.Score{Red: 2, Blue: 0})

	deadline := time.Now().Add(2 * time.Second)
	for {
		evs, alerts, scores := sink.counts()
		if evs == 1 && alerts == 1 && scores == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("sink got %d events, %d alerts, %d scores; want 1 of each", evs, alerts, scores)
		}
		time.Sleep(5 * time.Millisecond)
	}

	cancel()
	<-done
}

func TestBackfillTimelineSeedsFeedAndArchive(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/timeline", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id":"hist-1","kind":"round_started","payload":{"round":1,"scenario_id":"s1"}},
			{"id":"hist-2","kind":"attack_launched","payload":{"attack_id":"a1"}}
		]`))
	})

	app, store := newTestApp(t, mux, clockwork.NewFakeClock())
	sink := &recordingSink{}
	app.sink = sink
	store.AddEvent(events.Event{ID: "hist-2", Kind: events.KindAttackLaunched})

	app.backfillTimeline(context.Background())

	if got := len(store.Events()); got != 2 {
		t.Fatalf("feed = %d events, want 2 with hist-2 deduplicated", got)
	}
	sink.mu.Lock()
	defer sink.mu.Unlock()
	if len(sink.batches) != 1 || len(sink.batches[0]) != 2 {
		t.Fatalf("batches = %+v, want one batch of two", sink.batches)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	app, _ := newTestApp(t, http.NewServeMux(), clockwork.NewFakeClock())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Fatalf("run returned %v, want context.Canceled", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("run did not stop after cancel")
	}
}
