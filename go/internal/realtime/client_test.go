package realtime

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"

	"github.com/rvbops/warroom/go/internal/models"
	"github.com/rvbops/warroom/go/internal/situation"
)

func newTestClient(t *testing.T) (*Client, *situation.Store) {
	t.Helper()
	store := situation.NewStore()
	cfg := DefaultConfig()
	cfg.URL = "ws://localhost:8000/ws"
	cfg.Role = models.RoleBlue
	return NewClient(cfg, store, clockwork.NewFakeClock()), store
}

func TestHandleMessageGameEvent(t *testing.T) {
	client, store := newTestClient(t)

	client.handleMessage([]byte(`{
		"type": "game_event",
		"event": {"id":"ev-1","kind":"gm_inject","ts":"2024-01-01T00:01:00"}
	}`))

	feed := store.Events()
	if len(feed) != 1 || feed[0].ID != "ev-1" {
		t.Fatalf("feed = %+v, want single ev-1", feed)
	}
}

func TestHandleMessageDuplicateEvent(t *testing.T) {
	client, store := newTestClient(t)
	raw := []byte(`{
		"type": "game_event",
		"event": {"id":"ev-1","kind":"gm_inject","ts":"2024-01-01T00:01:00"}
	}`)

	client.handleMessage(raw)
	client.handleMessage(raw)

	if got := len(store.Events()); got != 1 {
		t.Fatalf("feed length = %d, want 1 after duplicate delivery", got)
	}
}

func TestHandleMessageSnapshot(t *testing.T) {
	client, store := newTestClient(t)

	client.handleMessage([]byte(`{
		"type": "snapshot_state",
		"game_state": {"id":"default","status":"running","round":3,"current_scenario_id":"s1"},
		"events": [
			{"id":"ev-1","kind":"gm_inject","ts":"2024-01-01T00:01:00"},
			{"id":"ev-2","kind":"gm_inject","ts":"2024-01-01T00:02:00"}
		]
	}`))

	state := store.GameState()
	if state.Status != models.StatusRunning || state.Round != 3 {
		t.Fatalf("state = %+v, want running round 3", state)
	}
	if got := len(store.Events()); got != 2 {
		t.Fatalf("feed length = %d, want 2 replayed events", got)
	}
}

func TestHandleMessageSnapshotReplayIdempotent(t *testing.T) {
	client, store := newTestClient(t)

	// Live push first, then a resync snapshot replaying the same event.
	client.handleMessage([]byte(`{
		"type": "game_event",
		"event": {"id":"ev-1","kind":"gm_inject","ts":"2024-01-01T00:01:00"}
	}`))
	client.handleMessage([]byte(`{
		"type": "snapshot_state",
		"game_state": {"id":"default","status":"running","round":1,"current_scenario_id":"s1"},
		"events": [{"id":"ev-1","kind":"gm_inject","ts":"2024-01-01T00:01:00"}]
	}`))

	if got := len(store.Events()); got != 1 {
		t.Fatalf("feed length = %d, want 1 after replay", got)
	}
}

func TestHandleMessageBadFrameIgnored(t *testing.T) {
	client, store := newTestClient(t)

	client.handleMessage([]byte(`not json`))
	client.handleMessage([]byte(`{"event":{"id":"ev-1"}}`))
	client.handleMessage([]byte(`{"type":"unknown_frame"}`))

	if got := len(store.Events()); got != 0 {
		t.Fatalf("feed length = %d, want 0 after bad frames", got)
	}
}

func TestOnConnectFiresPerDial(t *testing.T) {
	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		// Hold the connection open until the client goes away.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer server.Close()

	store := situation.NewStore()
	cfg := DefaultConfig()
	cfg.URL = "ws" + strings.TrimPrefix(server.URL, "http")
	cfg.Role = models.RoleAudience
	client := NewClient(cfg, store, clockwork.NewRealClock())

	connected := make(chan struct{}, 1)
	client.OnConnect(func() {
		select {
		case connected <- struct{}{}:
		default:
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		client.Run(ctx)
	}()

	select {
	case <-connected:
	case <-time.After(3 * time.Second):
		t.Fatal("connect hook never fired")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("client did not stop after cancel")
	}
}

func TestHandleMessageStaleSnapshotMerged(t *testing.T) {
	client, store := newTestClient(t)

	client.handleMessage([]byte(`{
		"type": "snapshot_state",
		"game_state": {"id":"default","status":"running","round":2,"current_scenario_id":"s1"}
	}`))
	// A stale lobby snapshot racing the running one must not regress it.
	client.handleMessage([]byte(`{
		"type": "snapshot_state",
		"game_state": {"id":"default","status":"lobby"}
	}`))

	if got := store.GameState(); got.Status != models.StatusRunning {
		t.Fatalf("status = %q, want running preserved", got.Status)
	}
}
