package gateway

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rvbops/warroom/go/internal/situation"
)

// Broadcasts and viewer disconnects race by construction; a dropped
// viewer's send channel must never receive another frame.
func TestBroadcastDuringViewerChurn(t *testing.T) {
	store := situation.NewStore()
	service := NewService(store)
	manager := service.Manager()
	handler := NewHandler(store, manager)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	server := httptest.NewServer(mux)
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go manager.Start(ctx)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws?room=audience"
	frame := []byte(`{"type":"game_event","event":{"id":"ev-1","kind":"gm_inject"}}`)

	churned := make(chan struct{})
	go func() {
		defer close(churned)
		for i := 0; i < 50; i++ {
			conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
			if err != nil {
				t.Errorf("dial %d: %v", i, err)
				return
			}
			conn.Close()
		}
	}()

	for {
		select {
		case <-churned:
			manager.Broadcast("", frame)
			// Let the final frames drain through the manager.
			time.Sleep(50 * time.Millisecond)
			return
		default:
			manager.Broadcast("", frame)
		}
	}
}

func TestBroadcastDropsSlowViewer(t *testing.T) {
	manager := NewConnectionManager(DefaultConnectionConfig(), nil)

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := manager.UpgradeConnection(w, r, "audience"); err != nil {
			t.Errorf("upgrade: %v", err)
		}
	}))
	defer upstream.Close()

	wsURL := "ws" + strings.TrimPrefix(upstream.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for {
		total, _ := manager.Stats()
		if total == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("viewer never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	// The viewer never reads, so once the socket buffers fill the write
	// pump stalls and the send queue overflows; the manager must evict
	// the connection rather than panic or block.
	frame := bytes.Repeat([]byte("x"), 4096)
	for i := 0; i < 2000; i++ {
		manager.handleBroadcast(BroadcastMessage{Data: frame})
	}

	deadline = time.Now().Add(2 * time.Second)
	for {
		total, _ := manager.Stats()
		if total == 0 {
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("slow viewer was never dropped")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
