// Package gateway re-broadcasts the reconciled situation to local viewers:
// wall displays, observer consoles, and anything else on the operator's
// network that wants the same picture without its own backend connection.
package gateway

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// ConnectionManager manages viewer WebSocket connections, pooled by room.
type ConnectionManager struct {
	// Connection pools organized by room (gm, red, blue, audience)
	roomConnections map[string]map[*Connection]bool
	mu              sync.RWMutex

	upgrader websocket.Upgrader
	config   ConnectionConfig

	broadcastCh chan BroadcastMessage

	// snapshot produces the catch-up frame sent to a viewer on connect.
	snapshot func() []byte
}

// Connection represents one viewer WebSocket.
type Connection struct {
	ID      string
	Room    string
	Conn    *websocket.Conn
	Send    chan []byte
	Manager *ConnectionManager

	ConnectedAt time.Time
	LastPing    time.Time
}

// ConnectionConfig holds configuration for viewer connections.
type ConnectionConfig struct {
	WriteTimeout    time.Duration
	ReadTimeout     time.Duration
	PingInterval    time.Duration
	MaxMessageSize  int64
	ReadBufferSize  int
	WriteBufferSize int
	CheckOrigin     func(r *http.Request) bool
}

// BroadcastMessage is a pre-encoded frame destined for a room. An empty
// room targets every connection.
type BroadcastMessage struct {
	Room string
	Data []byte
}

// DefaultConnectionConfig returns default viewer connection settings.
func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		WriteTimeout:    10 * time.Second,
		ReadTimeout:     60 * time.Second,
		PingInterval:    30 * time.Second,
		MaxMessageSize:  1024,
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			// Viewers connect from the local network only.
			return true
		},
	}
}

// NewConnectionManager creates a viewer connection manager. snapshot may
// be nil when no catch-up frame is wanted.
func NewConnectionManager(config ConnectionConfig, snapshot func() []byte) *ConnectionManager {
	return &ConnectionManager{
		roomConnections: make(map[string]map[*Connection]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		config:      config,
		broadcastCh: make(chan BroadcastMessage, 1000),
		snapshot:    snapshot,
	}
}

// Start processes broadcast messages until ctx is cancelled.
func (cm *ConnectionManager) Start(ctx context.Context) {
	log.Info().Msg("viewer connection manager started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("viewer connection manager shutting down")
			return
		case message := <-cm.broadcastCh:
			cm.handleBroadcast(message)
		}
	}
}

// UpgradeConnection upgrades an HTTP request to a viewer WebSocket in room.
func (cm *ConnectionManager) UpgradeConnection(w http.ResponseWriter, r *http.Request, room string) error {
	conn, err := cm.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("failed to upgrade viewer connection")
		return fmt.Errorf("failed to upgrade connection: %w", err)
	}

	connection := &Connection{
		ID:          uuid.New().String(),
		Room:        room,
		Conn:        conn,
		Send:        make(chan []byte, 256),
		Manager:     cm,
		ConnectedAt: time.Now(),
		LastPing:    time.Now(),
	}

	// Catch the viewer up before any live frames arrive.
	var catchup []byte
	if cm.snapshot != nil {
		catchup = cm.snapshot()
	}
	cm.registerConnection(connection, catchup)

	go connection.writePump()
	go connection.readPump()

	log.Info().
		Str("connection_id", connection.ID).
		Str("room", room).
		Msg("viewer connection established")

	return nil
}

func (cm *ConnectionManager) registerConnection(conn *Connection, catchup []byte) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.roomConnections[conn.Room] == nil {
		cm.roomConnections[conn.Room] = make(map[*Connection]bool)
	}
	cm.roomConnections[conn.Room][conn] = true

	// The send buffer is fresh and empty here, so this cannot block.
	if catchup != nil {
		conn.Send <- catchup
	}

	log.Debug().
		Str("connection_id", conn.ID).
		Str("room", conn.Room).
		Int("total_connections", len(cm.roomConnections[conn.Room])).
		Msg("viewer registered")
}

func (cm *ConnectionManager) unregisterConnection(conn *Connection) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.dropLocked(conn)
}

// dropLocked removes conn from its pool and closes its send channel.
// Send channels are only ever closed here, under cm.mu, which is also
// held for every send; a broadcast can never hit a closed channel.
func (cm *ConnectionManager) dropLocked(conn *Connection) {
	connections, exists := cm.roomConnections[conn.Room]
	if !exists {
		return
	}
	if _, exists := connections[conn]; !exists {
		return
	}
	delete(connections, conn)
	close(conn.Send)

	if len(connections) == 0 {
		delete(cm.roomConnections, conn.Room)
	}

	log.Info().
		Str("connection_id", conn.ID).
		Str("room", conn.Room).
		Msg("viewer unregistered")
}

// Broadcast sends a pre-encoded frame to every viewer in room; an empty
// room reaches all viewers. Drops the frame when the queue is full.
func (cm *ConnectionManager) Broadcast(room string, data []byte) {
	select {
	case cm.broadcastCh <- BroadcastMessage{Room: room, Data: data}:
	default:
		log.Warn().Str("room", room).Msg("broadcast channel full, dropping frame")
	}
}

func (cm *ConnectionManager) handleBroadcast(message BroadcastMessage) {
	cm.mu.Lock()

	var delivered int
	for room, connections := range cm.roomConnections {
		if message.Room != "" && room != message.Room {
			continue
		}
		for conn := range connections {
			select {
			case conn.Send <- message.Data:
				delivered++
			default:
				// Slow or dead viewer, drop it.
				log.Warn().
					Str("connection_id", conn.ID).
					Str("room", conn.Room).
					Msg("viewer send buffer full, closing connection")
				cm.dropLocked(conn)
				conn.Conn.Close()
			}
		}
	}
	cm.mu.Unlock()

	log.Debug().
		Str("room", message.Room).
		Int("connections", delivered).
		Msg("frame broadcasted")
}

// Stats reports connection counts per room.
func (cm *ConnectionManager) Stats() (total int, rooms map[string]int) {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	rooms = make(map[string]int)
	for room, connections := range cm.roomConnections {
		rooms[room] = len(connections)
		total += len(connections)
	}
	return total, rooms
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(c.Manager.config.PingInterval)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
		c.Manager.unregisterConnection(c)
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(c.Manager.config.WriteTimeout))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Error().
					Err(err).
					Str("connection_id", c.ID).
					Msg("failed to write frame to viewer")
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(c.Manager.config.WriteTimeout))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
			c.LastPing = time.Now()
		}
	}
}

func (c *Connection) readPump() {
	defer func() {
		c.Manager.unregisterConnection(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(c.Manager.config.MaxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(c.Manager.config.ReadTimeout))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(c.Manager.config.ReadTimeout))
		c.LastPing = time.Now()
		return nil
	})

	// Viewers are read-only; incoming frames are drained and ignored.
	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Error().
					Err(err).
					Str("connection_id", c.ID).
					Msg("unexpected viewer close error")
			}
			break
		}
		c.Conn.SetReadDeadline(time.Now().Add(c.Manager.config.ReadTimeout))
	}
}
