package gateway

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/rvbops/warroom/go/internal/events"
	"github.com/rvbops/warroom/go/internal/situation"
)

// Service pumps store updates out to connected viewers.
type Service struct {
	store   *situation.Store
	manager *ConnectionManager
}

// NewService wires a broadcast pump between store and viewers.
func NewService(store *situation.Store) *Service {
	s := &Service{store: store}
	s.manager = NewConnectionManager(DefaultConnectionConfig(), s.snapshotFrame)
	return s
}

// Manager exposes the connection manager for HTTP wiring.
func (s *Service) Manager() *ConnectionManager {
	return s.manager
}

// Run subscribes to the store and forwards every update until ctx is
// cancelled. Blocks; run it in its own goroutine alongside Manager().Start.
func (s *Service) Run(ctx context.Context) {
	sub := s.store.Subscribe(64)
	defer sub.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-sub.C:
			if !ok {
				return
			}
			s.forward(update)
		}
	}
}

func (s *Service) forward(update situation.Update) {
	var frame events.Frame
	switch {
	case update.Event != nil:
		frame = events.Frame{Type: events.FrameGameEvent, Event: update.Event}
	case update.State != nil:
		state, err := json.Marshal(update.State)
		if err != nil {
			log.Error().Err(err).Msg("failed to marshal state for viewers")
			return
		}
		frame = events.Frame{Type: events.FrameSnapshotState, GameState: state}
	default:
		return
	}

	data, err := json.Marshal(frame)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal viewer frame")
		return
	}
	s.manager.Broadcast("", data)
}

// snapshotFrame builds the catch-up frame for a newly connected viewer:
// current state plus the retained event feed in one snapshot.
func (s *Service) snapshotFrame() []byte {
	state, err := json.Marshal(s.store.GameState())
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal snapshot state")
		return nil
	}
	frame := events.Frame{
		Type:      events.FrameSnapshotState,
		GameState: state,
		Events:    s.store.Events(),
	}
	data, err := json.Marshal(frame)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal snapshot frame")
		return nil
	}
	return data
}
