package events

import (
	"encoding/json"
	"fmt"

	"github.com/rvbops/warroom/go/internal/models"
)

// Kind identifies the event variant carried in the payload.
type Kind string

const (
	KindRoundStarted   Kind = "round_started"
	KindRoundEnded     Kind = "round_ended"
	KindAttackLaunched Kind = "attack_launched"
	KindAttackResolved Kind = "attack_resolved"
	KindAlertEmitted   Kind = "alert_emitted"
	KindActionTaken    Kind = "action_taken"
	KindScoreUpdate    Kind = "score_update"
	KindTrainingHint   Kind = "training_hint"
	KindGMInject       Kind = "gm_inject"
	KindTimerUpdate    Kind = "timer_update"
	KindTurnChanged    Kind = "turn_changed"
	KindTurnTimeout    Kind = "turn_timeout"
	KindScanCompleted  Kind = "scan_completed"
	KindChatMessage    Kind = "chat_message"
	KindActivityEvent  Kind = "activity_event"
	KindPresenceUpdate Kind = "presence_update"
	KindVoteUpdate     Kind = "vote_update"
)

// Event is the immutable envelope the backend emits for everything that
// happens in a game: server-assigned id, kind discriminator, timestamp, and
// a kind-specific payload decoded on demand via ParsePayload.
type Event struct {
	ID      string           `json:"id"`
	Kind    Kind             `json:"kind"`
	TS      models.Timestamp `json:"ts"`
	Payload json.RawMessage  `json:"payload"`

	// Timing/causality fields, present only when the backend runs with
	// FEATURE_TIMELINE_SLA enabled.
	ServerTS      models.Timestamp `json:"server_ts,omitzero"`
	ClientTS      models.Timestamp `json:"client_ts,omitzero"`
	CorrelationID string           `json:"correlation_id,omitempty"`
	CausedBy      string           `json:"caused_by,omitempty"`
	DeadlineAt    models.Timestamp `json:"deadline_at,omitzero"`
	LatencyMS     *float64         `json:"latency_ms,omitempty"`
}

// Frame is one WebSocket message. The backend sends two frame types:
// "game_event" wrapping a single Event, and "snapshot_state" carrying a
// game-state snapshot plus the recent event window for resync.
type Frame struct {
	Type string `json:"type"`
	V    string `json:"v,omitempty"`

	// game_event
	Event *Event `json:"event,omitempty"`

	// snapshot_state
	GameState json.RawMessage  `json:"game_state,omitempty"`
	Events    []Event          `json:"events,omitempty"`
	ServerTS  models.Timestamp `json:"server_ts,omitzero"`
}

// Frame type discriminators.
const (
	FrameGameEvent     = "game_event"
	FrameSnapshotState = "snapshot_state"
)

// DecodeFrame parses a raw WebSocket message.
func DecodeFrame(data []byte) (*Frame, error) {
	var f Frame
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode frame: %w", err)
	}
	if f.Type == "" {
		return nil, fmt.Errorf("decode frame: missing type")
	}
	return &f, nil
}

// ParsePayload decodes the event payload into the typed struct for its kind.
// Unknown kinds return (nil, nil) so new server-side kinds degrade gracefully.
func ParsePayload(ev *Event) (any, error) {
	decode := func(dst any) (any, error) {
		if len(ev.Payload) == 0 {
			return dst, nil
		}
		if err := json.Unmarshal(ev.Payload, dst); err != nil {
			return nil, fmt.Errorf("parse %s payload: %w", ev.Kind, err)
		}
		return dst, nil
	}

	switch ev.Kind {
	case KindRoundStarted:
		return decode(&RoundStartedPayload{})
	case KindRoundEnded:
		return decode(&RoundEndedPayload{})
	case KindAttackLaunched:
		return decode(&AttackLaunchedPayload{})
	case KindAttackResolved:
		return decode(&AttackResolvedPayload{})
	case KindAlertEmitted:
		return decode(&models.Alert{})
	case KindActionTaken:
		return decode(&models.BlueAction{})
	case KindScoreUpdate:
		return decode(&ScoreUpdatePayload{})
	case KindTrainingHint:
		return decode(&TrainingHintPayload{})
	case KindGMInject:
		return decode(&GMInjectPayload{})
	case KindTimerUpdate:
		return decode(&TimerUpdatePayload{})
	case KindTurnChanged:
		return decode(&TurnChangedPayload{})
	case KindTurnTimeout:
		return decode(&TurnTimeoutPayload{})
	case KindScanCompleted:
		return decode(&ScanCompletedPayload{})
	case KindChatMessage:
		return decode(&models.ChatMessage{})
	case KindActivityEvent:
		return decode(&models.ActivityEvent{})
	case KindPresenceUpdate:
		return decode(&models.PresenceStatus{})
	case KindVoteUpdate:
		return decode(&VoteUpdatePayload{})
	default:
		return nil, nil
	}
}
