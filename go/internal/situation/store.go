// Package situation holds the client's authoritative-as-known copy of the
// shared exercise state: the reconciled GameState snapshot, the bounded
// event feed, alerts, and the running score. The backend is polled on a
// fixed interval and also pushes over WebSocket; the two channels race, so
// adopting a snapshot goes through an anti-regression merge instead of a
// blind overwrite.
package situation

import (
	"sync"

	"github.com/rvbops/warroom/go/internal/events"
	"github.com/rvbops/warroom/go/internal/models"
)

// timerTolerance is the server-timer drift, in seconds, below which two
// otherwise-identical running snapshots are considered the same read.
const timerTolerance = 5

// maxEvents bounds the retained event window.
const maxEvents = 100

// Update is delivered to subscribers when the store changes. Exactly one
// field is set per update.
type Update struct {
	State *models.GameState // set when the reconciled snapshot changed
	Event *events.Event     // set when a new event was ingested
	Alert *models.Alert     // set when a new alert was retained
	Score *models.Score     // set when the score moved
}

// Subscription is a registered store listener. Slow subscribers are dropped
// rather than blocking the ingest path.
type Subscription struct {
	C     chan Update
	store *Store
}

// Close unregisters the subscription.
func (s *Subscription) Close() {
	s.store.mu.Lock()
	delete(s.store.subs, s)
	s.store.mu.Unlock()
}

// Store is the shared mutable state visible to every view. All mutation is
// funneled through its methods; the merge logic is idempotent and
// order-insensitive for near-simultaneous poll/push applications.
type Store struct {
	mu sync.Mutex

	state  *models.GameState
	feed   []events.Event
	seen   map[string]struct{}
	alerts []models.Alert
	score  models.Score
	voting *models.VotingStatus

	subs map[*Subscription]struct{}
}

// NewStore returns an empty store in the lobby state.
func NewStore() *Store {
	return &Store{
		state: &models.GameState{
			ID:            "default",
			Status:        models.StatusLobby,
			Mode:          models.ModeStandard,
			TurnTimeLimit: 300,
		},
		seen: make(map[string]struct{}),
		subs: make(map[*Subscription]struct{}),
	}
}

// Subscribe registers a listener for store updates.
func (s *Store) Subscribe(buffer int) *Subscription {
	sub := &Subscription{C: make(chan Update, buffer), store: s}
	s.mu.Lock()
	s.subs[sub] = struct{}{}
	s.mu.Unlock()
	return sub
}

func (s *Store) notifyLocked(u Update) {
	for sub := range s.subs {
		select {
		case sub.C <- u:
		default:
			// Drop if subscriber is slow.
		}
	}
}

// GameState returns a copy of the current reconciled snapshot.
func (s *Store) GameState() models.GameState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.state
}

// SetGameState adopts an incoming snapshot through the anti-regression
// merge and returns the resulting state object. When the incoming snapshot
// is judged an insignificant re-read, the existing object is returned
// unchanged (referential equality preserved) so downstream consumers can
// skip redundant work. Rules are evaluated in order, first match wins:
//
//  1. local running with round evidence, incoming finished with a lower
//     round: stale read, stay running on the local round.
//  2. local running with round evidence, incoming lobby: stale read, force
//     status back to running.
//  3. both running, only the server timer moved by less than the tolerance:
//     no-op.
//  4. both running with no significant difference at all: no-op.
//  5. otherwise adopt incoming, carrying local scan progress forward if the
//     incoming snapshot silently lost it mid-round.
//
// This is best-effort smoothing of known poll/push reorderings, not a
// consistency protocol; a permanently dropped update is not recoverable here.
func (s *Store) SetGameState(incoming *models.GameState) *models.GameState {
	if incoming == nil {
		return s.state
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	local := s.state

	switch {
	case local.Status == models.StatusRunning && local.HasRoundEvidence() &&
		incoming.Status == models.StatusFinished && incoming.Round < local.Round:
		merged := mergePreferIncoming(local, incoming)
		merged.Status = models.StatusRunning
		merged.Round = local.Round
		s.state = merged

	case local.Status == models.StatusRunning && local.HasRoundEvidence() &&
		incoming.Status == models.StatusLobby:
		merged := mergePreferIncoming(local, incoming)
		merged.Status = models.StatusRunning
		s.state = merged

	case local.Status == models.StatusRunning && incoming.Status == models.StatusRunning &&
		sameTracked(local, incoming) && timerDelta(local, incoming) < timerTolerance:
		// Rules 3 and 4: an equivalent re-read, possibly with server-timer
		// drift. Keep the existing object to avoid spurious updates.
		return local

	default:
		adopted := *incoming
		carryScanProgress(local, &adopted)
		s.state = &adopted
	}

	s.notifyLocked(Update{State: s.state})
	return s.state
}

// mergePreferIncoming builds a snapshot from incoming, falling back to local
// for every field incoming left null or zero.
func mergePreferIncoming(local, incoming *models.GameState) *models.GameState {
	merged := *incoming

	if merged.ID == "" {
		merged.ID = local.ID
	}
	if merged.Round == 0 {
		merged.Round = local.Round
	}
	if merged.Timer == nil {
		merged.Timer = local.Timer
	}
	if merged.StartTime.IsZero() {
		merged.StartTime = local.StartTime
	}
	if merged.CurrentScenarioID == "" {
		merged.CurrentScenarioID = local.CurrentScenarioID
	}
	if merged.Mode == "" {
		merged.Mode = local.Mode
	}
	if merged.CurrentTurn == "" {
		merged.CurrentTurn = local.CurrentTurn
	}
	if merged.TurnStartTime.IsZero() {
		merged.TurnStartTime = local.TurnStartTime
	}
	if merged.TurnTimeLimit == 0 {
		merged.TurnTimeLimit = local.TurnTimeLimit
	}
	carryScanProgress(local, &merged)
	return &merged
}

// carryScanProgress keeps locally known scan results alive across a snapshot
// that failed to include them. Scan state only ever accumulates while a
// round is in progress; a falsy regression is a slow read, not a reset.
func carryScanProgress(local, adopted *models.GameState) {
	if local.Status != models.StatusRunning {
		return
	}
	if local.RedScanCompleted && !adopted.RedScanCompleted {
		adopted.RedScanCompleted = true
		adopted.RedScanSuccess = adopted.RedScanSuccess || local.RedScanSuccess
	}
	if adopted.RedScanTool == "" {
		adopted.RedScanTool = local.RedScanTool
	}
	if local.RedBriefingDismissed && !adopted.RedBriefingDismissed {
		adopted.RedBriefingDismissed = true
	}
}

// sameTracked reports whether two snapshots agree on every field the merge
// treats as significant. The server timer is deliberately excluded; its
// drift is judged separately against the tolerance.
func sameTracked(a, b *models.GameState) bool {
	return a.Status == b.Status &&
		a.Round == b.Round &&
		a.CurrentScenarioID == b.CurrentScenarioID &&
		a.CurrentTurn == b.CurrentTurn &&
		a.StartTime.Equal(b.StartTime.Time) &&
		a.TurnStartTime.Equal(b.TurnStartTime.Time) &&
		a.TurnTimeLimit == b.TurnTimeLimit &&
		a.RedScanCompleted == b.RedScanCompleted &&
		a.RedScanTool == b.RedScanTool &&
		a.RedScanSuccess == b.RedScanSuccess &&
		a.RedBriefingDismissed == b.RedBriefingDismissed &&
		a.RedScanThisTurn == b.RedScanThisTurn &&
		a.RedAttackThisTurn == b.RedAttackThisTurn &&
		a.BlueActionThisTurn == b.BlueActionThisTurn
}

func timerDelta(a, b *models.GameState) int {
	d := a.TimerValue() - b.TimerValue()
	if d < 0 {
		d = -d
	}
	return d
}

// Reset clears game-scoped state back to the lobby. Session identity lives
// in the profile and is untouched.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = &models.GameState{
		ID:            s.state.ID,
		Status:        models.StatusLobby,
		Mode:          models.ModeStandard,
		TurnTimeLimit: 300,
	}
	s.feed = nil
	s.seen = make(map[string]struct{})
	s.alerts = nil
	s.score = models.Score{}
	s.voting = nil
	s.notifyLocked(Update{State: s.state})
}
