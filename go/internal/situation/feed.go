package situation

import (
	"encoding/json"
	"reflect"

	"github.com/rvbops/warroom/go/internal/events"
	"github.com/rvbops/warroom/go/internal/models"
)

// AddEvent ingests one event into the feed. Ingestion is idempotent by
// event id; retention is bounded to the most recent maxEvents entries.
// Returns true when the event was newly retained.
func (s *Store) AddEvent(ev events.Event) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ev.ID == "" {
		return false
	}
	if _, dup := s.seen[ev.ID]; dup {
		return false
	}
	s.seen[ev.ID] = struct{}{}
	s.feed = append(s.feed, ev)
	if len(s.feed) > maxEvents {
		evicted := s.feed[0]
		delete(s.seen, evicted.ID)
		s.feed = append(s.feed[:0], s.feed[1:]...)
	}

	s.foldLocked(&ev)
	s.notifyLocked(Update{Event: &ev})
	return true
}

// Events returns a copy of the retained feed, oldest first.
func (s *Store) Events() []events.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]events.Event, len(s.feed))
	copy(out, s.feed)
	return out
}

// EventsByKind returns retained events of one kind, oldest first.
func (s *Store) EventsByKind(kind events.Kind) []events.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []events.Event
	for _, ev := range s.feed {
		if ev.Kind == kind {
			out = append(out, ev)
		}
	}
	return out
}

// FinalResolution returns the authoritative outcome for an attack: the most
// recent non-preliminary attack_resolved event for the given attack id.
// Preliminary resolutions are retained in the feed but never returned here.
func (s *Store) FinalResolution(attackID string) (*events.AttackResolvedPayload, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := len(s.feed) - 1; i >= 0; i-- {
		ev := s.feed[i]
		if ev.Kind != events.KindAttackResolved {
			continue
		}
		var p events.AttackResolvedPayload
		if err := json.Unmarshal(ev.Payload, &p); err != nil {
			continue
		}
		if p.AttackID != attackID || p.Preliminary {
			continue
		}
		return &p, true
	}
	return nil, false
}

// AddAlert appends an alert, deduplicated by id. Alerts are append-only.
func (s *Store) AddAlert(a models.Alert) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.addAlertLocked(a) {
		return false
	}
	s.notifyLocked(Update{Alert: &a})
	return true
}

func (s *Store) addAlertLocked(a models.Alert) bool {
	for _, have := range s.alerts {
		if have.ID == a.ID {
			return false
		}
	}
	s.alerts = append(s.alerts, a)
	return true
}

// Alerts returns a copy of the alert list, oldest first.
func (s *Store) Alerts() []models.Alert {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Alert, len(s.alerts))
	copy(out, s.alerts)
	return out
}

// MergeScore applies an absolute-value score update. Fields present in the
// update always overwrite; the round breakdown is replaced only when the
// update explicitly provides one. Subscribers are notified only when a
// value actually moved, so steady-state polls stay silent.
func (s *Store) MergeScore(update models.Score) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mergeScoreLocked(update) {
		sc := s.score
		s.notifyLocked(Update{Score: &sc})
	}
}

func (s *Store) mergeScoreLocked(update models.Score) bool {
	prev := s.score
	s.score.Red = update.Red
	s.score.Blue = update.Blue
	if update.MTTD != nil {
		s.score.MTTD = update.MTTD
	}
	if update.MTTC != nil {
		s.score.MTTC = update.MTTC
	}
	if update.RoundBreakdown != nil {
		s.score.RoundBreakdown = update.RoundBreakdown
	}
	return !scoreEqual(prev, s.score)
}

func scoreEqual(a, b models.Score) bool {
	return a.Red == b.Red &&
		a.Blue == b.Blue &&
		floatPtrEqual(a.MTTD, b.MTTD) &&
		floatPtrEqual(a.MTTC, b.MTTC) &&
		reflect.DeepEqual(a.RoundBreakdown, b.RoundBreakdown)
}

func floatPtrEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// Score returns the current score.
func (s *Store) Score() models.Score {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.score
}

// SetVotingStatus replaces the team's vote tally with a fresh server read.
// The vote_update push carries deltas only, so the tally is always adopted
// whole from the poll.
func (s *Store) SetVotingStatus(status *models.VotingStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.voting = status
}

// VotingStatus returns the last known vote tally, or nil before the first
// read and after a reset.
func (s *Store) VotingStatus() *models.VotingStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.voting
}

// foldLocked applies the side effects of known event kinds onto the store:
// turn and round transitions touch the snapshot, score and alert events
// update their lists. A push is always at least as fresh as the snapshot it
// races, so these writes skip the merge heuristics.
func (s *Store) foldLocked(ev *events.Event) {
	payload, err := events.ParsePayload(ev)
	if err != nil || payload == nil {
		return
	}

	switch p := payload.(type) {
	case *events.TurnChangedPayload:
		next := *s.state
		next.CurrentTurn = p.Turn
		if !p.TurnStartTime.IsZero() {
			next.TurnStartTime = p.TurnStartTime
		}
		next.RedAttackThisTurn = false
		next.BlueActionThisTurn = false
		s.state = &next
		s.notifyLocked(Update{State: s.state})

	case *events.RoundStartedPayload:
		next := *s.state
		next.Status = models.StatusRunning
		next.Round = p.Round
		next.CurrentScenarioID = p.ScenarioID
		s.state = &next
		s.notifyLocked(Update{State: s.state})

	case *events.RoundEndedPayload:
		next := *s.state
		next.Status = models.StatusFinished
		s.state = &next
		s.notifyLocked(Update{State: s.state})

	case *events.TimerUpdatePayload:
		next := *s.state
		t := p.Timer
		next.Timer = &t
		s.state = &next

	case *events.ScoreUpdatePayload:
		if s.mergeScoreLocked(models.Score{
			Red:            p.Red,
			Blue:           p.Blue,
			MTTD:           p.MTTD,
			MTTC:           p.MTTC,
			RoundBreakdown: p.RoundBreakdown,
		}) {
			sc := s.score
			s.notifyLocked(Update{Score: &sc})
		}

	case *models.Alert:
		if s.addAlertLocked(*p) {
			s.notifyLocked(Update{Alert: p})
		}
	}
}
