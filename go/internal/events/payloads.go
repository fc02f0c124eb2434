package events

import "github.com/rvbops/warroom/go/internal/models"

// RoundStartedPayload announces a new round.
type RoundStartedPayload struct {
	Round        int    `json:"round"`
	ScenarioID   string `json:"scenario_id"`
	ScenarioName string `json:"scenario_name"`
}

// RoundEndedPayload announces the end of a round.
type RoundEndedPayload struct {
	Reason             string `json:"reason"` // time_limit | manual_stop | new_game_starting
	ElapsedSeconds     int    `json:"elapsed_seconds"`
	LimitSeconds       int    `json:"limit_seconds,omitempty"`
	PreviousScenarioID string `json:"previous_scenario_id,omitempty"`
}

// AttackLaunchedPayload announces a Red attack entering the map.
type AttackLaunchedPayload struct {
	AttackID   string            `json:"attack_id"`
	AttackType models.AttackType `json:"attack_type"`
	From       string            `json:"from"`
	To         string            `json:"to"`
	PlayerName string            `json:"player_name,omitempty"`
	SourceIP   string            `json:"source_ip,omitempty"`
	IsBlocked  bool              `json:"is_blocked,omitempty"`
}

// AttackResolvedPayload carries an attack outcome. The backend emits a
// preliminary resolution before Blue's response is factored in and a final
// one after; consumers deriving the authoritative result must filter
// Preliminary and take the most recent final event per attack id.
type AttackResolvedPayload struct {
	AttackID    string            `json:"attack_id"`
	AttackType  models.AttackType `json:"attack_type"`
	From        string            `json:"from"`
	To          string            `json:"to"`
	Result      string            `json:"result"` // hit | miss | blocked | contained
	Preliminary bool              `json:"preliminary"`
	Reason      string            `json:"reason,omitempty"`
	SourceIP    string            `json:"source_ip,omitempty"`
	ScoreDeltas map[string]int    `json:"score_deltas,omitempty"`
}

// ScoreUpdatePayload carries absolute score values.
type ScoreUpdatePayload struct {
	Red            int              `json:"red"`
	Blue           int              `json:"blue"`
	MTTD           *float64         `json:"mttd"`
	MTTC           *float64         `json:"mttc"`
	RoundBreakdown []map[string]any `json:"round_breakdown,omitempty"`
}

// TrainingHintPayload unlocks a training-mode hint.
type TrainingHintPayload struct {
	Step int    `json:"step"`
	Text string `json:"text"`
}

// GMInjectPayload is a manual Game Manager inject.
type GMInjectPayload struct {
	Type   string `json:"type"`
	Target string `json:"target"`
	Note   string `json:"note"`
}

// TimerUpdatePayload is the server's periodic game-clock broadcast, used as
// a fallback when the client cannot derive elapsed time locally.
type TimerUpdatePayload struct {
	Timer         int `json:"timer"`
	TimerLimit    int `json:"timer_limit"`
	TimeRemaining int `json:"time_remaining"`
}

// TurnChangedPayload announces control passing to the other team.
type TurnChangedPayload struct {
	Turn          models.Team      `json:"turn"`
	Reason        string           `json:"reason"` // turn_timeout | attack_blocked | action_taken | manual
	PreviousTurn  models.Team      `json:"previous_turn"`
	TurnStartTime models.Timestamp `json:"turn_start_time"`
}

// TurnTimeoutPayload announces a turn expiring at its time limit.
type TurnTimeoutPayload struct {
	ExpiredTurn    models.Team      `json:"expired_turn"`
	NewTurn        models.Team      `json:"new_turn"`
	Reason         string           `json:"reason"`
	ElapsedSeconds int              `json:"elapsed_seconds"`
	TurnStartTime  models.Timestamp `json:"turn_start_time"`
}

// ScanCompletedPayload announces a Red scan verdict.
type ScanCompletedPayload struct {
	ScanID     string          `json:"scan_id"`
	Tool       models.ScanTool `json:"tool"`
	TargetNode string          `json:"target_node"`
	Success    bool            `json:"success"`
	ScenarioID string          `json:"scenario_id"`
	Points     int             `json:"points"`
}

// VoteUpdatePayload announces voting activity within a team.
type VoteUpdatePayload struct {
	Role             string `json:"role"`
	TargetPlayerName string `json:"target_player_name,omitempty"`
	VoterName        string `json:"voter_name,omitempty"`
	VoteCount        int    `json:"vote_count,omitempty"`
	PlayerName       string `json:"player_name,omitempty"`
	ChoiceUpdated    bool   `json:"choice_updated,omitempty"`
	TotalChoices     int    `json:"total_choices,omitempty"`
}
