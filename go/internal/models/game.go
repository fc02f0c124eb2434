package models

// GameStatus is the lifecycle phase of the shared session.
type GameStatus string

const (
	StatusLobby    GameStatus = "lobby"
	StatusRunning  GameStatus = "running"
	StatusPaused   GameStatus = "paused"
	StatusFinished GameStatus = "finished"
)

// Team identifies one of the two playing sides.
type Team string

const (
	TeamRed  Team = "red"
	TeamBlue Team = "blue"
)

// GameMode selects the exercise variant.
type GameMode string

const (
	ModeStandard GameMode = "standard"
	ModeTraining GameMode = "training"
)

// GameState is the server's snapshot of the shared session: status, turn,
// timers, and per-team progress flags. It is received wholesale on every
// poll response and WebSocket snapshot and is never partially constructed
// client-side outside the reconciliation merge.
type GameState struct {
	ID                string     `json:"id"`
	Status            GameStatus `json:"status"`
	Round             int        `json:"round"`
	Timer             *int       `json:"timer"` // server-computed elapsed seconds fallback
	StartTime         Timestamp  `json:"start_time"`
	CurrentScenarioID string     `json:"current_scenario_id"`
	Mode              GameMode   `json:"mode"`
	AudienceEnabled   bool       `json:"audience_enabled"`

	CurrentTurn   Team      `json:"current_turn"`
	TurnStartTime Timestamp `json:"turn_start_time"`
	TurnTimeLimit int       `json:"turn_time_limit"`

	RedScanCompleted     bool     `json:"red_scan_completed"`
	RedScanTool          ScanTool `json:"red_scan_tool"`
	RedScanSuccess       bool     `json:"red_scan_success"`
	RedBriefingDismissed bool     `json:"red_briefing_dismissed"`

	RedScanThisTurn    bool `json:"red_scan_this_turn"`
	RedAttackThisTurn  bool `json:"red_attack_this_turn"`
	BlueActionThisTurn bool `json:"blue_action_this_turn"`
}

// GameStartRequest asks the backend to start a round with a scenario.
type GameStartRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// TimerValue returns the server-computed elapsed seconds, or 0 when absent.
func (g *GameState) TimerValue() int {
	if g.Timer == nil {
		return 0
	}
	return *g.Timer
}

// HasRoundEvidence reports whether the snapshot carries any field that only a
// started round can set. Used by the merge to distinguish a genuinely fresh
// lobby from a stale read racing a running game.
func (g *GameState) HasRoundEvidence() bool {
	return g.CurrentScenarioID != "" || g.Round > 0 || !g.StartTime.IsZero()
}
