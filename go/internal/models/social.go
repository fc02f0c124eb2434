package models

// ChatMessage is a team or session chat entry.
type ChatMessage struct {
	ID         string    `json:"id"`
	PlayerName string    `json:"player_name"`
	Role       string    `json:"role"` // red | blue | gm | audience
	Message    string    `json:"message"`
	Timestamp  Timestamp `json:"timestamp"`
	SessionID  string    `json:"session_id,omitempty"`
}

// ChatRequest posts a chat message.
type ChatRequest struct {
	Message    string `json:"message"`
	PlayerName string `json:"player_name"`
	Role       string `json:"role"`
}

// ActivityEvent records what a player is doing, for the presence panels.
type ActivityEvent struct {
	ID           string         `json:"id"`
	PlayerName   string         `json:"player_name"`
	Role         string         `json:"role"`
	ActivityType string         `json:"activity_type"`
	Description  string         `json:"description"`
	Timestamp    Timestamp      `json:"timestamp"`
	Metadata     map[string]any `json:"metadata"`
}

// ActivityRequest reports a player activity.
type ActivityRequest struct {
	PlayerName   string         `json:"player_name"`
	Role         string         `json:"role"`
	ActivityType string         `json:"activity_type"`
	Description  string         `json:"description"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

// PlayerPresence is one player's online status.
type PlayerPresence struct {
	PlayerName      string    `json:"player_name"`
	Role            string    `json:"role"`
	IsOnline        bool      `json:"is_online"`
	LastSeen        Timestamp `json:"last_seen"`
	CurrentActivity string    `json:"current_activity,omitempty"`
	SessionID       string    `json:"session_id,omitempty"`
}

// PresenceStatus lists presence for one team.
type PresenceStatus struct {
	Role    string           `json:"role"`
	Players []PlayerPresence `json:"players"`
}

// VoteRequest casts a vote for another player's proposed choice.
type VoteRequest struct {
	VoterName        string `json:"voter_name"`
	TargetPlayerName string `json:"target_player_name"`
	Role             string `json:"role"` // "red" | "blue"
}

// VoteResponse acknowledges a vote or choice submission.
type VoteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// PlayerChoice is a player's proposed action for the current turn.
type PlayerChoice struct {
	PlayerName string `json:"player_name"`
	Role       string `json:"role"`

	// Red team proposals.
	ScanTool   ScanTool   `json:"scan_tool,omitempty"`
	AttackID   string     `json:"attack_id,omitempty"`
	AttackType AttackType `json:"attack_type,omitempty"`

	// Blue team proposals.
	ActionType   BlueActionType `json:"action_type,omitempty"`
	ActionTarget string         `json:"action_target,omitempty"`

	Timestamp Timestamp `json:"timestamp"`
}

// VotingStatus is the tally of choices and votes for the current turn.
type VotingStatus struct {
	Role          string              `json:"role"`
	PlayerChoices []PlayerChoice      `json:"player_choices"`
	Votes         map[string][]string `json:"votes"` // target player -> voters
	TurnNumber    *int                `json:"turn_number,omitempty"`
}
