package models

// Role identifies which page of the exercise a client drives.
type Role string

const (
	RoleGM       Role = "GM"
	RoleRed      Role = "RED"
	RoleBlue     Role = "BLUE"
	RoleAudience Role = "AUDIENCE"
)

// Room returns the lowercase WebSocket room name for the role.
func (r Role) Room() string {
	switch r {
	case RoleGM:
		return "gm"
	case RoleRed:
		return "red"
	case RoleBlue:
		return "blue"
	default:
		return "audience"
	}
}

// GameSession is a joinable session with per-role access codes
// (FEATURE_JOIN_CODES).
type GameSession struct {
	ID           string    `json:"id"`
	State        string    `json:"state"` // lobby|running|paused|ended
	RedCode      string    `json:"red_code"`
	BlueCode     string    `json:"blue_code"`
	AudienceCode string    `json:"audience_code"`
	CreatedAt    Timestamp `json:"created_at"`
	CreatedBy    string    `json:"created_by"`
	ExpiresAt    Timestamp `json:"expires_at"`
}

// SessionCreateResponse is returned when the GM creates a session.
type SessionCreateResponse struct {
	ID           string `json:"id"`
	RedCode      string `json:"red_code"`
	BlueCode     string `json:"blue_code"`
	AudienceCode string `json:"audience_code"`
	State        string `json:"state"`
}

// JoinRequest presents an access code.
type JoinRequest struct {
	Code string `json:"code"`
}

// JoinResponse grants a role-scoped token for a session.
type JoinResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Role        Role   `json:"role"`
	SessionID   string `json:"session_id"`
	Exp         int64  `json:"exp"`
}

// LoginRequest is the GM credential login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse is a bearer token grant.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Exp         int64  `json:"exp"`
}

// AssignNameRequest asks the server to pick an alias for a joining player.
type AssignNameRequest struct {
	Role      string `json:"role"` // "red" | "blue"
	SessionID string `json:"session_id,omitempty"`
}

// AssignNameResponse carries the alias the server picked.
type AssignNameResponse struct {
	PlayerName  string `json:"player_name"`
	Role        string `json:"role"`
	SessionID   string `json:"session_id,omitempty"`
	TeamSize    int    `json:"team_size"`
	MaxTeamSize int    `json:"max_team_size"`
}

// ReleaseNameRequest returns an alias to the pool on disconnect.
type ReleaseNameRequest struct {
	PlayerName string `json:"player_name"`
	Role       string `json:"role"`
	SessionID  string `json:"session_id,omitempty"`
}

// TeamSizeResponse reports the current head count for a team.
type TeamSizeResponse struct {
	Role        string `json:"role"`
	SessionID   string `json:"session_id,omitempty"`
	TeamSize    int    `json:"team_size"`
	MaxTeamSize int    `json:"max_team_size"`
}
