package exercise_api_client

const (
	// Game lifecycle
	GameStateEndpoint       = "/api/game/state"
	GameStartEndpoint       = "/api/game/start"
	GameStopEndpoint        = "/api/game/stop"
	GamePauseEndpoint       = "/api/game/pause"
	GameResumeEndpoint      = "/api/game/resume"
	GameResetEndpoint       = "/api/game/reset"
	GameDismissEndpoint     = "/api/game/dismiss-briefing"
	GameInjectEndpoint      = "/api/game/inject"

	// Scenarios
	ScenariosEndpoint   = "/api/scenarios"
	ScenariosV2Endpoint = "/api/scenarios/v2"

	// Red / Blue operations
	ScanEndpoint         = "/api/scans/scan"
	AttackLaunchEndpoint = "/api/attacks/launch"
	ActionsEndpoint      = "/api/actions"

	// Voting
	VoteEndpoint         = "/api/voting/vote"
	VoteChoiceEndpoint   = "/api/voting/choice"
	VotingStatusEndpoint = "/api/voting/status"

	// Chat / activity / presence
	ChatSendEndpoint          = "/api/chat/send"
	ChatHistoryEndpoint       = "/api/chat/history"
	ActivityTrackEndpoint     = "/api/activity/track"
	ActivityRecentEndpoint    = "/api/activity/recent"
	PresenceUpdateEndpoint    = "/api/presence/update"
	PresenceStatusEndpoint    = "/api/presence/status"
	PresenceHeartbeatEndpoint = "/api/presence/heartbeat"

	// Sessions / players / auth
	SessionsEndpoint            = "/api/sessions"
	SessionsActiveEndpoint      = "/api/sessions/active"
	SessionsJoinEndpoint        = "/api/sessions/join"
	SessionsRotateEndpoint      = "/api/sessions/rotate-codes"
	PlayersAssignNameEndpoint   = "/api/players/assign-name"
	PlayersReleaseNameEndpoint  = "/api/players/release-name"
	PlayersTeamSizeEndpoint     = "/api/players/team-size"
	AuthGMLoginEndpoint         = "/api/auth/gm/login"

	// Score / timeline
	ScoreEndpoint      = "/api/score"
	ScoreResetEndpoint = "/api/score/reset"
	TimelineEndpoint   = "/api/timeline"
)
