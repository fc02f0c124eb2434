package models

// BlueActionType classifies Blue team containment actions.
type BlueActionType string

const (
	ActionIsolateHost    BlueActionType = "isolate_host"
	ActionBlockIP        BlueActionType = "block_ip"
	ActionBlockDomain    BlueActionType = "block_domain"
	ActionUpdateWAF      BlueActionType = "update_waf"
	ActionDisableAccount BlueActionType = "disable_account"
	ActionResetPassword  BlueActionType = "reset_password"
	ActionOpenTicket     BlueActionType = "open_ticket"
)

// BlueAction is a containment action taken by Blue.
type BlueAction struct {
	ID         string         `json:"id"`
	Actor      string         `json:"actor"`
	Type       BlueActionType `json:"type"`
	Target     string         `json:"target"`
	Note       string         `json:"note"`
	Timestamp  Timestamp      `json:"timestamp"`
	PlayerName string         `json:"player_name,omitempty"`

	// SLA-timeline fields, only present when the backend runs with
	// FEATURE_TIMELINE_SLA enabled.
	Targets           []string `json:"targets,omitempty"`
	ActionCostSeconds *int     `json:"action_cost_seconds,omitempty"`
	CooldownSeconds   *int     `json:"cooldown_seconds,omitempty"`
	Effectiveness     *float64 `json:"effectiveness,omitempty"`
	Confidence        *float64 `json:"confidence,omitempty"`
	CorrelationID     string   `json:"correlation_id,omitempty"`
}

// ActionRequest submits a Blue containment action.
type ActionRequest struct {
	Type       BlueActionType `json:"type"`
	Target     string         `json:"target"`
	Note       string         `json:"note"`
	PlayerName string         `json:"player_name,omitempty"`
}
