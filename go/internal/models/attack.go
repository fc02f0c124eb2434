package models

// AttackType classifies Red team attacks.
type AttackType string

const (
	AttackRCE         AttackType = "RCE"
	AttackSQLi        AttackType = "SQLi"
	AttackBruteforce  AttackType = "Bruteforce"
	AttackPhishing    AttackType = "Phishing"
	AttackLateralMove AttackType = "LateralMove"
	AttackExfil       AttackType = "Exfil"
)

// Attack is a scenario-defined attack option available to Red.
type Attack struct {
	ID                   string             `json:"id"`
	AttackType           AttackType         `json:"attack_type"`
	FromNode             string             `json:"from_node"`
	ToNode               string             `json:"to_node"`
	Preconditions        []string           `json:"preconditions"`
	SuccessProbModifiers map[string]float64 `json:"success_prob_modifiers"`
	Effects              map[string]any     `json:"effects"`
	IsCorrectChoice      bool               `json:"is_correct_choice"`
	RequiresScan         bool               `json:"requires_scan"`
	RequiredScanTool     ScanTool           `json:"required_scan_tool,omitempty"`
}

// AttackLaunchRequest launches an attack along a topology edge.
type AttackLaunchRequest struct {
	AttackID   string `json:"attack_id"`
	FromNode   string `json:"from_node"`
	ToNode     string `json:"to_node"`
	PlayerName string `json:"player_name,omitempty"`
}

// AttackLaunchResponse is the immediate REST reply to a launch; the
// authoritative outcome arrives later as an attack_resolved event.
type AttackLaunchResponse struct {
	AttackID    string  `json:"attack_id"`
	Result      string  `json:"result"` // "pending" | "miss" | "blocked"
	AlertsCount int     `json:"alerts_count"`
	Alerts      []Alert `json:"alerts"`
}
