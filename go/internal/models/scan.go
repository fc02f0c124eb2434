package models

// ScanTool is a reconnaissance tool Red may run against the topology.
type ScanTool string

const (
	ToolOWASPZap       ScanTool = "OWASP ZAP"
	ToolNmap           ScanTool = "Nmap"
	ToolSQLMap         ScanTool = "SQLMap"
	ToolNikto          ScanTool = "Nikto"
	ToolHaveIBeenPwned ScanTool = "HaveIBeenPwned"
)

// ScanRequest submits a scan against a target node.
type ScanRequest struct {
	Tool       ScanTool `json:"tool"`
	TargetNode string   `json:"target_node"`
	ScenarioID string   `json:"scenario_id"`
	PlayerName string   `json:"player_name,omitempty"`
}

// ScanResult is the backend's verdict on a submitted scan.
type ScanResult struct {
	ScanID     string            `json:"scan_id"`
	Tool       ScanTool          `json:"tool"`
	TargetNode string            `json:"target_node"`
	Success    bool              `json:"success"`
	Results    map[string]string `json:"results"`
	Timestamp  Timestamp         `json:"timestamp"`
	Message    string            `json:"message"`
	PlayerName string            `json:"player_name,omitempty"`
}
