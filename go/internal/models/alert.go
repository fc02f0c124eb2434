package models

// Alert is a security alert emitted by the simulated sensors (IDS, EDR,
// Proxy, WAF, DB). Append-only from the client's point of view.
type Alert struct {
	ID         string         `json:"id"`
	Timestamp  Timestamp      `json:"timestamp"`
	Source     string         `json:"source"`
	Severity   string         `json:"severity"` // low, medium, high, critical
	Summary    string         `json:"summary"`
	Details    string         `json:"details"`
	IOC        map[string]any `json:"ioc"`
	Confidence float64        `json:"confidence"`
	HintRef    string         `json:"hint_ref,omitempty"`
}
