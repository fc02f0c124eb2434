package models

// Score holds the running totals plus detection/containment timing metrics.
// Updates from the server are absolute values, never deltas.
type Score struct {
	Red            int              `json:"red"`
	Blue           int              `json:"blue"`
	MTTD           *float64         `json:"mttd"` // mean time to detection, seconds
	MTTC           *float64         `json:"mttc"` // mean time to containment, seconds
	RoundBreakdown []map[string]any `json:"round_breakdown"`
}
