package models

// NodeType classifies topology nodes.
type NodeType string

const (
	NodeInternet NodeType = "internet"
	NodeFirewall NodeType = "firewall"
	NodeWAF      NodeType = "waf"
	NodeWeb      NodeType = "web"
	NodeApp      NodeType = "app"
	NodeDB       NodeType = "db"
	NodeAD       NodeType = "ad"
	NodeEndpoint NodeType = "endpoint"
	NodeCloud    NodeType = "cloud"
)

// Coord is a 2D map position.
type Coord struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is a host or appliance on the scenario map.
type Node struct {
	ID       string         `json:"id"`
	Type     NodeType       `json:"type"`
	Label    string         `json:"label"`
	Coords   Coord          `json:"coords"`
	Metadata map[string]any `json:"metadata"`
}

// Link is a directed edge between two topology nodes.
type Link struct {
	FromID   string         `json:"from_id"`
	ToID     string         `json:"to_id"`
	Metadata map[string]any `json:"metadata"`
}

// Topology is the scenario network map.
type Topology struct {
	Nodes []Node `json:"nodes"`
	Links []Link `json:"links"`
}

// Hint is a training-mode hint unlocked at a point in the round.
type Hint struct {
	Step     int    `json:"step"`
	Text     string `json:"text"`
	UnlockAt int    `json:"unlock_at"` // seconds into round
}

// Scenario is a full exercise scenario definition.
type Scenario struct {
	ID               string                       `json:"id"`
	Name             string                       `json:"name"`
	Description      string                       `json:"description"`
	Topology         Topology                     `json:"topology"`
	InitialPosture   map[string]any               `json:"initial_posture"`
	Artifacts        map[string]string            `json:"artifacts"`
	Attacks          []Attack                     `json:"attacks"`
	HintDeck         []Hint                       `json:"hint_deck"`
	RequiredScanTool ScanTool                     `json:"required_scan_tool,omitempty"`
	ScanArtifacts    map[string]map[string]string `json:"scan_artifacts"`
	RedBriefing      map[string]any               `json:"red_briefing,omitempty"`
	BlueBriefing     map[string]any               `json:"blue_briefing,omitempty"`
}

// ThreatActor profiles the adversary behind an advanced scenario.
type ThreatActor struct {
	Name     string   `json:"name"`
	Synopsis string   `json:"synopsis"`
	Tags     []string `json:"tags"`
}

// Inject is an interactive artifact, prompt, alert, or evidence drop.
type Inject struct {
	ID      string         `json:"id"`
	Kind    string         `json:"kind"` // artifact | prompt | alert | evidence
	Label   string         `json:"label"`
	Content map[string]any `json:"content"`
	Trigger string         `json:"trigger"` // time | gm | step_enter
}

// AttackStep is one step of an advanced scenario playbook.
type AttackStep struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Description     string           `json:"description"`
	Preconditions   []string         `json:"preconditions"`
	Actions         []string         `json:"actions"`
	Countermeasures []string         `json:"countermeasures"`
	Artifacts       []map[string]any `json:"artifacts"`
	Injects         []Inject         `json:"injects"`
	DetectionSLASec int              `json:"detection_sla_sec"`
	ContainSLASec   int              `json:"contain_sla_sec"`
	ScoreWeights    map[string]int   `json:"score_weights"`
	OnSuccess       string           `json:"on_success,omitempty"`
	OnFailure       string           `json:"on_failure,omitempty"`
}

// ScenarioV2 is an advanced multi-step scenario (FEATURE_ADV_SCENARIOS).
type ScenarioV2 struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	ThreatActor ThreatActor  `json:"threat_actor"`
	Steps       []AttackStep `json:"steps"`
	EntryStep   string       `json:"entry_step"`
}
