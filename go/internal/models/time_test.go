package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseServerTime(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    time.Time
		wantErr bool
	}{
		{
			name: "naive string pinned to UTC",
			in:   "2024-01-01T00:05:00",
			want: time.Date(2024, 1, 1, 0, 5, 0, 0, time.UTC),
		},
		{
			name: "explicit Z",
			in:   "2024-01-01T00:05:00Z",
			want: time.Date(2024, 1, 1, 0, 5, 0, 0, time.UTC),
		},
		{
			name: "explicit offset normalized to UTC",
			in:   "2024-01-01T02:05:00+02:00",
			want: time.Date(2024, 1, 1, 0, 5, 0, 0, time.UTC),
		},
		{
			name: "fractional seconds",
			in:   "2024-01-01T00:05:00.250",
			want: time.Date(2024, 1, 1, 0, 5, 0, 250000000, time.UTC),
		},
		{
			name:    "garbage",
			in:      "not-a-time",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseServerTime(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseServerTime(%q) succeeded, want error", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseServerTime(%q): %v", tt.in, err)
			}
			if !got.Equal(tt.want) {
				t.Fatalf("ParseServerTime(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNaiveAndSuffixedStringsAgree(t *testing.T) {
	naive, err := ParseServerTime("2024-06-15T12:30:00")
	if err != nil {
		t.Fatalf("naive parse: %v", err)
	}
	suffixed, err := ParseServerTime("2024-06-15T12:30:00Z")
	if err != nil {
		t.Fatalf("suffixed parse: %v", err)
	}
	if !naive.Equal(suffixed) {
		t.Fatalf("naive %v != suffixed %v", naive, suffixed)
	}
}

func TestTimestampUnmarshalNull(t *testing.T) {
	var ts Timestamp
	if err := json.Unmarshal([]byte("null"), &ts); err != nil {
		t.Fatalf("unmarshal null: %v", err)
	}
	if !ts.IsZero() {
		t.Fatalf("timestamp = %v, want zero", ts.Time)
	}
}

func TestTimestampRoundTrip(t *testing.T) {
	in := NewTimestamp(time.Date(2024, 1, 1, 0, 5, 0, 0, time.UTC))
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var out Timestamp
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !out.Equal(in.Time) {
		t.Fatalf("round trip = %v, want %v", out.Time, in.Time)
	}
}

func TestTimestampMarshalZeroAsNull(t *testing.T) {
	data, err := json.Marshal(Timestamp{})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != "null" {
		t.Fatalf("marshal zero = %s, want null", data)
	}
}

func TestGameStateDecodesNaiveTimestamps(t *testing.T) {
	raw := `{
		"id": "default",
		"status": "running",
		"round": 2,
		"timer": 120,
		"start_time": "2024-01-01T00:00:00",
		"current_turn": "red",
		"turn_start_time": "2024-01-01T00:04:00",
		"turn_time_limit": 300
	}`

	var gs GameState
	if err := json.Unmarshal([]byte(raw), &gs); err != nil {
		t.Fatalf("unmarshal game state: %v", err)
	}
	if gs.Status != StatusRunning || gs.Round != 2 {
		t.Fatalf("state = %+v, want running round 2", gs)
	}
	if gs.TimerValue() != 120 {
		t.Fatalf("timer = %d, want 120", gs.TimerValue())
	}
	want := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if !gs.StartTime.Equal(want) {
		t.Fatalf("start time = %v, want %v", gs.StartTime.Time, want)
	}
}

func TestHasRoundEvidence(t *testing.T) {
	tests := []struct {
		name  string
		state GameState
		want  bool
	}{
		{"empty", GameState{}, false},
		{"scenario set", GameState{CurrentScenarioID: "s1"}, true},
		{"round set", GameState{Round: 1}, true},
		{"start time set", GameState{StartTime: NewTimestamp(time.Now())}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.HasRoundEvidence(); got != tt.want {
				t.Fatalf("HasRoundEvidence() = %v, want %v", got, tt.want)
			}
		})
	}
}
