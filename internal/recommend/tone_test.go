package recommend

import (
	"strings"
	"testing"
)

func TestCheckTone(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr string
	}{
		{
			name: "supportive guidance passes",
			text: "Consider paying more than the minimum to reduce interest over time.",
		},
		{
			name:    "judgmental phrase is blocked",
			text:    "You are irresponsible with credit. Consider a budget.",
			wantErr: "blocked phrase",
		},
		{
			name:    "absolute phrase is blocked",
			text:    "You always overspend. Consider tracking purchases.",
			wantErr: "blocked phrase",
		},
		{
			name:    "blocklist match is case-insensitive",
			text:    "That was RECKLESS. You could try a spending plan.",
			wantErr: "blocked phrase",
		},
		{
			name:    "no supportive marker",
			text:    "Your utilization is 85% this month.",
			wantErr: "no supportive language marker",
		},
		{
			name:    "two exclamation marks",
			text:    "You can do this! Start today!",
			wantErr: "exclamation",
		},
		{
			name: "single exclamation mark is fine",
			text: "You can do this! Small steps add up.",
		},
		{
			name:    "all-caps run reads as shouting",
			text:    "ACT NOW to consider a lower rate.",
			wantErr: "all-caps run",
		},
		{
			name: "single acronym is tolerated",
			text: "A lower APR could reduce what you pay each month.",
		},
		{
			name: "capitalized sentence start is not a caps word",
			text: "Try reviewing your APR once a year.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckTone(tt.text)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("CheckTone(%q) = %v, want nil", tt.text, err)
				}
				return
			}
			if err == nil {
				t.Fatalf("CheckTone(%q) = nil, want error containing %q", tt.text, tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("CheckTone(%q) = %v, want error containing %q", tt.text, err, tt.wantErr)
			}
		})
	}
}

func TestAllCapsRun(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"ACT NOW before rates change", "ACT NOW"},
		{"the APR is fixed", ""},
		{"APR and FDIC appear apart from each other", ""},
		{"I am on it", ""},
		{"DO NOT WAIT", "DO NOT"},
	}
	for _, tt := range tests {
		if got := allCapsRun(tt.text); got != tt.want {
			t.Errorf("allCapsRun(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}
