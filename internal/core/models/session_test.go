package models

import (
	"testing"
	"time"
)

func TestSessionValidation(t *testing.T) {
	tests := []struct {
		name    string
		session Session
		wantErr bool
	}{
		{
			name: "valid session",
			session: Session{
				ID:            "1767896179548-42",
				Date:          time.Date(2026, 1, 8, 18, 16, 19, 548e6, time.UTC),
				ExerciseType:  Classical,
				ControlPause1: 20,
			},
			wantErr: false,
		},
		{
			name: "missing id",
			session: Session{
				Date:         time.Now(),
				ExerciseType: MCP,
			},
			wantErr: true,
		},
		{
			name: "missing date",
			session: Session{
				ID:           "1-1",
				ExerciseType: MCP,
			},
			wantErr: true,
		},
		{
			name: "unknown exercise type",
			session: Session{
				ID:           "1-1",
				Date:         time.Now(),
				ExerciseType: "yoga",
			},
			wantErr: true,
		},
		{
			name: "negative measurement",
			session: Session{
				ID:            "1-1",
				Date:          time.Now(),
				ExerciseType:  Diminished,
				ControlPause2: -1,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.session.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseExerciseType(t *testing.T) {
	tests := []struct {
		in   string
		want ExerciseType
	}{
		{"classical", Classical},
		{"DIMINISHED", Diminished},
		{" Mcp ", MCP},
		{"", Classical},
		{"yoga", Classical},
	}

	for _, tt := range tests {
		if got := ParseExerciseType(tt.in); got != tt.want {
			t.Errorf("ParseExerciseType(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
