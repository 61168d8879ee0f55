package models

import (
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

// ExerciseType identifies which breathing exercise produced a session
type ExerciseType string

const (
	Classical  ExerciseType = "classical"
	Diminished ExerciseType = "diminished"
	MCP        ExerciseType = "mcp"
)

// ExerciseTypes lists the known types in display order
var ExerciseTypes = []ExerciseType{Classical, Diminished, MCP}

// ParseExerciseType matches s case-insensitively against the known types.
// Anything else, including the empty string, is classical.
func ParseExerciseType(s string) ExerciseType {
	if t, ok := LookupExerciseType(s); ok {
		return t
	}
	return Classical
}

// LookupExerciseType is ParseExerciseType without the fallback
func LookupExerciseType(s string) (ExerciseType, bool) {
	candidate := ExerciseType(strings.ToLower(strings.TrimSpace(s)))
	for _, t := range ExerciseTypes {
		if candidate == t {
			return t, true
		}
	}
	return "", false
}

// Session is one completed exercise: measurements plus when it happened.
//
// Date is the canonical instant. LocalDate, LocalTime and Timezone are the
// wall-clock rendering captured alongside it and are stored verbatim.
type Session struct {
	ID           string       `json:"id" validate:"required"`
	Date         time.Time    `json:"date" validate:"required"`
	LocalDate    string       `json:"localDate"`
	LocalTime    string       `json:"localTime"`
	Timezone     string       `json:"timezone"`
	ExerciseType ExerciseType `json:"exerciseType" validate:"oneof=classical diminished mcp"`

	ControlPause1 float64 `json:"controlPause1" validate:"gte=0"`
	ControlPause2 float64 `json:"controlPause2" validate:"gte=0"`
	MaxPause1     float64 `json:"maxPause1" validate:"gte=0"` // light effort (classical only)
	MaxPause2     float64 `json:"maxPause2" validate:"gte=0"` // medium effort (classical only)
	MaxPause3     float64 `json:"maxPause3" validate:"gte=0"` // full effort (classical only)
	Pulse1        float64 `json:"pulse1" validate:"gte=0"`
	Pulse2        float64 `json:"pulse2" validate:"gte=0"`

	Note string `json:"note"`
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validate checks if the session has required fields
func (s *Session) Validate() error {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate.Struct(s)
}
