// Package exercises describes the guided breathing exercises and how the
// measurements logged during one are turned into a session.
package exercises

import (
	"strconv"
	"time"

	"github.com/neilberkman/breatheless/internal/core/models"
	"github.com/pkg/errors"
)

// Stage is one step of an exercise. Logged stages produce a measurement.
type Stage struct {
	Name         string
	ShortName    string
	Instructions string
	Duration     time.Duration
	AutoStart    bool
	Logged       bool
}

// Exercise is a complete guided exercise
type Exercise struct {
	Type        models.ExerciseType
	Name        string
	ShortName   string
	Description string
	Layout      []Stage

	// MapLog turns the logged values, in stage order, into a session.
	// Missing values become 0 and extra values are ignored.
	MapLog func(log []float64, at time.Time) models.Session
}

// ErrUnknownExercise is returned by Get for a type with no definition
var ErrUnknownExercise = errors.New("unknown exercise")

// Registry holds the exercise definitions by type
type Registry struct {
	byType map[models.ExerciseType]Exercise
}

// NewRegistry builds a registry containing every exercise type
func NewRegistry() *Registry {
	r := &Registry{byType: make(map[models.ExerciseType]Exercise)}
	for _, ex := range []Exercise{classical(), diminished(), morningControlPause()} {
		r.byType[ex.Type] = ex
	}
	return r
}

// Get returns the definition for t
func (r *Registry) Get(t models.ExerciseType) (Exercise, error) {
	ex, ok := r.byType[t]
	if !ok {
		return Exercise{}, errors.Wrapf(ErrUnknownExercise, "%q", t)
	}
	return ex, nil
}

// All returns every exercise in models.ExerciseTypes order
func (r *Registry) All() []Exercise {
	out := make([]Exercise, 0, len(r.byType))
	for _, t := range models.ExerciseTypes {
		if ex, ok := r.byType[t]; ok {
			out = append(out, ex)
		}
	}
	return out
}

// LoggedStages returns the stages of t that produce a measurement, in the
// order MapLog expects their values
func (r *Registry) LoggedStages(t models.ExerciseType) ([]Stage, error) {
	ex, err := r.Get(t)
	if err != nil {
		return nil, err
	}
	return ex.LoggedStages(), nil
}

// LoggedStages returns the stages that produce a measurement
func (e Exercise) LoggedStages() []Stage {
	var out []Stage
	for _, s := range e.Layout {
		if s.Logged {
			out = append(out, s)
		}
	}
	return out
}

// TotalDuration sums the timed stages
func (e Exercise) TotalDuration() time.Duration {
	var d time.Duration
	for _, s := range e.Layout {
		d += s.Duration
	}
	return d
}

// at returns log[i] or 0
func at(log []float64, i int) float64 {
	if i < len(log) {
		return log[i]
	}
	return 0
}

// baseSession fills the fields every mapper sets the same way
func baseSession(t models.ExerciseType, date time.Time) models.Session {
	return models.Session{
		ID:           strconv.FormatInt(date.UnixMilli(), 10),
		Date:         date,
		ExerciseType: t,
	}
}
