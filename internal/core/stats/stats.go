// Package stats computes progress figures over recorded sessions.
package stats

import (
	"math"
	"sort"
	"time"

	"github.com/neilberkman/breatheless/internal/core/models"
)

// roundHalfUp rounds .5 toward positive infinity
func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}

func sorted(values []float64) []float64 {
	out := append([]float64(nil), values...)
	sort.Float64s(out)
	return out
}

// Median returns the middle value, or the rounded mean of the two middle
// values for an even count. Empty input gives 0.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	s := sorted(values)
	mid := len(s) / 2
	if len(s)%2 != 0 {
		return s[mid]
	}
	return roundHalfUp((s[mid-1] + s[mid]) / 2)
}

// Percentile interpolates linearly between closest ranks and rounds the
// result. p is 0-100. Empty input gives 0.
func Percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	s := sorted(values)
	index := p / 100 * float64(len(s)-1)
	lower := int(math.Floor(index))
	upper := int(math.Ceil(index))
	lower = max(0, min(lower, len(s)-1))
	upper = max(0, min(upper, len(s)-1))
	if lower == upper {
		return s[lower]
	}
	fraction := index - float64(lower)
	return roundHalfUp(s[lower] + fraction*(s[upper]-s[lower]))
}

// Summary describes all sessions of one exercise type
type Summary struct {
	Type         models.ExerciseType
	Count        int
	First        time.Time
	Last         time.Time
	MedianCP     float64
	P90CP        float64
	BestMaxPause float64
}

// Summarize groups sessions by type in models.ExerciseTypes order. Types
// with no sessions are left out.
func Summarize(sessions []models.Session) []Summary {
	byType := make(map[models.ExerciseType][]models.Session)
	for _, s := range sessions {
		byType[s.ExerciseType] = append(byType[s.ExerciseType], s)
	}

	var out []Summary
	for _, t := range models.ExerciseTypes {
		group := byType[t]
		if len(group) == 0 {
			continue
		}

		sum := Summary{Type: t, Count: len(group)}
		cps := make([]float64, 0, len(group))
		for _, s := range group {
			if s.ControlPause1 > 0 {
				cps = append(cps, s.ControlPause1)
			}
			if sum.First.IsZero() || s.Date.Before(sum.First) {
				sum.First = s.Date
			}
			if s.Date.After(sum.Last) {
				sum.Last = s.Date
			}
			sum.BestMaxPause = max(sum.BestMaxPause, s.MaxPause3)
		}
		sum.MedianCP = Median(cps)
		sum.P90CP = Percentile(cps, 90)
		out = append(out, sum)
	}
	return out
}
