package localtime

import (
	"strings"
	"time"

	"github.com/pkg/errors"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

var clockLayouts = []string{ClockLayout, "15:04:05"}

// Local is the wall-clock rendering of an instant in a zone
type Local struct {
	Date     string // YYYY-MM-DD
	Time     string // HH:MM, 24-hour
	Timezone string
}

// ToLocal renders t as it reads on a clock in z
func ToLocal(t time.Time, z Zone) Local {
	in := t.In(z.location())
	return Local{
		Date:     in.Format(DateLayout),
		Time:     in.Format(ClockLayout),
		Timezone: z.Name,
	}
}

// ToUTC finds the instant whose rendering in z is the given date and clock.
//
// Wall-clock times inside a DST gap or repeated by a DST overlap resolve to one
// of the two candidate offsets, so ToLocal may not reproduce the input exactly
// at a transition.
func ToUTC(date, clock string, z Zone) (time.Time, error) {
	day, err := time.Parse(DateLayout, strings.TrimSpace(date))
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "parse local date %q", date)
	}
	tod, err := parseClock(clock)
	if err != nil {
		return time.Time{}, err
	}

	t := time.Date(day.Year(), day.Month(), day.Day(),
		tod.Hour(), tod.Minute(), tod.Second(), 0, z.location())
	return t.UTC(), nil
}

func parseClock(clock string) (time.Time, error) {
	clock = strings.TrimSpace(clock)
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, clock); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.Errorf("parse local time %q", clock)
}

// Reconciler applies ToLocal/ToUTC with a default zone for rows and records
// that do not name one.
type Reconciler struct {
	Default Zone
}

// NewReconciler creates a reconciler falling back to def
func NewReconciler(def Zone) *Reconciler {
	if def.Location == nil {
		def = SystemZone()
	}
	return &Reconciler{Default: def}
}

// Resolve loads label, or returns the default zone when label is blank
func (r *Reconciler) Resolve(label string) (Zone, error) {
	if strings.TrimSpace(label) == "" {
		return r.Default, nil
	}
	return LoadZone(label)
}

// Derive renders t in the zone named by label
func (r *Reconciler) Derive(t time.Time, label string) (Local, error) {
	z, err := r.Resolve(label)
	if err != nil {
		return Local{}, err
	}
	return ToLocal(t, z), nil
}

// Instant interprets date and clock in the zone named by label. The returned
// Local is the normalised triple (zero-padded, default zone filled in).
func (r *Reconciler) Instant(date, clock, label string) (time.Time, Local, error) {
	z, err := r.Resolve(label)
	if err != nil {
		return time.Time{}, Local{}, err
	}
	t, err := ToUTC(date, clock, z)
	if err != nil {
		return time.Time{}, Local{}, err
	}
	return t, ToLocal(t, z), nil
}
