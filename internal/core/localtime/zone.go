// Package localtime converts between UTC instants and the wall-clock
// (date, time, timezone) triples stored alongside each session.
package localtime

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // zone names must resolve on machines without a zoneinfo directory

	"github.com/pkg/errors"
)

// ErrUnknownZone is returned when a timezone label cannot be resolved
var ErrUnknownZone = errors.New("unknown timezone")

// Zone pairs the label a user wrote with the location it resolves to
type Zone struct {
	Name     string
	Location *time.Location
}

// UTC is the zero-offset zone
var UTC = Zone{Name: "UTC", Location: time.UTC}

// Matches "+13:00", "-0530", "UTC+13", "GMT-05:30"
var offsetLabel = regexp.MustCompile(`^(?:UTC|GMT)?([+-])(\d{1,2})(?::?(\d{2}))?$`)

// LoadZone resolves an IANA name ("Pacific/Auckland"), "UTC"/"GMT"/"Z",
// or a fixed offset label.
func LoadZone(name string) (Zone, error) {
	name = strings.TrimSpace(name)
	switch strings.ToUpper(name) {
	case "":
		return Zone{}, errors.Wrap(ErrUnknownZone, "empty timezone")
	case "UTC", "GMT", "Z", "ETC/UTC":
		return Zone{Name: name, Location: time.UTC}, nil
	}

	if m := offsetLabel.FindStringSubmatch(strings.ToUpper(name)); m != nil {
		hours, _ := strconv.Atoi(m[2])
		minutes := 0
		if m[3] != "" {
			minutes, _ = strconv.Atoi(m[3])
		}
		if hours > 14 || minutes > 59 {
			return Zone{}, errors.Wrapf(ErrUnknownZone, "offset out of range %q", name)
		}
		offset := hours*3600 + minutes*60
		if m[1] == "-" {
			offset = -offset
		}
		return Zone{Name: name, Location: time.FixedZone(name, offset)}, nil
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		return Zone{}, errors.Wrapf(ErrUnknownZone, "%q", name)
	}
	return Zone{Name: name, Location: loc}, nil
}

// SystemZone returns the zone of the machine running the process, named by
// its IANA identifier where one can be found.
func SystemZone() Zone {
	if tz := strings.TrimPrefix(os.Getenv("TZ"), ":"); tz != "" {
		if z, err := LoadZone(tz); err == nil {
			return z
		}
	}

	if target, err := os.Readlink("/etc/localtime"); err == nil {
		if i := strings.Index(target, "zoneinfo/"); i >= 0 {
			name := target[i+len("zoneinfo/"):]
			if loc, err := time.LoadLocation(name); err == nil {
				return Zone{Name: name, Location: loc}
			}
		}
	}

	return Zone{Name: time.Local.String(), Location: time.Local}
}

func (z Zone) String() string {
	return z.Name
}

func (z Zone) location() *time.Location {
	if z.Location == nil {
		return time.UTC
	}
	return z.Location
}

// Offset is the zone's UTC offset at t, formatted as "+13:00"
func (z Zone) Offset(t time.Time) string {
	_, secs := t.In(z.location()).Zone()
	sign := '+'
	if secs < 0 {
		sign = '-'
		secs = -secs
	}
	return fmt.Sprintf("%c%02d:%02d", sign, secs/3600, (secs%3600)/60)
}
