package localtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustZone(t *testing.T, name string) Zone {
	t.Helper()
	z, err := LoadZone(name)
	require.NoError(t, err)
	return z
}

func TestLoadZone(t *testing.T) {
	tests := []struct {
		name       string
		label      string
		wantErr    bool
		wantOffset string
	}{
		{name: "iana", label: "Pacific/Auckland", wantOffset: "+13:00"},
		{name: "utc", label: "UTC", wantOffset: "+00:00"},
		{name: "zulu", label: "z", wantOffset: "+00:00"},
		{name: "plain offset", label: "+05:30", wantOffset: "+05:30"},
		{name: "compact offset", label: "-0800", wantOffset: "-08:00"},
		{name: "prefixed offset", label: "UTC+13", wantOffset: "+13:00"},
		{name: "gmt offset", label: "GMT-03:30", wantOffset: "-03:30"},
		{name: "garbage", label: "Mars/Olympus_Mons", wantErr: true},
		{name: "empty", label: "", wantErr: true},
		{name: "offset too large", label: "+15:00", wantErr: true},
	}

	// January: Auckland is on daylight time
	jan := time.Date(2026, 1, 8, 0, 0, 0, 0, time.UTC)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			z, err := LoadZone(tt.label)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownZone)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantOffset, z.Offset(jan))
		})
	}
}

func TestToLocal(t *testing.T) {
	instant := time.Date(2026, 1, 8, 18, 16, 19, 548e6, time.UTC)

	got := ToLocal(instant, mustZone(t, "Pacific/Auckland"))
	assert.Equal(t, Local{Date: "2026-01-09", Time: "07:16", Timezone: "Pacific/Auckland"}, got)

	got = ToLocal(instant, UTC)
	assert.Equal(t, Local{Date: "2026-01-08", Time: "18:16", Timezone: "UTC"}, got)

	got = ToLocal(time.Date(2026, 1, 8, 3, 5, 0, 0, time.UTC), mustZone(t, "America/New_York"))
	assert.Equal(t, "2026-01-07", got.Date)
	assert.Equal(t, "22:05", got.Time)
}

func TestToUTC(t *testing.T) {
	tests := []struct {
		name  string
		date  string
		clock string
		zone  string
		want  time.Time
	}{
		{"auckland morning", "2026-01-08", "08:30", "Pacific/Auckland", time.Date(2026, 1, 7, 19, 30, 0, 0, time.UTC)},
		{"midnight", "2026-01-13", "00:00", "UTC", time.Date(2026, 1, 13, 0, 0, 0, 0, time.UTC)},
		{"end of day", "2026-01-13", "23:59", "UTC", time.Date(2026, 1, 13, 23, 59, 0, 0, time.UTC)},
		{"seconds", "2026-07-01", "12:00:30", "Europe/London", time.Date(2026, 7, 1, 11, 0, 30, 0, time.UTC)},
		{"single digit hour", "2026-07-01", "9:05", "+02:00", time.Date(2026, 7, 1, 7, 5, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToUTC(tt.date, tt.clock, mustZone(t, tt.zone))
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s want %s", got, tt.want)
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestToUTC_Invalid(t *testing.T) {
	_, err := ToUTC("08/01/2026", "08:30", UTC)
	assert.Error(t, err)

	_, err = ToUTC("2026-01-08", "half past eight", UTC)
	assert.Error(t, err)

	_, err = ToUTC("2026-02-30", "08:30", UTC)
	assert.Error(t, err)
}

func TestRoundTrip(t *testing.T) {
	zones := []string{"Pacific/Auckland", "America/Los_Angeles", "Asia/Kolkata", "Australia/Lord_Howe", "UTC", "-03:30"}
	instants := []time.Time{
		time.Date(2026, 1, 8, 18, 16, 19, 548e6, time.UTC),
		time.Date(2025, 7, 23, 14, 30, 45, 123e6, time.UTC),
		time.Date(2024, 2, 29, 23, 59, 59, 0, time.UTC),
		time.Date(2026, 3, 8, 12, 0, 0, 0, time.UTC),
	}

	for _, name := range zones {
		z := mustZone(t, name)
		for _, instant := range instants {
			local := ToLocal(instant, z)
			back, err := ToUTC(local.Date, local.Time, z)
			require.NoError(t, err)
			assert.True(t, instant.Truncate(time.Minute).Equal(back),
				"%s in %s: got %s", instant, name, back)
		}
	}
}

func TestReconciler(t *testing.T) {
	r := NewReconciler(mustZone(t, "Pacific/Auckland"))

	// blank label uses the default zone
	got, local, err := r.Instant("2026-01-08", "08:30", "")
	require.NoError(t, err)
	assert.True(t, time.Date(2026, 1, 7, 19, 30, 0, 0, time.UTC).Equal(got))
	assert.Equal(t, "Pacific/Auckland", local.Timezone)
	assert.Equal(t, "08:30", local.Time)

	derived, err := r.Derive(got, "UTC")
	require.NoError(t, err)
	assert.Equal(t, Local{Date: "2026-01-07", Time: "19:30", Timezone: "UTC"}, derived)

	_, err = r.Derive(got, "Nowhere/Special")
	assert.ErrorIs(t, err, ErrUnknownZone)
}

func TestSystemZone(t *testing.T) {
	t.Setenv("TZ", "Europe/Berlin")
	z := SystemZone()
	assert.Equal(t, "Europe/Berlin", z.Name)
	require.NotNil(t, z.Location)
}
