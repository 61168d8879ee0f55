package csvio

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSequenceIDs_Format(t *testing.T) {
	g := NewSequenceIDs()
	at := time.Date(2026, 1, 8, 18, 16, 19, 548e6, time.UTC)

	id := g.NewID(at)
	assert.Regexp(t, regexp.MustCompile(`^1767896179548-\d{1,3}$`), id)
}

func TestSequenceIDs_NoRepeats(t *testing.T) {
	g := NewSequenceIDs()
	at := time.Date(2026, 1, 8, 0, 0, 0, 0, time.UTC)

	seen := make(map[string]bool)
	for i := 0; i < 2000; i++ {
		id := g.NewID(at)
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestSequenceIDs_Overflow(t *testing.T) {
	g := NewSequenceIDs()
	g.intn = func(int) int { return 7 }
	at := time.UnixMilli(1000)

	assert.Equal(t, "1000-7", g.NewID(at))
	assert.Equal(t, "1000-1000", g.NewID(at))
	assert.Equal(t, "1000-1001", g.NewID(at))
}
