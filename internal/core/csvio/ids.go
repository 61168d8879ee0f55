package csvio

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"
)

// IDGenerator assigns ids to decoded sessions
type IDGenerator interface {
	NewID(at time.Time) string
}

const (
	idSuffixRange = 1000
	idRedraws     = 16
)

// SequenceIDs issues "<unix-millis>-<n>" ids with n drawn from [0,1000).
// It remembers what it has issued and redraws on a repeat; once the random
// suffixes for a millisecond are exhausted it counts upward from 1000.
// Ids are unique per generator, not across processes or against stored data.
type SequenceIDs struct {
	mu       sync.Mutex
	issued   map[string]struct{}
	overflow int
	intn     func(n int) int
}

// NewSequenceIDs creates a generator backed by math/rand/v2
func NewSequenceIDs() *SequenceIDs {
	return &SequenceIDs{
		issued: make(map[string]struct{}),
		intn:   rand.IntN,
	}
}

// NewID returns an id for a session at the given instant
func (g *SequenceIDs) NewID(at time.Time) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	millis := at.UnixMilli()
	for i := 0; i < idRedraws; i++ {
		id := fmt.Sprintf("%d-%d", millis, g.intn(idSuffixRange))
		if _, seen := g.issued[id]; !seen {
			g.issued[id] = struct{}{}
			return id
		}
	}

	for {
		id := fmt.Sprintf("%d-%d", millis, idSuffixRange+g.overflow)
		g.overflow++
		if _, seen := g.issued[id]; !seen {
			g.issued[id] = struct{}{}
			return id
		}
	}
}
