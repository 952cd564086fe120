// Package ids generates the board's time-based identifiers, e.g. "c1718035200123".
package ids

import (
	"strconv"
	"sync"
	"time"
)

// Generator hands out prefix+unix-millisecond ids that never repeat within
// the process. When two ids would share a millisecond the later one is bumped.
type Generator struct {
	mu   sync.Mutex
	now  func() time.Time
	last map[string]int64
}

// NewGenerator creates a generator using the wall clock
func NewGenerator() *Generator {
	return NewGeneratorWithClock(time.Now)
}

// NewGeneratorWithClock creates a generator with a custom clock, used by tests
func NewGeneratorWithClock(now func() time.Time) *Generator {
	return &Generator{now: now, last: make(map[string]int64)}
}

// Next returns a fresh id for prefix. taken reports ids already in use by
// persisted data; it may be nil.
func (g *Generator) Next(prefix string, taken func(id string) bool) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := g.now().UnixMilli()
	if last, ok := g.last[prefix]; ok && ms <= last {
		ms = last + 1
	}
	id := prefix + strconv.FormatInt(ms, 10)
	for taken != nil && taken(id) {
		ms++
		id = prefix + strconv.FormatInt(ms, 10)
	}
	g.last[prefix] = ms
	return id
}

// NowMillis returns the generator's clock in unix milliseconds
func (g *Generator) NowMillis() int64 {
	return g.now().UnixMilli()
}
