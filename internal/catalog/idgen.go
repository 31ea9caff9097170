package catalog

import (
	"math/rand"
	"strconv"
	"sync"
	"time"
)

// IDGenerator mints record ids from the wall clock in milliseconds plus a
// random offset in [0, 999]. Ids issued by one generator strictly increase.
type IDGenerator struct {
	mu   sync.Mutex
	last int64
	rand func(n int64) int64
}

func NewIDGenerator() *IDGenerator {
	return &IDGenerator{rand: rand.Int63n}
}

func (g *IDGenerator) Next(now time.Time) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	v := now.UnixMilli()*1000 + g.rand(1000)
	if v <= g.last {
		v = g.last + 1
	}
	g.last = v
	return strconv.FormatInt(v, 10)
}

var defaultIDs = NewIDGenerator()

// NewID mints an id from the process-wide generator.
func NewID() string {
	return defaultIDs.Next(time.Now())
}
