package domain

import (
	"strconv"
	"sync"
	"time"
)

// IDGenerator issues wall-clock derived ids ("tk1715000000123"). When the
// clock has not advanced since the previous id it issues last+1, so ids stay
// unique within the process.
type IDGenerator struct {
	mu   sync.Mutex
	now  func() time.Time
	last int64
}

func NewIDGenerator(now func() time.Time) *IDGenerator {
	if now == nil {
		now = time.Now
	}
	return &IDGenerator{now: now}
}

func (g *IDGenerator) Next(prefix string) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	n := g.now().UnixMilli()
	if n <= g.last {
		n = g.last + 1
	}
	g.last = n
	return prefix + strconv.FormatInt(n, 10)
}

// ID prefixes.
const (
	TaskIDPrefix  = "tk"
	AuditIDPrefix = "a"
)
