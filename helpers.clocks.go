package main

import (
	"sync"
	"time"
)

var (
	_ Clocker       = (*Clock)(nil)           // ensure Clock implements Clocker
	_ TickerClocker = (*TickClock)(nil)       // ensure TickClock implements TickerClocker
	_ IDGenerator   = (*BookIDGenerator)(nil) // ensure BookIDGenerator implements IDGenerator
)

// Clocker is an interface for getting current real time.
type Clocker interface {
	Now() time.Time
}

// TickerClocker is an interface which can provides the current time and a ticker.
// It matches zapcore.Clock so it can drive the logger timestamps.
type TickerClocker interface {
	Clocker
	NewTicker(time.Duration) *time.Ticker
}

// Clock implements the Clocker interface.
type Clock struct {
	tz *time.Location
}

// NewClock returns a ready to use Clock with timezone sets
// to UTC in production environment and Local in dev env.
func NewClock(isProd bool) *Clock {
	if isProd {
		return &Clock{time.UTC}
	}
	return &Clock{time.Local}
}

// Now provides current clock time.
func (ck *Clock) Now() time.Time {
	return time.Now().In(ck.tz)
}

type TickClock struct {
	clock Clocker
}

func NewTickClock(ck Clocker) *TickClock {
	return &TickClock{ck}
}

func (tc *TickClock) Now() time.Time {
	return tc.clock.Now()
}

func (tc *TickClock) NewTicker(d time.Duration) *time.Ticker {
	return time.NewTicker(d)
}

// IDGenerator issues book identifiers.
type IDGenerator interface {
	Next() int64
	Observe(id int64)
}

// BookIDGenerator derives book ids from the clock in milliseconds. Issued
// ids are strictly increasing: when the clock did not move forward since
// the last id (or went backward), the last id plus one is used instead.
type BookIDGenerator struct {
	clock Clocker
	mu    sync.Mutex
	last  int64
}

// NewBookIDGenerator returns a generator based on the given clock.
func NewBookIDGenerator(clock Clocker) *BookIDGenerator {
	return &BookIDGenerator{clock: clock}
}

// Next returns a fresh id.
func (g *BookIDGenerator) Next() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := g.clock.Now().UnixMilli()
	if id <= g.last {
		id = g.last + 1
	}
	g.last = id
	return id
}

// Observe records an id issued elsewhere, typically one loaded from
// storage, so that later ids never collide with it.
func (g *BookIDGenerator) Observe(id int64) {
	g.mu.Lock()
	if id > g.last {
		g.last = id
	}
	g.mu.Unlock()
}
