package resilient

import "sync"

// Mode describes which backend currently serves operations.
type Mode int32

const (
	// ModePrimary routes operations to the durable backend.
	ModePrimary Mode = iota
	// ModeDegraded routes operations to the in-memory mirror.
	ModeDegraded
)

func (m Mode) String() string {
	if m == ModeDegraded {
		return "degraded"
	}
	return "primary"
}

// breaker is a two-state circuit breaker guarding the durable backend.
// Any infrastructure failure trips it into degraded mode; it only
// returns to primary mode when a health probe succeeds.
type breaker struct {
	mu           sync.Mutex
	mode         Mode
	onTransition func(from, to Mode)
}

func newBreaker(onTransition func(from, to Mode)) *breaker {
	return &breaker{onTransition: onTransition}
}

func (b *breaker) Mode() Mode {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.mode
}

// Trip moves the breaker to degraded mode after a primary failure.
func (b *breaker) Trip() {
	b.transition(ModeDegraded)
}

// Reset moves the breaker back to primary mode after a successful probe.
func (b *breaker) Reset() {
	b.transition(ModePrimary)
}

func (b *breaker) transition(to Mode) {
	b.mu.Lock()
	from := b.mode
	if from == to {
		b.mu.Unlock()
		return
	}
	b.mode = to
	b.mu.Unlock()

	if b.onTransition != nil {
		b.onTransition(from, to)
	}
}
