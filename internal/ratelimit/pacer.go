package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/suar-net/relay/internal/request"
)

// Pacer spaces out dispatches and keeps track of when the last descriptor
// actually went out. It never mutates a descriptor; it only reads the
// execution timestamp recorded by the transport.
type Pacer struct {
	limiter *rate.Limiter

	mu   sync.Mutex
	last time.Time
	seen bool
}

// NewPacer allows one dispatch per minInterval with the given burst. A
// non-positive interval disables pacing.
func NewPacer(minInterval time.Duration, burst int) *Pacer {
	limit := rate.Inf
	if minInterval > 0 {
		limit = rate.Every(minInterval)
	}
	if burst < 1 {
		burst = 1
	}
	return &Pacer{limiter: rate.NewLimiter(limit, burst)}
}

// Wait blocks until the next dispatch is allowed or ctx is done.
func (p *Pacer) Wait(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}

// Observe reads the execution timestamp off a dispatched descriptor and
// retains the most recent one. Descriptors that were never executed are
// ignored.
func (p *Pacer) Observe(desc *request.Descriptor) {
	at, ok := desc.ExecutedAt()
	if !ok {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.seen || at.After(p.last) {
		p.last = at
		p.seen = true
	}
}

// LastExecution returns the most recent observed dispatch time. The second
// return is false until something has been observed.
func (p *Pacer) LastExecution() (time.Time, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last, p.seen
}
