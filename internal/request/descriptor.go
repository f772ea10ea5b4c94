package request

import (
	"fmt"
	"sync"
	"time"

	"github.com/tidwall/gjson"
)

// Clock supplies the wall-clock time recorded by MarkExecuted. Injectable
// so the execution transition stays deterministic in tests.
type Clock func() time.Time

// Descriptor consolidates the attributes of one outbound HTTP request into
// a single immutable value. Every field except the execution timestamp is
// fixed at build time, so a built descriptor is safe for concurrent reads
// by the transport, the history recorder and the rate limiter.
//
// Descriptors are produced by a Builder (or a specialized builder embedding
// Config); there is no other way to construct one.
type Descriptor struct {
	verb     Verb
	hostname string
	path     string
	args     map[string]string
	body     gjson.Result
	hasBody  bool
	clock    Clock
	executed executionCell
}

// executionCell records a dispatch time at most once. It is the single
// mutation point of a descriptor and uses a check-and-set under a mutex so
// the exactly-once invariant holds even if two dispatchers race.
type executionCell struct {
	mu  sync.Mutex
	at  time.Time
	set bool
}

func (c *executionCell) mark(now time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.set {
		return fmt.Errorf("%w (first executed at %s)", ErrAlreadyExecuted, c.at.Format(time.RFC3339Nano))
	}
	c.at = now
	c.set = true
	return nil
}

func (c *executionCell) get() (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.at, c.set
}

func (d *Descriptor) Verb() Verb {
	return d.verb
}

// Hostname is the target host, e.g. "example.com".
func (d *Descriptor) Hostname() string {
	return d.hostname
}

// Path is interpreted relative to the hostname, e.g. "/api/login".
func (d *Descriptor) Path() string {
	return d.path
}

// Arguments returns a copy of the argument map: the query-string arguments
// for query-only verbs, the form arguments otherwise. Mutating the returned
// map does not affect the descriptor.
func (d *Descriptor) Arguments() map[string]string {
	if d.args == nil {
		return nil
	}
	args := make(map[string]string, len(d.args))
	for k, v := range d.args {
		args[k] = v
	}
	return args
}

// JSONBody returns the attached JSON payload, if any.
func (d *Descriptor) JSONBody() (gjson.Result, bool) {
	return d.body, d.hasBody
}

// HasJSONBody reports whether a JSON payload was attached at build time.
func (d *Descriptor) HasJSONBody() bool {
	return d.hasBody
}

// MarkExecuted records the current time as the moment this descriptor was
// dispatched. It succeeds exactly once; a second call returns
// ErrAlreadyExecuted carrying the original timestamp, which is never
// overwritten. The transport calls this at dispatch time, and a failure
// signals double-dispatch of the same descriptor.
func (d *Descriptor) MarkExecuted() error {
	return d.executed.mark(d.clock())
}

// ExecutedAt returns the recorded dispatch time. The second return is false
// until MarkExecuted has succeeded.
func (d *Descriptor) ExecutedAt() (time.Time, bool) {
	return d.executed.get()
}

// String renders the descriptor for logs. The JSON body is reported by
// presence only; its content may carry credentials and never appears here.
func (d *Descriptor) String() string {
	executed := "never"
	if at, ok := d.executed.get(); ok {
		executed = at.Format(time.RFC3339Nano)
	}
	return fmt.Sprintf("Descriptor{verb=%s, path=%q, args=%v, hostname=%q, json=%t, executed=%s}",
		d.verb, d.path, d.args, d.hostname, d.hasBody, executed)
}
