package request

import (
	"fmt"
	"time"

	"github.com/tidwall/gjson"
)

// Config is the accumulator shared by every descriptor builder. The three
// mandatory fields are fixed at construction; arguments or a JSON body can
// be attached afterwards, each validated at the call site.
//
// Specialized builders embed Config, add their own fields, and provide
// their own Build method which calls Descriptor() for the common part.
// Each specialized builder is therefore the only path to its own request
// type, and no builder ever needs a type assertion on what it built.
//
// A Config is not safe for concurrent use. It is meant for single-threaded
// configuration immediately before a Build call.
type Config struct {
	verb     Verb
	hostname string
	path     string
	args     map[string]string
	body     gjson.Result
	hasBody  bool
	clock    Clock
}

// NewConfig validates the mandatory fields of a request under assembly.
func NewConfig(verb Verb, hostname, path string) (Config, error) {
	if !verb.Valid() {
		return Config{}, fmt.Errorf("%w: %q", ErrInvalidVerb, string(verb))
	}
	if hostname == "" {
		return Config{}, ErrEmptyHostname
	}
	return Config{
		verb:     verb,
		hostname: hostname,
		path:     path,
		clock:    time.Now,
	}, nil
}

func (c *Config) Verb() Verb {
	return c.verb
}

func (c *Config) Hostname() string {
	return c.hostname
}

func (c *Config) Path() string {
	return c.path
}

// SetArguments attaches the key/value arguments of the request, replacing
// any previously attached map. It fails when a JSON body is already
// attached: a request carries its payload either as arguments or as JSON,
// never both.
func (c *Config) SetArguments(args map[string]string) error {
	if c.hasBody {
		return fmt.Errorf("%w: a JSON body is already attached", ErrArgumentsWithBody)
	}
	c.args = args
	return nil
}

// SetArgumentPairs builds the argument map from a flat list of alternating
// keys and values via Pairs, then behaves like SetArguments.
func (c *Config) SetArgumentPairs(kv ...string) error {
	args, err := Pairs(kv...)
	if err != nil {
		return err
	}
	return c.SetArguments(args)
}

// SetJSONBody attaches a parsed JSON value as the request body. Query-only
// verbs (GET, DELETE) cannot carry a body, and a body cannot coexist with
// an argument map; both violations surface here, at attach time, rather
// than at build time.
func (c *Config) SetJSONBody(body gjson.Result) error {
	if c.verb.QueryOnly() {
		return fmt.Errorf("%w: %s requests carry their payload in the query string", ErrBodyNotAllowed, c.verb)
	}
	if c.args != nil {
		return fmt.Errorf("%w: an argument map is already attached", ErrArgumentsWithBody)
	}
	c.body = body
	c.hasBody = true
	return nil
}

// SetClock overrides the time source recorded by MarkExecuted on built
// descriptors. A nil clock is ignored.
func (c *Config) SetClock(clock Clock) {
	if clock != nil {
		c.clock = clock
	}
}

// Descriptor snapshots the accumulated state into a new descriptor. The
// argument map is copied, so descriptors built from the same Config never
// alias each other or the builder.
func (c *Config) Descriptor() *Descriptor {
	var args map[string]string
	if c.args != nil {
		args = make(map[string]string, len(c.args))
		for k, v := range c.args {
			args[k] = v
		}
	}
	return &Descriptor{
		verb:     c.verb,
		hostname: c.hostname,
		path:     c.path,
		args:     args,
		body:     c.body,
		hasBody:  c.hasBody,
		clock:    c.clock,
	}
}

// Builder assembles a plain Descriptor.
type Builder struct {
	Config
}

// New starts a builder for the given verb, host and path.
func New(verb Verb, hostname, path string) (*Builder, error) {
	cfg, err := NewConfig(verb, hostname, path)
	if err != nil {
		return nil, err
	}
	return &Builder{Config: cfg}, nil
}

// Build produces a new descriptor from the accumulated state. It may be
// called repeatedly; each call yields an independent descriptor.
func (b *Builder) Build() *Descriptor {
	return b.Descriptor()
}
