package relay

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/suar-net/relay/internal/request"
)

const (
	defaultTimeout = 30 * time.Second
	maxTimeout     = 90 * time.Second
)

// Job is a request descriptor scheduled for relaying: the descriptor itself
// plus the bookkeeping the service layer needs (a stable id for history,
// the owning user, the dispatch timeout).
type Job struct {
	*request.Descriptor

	id      uuid.UUID
	ownerID *int
	timeout time.Duration
}

// ID identifies the job in history records and event broadcasts.
func (j *Job) ID() uuid.UUID {
	return j.id
}

// Owner returns the id of the user that submitted the job, if any.
func (j *Job) Owner() (int, bool) {
	if j.ownerID == nil {
		return 0, false
	}
	return *j.ownerID, true
}

// Timeout is the per-dispatch deadline for this job.
func (j *Job) Timeout() time.Duration {
	return j.timeout
}

// JobBuilder extends the descriptor builder with relay bookkeeping. It
// embeds request.Config, so all attach-time validation (verb/body rules,
// argument handling) comes from there, and its Build is the only way to
// construct a Job.
type JobBuilder struct {
	request.Config

	ownerID *int
	timeout time.Duration
}

// NewJobBuilder starts a builder for a relay job.
func NewJobBuilder(verb request.Verb, hostname, path string) (*JobBuilder, error) {
	cfg, err := request.NewConfig(verb, hostname, path)
	if err != nil {
		return nil, err
	}
	return &JobBuilder{Config: cfg}, nil
}

// SetOwner records the submitting user.
func (b *JobBuilder) SetOwner(userID int) {
	b.ownerID = &userID
}

// SetTimeout sets the dispatch deadline. Zero keeps the default.
func (b *JobBuilder) SetTimeout(d time.Duration) error {
	if d < 0 || d > maxTimeout {
		return fmt.Errorf("timeout %v outside allowed range (0, %v]", d, maxTimeout)
	}
	b.timeout = d
	return nil
}

// Build produces a new job with a fresh id. Like the base builder it can be
// called repeatedly, yielding independent jobs.
func (b *JobBuilder) Build() *Job {
	timeout := b.timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	var owner *int
	if b.ownerID != nil {
		id := *b.ownerID
		owner = &id
	}
	return &Job{
		Descriptor: b.Descriptor(),
		id:         uuid.New(),
		ownerID:    owner,
		timeout:    timeout,
	}
}
