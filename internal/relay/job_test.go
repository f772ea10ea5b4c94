package relay

import (
	"errors"
	"testing"
	"time"

	"github.com/tidwall/gjson"

	"github.com/suar-net/relay/internal/request"
)

func TestJobBuilderDefaults(t *testing.T) {
	b, err := NewJobBuilder(request.Get, "example.com", "/search")
	if err != nil {
		t.Fatalf("NewJobBuilder: %v", err)
	}
	job := b.Build()

	if job.ID().String() == "" {
		t.Error("job has no id")
	}
	if _, ok := job.Owner(); ok {
		t.Error("Owner() present, want absent")
	}
	if job.Timeout() != defaultTimeout {
		t.Errorf("Timeout() = %v, want %v", job.Timeout(), defaultTimeout)
	}
	if job.Verb() != request.Get {
		t.Errorf("Verb() = %s, want GET", job.Verb())
	}
}

func TestJobBuilderOwnerAndTimeout(t *testing.T) {
	b, err := NewJobBuilder(request.Post, "example.com", "/api/login")
	if err != nil {
		t.Fatalf("NewJobBuilder: %v", err)
	}
	b.SetOwner(42)
	if err := b.SetTimeout(5 * time.Second); err != nil {
		t.Fatalf("SetTimeout: %v", err)
	}

	job := b.Build()
	owner, ok := job.Owner()
	if !ok || owner != 42 {
		t.Errorf("Owner() = (%d, %t), want (42, true)", owner, ok)
	}
	if job.Timeout() != 5*time.Second {
		t.Errorf("Timeout() = %v, want 5s", job.Timeout())
	}

	if err := b.SetTimeout(10 * time.Minute); err == nil {
		t.Error("SetTimeout over the maximum succeeded")
	}
}

func TestJobBuilderInheritsBodyRules(t *testing.T) {
	b, err := NewJobBuilder(request.Get, "example.com", "/search")
	if err != nil {
		t.Fatalf("NewJobBuilder: %v", err)
	}
	err = b.SetJSONBody(gjson.Parse(`{"q":"x"}`))
	if !errors.Is(err, request.ErrBodyNotAllowed) {
		t.Errorf("SetJSONBody on GET job = %v, want ErrBodyNotAllowed", err)
	}
}

func TestJobsFromSameBuilderAreDistinct(t *testing.T) {
	b, err := NewJobBuilder(request.Put, "example.com", "/api/profile")
	if err != nil {
		t.Fatalf("NewJobBuilder: %v", err)
	}
	first, second := b.Build(), b.Build()

	if first.ID() == second.ID() {
		t.Error("two builds share one job id")
	}
	if err := first.MarkExecuted(); err != nil {
		t.Fatalf("MarkExecuted: %v", err)
	}
	if _, ok := second.ExecutedAt(); ok {
		t.Error("marking the first job leaked into the second")
	}
}
