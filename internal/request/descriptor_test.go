package request

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/tidwall/gjson"
)

func fixedClock(at time.Time) Clock {
	return func() time.Time { return at }
}

func TestDescriptorRoundTrip(t *testing.T) {
	b, err := New(Post, "example.com", "/api/login")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	args := map[string]string{"user": "a", "pass": "b"}
	if err := b.SetArguments(args); err != nil {
		t.Fatalf("SetArguments: %v", err)
	}

	d := b.Build()
	if d.Verb() != Post {
		t.Errorf("Verb() = %s, want POST", d.Verb())
	}
	if d.Hostname() != "example.com" {
		t.Errorf("Hostname() = %q, want example.com", d.Hostname())
	}
	if d.Path() != "/api/login" {
		t.Errorf("Path() = %q, want /api/login", d.Path())
	}
	if diff := cmp.Diff(args, d.Arguments()); diff != "" {
		t.Errorf("Arguments() mismatch (-want +got):\n%s", diff)
	}
	if d.HasJSONBody() {
		t.Error("HasJSONBody() = true, want false")
	}
	if _, ok := d.JSONBody(); ok {
		t.Error("JSONBody() present, want absent")
	}
	if _, ok := d.ExecutedAt(); ok {
		t.Error("ExecutedAt() present before MarkExecuted")
	}
}

func TestArgumentsReturnsCopy(t *testing.T) {
	b, err := New(Get, "example.com", "/search")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := b.SetArguments(map[string]string{"q": "x"}); err != nil {
		t.Fatalf("SetArguments: %v", err)
	}
	d := b.Build()

	d.Arguments()["q"] = "tampered"
	if got := d.Arguments()["q"]; got != "x" {
		t.Errorf("Arguments()[q] = %q after caller mutation, want x", got)
	}
}

func TestMarkExecutedOnce(t *testing.T) {
	at := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	b, err := New(Get, "example.com", "/me")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	b.SetClock(fixedClock(at))
	d := b.Build()

	if err := d.MarkExecuted(); err != nil {
		t.Fatalf("first MarkExecuted: %v", err)
	}
	got, ok := d.ExecutedAt()
	if !ok || !got.Equal(at) {
		t.Fatalf("ExecutedAt() = (%v, %t), want (%v, true)", got, ok, at)
	}

	// Querying repeatedly never disturbs the recorded time.
	for i := 0; i < 3; i++ {
		again, ok := d.ExecutedAt()
		if !ok || !again.Equal(at) {
			t.Fatalf("ExecutedAt() query %d = (%v, %t)", i, again, ok)
		}
	}
}

func TestMarkExecutedTwiceFails(t *testing.T) {
	first := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	b, err := New(Delete, "example.com", "/api/thing/1")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	b.SetClock(fixedClock(first))
	d := b.Build()

	if err := d.MarkExecuted(); err != nil {
		t.Fatalf("first MarkExecuted: %v", err)
	}

	err = d.MarkExecuted()
	if !errors.Is(err, ErrAlreadyExecuted) {
		t.Fatalf("second MarkExecuted = %v, want ErrAlreadyExecuted", err)
	}
	got, ok := d.ExecutedAt()
	if !ok || !got.Equal(first) {
		t.Errorf("ExecutedAt() = (%v, %t) after failed second mark, want (%v, true)", got, ok, first)
	}
}

func TestMarkExecutedConcurrent(t *testing.T) {
	b, err := New(Post, "example.com", "/submit")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	d := b.Build()

	const writers = 16
	var wg sync.WaitGroup
	results := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- d.MarkExecuted()
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
		} else if !errors.Is(err, ErrAlreadyExecuted) {
			t.Errorf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 {
		t.Errorf("MarkExecuted succeeded %d times, want exactly 1", succeeded)
	}
}

func TestStringKeepsBodyOpaque(t *testing.T) {
	b, err := New(Post, "example.com", "/api/login")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := b.SetJSONBody(gjson.Parse(`{"password":"hunter2"}`)); err != nil {
		t.Fatalf("SetJSONBody: %v", err)
	}
	d := b.Build()

	s := d.String()
	if strings.Contains(s, "hunter2") || strings.Contains(s, "password") {
		t.Errorf("String() leaks JSON body content: %s", s)
	}
	for _, want := range []string{"POST", "/api/login", "example.com", "json=true", "executed=never"} {
		if !strings.Contains(s, want) {
			t.Errorf("String() = %s, missing %q", s, want)
		}
	}
}
