package transport

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/tidwall/gjson"

	"github.com/suar-net/relay/internal/request"
)

type captured struct {
	method      string
	path        string
	query       url.Values
	contentType string
	body        []byte
}

func newCaptureServer(t *testing.T, status int, respBody string) (*httptest.Server, *captured) {
	t.Helper()
	cap := &captured{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cap.method = r.Method
		cap.path = r.URL.Path
		cap.query = r.URL.Query()
		cap.contentType = r.Header.Get("Content-Type")
		cap.body, _ = io.ReadAll(r.Body)
		w.WriteHeader(status)
		io.WriteString(w, respBody)
	}))
	t.Cleanup(srv.Close)
	return srv, cap
}

// testDispatcher points the dispatcher at the httptest server over plain http.
func testDispatcher(srv *httptest.Server) (*Dispatcher, string) {
	u, _ := url.Parse(srv.URL)
	return NewDispatcher(Config{Scheme: "http"}), u.Host
}

func TestDispatchGetSendsQueryString(t *testing.T) {
	srv, cap := newCaptureServer(t, http.StatusOK, `{"ok":true}`)
	d, host := testDispatcher(srv)

	b, err := request.New(request.Get, host, "/search")
	if err != nil {
		t.Fatalf("request.New: %v", err)
	}
	if err := b.SetArguments(map[string]string{"q": "x", "page": "2"}); err != nil {
		t.Fatalf("SetArguments: %v", err)
	}
	desc := b.Build()

	res, err := d.Dispatch(context.Background(), desc)
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}

	if cap.method != "GET" || cap.path != "/search" {
		t.Errorf("server saw %s %s, want GET /search", cap.method, cap.path)
	}
	if cap.query.Get("q") != "x" || cap.query.Get("page") != "2" {
		t.Errorf("server saw query %v", cap.query)
	}
	if len(cap.body) != 0 {
		t.Errorf("GET carried a body: %q", cap.body)
	}
	if res.StatusCode != http.StatusOK || string(res.Body) != `{"ok":true}` {
		t.Errorf("Result = %d %q", res.StatusCode, res.Body)
	}
	if _, ok := desc.ExecutedAt(); !ok {
		t.Error("descriptor not marked executed after dispatch")
	}
}

func TestDispatchPostSendsForm(t *testing.T) {
	srv, cap := newCaptureServer(t, http.StatusCreated, "")
	d, host := testDispatcher(srv)

	b, err := request.New(request.Post, host, "/api/login")
	if err != nil {
		t.Fatalf("request.New: %v", err)
	}
	if err := b.SetArgumentPairs("user", "a", "pass", "b"); err != nil {
		t.Fatalf("SetArgumentPairs: %v", err)
	}

	res, err := d.Dispatch(context.Background(), b.Build())
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if res.StatusCode != http.StatusCreated {
		t.Errorf("StatusCode = %d, want 201", res.StatusCode)
	}
	if cap.contentType != "application/x-www-form-urlencoded" {
		t.Errorf("Content-Type = %q", cap.contentType)
	}
	form, err := url.ParseQuery(string(cap.body))
	if err != nil {
		t.Fatalf("parsing form body %q: %v", cap.body, err)
	}
	if form.Get("user") != "a" || form.Get("pass") != "b" {
		t.Errorf("server saw form %v", form)
	}
}

func TestDispatchPostSendsJSONBody(t *testing.T) {
	srv, cap := newCaptureServer(t, http.StatusOK, "")
	d, host := testDispatcher(srv)

	b, err := request.New(request.Post, host, "/api/items")
	if err != nil {
		t.Fatalf("request.New: %v", err)
	}
	raw := `{"name":"widget","count":3}`
	if err := b.SetJSONBody(gjson.Parse(raw)); err != nil {
		t.Fatalf("SetJSONBody: %v", err)
	}

	if _, err := d.Dispatch(context.Background(), b.Build()); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if cap.contentType != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", cap.contentType)
	}
	if string(cap.body) != raw {
		t.Errorf("server saw body %q, want %q", cap.body, raw)
	}
}

func TestDispatchTwiceFails(t *testing.T) {
	srv, _ := newCaptureServer(t, http.StatusOK, "")
	d, host := testDispatcher(srv)

	b, err := request.New(request.Get, host, "/once")
	if err != nil {
		t.Fatalf("request.New: %v", err)
	}
	desc := b.Build()

	if _, err := d.Dispatch(context.Background(), desc); err != nil {
		t.Fatalf("first Dispatch: %v", err)
	}
	_, err = d.Dispatch(context.Background(), desc)
	if !errors.Is(err, request.ErrAlreadyExecuted) {
		t.Fatalf("second Dispatch = %v, want ErrAlreadyExecuted", err)
	}
}
