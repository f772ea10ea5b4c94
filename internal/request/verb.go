package request

import (
	"fmt"
	"net/http"
	"strings"
)

// Verb is the HTTP method of an outbound request.
type Verb string

const (
	Get     Verb = http.MethodGet
	Post    Verb = http.MethodPost
	Put     Verb = http.MethodPut
	Delete  Verb = http.MethodDelete
	Patch   Verb = http.MethodPatch
	Head    Verb = http.MethodHead
	Options Verb = http.MethodOptions
)

var allowedVerbs = map[Verb]bool{
	Get:     true,
	Post:    true,
	Put:     true,
	Delete:  true,
	Patch:   true,
	Head:    true,
	Options: true,
}

// Valid reports whether v is one of the supported HTTP verbs.
func (v Verb) Valid() bool {
	return allowedVerbs[v]
}

// QueryOnly reports whether v carries its arguments in the query string
// instead of a request body. Query-only verbs cannot carry a JSON body.
func (v Verb) QueryOnly() bool {
	return v == Get || v == Delete
}

func (v Verb) String() string {
	return string(v)
}

// ParseVerb normalizes s to upper case and validates it against the
// supported verb set.
func ParseVerb(s string) (Verb, error) {
	v := Verb(strings.ToUpper(s))
	if !v.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidVerb, s)
	}
	return v, nil
}
