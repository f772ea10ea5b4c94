package history

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/suar-net/relay/internal/model"
	"github.com/suar-net/relay/internal/relay"
	"github.com/suar-net/relay/internal/transport"
)

const redactedPlaceholder = "[redacted]"

// Top-level keys that must never reach storage verbatim. Checked
// case-insensitively against the payload's own keys.
var sensitiveKeys = []string{
	"password",
	"pass",
	"passwd",
	"secret",
	"token",
	"access_token",
	"refresh_token",
	"api_key",
	"apikey",
	"client_secret",
	"authorization",
}

// Redact replaces credential-bearing top-level keys of a JSON object with a
// placeholder. Non-object payloads are returned unchanged; they have no
// keys to leak.
func Redact(raw string) string {
	parsed := gjson.Parse(raw)
	if !parsed.IsObject() {
		return raw
	}

	out := raw
	parsed.ForEach(func(key, _ gjson.Result) bool {
		for _, sensitive := range sensitiveKeys {
			if strings.EqualFold(key.String(), sensitive) {
				if replaced, err := sjson.Set(out, key.String(), redactedPlaceholder); err == nil {
					out = replaced
				}
				break
			}
		}
		return true
	})
	return out
}

// NewRecord shapes a dispatched job and its outcome for persistence. The
// JSON body, if any, is redacted first. A nil result (dispatch failure)
// leaves the response columns null.
func NewRecord(job *relay.Job, res *transport.Result) *model.RelayRecord {
	record := &model.RelayRecord{
		ID:       job.ID(),
		Verb:     job.Verb().String(),
		Hostname: job.Hostname(),
		Path:     job.Path(),
	}

	if owner, ok := job.Owner(); ok {
		record.UserID = &owner
	}
	if at, ok := job.ExecutedAt(); ok {
		record.ExecutedAt = at
	} else {
		record.ExecutedAt = time.Now()
	}
	if args := job.Arguments(); len(args) > 0 {
		if encoded, err := json.Marshal(args); err == nil {
			record.Arguments = encoded
		}
	}
	if body, ok := job.JSONBody(); ok {
		redacted := Redact(body.Raw)
		record.JSONBody = &redacted
	}

	if res != nil {
		status := res.StatusCode
		size := res.Size
		durationMs := int(res.Duration.Milliseconds())
		record.ResponseStatusCode = &status
		record.ResponseSize = &size
		record.DurationMs = &durationMs
	}

	return record
}
