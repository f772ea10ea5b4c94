package request

import "fmt"

// Pairs converts a flat list of alternating keys and values into an
// argument map, e.g. Pairs("user", "a", "pass", "b"). The list must have
// even length and no empty keys; a later duplicate key overwrites an
// earlier one.
func Pairs(kv ...string) (map[string]string, error) {
	if len(kv)%2 != 0 {
		return nil, fmt.Errorf("%w: odd number of elements (%d)", ErrBadPairs, len(kv))
	}
	args := make(map[string]string, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		if kv[i] == "" {
			return nil, fmt.Errorf("%w: empty key at index %d", ErrBadPairs, i)
		}
		args[kv[i]] = kv[i+1]
	}
	return args, nil
}
