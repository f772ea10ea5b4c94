package request

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPairs(t *testing.T) {
	tests := []struct {
		name    string
		input   []string
		want    map[string]string
		wantErr bool
	}{
		{
			name:  "two pairs",
			input: []string{"user", "a", "pass", "b"},
			want:  map[string]string{"user": "a", "pass": "b"},
		},
		{
			name:  "duplicate key keeps last value",
			input: []string{"q", "first", "q", "second"},
			want:  map[string]string{"q": "second"},
		},
		{
			name:  "empty value is allowed",
			input: []string{"flag", ""},
			want:  map[string]string{"flag": ""},
		},
		{
			name:  "no pairs",
			input: nil,
			want:  map[string]string{},
		},
		{
			name:    "odd length",
			input:   []string{"q", "x", "orphan"},
			wantErr: true,
		},
		{
			name:    "empty key",
			input:   []string{"", "x"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Pairs(tt.input...)
			if tt.wantErr {
				if !errors.Is(err, ErrBadPairs) {
					t.Fatalf("Pairs(%v) = %v, want ErrBadPairs", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Pairs(%v): %v", tt.input, err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Pairs(%v) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}
