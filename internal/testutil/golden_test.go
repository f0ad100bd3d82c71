package testutil

import "testing"

func TestFirstDiff(t *testing.T) {
	tests := []struct {
		want, got string
		line      int
		ok        bool
	}{
		{"a\nb\n", "a\nb\n", 0, false},
		{"a\nb\n", "a\nc\n", 2, true},
		{"a\n", "a\nb\n", 2, true},
		{"a\nb\n", "a\n", 2, true},
	}
	for _, tt := range tests {
		line, _, _, ok := firstDiff([]byte(tt.want), []byte(tt.got))
		if ok != tt.ok || line != tt.line {
			t.Errorf("firstDiff(%q, %q) = %d, %v; expected %d, %v", tt.want, tt.got, line, ok, tt.line, tt.ok)
		}
	}
}
