package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// UpdateEnv names the environment variable that rewrites golden files.
const UpdateEnv = "CRAFTDOIST_UPDATE_GOLDEN"

// Golden compares rendered blocks against testdata/<name>.golden. Line
// endings are normalised so golden files survive a checkout on Windows.
func Golden(t *testing.T, name string, got []byte) {
	t.Helper()

	path := filepath.Join("testdata", name+".golden")
	if os.Getenv(UpdateEnv) != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("failed to create testdata dir: %v", err)
		}
		if err := os.WriteFile(path, got, 0644); err != nil {
			t.Fatalf("failed to update golden file: %v", err)
		}
		return
	}

	want, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read golden file %s: %v\nGot:\n%s", path, err, got)
	}
	want = bytes.ReplaceAll(want, []byte("\r\n"), []byte("\n"))

	if line, w, g, ok := firstDiff(want, got); ok {
		t.Errorf("output mismatch for %s at line %d\nWant: %q\nGot:  %q\nFull output:\n%s", name, line, w, g, got)
	}
}

// firstDiff returns the first line (1-based) where want and got differ.
func firstDiff(want, got []byte) (line int, w, g string, ok bool) {
	if bytes.Equal(want, got) {
		return 0, "", "", false
	}
	wl := bytes.Split(want, []byte("\n"))
	gl := bytes.Split(got, []byte("\n"))
	for i := 0; i < len(wl) || i < len(gl); i++ {
		var a, b []byte
		if i < len(wl) {
			a = wl[i]
		}
		if i < len(gl) {
			b = gl[i]
		}
		if !bytes.Equal(a, b) || i >= len(wl) || i >= len(gl) {
			return i + 1, string(a), string(b), true
		}
	}
	return len(wl), "", "", true
}
