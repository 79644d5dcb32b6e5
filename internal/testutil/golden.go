package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// UpdateEnv names the environment variable that regenerates golden files.
const UpdateEnv = "TODO_GOLDEN_UPDATE"

// Golden checks rendered output against testdata/<name>.golden, relative to
// the package being tested (for example internal/output/testdata/list.golden).
// Run the tests with TODO_GOLDEN_UPDATE=1 to write got as the new expectation.
func Golden(t *testing.T, name string, got []byte) {
	t.Helper()

	path := filepath.Join("testdata", name+".golden")

	if os.Getenv(UpdateEnv) != "" {
		if err := os.MkdirAll("testdata", 0o755); err != nil {
			t.Fatalf("golden %s: %v", name, err)
		}
		if err := os.WriteFile(path, got, 0o644); err != nil {
			t.Fatalf("golden %s: %v", name, err)
		}
		t.Logf("golden %s: updated %s", name, path)
		return
	}

	want, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("golden %s: %v (set %s=1 to create it)\nGot:\n%s", name, err, UpdateEnv, got)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("golden %s differs\nWant:\n%s\nGot:\n%s", name, want, got)
	}
}
