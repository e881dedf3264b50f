package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
)

const gearboxTOML = `
name = "gearbox"

[[elements]]
id = "input"
  [[elements.variants]]
  kind = "gear"
  z1 = 20
  z2 = 60

[[elements]]
type = "spacer"
length = 40

[[elements]]
  [[elements.variants]]
  kind = "gear"
  z1 = 20
  z2 = 40
  [[elements.variants]]
  kind = "belt"
  d1 = 100
  d2 = 250
  selected = true

[[elements]]
turn = "down"
  [[elements.variants]]
  kind = "bevel"
  z1 = 15
  z2 = 30
`

// foldedTOML folds back on itself so that a and c overlap when drawn
// without the motor.
const foldedTOML = `
[[elements]]
id = "a"
  [[elements.variants]]
  kind = "gear"
  z1 = 20
  z2 = 40
  reversed = true

[[elements]]
id = "b"
  [[elements.variants]]
  kind = "gear"
  z1 = 20
  z2 = 40
  reversed = true

[[elements]]
id = "c"
  [[elements.variants]]
  kind = "gear"
  z1 = 20
  z2 = 40
`

// writeDefinition writes content to name inside a fresh temp dir and points
// the cache and state directories there as well.
func writeDefinition(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// captureStdout collects status output for the duration of the test.
func captureStdout(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	stdout = &buf
	t.Cleanup(func() { stdout = io.Discard })
	return &buf
}
