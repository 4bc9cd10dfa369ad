// Package testutil holds golden-file helpers shared by package tests.
// Run `go test ./... -update` to rewrite golden files from current output.
package testutil

import (
	"bytes"
	"encoding/json"
	"flag"
	"os"
	"path/filepath"
	"testing"
)

var Update = flag.Bool(
	"update",
	false,
	"update golden files",
)

// GoldenPath is where the golden file called name lives, relative to the
// package under test.
func GoldenPath(name string) string {
	return filepath.Join("testdata", name+".golden")
}

func writeGolden(t *testing.T, name string, b []byte) {
	t.Helper()
	path := GoldenPath(name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create testdata dir: %v", err)
	}
	if err := os.WriteFile(path, b, 0644); err != nil {
		t.Fatalf("failed to write golden file: %v", err)
	}
}

func loadGolden(t *testing.T, name string) []byte {
	t.Helper()
	b, err := os.ReadFile(GoldenPath(name))
	if err != nil {
		t.Fatalf("failed to read golden file: %v", err)
	}
	return b
}

// CompareWithGolden checks actual byte for byte against testdata/name.golden.
func CompareWithGolden(t *testing.T, name string, actual []byte) {
	t.Helper()

	if *Update {
		writeGolden(t, name, actual)
		return
	}

	expected := loadGolden(t, name)
	if !bytes.Equal(expected, actual) {
		t.Fatalf("golden mismatch for %s\nexpected:\n%s\nactual:\n%s",
			name, string(expected), string(actual))
	}
}

// CompareJSONWithGolden marshals v the way reports do and compares it.
func CompareJSONWithGolden(t *testing.T, name string, v any) {
	t.Helper()
	actual, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		t.Fatalf("failed to marshal actual JSON: %v", err)
	}
	CompareWithGolden(t, name, actual)
}

// CompareFileWithGolden reads the file at path and compares its contents.
func CompareFileWithGolden(t *testing.T, name, path string) {
	t.Helper()
	actual, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	CompareWithGolden(t, name, actual)
}
