package driver_test

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"saslint/internal/driver"
)

func TestListFiles(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"a.sas":              "",
		"B.SAS":              "",
		"notes.txt":          "",
		"sub/c.sas":          "",
		"sub/skip.sas":       "",
		"sasjsbuild/x.sas":   "",
		".hidden/y.sas":      "",
		"deep/tmp/z.tmp.sas": "",
		".gitignore":         "sub/skip.sas\n",
	})

	got, err := driver.ListFiles(context.Background(), root, []string{"sasjsbuild/", "*.tmp.sas"})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		filepath.Join(root, "B.SAS"),
		filepath.Join(root, "a.sas"),
		filepath.Join(root, "sub", "c.sas"),
	}
	if !slices.Equal(got, want) {
		t.Fatalf("got %v\nwant %v", got, want)
	}
}

func TestListFilesSingleFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "one.txt")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := driver.ListFiles(context.Background(), path, []string{"*.txt"})
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(got, []string{path}) {
		t.Fatalf("explicit file should always be linted, got %v", got)
	}
}

func TestIgnoreMatch(t *testing.T) {
	ig, err := driver.NewIgnore(t.TempDir(), []string{"build/", "*.bak.sas"})
	if err != nil {
		t.Fatal(err)
	}
	for path, want := range map[string]bool{
		"build/":        true,
		"build/a.sas":   true,
		"src/a.bak.sas": true,
		"src/a.sas":     false,
		"rebuild/a.sas": false,
	} {
		if got := ig.Match(path); got != want {
			t.Errorf("Match(%q) = %v, want %v", path, got, want)
		}
	}
}
