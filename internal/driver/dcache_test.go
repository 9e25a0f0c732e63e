package driver_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"saslint/internal/config"
	"saslint/internal/diag"
	"saslint/internal/driver"
)

func TestDiskCacheRoundTrip(t *testing.T) {
	cache, err := driver.OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "m.sas")
	src := "%macro m;\n  x = 1;   \n%mend;\n"
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := config.Default()
	cfg.HasMacroNameInMend = true
	opts := driver.Options{Config: cfg, Cache: cache}

	fs1, first := driver.LintFile(context.Background(), path, opts)
	if first.Cached {
		t.Fatal("first run must not be cached")
	}
	fs2, second := driver.LintFile(context.Background(), path, opts)
	if !second.Cached {
		t.Fatal("second run should hit the cache")
	}
	a := diag.FormatGoldenDiagnostics(first.Bag.Items(), fs1, true)
	b := diag.FormatGoldenDiagnostics(second.Bag.Items(), fs2, true)
	if a != b || a == "" {
		t.Fatalf("cached diagnostics differ:\n%s\n---\n%s", a, b)
	}
	for i, d := range second.Bag.Items() {
		if len(d.Fixes) != len(first.Bag.Items()[i].Fixes) {
			t.Fatalf("fixes lost for %s", d.Code.ID())
		}
	}

	cfg2 := config.Default()
	_, third := driver.LintFile(context.Background(), path, driver.Options{Config: cfg2, Cache: cache})
	if third.Cached {
		t.Fatal("config change must invalidate the cache entry")
	}

	if err := cache.DropAll(); err != nil {
		t.Fatal(err)
	}
	_, fourth := driver.LintFile(context.Background(), path, opts)
	if fourth.Cached {
		t.Fatal("DropAll should clear entries")
	}
}
