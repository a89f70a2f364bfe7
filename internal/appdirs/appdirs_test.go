package appdirs

import (
	"path/filepath"
	"testing"
)

func TestDataDirOverride(t *testing.T) {
	t.Setenv("SHEETCRAFT_DATA_DIR", "/tmp/sheetcraft-test")
	dir, err := DataDir()
	if err != nil {
		t.Fatalf("data dir: %v", err)
	}
	if dir != "/tmp/sheetcraft-test" {
		t.Fatalf("expected override, got %q", dir)
	}
}

func TestDerivedPaths(t *testing.T) {
	dir := "/data"
	if got := SettingsPath(dir); got != filepath.Join(dir, "settings.json") {
		t.Fatalf("settings path: %q", got)
	}
	if got := SecretsPath(dir); got != filepath.Join(dir, "secrets.json") {
		t.Fatalf("secrets path: %q", got)
	}
	if got := WorkbooksDir(dir); got != filepath.Join(dir, "workbooks") {
		t.Fatalf("workbooks dir: %q", got)
	}
}
