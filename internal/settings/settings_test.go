package settings

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingReturnsDefaults(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "settings.json"))
	settings, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if settings.SchemaVersion != schemaVersion {
		t.Fatalf("expected schema version %d, got %d", schemaVersion, settings.SchemaVersion)
	}
	if settings.Backend != BackendSheets {
		t.Fatalf("expected sheets backend, got %q", settings.Backend)
	}
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	store := NewStore(path)
	_, err := store.Update(func(s *Settings) {
		s.Backend = BackendWorkbook
		s.WorkbookDir = "/data/books"
		s.AllowedLocators = []string{"budget"}
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	reloaded, err := store.Load()
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Backend != BackendWorkbook {
		t.Fatalf("expected workbook backend, got %q", reloaded.Backend)
	}
	if reloaded.WorkbookDir != "/data/books" {
		t.Fatalf("workbook dir lost: %q", reloaded.WorkbookDir)
	}
	if len(reloaded.AllowedLocators) != 1 || reloaded.AllowedLocators[0] != "budget" {
		t.Fatalf("allowlist lost: %v", reloaded.AllowedLocators)
	}
}

func TestBackfillNormalizesBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte(`{"backend":"BOGUS"}`), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	settings, err := NewStore(path).Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if settings.Backend != BackendSheets {
		t.Fatalf("expected backend normalized to sheets, got %q", settings.Backend)
	}
	if settings.SchemaVersion != schemaVersion {
		t.Fatalf("expected backfilled schema version")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("SHEETCRAFT_BACKEND", "workbook")
	t.Setenv("SHEETCRAFT_WORKBOOK_DIR", "/tmp/books")
	t.Setenv("SHEETCRAFT_ALLOWED_LOCATORS", "a, b")
	settings := defaultSettings()
	ApplyEnv(settings)
	if settings.Backend != BackendWorkbook {
		t.Fatalf("env backend not applied: %q", settings.Backend)
	}
	if settings.WorkbookDir != "/tmp/books" {
		t.Fatalf("env workbook dir not applied: %q", settings.WorkbookDir)
	}
	if len(settings.AllowedLocators) != 2 {
		t.Fatalf("env allowlist not applied: %v", settings.AllowedLocators)
	}
}
