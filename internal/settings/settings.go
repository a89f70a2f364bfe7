package settings

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"sheetcraft/internal/envutil"
)

const schemaVersion = 1

const (
	BackendSheets   = "sheets"
	BackendWorkbook = "workbook"
)

type Settings struct {
	SchemaVersion int `json:"schema_version"`
	// Backend selects the grid store: "sheets" (Google Sheets) or
	// "workbook" (local xlsx files).
	Backend string `json:"backend"`
	// CredentialsFile points at a Google service-account JSON key. When
	// empty, a stored OAuth token is used instead.
	CredentialsFile string `json:"credentials_file,omitempty"`
	// WorkbookDir holds xlsx files for the workbook backend.
	WorkbookDir string `json:"workbook_dir,omitempty"`
	// HTTPAddr enables the HTTP transport when non-empty (e.g. ":8000").
	HTTPAddr string `json:"http_addr,omitempty"`
	// AllowedLocators restricts which spreadsheets tools may touch.
	// Empty means no restriction.
	AllowedLocators []string `json:"allowed_locators,omitempty"`
}

type Store struct {
	path string
	mu   sync.Mutex
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Load() (*Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return defaultSettings(), nil
		}
		return nil, err
	}
	var settings Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, err
	}
	backfillSettings(&settings)
	return &settings, nil
}

func (s *Store) Save(settings *Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	backfillSettings(settings)
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

func (s *Store) Update(fn func(*Settings)) (*Settings, error) {
	settings, err := s.Load()
	if err != nil {
		return nil, err
	}
	fn(settings)
	return settings, s.Save(settings)
}

func defaultSettings() *Settings {
	return &Settings{
		SchemaVersion: schemaVersion,
		Backend:       BackendSheets,
	}
}

func backfillSettings(settings *Settings) {
	if settings.SchemaVersion == 0 {
		settings.SchemaVersion = schemaVersion
	}
	settings.Backend = normalizeBackend(settings.Backend)
}

func normalizeBackend(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case BackendWorkbook:
		return BackendWorkbook
	default:
		return BackendSheets
	}
}

// ApplyEnv overlays SHEETCRAFT_* environment variables onto loaded settings.
// Env wins over the settings file so containers can run without one.
func ApplyEnv(settings *Settings) {
	if backend := envutil.String("SHEETCRAFT_BACKEND", ""); backend != "" {
		settings.Backend = normalizeBackend(backend)
	}
	if creds := envutil.String("SHEETCRAFT_CREDENTIALS_FILE", ""); creds != "" {
		settings.CredentialsFile = creds
	}
	if dir := envutil.String("SHEETCRAFT_WORKBOOK_DIR", ""); dir != "" {
		settings.WorkbookDir = dir
	}
	if addr := envutil.String("SHEETCRAFT_HTTP_ADDR", ""); addr != "" {
		settings.HTTPAddr = addr
	}
	if allowed := envutil.List("SHEETCRAFT_ALLOWED_LOCATORS"); len(allowed) > 0 {
		settings.AllowedLocators = allowed
	}
}
