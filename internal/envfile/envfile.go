package envfile

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

type Result struct {
	Path   string
	Loaded bool
	Err    error
}

// Load finds the nearest .env walking upward from the working directory and
// loads it without overriding variables already set in the environment.
// SHEETCRAFT_ENV_PATH pins an explicit file instead.
func Load() Result {
	if override := strings.TrimSpace(os.Getenv("SHEETCRAFT_ENV_PATH")); override != "" {
		return LoadPath(override)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return Result{Err: err}
	}
	path := findUpwards(cwd, ".env")
	if path == "" {
		return Result{}
	}
	return LoadPath(path)
}

func LoadPath(path string) Result {
	res := Result{Path: path}
	if err := godotenv.Load(path); err != nil {
		res.Err = err
		return res
	}
	res.Loaded = true
	return res
}

func findUpwards(start, filename string) string {
	dir := start
	for {
		candidate := filepath.Join(dir, filename)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
