package tuning

import (
	"embed"
	"os"
	"path/filepath"
	"strings"
)

//go:embed scripts/*.tengo
var scriptsFS embed.FS

// LoadScript returns an AI script by name, preferring a disk copy under
// tuning/scripts/ so scripts can be edited without rebuilding.
func LoadScript(name string) ([]byte, error) {
	clean := cleanScriptPath(name)
	if data, err := os.ReadFile(filepath.Join("tuning", "scripts", clean)); err == nil {
		return data, nil
	}
	return scriptsFS.ReadFile("scripts/" + clean)
}

//go:embed *.yaml
var tuningFS embed.FS

func readFile(name string) ([]byte, error) {
	clean := cleanTuningPath(name)
	if data, err := os.ReadFile(filepath.Join("tuning", clean)); err == nil {
		return data, nil
	}
	return tuningFS.ReadFile(clean)
}

func cleanTuningPath(path string) string {
	if path == "" {
		return ""
	}
	s := filepath.ToSlash(path)
	if after, ok := strings.CutPrefix(s, "tuning/"); ok {
		return after
	}
	return s
}

func cleanScriptPath(path string) string {
	if path == "" {
		return ""
	}
	s := filepath.ToSlash(path)
	if after, ok := strings.CutPrefix(s, "tuning/scripts/"); ok {
		return after
	}
	if after, ok := strings.CutPrefix(s, "scripts/"); ok {
		return after
	}
	return s
}
