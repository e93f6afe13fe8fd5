package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// AppName is the directory name used under the user config directory.
const AppName = "Tami"

// File names inside the data directory
const (
	FavoritesFileName = "favorites.json"
	LogFileName       = "tami.log"
)

// ConfigFileNames are tried in order inside the data directory.
var ConfigFileNames = []string{"config.toml", "config.yaml", "config.yml"}

// AppSupportDir returns the per-user application support directory.
func AppSupportDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(base, AppName), nil
}

// FavoritesFile returns the favorites file inside dataDir.
func FavoritesFile(dataDir string) string {
	return filepath.Join(dataDir, FavoritesFileName)
}

// LogFile returns the log file inside dataDir.
func LogFile(dataDir string) string {
	return filepath.Join(dataDir, LogFileName)
}

// ConfigFiles returns the candidate config files inside dataDir.
func ConfigFiles(dataDir string) []string {
	files := make([]string, len(ConfigFileNames))
	for i, name := range ConfigFileNames {
		files[i] = filepath.Join(dataDir, name)
	}
	return files
}

// Home returns the user's home directory, or the filesystem root when it
// cannot be determined.
func Home() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return string(filepath.Separator)
	}
	return home
}

// Normalize expands a leading "~", makes the path absolute and cleans it.
func Normalize(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("empty path")
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		path = filepath.Join(Home(), strings.TrimPrefix(path, "~"))
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %q: %w", path, err)
	}
	return filepath.Clean(abs), nil
}

// LastSegment returns the display name of a path: its last element, or
// the path itself for the root.
func LastSegment(path string) string {
	base := filepath.Base(path)
	if base == string(filepath.Separator) || base == "." || base == "" {
		return path
	}
	return base
}

// IsHidden reports whether a directory entry name is hidden on this
// platform (dotfiles).
func IsHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

// Within reports whether path equals root or lies beneath it. Both must be
// clean absolute paths.
func Within(root, path string) bool {
	if root == path {
		return true
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
