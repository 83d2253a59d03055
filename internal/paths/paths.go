// Package paths provides path resolution utilities.
package paths

import (
	"os"
	"path/filepath"
)

// LocalConfigDir is the per-vault configuration directory name.
const LocalConfigDir = ".advcomment"

// FindLocalConfig looks for .advcomment/config.yaml in start and each of its
// parents, so a vault's config applies from any subfolder. It returns the
// path of the first one found.
//
//   - "/vault/daily" with /vault/.advcomment/config.yaml -> "/vault/.advcomment/config.yaml", true
//   - "" -> searches from the current directory
func FindLocalConfig(start string) (string, bool) {
	if start == "" {
		start = "."
	}
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", false
	}

	for {
		candidate := filepath.Join(dir, LocalConfigDir, "config.yaml")
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}
