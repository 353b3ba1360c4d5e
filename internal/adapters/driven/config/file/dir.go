package file

import (
	"fmt"
	"os"
	"path/filepath"
)

// DirName is the data directory created under the user's home.
const DirName = ".docchat"

// ResolveDir returns dir, or ~/.docchat when dir is empty, creating it
// with owner-only permissions.
func ResolveDir(dir string) (string, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("locate home directory: %w", err)
		}
		dir = filepath.Join(home, DirName)
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}
	return dir, nil
}
