package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// EnvFileName is the optional secrets file read at startup.
const EnvFileName = ".env"

// LoadEnv loads .env from the working directory and then from dataDir.
// Variables already set in the environment are never overridden, and
// the working directory wins over dataDir. Missing files are skipped.
// It returns the files that were loaded.
func LoadEnv(dataDir string) ([]string, error) {
	candidates := []string{EnvFileName}
	if dataDir != "" {
		candidates = append(candidates, filepath.Join(dataDir, EnvFileName))
	}

	var loaded []string
	for _, path := range candidates {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return loaded, fmt.Errorf("load %s: %w", path, err)
		}
		loaded = append(loaded, path)
	}
	return loaded, nil
}
