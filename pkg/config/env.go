package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// EnvFiles are loaded, in order, from the working directory. Variables already
// present in the process environment are never overwritten, and the first file
// to define a variable wins.
var EnvFiles = []string{".env.local", ".env"}

// LoadEnvFiles loads EnvFiles from dir and returns the files that were found.
func LoadEnvFiles(dir string) ([]string, error) {
	var loaded []string
	for _, name := range EnvFiles {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return loaded, fmt.Errorf("checking %s: %w", name, err)
		}

		if err := godotenv.Load(path); err != nil {
			return loaded, fmt.Errorf("loading %s: %w", name, err)
		}
		loaded = append(loaded, path)
	}
	return loaded, nil
}
