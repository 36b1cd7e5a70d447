// Package dotdir resolves the .huddle/ directory that holds config.toml and
// the chat log.
package dotdir

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	dirName = ".huddle"

	// LogFile is the name of the interactive chat log inside the dot directory.
	LogFile = "chat.log"
)

type Manager struct{}

func NewManager() *Manager {
	return &Manager{}
}

// Target returns the absolute path of the .huddle/ directory, creating it if
// needed. Precedence:
//  1. Provided override
//  2. ./.huddle/ in the working directory
//  3. ~/.huddle/
func (m *Manager) Target(overrideDir string) (string, error) {
	var dir string

	switch {
	case overrideDir != "":
		dir = overrideDir

	case m.localDirExists():
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getting current directory: %w", err)
		}
		dir = filepath.Join(cwd, dirName)

	default:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		dir = filepath.Join(home, dirName)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating huddle directory %s: %w", dir, err)
	}

	return filepath.Abs(dir)
}

// LogPath returns the chat log path inside the resolved directory.
func (m *Manager) LogPath(overrideDir string) (string, error) {
	dir, err := m.Target(overrideDir)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, LogFile), nil
}

func (m *Manager) localDirExists() bool {
	cwd, err := os.Getwd()
	if err != nil {
		return false
	}

	info, err := os.Stat(filepath.Join(cwd, dirName))
	return err == nil && info.IsDir()
}
