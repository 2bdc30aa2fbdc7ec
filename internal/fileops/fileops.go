package fileops

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrConfigNotFound is returned when a configuration file does not exist
var ErrConfigNotFound = errors.New("configuration file not found")

// FileOps interface defines operations for managing files in the levelviz config directory
type FileOps interface {
	// GetConfigDir returns the full path to the levelviz config directory
	GetConfigDir() string

	// GetRecordingsDir returns the full path to the recordings directory
	GetRecordingsDir() string

	// SaveConfig saves data to a file in the config directory
	SaveConfig(filename string, data []byte) error

	// LoadConfig loads data from a file in the config directory
	LoadConfig(filename string) ([]byte, error)

	// ListRecordings returns a list of recordings in the recordings directory
	ListRecordings() ([]string, error)

	// DeleteRecording deletes a recording from the recordings directory
	DeleteRecording(filename string) error

	// EnsureDirectories creates necessary directories if they don't exist
	EnsureDirectories() error
}

// DefaultFileOps implements FileOps interface
type DefaultFileOps struct {
	configDir string
}

// NewDefaultFileOps creates a new DefaultFileOps instance
func NewDefaultFileOps() (*DefaultFileOps, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	return &DefaultFileOps{
		configDir: filepath.Join(homeDir, ".config", "levelviz"),
	}, nil
}

func (f *DefaultFileOps) GetConfigDir() string {
	return f.configDir
}

func (f *DefaultFileOps) GetRecordingsDir() string {
	return filepath.Join(f.configDir, "recordings")
}

func (f *DefaultFileOps) SaveConfig(filename string, data []byte) error {
	path := filepath.Join(f.configDir, filename)
	return os.WriteFile(path, data, 0o644)
}

func (f *DefaultFileOps) LoadConfig(filename string) ([]byte, error) {
	path := filepath.Join(f.configDir, filename)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, ErrConfigNotFound
	}
	return os.ReadFile(path)
}

func (f *DefaultFileOps) ListRecordings() ([]string, error) {
	files, err := os.ReadDir(f.GetRecordingsDir())
	if err != nil {
		return nil, err
	}

	var recordings []string
	for _, file := range files {
		if !file.IsDir() {
			recordings = append(recordings, file.Name())
		}
	}
	return recordings, nil
}

func (f *DefaultFileOps) DeleteRecording(filename string) error {
	path := filepath.Join(f.GetRecordingsDir(), filename)
	return os.Remove(path)
}

func (f *DefaultFileOps) EnsureDirectories() error {
	if err := os.MkdirAll(f.configDir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.MkdirAll(f.GetRecordingsDir(), 0o755); err != nil {
		return fmt.Errorf("failed to create recordings directory: %w", err)
	}

	return nil
}
